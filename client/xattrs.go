package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// GetXattrs returns extended attributes of a file. With no names given all
// attributes are returned. Values are reported as strings; non-string JSON
// values keep their raw encoding.
func (c *Client) GetXattrs(ctx context.Context, space, fileID string, names ...string) (map[string]string, error) {
	provider, err := c.ProviderForSpace(ctx, space)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	for _, name := range names {
		query.Add("attribute", name)
	}

	target := c.opURL(provider, fmt.Sprintf("/data/%s/metadata/xattrs", fileID))
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var raw map[string]json.RawMessage
	if err := c.sendJSON(ctx, "GET", target, nil, &raw); err != nil {
		return nil, err
	}

	xattrs := make(map[string]string, len(raw))
	for key, value := range raw {
		var s string
		if err := json.Unmarshal(value, &s); err == nil {
			xattrs[key] = s
		} else {
			xattrs[key] = string(value)
		}
	}

	return xattrs, nil
}

// SetXattrs sets extended attributes on a file.
func (c *Client) SetXattrs(ctx context.Context, space, fileID string, xattrs map[string]string) error {
	provider, err := c.ProviderForSpace(ctx, space)
	if err != nil {
		return err
	}

	target := c.opURL(provider, fmt.Sprintf("/data/%s/metadata/xattrs", fileID))
	return c.sendJSON(ctx, "PUT", target, xattrs, nil)
}

// RemoveXattrs removes extended attributes from a file.
func (c *Client) RemoveXattrs(ctx context.Context, space, fileID string, names ...string) error {
	if len(names) == 0 {
		return nil
	}

	provider, err := c.ProviderForSpace(ctx, space)
	if err != nil {
		return err
	}

	target := c.opURL(provider, fmt.Sprintf("/data/%s/metadata/xattrs", fileID))
	return c.sendJSON(ctx, "DELETE", target, map[string][]string{"keys": names}, nil)
}
