package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/mwantia/onedatafs/data"
)

// DirPage is one page of a paginated directory listing.
type DirPage struct {
	Children      []*data.Attributes `json:"children"`
	IsLast        bool               `json:"isLast"`
	NextPageToken string             `json:"nextPageToken"`
}

func fileIDKey(space, path string) string {
	return space + "\x00" + path
}

// LookupFileID resolves a space-relative path to a file id. Results are
// cached until invalidated by a mutation.
func (c *Client) LookupFileID(ctx context.Context, space, path string) (string, error) {
	key := fileIDKey(space, path)
	if id, ok := c.fileIDs.Get(key); ok {
		return id, nil
	}

	provider, err := c.ProviderForSpace(ctx, space)
	if err != nil {
		return "", err
	}

	var result struct {
		FileID string `json:"fileId"`
	}

	lookup := c.opURL(provider, fmt.Sprintf("/lookup-file-id/%s/%s",
		url.PathEscape(space), escapePath(path)))
	if err := c.sendJSON(ctx, "POST", lookup, nil, &result); err != nil {
		return "", err
	}

	c.fileIDs.Add(key, result.FileID)
	return result.FileID, nil
}

// InvalidatePath drops the cached file id for a path and everything below it.
func (c *Client) InvalidatePath(space, path string) {
	key := fileIDKey(space, path)
	c.fileIDs.Remove(key)

	prefix := key + "/"
	for _, cached := range c.fileIDs.Keys() {
		if strings.HasPrefix(cached, prefix) {
			c.fileIDs.Remove(cached)
		}
	}
}

// resolveFileID resolves a path to a file id. An empty path refers to the
// space root, whose id is the space id itself.
func (c *Client) resolveFileID(ctx context.Context, space, path string) (string, error) {
	if path == "" {
		return c.SpaceID(ctx, space)
	}

	return c.LookupFileID(ctx, space, path)
}

// GetAttributes returns the attributes of a file or directory by path.
func (c *Client) GetAttributes(ctx context.Context, space, path string) (*data.Attributes, error) {
	fileID, err := c.resolveFileID(ctx, space, path)
	if err != nil {
		return nil, err
	}

	return c.GetAttributesByID(ctx, space, fileID)
}

// GetAttributesByID returns the attributes of a file or directory by id.
func (c *Client) GetAttributesByID(ctx context.Context, space, fileID string) (*data.Attributes, error) {
	provider, err := c.ProviderForSpace(ctx, space)
	if err != nil {
		return nil, err
	}

	var attrs data.Attributes
	target := c.opURL(provider, fmt.Sprintf("/data/%s", fileID))
	if err := c.sendJSON(ctx, "GET", target, nil, &attrs); err != nil {
		return nil, err
	}

	return &attrs, nil
}

// SetAttributes updates mutable attributes (mode, size) of a file by path.
func (c *Client) SetAttributes(ctx context.Context, space, path string, update *data.AttributeUpdate) error {
	fileID, err := c.resolveFileID(ctx, space, path)
	if err != nil {
		return err
	}

	return c.SetAttributesByID(ctx, space, fileID, update)
}

// SetAttributesByID updates mutable attributes of a file by id.
func (c *Client) SetAttributesByID(ctx context.Context, space, fileID string, update *data.AttributeUpdate) error {
	provider, err := c.ProviderForSpace(ctx, space)
	if err != nil {
		return err
	}

	target := c.opURL(provider, fmt.Sprintf("/data/%s", fileID))
	return c.sendJSON(ctx, "PUT", target, update, nil)
}

// TruncateFile changes the size of a file. Shrinking discards data, growing
// pads with zeros.
func (c *Client) TruncateFile(ctx context.Context, space, fileID string, size int64) error {
	return c.SetAttributesByID(ctx, space, fileID, &data.AttributeUpdate{Size: &size})
}

// ReadDir returns one page of a directory listing. Pass the NextPageToken of
// the previous page to continue; an empty token starts from the beginning.
func (c *Client) ReadDir(ctx context.Context, space, dirPath string, limit int, token string) (*DirPage, error) {
	dirID, err := c.resolveFileID(ctx, space, dirPath)
	if err != nil {
		return nil, err
	}

	provider, err := c.ProviderForSpace(ctx, space)
	if err != nil {
		return nil, err
	}

	query := url.Values{}
	query["attribute"] = []string{"fileId", "name", "type", "mode", "size", "atime", "mtime"}
	if limit > 0 {
		query.Set("limit", strconv.Itoa(limit))
	}
	if token != "" {
		query.Set("token", token)
	}

	var page DirPage
	target := c.opURL(provider, fmt.Sprintf("/data/%s/children?%s", dirID, query.Encode()))
	if err := c.sendJSON(ctx, "GET", target, nil, &page); err != nil {
		return nil, err
	}

	return &page, nil
}

// ReadContent reads up to len(buf) bytes of file content starting at offset.
// A short count with a nil error indicates the end of the file.
func (c *Client) ReadContent(ctx context.Context, space, fileID string, offset int64, buf []byte) (int, error) {
	if len(buf) == 0 {
		return 0, nil
	}

	provider, err := c.ProviderForSpace(ctx, space)
	if err != nil {
		return 0, err
	}

	header := http.Header{}
	header.Set("Range", fmt.Sprintf("bytes=%d-%d", offset, offset+int64(len(buf))-1))

	target := c.opURL(provider, fmt.Sprintf("/data/%s/content", fileID))
	resp, err := c.send(ctx, "GET", target, nil, header)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	n, err := io.ReadFull(resp.Body, buf)
	if err == io.EOF || err == io.ErrUnexpectedEOF {
		err = nil
	}

	return n, err
}

// WriteContent writes the buffer to the file starting at offset.
func (c *Client) WriteContent(ctx context.Context, space, fileID string, offset int64, p []byte) (int, error) {
	provider, err := c.ProviderForSpace(ctx, space)
	if err != nil {
		return 0, err
	}

	header := http.Header{}
	header.Set("Content-Type", "application/octet-stream")

	target := c.opURL(provider, fmt.Sprintf("/data/%s/content?offset=%d", fileID, offset))
	resp, err := c.send(ctx, "PUT", target, p, header)
	if err != nil {
		return 0, err
	}
	resp.Body.Close()

	return len(p), nil
}

// CreateFile creates a file or directory at the given path and returns its id.
func (c *Client) CreateFile(ctx context.Context, space, path string, fileType data.FileType, createParents bool) (string, error) {
	spaceID, err := c.SpaceID(ctx, space)
	if err != nil {
		return "", err
	}

	provider, err := c.ProviderForSpace(ctx, space)
	if err != nil {
		return "", err
	}

	var result struct {
		FileID string `json:"fileId"`
	}

	target := c.opURL(provider, fmt.Sprintf("/data/%s/path/%s?type=%s&create_parents=%t",
		spaceID, escapePath(path), fileType, createParents))
	if err := c.sendJSON(ctx, "PUT", target, nil, &result); err != nil {
		return "", err
	}

	c.fileIDs.Add(fileIDKey(space, path), result.FileID)
	return result.FileID, nil
}

// Remove deletes the file or directory at the given path.
func (c *Client) Remove(ctx context.Context, space, path string) error {
	spaceID, err := c.SpaceID(ctx, space)
	if err != nil {
		return err
	}

	provider, err := c.ProviderForSpace(ctx, space)
	if err != nil {
		return err
	}

	target := c.opURL(provider, fmt.Sprintf("/data/%s/path/%s", spaceID, escapePath(path)))
	if err := c.sendJSON(ctx, "DELETE", target, nil, nil); err != nil {
		return err
	}

	c.InvalidatePath(space, path)
	return nil
}

// Move renames a file or directory, possibly across spaces, through the
// provider's CDMI endpoint.
func (c *Client) Move(ctx context.Context, srcSpace, srcPath, dstSpace, dstPath string) error {
	provider, err := c.ProviderForSpace(ctx, dstSpace)
	if err != nil {
		return err
	}

	body, err := json.Marshal(map[string]string{
		"move": fmt.Sprintf("%s/%s", srcSpace, srcPath),
	})
	if err != nil {
		return err
	}

	header := http.Header{}
	header.Set("X-CDMI-Specification-Version", "1.1.1")
	header.Set("Content-Type", "application/cdmi-object")

	target := fmt.Sprintf("https://%s/cdmi/%s/%s",
		provider, url.PathEscape(dstSpace), escapePath(dstPath))
	resp, err := c.send(ctx, "PUT", target, body, header)
	if err != nil {
		return err
	}
	resp.Body.Close()

	c.InvalidatePath(srcSpace, srcPath)
	c.InvalidatePath(dstSpace, dstPath)
	return nil
}
