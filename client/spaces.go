package client

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/mwantia/onedatafs/data"
)

// SpaceDetails describes a space as reported by the Onezone.
type SpaceDetails struct {
	SpaceID   string         `json:"spaceId"`
	Name      string         `json:"name"`
	Providers map[string]any `json:"providers"`
}

// ProviderDetails describes a provider as reported by the Onezone.
type ProviderDetails struct {
	ProviderID string `json:"providerId"`
	Name       string `json:"name"`
	Domain     string `json:"domain"`
}

type spaceList struct {
	Spaces []string `json:"spaces"`
}

// ListSpaceIDs returns the ids of all spaces the token grants access to.
func (c *Client) ListSpaceIDs(ctx context.Context) ([]string, error) {
	var list spaceList
	if err := c.sendJSON(ctx, "GET", c.ozURL("/user/effective_spaces"), nil, &list); err != nil {
		return nil, err
	}

	return list.Spaces, nil
}

// GetSpaceDetails returns details of a space by id.
func (c *Client) GetSpaceDetails(ctx context.Context, spaceID string) (*SpaceDetails, error) {
	var details SpaceDetails
	url := c.ozURL(fmt.Sprintf("/user/effective_spaces/%s", spaceID))
	if err := c.sendJSON(ctx, "GET", url, nil, &details); err != nil {
		return nil, err
	}

	return &details, nil
}

// GetProviderDetails returns details of a provider by id.
func (c *Client) GetProviderDetails(ctx context.Context, providerID string) (*ProviderDetails, error) {
	var details ProviderDetails
	url := c.ozURL(fmt.Sprintf("/providers/%s", providerID))
	if err := c.sendJSON(ctx, "GET", url, nil, &details); err != nil {
		return nil, err
	}

	return &details, nil
}

// ListSpaces returns the names of all accessible spaces, sorted.
func (c *Client) ListSpaces(ctx context.Context) ([]string, error) {
	ids, err := c.ListSpaceIDs(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(ids))
	for _, id := range ids {
		details, err := c.GetSpaceDetails(ctx, id)
		if err != nil {
			return nil, err
		}
		names = append(names, details.Name)
		c.spaceIDs.Add(details.Name, id)
	}

	sort.Strings(names)
	return names, nil
}

// SpaceID resolves a space name to its id. Results are cached.
func (c *Client) SpaceID(ctx context.Context, space string) (string, error) {
	if id, ok := c.spaceIDs.Get(space); ok {
		return id, nil
	}

	ids, err := c.ListSpaceIDs(ctx)
	if err != nil {
		return "", err
	}

	for _, id := range ids {
		details, err := c.GetSpaceDetails(ctx, id)
		if err != nil {
			return "", err
		}

		c.spaceIDs.Add(details.Name, id)
		if details.Name == space {
			return id, nil
		}
	}

	return "", fmt.Errorf("%w: %s", data.ErrNoSpace, space)
}

// ProviderForSpace resolves the domain of a provider serving the given space.
// When multiple providers support the space one is picked at random, then
// kept for the cache lifetime so a session sticks to a single provider.
func (c *Client) ProviderForSpace(ctx context.Context, space string) (string, error) {
	if domain, ok := c.providers.Get(space); ok {
		return domain, nil
	}

	spaceID, err := c.SpaceID(ctx, space)
	if err != nil {
		return "", err
	}

	details, err := c.GetSpaceDetails(ctx, spaceID)
	if err != nil {
		return "", err
	}

	if len(details.Providers) == 0 {
		return "", fmt.Errorf("%w: space %s has no providers", data.ErrNoSpace, space)
	}

	providerIDs := make([]string, 0, len(details.Providers))
	for id := range details.Providers {
		providerIDs = append(providerIDs, id)
	}

	providerID := providerIDs[rand.Intn(len(providerIDs))]
	provider, err := c.GetProviderDetails(ctx, providerID)
	if err != nil {
		return "", err
	}

	c.providers.Add(space, provider.Domain)
	return provider.Domain, nil
}
