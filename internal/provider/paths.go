package provider

import (
	"context"
	"encoding/json"
	"fmt"

	"cmore/internal/media"
)

// Path index lookups are keyed either by the path shown to users or by the
// path component of a target link.
const (
	byVisibleURL = "visible:"
	byPath       = "path:"
)

// FetchPathIndex fetches the path index and refreshes the lookup cache.
func (c *Client) FetchPathIndex(ctx context.Context) ([]media.PathEntry, error) {
	raw, err := c.FetchPage(ctx, "/paths")
	if err != nil {
		return nil, err
	}

	var entries []media.PathEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("decoding path index: %w", err)
	}

	seen := make(map[string]bool, 2*len(entries))
	for _, e := range entries {
		c.cachePath(byVisibleURL+e.VisibleURL, e, seen)
		c.cachePath(byPath+e.Path, e, seen)
	}

	return entries, nil
}

// PathDataURL returns the path index entry shown to users as visibleURL.
func (c *Client) PathDataURL(ctx context.Context, visibleURL string) (*media.PathEntry, error) {
	return c.lookupPath(ctx, byVisibleURL, visibleURL)
}

func (c *Client) lookupPath(ctx context.Context, kind, key string) (*media.PathEntry, error) {
	if e, ok := c.cachedPath(kind + key); ok {
		return e, nil
	}

	entries, err := c.FetchPathIndex(ctx)
	if err != nil {
		return nil, err
	}
	for i := range entries {
		e := &entries[i]
		if (kind == byVisibleURL && e.VisibleURL == key) || (kind == byPath && e.Path == key) {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrPathNotFound, key)
}

// cachePath stores the first entry seen for key.
func (c *Client) cachePath(key string, e media.PathEntry, seen map[string]bool) {
	if seen[key] {
		return
	}
	seen[key] = true

	data, err := json.Marshal(e)
	if err != nil {
		return
	}
	_ = c.paths.Set([]byte(key), data, pathCacheTTL)
}

func (c *Client) cachedPath(key string) (*media.PathEntry, bool) {
	data, err := c.paths.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	var e media.PathEntry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, false
	}
	return &e, true
}
