// Package playback resolves assets into stream manifests and the
// parameters an adaptive DRM player needs to start them.
package playback

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"cmore/internal/media"
)

const (
	InputStreamAdaptive = "inputstream.adaptive"
	ManifestTypeMPD     = "mpd"
	LicenseTypeWidevine = "com.widevine.alpha"
)

// allowedFormats are the media formats accepted from a list of stream items.
var allowedFormats = map[string]bool{
	"ism":    true,
	"ismusp": true,
	"mpd":    true,
}

// Fetcher returns the raw playback document of an asset.
type Fetcher interface {
	FetchStream(ctx context.Context, assetID string) (json.RawMessage, error)
}

type license struct {
	URI  string `json:"@uri"`
	Name string `json:"@name"`
}

type streamItem struct {
	MediaFormat string   `json:"mediaFormat"`
	URL         string   `json:"url"`
	License     *license `json:"license"`
}

type playDocument struct {
	Playback struct {
		DRMProtected bool `json:"drmProtected"`
		Items        struct {
			Item json.RawMessage `json:"item"`
		} `json:"items"`
	} `json:"playback"`
}

// Resolve fetches the playback document of assetID and picks its manifest.
// Service errors, including an unpublished asset, are returned unchanged.
func Resolve(ctx context.Context, f Fetcher, assetID string) (*media.StreamDescriptor, error) {
	raw, err := f.FetchStream(ctx, assetID)
	if err != nil {
		return nil, err
	}
	return Parse(raw)
}

// Parse extracts the stream descriptor from a playback document. When the
// document lists several items the first in an allowed format wins; a
// single item is used as is. If no listed item qualifies the descriptor has
// no manifest URL.
func Parse(raw json.RawMessage) (*media.StreamDescriptor, error) {
	var doc playDocument
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decoding playback document: %w", err)
	}

	desc := &media.StreamDescriptor{DRMProtected: doc.Playback.DRMProtected}

	item, err := pickItem(doc.Playback.Items.Item)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return desc, nil
	}

	desc.ManifestURL = item.URL
	if desc.DRMProtected {
		if item.License == nil {
			return nil, fmt.Errorf("protected stream %s has no license", item.URL)
		}
		desc.LicenseURL = item.License.URI
		desc.DRMType = item.License.Name
	}
	return desc, nil
}

func pickItem(raw json.RawMessage) (*streamItem, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || string(raw) == "null" {
		return nil, fmt.Errorf("playback document has no stream items")
	}

	if raw[0] != '[' {
		var item streamItem
		if err := json.Unmarshal(raw, &item); err != nil {
			return nil, fmt.Errorf("decoding stream item: %w", err)
		}
		return &item, nil
	}

	var items []streamItem
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("decoding stream items: %w", err)
	}
	for i := range items {
		if allowedFormats[items[i].MediaFormat] {
			return &items[i], nil
		}
	}
	return nil, nil
}

// NewResolution builds what the host player needs to start desc.
func NewResolution(desc *media.StreamDescriptor) *media.PlayResolution {
	res := &media.PlayResolution{
		URL:          desc.ManifestURL,
		InputStream:  InputStreamAdaptive,
		ManifestType: ManifestTypeMPD,
	}
	if desc.DRMProtected {
		res.LicenseType = LicenseTypeWidevine
		res.LicenseKey = desc.LicenseURL + "||R{SSM}|"
	}
	return res
}
