package playback

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmore/internal/media"
	"cmore/internal/provider"
)

type fetcherFunc func(ctx context.Context, id string) (json.RawMessage, error)

func (f fetcherFunc) FetchStream(ctx context.Context, id string) (json.RawMessage, error) {
	return f(ctx, id)
}

func staticFetcher(doc string) Fetcher {
	return fetcherFunc(func(context.Context, string) (json.RawMessage, error) {
		return json.RawMessage(doc), nil
	})
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want media.StreamDescriptor
	}{
		{
			name: "first allowed format wins",
			doc: `{"playback":{"drmProtected":true,"items":{"item":[
				{"mediaFormat":"hls","url":"H","license":{"@uri":"HL","@name":"fairplay"}},
				{"mediaFormat":"mpd","url":"X","license":{"@uri":"L","@name":"W"}},
				{"mediaFormat":"ism","url":"Y","license":{"@uri":"L2","@name":"W2"}}
			]}}}`,
			want: media.StreamDescriptor{ManifestURL: "X", DRMProtected: true, LicenseURL: "L", DRMType: "W"},
		},
		{
			name: "single item is used without filtering",
			doc:  `{"playback":{"drmProtected":false,"items":{"item":{"mediaFormat":"hls","url":"S"}}}}`,
			want: media.StreamDescriptor{ManifestURL: "S"},
		},
		{
			name: "single protected item",
			doc:  `{"playback":{"drmProtected":true,"items":{"item":{"url":"S","license":{"@uri":"L","@name":"W"}}}}}`,
			want: media.StreamDescriptor{ManifestURL: "S", DRMProtected: true, LicenseURL: "L", DRMType: "W"},
		},
		{
			name: "no allowed format leaves manifest empty",
			doc:  `{"playback":{"drmProtected":false,"items":{"item":[{"mediaFormat":"hls","url":"H"}]}}}`,
			want: media.StreamDescriptor{},
		},
		{
			name: "unprotected list ignores license",
			doc:  `{"playback":{"drmProtected":false,"items":{"item":[{"mediaFormat":"ismusp","url":"U","license":{"@uri":"L","@name":"W"}}]}}}`,
			want: media.StreamDescriptor{ManifestURL: "U"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(context.Background(), staticFetcher(tt.doc), "1")
			require.NoError(t, err)
			assert.Equal(t, tt.want, *got)
		})
	}
}

func TestResolveErrors(t *testing.T) {
	unpublished := fetcherFunc(func(context.Context, string) (json.RawMessage, error) {
		return nil, provider.CheckEnvelope([]byte(`{"error":{"code":"ASSET_NOT_PUBLISHED"}}`))
	})
	_, err := Resolve(context.Background(), unpublished, "1")
	assert.True(t, errors.Is(err, provider.ErrAssetNotPublished))

	for _, doc := range []string{
		`not json`,
		`{"playback":{"drmProtected":false,"items":{}}}`,
		`{"playback":{"drmProtected":true,"items":{"item":{"url":"S"}}}}`,
	} {
		_, err := Resolve(context.Background(), staticFetcher(doc), "1")
		assert.Error(t, err, doc)
	}
}

func TestNewResolution(t *testing.T) {
	res := NewResolution(&media.StreamDescriptor{ManifestURL: "X", DRMProtected: true, LicenseURL: "L", DRMType: "widevine"})
	assert.Equal(t, "X", res.URL)
	assert.Equal(t, InputStreamAdaptive, res.InputStream)
	assert.Equal(t, ManifestTypeMPD, res.ManifestType)
	assert.Equal(t, LicenseTypeWidevine, res.LicenseType)
	assert.Equal(t, "L||R{SSM}|", res.LicenseKey)

	plain := NewResolution(&media.StreamDescriptor{ManifestURL: "Y"})
	assert.Empty(t, plain.LicenseType)
	assert.Empty(t, plain.LicenseKey)
}
