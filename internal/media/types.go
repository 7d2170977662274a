// Package media defines shared types for the cmore application.
package media

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Action is the navigation behaviour of a listed item.
type Action int

const (
	Noop Action = iota
	OpenSubcategory
	OpenPage
	Play
)

func (a Action) String() string {
	switch a {
	case OpenSubcategory:
		return "open-subcategory"
	case OpenPage:
		return "open-page"
	case Play:
		return "play"
	default:
		return "noop"
	}
}

// MarshalText renders the action by name in JSON output.
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ContentKind hints the host how to lay out a listing.
type ContentKind string

const (
	ContentNone     ContentKind = ""
	ContentMovies   ContentKind = "movies"
	ContentEpisodes ContentKind = "episodes"
	ContentVideos   ContentKind = "videos"
)

// MediaType keys the metadata attached to an item.
type MediaType string

const (
	MediaMovie   MediaType = "movie"
	MediaEpisode MediaType = "episode"
	MediaSeason  MediaType = "season"
	MediaTVShow  MediaType = "tvshow"
	MediaVideo   MediaType = "video"
)

// Art holds artwork URLs for an item.
type Art struct {
	Fanart string `json:"fanart,omitempty"`
	Thumb  string `json:"thumb,omitempty"`
	Cover  string `json:"cover,omitempty"`
	Poster string `json:"poster,omitempty"`
	Icon   string `json:"icon,omitempty"`
}

// WithDefaults fills the icon and fanart from def where the item has none.
func (a Art) WithDefaults(def Art) Art {
	if a.Icon == "" {
		a.Icon = def.Icon
	}
	if a.Fanart == "" {
		a.Fanart = def.Fanart
	}
	return a
}

// Info is the structured video/show metadata for an item.
type Info struct {
	MediaType   MediaType `json:"mediatype"`
	Title       string    `json:"title,omitempty"`
	TVShowTitle string    `json:"tvshowtitle,omitempty"`
	Plot        string    `json:"plot,omitempty"`
	Cast        []string  `json:"cast,omitempty"`
	Country     string    `json:"country,omitempty"`
	MPAA        string    `json:"mpaa,omitempty"`
	IMDBNumber  string    `json:"imdbnumber,omitempty"`
	Director    string    `json:"director,omitempty"`
	Duration    int       `json:"duration,omitempty"`
	Year        int       `json:"year,omitempty"`
	Genre       string    `json:"genre,omitempty"`
	Season      int       `json:"season,omitempty"`
	Episode     int       `json:"episode,omitempty"`
}

// Item is one normalized entry of a listing.
type Item struct {
	Title    string      `json:"title"`
	Action   Action      `json:"action"`
	Route    Route       `json:"route"`
	Art      Art         `json:"art"`
	Info     *Info       `json:"info,omitempty"`
	Playable bool        `json:"playable"`
	Content  ContentKind `json:"content,omitempty"`
}

// PathEntry maps a visible navigation path to the URL its data is fetched from.
type PathEntry struct {
	VisibleURL string `json:"visibleUrl"`
	Path       string `json:"path"`
	DataURL    string `json:"dataUrl"`
	Type       string `json:"type"`
}

// Curated reports whether the path points at a hand-assembled page.
func (p PathEntry) Curated() bool {
	return p.Type == "curated"
}

// MainPage is a top-level entry of the page tree.
type MainPage struct {
	Title Text          `json:"title"`
	Path  string        `json:"path"`
	Image string        `json:"image"`
	Subs  []Subcategory `json:"subs"`
}

// Subcategory is a child path of a main page.
type Subcategory struct {
	Title Text   `json:"title"`
	Path  string `json:"path"`
}

// StreamDescriptor is the playable manifest of an asset.
type StreamDescriptor struct {
	ManifestURL  string `json:"mpd_url"`
	DRMProtected bool   `json:"drm_protected"`
	LicenseURL   string `json:"license_url,omitempty"`
	DRMType      string `json:"drm_type,omitempty"`
}

// PlayResolution is what the host playback component needs to start a stream.
type PlayResolution struct {
	URL          string `json:"url"`
	InputStream  string `json:"inputstream"`
	ManifestType string `json:"manifest_type"`
	LicenseType  string `json:"license_type,omitempty"`
	LicenseKey   string `json:"license_key,omitempty"`
}

// Notice is a blocking message the host should show to the user.
type Notice struct {
	Heading string `json:"heading"`
	Message string `json:"message"`
}

// Text is a JSON string the backend sometimes sends as a bare number
// (program names such as 112).
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*t = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	*t = Text(b)
	return nil
}

func (t Text) String() string { return string(t) }

// Int returns the numeric value of t, or 0.
func (t Text) Int() int {
	s := strings.TrimSpace(string(t))
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f)
	}
	return 0
}
