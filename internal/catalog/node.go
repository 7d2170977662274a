package catalog

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"cmore/internal/media"
)

type image struct {
	URL string `json:"url"`
}

type images struct {
	Landscape []image `json:"landscape"`
	Portrait  []image `json:"portrait"`
}

// landscape returns the last, largest landscape variant.
func (i *images) landscape() string {
	if i == nil || len(i.Landscape) == 0 {
		return ""
	}
	return i.Landscape[len(i.Landscape)-1].URL
}

// portrait returns the last, largest portrait variant.
func (i *images) portrait() string {
	if i == nil || len(i.Portrait) == 0 {
		return ""
	}
	return i.Portrait[len(i.Portrait)-1].URL
}

func (i *images) art() media.Art {
	l := i.landscape()
	return media.Art{Fanart: l, Thumb: l, Cover: l, Poster: i.portrait()}
}

// textList accepts either a string or a list of strings.
type textList []string

func (l *textList) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*l = nil
		return nil
	}
	if b[0] == '[' {
		var items []media.Text
		if err := json.Unmarshal(b, &items); err != nil {
			return err
		}
		out := make([]string, 0, len(items))
		for _, it := range items {
			out = append(out, it.String())
		}
		*l = out
		return nil
	}
	var t media.Text
	if err := json.Unmarshal(b, &t); err != nil {
		return err
	}
	if t == "" {
		*l = nil
		return nil
	}
	*l = textList{t.String()}
	return nil
}

func (l textList) joined() string {
	return strings.Join(l, ", ")
}

// cast splits a comma separated actor list.
func (l textList) cast() []string {
	var out []string
	for _, s := range l {
		for _, name := range strings.Split(s, ", ") {
			if name != "" {
				out = append(out, name)
			}
		}
	}
	return out
}

// flag is a JSON value read for truthiness.
type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	*f = flag(truthy(b))
	return nil
}

type channelInfo struct {
	ID     media.Text `json:"id"`
	Title  media.Text `json:"title"`
	Images *images    `json:"images"`
}

type program struct {
	Title                media.Text `json:"title"`
	Description          string     `json:"description"`
	EPGLiveBroadcastTime string     `json:"epgLiveBroadcastTime"`
	Images               *images    `json:"images"`
}

// node is the union of the fields any page node may carry.
type node struct {
	ID                  media.Text      `json:"id"`
	Type                string          `json:"type"`
	Title               media.Text      `json:"title"`
	Subtitle            media.Text      `json:"subtitle"`
	Description         string          `json:"description"`
	Actors              textList        `json:"actors"`
	Director            textList        `json:"director"`
	Genres              textList        `json:"genres"`
	ProductionCountries textList        `json:"productionCountries"`
	ParentalRating      media.Text      `json:"parentalRating"`
	IMDBID              media.Text      `json:"imdbId"`
	ProductionYear      media.Text      `json:"productionYear"`
	Duration            media.Text      `json:"duration"`
	Season              media.Text      `json:"season"`
	Episode             media.Text      `json:"episode"`
	Images              *images         `json:"images"`
	LiveBroadcastTime   string          `json:"liveBroadcastTime"`
	FiftyFPS            media.Text      `json:"50fps"`
	Live                flag            `json:"live"`
	Groups              json.RawMessage `json:"groups"`
	Asset               json.RawMessage `json:"asset"`
	Category            json.RawMessage `json:"category"`
	Channel             *channelInfo    `json:"channel"`
	EPG                 []program       `json:"epg"`
}

// plainText strips HTML markup some descriptions carry.
func plainText(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}
