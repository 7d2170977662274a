package catalog

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"cmore/internal/media"
)

const (
	eventTimeLayout = "2006-01-02T15:04:05Z"
	epgTimeLayout   = "2006-01-02T15:04:05"
	displayLayout   = "02.01.2006 15:04"
)

// Builder turns page nodes into items. The zero value is usable; set
// DynamicAPI before building season folders.
type Builder struct {
	// DynamicAPI is the base URL of the dynamic API.
	DynamicAPI string
	// Prefer50fps plays the 50fps variant of live events when available.
	Prefer50fps bool
	// Defaults fill in artwork for items that have none.
	Defaults media.Art
	// Now returns the current instant. Defaults to time.Now.
	Now func() time.Time
	// Location renders event times. Defaults to time.Local.
	Location *time.Location
}

func (b *Builder) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b *Builder) location() *time.Location {
	if b.Location != nil {
		return b.Location
	}
	return time.Local
}

// BuildList builds one item per recognised node, preserving order.
// Unrecognised and malformed nodes are skipped.
func (b *Builder) BuildList(nodes []json.RawMessage) []media.Item {
	items := make([]media.Item, 0, len(nodes))
	for _, raw := range nodes {
		if item, ok := b.Item(raw); ok {
			items = append(items, item)
		}
	}
	return items
}

// Item builds the item for a single node.
func (b *Builder) Item(raw json.RawMessage) (media.Item, bool) {
	kind := Classify(raw)
	if kind == Unrecognized {
		log.Debugf("skipping unrecognised node: %.120s", raw)
		return media.Item{}, false
	}

	var n node
	if err := json.Unmarshal(raw, &n); err != nil {
		log.Debugf("skipping malformed %s node: %v", kind, err)
		return media.Item{}, false
	}

	item, err := b.build(kind, &n)
	if err != nil {
		log.Debugf("skipping %s node: %v", kind, err)
		return media.Item{}, false
	}
	if item.Title == "" {
		log.Debugf("skipping untitled %s node %s", kind, n.ID)
		return media.Item{}, false
	}

	item.Art = item.Art.WithDefaults(b.Defaults)
	return item, true
}

func (b *Builder) build(kind Kind, n *node) (media.Item, error) {
	switch kind {
	case AssetWrapper:
		var asset node
		if err := json.Unmarshal(n.Asset, &asset); err != nil {
			return media.Item{}, fmt.Errorf("decoding asset: %w", err)
		}
		if asset.Type == "sport" {
			return b.event(&asset)
		}
		return b.movie(&asset), nil
	case CategoryWrapper:
		var category node
		if err := json.Unmarshal(n.Category, &category); err != nil {
			return media.Item{}, fmt.Errorf("decoding category: %w", err)
		}
		return b.tvShow(&category), nil
	case Movie:
		return b.movie(n), nil
	case SeriesWithGroups:
		return b.tvShow(n), nil
	case SeriesWithCategoryID:
		return b.episode(n), nil
	case SeriesBare, SportWithGroups:
		return b.season(n), nil
	case SportBare:
		return b.event(n)
	case Channel:
		return b.channel(n)
	}
	return media.Item{}, fmt.Errorf("no builder for %s", kind)
}

func playRoute(id string) media.Route {
	return media.NewRoute(media.RoutePlay, "video_id", id)
}

func (b *Builder) movie(n *node) media.Item {
	return media.Item{
		Title:  n.Title.String(),
		Action: media.Play,
		Route:  playRoute(n.ID.String()),
		Art:    n.Images.art(),
		Info: &media.Info{
			MediaType:  media.MediaMovie,
			Title:      n.Title.String(),
			Plot:       plainText(n.Description),
			Cast:       n.Actors.cast(),
			Country:    n.ProductionCountries.joined(),
			MPAA:       n.ParentalRating.String(),
			IMDBNumber: n.IMDBID.String(),
			Director:   n.Director.joined(),
			Duration:   n.Duration.Int(),
			Year:       n.ProductionYear.Int(),
			Genre:      n.Genres.joined(),
		},
		Playable: true,
		Content:  media.ContentMovies,
	}
}

func (b *Builder) episode(n *node) media.Item {
	title := n.Subtitle.String()
	if title == "" {
		title = n.Title.String()
	}
	return media.Item{
		Title:  title,
		Action: media.Play,
		Route:  playRoute(n.ID.String()),
		Art:    n.Images.art(),
		Info: &media.Info{
			MediaType:   media.MediaEpisode,
			Title:       n.Subtitle.String(),
			TVShowTitle: n.Title.String(),
			Season:      n.Season.Int(),
			Episode:     n.Episode.Int(),
			Plot:        plainText(n.Description),
			Cast:        n.Actors.cast(),
			Director:    n.Director.joined(),
			Duration:    n.Duration.Int(),
			Genre:       n.Genres.joined(),
		},
		Playable: true,
		Content:  media.ContentEpisodes,
	}
}

// tvShow opens the show's season groups, carried inline in the route.
func (b *Builder) tvShow(n *node) media.Item {
	title := n.Title.String()
	groups := string(n.Groups)
	if groups == "" {
		groups = "[]"
	}
	return media.Item{
		Title:  title,
		Action: media.OpenSubcategory,
		Route:  media.NewRoute(media.RouteListPageWithPageData, "page_data", groups),
		Art:    n.Images.art(),
		Info: &media.Info{
			MediaType:   media.MediaTVShow,
			Title:       title,
			TVShowTitle: title,
			Plot:        plainText(n.Description),
		},
	}
}

// season opens the assets of a category by id.
func (b *Builder) season(n *node) media.Item {
	url := fmt.Sprintf("%s/category/%s/assets?size=250", b.DynamicAPI, n.ID)
	return media.Item{
		Title:  n.Title.String(),
		Action: media.OpenPage,
		Route:  media.NewRoute(media.RouteListPage, "dataurl", url),
		Art:    n.Images.art(),
		Info: &media.Info{
			MediaType: media.MediaSeason,
			Plot:      n.Title.String(),
		},
	}
}

// event lists a sport broadcast. Upcoming events cannot be played yet.
func (b *Builder) event(n *node) (media.Item, error) {
	start, err := time.Parse(eventTimeLayout, n.LiveBroadcastTime)
	if err != nil {
		return media.Item{}, fmt.Errorf("parsing broadcast time: %w", err)
	}

	item := media.Item{
		Art: n.Images.art(),
		Info: &media.Info{
			MediaType:   media.MediaVideo,
			Title:       n.Subtitle.String(),
			TVShowTitle: n.Title.String(),
			Plot:        plainText(n.Description),
			Duration:    n.Duration.Int(),
		},
		Content: media.ContentVideos,
	}

	status := StatusLive
	if start.After(b.now().UTC()) {
		status = StatusUpcoming
		item.Action = media.Noop
		item.Route = media.NewRoute(media.RouteNoop)
	} else {
		id := n.ID.String()
		if b.Prefer50fps && n.FiftyFPS != "" && bool(n.Live) {
			id = n.FiftyFPS.String()
		}
		item.Action = media.Play
		item.Route = playRoute(id)
		item.Playable = true
	}

	when := Colorize(start.In(b.location()).Format(displayLayout), status)
	item.Title = fmt.Sprintf("%s %s", Bold(when+":"), n.Subtitle)
	return item, nil
}

// channel lists a linear channel with the program airing now.
func (b *Builder) channel(n *node) (media.Item, error) {
	if len(n.EPG) == 0 {
		return media.Item{}, fmt.Errorf("channel %s has no program guide", n.Channel.ID)
	}
	prog := n.EPG[0]

	airing, err := time.Parse(epgTimeLayout, strings.SplitN(prog.EPGLiveBroadcastTime, "+", 2)[0])
	if err != nil {
		return media.Item{}, fmt.Errorf("parsing program time: %w", err)
	}

	landscape := prog.Images.landscape()
	header := Colorize(n.Channel.Title.String(), StatusLive) + " " + Colorize(airing.Format(displayLayout), StatusLive)

	return media.Item{
		Title:  fmt.Sprintf("%s: %s", Bold(header), prog.Title),
		Action: media.Play,
		Route:  playRoute(n.Channel.ID.String()),
		Art: media.Art{
			Fanart: landscape,
			Thumb:  landscape,
			Cover:  landscape,
			Icon:   n.Channel.Images.landscape(),
		},
		Info: &media.Info{
			MediaType: media.MediaVideo,
			Title:     prog.Title.String(),
			Plot:      plainText(prog.Description),
		},
		Playable: true,
		Content:  media.ContentEpisodes,
	}, nil
}

// ContentOf returns the content hint for a listing: the hint of its last
// item that has one.
func ContentOf(items []media.Item) media.ContentKind {
	kind := media.ContentNone
	for _, it := range items {
		if it.Content != media.ContentNone {
			kind = it.Content
		}
	}
	return kind
}
