package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"cmore/internal/media"
)

// Source is the backend the catalog reads from.
type Source interface {
	FetchTree(ctx context.Context) ([]media.MainPage, error)
	FetchPage(ctx context.Context, pathOrURL string) (json.RawMessage, error)
	PathDataURL(ctx context.Context, visibleURL string) (*media.PathEntry, error)
	FetchTargetPath(ctx context.Context, target string) (json.RawMessage, error)
	Search(ctx context.Context, query string) ([]json.RawMessage, error)
	DynamicAPI(ctx context.Context) (string, error)
}

// Labels are the titles of the entries appended to the main menu.
type Labels struct {
	Favorites string
	Search    string
}

// DefaultLabels are the Finnish menu titles of the service.
var DefaultLabels = Labels{
	Favorites: "Suosikit",
	Search:    "Haku",
}

// Catalog walks the category tree: main pages, their subcategories and
// the pages behind them.
type Catalog struct {
	src     Source
	builder Builder
	labels  Labels
}

// New creates a catalog reading from src and building items with b.
func New(src Source, b Builder, labels Labels) *Catalog {
	return &Catalog{src: src, builder: b, labels: labels}
}

func (c *Catalog) build(ctx context.Context, nodes []json.RawMessage) ([]media.Item, error) {
	dyn, err := c.src.DynamicAPI(ctx)
	if err != nil {
		return nil, err
	}
	b := c.builder
	b.DynamicAPI = dyn
	return b.BuildList(nodes), nil
}

func (c *Catalog) folder(title string, route media.Route, action media.Action, art media.Art) media.Item {
	return media.Item{
		Title:  title,
		Action: action,
		Route:  route,
		Art:    art.WithDefaults(c.builder.Defaults),
	}
}

// MainPages lists the page tree followed by favorites and search.
func (c *Catalog) MainPages(ctx context.Context) ([]media.Item, error) {
	pages, err := c.src.FetchTree(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing main pages: %w", err)
	}
	dyn, err := c.src.DynamicAPI(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]media.Item, 0, len(pages)+2)
	for _, p := range pages {
		subs, err := json.Marshal(p.Subs)
		if err != nil {
			return nil, fmt.Errorf("encoding subcategories of %s: %w", p.Path, err)
		}
		if p.Subs == nil {
			subs = []byte("[]")
		}
		route := media.NewRoute(media.RouteListCategoriesOrVideos,
			"main_path", p.Path,
			"subs", string(subs))
		items = append(items, c.folder(p.Title.String(), route, media.OpenSubcategory, media.Art{Thumb: p.Image}))
	}

	items = append(items,
		c.folder(c.labels.Favorites, media.NewRoute(media.RouteListPage, "dataurl", dyn+"/favorites"), media.OpenPage, media.Art{}),
		c.folder(c.labels.Search, media.NewRoute(media.RouteSearch), media.OpenPage, media.Art{}),
	)
	return items, nil
}

// CategoriesOrVideos opens a main page. With several subcategories it
// lists them; with exactly one it opens that subcategory directly; with
// none it opens the main page's own path.
func (c *Catalog) CategoriesOrVideos(ctx context.Context, mainPath, subsJSON string) ([]media.Item, error) {
	var subs []media.Subcategory
	if subsJSON != "" {
		if err := json.Unmarshal([]byte(subsJSON), &subs); err != nil {
			return nil, fmt.Errorf("decoding subcategories: %w", err)
		}
	}

	switch len(subs) {
	case 0:
		return c.CategoryContent(ctx, mainPath)
	case 1:
		return c.CategoryContent(ctx, subs[0].Path)
	default:
		return c.Categories(subs), nil
	}
}

// Categories lists subcategories as folders.
func (c *Catalog) Categories(subs []media.Subcategory) []media.Item {
	items := make([]media.Item, 0, len(subs))
	for _, s := range subs {
		route := media.NewRoute(media.RouteListCategoryContent, "path", s.Path)
		items = append(items, c.folder(s.Title.String(), route, media.OpenSubcategory, media.Art{}))
	}
	return items
}

// CategoryContent opens the page behind a visible path, curated or not.
func (c *Catalog) CategoryContent(ctx context.Context, path string) ([]media.Item, error) {
	entry, err := c.src.PathDataURL(ctx, path)
	if err != nil {
		return nil, err
	}
	if entry.Curated() {
		return c.FeaturedCategories(ctx, entry.DataURL)
	}
	return c.Page(ctx, entry.DataURL)
}

type featuredEntry struct {
	Title     media.Text      `json:"title"`
	Component string          `json:"component"`
	Items     json.RawMessage `json:"items"`
	Targets   json.RawMessage `json:"targets"`
	Target    *struct {
		Path string `json:"path"`
	} `json:"target"`
}

// FeaturedCategories lists the sections of a curated page. Sections with
// items open inline or through their default target; sections with
// targets open a links menu. Untitled sections are skipped.
func (c *Catalog) FeaturedCategories(ctx context.Context, dataURL string) ([]media.Item, error) {
	raw, err := c.src.FetchPage(ctx, dataURL)
	if err != nil {
		return nil, err
	}
	sections, ok := NormalizePage(raw)
	if !ok {
		return nil, nil
	}

	var items []media.Item
	for _, s := range sections {
		var e featuredEntry
		if err := json.Unmarshal(s, &e); err != nil || e.Title == "" {
			continue
		}
		title := e.Title.String()

		if e.Items != nil {
			var route media.Route
			if e.Target != nil && e.Component == "default" {
				route = media.NewRoute(media.RouteListPageTarget, "target", e.Target.Path)
			} else {
				route = media.NewRoute(media.RouteListPageWithPageData, "page_data", string(e.Items))
			}
			items = append(items, c.folder(title, route, media.OpenSubcategory, media.Art{}))
		}
		if e.Targets != nil {
			route := media.NewRoute(media.RouteListCategoryLinks, "targets", string(e.Targets))
			items = append(items, c.folder(title, route, media.OpenSubcategory, media.Art{}))
		}
	}
	return items, nil
}

// CategoryLinks lists link targets as folders of their assets.
func (c *Catalog) CategoryLinks(ctx context.Context, targetsJSON string) ([]media.Item, error) {
	var targets []struct {
		Title media.Text `json:"title"`
		Path  string     `json:"path"`
	}
	if err := json.Unmarshal([]byte(targetsJSON), &targets); err != nil {
		return nil, fmt.Errorf("decoding link targets: %w", err)
	}

	dyn, err := c.src.DynamicAPI(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]media.Item, 0, len(targets))
	for _, t := range targets {
		if t.Title == "" {
			continue
		}
		url := fmt.Sprintf("%s/%s/assets?size=250", dyn, strings.TrimPrefix(t.Path, "/"))
		items = append(items, c.folder(t.Title.String(), media.NewRoute(media.RouteListPage, "dataurl", url), media.OpenPage, media.Art{}))
	}
	return items, nil
}

// Page lists the nodes of the page at dataURL.
func (c *Catalog) Page(ctx context.Context, dataURL string) ([]media.Item, error) {
	raw, err := c.src.FetchPage(ctx, dataURL)
	if err != nil {
		return nil, err
	}
	nodes, ok := NormalizePage(raw)
	if !ok {
		return nil, nil
	}
	return c.build(ctx, nodes)
}

// PageData lists nodes carried inline in a route.
func (c *Catalog) PageData(ctx context.Context, payload string) ([]media.Item, error) {
	var nodes []json.RawMessage
	if err := json.Unmarshal([]byte(payload), &nodes); err != nil {
		return nil, fmt.Errorf("decoding page data: %w", err)
	}
	return c.build(ctx, nodes)
}

// Target lists the result behind a target link.
func (c *Catalog) Target(ctx context.Context, target string) ([]media.Item, error) {
	raw, err := c.src.FetchTargetPath(ctx, target)
	if err != nil {
		return nil, err
	}
	var nodes []json.RawMessage
	if err := json.Unmarshal(raw, &nodes); err != nil {
		return nil, fmt.Errorf("decoding target result: %w", err)
	}
	return c.build(ctx, nodes)
}

// Search lists assets and categories matching query.
func (c *Catalog) Search(ctx context.Context, query string) ([]media.Item, error) {
	nodes, err := c.src.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	return c.build(ctx, nodes)
}
