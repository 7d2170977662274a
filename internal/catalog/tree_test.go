package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmore/internal/media"
)

const dyn = "https://dyn.example.com"

// fakeSource serves canned pages and records what was asked for.
type fakeSource struct {
	tree    []media.MainPage
	paths   map[string]media.PathEntry
	pages   map[string]string
	targets map[string]string
	search  []json.RawMessage

	fetched  []string
	resolved []string
}

func (f *fakeSource) FetchTree(context.Context) ([]media.MainPage, error) {
	return f.tree, nil
}

func (f *fakeSource) FetchPage(_ context.Context, u string) (json.RawMessage, error) {
	f.fetched = append(f.fetched, u)
	p, ok := f.pages[u]
	if !ok {
		return nil, errors.New("no page " + u)
	}
	return json.RawMessage(p), nil
}

func (f *fakeSource) PathDataURL(_ context.Context, visible string) (*media.PathEntry, error) {
	f.resolved = append(f.resolved, visible)
	e, ok := f.paths[visible]
	if !ok {
		return nil, errors.New("no path " + visible)
	}
	return &e, nil
}

func (f *fakeSource) FetchTargetPath(_ context.Context, target string) (json.RawMessage, error) {
	r, ok := f.targets[target]
	if !ok {
		return nil, errors.New("no target " + target)
	}
	return json.RawMessage(r), nil
}

func (f *fakeSource) Search(context.Context, string) ([]json.RawMessage, error) {
	return f.search, nil
}

func (f *fakeSource) DynamicAPI(context.Context) (string, error) {
	return dyn, nil
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		paths: map[string]media.PathEntry{
			"/elokuvat":        {VisibleURL: "/elokuvat", DataURL: "https://data/elokuvat"},
			"/elokuvat/draama": {VisibleURL: "/elokuvat/draama", DataURL: "https://data/draama"},
			"/poiminnat":       {VisibleURL: "/poiminnat", DataURL: "https://data/poiminnat", Type: "curated"},
		},
		pages: map[string]string{
			"https://data/elokuvat": `{"result":[{"type":"movie","id":"1","title":"Kaikki"}]}`,
			"https://data/draama":   `{"result":[{"type":"movie","id":"2","title":"Draama"}]}`,
			"https://data/poiminnat": `{"category":{"groups":[
				{"title":"Uutuudet","component":"default","items":[{"type":"movie","id":"3","title":"Uusi"}],"target":{"path":"/elokuvat?sort=newest"}},
				{"title":"Suositut","component":"carousel","items":[{"type":"movie","id":"4","title":"Hitti"}]},
				{"title":"Lajit","targets":[{"title":"Formula 1","path":"urheilu/f1"},{"title":"Golf","path":"/urheilu/golf"}]},
				{"items":[{"type":"movie","id":"5","title":"Nimetön"}]}
			]}}`,
		},
	}
}

func newTestCatalog(src Source) *Catalog {
	return New(src, Builder{Defaults: media.Art{Icon: "icon.png"}}, DefaultLabels)
}

func TestMainPages(t *testing.T) {
	src := newFakeSource()
	src.tree = []media.MainPage{
		{Title: "Elokuvat", Path: "/elokuvat", Image: "https://img/e.jpg", Subs: []media.Subcategory{{Title: "Draama", Path: "/elokuvat/draama"}}},
		{Title: "Urheilu", Path: "/urheilu"},
	}

	items, err := newTestCatalog(src).MainPages(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 4)

	assert.Equal(t, "Elokuvat", items[0].Title)
	assert.Equal(t, media.RouteListCategoriesOrVideos, items[0].Route.Action())
	assert.Equal(t, "/elokuvat", items[0].Route["main_path"])
	assert.JSONEq(t, `[{"title":"Draama","path":"/elokuvat/draama"}]`, items[0].Route["subs"])
	assert.Equal(t, "https://img/e.jpg", items[0].Art.Thumb)
	assert.Equal(t, "[]", items[1].Route["subs"])

	assert.Equal(t, DefaultLabels.Favorites, items[2].Title)
	assert.Equal(t, dyn+"/favorites", items[2].Route["dataurl"])
	assert.Equal(t, DefaultLabels.Search, items[3].Title)
	assert.Equal(t, media.RouteSearch, items[3].Route.Action())
}

func TestCategoriesOrVideos(t *testing.T) {
	t.Run("no subcategories uses main path", func(t *testing.T) {
		src := newFakeSource()
		items, err := newTestCatalog(src).CategoriesOrVideos(context.Background(), "/elokuvat", `[]`)
		require.NoError(t, err)
		assert.Equal(t, []string{"/elokuvat"}, src.resolved)
		require.Len(t, items, 1)
		assert.Equal(t, "Kaikki", items[0].Title)
	})

	t.Run("one subcategory drills straight in", func(t *testing.T) {
		src := newFakeSource()
		items, err := newTestCatalog(src).CategoriesOrVideos(context.Background(), "/elokuvat",
			`[{"title":"Draama","path":"/elokuvat/draama"}]`)
		require.NoError(t, err)
		assert.Equal(t, []string{"/elokuvat/draama"}, src.resolved)
		require.Len(t, items, 1)
		assert.Equal(t, "Draama", items[0].Title)
		assert.True(t, items[0].Playable)
	})

	t.Run("three subcategories render a menu", func(t *testing.T) {
		src := newFakeSource()
		items, err := newTestCatalog(src).CategoriesOrVideos(context.Background(), "/elokuvat",
			`[{"title":"Draama","path":"/a"},{"title":"Komedia","path":"/b"},{"title":"Kauhu","path":"/c"}]`)
		require.NoError(t, err)
		assert.Empty(t, src.resolved)
		assert.Empty(t, src.fetched)
		require.Len(t, items, 3)
		for i, want := range []string{"/a", "/b", "/c"} {
			assert.Equal(t, media.RouteListCategoryContent, items[i].Route.Action())
			assert.Equal(t, want, items[i].Route["path"])
			assert.Equal(t, media.OpenSubcategory, items[i].Action)
			assert.Equal(t, "icon.png", items[i].Art.Icon)
		}
	})
}

func TestCategoryContentCurated(t *testing.T) {
	src := newFakeSource()
	items, err := newTestCatalog(src).CategoryContent(context.Background(), "/poiminnat")
	require.NoError(t, err)
	require.Len(t, items, 3)

	assert.Equal(t, "Uutuudet", items[0].Title)
	assert.Equal(t, media.RouteListPageTarget, items[0].Route.Action())
	assert.Equal(t, "/elokuvat?sort=newest", items[0].Route["target"])

	assert.Equal(t, "Suositut", items[1].Title)
	assert.Equal(t, media.RouteListPageWithPageData, items[1].Route.Action())
	assert.JSONEq(t, `[{"type":"movie","id":"4","title":"Hitti"}]`, items[1].Route["page_data"])

	assert.Equal(t, "Lajit", items[2].Title)
	assert.Equal(t, media.RouteListCategoryLinks, items[2].Route.Action())
}

func TestCategoryLinks(t *testing.T) {
	items, err := newTestCatalog(newFakeSource()).CategoryLinks(context.Background(),
		`[{"title":"Formula 1","path":"urheilu/f1"},{"title":"Golf","path":"/urheilu/golf"}]`)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, dyn+"/urheilu/f1/assets?size=250", items[0].Route["dataurl"])
	assert.Equal(t, dyn+"/urheilu/golf/assets?size=250", items[1].Route["dataurl"])
}

func TestPageUnparseableIsEmpty(t *testing.T) {
	src := newFakeSource()
	src.pages["https://data/odd"] = `{"something":"else"}`

	items, err := newTestCatalog(src).Page(context.Background(), "https://data/odd")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestPageErrorPropagates(t *testing.T) {
	_, err := newTestCatalog(newFakeSource()).Page(context.Background(), "https://data/missing")
	assert.Error(t, err)
}

func TestPageDataAndTarget(t *testing.T) {
	src := newFakeSource()
	src.targets = map[string]string{"/elokuvat?sort=newest": `[{"type":"movie","id":"9","title":"Uusin"}]`}
	c := newTestCatalog(src)

	items, err := c.PageData(context.Background(), `[{"type":"series","id":"s","title":"Kausi 2"}]`)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, dyn+"/category/s/assets?size=250", items[0].Route["dataurl"])

	items, err = c.Target(context.Background(), "/elokuvat?sort=newest")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Uusin", items[0].Title)

	_, err = c.PageData(context.Background(), `not json`)
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	src := newFakeSource()
	src.search = []json.RawMessage{
		json.RawMessage(`{"type":"movie","id":"1","title":"Osuma"}`),
		json.RawMessage(`{"type":"series","id":"2","title":"Sarja","groups":[{"id":"g"}]}`),
	}
	items, err := newTestCatalog(src).Search(context.Background(), "osuma")
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, media.MediaMovie, items[0].Info.MediaType)
	assert.Equal(t, media.MediaTVShow, items[1].Info.MediaType)
}
