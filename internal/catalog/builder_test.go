package catalog

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmore/internal/media"
)

var fixedNow = time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)

func testBuilder() *Builder {
	return &Builder{
		DynamicAPI: "https://dyn.example.com",
		Defaults:   media.Art{Icon: "icon.png", Fanart: "fanart.jpg"},
		Now:        func() time.Time { return fixedNow },
		Location:   time.UTC,
	}
}

func mustItem(t *testing.T, b *Builder, node string) media.Item {
	t.Helper()
	item, ok := b.Item(json.RawMessage(node))
	require.True(t, ok, "node was skipped: %s", node)
	return item
}

func TestSportAssetIsAlwaysEvent(t *testing.T) {
	b := testBuilder()
	nodes := []string{
		`{"asset":{"type":"sport","id":"1","liveBroadcastTime":"2024-03-10T14:00:00Z","subtitle":"F1"}}`,
		`{"asset":{"type":"sport","id":"1","liveBroadcastTime":"2024-03-10T14:00:00Z","subtitle":"F1","description":"x","productionYear":2020,"genres":["Urheilu"]}}`,
		`{"asset":{"type":"sport","id":"1","liveBroadcastTime":"2024-03-10T14:00:00Z","subtitle":"F1","title":"Movie-like"},"type":"movie"}`,
	}
	for _, n := range nodes {
		item := mustItem(t, b, n)
		assert.Equal(t, media.MediaVideo, item.Info.MediaType)
		assert.Equal(t, media.ContentVideos, item.Content)
		assert.Contains(t, item.Title, "[COLOR=")
	}
}

func TestNonSportAssetIsMovie(t *testing.T) {
	item := mustItem(t, testBuilder(), `{"asset":{"type":"movie","id":"42","title":"Elokuva"}}`)
	assert.Equal(t, media.MediaMovie, item.Info.MediaType)
	assert.Equal(t, media.Play, item.Action)
	assert.Equal(t, "42", item.Route["video_id"])
}

func TestEventStatus(t *testing.T) {
	past := fixedNow.Add(-time.Hour).Format(eventTimeLayout)

	tests := []struct {
		name     string
		node     string
		prefer50 bool
		action   media.Action
		videoID  string
		color    string
		playable bool
	}{
		{
			name:   "future is upcoming",
			node:   `{"type":"sport","id":"base","liveBroadcastTime":"2099-01-01T12:00:00Z","subtitle":"Final"}`,
			action: media.Noop,
			color:  ColorUpcoming,
		},
		{
			name:     "past is live",
			node:     `{"type":"sport","id":"base","liveBroadcastTime":"` + past + `","subtitle":"Final","50fps":"fast","live":true}`,
			action:   media.Play,
			videoID:  "base",
			color:    ColorLive,
			playable: true,
		},
		{
			name:     "50fps preferred",
			node:     `{"type":"sport","id":"base","liveBroadcastTime":"` + past + `","subtitle":"Final","50fps":"fast","live":true}`,
			prefer50: true,
			action:   media.Play,
			videoID:  "fast",
			color:    ColorLive,
			playable: true,
		},
		{
			name:     "50fps needs live flag",
			node:     `{"type":"sport","id":"base","liveBroadcastTime":"` + past + `","subtitle":"Final","50fps":"fast"}`,
			prefer50: true,
			action:   media.Play,
			videoID:  "base",
			color:    ColorLive,
			playable: true,
		},
		{
			name:     "50fps needs alternate id",
			node:     `{"type":"sport","id":"base","liveBroadcastTime":"` + past + `","subtitle":"Final","live":true}`,
			prefer50: true,
			action:   media.Play,
			videoID:  "base",
			color:    ColorLive,
			playable: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBuilder()
			b.Prefer50fps = tt.prefer50

			item := mustItem(t, b, tt.node)
			if item.Action != tt.action {
				t.Errorf("action = %s, want %s", item.Action, tt.action)
			}
			if item.Playable != tt.playable {
				t.Errorf("playable = %v, want %v", item.Playable, tt.playable)
			}
			if got := item.Route["video_id"]; got != tt.videoID {
				t.Errorf("video_id = %q, want %q", got, tt.videoID)
			}
			if !strings.Contains(item.Title, "[COLOR="+tt.color+"]") {
				t.Errorf("title %q lacks color %s", item.Title, tt.color)
			}
		})
	}
}

func TestEventTitleUsesLocalTime(t *testing.T) {
	b := testBuilder()
	b.Location = time.FixedZone("EET", 2*60*60)

	item := mustItem(t, b, `{"type":"sport","id":"1","liveBroadcastTime":"2024-03-10T12:30:00Z","subtitle":"Kisa"}`)
	assert.Equal(t, "[B][COLOR=FF03F12F]10.03.2024 14:30[/COLOR]:[/B] Kisa", item.Title)
}

func TestEventWithBadTimeIsSkipped(t *testing.T) {
	_, ok := testBuilder().Item(json.RawMessage(`{"type":"sport","id":"1","liveBroadcastTime":"tomorrow"}`))
	assert.False(t, ok)
}

func TestArtworkUsesLastVariant(t *testing.T) {
	item := mustItem(t, testBuilder(), `{
		"type":"movie","id":"1","title":"A",
		"images":{"landscape":[{"url":"a"},{"url":"b"}],"portrait":[{"url":"p1"},{"url":"p2"}]}
	}`)
	assert.Equal(t, "b", item.Art.Fanart)
	assert.Equal(t, "b", item.Art.Thumb)
	assert.Equal(t, "b", item.Art.Cover)
	assert.Equal(t, "p2", item.Art.Poster)
	assert.Equal(t, "icon.png", item.Art.Icon)
}

func TestArtworkFallsBackToDefaults(t *testing.T) {
	item := mustItem(t, testBuilder(), `{"type":"movie","id":"1","title":"A","images":{}}`)
	assert.Equal(t, "fanart.jpg", item.Art.Fanart)
	assert.Equal(t, "icon.png", item.Art.Icon)
	assert.Empty(t, item.Art.Poster)
}

func TestMovieInfo(t *testing.T) {
	item := mustItem(t, testBuilder(), `{
		"type":"movie","id":"99","title":"Tuntematon",
		"description":"<p>Sota <b>elokuva</b></p>",
		"actors":"Eero Aho, Jussi Vatanen",
		"productionCountries":["Suomi"],
		"parentalRating":"16",
		"imdbId":"tt123",
		"director":"Aku Louhimies",
		"duration":10800,
		"productionYear":"2017",
		"genres":["Draama","Sota"]
	}`)

	require.NotNil(t, item.Info)
	assert.True(t, item.Playable)
	assert.Equal(t, media.ContentMovies, item.Content)
	assert.Equal(t, "Sota elokuva", item.Info.Plot)
	assert.Equal(t, []string{"Eero Aho", "Jussi Vatanen"}, item.Info.Cast)
	assert.Equal(t, "Suomi", item.Info.Country)
	assert.Equal(t, "16", item.Info.MPAA)
	assert.Equal(t, "tt123", item.Info.IMDBNumber)
	assert.Equal(t, 10800, item.Info.Duration)
	assert.Equal(t, 2017, item.Info.Year)
	assert.Equal(t, "Draama, Sota", item.Info.Genre)
}

func TestEpisode(t *testing.T) {
	item := mustItem(t, testBuilder(), `{"type":"series","id":"e1","categoryId":5,"title":"Salatut elämät","subtitle":"Jakso 12","season":3,"episode":"12"}`)
	assert.Equal(t, "Jakso 12", item.Title)
	assert.Equal(t, media.ContentEpisodes, item.Content)
	assert.Equal(t, "Salatut elämät", item.Info.TVShowTitle)
	assert.Equal(t, 3, item.Info.Season)
	assert.Equal(t, 12, item.Info.Episode)
	assert.Equal(t, "e1", item.Route["video_id"])
}

func TestSeasonFolders(t *testing.T) {
	b := testBuilder()
	for _, node := range []string{
		`{"type":"series","id":"77","title":"Kausi 1"}`,
		`{"type":"sport","id":"77","title":"Kausi 1","groups":[]}`,
	} {
		item := mustItem(t, b, node)
		assert.False(t, item.Playable)
		assert.Equal(t, media.OpenPage, item.Action)
		assert.Equal(t, media.RouteListPage, item.Route.Action())
		assert.Equal(t, "https://dyn.example.com/category/77/assets?size=250", item.Route["dataurl"])
		assert.Equal(t, media.MediaSeason, item.Info.MediaType)
	}
}

func TestTVShowCarriesGroupsInline(t *testing.T) {
	item := mustItem(t, testBuilder(), `{"category":{"title":112,"groups":[{"type":"series","id":"s1","title":"Kausi 1"}]}}`)
	assert.Equal(t, "112", item.Title)
	assert.Equal(t, media.MediaTVShow, item.Info.MediaType)
	assert.Equal(t, media.RouteListPageWithPageData, item.Route.Action())
	assert.JSONEq(t, `[{"type":"series","id":"s1","title":"Kausi 1"}]`, item.Route["page_data"])
	assert.False(t, item.Playable)
}

func TestChannel(t *testing.T) {
	item := mustItem(t, testBuilder(), `{
		"channel":{"id":"mtv3","title":"MTV3","images":{"landscape":[{"url":"logo-s"},{"url":"logo-l"}]}},
		"epg":[{"title":"Uutiset","description":"Päivän uutiset","epgLiveBroadcastTime":"2024-03-10T18:30:00+02:00",
		        "images":{"landscape":[{"url":"prog"}]}}]
	}`)
	assert.Equal(t, "[B][COLOR=FF03F12F]MTV3[/COLOR] [COLOR=FF03F12F]10.03.2024 18:30[/COLOR][/B]: Uutiset", item.Title)
	assert.Equal(t, "mtv3", item.Route["video_id"])
	assert.Equal(t, "logo-l", item.Art.Icon)
	assert.Equal(t, "prog", item.Art.Fanart)
	assert.True(t, item.Playable)
	assert.Equal(t, media.ContentEpisodes, item.Content)
}

func TestChannelWithoutProgramIsSkipped(t *testing.T) {
	_, ok := testBuilder().Item(json.RawMessage(`{"channel":{"id":"mtv3","title":"MTV3"},"epg":[]}`))
	assert.False(t, ok)
}

func TestBuildListSkipsAndKeepsOrder(t *testing.T) {
	nodes := []json.RawMessage{
		json.RawMessage(`{"type":"movie","id":"1","title":"First"}`),
		json.RawMessage(`{"type":"clip","id":"x"}`),
		json.RawMessage(`{"type":"movie","id":"2"}`),
		json.RawMessage(`"oops"`),
		json.RawMessage(`{"type":"movie","id":"3","title":"Third"}`),
	}
	items := testBuilder().BuildList(nodes)
	require.Len(t, items, 2)
	assert.Equal(t, "First", items[0].Title)
	assert.Equal(t, "Third", items[1].Title)

	for _, it := range items {
		assert.NotEmpty(t, it.Title)
		if it.Playable {
			assert.Equal(t, media.Play, it.Action)
		}
	}
}

func TestContentOf(t *testing.T) {
	items := []media.Item{
		{Content: media.ContentMovies},
		{},
		{Content: media.ContentEpisodes},
		{},
	}
	assert.Equal(t, media.ContentEpisodes, ContentOf(items))
	assert.Equal(t, media.ContentNone, ContentOf(nil))
}
