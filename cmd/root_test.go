package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cmore/internal/media"
)

func TestParseRouteArg(t *testing.T) {
	route, err := parseRouteArg(nil)
	require.NoError(t, err)
	assert.Empty(t, route.Action())

	want := media.NewRoute(media.RouteListPage, "dataurl", "https://example.com/page")
	route, err = parseRouteArg([]string{want.Encode()})
	require.NoError(t, err)
	assert.Equal(t, want, route)
}

func TestCommandsRegistered(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"login", "logout", "search", "favorites", "play", "history", "serve", "version"} {
		assert.True(t, names[name], "missing command %s", name)
	}
}
