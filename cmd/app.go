package cmd

import (
	"fmt"

	"cmore/internal/catalog"
	"cmore/internal/config"
	"cmore/internal/media"
	"cmore/internal/provider"
	"cmore/internal/router"
	"cmore/internal/store"
	"cmore/internal/ui"
)

// app is one wired session: the durable cookie store, the backend client
// and the router driving them.
type app struct {
	store  *store.Store
	client *provider.Client
	router *router.Router
}

func newApp(cfg *config.Config) (*app, error) {
	dataDir, err := config.DataDir()
	if err != nil {
		return nil, err
	}

	s, err := store.Open(dataDir)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	jar, err := store.NewJar(s)
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("loading cookies: %w", err)
	}

	client := provider.New(dataDir,
		provider.WithCookieJar(jar),
		provider.WithServiceConfigURL(cfg.ServiceConfigURL),
		provider.WithLoginURL(cfg.LoginURL),
	)

	cat := catalog.New(client, catalog.Builder{
		Prefer50fps: cfg.Prefer50fps,
		Defaults:    media.Art{Icon: cfg.Icon, Fanart: cfg.Fanart},
	}, catalog.DefaultLabels)

	return &app{
		store:  s,
		client: client,
		router: router.New(client, cat, cfg, router.WithPrompter(ui.Prompter{})),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}
