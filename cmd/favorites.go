package cmd

import (
	"github.com/spf13/cobra"

	"cmore/internal/media"
)

var favoritesCmd = &cobra.Command{
	Use:     "favorites",
	Aliases: []string{"fav"},
	Short:   "Browse your favorites",
	RunE:    favoritesRun,
}

func favoritesRun(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := ensureSession(ctx, a); err != nil {
		return err
	}

	dyn, err := a.client.DynamicAPI(ctx)
	if err != nil {
		return err
	}
	return run(ctx, a, media.NewRoute(media.RouteListPage, "dataurl", dyn+"/favorites"), "")
}
