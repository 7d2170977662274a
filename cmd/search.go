package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"cmore/internal/media"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search series, movies and categories",
	Long: `Search the catalog. Without a query an input prompt is shown.
Series and categories matching the query are listed after assets.`,
	RunE: searchRun,
}

func searchRun(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := ensureSession(ctx, a); err != nil {
		return err
	}

	query := strings.TrimSpace(strings.Join(args, " "))
	return run(ctx, a, media.NewRoute(media.RouteSearch, "query", query), "")
}
