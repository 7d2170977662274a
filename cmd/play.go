package cmd

import (
	"github.com/spf13/cobra"

	"cmore/internal/media"
)

var playCmd = &cobra.Command{
	Use:   "play <asset-id>",
	Short: "Resolve and play an asset by id",
	Args:  cobra.ExactArgs(1),
	RunE:  playRun,
}

func playRun(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx := cmd.Context()
	if err := ensureSession(ctx, a); err != nil {
		return err
	}
	return run(ctx, a, media.NewRoute(media.RoutePlay, "video_id", args[0]), "")
}
