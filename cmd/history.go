package cmd

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"cmore/internal/history"
	"cmore/internal/media"
	"cmore/internal/ui"
)

var flagClearHistory bool

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Replay something you watched recently",
	RunE:  historyRun,
}

func init() {
	historyCmd.Flags().BoolVar(&flagClearHistory, "clear", false, "Remove all history entries")
}

func historyRun(cmd *cobra.Command, args []string) error {
	path, err := history.Path()
	if err != nil {
		return err
	}

	if flagClearHistory {
		if err := history.Clear(path); err != nil {
			return fmt.Errorf("clearing history: %w", err)
		}
		fmt.Fprintln(os.Stderr, "History cleared.")
		return nil
	}

	entries, err := history.Load(path)
	if err != nil {
		return fmt.Errorf("loading history: %w", err)
	}

	if flagJSON {
		return printJSON(entries)
	}

	if len(entries) == 0 {
		fmt.Println("No history entries found.")
		return nil
	}

	ctx := cmd.Context()
	idx, err := ui.Select(ctx, "History", history.FormatForDisplay(entries))
	if err != nil {
		return err
	}
	selected := entries[idx]
	log.Debugf("replaying %s (%s)", selected.Title, selected.VideoID)

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := ensureSession(ctx, a); err != nil {
		return err
	}
	return browse(ctx, a, media.NewRoute(media.RoutePlay, "video_id", selected.VideoID), selected.Title)
}
