package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"cmore/internal/history"
	"cmore/internal/media"
	"cmore/internal/player"
	"cmore/internal/router"
	"cmore/internal/ui"
)

const backLabel = ".."

func browseRun(cmd *cobra.Command, args []string) error {
	route, err := parseRouteArg(args)
	if err != nil {
		return err
	}

	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	return run(cmd.Context(), a, route, "")
}

// run prints a single dispatch as JSON or browses interactively from route.
func run(ctx context.Context, a *app, route media.Route, title string) error {
	if flagJSON {
		res, err := a.router.Dispatch(ctx, route)
		if err != nil {
			return err
		}
		return printJSON(res)
	}
	return browse(ctx, a, route, title)
}

// browse walks the catalog until the user cancels at the top level.
func browse(ctx context.Context, a *app, start media.Route, title string) error {
	var stack []media.Route
	current := start

	back := func() bool {
		if len(stack) == 0 {
			return false
		}
		current = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		return true
	}

	for {
		res, err := a.router.Dispatch(ctx, current)
		if err != nil {
			return err
		}
		showNotices(res.Notices)

		if res.NeedsCredentials {
			if !ui.IsTerminal() {
				return router.ErrNoCredentials
			}
			if err := promptLogin(ctx, a); err != nil {
				return err
			}
			continue
		}

		if res.Play != nil {
			if err := playResult(ctx, res, current["video_id"], title); err != nil {
				fmt.Fprintf(os.Stderr, "playback: %v\n", err)
			}
			if !back() {
				return nil
			}
			continue
		}

		if len(res.Items) == 0 {
			if !back() {
				return nil
			}
			continue
		}

		labels := make([]string, 0, len(res.Items)+1)
		if len(stack) > 0 {
			labels = append(labels, backLabel)
		}
		for _, it := range res.Items {
			labels = append(labels, it.Title)
		}

		idx, err := ui.Select(ctx, "cmore", labels)
		if err != nil {
			if errors.Is(err, ui.ErrCancelled) {
				return nil
			}
			return err
		}

		if len(stack) > 0 {
			if idx == 0 {
				back()
				continue
			}
			idx--
		}

		item := res.Items[idx]
		if item.Action == media.Noop {
			continue
		}
		log.Debugf("open %s", item.Route.Encode())
		stack = append(stack, current)
		current = item.Route
		title = ui.Strip(item.Title)
	}
}

// playResult hands a resolved stream to the configured player and records it.
func playResult(ctx context.Context, res *router.Result, videoID, title string) error {
	if err := player.Check(res.Play); err != nil {
		if errors.Is(err, player.ErrDRMUnsupported) {
			fmt.Fprintln(os.Stderr, "This stream needs Widevine. Resolution for a capable player:")
			return printJSON(res.Play)
		}
		return err
	}

	p := player.New(cfg.Player)
	if !p.Available() {
		return fmt.Errorf("player %q not found in PATH", p.Name())
	}

	if err := p.Play(ctx, res.Play, player.Options{Title: title, SubLanguage: cfg.SubLanguage}); err != nil {
		return err
	}

	if videoID == "" {
		return nil
	}
	path, err := history.Path()
	if err != nil {
		return err
	}
	if title == "" {
		title = videoID
	}
	return history.Add(path, history.Entry{VideoID: videoID, Title: title, PlayedAt: time.Now()})
}

func showNotices(notices []media.Notice) {
	for _, n := range notices {
		fmt.Fprintf(os.Stderr, "%s: %s\n", n.Heading, ui.Render(n.Message))
	}
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
