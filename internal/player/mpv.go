package player

import (
	"context"

	"cmore/internal/media"
)

// MPV plays streams with mpv.
type MPV struct{}

func (m *MPV) Name() string { return "mpv" }

func (m *MPV) Available() bool { return available("mpv") }

func (m *MPV) args(res *media.PlayResolution, opts Options) []string {
	args := []string{
		res.URL,
		"--force-media-title=" + opts.Title,
		"--really-quiet",
	}
	if opts.SubLanguage != "" {
		args = append(args, "--slang="+opts.SubLanguage)
	}
	return args
}

// Play launches mpv and waits for it to exit.
func (m *MPV) Play(ctx context.Context, res *media.PlayResolution, opts Options) error {
	if err := Check(res); err != nil {
		return err
	}
	return run(ctx, "mpv", m.args(res, opts))
}
