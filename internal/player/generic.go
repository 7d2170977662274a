package player

import (
	"context"

	"cmore/internal/media"
)

// Generic drives players such as iina and celluloid that accept mpv-style
// flags.
type Generic struct {
	name string
}

func (g *Generic) Name() string { return g.name }

func (g *Generic) Available() bool { return available(g.name) }

func (g *Generic) args(res *media.PlayResolution, opts Options) []string {
	args := []string{res.URL, "--force-media-title=" + opts.Title}
	if opts.SubLanguage != "" {
		args = append(args, "--slang="+opts.SubLanguage)
	}
	return args
}

// Play launches the player and waits for it to exit.
func (g *Generic) Play(ctx context.Context, res *media.PlayResolution, opts Options) error {
	if err := Check(res); err != nil {
		return err
	}
	return run(ctx, g.name, g.args(res, opts))
}
