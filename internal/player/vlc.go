package player

import (
	"context"

	"cmore/internal/media"
)

// VLC plays streams with VLC media player.
type VLC struct{}

func (v *VLC) Name() string { return "vlc" }

func (v *VLC) Available() bool { return available("vlc") }

func (v *VLC) args(res *media.PlayResolution, opts Options) []string {
	args := []string{
		res.URL,
		"--meta-title", opts.Title,
		"--play-and-exit",
	}
	if opts.SubLanguage != "" {
		args = append(args, "--sub-language", opts.SubLanguage)
	}
	return args
}

// Play launches VLC and waits for it to exit.
func (v *VLC) Play(ctx context.Context, res *media.PlayResolution, opts Options) error {
	if err := Check(res); err != nil {
		return err
	}
	return run(ctx, "vlc", v.args(res, opts))
}
