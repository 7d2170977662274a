// Package player launches an external media player for resolved streams.
// Players are started with explicit argument slices, never through a shell.
package player

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"cmore/internal/media"
)

var (
	ErrNoManifest     = errors.New("stream has no playable manifest")
	ErrDRMUnsupported = errors.New("stream is DRM protected and needs a Widevine capable player")
)

// Options describe how a stream is presented.
type Options struct {
	Title       string
	SubLanguage string
}

// Player is a media player implementation.
type Player interface {
	// Play blocks until playback ends.
	Play(ctx context.Context, res *media.PlayResolution, opts Options) error

	// Name returns the player name.
	Name() string

	// Available checks if the player binary exists in PATH.
	Available() bool
}

// New creates a player by name.
func New(name string) Player {
	switch name {
	case "mpv":
		return &MPV{}
	case "vlc":
		return &VLC{}
	case "iina", "celluloid":
		return &Generic{name: name}
	default:
		return &MPV{}
	}
}

// Check reports whether an external player can handle res.
func Check(res *media.PlayResolution) error {
	if res == nil || res.URL == "" {
		return ErrNoManifest
	}
	if res.LicenseType != "" {
		return ErrDRMUnsupported
	}
	return nil
}

// run starts the player and waits. Players exit non-zero when the user
// closes them, so exit errors are not failures.
func run(ctx context.Context, name string, args []string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Stdin = os.Stdin

	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil
		}
		return fmt.Errorf("running %s: %w", name, err)
	}
	return nil
}

func available(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
