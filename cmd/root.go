// Package cmd implements the CLI commands using Cobra.
package cmd

import (
	"fmt"
	"os"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"cmore/internal/config"
	"cmore/internal/media"
)

// Version is set at build time via ldflags.
var Version = "dev"

// Global flags
var (
	flagPlayer  string
	flagSubLang string
	flagJSON    bool
	flagDebug   bool
)

// cfg holds the loaded configuration (defaults < config file < env < flags).
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "cmore [route]",
	Short: "Browse and play C More / Katsomo from the terminal",
	Long: `cmore browses the C More / Katsomo catalog: main pages, categories,
series, live sport and channels. Clear streams play in mpv or vlc; use
--json to hand DRM protected streams to a Widevine capable player.

An optional route argument (as printed by --json) starts browsing there.`,
	Args:              cobra.MaximumNArgs(1),
	PersistentPreRunE: loadConfig,
	RunE:              browseRun,
	SilenceUsage:      true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagPlayer, "player", "", "Media player: mpv | vlc | iina | celluloid")
	rootCmd.PersistentFlags().StringVar(&flagSubLang, "slang", "", "Subtitle language: fi | sv")
	rootCmd.PersistentFlags().BoolVarP(&flagJSON, "json", "j", false, "Print listings and play resolutions as JSON")
	rootCmd.PersistentFlags().BoolVarP(&flagDebug, "debug", "x", false, "Debug logging to stderr")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(favoritesCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig loads and merges configuration, then sets up logging.
func loadConfig(cmd *cobra.Command, args []string) error {
	var err error
	cfg, err = config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if flagPlayer != "" {
		cfg.Player = flagPlayer
	}
	if flagSubLang != "" {
		cfg.SubLanguage = flagSubLang
	}
	if flagDebug {
		cfg.Debug = true
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log.SetOutput(os.Stderr)
	if cfg.Debug {
		log.SetLevel(log.LevelDebug)
	} else {
		log.SetLevel(log.LevelWarn)
	}

	return nil
}

func parseRouteArg(args []string) (media.Route, error) {
	if len(args) == 0 {
		return media.Route{}, nil
	}
	route, err := media.ParseRoute(args[0])
	if err != nil {
		return nil, fmt.Errorf("parsing route %q: %w", args[0], err)
	}
	return route, nil
}
