package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cmore/internal/media"
	"cmore/internal/provider"
	"cmore/internal/router"
	"cmore/internal/ui"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store credentials and verify them",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		return promptLogin(cmd.Context(), a)
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.router.Dispatch(cmd.Context(), media.Route{"setting": "reset_credentials"}); err != nil {
			return err
		}
		fmt.Fprintln(os.Stderr, "Credentials cleared.")
		return nil
	},
}

// promptLogin asks for credentials, saves them and logs in once.
func promptLogin(ctx context.Context, a *app) error {
	username, err := ui.Line(os.Stdin, "Email: ")
	if err != nil {
		return err
	}
	password, err := ui.Password("Password: ")
	if err != nil {
		return err
	}
	if username == "" || password == "" {
		return router.ErrNoCredentials
	}

	if err := cfg.SetCredentials(username, password); err != nil {
		return fmt.Errorf("saving credentials: %w", err)
	}

	if err := a.router.Login(ctx); err != nil {
		if errors.Is(err, provider.ErrAuthenticationFailed) {
			return fmt.Errorf("login failed, check your email and password: %w", err)
		}
		return err
	}
	fmt.Fprintln(os.Stderr, "Logged in.")
	return nil
}

// ensureSession logs in before entering a route below the main pages.
func ensureSession(ctx context.Context, a *app) error {
	err := a.router.Login(ctx)
	if errors.Is(err, router.ErrNoCredentials) && ui.IsTerminal() {
		return promptLogin(ctx, a)
	}
	return err
}
