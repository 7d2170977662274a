package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2/log"
	"github.com/spf13/cobra"

	"cmore/internal/server"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve routes as JSON over HTTP",
	Long: `Run a local HTTP service answering GET /route?action=...,
GET /play/<asset-id> and GET /state with the same JSON as --json.`,
	RunE: serveRun,
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "127.0.0.1:8765", "Listen address")
}

func serveRun(cmd *cobra.Command, args []string) error {
	a, err := newApp(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	srv := server.New(a.router)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sig
		log.Info("shutting down")
		if err := srv.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	return srv.Listen(flagAddr)
}
