package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API",
	Long: "Serves /api/health, /api/suggest, /api/pokemon and /api/types.\n" +
		"The config file is watched; edits apply without a restart.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: listen_addr from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Paths.CleanEphemeral()
	defer a.Stop()

	addr := serveAddr
	if addr == "" {
		addr = a.Settings().ListenAddr
	}
	if err := a.Start(addr); err != nil {
		return err
	}
	fmt.Printf("%s %s\n", paint(colorBold, "⚡ pokesrc serving"), a.WebServer.URL())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	log.Info().Str("signal", sig.String()).Msg("shutting down")
	return nil
}
