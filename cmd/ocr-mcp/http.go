package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-tools-mcp/internal/httpapi"
)

func newHTTPCmd(flags *rootFlags) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "http",
		Short: "Serve the recognition API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			defer a.close()

			if addr == "" {
				addr = a.cfg.HTTPAddr
			}

			h := httpapi.NewHandler(a.rec, httpapi.Options{
				Accuracy:  a.cfg.Accuracy,
				Languages: a.cfg.Languages,
				Timeout:   a.cfg.HTTPTimeout,
			}, a.log.With().Str("component", "http").Logger())
			app := httpapi.NewApp(h)

			sig := make(chan os.Signal, 1)
			signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sig)
			go shutdownOnSignal(sig, app, a.log)

			a.log.Info().Str("addr", addr).Msg("HTTP API listening")
			return app.Listen(addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides OCR_MCP_HTTP_ADDR)")
	return cmd
}

type shutdowner interface {
	Shutdown() error
}

// shutdownOnSignal stops srv once sig fires.
func shutdownOnSignal(sig <-chan os.Signal, srv shutdowner, log zerolog.Logger) {
	<-sig
	log.Info().Msg("shutting down")
	if err := srv.Shutdown(); err != nil {
		log.Warn().Err(err).Msg("HTTP shutdown failed")
	}
}
