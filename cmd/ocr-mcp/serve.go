package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-tools-mcp/internal/server"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP server on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}
}

func runServe(cmd *cobra.Command, flags *rootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(a.rec, server.Options{
		Accuracy:  a.cfg.Accuracy,
		Languages: a.cfg.Languages,
		Version:   Version,
	}, a.log.With().Str("component", "mcp").Logger())

	a.log.Info().Str("engine", a.rec.EngineName()).Msg("MCP server ready on stdio")
	return srv.Run(ctx)
}
