package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ironsheep/ocr-tools-mcp/internal/config"
	"github.com/ironsheep/ocr-tools-mcp/internal/ocr"
)

// rootFlags are persistent flags that override environment configuration.
type rootFlags struct {
	envFiles  []string
	logLevel  string
	accuracy  string
	languages []string
	workers   int
}

func (f *rootFlags) apply(cfg *config.Config) error {
	if f.logLevel != "" {
		cfg.LogLevel = f.logLevel
	}
	if f.accuracy != "" {
		a, err := ocr.ParseAccuracy(f.accuracy)
		if err != nil {
			return fmt.Errorf("--accuracy: %w", err)
		}
		cfg.Accuracy = a
	}
	if len(f.languages) > 0 {
		cfg.Languages = f.languages
	}
	if f.workers != 0 {
		cfg.Workers = f.workers
	}
	return cfg.Validate()
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "ocr-mcp",
		Short: "MCP server for optical character recognition",
		Long: `ocr-mcp recognizes text in images with Tesseract.

Without a subcommand it runs as an MCP server over stdin/stdout. Configure it
in your MCP client (e.g., Claude Desktop).

Environment variables:
  OCR_MCP_LOG_LEVEL        debug, info, warn, error (default info)
  OCR_MCP_ACCURACY         fast or accurate (default accurate)
  OCR_MCP_LANGUAGES        comma-separated BCP-47 tags (default en-US)
  OCR_MCP_WORKERS          concurrent recognitions (default: CPU count)
  OCR_MCP_MIN_CONFIDENCE   candidate threshold 0..1 (default 0)
  OCR_MCP_HTTP_ADDR        listen address for "http" (default :8088)
  OCR_MCP_HTTP_TIMEOUT     per-request recognition timeout (default 60s)
  TESSDATA_PREFIX          Tesseract traineddata directory`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringSliceVar(&flags.envFiles, "env-file", nil, "dotenv files to load (default .env)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level (overrides OCR_MCP_LOG_LEVEL)")
	pf.StringVar(&flags.accuracy, "accuracy", "", "default recognition level: fast or accurate")
	pf.StringSliceVar(&flags.languages, "languages", nil, "default languages, most preferred first")
	pf.IntVar(&flags.workers, "workers", 0, "concurrent recognitions")

	root.AddCommand(
		newServeCmd(flags),
		newHTTPCmd(flags),
		newRecognizeCmd(flags),
		newVersionCmd(),
	)
	return root
}
