package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nodewee/scan-to-text/pkg/core"
	"github.com/nodewee/scan-to-text/pkg/server"
)

var (
	serveAddr    string
	serveMaxDocs int
)

// serveCmd exposes extraction over HTTP
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve extraction over HTTP",
	Long: `Start an HTTP server with these routes:

  POST /v1/extract   multipart upload: "file" and optional "language"
  GET  /v1/engines   engine availability and candidate order
  GET  /healthz      liveness

At most --max-docs documents are extracted at the same time; further requests wait.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadRuntime(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("addr") {
			cfg.ServerAddr = serveAddr
		}
		if cmd.Flags().Changed("max-docs") {
			cfg.MaxConcurrentDocuments = serveMaxDocs
		}
		if err := cfg.Validate(); err != nil {
			return err
		}

		processor := core.NewFileProcessor(cfg, log)
		report := processor.EngineReport()
		for kind, reason := range report.Unavailable {
			log.Warn("No engine for %s input: %s", kind, reason)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return server.New(cfg, processor, log).Start(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default from SCAN_TEXT_SERVER_ADDR or :8080)")
	serveCmd.Flags().IntVar(&serveMaxDocs, "max-docs", 0, "Documents extracted concurrently")
	rootCmd.AddCommand(serveCmd)
}
