package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/core"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// Flags shared by the commands that run extractions
var (
	threshold   float64
	rasterDPI   int
	concurrency int
	timeoutMin  int
	noCache     bool
	verbose     bool
	logLevel    string
	logFormat   string
	showVersion bool
)

// ErrExtractionFailed is returned when the result file records a failure
var ErrExtractionFailed = errors.New("extraction failed")

// AppHandler encapsulates application main processing logic
type AppHandler struct {
	cmd       *cobra.Command
	config    *config.Config
	logger    *logger.Logger
	processor *core.DefaultFileProcessor
}

// NewAppHandler creates an application handler for cmd
func NewAppHandler(cmd *cobra.Command) *AppHandler {
	return &AppHandler{cmd: cmd}
}

// initialize loads configuration, applies flag overrides and builds the processor
func (h *AppHandler) initialize() error {
	h.config = config.LoadConfigWithEnvOverrides()
	h.applyCommandLineOverrides()

	if err := h.config.Validate(); err != nil {
		return err
	}

	h.logger = logger.NewLoggerWithOutput(h.config.LogLevel, h.config.LogFormat, h.config.EnableVerbose, os.Stderr)
	h.processor = core.NewFileProcessor(h.config, h.logger)
	return nil
}

// applyCommandLineOverrides applies flags the user set explicitly; flags beat env
func (h *AppHandler) applyCommandLineOverrides() {
	flags := h.cmd.Flags()
	if flags.Changed("threshold") {
		h.config.ConfidenceThreshold = threshold
	}
	if flags.Changed("dpi") {
		h.config.RasterDPI = rasterDPI
	}
	if flags.Changed("concurrency") {
		h.config.MaxConcurrency = concurrency
	}
	if flags.Changed("timeout") {
		h.config.TimeoutMinutes = timeoutMin
	}
	if flags.Changed("log-level") {
		h.config.LogLevel = logLevel
	}
	if flags.Changed("log-format") {
		h.config.LogFormat = logFormat
	}
	if noCache {
		h.config.CacheEnabled = false
	}
	if verbose {
		h.config.EnableVerbose = true
	}
}

// Run extracts inputFile and writes the JSON result to outputFile.
// The result file is written even when extraction fails.
func (h *AppHandler) Run(ctx context.Context, inputFile, outputFile, language string) error {
	var result *types.DocumentResult

	if err := h.initialize(); err != nil {
		result = &types.DocumentResult{
			Success:   false,
			Error:     utils.ErrorReason(err),
			Language:  language,
			Timestamp: time.Now(),
		}
	} else {
		h.logger.Progress("📄", "Processing %s", filepath.Base(inputFile))
		result = h.processor.ProcessFile(ctx, inputFile, language)
	}

	if err := core.WriteResult(outputFile, result); err != nil {
		return err
	}

	h.displayResults(result, outputFile)
	if !result.Success {
		return fmt.Errorf("%w: %s", ErrExtractionFailed, result.Error)
	}
	return nil
}

// displayResults prints a short summary to stdout
func (h *AppHandler) displayResults(result *types.DocumentResult, outputFile string) {
	out := h.cmd.OutOrStdout()
	if !result.Success {
		fmt.Fprintf(out, "❌ Extraction failed: %s\n", result.Error)
		if len(result.CandidateErrors) > 0 {
			for _, ce := range result.CandidateErrors {
				fmt.Fprintf(out, "   - %s: %s\n", ce.Engine, ce.Error)
			}
		}
		fmt.Fprintf(out, "📝 Result written to %s\n", outputFile)
		return
	}

	fmt.Fprintf(out, "✅ Text extracted successfully\n")
	fmt.Fprintf(out, "📊 Engine used: %s\n", result.EngineUsed)
	fmt.Fprintf(out, "📑 Pages: %d, regions: %d, mean confidence: %.2f\n",
		result.PageCount, result.RegionCount, result.AverageConfidence)
	fmt.Fprintf(out, "⏱️  Processing time: %dms\n", result.ProcessingTimeMs)
	if result.Cached {
		fmt.Fprintf(out, "⏭️  Loaded from cache\n")
	}
	if result.FallbackUsed {
		fmt.Fprintf(out, "⚠️  Fallback engine was used\n")
		fmt.Fprintf(out, "🔄 Attempted engines: %s\n", strings.Join(result.AttemptedEngines, ", "))
	}
	fmt.Fprintf(out, "📝 Result written to %s\n", outputFile)
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scan-to-text <input-path> <output-path> [language-code]",
	Short: "Extract text from scanned PDFs and images with local OCR engines",
	Long: `Extract text from scanned PDFs and images using whichever OCR engines are installed.

Engines are tried in a fixed priority order and the first one that succeeds wins:
- ocrmypdf:      adds a text layer to PDFs (needs ocrmypdf and Ghostscript)
- pdftotext:     reads an existing PDF text layer (Poppler)
- surya:         Surya OCR command line
- tesseract:     libtesseract (only in builds with the "ocr" tag)
- tesseract-cli: the tesseract binary in hOCR mode

Image engines run on PDFs page by page after rasterizing with Ghostscript or pdftoppm.
The result is always written as JSON to <output-path>, also when extraction fails.

Examples:
  scan-to-text scan.pdf result.json               # default language (es)
  scan-to-text page.png result.json en            # English hint
  scan-to-text scan.pdf result.json --threshold 0.6
  scan-to-text scan.pdf result.json --no-cache -v`,
	Args: func(cmd *cobra.Command, args []string) error {
		if showVersion || len(args) == 0 {
			return nil
		}
		return cobra.RangeArgs(2, 3)(cmd, args)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if showVersion {
			fmt.Fprintf(cmd.OutOrStdout(), "scan-to-text %s\n", version)
			return nil
		}
		if len(args) == 0 {
			return cmd.Help()
		}

		language := ""
		if len(args) == 3 {
			language = args[2]
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return NewAppHandler(cmd).Run(ctx, args[0], args[1], language)
	},
}

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadRuntime loads configuration and a logger for the auxiliary commands
func loadRuntime(cmd *cobra.Command) (*config.Config, *logger.Logger, error) {
	h := NewAppHandler(cmd)
	h.config = config.LoadConfigWithEnvOverrides()
	h.applyCommandLineOverrides()
	if err := h.config.Validate(); err != nil {
		return nil, nil, err
	}
	return h.config, logger.NewLoggerWithOutput(h.config.LogLevel, h.config.LogFormat, h.config.EnableVerbose, os.Stderr), nil
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.Float64Var(&threshold, "threshold", config.DefaultConfidenceThreshold,
		"Minimum region confidence in [0,1]; regions below it are dropped")
	pf.IntVar(&rasterDPI, "dpi", config.DefaultRasterDPI,
		"Resolution used when rasterizing PDF pages for image engines")
	pf.IntVar(&concurrency, "concurrency", config.DefaultMaxConcurrency,
		"Pages recognized in parallel by engines that allow it")
	pf.IntVar(&timeoutMin, "timeout", config.DefaultTimeoutMinutes,
		"Per-document time budget in minutes")
	pf.BoolVar(&noCache, "no-cache", false, "Do not read or write the result cache")
	pf.BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output to show progress information")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", config.DefaultLogFormat, "Log format (console, json)")

	rootCmd.Flags().BoolVarP(&showVersion, "version", "V", false, "Show version information")
}
