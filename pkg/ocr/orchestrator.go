package ocr

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// Orchestrator tries candidate engines in order until one yields text
type Orchestrator struct {
	registry   *Registry
	rasterizer interfaces.Rasterizer
	aggregator *Aggregator
	config     *config.Config
	logger     *logger.Logger

	// newTemp returns the scratch space of one candidate attempt
	newTemp func() interfaces.TempFileManager
}

// NewOrchestrator creates an orchestrator; the rasterizer may be nil when no engine needs one
func NewOrchestrator(cfg *config.Config, reg *Registry, rasterizer interfaces.Rasterizer, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	o := &Orchestrator{
		registry:   reg,
		rasterizer: rasterizer,
		aggregator: NewAggregator(cfg.ConfidenceThreshold),
		config:     cfg,
		logger:     log.WithComponent("orchestrator"),
	}
	o.newTemp = func() interfaces.TempFileManager {
		return utils.NewSimpleTempManager(cfg.TempDir, o.logger)
	}
	return o
}

// Extract runs the candidates one at a time. The first candidate whose pages
// all succeed and leave at least one region after filtering wins; any failure
// discards that candidate's pages entirely. The returned result is never nil.
// A non-nil error is a configuration, total extraction or empty result error.
func (o *Orchestrator) Extract(ctx context.Context, doc types.Document, candidates []types.EngineDescriptor, language string) (*types.DocumentResult, error) {
	if len(candidates) == 0 {
		err := utils.NewConfigurationError(utils.MsgNoEngineAvailable+" for "+string(doc.Kind)+" input", nil)
		return failedResult(err), err
	}

	var attempted []string
	var candidateErrors []types.CandidateError
	emptyCount := 0

	for i, desc := range candidates {
		if err := ctx.Err(); err != nil {
			candidateErrors = append(candidateErrors, types.CandidateError{Engine: desc.Name, Error: err.Error()})
			break
		}

		attempted = append(attempted, desc.Name)
		o.logger.ProgressAlways("🔍", "Using OCR engine: %s (%d/%d)", desc.Name, i+1, len(candidates))

		start := time.Now()
		pages, err := o.runCandidate(ctx, doc, desc, language)
		if err != nil {
			o.logger.Warn("Engine %s failed: %v", desc.Name, err)
			candidateErrors = append(candidateErrors, types.CandidateError{Engine: desc.Name, Error: utils.ErrorReason(err)})
			continue
		}

		result := o.aggregator.Aggregate(pages, desc)
		if !result.Success {
			o.logger.Warn("Engine %s found no text above the confidence threshold", desc.Name)
			emptyCount++
			candidateErrors = append(candidateErrors, types.CandidateError{Engine: desc.Name, Error: utils.MsgNoTextDetected})
			continue
		}

		o.logger.ProgressAlways("✅", "Engine %s recognized %d regions on %d pages in %s",
			desc.Name, result.RegionCount, result.PageCount, time.Since(start).Round(time.Millisecond))

		result.Language = language
		result.FallbackUsed = i > 0
		result.AttemptedEngines = attempted
		result.CandidateErrors = candidateErrors
		return result, nil
	}

	// empty only when every attempted candidate ran cleanly and found nothing
	var err *utils.AppError
	if emptyCount > 0 && emptyCount == len(attempted) && len(candidateErrors) == emptyCount {
		err = utils.NewEmptyResultError(nil)
	} else {
		err = utils.NewExtractionError(totalFailureMessage(candidateErrors), nil)
	}

	result := failedResult(err)
	result.Language = language
	result.AttemptedEngines = attempted
	result.CandidateErrors = candidateErrors
	return result, err
}

// runCandidate produces every page with one engine, or fails as a whole.
// Scratch files of the attempt are removed before it returns.
func (o *Orchestrator) runCandidate(ctx context.Context, doc types.Document, desc types.EngineDescriptor, language string) (pages []types.PageResult, err error) {
	tm := o.newTemp()
	defer func() {
		if cerr := tm.Cleanup(); cerr != nil {
			o.logger.Warn("Temporary file cleanup failed for %s: %v", desc.Name, cerr)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			pages = nil
			err = utils.NewCandidateError(desc.Name, fmt.Sprintf("engine panicked: %v", r), nil)
		}
	}()

	adapter, err := o.registry.NewAdapter(desc.Name, interfaces.AdapterOptions{Language: language, Temp: tm})
	if err != nil {
		return nil, utils.NewCandidateError(desc.Name, "engine initialization failed", err)
	}
	// runs before the scratch files are removed
	tm.RegisterCleanupFunc(adapter.Close)

	switch {
	case doc.Kind == types.DocumentKindPDF && desc.Supports(types.DocumentKindPDF):
		pages, err = adapter.RecognizePDF(ctx, doc.Path)
		if err != nil {
			return nil, utils.NewCandidateError(desc.Name, "recognition failed", err)
		}

	case doc.Kind == types.DocumentKindImage && desc.Supports(types.DocumentKindImage):
		pages, err = o.recognizeImages(ctx, adapter, []string{doc.Path})
		if err != nil {
			return nil, err
		}

	case desc.NeedsRaster(doc.Kind):
		if o.rasterizer == nil || !o.rasterizer.Available() {
			return nil, utils.NewCandidateError(desc.Name, "no rasterizer available", nil)
		}
		images, rerr := o.rasterizer.Rasterize(ctx, doc.Path, o.config.RasterDPI, tm)
		if rerr != nil {
			return nil, utils.NewCandidateError(desc.Name, "rasterization failed", rerr)
		}
		pages, err = o.recognizeImages(ctx, adapter, images)
		if err != nil {
			return nil, err
		}

	default:
		return nil, utils.NewCandidateError(desc.Name, fmt.Sprintf("engine cannot read %s input", doc.Kind), nil)
	}

	if err := checkPageNumbers(pages); err != nil {
		return nil, utils.NewCandidateError(desc.Name, "invalid page results", err)
	}
	return pages, nil
}

// recognizeImages recognizes page images in order. Adapters that declare
// themselves concurrency safe may run several pages at once; the result is
// still ordered by page. Any page failure fails all of them.
func (o *Orchestrator) recognizeImages(ctx context.Context, adapter interfaces.EngineAdapter, images []string) ([]types.PageResult, error) {
	desc := adapter.Descriptor()
	pages := make([]types.PageResult, len(images))
	total := len(images)

	recognize := func(ctx context.Context, i int) error {
		regions, err := adapter.RecognizeImage(ctx, images[i])
		if err != nil {
			return utils.NewCandidateError(desc.Name, fmt.Sprintf("recognition failed on page %d/%d", i+1, total), err).
				WithContext("page", i+1)
		}
		page := types.PageResult{PageNumber: i + 1, Regions: regions, EngineUsed: desc.Name}
		if w, h, _, derr := utils.ImageDimensions(images[i]); derr == nil {
			page.Width, page.Height = w, h
		}
		pages[i] = page
		o.logger.Progress("📄", "Completed page %d/%d with %d regions", i+1, total, len(regions))
		return nil
	}

	limit := o.config.MaxConcurrency
	if !desc.ConcurrentSafe || limit <= 1 || total == 1 {
		for i := range images {
			if err := ctx.Err(); err != nil {
				return nil, utils.NewCandidateError(desc.Name, "interrupted", err)
			}
			if err := recognize(ctx, i); err != nil {
				return nil, err
			}
		}
		return pages, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := range images {
		i := i
		g.Go(func() (err error) {
			// runCandidate's recover does not reach pool goroutines
			defer func() {
				if r := recover(); r != nil {
					err = utils.NewCandidateError(desc.Name, fmt.Sprintf("engine panicked on page %d: %v", i+1, r), nil)
				}
			}()
			return recognize(gctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return pages, nil
}

// checkPageNumbers requires pages numbered 1..n in order
func checkPageNumbers(pages []types.PageResult) error {
	if len(pages) == 0 {
		return fmt.Errorf("engine returned no pages")
	}
	for i, p := range pages {
		if p.PageNumber != i+1 {
			return fmt.Errorf("page %d reported as page %d", i+1, p.PageNumber)
		}
	}
	return nil
}

func totalFailureMessage(errs []types.CandidateError) string {
	if len(errs) == 0 {
		return "all engines failed"
	}
	parts := make([]string, len(errs))
	for i, e := range errs {
		parts[i] = e.Engine + ": " + e.Error
	}
	return "all engines failed: " + strings.Join(parts, "; ")
}

// failedResult builds the unsuccessful result for err
func failedResult(err error) *types.DocumentResult {
	result := &types.DocumentResult{
		Success:   false,
		Error:     utils.ErrorReason(err),
		Timestamp: time.Now(),
	}
	result.ClearText()
	return result
}
