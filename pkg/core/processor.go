package core

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/nodewee/scan-to-text/pkg/cache"
	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/ocr/engines"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// DefaultFileProcessor runs validation, caching, selection and extraction for one input
type DefaultFileProcessor struct {
	config     *config.Config
	logger     *logger.Logger
	components *Components
}

var _ interfaces.FileProcessor = (*DefaultFileProcessor)(nil)

// NewFileProcessor creates a processor with the built-in engines
func NewFileProcessor(cfg *config.Config, log *logger.Logger) *DefaultFileProcessor {
	return NewFileProcessorWithComponents(cfg, log, NewComponents(cfg, log))
}

// NewFileProcessorWithComponents creates a processor over explicit components
func NewFileProcessorWithComponents(cfg *config.Config, log *logger.Logger, c *Components) *DefaultFileProcessor {
	if log == nil {
		log = logger.Nop()
	}
	log.Info("File processor initialized: %s", cfg.String())
	return &DefaultFileProcessor{config: cfg, logger: log, components: c}
}

// Capabilities returns the probed engine availability
func (p *DefaultFileProcessor) Capabilities() types.CapabilityState {
	return p.components.Prober.Probe()
}

// Components returns the collaborators the processor runs on
func (p *DefaultFileProcessor) Components() *Components {
	return p.components
}

// ProcessFile extracts text from inputFile. An empty language uses the configured default.
// The result is never nil; failures are reported through Success and Error.
func (p *DefaultFileProcessor) ProcessFile(ctx context.Context, inputFile, language string) *types.DocumentResult {
	startTime := time.Now()
	if language == "" {
		language = p.config.Language
	}

	result, err := p.process(ctx, inputFile, language)
	if err != nil {
		p.logger.Error("Extraction failed for %s: %v", inputFile, err)
		if result == nil {
			result = &types.DocumentResult{Success: false, Error: utils.ErrorReason(err), Language: language}
		}
	}

	if !result.Success {
		result.ClearText()
	}
	result.ID = uuid.NewString()
	result.ProcessingTimeMs = time.Since(startTime).Milliseconds()
	result.Timestamp = time.Now()
	return result
}

func (p *DefaultFileProcessor) process(ctx context.Context, inputFile, language string) (*types.DocumentResult, error) {
	p.logger.Info("=== Starting file processing ===")
	p.logger.Info("Input file: %s", inputFile)

	if _, err := engines.LanguageCode(language, types.LanguageSchemeISO6391); err != nil {
		return nil, utils.NewValidationError(fmt.Sprintf("invalid language code %q", language), err)
	}

	doc, err := p.validateInput(inputFile)
	if err != nil {
		return nil, err
	}

	var cacheKey string
	if p.components.Cache != nil {
		cacheKey, err = p.cacheKey(doc.Path, language)
		if err != nil {
			p.logger.Warn("Result cache disabled for this file: %v", err)
		} else if cached, ok := p.components.Cache.Get(cacheKey); ok {
			p.logger.Progress("⏭️", "Loaded cached result for %s", inputFile)
			cached.Cached = true
			return cached, nil
		}
	}

	if p.config.TimeoutMinutes > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(p.config.TimeoutMinutes)*time.Minute)
		defer cancel()
	}

	caps := p.components.Prober.Probe()
	candidates, err := p.components.Selector.Select(doc.Kind, caps)
	if err != nil {
		result := &types.DocumentResult{Success: false, Error: utils.ErrorReason(err), Language: language}
		return result, err
	}

	result, err := p.components.Orchestrator.Extract(ctx, doc, candidates, language)
	if err != nil {
		return result, err
	}

	if cacheKey != "" {
		if err := p.components.Cache.Put(cacheKey, result); err != nil {
			p.logger.Warn("Failed to cache result: %v", err)
		}
	}

	p.logger.Info("=== File processing completed ===")
	return result, nil
}

// validateInput checks the file and returns its document description
func (p *DefaultFileProcessor) validateInput(inputFile string) (types.Document, error) {
	info, err := utils.ValidateReadableFile(inputFile)
	if err != nil {
		return types.Document{}, err
	}

	if p.config.MaxFileSize > 0 && info.Size() > p.config.MaxFileSize {
		return types.Document{}, utils.NewValidationError(
			fmt.Sprintf("file size (%d bytes) exceeds maximum limit (%d bytes)", info.Size(), p.config.MaxFileSize), nil)
	}
	if info.Size() > constants.WarnFileSizeLimit {
		p.logger.Warn("Large file detected (%d bytes), processing may take longer", info.Size())
	}

	doc, err := utils.NewDocument(inputFile)
	if err != nil {
		return types.Document{}, err
	}

	if doc.Kind == types.DocumentKindImage {
		w, h, format, err := utils.ImageDimensions(doc.Path)
		if err != nil {
			return types.Document{}, err
		}
		p.logger.Debug("Image %s: %dx%d %s", doc.Path, w, h, format)
	}

	return doc, nil
}

func (p *DefaultFileProcessor) cacheKey(path, language string) (string, error) {
	hash, err := utils.CalculateFileSHA256(path)
	if err != nil {
		return "", err
	}
	return cache.Key(hash, language, p.config.ConfidenceThreshold, p.config.RasterDPI), nil
}

// WriteResult writes the result as indented JSON, creating parent directories
func WriteResult(outputFile string, result *types.DocumentResult) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return utils.WrapError(err, utils.ErrorTypeSystem, "failed to encode result")
	}

	return utils.WithRetry(func() error {
		if err := os.MkdirAll(filepath.Dir(outputFile), constants.DefaultDirPermission); err != nil {
			return utils.NewIOError("failed to create output directory", err)
		}
		if err := os.WriteFile(outputFile, data, constants.DefaultFilePermission); err != nil {
			return utils.NewIOError("failed to write result file", err)
		}
		return nil
	}, constants.DefaultMaxRetries)
}
