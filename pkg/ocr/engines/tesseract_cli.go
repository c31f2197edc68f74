package engines

import (
	"bytes"
	"context"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// TesseractCLIEngine runs the tesseract binary in hOCR mode
type TesseractCLIEngine struct {
	baseAdapter
	tessdata string
}

// TesseractCLIDescriptor describes the tesseract CLI engine
func TesseractCLIDescriptor(cfg *config.Config) types.EngineDescriptor {
	return types.EngineDescriptor{
		Name:                 constants.EngineTesseractCLI,
		Description:          "Tesseract OCR command line (hOCR output)",
		SupportedKinds:       []types.DocumentKind{types.DocumentKindImage},
		RequiresExternalTool: true,
		RequiredTools: []types.ToolRequirement{
			toolRequirement(constants.ToolTesseract, cfg.TesseractPath, constants.GetPlatformConfig().TesseractPaths),
		},
		LanguageScheme:  types.LanguageSchemeISO6392,
		RegionSeparator: constants.ImageRegionSeparator,
		ConcurrentSafe:  true,
	}
}

// NewTesseractCLIEngine creates a tesseract CLI adapter
func NewTesseractCLIEngine(cfg *config.Config, log *logger.Logger, opts interfaces.AdapterOptions) (interfaces.EngineAdapter, error) {
	desc := TesseractCLIDescriptor(cfg)
	base, err := newBaseAdapter(desc, log, opts)
	if err != nil {
		return nil, err
	}
	if err := base.resolveBinary(desc.RequiredTools[0]); err != nil {
		return nil, err
	}
	return &TesseractCLIEngine{baseAdapter: base, tessdata: cfg.TessdataPrefix}, nil
}

// RecognizePDF is not supported; PDFs reach tesseract as rasterized pages
func (e *TesseractCLIEngine) RecognizePDF(ctx context.Context, pdfPath string) ([]types.PageResult, error) {
	return nil, ErrUnsupportedInput
}

// RecognizeImage runs `tesseract <image> stdout -l <lang> hocr` and parses the lines
func (e *TesseractCLIEngine) RecognizeImage(ctx context.Context, imagePath string) ([]types.TextRegion, error) {
	args := []string{imagePath, "stdout", "-l", e.langCode}
	if e.tessdata != "" {
		args = append(args, "--tessdata-dir", e.tessdata)
	}
	args = append(args, "hocr")

	out, err := utils.RunCommand(ctx, e.logger, e.binary, args...)
	if err != nil {
		return nil, err
	}

	regions, err := parseHOCR(bytes.NewReader(out))
	if err != nil {
		return nil, err
	}

	e.logger.Debug("tesseract recognized %d lines in %s", len(regions), imagePath)
	return regions, nil
}
