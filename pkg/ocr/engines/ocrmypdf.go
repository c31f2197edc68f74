package engines

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// OCRmyPDFEngine adds a text layer with ocrmypdf and reads it back
type OCRmyPDFEngine struct {
	baseAdapter
}

// OCRmyPDFDescriptor describes the ocrmypdf engine.
// ocrmypdf shells out to Ghostscript, so both must be installed.
func OCRmyPDFDescriptor(cfg *config.Config) types.EngineDescriptor {
	platform := constants.GetPlatformConfig()
	return types.EngineDescriptor{
		Name:                 constants.EngineOCRmyPDF,
		Description:          "OCRmyPDF (adds a searchable text layer to PDFs)",
		SupportedKinds:       []types.DocumentKind{types.DocumentKindPDF},
		RequiresExternalTool: true,
		RequiredTools: []types.ToolRequirement{
			toolRequirement(constants.ToolOCRmyPDF, cfg.OCRmyPDFPath, platform.OCRmyPDFPaths),
			toolRequirement(constants.ToolGhostscript, cfg.GhostscriptPath, platform.GhostscriptPaths),
		},
		LanguageScheme:  types.LanguageSchemeISO6392,
		RegionSeparator: constants.TextLayerSeparator,
	}
}

// NewOCRmyPDFEngine creates an ocrmypdf adapter
func NewOCRmyPDFEngine(cfg *config.Config, log *logger.Logger, opts interfaces.AdapterOptions) (interfaces.EngineAdapter, error) {
	desc := OCRmyPDFDescriptor(cfg)
	base, err := newBaseAdapter(desc, log, opts)
	if err != nil {
		return nil, err
	}
	if base.temp == nil {
		return nil, eris.New("ocrmypdf adapter requires a temp file manager")
	}
	if err := base.resolveBinary(desc.RequiredTools[0]); err != nil {
		return nil, err
	}
	return &OCRmyPDFEngine{baseAdapter: base}, nil
}

// RecognizeImage is not supported; ocrmypdf only reads PDFs
func (e *OCRmyPDFEngine) RecognizeImage(ctx context.Context, imagePath string) ([]types.TextRegion, error) {
	return nil, ErrUnsupportedInput
}

// RecognizePDF writes an OCR'd copy of the PDF and reads its text layer page by page
func (e *OCRmyPDFEngine) RecognizePDF(ctx context.Context, pdfPath string) ([]types.PageResult, error) {
	outPath, err := e.temp.CreateTempFile("ocrmypdf", ".pdf")
	if err != nil {
		return nil, eris.Wrap(err, "failed to create ocrmypdf output file")
	}

	_, err = utils.RunCommand(ctx, e.logger, e.binary,
		"--quiet",
		"--skip-text",
		"--output-type", "pdf",
		"-l", e.langCode,
		pdfPath, outPath)
	if err != nil {
		return nil, err
	}

	texts, err := readTextLayer(outPath)
	if err != nil {
		return nil, err
	}

	pages := textLayerPages(constants.EngineOCRmyPDF, texts)
	e.logger.Debug("ocrmypdf produced %d pages for %s", len(pages), pdfPath)
	return pages, nil
}
