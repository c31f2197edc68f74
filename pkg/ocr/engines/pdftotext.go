package engines

import (
	"context"
	"strings"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// PdftotextEngine reads the embedded text layer with Poppler's pdftotext
type PdftotextEngine struct {
	baseAdapter
}

// PdftotextDescriptor describes the pdftotext engine
func PdftotextDescriptor(cfg *config.Config) types.EngineDescriptor {
	return types.EngineDescriptor{
		Name:                 constants.EnginePdftotext,
		Description:          "Poppler pdftotext (embedded text layer)",
		SupportedKinds:       []types.DocumentKind{types.DocumentKindPDF},
		RequiresExternalTool: true,
		RequiredTools: []types.ToolRequirement{
			toolRequirement(constants.ToolPdftotext, cfg.PdftotextPath, constants.GetPlatformConfig().PdftotextPaths),
		},
		LanguageScheme:  types.LanguageSchemeISO6391,
		RegionSeparator: constants.TextLayerSeparator,
	}
}

// NewPdftotextEngine creates a pdftotext adapter
func NewPdftotextEngine(cfg *config.Config, log *logger.Logger, opts interfaces.AdapterOptions) (interfaces.EngineAdapter, error) {
	desc := PdftotextDescriptor(cfg)
	base, err := newBaseAdapter(desc, log, opts)
	if err != nil {
		return nil, err
	}
	if err := base.resolveBinary(desc.RequiredTools[0]); err != nil {
		return nil, err
	}
	return &PdftotextEngine{baseAdapter: base}, nil
}

// RecognizeImage is not supported; pdftotext only reads PDFs
func (e *PdftotextEngine) RecognizeImage(ctx context.Context, imagePath string) ([]types.TextRegion, error) {
	return nil, ErrUnsupportedInput
}

// RecognizePDF runs `pdftotext -enc UTF-8 <pdf> -` and splits pages on form feeds
func (e *PdftotextEngine) RecognizePDF(ctx context.Context, pdfPath string) ([]types.PageResult, error) {
	out, err := utils.RunCommand(ctx, e.logger, e.binary, "-enc", "UTF-8", pdfPath, "-")
	if err != nil {
		return nil, err
	}

	pages := textLayerPages(constants.EnginePdftotext, splitPdftotextPages(string(out)))
	e.logger.Debug("pdftotext read %d pages from %s", len(pages), pdfPath)
	return pages, nil
}

// splitPdftotextPages splits pdftotext output into pages.
// pdftotext ends every page with a form feed, so the trailing empty chunk is dropped.
func splitPdftotextPages(out string) []string {
	chunks := strings.Split(out, "\f")
	if len(chunks) > 1 && strings.TrimSpace(chunks[len(chunks)-1]) == "" {
		chunks = chunks[:len(chunks)-1]
	}
	return chunks
}
