package engines

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// SuryaOCREngine runs the surya_ocr CLI on page images
type SuryaOCREngine struct {
	baseAdapter
}

// SuryaOCRResult represents the structure of surya_ocr JSON output
type SuryaOCRResult map[string][]SuryaPageResult

type SuryaPageResult struct {
	TextLines []SuryaTextLine `json:"text_lines"`
	Languages interface{}     `json:"languages"`
	ImageBbox []float64       `json:"image_bbox"`
	Page      int             `json:"page"`
}

type SuryaTextLine struct {
	Text       string      `json:"text"`
	Confidence float64     `json:"confidence"`
	Polygon    [][]float64 `json:"polygon"`
	Bbox       []float64   `json:"bbox"`
}

// SuryaDescriptor describes the Surya engine
func SuryaDescriptor(cfg *config.Config) types.EngineDescriptor {
	return types.EngineDescriptor{
		Name:                 constants.EngineSurya,
		Description:          "Surya OCR (local deep-learning OCR CLI)",
		SupportedKinds:       []types.DocumentKind{types.DocumentKindImage},
		RequiresExternalTool: true,
		RequiredTools: []types.ToolRequirement{
			toolRequirement(constants.ToolSuryaOCR, cfg.SuryaOCRPath, constants.GetPlatformConfig().SuryaOCRPaths),
		},
		LanguageScheme:  types.LanguageSchemeISO6391,
		RegionSeparator: constants.ImageRegionSeparator,
		ConcurrentSafe:  true,
	}
}

// NewSuryaOCREngine creates a new Surya OCR adapter
func NewSuryaOCREngine(cfg *config.Config, log *logger.Logger, opts interfaces.AdapterOptions) (interfaces.EngineAdapter, error) {
	desc := SuryaDescriptor(cfg)
	base, err := newBaseAdapter(desc, log, opts)
	if err != nil {
		return nil, err
	}
	if base.temp == nil {
		return nil, eris.New("surya adapter requires a temp file manager")
	}
	if err := base.resolveBinary(desc.RequiredTools[0]); err != nil {
		return nil, err
	}
	return &SuryaOCREngine{baseAdapter: base}, nil
}

// RecognizePDF is not supported; PDFs reach Surya as rasterized pages
func (e *SuryaOCREngine) RecognizePDF(ctx context.Context, pdfPath string) ([]types.PageResult, error) {
	return nil, ErrUnsupportedInput
}

// RecognizeImage extracts text lines from image using Surya OCR
func (e *SuryaOCREngine) RecognizeImage(ctx context.Context, imagePath string) ([]types.TextRegion, error) {
	e.logger.Debug("Starting Surya OCR extraction from image: %s", imagePath)

	outputDir, err := e.temp.CreateTempDir("surya")
	if err != nil {
		return nil, eris.Wrap(err, "failed to create surya output directory")
	}

	_, err = utils.RunCommand(ctx, e.logger, e.binary,
		imagePath,
		"--output_dir", outputDir,
		"--langs", e.langCode)
	if err != nil {
		return nil, err
	}

	content, err := os.ReadFile(suryaResultsPath(outputDir, imagePath))
	if err != nil {
		return nil, eris.Wrap(err, "error reading surya results.json")
	}

	regions, err := parseSuryaResults(content)
	if err != nil {
		return nil, err
	}

	e.logger.Debug("Surya OCR recognized %d lines", len(regions))
	return regions, nil
}

// suryaResultsPath is {output_dir}/{input basename without extension}/results.json
func suryaResultsPath(outputDir, inputPath string) string {
	fileName := filepath.Base(inputPath)
	baseName := strings.TrimSuffix(fileName, filepath.Ext(fileName))
	return filepath.Join(outputDir, baseName, "results.json")
}

// parseSuryaResults converts Surya JSON into regions, preserving detection order
func parseSuryaResults(content []byte) ([]types.TextRegion, error) {
	var results SuryaOCRResult
	if err := json.Unmarshal(content, &results); err != nil {
		return nil, eris.Wrap(err, "error parsing surya JSON")
	}
	if len(results) != 1 {
		return nil, eris.Errorf("expected results for one input, got %d", len(results))
	}

	var regions []types.TextRegion
	for _, pages := range results {
		for _, page := range pages {
			for _, line := range page.TextLines {
				regions = append(regions, types.TextRegion{
					Text:            line.Text,
					Confidence:      clampConfidence(line.Confidence),
					BoundingPolygon: suryaPolygon(line),
				})
			}
		}
	}
	return regions, nil
}

func suryaPolygon(line SuryaTextLine) []types.Point {
	if len(line.Polygon) > 0 {
		points := make([]types.Point, 0, len(line.Polygon))
		for _, p := range line.Polygon {
			if len(p) >= 2 {
				points = append(points, types.Point{X: p[0], Y: p[1]})
			}
		}
		return points
	}
	if len(line.Bbox) == 4 {
		return rectPolygon(line.Bbox[0], line.Bbox[1], line.Bbox[2], line.Bbox[3])
	}
	return nil
}

func clampConfidence(c float64) float64 {
	switch {
	case c < 0:
		return 0
	case c > constants.MaxConfidence:
		return constants.MaxConfidence
	default:
		return c
	}
}
