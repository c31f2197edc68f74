//go:build ocr

package engines

import (
	"context"

	"github.com/otiai10/gosseract/v2"
	"github.com/rotisserie/eris"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/types"
)

// TesseractEngine recognizes images in-process through libtesseract
type TesseractEngine struct {
	baseAdapter
	tessdata string
}

// TesseractLibraryCheck verifies that libtesseract can be loaded
func TesseractLibraryCheck() error {
	if gosseract.Version() == "" {
		return eris.New("libtesseract reported no version")
	}
	return nil
}

// NewTesseractEngine creates a gosseract-backed adapter
func NewTesseractEngine(cfg *config.Config, log *logger.Logger, opts interfaces.AdapterOptions) (interfaces.EngineAdapter, error) {
	base, err := newBaseAdapter(TesseractDescriptor(cfg), log, opts)
	if err != nil {
		return nil, err
	}
	return &TesseractEngine{baseAdapter: base, tessdata: cfg.TessdataPrefix}, nil
}

// RecognizePDF is not supported; PDFs reach tesseract as rasterized pages
func (e *TesseractEngine) RecognizePDF(ctx context.Context, pdfPath string) ([]types.PageResult, error) {
	return nil, ErrUnsupportedInput
}

// RecognizeImage returns one region per text line
func (e *TesseractEngine) RecognizeImage(ctx context.Context, imagePath string) ([]types.TextRegion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	client := gosseract.NewClient()
	defer client.Close()

	if e.tessdata != "" {
		client.TessdataPrefix = e.tessdata
	}
	if err := client.SetLanguage(e.langCode); err != nil {
		return nil, eris.Wrapf(err, "failed to set tesseract language %q", e.langCode)
	}
	if err := client.SetPageSegMode(gosseract.PSM_AUTO); err != nil {
		return nil, eris.Wrap(err, "failed to set page segmentation mode")
	}
	if err := client.SetImage(imagePath); err != nil {
		return nil, eris.Wrapf(err, "failed to load image %s", imagePath)
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_TEXTLINE)
	if err != nil {
		return nil, eris.Wrap(err, "tesseract recognition failed")
	}

	regions := make([]types.TextRegion, 0, len(boxes))
	for _, b := range boxes {
		regions = append(regions, types.TextRegion{
			Text:       b.Word,
			Confidence: clampConfidence(b.Confidence / constants.TesseractConfPercent),
			BoundingPolygon: rectPolygon(
				float64(b.Box.Min.X), float64(b.Box.Min.Y),
				float64(b.Box.Max.X), float64(b.Box.Max.Y)),
		})
	}

	e.logger.Debug("tesseract recognized %d lines in %s", len(regions), imagePath)
	return regions, nil
}
