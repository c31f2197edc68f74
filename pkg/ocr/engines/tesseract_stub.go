//go:build !ocr

package engines

import (
	"github.com/rotisserie/eris"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
)

var errTesseractNotBuilt = eris.New("built without libtesseract support (rebuild with -tags ocr)")

// TesseractLibraryCheck always fails in builds without the ocr tag
func TesseractLibraryCheck() error {
	return errTesseractNotBuilt
}

// NewTesseractEngine always fails in builds without the ocr tag
func NewTesseractEngine(cfg *config.Config, log *logger.Logger, opts interfaces.AdapterOptions) (interfaces.EngineAdapter, error) {
	return nil, errTesseractNotBuilt
}
