package engines

import (
	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/types"
)

// TesseractDescriptor describes the in-process Tesseract engine.
// It is only usable in binaries built with the "ocr" tag.
func TesseractDescriptor(cfg *config.Config) types.EngineDescriptor {
	return types.EngineDescriptor{
		Name:            constants.EngineTesseract,
		Description:     "Tesseract OCR via libtesseract (gosseract)",
		SupportedKinds:  []types.DocumentKind{types.DocumentKindImage},
		RequiresLibrary: true,
		LanguageScheme:  types.LanguageSchemeISO6392,
		RegionSeparator: constants.ImageRegionSeparator,
		// every call opens its own client
		ConcurrentSafe: true,
	}
}
