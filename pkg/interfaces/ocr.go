package interfaces

import (
	"context"

	"github.com/nodewee/scan-to-text/pkg/types"
)

// EngineAdapter is the uniform face of one OCR engine.
// An instance is bound to a language at construction and is not safe for
// concurrent Recognize calls unless its descriptor says otherwise.
type EngineAdapter interface {
	// Descriptor returns the static engine description
	Descriptor() types.EngineDescriptor

	// RecognizeImage recognizes the regions of one page image
	RecognizeImage(ctx context.Context, imagePath string) ([]types.TextRegion, error)

	// RecognizePDF recognizes a whole PDF, returning pages numbered from 1
	RecognizePDF(ctx context.Context, pdfPath string) ([]types.PageResult, error)

	// Close releases engine resources
	Close() error
}

// AdapterFactory constructs an adapter bound to a language and a temp scope
type AdapterFactory func(opts AdapterOptions) (EngineAdapter, error)

// AdapterOptions carries what an adapter needs at construction
type AdapterOptions struct {
	// Language is an ISO 639-1 hint; each adapter translates it
	Language string
	// Temp owns every scratch file the adapter creates
	Temp TempFileManager
}

// Rasterizer converts a PDF into ordered page images
type Rasterizer interface {
	// Available reports whether a rasterization toolchain was found
	Available() bool

	// Rasterize writes one image per page, in page order, into space owned by tm
	Rasterize(ctx context.Context, pdfPath string, dpi int, tm TempFileManager) ([]string, error)
}

// CapabilityProber determines which engines are usable
type CapabilityProber interface {
	Probe() types.CapabilityState
}

// FileProcessor runs the whole extraction workflow for one input
type FileProcessor interface {
	// ProcessFile extracts text from inputFile; the result is always non-nil
	ProcessFile(ctx context.Context, inputFile, language string) *types.DocumentResult
}

// ResultCache stores successful results keyed by content hash
type ResultCache interface {
	Get(key string) (*types.DocumentResult, bool)
	Put(key string, result *types.DocumentResult) error
}
