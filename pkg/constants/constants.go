package constants

import "time"

// Application constants
const (
	AppName = "scan-to-text"
	// Note: AppVersion is managed via build-time ldflags injection in main.go
)

// File processing constants
const (
	DefaultFilePermission = 0644
	DefaultDirPermission  = 0755

	// Text assembly
	DefaultPageTextHeader = "--- Page %d ---"
	PageSeparator         = "\n\n"
	ImageRegionSeparator  = "\n"
	TextLayerSeparator    = " "

	DefaultMaxRetries      = 3
	DefaultTimeoutDuration = 30 * time.Minute

	MaxConcurrentPages = 10
)

// File size limits (in bytes)
const (
	MaxFileSize       = 100 * 1024 * 1024 // 100MB
	WarnFileSizeLimit = 10 * 1024 * 1024  // 10MB
	MaxUploadSize     = 50 * 1024 * 1024
)

// Rasterization
const (
	DefaultRasterDPI = 200
	MinRasterDPI     = 72
	MaxRasterDPI     = 600

	// Ghostscript expands %03d itself
	RasterPagePattern = "page_%03d.png"
	RasterPagePrefix  = "page"
)

// Recognition
const (
	DefaultLanguage      = "es"
	TextLayerConfidence  = 1.0
	MaxConfidence        = 1.0
	TesseractConfPercent = 100.0
	ProbeLibraryTimeout  = 10 * time.Second
)

// HTTP server
const (
	DefaultServerAddr       = ":8080"
	DefaultServerDocLimit   = 2
	MultipartMemory         = 8 << 20
	ServerReadHeaderTimeout = 10 * time.Second
	ServerShutdownTimeout   = 15 * time.Second
)

// Engine names in fixed priority order
const (
	EngineOCRmyPDF     = "ocrmypdf"
	EnginePdftotext    = "pdftotext"
	EngineSurya        = "surya"
	EngineTesseract    = "tesseract"
	EngineTesseractCLI = "tesseract-cli"
)

// External tool identifiers used by the probe
const (
	ToolGhostscript = "ghostscript"
	ToolPdftoppm    = "pdftoppm"
	ToolOCRmyPDF    = "ocrmypdf"
	ToolPdftotext   = "pdftotext"
	ToolSuryaOCR    = "surya_ocr"
	ToolTesseract   = "tesseract"
)

// File type groups
var (
	ImageExtensions = []string{
		"jpg", "jpeg", "png", "gif", "bmp",
		"webp", "tiff", "tif",
	}

	PDFExtensions = []string{"pdf"}
)
