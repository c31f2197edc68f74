package constants

import (
	"runtime"
)

// Platform-specific constants
var (
	CurrentOS     = runtime.GOOS
	ExecutableExt = getExecutableExtension()
)

// PlatformConfig lists the binary names each external tool is known by
type PlatformConfig struct {
	GhostscriptPaths []string
	PdftoppmPaths    []string
	OCRmyPDFPaths    []string
	PdftotextPaths   []string
	SuryaOCRPaths    []string
	TesseractPaths   []string
	TempDirPrefix    string
}

// GetPlatformConfig returns platform-specific configuration
func GetPlatformConfig() *PlatformConfig {
	switch runtime.GOOS {
	case "windows":
		return &PlatformConfig{
			GhostscriptPaths: []string{"gswin64c", "gswin32c", "gs"},
			PdftoppmPaths:    []string{"pdftoppm.exe", "pdftoppm"},
			OCRmyPDFPaths:    []string{"ocrmypdf.exe", "ocrmypdf"},
			PdftotextPaths:   []string{"pdftotext.exe", "pdftotext"},
			SuryaOCRPaths:    []string{"surya_ocr.exe", "surya_ocr"},
			TesseractPaths: []string{
				"tesseract.exe",
				"C:\\Program Files\\Tesseract-OCR\\tesseract.exe",
			},
			TempDirPrefix: "scan-to-text-",
		}
	case "darwin":
		return &PlatformConfig{
			GhostscriptPaths: []string{"gs", "/opt/homebrew/bin/gs", "/usr/local/bin/gs"},
			PdftoppmPaths:    []string{"pdftoppm", "/opt/homebrew/bin/pdftoppm"},
			OCRmyPDFPaths:    []string{"ocrmypdf", "/opt/homebrew/bin/ocrmypdf"},
			PdftotextPaths:   []string{"pdftotext", "/opt/homebrew/bin/pdftotext"},
			SuryaOCRPaths:    []string{"surya_ocr"},
			TesseractPaths:   []string{"tesseract", "/opt/homebrew/bin/tesseract"},
			TempDirPrefix:    "scan-to-text-",
		}
	default: // Linux and other Unix-like systems
		return &PlatformConfig{
			GhostscriptPaths: []string{"gs", "/usr/bin/gs", "/usr/local/bin/gs"},
			PdftoppmPaths:    []string{"pdftoppm", "/usr/bin/pdftoppm"},
			OCRmyPDFPaths:    []string{"ocrmypdf", "/usr/bin/ocrmypdf"},
			PdftotextPaths:   []string{"pdftotext", "/usr/bin/pdftotext"},
			SuryaOCRPaths:    []string{"surya_ocr"},
			TesseractPaths:   []string{"tesseract", "/usr/bin/tesseract"},
			TempDirPrefix:    "scan-to-text-",
		}
	}
}

// getExecutableExtension returns the executable file extension for the current platform
func getExecutableExtension() string {
	if runtime.GOOS == "windows" {
		return ".exe"
	}
	return ""
}

// IsWindows returns true if running on Windows
func IsWindows() bool {
	return runtime.GOOS == "windows"
}

// GetDefaultTempDir returns the platform-appropriate temporary directory
func GetDefaultTempDir() string {
	switch runtime.GOOS {
	case "windows":
		return "C:\\Windows\\Temp"
	default:
		return "/tmp"
	}
}
