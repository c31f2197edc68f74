package utils

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nodewee/scan-to-text/pkg/constants"
)

// PathUtils provides cross-platform path utilities
type PathUtils struct {
	tempRoot string
}

// NewPathUtilsWithTempRoot creates a PathUtils that allocates temp entries under root
func NewPathUtilsWithTempRoot(root string) *PathUtils {
	return &PathUtils{tempRoot: root}
}

// NormalizePath normalizes a path for the current platform
func (p *PathUtils) NormalizePath(path string) string {
	cleaned := filepath.Clean(path)

	// On Windows, ensure proper drive letter formatting
	if constants.IsWindows() && len(cleaned) >= 2 && cleaned[1] == ':' {
		if cleaned[0] >= 'a' && cleaned[0] <= 'z' {
			cleaned = strings.ToUpper(string(cleaned[0])) + cleaned[1:]
		}
	}

	return cleaned
}

// GetAbsolutePath returns the absolute, normalized path
func (p *PathUtils) GetAbsolutePath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path: %w", err)
	}
	return p.NormalizePath(absPath), nil
}

// EnsureDir creates a directory if it doesn't exist
func (p *PathUtils) EnsureDir(dirPath string) error {
	return os.MkdirAll(p.NormalizePath(dirPath), constants.DefaultDirPermission)
}

// GetTempDir returns the directory temp entries are created in
func (p *PathUtils) GetTempDir() string {
	if p.tempRoot != "" {
		return p.NormalizePath(p.tempRoot)
	}
	tempDir := os.TempDir()
	if tempDir == "" {
		return constants.GetDefaultTempDir()
	}
	return p.NormalizePath(tempDir)
}

// CreateTempDir creates a uniquely named temporary directory
func (p *PathUtils) CreateTempDir(prefix string) (string, error) {
	root := p.GetTempDir()
	if err := p.EnsureDir(root); err != nil {
		return "", fmt.Errorf("failed to ensure temp root: %w", err)
	}

	fullPrefix := prefix
	if !strings.HasSuffix(fullPrefix, "-") {
		fullPrefix += "-"
	}

	dir, err := os.MkdirTemp(root, fullPrefix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp directory: %w", err)
	}

	return p.NormalizePath(dir), nil
}

// CreateTempFile creates an empty temporary file in dir
func (p *PathUtils) CreateTempFile(dir, prefix, suffix string) (string, error) {
	if dir == "" {
		dir = p.GetTempDir()
	}

	if err := p.EnsureDir(dir); err != nil {
		return "", fmt.Errorf("failed to ensure temp directory: %w", err)
	}

	file, err := os.CreateTemp(dir, prefix+"*"+suffix)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	defer file.Close()

	return p.NormalizePath(file.Name()), nil
}

// SanitizeFileName sanitizes a filename for the current platform
func (p *PathUtils) SanitizeFileName(filename string) string {
	sanitized := filename

	if constants.IsWindows() {
		invalidChars := []string{"<", ">", ":", "\"", "/", "\\", "|", "?", "*"}
		for _, char := range invalidChars {
			sanitized = strings.ReplaceAll(sanitized, char, "_")
		}
		sanitized = strings.TrimRight(sanitized, ". ")
	} else {
		sanitized = strings.ReplaceAll(sanitized, "/", "_")
		sanitized = strings.ReplaceAll(sanitized, "\x00", "_")
	}

	if strings.TrimSpace(sanitized) == "" {
		sanitized = "unnamed_file"
	}

	return sanitized
}

// Global instance for easy access
var DefaultPathUtils = &PathUtils{}

func NormalizePath(path string) string {
	return DefaultPathUtils.NormalizePath(path)
}

func GetAbsolutePath(path string) (string, error) {
	return DefaultPathUtils.GetAbsolutePath(path)
}

func EnsureDir(dirPath string) error {
	return DefaultPathUtils.EnsureDir(dirPath)
}

func SanitizeFileName(filename string) string {
	return DefaultPathUtils.SanitizeFileName(filename)
}
