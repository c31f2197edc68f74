package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/types"
)

// File extension sets for supported document kinds
var (
	ImageExtensions = toSet(constants.ImageExtensions)
	PDFExtensions   = toSet(constants.PDFExtensions)
)

func toSet(values []string) map[string]bool {
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// FileExtension returns the lower-case extension without the leading dot
func FileExtension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// DetectDocumentKind infers the document kind from the file extension
func DetectDocumentKind(path string) (types.DocumentKind, error) {
	ext := FileExtension(path)
	switch {
	case PDFExtensions[ext]:
		return types.DocumentKindPDF, nil
	case ImageExtensions[ext]:
		return types.DocumentKindImage, nil
	default:
		return "", NewUnsupportedError(fmt.Sprintf("unsupported file extension %q", ext), nil).
			WithContext("path", path)
	}
}

// NewDocument builds a Document for path, normalizing it and inferring its kind
func NewDocument(path string) (types.Document, error) {
	absPath, err := GetAbsolutePath(path)
	if err != nil {
		return types.Document{}, WrapError(err, ErrorTypeValidation, "error resolving file path")
	}

	kind, err := DetectDocumentKind(absPath)
	if err != nil {
		return types.Document{}, err
	}

	return types.Document{Path: absPath, Kind: kind}, nil
}

// LookPathFunc resolves an executable name on the search path
type LookPathFunc func(name string) (string, error)

// IsCommandAvailable checks if a command is available in PATH
func IsCommandAvailable(command string) bool {
	_, err := exec.LookPath(command)
	return err == nil
}

// FindCommand returns the first candidate that resolves with lookPath
func FindCommand(lookPath LookPathFunc, candidates ...string) (string, bool) {
	if lookPath == nil {
		lookPath = exec.LookPath
	}
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		if resolved, err := lookPath(candidate); err == nil {
			return resolved, true
		}
	}
	return "", false
}

// ToolCandidates puts a configured override in front of the platform names
func ToolCandidates(override string, defaults []string) []string {
	if override == "" {
		return defaults
	}
	return append([]string{override}, defaults...)
}

// ValidateReadableFile checks that path exists, is a regular file and can be opened
func ValidateReadableFile(path string) (os.FileInfo, error) {
	if path == "" {
		return nil, NewValidationError("input file path cannot be empty", nil)
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, NewNotFoundError(fmt.Sprintf("input file not found: %s", path), err)
	}
	if err != nil {
		return nil, NewIOError(fmt.Sprintf("cannot stat input file: %s", path), err)
	}
	if info.IsDir() {
		return nil, NewValidationError(fmt.Sprintf("input path is a directory: %s", path), nil)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, NewPermissionError(fmt.Sprintf("cannot read input file: %s", path), err)
	}
	file.Close()

	return info, nil
}
