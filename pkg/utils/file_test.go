package utils

import (
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/scan-to-text/pkg/types"
)

func TestDetectDocumentKind(t *testing.T) {
	tests := map[string]types.DocumentKind{
		"scan.pdf":  types.DocumentKindPDF,
		"SCAN.PDF":  types.DocumentKindPDF,
		"page.png":  types.DocumentKindImage,
		"page.JPEG": types.DocumentKindImage,
		"page.tif":  types.DocumentKindImage,
		"page.webp": types.DocumentKindImage,
	}
	for name, want := range tests {
		got, err := DetectDocumentKind(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}

	_, err := DetectDocumentKind("notes.docx")
	require.Error(t, err)
	assert.Equal(t, ErrorTypeUnsupported, GetErrorType(err))
}

func TestFindCommand(t *testing.T) {
	lookPath := func(name string) (string, error) {
		if name == "gs" {
			return "/usr/bin/gs", nil
		}
		return "", exec.ErrNotFound
	}

	path, ok := FindCommand(lookPath, "", "gswin64c", "gs")
	assert.True(t, ok)
	assert.Equal(t, "/usr/bin/gs", path)

	_, ok = FindCommand(lookPath, "pdftoppm")
	assert.False(t, ok)
}

func TestToolCandidates(t *testing.T) {
	assert.Equal(t, []string{"gs"}, ToolCandidates("", []string{"gs"}))
	assert.Equal(t, []string{"/opt/gs", "gs"}, ToolCandidates("/opt/gs", []string{"gs"}))
}

func TestValidateReadableFile(t *testing.T) {
	dir := t.TempDir()

	_, err := ValidateReadableFile("")
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))

	_, err = ValidateReadableFile(filepath.Join(dir, "missing.pdf"))
	assert.Equal(t, ErrorTypeNotFound, GetErrorType(err))

	_, err = ValidateReadableFile(dir)
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))

	file := filepath.Join(dir, "ok.pdf")
	require.NoError(t, os.WriteFile(file, []byte("%PDF-1.4"), 0644))
	info, err := ValidateReadableFile(file)
	require.NoError(t, err)
	assert.Equal(t, int64(8), info.Size())
}

func TestImageDimensions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "page.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewRGBA(image.Rect(0, 0, 40, 30))))
	require.NoError(t, f.Close())

	w, h, format, err := ImageDimensions(path)
	require.NoError(t, err)
	assert.Equal(t, 40, w)
	assert.Equal(t, 30, h)
	assert.Equal(t, "png", format)

	bad := filepath.Join(dir, "bad.png")
	require.NoError(t, os.WriteFile(bad, []byte("nope"), 0644))
	_, _, _, err = ImageDimensions(bad)
	assert.Equal(t, ErrorTypeValidation, GetErrorType(err))
}
