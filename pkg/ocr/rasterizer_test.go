package ocr

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

func TestCollectPageImagesOrdersNumerically(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"page-10.png", "page-2.png", "page-1.png", "notes.txt", "cover.png"} {
		require.NoError(t, writeEmpty(filepath.Join(dir, name)))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "page-3.png"), 0755))

	got, err := collectPageImages(dir)
	require.NoError(t, err)

	var bases []string
	for _, p := range got {
		bases = append(bases, filepath.Base(p))
	}
	assert.Equal(t, []string{"page-1.png", "page-2.png", "page-10.png"}, bases)
}

func TestToolRasterizerAvailability(t *testing.T) {
	cfg := config.NewConfig()

	assert.False(t, NewToolRasterizer(cfg, fakeLookPath(), nil).Available())
	assert.True(t, NewToolRasterizer(cfg, fakeLookPath("gs"), nil).Available())
	assert.True(t, NewToolRasterizer(cfg, fakeLookPath("pdftoppm"), nil).Available())
}

func TestToolRasterizerUnavailable(t *testing.T) {
	cfg := config.NewConfig()
	tm := utils.NewSimpleTempManager(t.TempDir(), nil)
	defer tm.Cleanup()

	_, err := NewToolRasterizer(cfg, fakeLookPath(), nil).Rasterize(context.Background(), "x.pdf", 200, tm)
	require.Error(t, err)
	assert.Equal(t, utils.ErrorTypeConfiguration, utils.GetErrorType(err))
}

func TestRasterizerToolsHonorOverrides(t *testing.T) {
	cfg := config.NewConfig()
	cfg.GhostscriptPath = "/opt/gs/bin/gs"

	tools := RasterizerTools(cfg)
	require.Len(t, tools, 2)
	assert.Equal(t, "/opt/gs/bin/gs", tools[0].Binaries[0])
}

// brokenPagesPDF has a valid xref but an unterminated array in its page tree
func brokenPagesPDF(t *testing.T) string {
	t.Helper()
	objects := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		"<< /Type /Pages /Kids [3 0 R /Count 1 >>",
		"<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] >>",
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, body := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, body)
	}
	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(objects)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objects)+1, xref)

	path := filepath.Join(t.TempDir(), "broken.pdf")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
	return path
}

// fakeGhostscript writes a script that copies a PNG to the -sOutputFile page 1 path
func fakeGhostscript(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script stand-in requires a POSIX shell")
	}
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	dir := t.TempDir()
	page := filepath.Join(dir, "page.png")
	f, err := os.Create(page)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))))
	require.NoError(t, f.Close())

	script := filepath.Join(dir, "gs")
	body := "#!/bin/sh\n" +
		"for a in \"$@\"; do case \"$a\" in -sOutputFile=*) out=\"${a#-sOutputFile=}\";; esac; done\n" +
		"cp \"" + page + "\" \"$(printf \"$out\" 1)\"\n"
	require.NoError(t, os.WriteFile(script, []byte(body), 0755))
	return script
}

func TestRasterizeToleratesUnparseablePDF(t *testing.T) {
	gs := fakeGhostscript(t)
	lookPath := func(name string) (string, error) {
		if name == "gs" {
			return gs, nil
		}
		return "", exec.ErrNotFound
	}
	tm := utils.NewSimpleTempManager(t.TempDir(), nil)
	defer tm.Cleanup()

	var images []string
	var err error
	require.NotPanics(t, func() {
		images, err = NewToolRasterizer(config.NewConfig(), lookPath, nil).
			Rasterize(context.Background(), brokenPagesPDF(t), 72, tm)
	})
	require.NoError(t, err)
	require.Len(t, images, 1)
	assert.Equal(t, "page_001.png", filepath.Base(images[0]))
}
