package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/ocr/engines"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// RasterizerTools lists the rasterization toolchains in preference order
func RasterizerTools(cfg *config.Config) []types.ToolRequirement {
	platform := constants.GetPlatformConfig()
	return []types.ToolRequirement{
		{Name: constants.ToolGhostscript, Binaries: utils.ToolCandidates(cfg.GhostscriptPath, platform.GhostscriptPaths)},
		{Name: constants.ToolPdftoppm, Binaries: utils.ToolCandidates(cfg.PdftoppmPath, platform.PdftoppmPaths)},
	}
}

// ToolRasterizer renders PDF pages to PNG with Ghostscript, or pdftoppm when
// Ghostscript is missing or fails
type ToolRasterizer struct {
	ghostscript string
	pdftoppm    string
	logger      *logger.Logger
}

var _ interfaces.Rasterizer = (*ToolRasterizer)(nil)

// NewToolRasterizer resolves the rasterization binaries once
func NewToolRasterizer(cfg *config.Config, lookPath utils.LookPathFunc, log *logger.Logger) *ToolRasterizer {
	if log == nil {
		log = logger.Nop()
	}
	tools := RasterizerTools(cfg)
	gs, _ := utils.FindCommand(lookPath, tools[0].Binaries...)
	ppm, _ := utils.FindCommand(lookPath, tools[1].Binaries...)
	return &ToolRasterizer{
		ghostscript: gs,
		pdftoppm:    ppm,
		logger:      log.WithComponent("rasterizer"),
	}
}

// Available reports whether any rasterization binary was found
func (r *ToolRasterizer) Available() bool {
	return r.ghostscript != "" || r.pdftoppm != ""
}

// Rasterize writes one PNG per page into a directory owned by tm and returns
// the images in page order
func (r *ToolRasterizer) Rasterize(ctx context.Context, pdfPath string, dpi int, tm interfaces.TempFileManager) ([]string, error) {
	if !r.Available() {
		return nil, utils.NewConfigurationError("no rasterizer available (install ghostscript or poppler-utils)", nil)
	}
	if dpi <= 0 {
		dpi = constants.DefaultRasterDPI
	}

	outDir, err := tm.CreateTempDir("pages")
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to create page image directory")
	}

	var runErr error
	if r.ghostscript != "" {
		runErr = r.runGhostscript(ctx, pdfPath, outDir, dpi)
		if runErr != nil && r.pdftoppm != "" {
			r.logger.Warn("Ghostscript rasterization failed, trying pdftoppm: %v", runErr)
			if err := clearDir(outDir); err != nil {
				return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to reset page image directory")
			}
			runErr = r.runPdftoppm(ctx, pdfPath, outDir, dpi)
		}
	} else {
		runErr = r.runPdftoppm(ctx, pdfPath, outDir, dpi)
	}
	if runErr != nil {
		return nil, utils.WrapError(runErr, utils.ErrorTypeConversion, "failed to rasterize PDF")
	}

	images, err := collectPageImages(outDir)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, utils.NewConversionError("rasterizer produced no page images", nil)
	}

	// the text-layer reader cannot parse every PDF; only compare when it can
	if want, err := engines.PDFPageCount(pdfPath); err == nil && want > 0 && want != len(images) {
		return nil, utils.NewConversionError(
			fmt.Sprintf("rasterizer produced %d images for %d pages", len(images), want), nil)
	}

	for _, img := range images {
		if _, _, _, err := utils.ImageDimensions(img); err != nil {
			return nil, utils.WrapError(err, utils.ErrorTypeConversion, "rasterizer produced an unreadable image")
		}
	}

	r.logger.Progress("🖼️", "Rasterized %d pages at %d DPI", len(images), dpi)
	return images, nil
}

func (r *ToolRasterizer) runGhostscript(ctx context.Context, pdfPath, outDir string, dpi int) error {
	_, err := utils.RunCommand(ctx, r.logger, r.ghostscript,
		"-sDEVICE=png16m",
		"-dNOPAUSE",
		"-dBATCH",
		"-dSAFER",
		"-dQUIET",
		fmt.Sprintf("-r%d", dpi),
		fmt.Sprintf("-sOutputFile=%s", filepath.Join(outDir, constants.RasterPagePattern)),
		pdfPath)
	return err
}

func (r *ToolRasterizer) runPdftoppm(ctx context.Context, pdfPath, outDir string, dpi int) error {
	_, err := utils.RunCommand(ctx, r.logger, r.pdftoppm,
		"-png",
		"-r", strconv.Itoa(dpi),
		pdfPath,
		filepath.Join(outDir, constants.RasterPagePrefix))
	return err
}

// page_001.png from Ghostscript, page-1.png or page-01.png from pdftoppm
var pageNumberPattern = regexp.MustCompile(`(\d+)\.png$`)

// collectPageImages lists the page images in dir ordered by page number
func collectPageImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeIO, "failed to list page images")
	}

	type page struct {
		num  int
		path string
	}
	var pages []page
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := pageNumberPattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		num, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		pages = append(pages, page{num: num, path: filepath.Join(dir, e.Name())})
	}

	sort.Slice(pages, func(i, j int) bool { return pages[i].num < pages[j].num })

	paths := make([]string, len(pages))
	for i, p := range pages {
		paths[i] = p.path
	}
	return paths, nil
}

func clearDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if err := os.RemoveAll(filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}
