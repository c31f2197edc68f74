package ocr

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/types"
)

// fakeAdapter returns canned regions keyed by image base name
type fakeAdapter struct {
	desc types.EngineDescriptor

	// regions per image base name; missing names get one region named after the image
	regions map[string][]types.TextRegion
	// pdfPages is returned from RecognizePDF
	pdfPages []types.PageResult
	// failOn makes RecognizeImage fail for that image base name
	failOn string
	// panicOn makes RecognizeImage panic for that image base name
	panicOn string

	mu     sync.Mutex
	calls  []string
	closed int
}

func (f *fakeAdapter) Descriptor() types.EngineDescriptor { return f.desc }

func (f *fakeAdapter) RecognizeImage(ctx context.Context, imagePath string) ([]types.TextRegion, error) {
	name := filepath.Base(imagePath)

	f.mu.Lock()
	f.calls = append(f.calls, name)
	f.mu.Unlock()

	if name == f.panicOn {
		panic("engine crashed")
	}
	if name == f.failOn {
		return nil, errors.New("model exploded on " + name)
	}
	if regions, ok := f.regions[name]; ok {
		return regions, nil
	}
	return []types.TextRegion{{Text: f.desc.Name + " " + name, Confidence: 0.9}}, nil
}

func (f *fakeAdapter) RecognizePDF(ctx context.Context, pdfPath string) ([]types.PageResult, error) {
	if f.pdfPages == nil {
		return nil, errors.New("no text layer")
	}
	return f.pdfPages, nil
}

func (f *fakeAdapter) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func imageEngine(name string) types.EngineDescriptor {
	return types.EngineDescriptor{
		Name:            name,
		SupportedKinds:  []types.DocumentKind{types.DocumentKindImage},
		LanguageScheme:  types.LanguageSchemeISO6392,
		RegionSeparator: constants.ImageRegionSeparator,
	}
}

func pdfEngine(name string) types.EngineDescriptor {
	return types.EngineDescriptor{
		Name:                 name,
		SupportedKinds:       []types.DocumentKind{types.DocumentKindPDF},
		RequiresExternalTool: true,
		LanguageScheme:       types.LanguageSchemeISO6392,
		RegionSeparator:      constants.TextLayerSeparator,
	}
}

// fakeEntry registers an adapter instance; every construction returns it
func fakeEntry(a *fakeAdapter) Entry {
	return Entry{
		Descriptor: a.desc,
		New: func(opts interfaces.AdapterOptions) (interfaces.EngineAdapter, error) {
			return a, nil
		},
	}
}

func failingEntry(desc types.EngineDescriptor) Entry {
	return Entry{
		Descriptor: desc,
		New: func(opts interfaces.AdapterOptions) (interfaces.EngineAdapter, error) {
			return nil, errors.New("language model missing")
		},
	}
}

// fakeRasterizer writes empty page files into the temp manager it is handed
type fakeRasterizer struct {
	pages int
	err   error

	mu      sync.Mutex
	created []string
}

func (r *fakeRasterizer) Available() bool { return true }

func (r *fakeRasterizer) Rasterize(ctx context.Context, pdfPath string, dpi int, tm interfaces.TempFileManager) ([]string, error) {
	if r.err != nil {
		return nil, r.err
	}
	dir, err := tm.CreateTempDir("pages")
	if err != nil {
		return nil, err
	}
	var images []string
	for i := 1; i <= r.pages; i++ {
		path := filepath.Join(dir, fmt.Sprintf(constants.RasterPagePattern, i))
		if err := writeEmpty(path); err != nil {
			return nil, err
		}
		images = append(images, path)
	}

	r.mu.Lock()
	r.created = append(r.created, images...)
	r.mu.Unlock()
	return images, nil
}
