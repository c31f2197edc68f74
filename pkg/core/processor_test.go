package core

import (
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/ocr"
	"github.com/nodewee/scan-to-text/pkg/types"
)

type stubAdapter struct {
	desc    types.EngineDescriptor
	regions []types.TextRegion
	err     error
	calls   *int
}

func (s *stubAdapter) Descriptor() types.EngineDescriptor { return s.desc }

func (s *stubAdapter) RecognizeImage(ctx context.Context, imagePath string) ([]types.TextRegion, error) {
	if s.calls != nil {
		*s.calls++
	}
	return s.regions, s.err
}

func (s *stubAdapter) RecognizePDF(ctx context.Context, pdfPath string) ([]types.PageResult, error) {
	return nil, errors.New("not a pdf engine")
}

func (s *stubAdapter) Close() error { return nil }

type staticProber types.CapabilityState

func (s staticProber) Probe() types.CapabilityState { return types.CapabilityState(s) }

func stubEntry(a *stubAdapter) ocr.Entry {
	return ocr.Entry{
		Descriptor: a.desc,
		New: func(opts interfaces.AdapterOptions) (interfaces.EngineAdapter, error) {
			return a, nil
		},
	}
}

func stubDescriptor(name string) types.EngineDescriptor {
	return types.EngineDescriptor{
		Name:            name,
		SupportedKinds:  []types.DocumentKind{types.DocumentKindImage},
		LanguageScheme:  types.LanguageSchemeISO6392,
		RegionSeparator: constants.ImageRegionSeparator,
	}
}

func newTestProcessor(t *testing.T, available []string, adapters ...*stubAdapter) (*DefaultFileProcessor, *config.Config) {
	t.Helper()

	cfg := config.NewConfig()
	cfg.TempDir = t.TempDir()
	cfg.CacheDir = t.TempDir()

	var entries []ocr.Entry
	for _, a := range adapters {
		entries = append(entries, stubEntry(a))
	}
	reg := ocr.NewRegistry(entries...)

	state := types.CapabilityState{Engines: map[string]bool{}}
	for _, name := range available {
		state.Engines[name] = true
	}

	c := NewComponentsWith(cfg, nil, reg, staticProber(state), nil)
	return NewFileProcessorWithComponents(cfg, nil, c), cfg
}

func writePNG(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, image.NewGray(image.Rect(0, 0, 8, 8))))
	return path
}

func TestProcessFileSuccess(t *testing.T) {
	engine := &stubAdapter{
		desc:    stubDescriptor("stub"),
		regions: []types.TextRegion{{Text: "hola  mundo", Confidence: 0.8}},
	}
	p, _ := newTestProcessor(t, []string{"stub"}, engine)

	result := p.ProcessFile(context.Background(), writePNG(t, "scan.png"), "")

	require.True(t, result.Success, result.Error)
	assert.Equal(t, "hola mundo", result.Text)
	assert.Equal(t, "stub", result.EngineUsed)
	assert.Equal(t, constants.DefaultLanguage, result.Language)
	assert.NotEmpty(t, result.ID)
	assert.False(t, result.Timestamp.IsZero())
}

func TestProcessFileUsesCache(t *testing.T) {
	calls := 0
	engine := &stubAdapter{
		desc:    stubDescriptor("stub"),
		regions: []types.TextRegion{{Text: "cached text", Confidence: 1}},
		calls:   &calls,
	}
	p, _ := newTestProcessor(t, []string{"stub"}, engine)
	input := writePNG(t, "scan.png")

	first := p.ProcessFile(context.Background(), input, "es")
	require.True(t, first.Success)
	assert.False(t, first.Cached)

	second := p.ProcessFile(context.Background(), input, "es")
	require.True(t, second.Success)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Text, second.Text)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, 1, calls)

	// a different language is a different key
	p.ProcessFile(context.Background(), input, "en")
	assert.Equal(t, 2, calls)
}

func TestProcessFileFailuresAreNotCached(t *testing.T) {
	calls := 0
	engine := &stubAdapter{desc: stubDescriptor("stub"), err: errors.New("boom"), calls: &calls}
	p, _ := newTestProcessor(t, []string{"stub"}, engine)
	input := writePNG(t, "scan.png")

	for i := 0; i < 2; i++ {
		result := p.ProcessFile(context.Background(), input, "es")
		assert.False(t, result.Success)
		assert.Empty(t, result.Text)
		assert.Contains(t, result.Error, "boom")
	}
	assert.Equal(t, 2, calls)
}

func TestProcessFileNoEngine(t *testing.T) {
	p, _ := newTestProcessor(t, nil, &stubAdapter{desc: stubDescriptor("stub")})

	result := p.ProcessFile(context.Background(), writePNG(t, "scan.png"), "es")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "no engine available")
	assert.Zero(t, result.RegionCount)
}

func TestEngineReport(t *testing.T) {
	p, _ := newTestProcessor(t, []string{"second"},
		&stubAdapter{desc: stubDescriptor("first")},
		&stubAdapter{desc: stubDescriptor("second")})

	report := p.EngineReport()
	assert.Equal(t, []string{"second"}, report.Available)
	require.Len(t, report.Engines, 2)
	assert.False(t, report.Engines[0].Available)
	assert.True(t, report.Engines[1].Available)
	assert.Equal(t, []string{"second"}, report.Candidates[types.DocumentKindImage])
	assert.Contains(t, report.Unavailable[types.DocumentKindPDF], "no engine available")
}

func TestProcessFileValidation(t *testing.T) {
	p, cfg := newTestProcessor(t, []string{"stub"}, &stubAdapter{desc: stubDescriptor("stub")})

	result := p.ProcessFile(context.Background(), filepath.Join(t.TempDir(), "missing.png"), "es")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not found")

	txt := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hi"), 0644))
	result = p.ProcessFile(context.Background(), txt, "es")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "unsupported")

	fake := filepath.Join(t.TempDir(), "fake.png")
	require.NoError(t, os.WriteFile(fake, []byte("not an image"), 0644))
	result = p.ProcessFile(context.Background(), fake, "es")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "not a decodable image")

	result = p.ProcessFile(context.Background(), writePNG(t, "scan.png"), "??")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "invalid language")

	cfg.MaxFileSize = 10
	result = p.ProcessFile(context.Background(), writePNG(t, "big.png"), "es")
	assert.False(t, result.Success)
	assert.Contains(t, result.Error, "exceeds maximum")
}

func TestWriteResult(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "dir", "result.json")
	in := &types.DocumentResult{Success: false, Error: "no text detected"}

	require.NoError(t, WriteResult(out, in))

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "no text detected", decoded["error"])
	assert.Equal(t, "", decoded["text"])
}
