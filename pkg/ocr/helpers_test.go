package ocr

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/types"
)

func writeEmpty(path string) error {
	return os.WriteFile(path, nil, 0644)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.NewConfig()
	cfg.TempDir = t.TempDir()
	return cfg
}

func testDocument(t *testing.T, name string, kind types.DocumentKind) types.Document {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, writeEmpty(path))
	return types.Document{Path: path, Kind: kind}
}

// assertNoTempLeft checks that nothing remains under the configured temp root
func assertNoTempLeft(t *testing.T, cfg *config.Config) {
	t.Helper()
	entries, err := os.ReadDir(cfg.TempDir)
	require.NoError(t, err)
	require.Empty(t, entries, "temporary files leaked")
}

func allAvailable(rasterizer bool, names ...string) types.CapabilityState {
	state := types.CapabilityState{Engines: map[string]bool{}, Tools: map[string]bool{}, RasterizerAvailable: rasterizer}
	for _, n := range names {
		state.Engines[n] = true
	}
	return state
}
