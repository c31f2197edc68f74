package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
)

func TestDefaultRegistryPriority(t *testing.T) {
	reg := DefaultRegistry(config.NewConfig(), logger.Nop())

	assert.Equal(t, []string{
		constants.EngineOCRmyPDF,
		constants.EnginePdftotext,
		constants.EngineSurya,
		constants.EngineTesseract,
		constants.EngineTesseractCLI,
	}, descriptorNames(reg.Descriptors()))

	entry, ok := reg.Lookup(constants.EngineTesseract)
	require.True(t, ok)
	assert.True(t, entry.Descriptor.RequiresLibrary)
	assert.NotNil(t, entry.LibraryCheck)
}

func TestRegistryReplaceKeepsPosition(t *testing.T) {
	reg := NewRegistry(
		fakeEntry(&fakeAdapter{desc: imageEngine("a")}),
		fakeEntry(&fakeAdapter{desc: imageEngine("b")}),
	)
	replacement := imageEngine("a")
	replacement.Description = "replaced"
	reg.Register(fakeEntry(&fakeAdapter{desc: replacement}))

	descs := reg.Descriptors()
	require.Len(t, descs, 2)
	assert.Equal(t, "replaced", descs[0].Description)
}

func TestRegistryNewAdapter(t *testing.T) {
	reg := NewRegistry(fakeEntry(&fakeAdapter{desc: imageEngine("a")}))

	adapter, err := reg.NewAdapter("a", interfaces.AdapterOptions{Language: "es"})
	require.NoError(t, err)
	assert.Equal(t, "a", adapter.Descriptor().Name)

	_, err = reg.NewAdapter("missing", interfaces.AdapterOptions{})
	assert.Error(t, err)
}
