package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/scan-to-text/pkg/types"
)

func selectorRegistry() *Registry {
	return NewRegistry(
		fakeEntry(&fakeAdapter{desc: pdfEngine("ocrmypdf")}),
		fakeEntry(&fakeAdapter{desc: pdfEngine("pdftotext")}),
		fakeEntry(&fakeAdapter{desc: imageEngine("surya")}),
		fakeEntry(&fakeAdapter{desc: imageEngine("tesseract")}),
	)
}

func names(descs []types.EngineDescriptor) []string {
	return descriptorNames(descs)
}

func TestSelectPDFPrefersTextLayerEngines(t *testing.T) {
	s := NewSelector(selectorRegistry(), nil)

	got, err := s.Select(types.DocumentKindPDF, allAvailable(true, "ocrmypdf", "pdftotext", "surya", "tesseract"))
	require.NoError(t, err)
	assert.Equal(t, []string{"ocrmypdf", "pdftotext", "surya", "tesseract"}, names(got))
}

func TestSelectSkipsUnavailablePrimary(t *testing.T) {
	s := NewSelector(selectorRegistry(), nil)

	got, err := s.Select(types.DocumentKindPDF, allAvailable(true, "pdftotext", "tesseract"))
	require.NoError(t, err)
	assert.Equal(t, []string{"pdftotext", "tesseract"}, names(got))

	got, err = s.Select(types.DocumentKindImage, allAvailable(true, "tesseract"))
	require.NoError(t, err)
	assert.Equal(t, []string{"tesseract"}, names(got))
}

func TestSelectImageEnginesForPDFNeedRasterizer(t *testing.T) {
	s := NewSelector(selectorRegistry(), nil)

	got, err := s.Select(types.DocumentKindPDF, allAvailable(false, "pdftotext", "surya"))
	require.NoError(t, err)
	assert.Equal(t, []string{"pdftotext"}, names(got))

	_, err = s.Select(types.DocumentKindPDF, allAvailable(false, "surya"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no engine available")
}

func TestSelectImageNeverUsesPDFEngines(t *testing.T) {
	s := NewSelector(selectorRegistry(), nil)

	got, err := s.Select(types.DocumentKindImage, allAvailable(true, "ocrmypdf", "pdftotext", "surya"))
	require.NoError(t, err)
	assert.Equal(t, []string{"surya"}, names(got))
}

func TestAvailable(t *testing.T) {
	s := NewSelector(selectorRegistry(), nil)
	got := s.Available(allAvailable(false, "tesseract", "ocrmypdf"))
	assert.Equal(t, []string{"ocrmypdf", "tesseract"}, names(got))
}
