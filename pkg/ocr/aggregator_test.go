package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nodewee/scan-to-text/pkg/types"
)

func page(n int, regions ...types.TextRegion) types.PageResult {
	return types.PageResult{PageNumber: n, Regions: regions}
}

func region(text string, conf float64) types.TextRegion {
	return types.TextRegion{Text: text, Confidence: conf}
}

func TestAggregateSinglePage(t *testing.T) {
	got := NewAggregator(0).Aggregate(
		[]types.PageResult{page(1, region("Año  fiscal\t2023", 0.8), region(" señor  Müller ", 0.6))},
		imageEngine("img"),
	)

	assert.True(t, got.Success)
	assert.Equal(t, "Año fiscal 2023\nseñor Müller", got.Text)
	assert.Equal(t, 1, got.PageCount)
	assert.Equal(t, 2, got.RegionCount)
	assert.InDelta(t, 0.7, got.AverageConfidence, 1e-9)
	assert.Equal(t, "img", got.EngineUsed)
	assert.Empty(t, got.Error)
}

func TestAggregateUsesDeclaredSeparator(t *testing.T) {
	got := NewAggregator(0).Aggregate(
		[]types.PageResult{page(1, region("one", 1), region("two", 1))},
		pdfEngine("layer"),
	)
	assert.Equal(t, "one two", got.Text)
}

func TestAggregateMarksPages(t *testing.T) {
	got := NewAggregator(0).Aggregate(
		[]types.PageResult{
			page(2, region("second", 0.5)),
			page(1, region("first", 1)),
			page(3),
		},
		imageEngine("img"),
	)

	assert.True(t, got.Success)
	assert.Equal(t, 3, got.PageCount)
	assert.Equal(t, "--- Page 1 ---\nfirst\n\n--- Page 2 ---\nsecond\n\n--- Page 3 ---", got.Text)
	assert.InDelta(t, 0.75, got.AverageConfidence, 1e-9)
	assert.Len(t, got.Pages, 3)
	assert.Equal(t, 0, got.Pages[2].RegionCount)
}

func TestAggregateThresholdIsInclusive(t *testing.T) {
	got := NewAggregator(0.7).Aggregate(
		[]types.PageResult{page(1, region("kept", 0.7), region("dropped", 0.69))},
		imageEngine("img"),
	)
	assert.Equal(t, "kept", got.Text)
	assert.Equal(t, 1, got.RegionCount)
	assert.InDelta(t, 0.7, got.AverageConfidence, 1e-9)
}

func TestAggregateNoText(t *testing.T) {
	got := NewAggregator(0.5).Aggregate(
		[]types.PageResult{page(1, region("  \n", 0.9), region("faint", 0.1)), page(2)},
		imageEngine("img"),
	)

	assert.False(t, got.Success)
	assert.Equal(t, "no text detected", got.Error)
	assert.Empty(t, got.Text)
	assert.Zero(t, got.RegionCount)
	assert.Zero(t, got.AverageConfidence)
	assert.Nil(t, got.Pages)
}
