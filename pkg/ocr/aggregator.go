package ocr

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// Aggregator merges page results into one document result
type Aggregator struct {
	// Threshold drops regions whose confidence is below it
	Threshold float64
}

// NewAggregator creates an aggregator with a confidence threshold in [0,1]
func NewAggregator(threshold float64) *Aggregator {
	return &Aggregator{Threshold: threshold}
}

// Aggregate builds the document result for pages produced by one engine.
// Regions below the threshold are dropped before both text and confidence are computed.
// When nothing survives, the result is unsuccessful with a "no text detected" error.
func (a *Aggregator) Aggregate(pages []types.PageResult, desc types.EngineDescriptor) *types.DocumentResult {
	ordered := make([]types.PageResult, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].PageNumber < ordered[j].PageNumber })

	separator := desc.RegionSeparator
	if separator == "" {
		separator = constants.ImageRegionSeparator
	}

	result := &types.DocumentResult{
		PageCount:  len(ordered),
		EngineUsed: desc.Name,
		Timestamp:  time.Now(),
	}

	var confSum float64
	var pageTexts []string
	for _, page := range ordered {
		var texts []string
		var pageConf float64
		for _, region := range page.Regions {
			if region.Confidence < a.Threshold {
				continue
			}
			text := collapseWhitespace(region.Text)
			if text == "" {
				continue
			}
			texts = append(texts, text)
			pageConf += region.Confidence
		}

		pageText := strings.Join(texts, separator)
		summary := types.PageSummary{
			PageNumber:  page.PageNumber,
			Text:        pageText,
			RegionCount: len(texts),
		}
		if len(texts) > 0 {
			summary.AverageConfidence = pageConf / float64(len(texts))
		}
		result.Pages = append(result.Pages, summary)

		result.RegionCount += len(texts)
		confSum += pageConf
		pageTexts = append(pageTexts, pageText)
	}

	if result.RegionCount == 0 {
		result.Success = false
		result.Error = utils.MsgNoTextDetected
		result.ClearText()
		return result
	}

	result.Success = true
	result.AverageConfidence = confSum / float64(result.RegionCount)
	result.Text = joinPages(ordered, pageTexts)
	return result
}

// joinPages separates pages with a blank line, marking each page when there is more than one
func joinPages(pages []types.PageResult, texts []string) string {
	if len(texts) == 1 {
		return texts[0]
	}
	parts := make([]string, len(texts))
	for i, text := range texts {
		header := fmt.Sprintf(constants.DefaultPageTextHeader, pages[i].PageNumber)
		if text == "" {
			parts[i] = header
		} else {
			parts[i] = header + "\n" + text
		}
	}
	return strings.Join(parts, constants.PageSeparator)
}

// collapseWhitespace replaces every whitespace run with one space and trims the ends
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
