package types

import (
	"time"
)

// DocumentKind represents the kinds of input the engines understand
type DocumentKind string

const (
	DocumentKindPDF   DocumentKind = "pdf"
	DocumentKindImage DocumentKind = "image"
)

// LanguageScheme identifies the language code format an engine expects
type LanguageScheme string

const (
	LanguageSchemeISO6391 LanguageScheme = "iso639-1" // two-letter codes, e.g. "es"
	LanguageSchemeISO6392 LanguageScheme = "iso639-2" // three-letter codes, e.g. "spa"
)

// Document is an input file with its inferred kind
type Document struct {
	Path string       `json:"path"`
	Kind DocumentKind `json:"kind"`
}

// ToolRequirement is an external binary known under one or more names
type ToolRequirement struct {
	Name     string   `json:"name"`
	Binaries []string `json:"binaries"`
}

// EngineDescriptor is the static description of one OCR engine
type EngineDescriptor struct {
	Name                 string            `json:"name"`
	Description          string            `json:"description"`
	SupportedKinds       []DocumentKind    `json:"supportedKinds"`
	RequiresExternalTool bool              `json:"requiresExternalTool"`
	RequiresLibrary      bool              `json:"requiresLibrary"`
	RequiredTools        []ToolRequirement `json:"requiredTools,omitempty"`
	LanguageScheme       LanguageScheme    `json:"languageCodeScheme"`
	// RegionSeparator joins regions of one page when building text
	RegionSeparator string `json:"regionSeparator"`
	// ConcurrentSafe marks adapters whose Recognize may run for several pages at once
	ConcurrentSafe bool `json:"concurrentSafe"`
}

// Supports reports whether the engine consumes the given kind directly
func (d EngineDescriptor) Supports(kind DocumentKind) bool {
	for _, k := range d.SupportedKinds {
		if k == kind {
			return true
		}
	}
	return false
}

// NeedsRaster reports whether a document of this kind must be rasterized first
func (d EngineDescriptor) NeedsRaster(kind DocumentKind) bool {
	return kind == DocumentKindPDF && !d.Supports(DocumentKindPDF) && d.Supports(DocumentKindImage)
}

// CapabilityState records which engines are usable in this process
type CapabilityState struct {
	Engines             map[string]bool `json:"engines"`
	Tools               map[string]bool `json:"tools"`
	RasterizerAvailable bool            `json:"rasterizerAvailable"`
	ProbedAt            time.Time       `json:"probedAt"`
}

// IsAvailable reports the probed availability of an engine
func (s CapabilityState) IsAvailable(engine string) bool {
	return s.Engines[engine]
}

// Point is one vertex of a bounding polygon
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// TextRegion is one recognized span of text
type TextRegion struct {
	Text            string  `json:"text"`
	Confidence      float64 `json:"confidence"`
	BoundingPolygon []Point `json:"boundingPolygon,omitempty"`
}

// PageResult holds the regions recognized on one page
type PageResult struct {
	PageNumber int          `json:"pageNumber"`
	Regions    []TextRegion `json:"regions"`
	EngineUsed string       `json:"engineUsed"`
	// Width and Height are the page image size in pixels when known
	Width  int `json:"width,omitempty"`
	Height int `json:"height,omitempty"`
}

// PageSummary is the per-page breakdown exposed in DocumentResult
type PageSummary struct {
	PageNumber        int     `json:"pageNumber"`
	Text              string  `json:"text"`
	RegionCount       int     `json:"regionCount"`
	AverageConfidence float64 `json:"averageConfidence"`
}

// CandidateError records why one engine did not produce the result
type CandidateError struct {
	Engine string `json:"engine"`
	Error  string `json:"error"`
}

// DocumentResult is the normalized output of one extraction
type DocumentResult struct {
	ID                string           `json:"id"`
	Success           bool             `json:"success"`
	Text              string           `json:"text"`
	PageCount         int              `json:"pageCount"`
	RegionCount       int              `json:"regionCount"`
	AverageConfidence float64          `json:"averageConfidence"`
	EngineUsed        string           `json:"engineUsed"`
	Language          string           `json:"language,omitempty"`
	Pages             []PageSummary    `json:"pages,omitempty"`
	FallbackUsed      bool             `json:"fallbackUsed"`
	AttemptedEngines  []string         `json:"attemptedEngines,omitempty"`
	CandidateErrors   []CandidateError `json:"candidateErrors,omitempty"`
	ProcessingTimeMs  int64            `json:"processingTimeMs"`
	Cached            bool             `json:"cached,omitempty"`
	Error             string           `json:"error,omitempty"`
	Timestamp         time.Time        `json:"timestamp"`
}

// ClearText enforces the failure invariant: a failed result never carries text
func (r *DocumentResult) ClearText() {
	r.Text = ""
	r.RegionCount = 0
	r.AverageConfidence = 0
	r.Pages = nil
}
