package ocr

import (
	"fmt"

	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/ocr/engines"
	"github.com/nodewee/scan-to-text/pkg/types"
)

// Entry binds an engine description to its constructor
type Entry struct {
	Descriptor types.EngineDescriptor
	New        interfaces.AdapterFactory
	// LibraryCheck is consulted when the descriptor requires a library
	LibraryCheck func() error
}

// Registry holds the known engines in fixed priority order
type Registry struct {
	entries []Entry
	index   map[string]int
}

// NewRegistry creates a registry; earlier entries have higher priority
func NewRegistry(entries ...Entry) *Registry {
	r := &Registry{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		r.Register(e)
	}
	return r
}

// Register appends an engine at the lowest priority, replacing any engine of the same name
func (r *Registry) Register(e Entry) {
	if i, ok := r.index[e.Descriptor.Name]; ok {
		r.entries[i] = e
		return
	}
	r.index[e.Descriptor.Name] = len(r.entries)
	r.entries = append(r.entries, e)
}

// Entries returns the registered engines in priority order
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Descriptors returns the registered descriptions in priority order
func (r *Registry) Descriptors() []types.EngineDescriptor {
	out := make([]types.EngineDescriptor, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Descriptor)
	}
	return out
}

// Lookup returns the entry for an engine name
func (r *Registry) Lookup(name string) (Entry, bool) {
	i, ok := r.index[name]
	if !ok {
		return Entry{}, false
	}
	return r.entries[i], true
}

// NewAdapter constructs a fresh adapter for the named engine
func (r *Registry) NewAdapter(name string, opts interfaces.AdapterOptions) (interfaces.EngineAdapter, error) {
	e, ok := r.Lookup(name)
	if !ok {
		return nil, fmt.Errorf("unknown engine: %s", name)
	}
	return e.New(opts)
}

// DefaultRegistry registers every built-in engine in priority order:
// text-layer PDF engines first, then image OCR engines.
func DefaultRegistry(cfg *config.Config, log *logger.Logger) *Registry {
	bind := func(ctor func(*config.Config, *logger.Logger, interfaces.AdapterOptions) (interfaces.EngineAdapter, error)) interfaces.AdapterFactory {
		return func(opts interfaces.AdapterOptions) (interfaces.EngineAdapter, error) {
			return ctor(cfg, log, opts)
		}
	}

	return NewRegistry(
		Entry{Descriptor: engines.OCRmyPDFDescriptor(cfg), New: bind(engines.NewOCRmyPDFEngine)},
		Entry{Descriptor: engines.PdftotextDescriptor(cfg), New: bind(engines.NewPdftotextEngine)},
		Entry{Descriptor: engines.SuryaDescriptor(cfg), New: bind(engines.NewSuryaOCREngine)},
		Entry{
			Descriptor:   engines.TesseractDescriptor(cfg),
			New:          bind(engines.NewTesseractEngine),
			LibraryCheck: engines.TesseractLibraryCheck,
		},
		Entry{Descriptor: engines.TesseractCLIDescriptor(cfg), New: bind(engines.NewTesseractCLIEngine)},
	)
}
