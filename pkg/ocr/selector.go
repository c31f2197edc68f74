package ocr

import (
	"strings"

	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// Selector orders the usable engines for a document
type Selector struct {
	registry *Registry
	logger   *logger.Logger
}

// NewSelector creates a selector over the registry's fixed priority order
func NewSelector(reg *Registry, log *logger.Logger) *Selector {
	if log == nil {
		log = logger.Nop()
	}
	return &Selector{registry: reg, logger: log.WithComponent("selector")}
}

// Select returns the candidate engines for a document kind, best first.
//
// PDFs try the available text-layer engines first, then image engines applied
// page by page, which only qualify when a rasterizer is available. Images use
// the available image engines. An empty list is a configuration error.
func (s *Selector) Select(kind types.DocumentKind, caps types.CapabilityState) ([]types.EngineDescriptor, error) {
	var native, raster []types.EngineDescriptor

	for _, desc := range s.registry.Descriptors() {
		if !caps.IsAvailable(desc.Name) {
			continue
		}
		switch {
		case desc.Supports(kind):
			native = append(native, desc)
		case desc.NeedsRaster(kind) && caps.RasterizerAvailable:
			raster = append(raster, desc)
		}
	}

	candidates := append(native, raster...)
	if len(candidates) == 0 {
		return nil, utils.NewConfigurationError(utils.MsgNoEngineAvailable+" for "+string(kind)+" input", nil).
			WithContext("kind", string(kind))
	}

	s.logger.Debug("Candidates for %s: %s", kind, strings.Join(descriptorNames(candidates), ", "))
	return candidates, nil
}

// Available returns every available engine in priority order
func (s *Selector) Available(caps types.CapabilityState) []types.EngineDescriptor {
	var available []types.EngineDescriptor
	for _, desc := range s.registry.Descriptors() {
		if caps.IsAvailable(desc.Name) {
			available = append(available, desc)
		}
	}
	return available
}

func descriptorNames(descs []types.EngineDescriptor) []string {
	names := make([]string, len(descs))
	for i, d := range descs {
		names[i] = d.Name
	}
	return names
}
