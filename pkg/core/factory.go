package core

import (
	"github.com/nodewee/scan-to-text/pkg/cache"
	"github.com/nodewee/scan-to-text/pkg/config"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/ocr"
)

// Components are the collaborators one processor runs on
type Components struct {
	Registry     *ocr.Registry
	Prober       interfaces.CapabilityProber
	Rasterizer   interfaces.Rasterizer
	Selector     *ocr.Selector
	Orchestrator *ocr.Orchestrator
	// Cache is nil when result caching is disabled
	Cache interfaces.ResultCache
}

// NewComponents wires the built-in engines, the tool rasterizer and the
// process-lifetime capability probe from configuration
func NewComponents(cfg *config.Config, log *logger.Logger) *Components {
	reg := ocr.DefaultRegistry(cfg, log)
	prober := ocr.NewCachedProber(ocr.NewProber(reg, ocr.RasterizerTools(cfg), nil, log))
	rasterizer := ocr.NewToolRasterizer(cfg, nil, log)
	return NewComponentsWith(cfg, log, reg, prober, rasterizer)
}

// NewComponentsWith wires components around a given registry, prober and rasterizer
func NewComponentsWith(cfg *config.Config, log *logger.Logger, reg *ocr.Registry, prober interfaces.CapabilityProber, rasterizer interfaces.Rasterizer) *Components {
	if log == nil {
		log = logger.Nop()
	}
	c := &Components{
		Registry:     reg,
		Prober:       prober,
		Rasterizer:   rasterizer,
		Selector:     ocr.NewSelector(reg, log),
		Orchestrator: ocr.NewOrchestrator(cfg, reg, rasterizer, log),
	}
	if cfg.CacheEnabled && cfg.CacheDir != "" {
		c.Cache = cache.New(cfg.CacheDir, log)
	}
	log.Debug("Registered %d engines", len(reg.Descriptors()))
	return c
}
