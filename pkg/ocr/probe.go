package ocr

import (
	"fmt"
	"sync"
	"time"

	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// Prober determines which registered engines are usable on this machine
type Prober struct {
	registry    *Registry
	rasterTools []types.ToolRequirement
	lookPath    utils.LookPathFunc
	libTimeout  time.Duration
	logger      *logger.Logger
}

var _ interfaces.CapabilityProber = (*Prober)(nil)

// NewProber creates a prober. A nil lookPath resolves against the process PATH.
func NewProber(reg *Registry, rasterTools []types.ToolRequirement, lookPath utils.LookPathFunc, log *logger.Logger) *Prober {
	if log == nil {
		log = logger.Nop()
	}
	return &Prober{
		registry:    reg,
		rasterTools: rasterTools,
		lookPath:    lookPath,
		libTimeout:  constants.ProbeLibraryTimeout,
		logger:      log.WithComponent("probe"),
	}
}

// Probe checks every engine independently. It never fails as a whole:
// a panic or error while probing one engine only marks that engine unavailable.
func (p *Prober) Probe() types.CapabilityState {
	state := types.CapabilityState{
		Engines:  make(map[string]bool),
		Tools:    make(map[string]bool),
		ProbedAt: time.Now(),
	}

	for _, req := range p.rasterTools {
		if p.toolAvailable(req, state.Tools) {
			state.RasterizerAvailable = true
		}
	}

	for _, entry := range p.registry.Entries() {
		name := entry.Descriptor.Name
		available, err := p.probeEngine(entry, state.Tools)
		state.Engines[name] = available
		if err != nil {
			p.logger.Debug("Engine %s unavailable: %v", name, err)
		} else {
			p.logger.Debug("Engine %s available", name)
		}
	}

	return state
}

func (p *Prober) probeEngine(entry Entry, tools map[string]bool) (available bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			available = false
			err = fmt.Errorf("probe panicked: %v", r)
		}
	}()

	desc := entry.Descriptor
	if desc.RequiresLibrary {
		if entry.LibraryCheck == nil {
			return false, fmt.Errorf("no library check registered")
		}
		if err := p.checkLibrary(entry.LibraryCheck); err != nil {
			return false, err
		}
	}

	for _, req := range desc.RequiredTools {
		if !p.toolAvailable(req, tools) {
			return false, fmt.Errorf("tool %s not found", req.Name)
		}
	}
	return true, nil
}

// checkLibrary runs a library check with a deadline; a hung loader counts as unavailable
func (p *Prober) checkLibrary(check func() error) error {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("library check panicked: %v", r)
			}
		}()
		done <- check()
	}()

	select {
	case err := <-done:
		return err
	case <-time.After(p.libTimeout):
		return fmt.Errorf("library check timed out after %s", p.libTimeout)
	}
}

func (p *Prober) toolAvailable(req types.ToolRequirement, seen map[string]bool) bool {
	if ok, probed := seen[req.Name]; probed {
		return ok
	}
	_, ok := utils.FindCommand(p.lookPath, req.Binaries...)
	seen[req.Name] = ok
	return ok
}

// CachedProber probes once and serves the same state for the rest of the process
type CachedProber struct {
	inner interfaces.CapabilityProber
	once  sync.Once
	state types.CapabilityState
}

// NewCachedProber wraps a prober with a process-lifetime cache
func NewCachedProber(inner interfaces.CapabilityProber) *CachedProber {
	return &CachedProber{inner: inner}
}

// Probe returns the cached capability state, probing on first use
func (c *CachedProber) Probe() types.CapabilityState {
	c.once.Do(func() {
		c.state = c.inner.Probe()
	})
	return c.state
}
