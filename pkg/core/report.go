package core

import (
	"time"

	"github.com/nodewee/scan-to-text/pkg/types"
)

// EngineStatus is one registered engine with its probed availability
type EngineStatus struct {
	types.EngineDescriptor
	Available bool `json:"available"`
}

// EngineReport summarizes what this process can run
type EngineReport struct {
	Engines             []EngineStatus                  `json:"engines"`
	Available           []string                        `json:"available"`
	Tools               map[string]bool                 `json:"tools"`
	RasterizerAvailable bool                            `json:"rasterizerAvailable"`
	Candidates          map[types.DocumentKind][]string `json:"candidates"`
	Unavailable         map[types.DocumentKind]string   `json:"unavailable,omitempty"`
	ProbedAt            time.Time                       `json:"probedAt"`
}

// EngineReport probes the engines and lists the candidate order per document kind
func (p *DefaultFileProcessor) EngineReport() EngineReport {
	caps := p.Capabilities()

	report := EngineReport{
		Tools:               caps.Tools,
		RasterizerAvailable: caps.RasterizerAvailable,
		Available:           []string{},
		Candidates:          make(map[types.DocumentKind][]string),
		ProbedAt:            caps.ProbedAt,
	}
	for _, desc := range p.components.Selector.Available(caps) {
		report.Available = append(report.Available, desc.Name)
	}

	for _, desc := range p.components.Registry.Descriptors() {
		report.Engines = append(report.Engines, EngineStatus{
			EngineDescriptor: desc,
			Available:        caps.IsAvailable(desc.Name),
		})
	}

	for _, kind := range []types.DocumentKind{types.DocumentKindPDF, types.DocumentKindImage} {
		candidates, err := p.components.Selector.Select(kind, caps)
		if err != nil {
			if report.Unavailable == nil {
				report.Unavailable = make(map[types.DocumentKind]string)
			}
			report.Unavailable[kind] = err.Error()
			continue
		}
		names := make([]string, len(candidates))
		for i, c := range candidates {
			names[i] = c.Name
		}
		report.Candidates[kind] = names
	}

	return report
}
