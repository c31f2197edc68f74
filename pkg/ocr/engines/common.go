package engines

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/nodewee/scan-to-text/pkg/constants"
	"github.com/nodewee/scan-to-text/pkg/interfaces"
	"github.com/nodewee/scan-to-text/pkg/logger"
	"github.com/nodewee/scan-to-text/pkg/types"
	"github.com/nodewee/scan-to-text/pkg/utils"
)

// ErrUnsupportedInput is returned when an adapter is handed a kind it does not consume
var ErrUnsupportedInput = eris.New("input kind not supported by this engine")

// baseAdapter holds what every adapter shares
type baseAdapter struct {
	descriptor types.EngineDescriptor
	logger     *logger.Logger
	temp       interfaces.TempFileManager
	binary     string
	langCode   string
}

func newBaseAdapter(desc types.EngineDescriptor, log *logger.Logger, opts interfaces.AdapterOptions) (baseAdapter, error) {
	if log == nil {
		log = logger.Nop()
	}
	lang := opts.Language
	if lang == "" {
		lang = constants.DefaultLanguage
	}
	code, err := LanguageCode(lang, desc.LanguageScheme)
	if err != nil {
		return baseAdapter{}, err
	}
	return baseAdapter{
		descriptor: desc,
		logger:     log.WithComponent(desc.Name),
		temp:       opts.Temp,
		langCode:   code,
	}, nil
}

// resolveBinary finds the executable for a tool requirement on PATH
func (b *baseAdapter) resolveBinary(req types.ToolRequirement) error {
	path, ok := utils.FindCommand(nil, req.Binaries...)
	if !ok {
		return eris.Errorf("%s not found on PATH (tried %s)", req.Name, strings.Join(req.Binaries, ", "))
	}
	b.binary = path
	return nil
}

// Descriptor returns the static engine description
func (b *baseAdapter) Descriptor() types.EngineDescriptor {
	return b.descriptor
}

// Close releases engine resources
func (b *baseAdapter) Close() error {
	return nil
}

// textLayerRegions turns the plain text of one page into line regions
func textLayerRegions(text string) []types.TextRegion {
	var regions []types.TextRegion
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		regions = append(regions, types.TextRegion{
			Text:       line,
			Confidence: constants.TextLayerConfidence,
		})
	}
	return regions
}

// rectPolygon returns the four corners of an axis-aligned box, clockwise from top-left
func rectPolygon(x0, y0, x1, y1 float64) []types.Point {
	return []types.Point{
		{X: x0, Y: y0},
		{X: x1, Y: y0},
		{X: x1, Y: y1},
		{X: x0, Y: y1},
	}
}

// toolRequirement builds a requirement with an optional configured override first
func toolRequirement(name, override string, defaults []string) types.ToolRequirement {
	return types.ToolRequirement{Name: name, Binaries: utils.ToolCandidates(override, defaults)}
}
