package engines

import (
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"

	"github.com/nodewee/scan-to-text/pkg/types"
)

// tesseractOverrides lists traineddata names that differ from ISO 639-3
var tesseractOverrides = map[string]string{
	"zh": "chi_sim",
	"az": "aze",
	"sr": "srp",
	"uz": "uzb",
}

// LanguageCode translates an ISO 639-1 hint into the scheme an engine expects
func LanguageCode(hint string, scheme types.LanguageScheme) (string, error) {
	hint = strings.ToLower(strings.TrimSpace(hint))
	base, err := language.ParseBase(hint)
	if err != nil {
		return "", eris.Wrapf(err, "unknown language code %q", hint)
	}

	switch scheme {
	case types.LanguageSchemeISO6391:
		return base.String(), nil
	case types.LanguageSchemeISO6392:
		if code, ok := tesseractOverrides[base.String()]; ok {
			return code, nil
		}
		return base.ISO3(), nil
	default:
		return "", eris.Errorf("unknown language scheme %q", scheme)
	}
}
