package engines

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nodewee/scan-to-text/pkg/types"
)

func TestLanguageCodeThreeLetter(t *testing.T) {
	tests := map[string]string{
		"es": "spa",
		"en": "eng",
		"de": "deu",
		"fr": "fra",
		"it": "ita",
		"pt": "por",
		"zh": "chi_sim",
		"ES": "spa",
	}

	for hint, want := range tests {
		got, err := LanguageCode(hint, types.LanguageSchemeISO6392)
		require.NoError(t, err, hint)
		assert.Equal(t, want, got, hint)
	}
}

func TestLanguageCodeTwoLetter(t *testing.T) {
	got, err := LanguageCode(" pt ", types.LanguageSchemeISO6391)
	require.NoError(t, err)
	assert.Equal(t, "pt", got)
}

func TestLanguageCodeErrors(t *testing.T) {
	_, err := LanguageCode("??", types.LanguageSchemeISO6391)
	assert.Error(t, err)

	_, err = LanguageCode("es", types.LanguageScheme("klingon"))
	assert.Error(t, err)
}
