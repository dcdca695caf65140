package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLanguage(t *testing.T) {
	tests := []struct {
		in   string
		want Language
		ok   bool
	}{
		{"en", English, true},
		{"EN-us", English, true},
		{"pt-BR", Portuguese, true},
		{" de ", German, true},
		{"ja", "", false},
		{"", "", false},
		{"not a tag!", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLanguage(tt.in)
			if !tt.ok {
				assert.ErrorIs(t, err, ErrUnsupportedLanguage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.True(t, got.Valid())
		})
	}
}

func TestLocalizedText(t *testing.T) {
	txt, err := LocalizedTextFromMap(map[string]string{"en": "The Fox", "fr-FR": "Le Renard"})
	require.NoError(t, err)
	assert.Equal(t, "Le Renard", txt.Get(French))
	assert.Equal(t, "The Fox", txt.Get(German), "falls back to english")

	_, err = LocalizedTextFromMap(map[string]string{"fr": "Le Renard"})
	assert.Error(t, err)

	_, err = LocalizedTextFromMap(map[string]string{"en": "x", "zz": "y"})
	assert.ErrorIs(t, err, ErrUnsupportedLanguage)
}

func TestParseProgressStatus(t *testing.T) {
	s, err := ParseProgressStatus("completed")
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, s)

	_, err = ParseProgressStatus("reading")
	assert.Error(t, err)
}
