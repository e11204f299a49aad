package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateCoversAllCodes(t *testing.T) {
	codes := Codes()
	require.Len(t, codes, 32)

	for _, code := range codes {
		name, ok := Translate(code)
		assert.True(t, ok, "code %s must be mapped", code)
		assert.NotEmpty(t, name, "code %s must map to a non-empty name", code)
	}
}

func TestTranslateKnownValues(t *testing.T) {
	tests := []struct {
		code string
		name string
	}{
		{"MX-CMX", "CDMX"},
		{"MX-MEX", "EDOMEX"},
		{"MX-BCN", "BAJACALIFORNIA"},
		{"MX-ZAC", "ZACATECAS"},
	}
	for _, tt := range tests {
		name, ok := Translate(tt.code)
		require.True(t, ok)
		assert.Equal(t, tt.name, name)
	}
}

func TestTranslateUnknownCode(t *testing.T) {
	for _, code := range []string{"", "MX-XXX", "US-CA", "mx-agu"} {
		name, ok := Translate(code)
		assert.False(t, ok)
		assert.Empty(t, name)
	}
}
