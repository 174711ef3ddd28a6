package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateSKU_KnownValues(t *testing.T) {
	tests := []struct {
		name, brand string
		size        float64
		want        string
	}{
		{"Classic Tee", "Acme", 9, "346071090"},
		{"Classic Tee", "Acme", 10, "346071100"},
		{"Classic Tee", "Acme", 0, "346071000"},
		{"Classic Tee", "Acme", -2, "346070980"},
		{"", "", 0, "149219000"},
		{"Runner", "Nike", 42, "712535420"},
		{"Hoodie", "Acme", 8, "112139080"},
		// Prefix 00d53a is 54586: five digits, not padded.
		{"Item155", "Acme", 4, "54586040"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, GenerateSKU(tt.name, tt.brand, tt.size), "%q/%q/%v", tt.name, tt.brand, tt.size)
	}
}

func TestDeriveSKU_TruncatesSize(t *testing.T) {
	assert.Equal(t, int64(712535420), DeriveSKU("Runner", "Nike", 42.7))
	assert.Equal(t, int64(712534970), DeriveSKU("Runner", "Nike", -3.7))
	assert.Equal(t, DeriveSKU("Runner", "Nike", 42), DeriveSKU("Runner", "Nike", 42.99))
}

func TestDeriveSKU_Deterministic(t *testing.T) {
	for i := 0; i < 10; i++ {
		assert.Equal(t, int64(346071090), DeriveSKU("Classic Tee", "Acme", 9))
	}
}

func TestDeriveSKU_SizeStep(t *testing.T) {
	for s := 0; s < 20; s++ {
		a := DeriveSKU("Classic Tee", "Acme", float64(s))
		b := DeriveSKU("Classic Tee", "Acme", float64(s+1))
		assert.Equal(t, int64(10), b-a)
	}
}

func TestDeriveSKU_NoSeparatorBetweenNameAndBrand(t *testing.T) {
	assert.Equal(t, DeriveSKU("Classic TeeAcme", "", 9), DeriveSKU("Classic Tee", "Acme", 9))
}

func TestDeriveSKU_Collision(t *testing.T) {
	// Different prefixes (da3a92, da3a73) share the first six decimal digits.
	assert.Equal(t, int64(143018000), DeriveSKU("Tee550", "Acme", 0))
	assert.Equal(t, DeriveSKU("Tee550", "Acme", 5), DeriveSKU("Tee1026", "Acme", 5))
}

func TestParseSKU(t *testing.T) {
	sku, err := ParseSKU("346071090")
	require.NoError(t, err)
	assert.Equal(t, int64(346071090), sku)
	assert.Equal(t, "346071090", FormatSKU(sku))

	for _, bad := range []string{"", "abc", "-5", "1.5"} {
		_, err := ParseSKU(bad)
		assert.ErrorIs(t, err, ErrInvalidInput, bad)
	}
}
