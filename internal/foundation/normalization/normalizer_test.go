package normalization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnum string

const (
	testEnumAlpha    testEnum = "alpha"
	testEnumBeta     testEnum = "beta"
	testEnumFailFast testEnum = "fail-fast"
)

func newTestNormalizer() *Normalizer[testEnum] {
	return NewNormalizer("test enum", map[string]testEnum{
		"alpha":     testEnumAlpha,
		"beta":      testEnumBeta,
		"fail-fast": testEnumFailFast,
	}, testEnumAlpha)
}

func TestNormalizer_Normalize(t *testing.T) {
	n := newTestNormalizer()

	tests := []struct {
		name     string
		input    string
		expected testEnum
	}{
		{"exact match", "alpha", testEnumAlpha},
		{"case insensitive", "BETA", testEnumBeta},
		{"with spaces", "  beta  ", testEnumBeta},
		{"underscore", "fail_fast", testEnumFailFast},
		{"invalid input", "invalid", testEnumAlpha},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, n.Normalize(tt.input))
		})
	}
}

func TestNormalizer_NormalizeWithError(t *testing.T) {
	n := newTestNormalizer()

	v, err := n.NormalizeWithError("Fail-Fast")
	require.NoError(t, err)
	assert.Equal(t, testEnumFailFast, v)

	v, err = n.NormalizeWithError("")
	require.NoError(t, err)
	assert.Equal(t, testEnumAlpha, v)

	_, err = n.NormalizeWithError("gamma")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid test enum")
	assert.Contains(t, err.Error(), "[alpha beta fail-fast]")
}

func TestNormalizer_ValidKeysIsCopy(t *testing.T) {
	n := newTestNormalizer()
	keys := n.ValidKeys()
	keys[0] = "mutated"
	assert.Equal(t, []string{"alpha", "beta", "fail-fast"}, n.ValidKeys())
}
