package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer maps loosely written configuration strings onto a closed set of values.
type Normalizer[T comparable] struct {
	name         string
	validValues  map[string]T
	defaultValue T
	validKeys    []string // cached for error messages
}

// NewNormalizer creates a normalizer for the named setting. Keys are matched
// case-insensitively after trimming; '_' and '-' are interchangeable.
func NewNormalizer[T comparable](name string, values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))
	for k, v := range values {
		key := normalize(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	sort.Strings(validKeys)

	return &Normalizer[T]{
		name:         name,
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// Normalize returns the matching value, or the default for unknown input.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, ok := n.validValues[normalize(raw)]; ok {
		return value
	}
	return n.defaultValue
}

// NormalizeWithError is like Normalize but rejects unknown input. Empty input
// yields the default.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	cleaned := normalize(raw)
	if cleaned == "" {
		return n.defaultValue, nil
	}
	if value, ok := n.validValues[cleaned]; ok {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid %s %q, valid options: %v", n.name, raw, n.validKeys)
}

// ValidKeys returns all valid normalized keys.
func (n *Normalizer[T]) ValidKeys() []string {
	result := make([]string, len(n.validKeys))
	copy(result, n.validKeys)
	return result
}

func normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "_", "-")
}
