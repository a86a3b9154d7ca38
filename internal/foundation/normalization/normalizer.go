package normalization

import (
	"fmt"
	"sort"
	"strings"
)

// Normalizer maps loosely written names (any case, '-' or '_' or ' ' as
// word separator) onto enum values.
type Normalizer[T comparable] struct {
	validValues  map[string]T
	defaultValue T
	validKeys    []string
}

// NewNormalizer creates a normalizer from a map of valid name->value pairs.
func NewNormalizer[T comparable](values map[string]T, defaultValue T) *Normalizer[T] {
	normalized := make(map[string]T, len(values))
	validKeys := make([]string, 0, len(values))
	for k, v := range values {
		key := Key(k)
		normalized[key] = v
		validKeys = append(validKeys, key)
	}
	sort.Strings(validKeys)

	return &Normalizer[T]{
		validValues:  normalized,
		defaultValue: defaultValue,
		validKeys:    validKeys,
	}
}

// Normalize converts raw to the enum type, or returns the default value.
func (n *Normalizer[T]) Normalize(raw string) T {
	if value, exists := n.validValues[Key(raw)]; exists {
		return value
	}
	return n.defaultValue
}

// NormalizeWithError converts raw to the enum type and fails on unknown names.
func (n *Normalizer[T]) NormalizeWithError(raw string) (T, error) {
	if value, exists := n.validValues[Key(raw)]; exists {
		return value, nil
	}
	var zero T
	return zero, fmt.Errorf("invalid value %q, valid options: %v", raw, n.validKeys)
}

// NormalizeAll converts every name in raws, stopping at the first unknown one.
func (n *Normalizer[T]) NormalizeAll(raws []string) ([]T, error) {
	out := make([]T, 0, len(raws))
	for _, raw := range raws {
		v, err := n.NormalizeWithError(raw)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// ValidKeys returns all valid normalized keys, sorted.
func (n *Normalizer[T]) ValidKeys() []string {
	result := make([]string, len(n.validKeys))
	copy(result, n.validKeys)
	return result
}

// Key is the canonical spelling used for lookups: lower case, trimmed,
// with '-' and ' ' folded to '_'.
func Key(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("-", "_", " ", "_").Replace(s)
}
