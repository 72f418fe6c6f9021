package models

import (
	"math"
	"strconv"
	"strings"
)

// DocumentValue is a generic type to represent any decoded document value.
// This can be nil, bool, Number (integers), float64, string, Sequence or *Mapping.
type DocumentValue interface{}

// Sequence represents an ordered list of DocumentValues.
type Sequence []DocumentValue

// Number holds the canonical JSON text of a numeric scalar.
// Keeping the text avoids losing precision on integers wider than 64 bits.
type Number string

// String returns the literal text of the number.
func (n Number) String() string { return string(n) }

// Mapping is a string-keyed map that remembers insertion order.
type Mapping struct {
	keys   []string
	values map[string]DocumentValue
}

// NewMapping creates an empty Mapping with room for size entries.
func NewMapping(size int) *Mapping {
	return &Mapping{
		keys:   make([]string, 0, size),
		values: make(map[string]DocumentValue, size),
	}
}

// Set stores value under key. Re-setting an existing key replaces the value
// but keeps the key at its original position.
func (m *Mapping) Set(key string, value DocumentValue) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value stored under key.
func (m *Mapping) Get(key string) (DocumentValue, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of entries.
func (m *Mapping) Len() int {
	return len(m.keys)
}

// Each calls fn for every entry in insertion order.
func (m *Mapping) Each(fn func(key string, value DocumentValue)) {
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Document is the result of decoding one YAML input.
type Document struct {
	Root DocumentValue
}

// FormatFloat renders f in shortest round-trip form, always with a
// fractional part or an exponent so the value reads back as a float.
// ok is false for infinities and NaN, which JSON cannot represent.
func FormatFloat(f float64) (string, bool) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return "", false
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64), true
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s, true
}
