package dto

import (
	"bytes"
	"encoding/json"
	"math"
)

// Field keeps a request member exactly as it arrived so that validation can
// tell an omitted key from an explicit null and check its JSON type itself.
type Field struct {
	present bool
	raw     json.RawMessage
}

// UnmarshalJSON is only invoked when the key exists in the body, null included.
func (f *Field) UnmarshalJSON(data []byte) error {
	f.present = true
	f.raw = append(f.raw[:0], data...)
	return nil
}

// RawField builds a present Field from a JSON literal.
func RawField(literal string) Field {
	return Field{present: true, raw: json.RawMessage(literal)}
}

func (f Field) Present() bool {
	return f.present
}

func (f Field) IsNull() bool {
	return f.present && bytes.Equal(bytes.TrimSpace(f.raw), []byte("null"))
}

// String decodes the member as a JSON string.
func (f Field) String() (string, bool) {
	if !f.present || f.IsNull() {
		return "", false
	}
	trimmed := bytes.TrimSpace(f.raw)
	if len(trimmed) == 0 || trimmed[0] != '"' {
		return "", false
	}
	var s string
	if err := json.Unmarshal(trimmed, &s); err != nil {
		return "", false
	}
	return s, true
}

// Uint decodes the member as a positive whole JSON number.
func (f Field) Uint() (uint, bool) {
	if !f.present || f.IsNull() {
		return 0, false
	}
	var n float64
	if err := json.Unmarshal(f.raw, &n); err != nil {
		return 0, false
	}
	if n < 1 || n != math.Trunc(n) || n > math.MaxUint32 {
		return 0, false
	}
	return uint(n), true
}

type patchState uint8

const (
	patchOmitted patchState = iota
	patchNull
	patchValue
)

// Patch is a tagged update value: omitted, explicitly null, or set.
type Patch[T any] struct {
	state patchState
	value T
}

func Omit[T any]() Patch[T] {
	return Patch[T]{}
}

func Null[T any]() Patch[T] {
	return Patch[T]{state: patchNull}
}

func Value[T any](v T) Patch[T] {
	return Patch[T]{state: patchValue, value: v}
}

func (p Patch[T]) IsOmitted() bool { return p.state == patchOmitted }
func (p Patch[T]) IsNull() bool    { return p.state == patchNull }
func (p Patch[T]) IsSet() bool     { return p.state == patchValue }

// Get returns the value and whether one was set.
func (p Patch[T]) Get() (T, bool) {
	return p.value, p.state == patchValue
}

// Ptr maps null to nil and a set value to a pointer. Callers check IsOmitted first.
func (p Patch[T]) Ptr() *T {
	if p.state != patchValue {
		return nil
	}
	v := p.value
	return &v
}

// JSON returns the wire form of a provided patch; ok is false when omitted.
func (p Patch[T]) JSON() (any, bool) {
	switch p.state {
	case patchNull:
		return nil, true
	case patchValue:
		return p.value, true
	default:
		return nil, false
	}
}
