package research

import (
	"bytes"
	"encoding/json"
)

// Optional holds a value that may be absent. The zero Optional is absent.
// Absent values are omitted from JSON when the field is tagged omitzero.
type Optional[T any] struct {
	value T
	set   bool
}

// Some returns a present Optional holding v.
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

// None returns an absent Optional.
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

// Value returns the value, or the zero value of T when absent.
func (o Optional[T]) Value() T {
	return o.value
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

// IsZero reports whether the value is absent.
func (o Optional[T]) IsZero() bool {
	return !o.set
}

func (o Optional[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*o = Optional[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
