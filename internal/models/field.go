package models

// fieldState distinguishes the three states a patch field can be in.
type fieldState uint8

const (
	fieldUnchanged fieldState = iota
	fieldSet
	fieldClear
)

// Field is an optional value in a partial update. The zero value leaves the
// remote field untouched, Set writes a value and Clear writes null.
type Field[T any] struct {
	state fieldState
	value T
}

// Set returns a field that writes v.
func Set[T any](v T) Field[T] {
	return Field[T]{state: fieldSet, value: v}
}

// Clear returns a field that nulls the remote value.
func Clear[T any]() Field[T] {
	return Field[T]{state: fieldClear}
}

// SetPtr returns Set(*v) for a non-nil pointer and Clear otherwise.
func SetPtr[T any](v *T) Field[T] {
	if v == nil {
		return Clear[T]()
	}
	return Set(*v)
}

func (f Field[T]) IsUnchanged() bool { return f.state == fieldUnchanged }
func (f Field[T]) IsSet() bool       { return f.state == fieldSet }
func (f Field[T]) IsClear() bool     { return f.state == fieldClear }

// Value returns the written value and whether the field is Set.
func (f Field[T]) Value() (T, bool) {
	return f.value, f.state == fieldSet
}
