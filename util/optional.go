package util

//*******************************************
// optional
//*******************************************

// Optional holds a value that may be absent.
//
// Fields are exported so that optionals survive gob round trips.
type Optional[T any] struct {
	Value T
	Valid bool
}

func Some[T any](value T) Optional[T] {
	return Optional[T]{
		Value: value,
		Valid: true,
	}
}

func None[T any]() Optional[T] {
	return Optional[T]{}
}

func (o Optional[T]) HasValue() bool {
	return o.Valid
}

// Get returns the value and whether it is present.
func (o Optional[T]) Get() (T, bool) {
	return o.Value, o.Valid
}

// ValueOr returns the value or def if absent.
func (o Optional[T]) ValueOr(def T) T {
	if o.Valid {
		return o.Value
	}
	return def
}
