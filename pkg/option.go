package pkg

// Option is a functional option that transforms a value of type T.
type Option[T any] func(T) T

// Make returns a zero T with each of opts applied in order.
func Make[T any](opts ...Option[T]) T {
	var v T

	return Wrap(v, opts...)
}

// Wrap applies each of opts to v in order and returns the result.
func Wrap[T any](v T, opts ...Option[T]) T {
	for _, opt := range opts {
		if opt != nil {
			v = opt(v)
		}
	}

	return v
}
