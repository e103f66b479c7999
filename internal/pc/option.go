package pc

// Option is a small Maybe type used wherever a combinator turns a soft
// failure into "no value" instead of propagating it (AllowNone,
// DelimitedByAllowMissing).
type Option[T any] struct {
	Value   T
	Present bool
}

// Some wraps a present value.
func Some[T any](v T) Option[T] { return Option[T]{Value: v, Present: true} }

// None is the absent value of type T.
func None[T any]() Option[T] { return Option[T]{} }
