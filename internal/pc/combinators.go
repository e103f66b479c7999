package pc

import "github.com/ngeor/go-basic/internal/common"

// And parses the left side then the right side, combining both outputs.
// If the right side fails softly, the left side's tokens are unread
// too (the stream is reset all the way to before the left side ran),
// matching the sequencing contract exactly.
func And[A, B, O any](a Parser[A], b Parser[B], combine func(A, B) O) Parser[O] {
	return func(s *Stream) (O, error) {
		var zero O
		mark := s.Mark()
		av, err := a(s)
		if err != nil {
			return zero, err
		}
		bv, err := b(s)
		if err != nil {
			if common.IsIncomplete(err) {
				s.Reset(mark)
			}
			return zero, err
		}
		return combine(av, bv), nil
	}
}

// AndKeepLeft is And with a combiner that discards the right side.
func AndKeepLeft[A, B any](a Parser[A], b Parser[B]) Parser[A] {
	return And(a, b, func(x A, _ B) A { return x })
}

// AndKeepRight is And with a combiner that discards the left side.
func AndKeepRight[A, B any](a Parser[A], b Parser[B]) Parser[B] {
	return And(a, b, func(_ A, y B) B { return y })
}

// Pair is And producing a two-tuple.
type Pair[A, B any] struct {
	First  A
	Second B
}

// AndPair is And with a tuple combiner.
func AndPair[A, B any](a Parser[A], b Parser[B]) Parser[Pair[A, B]] {
	return And(a, b, func(x A, y B) Pair[A, B] { return Pair[A, B]{x, y} })
}

// AndOpt parses the left side, then optionally the right side (a
// soft-failing right side yields Option{Present:false} rather than
// failing the whole sequence).
func AndOpt[A, B, O any](a Parser[A], b Parser[B], combine func(A, Option[B]) O) Parser[O] {
	return And(a, AllowNone(b), combine)
}

// Or tries a; on a's soft failure (with input already unread by a)
// tries b. A hard failure from either propagates unchanged.
func Or[T any](a, b Parser[T]) Parser[T] {
	return func(s *Stream) (T, error) {
		mark := s.Mark()
		v, err := a(s)
		if err == nil {
			return v, nil
		}
		if common.IsIncomplete(err) {
			s.Reset(mark)
			return b(s)
		}
		var zero T
		return zero, err
	}
}

// OrOfMany tries each alternative in order. Needed wherever the
// alternative set is built dynamically (e.g. the built-in function
// table) rather than known at the call site.
func OrOfMany[T any](ps ...Parser[T]) Parser[T] {
	return func(s *Stream) (T, error) {
		var zero T
		if len(ps) == 0 {
			return zero, incomplete()
		}
		p := ps[0]
		for _, next := range ps[1:] {
			p = Or(p, next)
		}
		return p(s)
	}
}

// AllowNone turns p's soft failure into Option{Present:false}, unreading
// whatever p consumed before failing.
func AllowNone[T any](p Parser[T]) Parser[Option[T]] {
	return func(s *Stream) (Option[T], error) {
		mark := s.Mark()
		v, err := p(s)
		if err == nil {
			return Some(v), nil
		}
		if common.IsIncomplete(err) {
			s.Reset(mark)
			return None[T](), nil
		}
		return Option[T]{}, err
	}
}

// OrFail converts p's soft failure into a hard failure carrying err's
// kind and message, positioned at the point of failure.
func OrFail[T any](p Parser[T], kind common.ErrKind, msg string) Parser[T] {
	return func(s *Stream) (T, error) {
		v, err := p(s)
		if err == nil {
			return v, nil
		}
		if common.IsIncomplete(err) {
			var zero T
			return zero, common.New(kind, s.Pos(), "%s", msg)
		}
		return v, err
	}
}

// OrSyntaxError is OrFail specialized to ErrSyntax, the common case
// for "expected ..." grammar errors.
func OrSyntaxError[T any](p Parser[T], msg string) Parser[T] {
	return OrFail(p, common.ErrSyntax, msg)
}

// ZeroOrMore collects values until p fails softly; a hard failure
// aborts the whole repetition.
func ZeroOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(s *Stream) ([]T, error) {
		var out []T
		for {
			mark := s.Mark()
			v, err := p(s)
			if err == nil {
				out = append(out, v)
				continue
			}
			if common.IsIncomplete(err) {
				s.Reset(mark)
				return out, nil
			}
			return out, err
		}
	}
}

// OneOrMore requires at least one success, then behaves like
// ZeroOrMore.
func OneOrMore[T any](p Parser[T]) Parser[[]T] {
	return func(s *Stream) ([]T, error) {
		first, err := p(s)
		if err != nil {
			return nil, err
		}
		rest, err := ZeroOrMore(p)(s)
		if err != nil {
			return nil, err
		}
		return append([]T{first}, rest...), nil
	}
}

// Map transforms a successful result; it never changes failure
// semantics.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return func(s *Stream) (U, error) {
		v, err := p(s)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(v), nil
	}
}

// AndThen maps a successful result through a function that can itself
// fail (hard failure only — mirroring the Rust original, a soft
// failure at this point would not roll back tokens already consumed,
// so AndThen never returns Incomplete).
func AndThen[T, U any](p Parser[T], f func(T) (U, error)) Parser[U] {
	return func(s *Stream) (U, error) {
		v, err := p(s)
		if err != nil {
			var zero U
			return zero, err
		}
		return f(v)
	}
}

// Positioned pairs a parsed value with the position of the first token
// it consumed.
type Positioned[T any] struct {
	Pos   common.Position
	Value T
}

// WithPos wraps p to attach the starting position of the first token
// it would consume.
func WithPos[T any](p Parser[T]) Parser[Positioned[T]] {
	return func(s *Stream) (Positioned[T], error) {
		pos := s.Pos()
		v, err := p(s)
		if err != nil {
			return Positioned[T]{}, err
		}
		return Positioned[T]{Pos: pos, Value: v}, nil
	}
}

// DelimitedBy parses one-or-more items separated by sep. A trailing
// separator (sep succeeds but the following item fails softly) is a
// hard failure of the given kind/message.
func DelimitedBy[T, S any](item Parser[T], sep Parser[S], trailingKind common.ErrKind, trailingMsg string) Parser[[]T] {
	return func(s *Stream) ([]T, error) {
		var out []T
		first, err := item(s)
		if err != nil {
			return nil, err
		}
		out = append(out, first)
		for {
			mark := s.Mark()
			_, serr := sep(s)
			if serr != nil {
				if common.IsIncomplete(serr) {
					s.Reset(mark)
					return out, nil
				}
				return out, serr
			}
			v, ierr := item(s)
			if ierr != nil {
				if common.IsIncomplete(ierr) {
					return out, common.New(trailingKind, s.Pos(), "%s", trailingMsg)
				}
				return out, ierr
			}
			out = append(out, v)
		}
	}
}

// DelimitedByZeroOrMore is DelimitedBy but tolerates zero items.
func DelimitedByZeroOrMore[T, S any](item Parser[T], sep Parser[S], trailingKind common.ErrKind, trailingMsg string) Parser[[]T] {
	return func(s *Stream) ([]T, error) {
		opt, err := AllowNone(DelimitedBy(item, sep, trailingKind, trailingMsg))(s)
		if err != nil {
			return nil, err
		}
		if !opt.Present {
			return nil, nil
		}
		return opt.Value, nil
	}
}

// DelimitedByAllowMissing parses a separator-delimited list where items
// between separators may be absent (BASIC's `PRINT #1,, A` elided
// argument). Each slot is an Option: present when an item was parsed,
// absent when the separator was immediately followed by another
// separator or end of list.
func DelimitedByAllowMissing[T any](item Parser[T], sep Parser[Tok]) Parser[[]Option[T]] {
	return func(s *Stream) ([]Option[T], error) {
		var out []Option[T]
		for {
			v, err := AllowNone(item)(s)
			if err != nil {
				return out, err
			}
			out = append(out, v)
			mark := s.Mark()
			_, serr := sep(s)
			if serr != nil {
				if common.IsIncomplete(serr) {
					s.Reset(mark)
					return out, nil
				}
				return out, serr
			}
		}
	}
}
