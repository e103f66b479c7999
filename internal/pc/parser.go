package pc

import (
	"github.com/ngeor/go-basic/internal/common"
	"github.com/ngeor/go-basic/internal/lexer"
)

// Parser is the capability behind dynamic dispatch over parser
// combinators: parse, implicitly peek (via Peek), and unread
// (via Mark/Reset). Go methods cannot introduce new type parameters, so
// the combinators below are free generic functions rather than methods
// on Parser — composition reads as pc.And(a, b, combine) instead of
// a.and(b, combine), which is the idiomatic Go shape for this pattern.
type Parser[T any] func(s *Stream) (T, error)

func incomplete() error { return common.Incomplete }

// AnyToken consumes and returns the next token, or fails softly at
// end of input.
func AnyToken(s *Stream) (Tok, error) {
	t, ok := s.Next()
	if !ok {
		return Tok{}, incomplete()
	}
	return t, nil
}

// Peek runs p and, whether it succeeds or fails softly, rewinds the
// stream to before p ran. A hard failure still propagates (and the
// stream is rewound first, since a hard failure's position is what
// matters, not any partially-consumed tokens).
func Peek[T any](p Parser[T]) Parser[T] {
	return func(s *Stream) (T, error) {
		mark := s.Mark()
		v, err := p(s)
		s.Reset(mark)
		return v, err
	}
}

// Filter consumes one token and succeeds only if pred accepts it;
// otherwise it fails softly with the token unread.
func Filter(pred func(Tok) bool) Parser[Tok] {
	return func(s *Stream) (Tok, error) {
		mark := s.Mark()
		t, err := AnyToken(s)
		if err != nil {
			return Tok{}, err
		}
		if !pred(t) {
			s.Reset(mark)
			return Tok{}, incomplete()
		}
		return t, nil
	}
}

// FilterMap consumes one token and, if convert accepts it, returns the
// converted value; otherwise fails softly with the token unread.
func FilterMap[T any](convert func(Tok) (T, bool)) Parser[T] {
	return func(s *Stream) (T, error) {
		var zero T
		mark := s.Mark()
		t, err := AnyToken(s)
		if err != nil {
			return zero, err
		}
		v, ok := convert(t)
		if !ok {
			s.Reset(mark)
			return zero, incomplete()
		}
		return v, nil
	}
}

// Negate succeeds (with a zero value) exactly when p fails softly,
// without consuming input either way. A hard failure from p propagates.
func Negate[T any](p Parser[T]) Parser[struct{}] {
	return func(s *Stream) (struct{}, error) {
		mark := s.Mark()
		_, err := p(s)
		s.Reset(mark)
		if err == nil {
			return struct{}{}, incomplete()
		}
		if common.IsIncomplete(err) {
			return struct{}{}, nil
		}
		return struct{}{}, err
	}
}

// Keyword matches a case-insensitive keyword token.
func Keyword(kw string) Parser[Tok] {
	return Filter(func(t Tok) bool { return t.IsKeyword(kw) })
}

// Punct matches a punctuation or comparison-operator token by its exact
// text (e.g. "(" or "<=").
func Punct(p string) Parser[Tok] {
	return Filter(func(t Tok) bool { return t.IsPunct(p) })
}

// Ident matches any bare identifier token (not a keyword).
func Ident() Parser[Tok] {
	return Filter(func(t Tok) bool { return t.Type == lexer.TokIdentifier })
}
