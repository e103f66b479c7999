// Package pc is the parser-combinator core: composable
// parsers over a token stream, distinguishing soft failures (which must
// not consume input) from hard failures (which do, and propagate
// unchanged). This is the capability every BASIC grammar rule in
// internal/parser is built from.
package pc

import (
	"github.com/ngeor/go-basic/internal/common"
	"github.com/ngeor/go-basic/internal/lexer"
)

// Tok is a lexer.Token annotated with whether it was preceded by
// whitespace on the same line. The grammar needs this in exactly one
// place (a `label:` definition, whose colon must follow the name with
// no space in between) but it is recorded for every token since it is
// nearly free to track.
type Tok struct {
	lexer.Token
	SpaceBefore bool
}

// Stream is the token source every pc.Parser consumes from. Tokens
// pulled from the underlying Lexer are buffered so that Mark/Reset can
// implement arbitrary-depth pushback as an O(1) cursor move rather than
// a literal stack of unread tokens — the same arbitrarily-many-tokens
// lookahead guarantee, realized with a buffer-plus-cursor instead of
// push/pop, which composes more simply through generic combinators.
type Stream struct {
	lx   *lexer.Lexer
	toks []Tok
	pos  int
}

// NewStream wraps a Lexer for combinator-based parsing.
func NewStream(lx *lexer.Lexer) *Stream {
	return &Stream{lx: lx}
}

// Lexer returns the underlying Lexer, for grammar rules that need a
// lexer-level capability (currently: code-page-aware string-literal
// decoding) rather than just its next token.
func (s *Stream) Lexer() *lexer.Lexer {
	return s.lx
}

// fill pulls the next non-whitespace token from the lexer into the
// buffer. Comments (single quotes, REM) are NOT skipped here: they are
// ordinary tokens the grammar turns into comment statements. A type
// qualifier written directly after an identifier (`I%`, `LEFT$`) is
// joined onto that identifier's text, so the grammar sees one name token.
func (s *Stream) fill() bool {
	space := false
	for {
		t, ok := s.lx.Next()
		if !ok {
			return false
		}
		if t.Type == lexer.TokWhitespace {
			space = true
			continue
		}
		if t.Type == lexer.TokIdentifier {
			if q, ok := s.lx.Next(); ok {
				if _, isQual := common.QualifierFromByte(q.Text[0]); isQual && q.Type == lexer.TokPunctuation {
					t.Text += q.Text
				} else {
					s.lx.Unread(q)
				}
			}
		}
		s.toks = append(s.toks, Tok{Token: t, SpaceBefore: space})
		return true
	}
}

func (s *Stream) ensure(n int) bool {
	for len(s.toks) < n {
		if !s.fill() {
			return false
		}
	}
	return true
}

// Next consumes and returns the next token.
func (s *Stream) Next() (Tok, bool) {
	if !s.ensure(s.pos + 1) {
		return Tok{}, false
	}
	t := s.toks[s.pos]
	s.pos++
	return t, true
}

// PeekNth returns the token n positions ahead of the cursor (n=0 is the
// next token Next would return) without consuming it.
func (s *Stream) PeekNth(n int) (Tok, bool) {
	if !s.ensure(s.pos + n + 1) {
		return Tok{}, false
	}
	return s.toks[s.pos+n], true
}

// Mark captures the current cursor position for a later Reset.
func (s *Stream) Mark() int { return s.pos }

// Reset rewinds the cursor to a previously captured Mark. This is the
// mechanism behind "unreading" a parser's consumed tokens on soft
// failure.
func (s *Stream) Reset(mark int) { s.pos = mark }

// Pos returns the position of the next token, or the end-of-input
// position if the stream is exhausted.
func (s *Stream) Pos() common.Position {
	if t, ok := s.PeekNth(0); ok {
		return t.Pos
	}
	return s.lx.Position()
}

// RestOfLine hands off to the underlying Lexer's RestOfLine, for
// reading a comment's text after its opening quote or REM has just been
// consumed. Valid only when nothing beyond that opener has been peeked
// (true immediately after Keyword("REM") or a TokSingleQuote match,
// which is the only place the grammar calls it).
func (s *Stream) RestOfLine() string {
	return s.lx.RestOfLine()
}
