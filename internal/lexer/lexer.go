package lexer

import (
	"github.com/ngeor/go-basic/internal/common"
	"golang.org/x/text/encoding/charmap"
)

// Option configures a Lexer at construction time, following the
// functional-options pattern.
type Option func(*Lexer)

// WithTabWidth sets how many columns a tab character advances (default
// 1, i.e. a tab is treated as a single column like any other byte —
// QBasic source is a single-byte code page, not a terminal, so there is
// no canonical "tab stop" to honor).
func WithTabWidth(n int) Option {
	return func(l *Lexer) {
		if n > 0 {
			l.tabWidth = n
		}
	}
}

// WithCodePage declares the single-byte code page that bytes above
// 0x7F inside string literals are written in (e.g. charmap.CodePage437,
// charmap.ISO8859_1). It only affects DecodeString's output; raw token
// text, positions, and byte-oriented column counting are unaffected, so
// a program with no high-byte literals behaves identically with or
// without this option. Unset (the default), high bytes pass through
// as opaque Latin-1-equivalent bytes, matching QBasic's own
// code-page-agnostic behavior.
func WithCodePage(cm *charmap.Charmap) Option {
	return func(l *Lexer) {
		l.codePage = cm
	}
}

// Lexer tokenizes BASIC source text. Source bytes are treated as an
// opaque single-byte encoding (ASCII, optionally extended with code
// page characters above 0x7F): columns count bytes, not runes.
type Lexer struct {
	src      []byte
	pos      int
	row, col int
	tabWidth int
	unread   []Token // pushback stack; top is unread[len-1]
	codePage *charmap.Charmap
}

// New creates a Lexer over src.
func New(src []byte, opts ...Option) *Lexer {
	l := &Lexer{src: src, row: 1, col: 1, tabWidth: 1}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Position returns the position of the next token Next will return.
func (l *Lexer) Position() common.Position {
	if n := len(l.unread); n > 0 {
		return l.unread[n-1].Pos
	}
	return common.Position{Row: l.row, Col: l.col}
}

// Unread pushes a token back onto the pushback stack. The tokenizer's
// effective position is restored to that token's start, keeping the
// parser's soft-failure contract intact: tokenizer.position() before
// and after a soft failure is identical.
func (l *Lexer) Unread(t Token) {
	l.unread = append(l.unread, t)
}

// Next returns the next token, or ok=false at end of input. Re-querying
// after EOF keeps returning false.
func (l *Lexer) Next() (Token, bool) {
	if n := len(l.unread); n > 0 {
		t := l.unread[n-1]
		l.unread = l.unread[:n-1]
		return t, true
	}
	return l.scan()
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peekByte() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekByteAt(off int) byte {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	l.col++
	return b
}

func (l *Lexer) scan() (Token, bool) {
	if l.eof() {
		return Token{}, false
	}

	start := common.Position{Row: l.row, Col: l.col}
	b := l.peekByte()

	switch {
	case b == '\r' || b == '\n':
		return l.scanEOL(start), true
	case b == ' ' || b == '\t':
		return l.scanWhitespace(start), true
	case b == '\'':
		return l.scanFixed(start, TokSingleQuote, 1), true
	case b == '"':
		return l.scanString(start), true
	case b == '&' && (upper(l.peekByteAt(1)) == 'O'):
		return l.scanRadix(start, TokOctalDigits, isOctalDigit), true
	case b == '&' && (upper(l.peekByteAt(1)) == 'H'):
		return l.scanRadix(start, TokHexDigits, isHexDigit), true
	case isDigit(b):
		return l.scanDigits(start), true
	case isAlpha(b):
		return l.scanIdentifier(start), true
	case b == '<' && l.peekByteAt(1) == '=':
		return l.scanFixed(start, TokComparison, 2), true
	case b == '>' && l.peekByteAt(1) == '=':
		return l.scanFixed(start, TokComparison, 2), true
	case b == '<' && l.peekByteAt(1) == '>':
		return l.scanFixed(start, TokComparison, 2), true
	case b == '<' || b == '>' || b == '=':
		return l.scanFixed(start, TokComparison, 1), true
	default:
		if isPunct(b) {
			return l.scanFixed(start, TokPunctuation, 1), true
		}
		// Unrecognized byte (opaque code-page character outside any
		// other category): surface it as a single-byte punctuation
		// token rather than failing the whole tokenizer; the grammar
		// layer will reject it with a syntax error at this position.
		return l.scanFixed(start, TokPunctuation, 1), true
	}
}

func (l *Lexer) scanFixed(start common.Position, typ TokenType, n int) Token {
	s := l.pos
	for i := 0; i < n; i++ {
		l.advance()
	}
	return Token{Type: typ, Text: string(l.src[s:l.pos]), Pos: start}
}

func (l *Lexer) scanEOL(start common.Position) Token {
	s := l.pos
	b := l.advance()
	if b == '\r' && l.peekByte() == '\n' {
		l.advance()
	}
	tok := Token{Type: TokEOL, Text: string(l.src[s:l.pos]), Pos: start}
	l.row++
	l.col = 1
	return tok
}

func (l *Lexer) scanWhitespace(start common.Position) Token {
	s := l.pos
	for !l.eof() {
		b := l.peekByte()
		if b == ' ' {
			l.advance()
		} else if b == '\t' {
			l.pos++
			l.col += l.tabWidth
		} else {
			break
		}
	}
	return Token{Type: TokWhitespace, Text: string(l.src[s:l.pos]), Pos: start}
}

func (l *Lexer) scanDigits(start common.Position) Token {
	s := l.pos
	for !l.eof() && isDigit(l.peekByte()) {
		l.advance()
	}
	return Token{Type: TokDigits, Text: string(l.src[s:l.pos]), Pos: start}
}

func (l *Lexer) scanRadix(start common.Position, typ TokenType, valid func(byte) bool) Token {
	s := l.pos
	l.advance() // '&'
	l.advance() // 'O' or 'H'
	for !l.eof() && valid(l.peekByte()) {
		l.advance()
	}
	return Token{Type: typ, Text: string(l.src[s:l.pos]), Pos: start}
}

func (l *Lexer) scanIdentifier(start common.Position) Token {
	s := l.pos
	for !l.eof() && isAlnum(l.peekByte()) {
		l.advance()
	}
	text := string(l.src[s:l.pos])
	typ := TokIdentifier
	if isKeywordText(text) {
		typ = TokKeyword
	}
	return Token{Type: typ, Text: text, Pos: start}
}

// RestOfLine consumes and returns every byte up to (but not including)
// the next line break or EOF. Used by the grammar to read comment text
// after a single quote or REM, which is not itself tokenized as BASIC
// tokens.
func (l *Lexer) RestOfLine() string {
	s := l.pos
	for !l.eof() && l.peekByte() != '\r' && l.peekByte() != '\n' {
		l.advance()
	}
	return string(l.src[s:l.pos])
}

// scanString consumes a whole string literal in one step, from the
// opening quote through the closing quote (or through end of line/input
// if unterminated). QBasic strings have no backslash escapes; a doubled
// `""` embeds a literal quote. Scanning the literal atomically, rather
// than returning a single-byte quote token and having the grammar read
// the body afterwards, keeps arbitrary string content (spaces, keyword
// spellings, stray punctuation) from ever being offered to the rest of
// the tokenizer as if it were BASIC source.
func (l *Lexer) scanString(start common.Position) Token {
	s := l.pos
	l.advance() // opening quote
	for {
		if l.eof() || l.peekByte() == '\r' || l.peekByte() == '\n' {
			break
		}
		if l.peekByte() == '"' {
			if l.peekByteAt(1) == '"' {
				l.advance()
				l.advance()
				continue
			}
			l.advance()
			break
		}
		l.advance()
	}
	return Token{Type: TokDoubleQuote, Text: string(l.src[s:l.pos]), Pos: start}
}

// DecodeString is DecodeStringLiteral plus this Lexer's code page: when
// WithCodePage was given, every byte the literal's raw text carries
// above 0x7F is retranscoded from that code page into its correct
// Unicode rune (UTF-8-encoded), so a program's string constants display
// correctly on a modern terminal instead of as the code page's raw
// byte values. ASCII-only literals are returned unchanged either way.
func (l *Lexer) DecodeString(t Token) (value string, closed bool) {
	value, closed = DecodeStringLiteral(t.Text)
	if l.codePage == nil || value == "" {
		return value, closed
	}
	decoded, err := l.codePage.NewDecoder().String(value)
	if err != nil {
		return value, closed
	}
	return decoded, closed
}

// DecodeStringLiteral extracts the value of a TokDoubleQuote token's
// Text (opening quote, body with doubled-quote escapes, optional
// closing quote) and reports whether a closing quote was present.
func DecodeStringLiteral(text string) (value string, closed bool) {
	if len(text) == 0 || text[0] != '"' {
		return "", false
	}
	var b []byte
	i := 1
	for i < len(text) {
		c := text[i]
		if c == '"' {
			if i+1 < len(text) && text[i+1] == '"' {
				b = append(b, '"')
				i += 2
				continue
			}
			return string(b), true
		}
		b = append(b, c)
		i++
	}
	return string(b), false
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}

func isDigit(b byte) bool      { return b >= '0' && b <= '9' }
func isOctalDigit(b byte) bool { return b >= '0' && b <= '7' }
func isHexDigit(b byte) bool {
	u := upper(b)
	return isDigit(b) || (u >= 'A' && u <= 'F')
}
func isAlpha(b byte) bool { u := upper(b); return u >= 'A' && u <= 'Z' }
func isAlnum(b byte) bool { return isAlpha(b) || isDigit(b) }
func isPunct(b byte) bool {
	switch b {
	case '(', ')', ':', ';', ',', '.', '+', '-', '*', '/', '&', '!', '#', '$', '%':
		return true
	default:
		return false
	}
}
