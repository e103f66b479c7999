// Package lexer implements the tokenizer: a byte
// stream is turned into a lazy sequence of positioned tokens, with an
// arbitrary-depth unread (pushback) stack that the parser-combinator
// layer uses for lookahead and soft-failure recovery.
package lexer

import "github.com/ngeor/go-basic/internal/common"

// TokenType tags the lexical category of a Token.
type TokenType int

const (
	TokEOL        TokenType = iota // end-of-line (CR, LF, or CRLF)
	TokWhitespace                  // run of spaces/tabs
	TokDigits                      // run of decimal digits
	TokOctalDigits                 // &O... octal literal
	TokHexDigits                   // &H... hex literal
	TokIdentifier                  // bare identifier: letters and digits only; a dot or a type qualifier is a separate punctuation token
	TokKeyword                     // identifier matching the keyword table
	TokSingleQuote                 // ' (comment opener; REM ... uses TokKeyword instead)
	TokDoubleQuote                 // a whole string literal, quotes included
	TokPunctuation                 // one of ( ) : ; , . + - * / & ! # $ %
	TokComparison                  // <= >= <> and the single-character < > =
	TokComment                     // not produced by Lexer: comments arrive as TokSingleQuote or the REM keyword
)

var tokenTypeNames = map[TokenType]string{
	TokEOL:         "EOL",
	TokWhitespace:  "Whitespace",
	TokDigits:      "Digits",
	TokOctalDigits: "OctalDigits",
	TokHexDigits:   "HexDigits",
	TokIdentifier:  "Identifier",
	TokKeyword:     "Keyword",
	TokSingleQuote: "SingleQuote",
	TokDoubleQuote: "DoubleQuote",
	TokPunctuation: "Punctuation",
	TokComparison:  "Comparison",
	TokComment:     "Comment",
}

// String names the token type, for tools that print a token stream.
func (t TokenType) String() string {
	if s, ok := tokenTypeNames[t]; ok {
		return s
	}
	return "Unknown"
}

// Token is one lexical unit: its type, the exact source text it
// covers, and its starting position.
type Token struct {
	Type TokenType
	Text string
	Pos  common.Position
}

// IsKeyword reports whether t is the case-insensitive spelling of kw.
func (t Token) IsKeyword(kw string) bool {
	return t.Type == TokKeyword && asciiEqualFold(t.Text, kw)
}

// IsPunct reports whether t is the punctuation/comparison token p.
func (t Token) IsPunct(p string) bool {
	return (t.Type == TokPunctuation || t.Type == TokComparison) && t.Text == p
}

func asciiEqualFold(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := 0; i < len(a); i++ {
		ca, cb := a[i], b[i]
		if ca >= 'a' && ca <= 'z' {
			ca -= 'a' - 'A'
		}
		if cb >= 'a' && cb <= 'z' {
			cb -= 'a' - 'A'
		}
		if ca != cb {
			return false
		}
	}
	return true
}

// keywords is the fixed, case-insensitive table of BASIC statement and
// operator keywords. Built-in function names (LEN, MID$, ...) are
// deliberately absent: the grammar treats them as ordinary identifiers,
// and the linter is what recognizes them as built-in
// calls.
var keywords = buildKeywordSet(
	"AND", "AS", "APPEND", "ACCESS", "BINARY", "CALL", "CASE", "CLOSE",
	"CONST", "DATA", "DECLARE", "DEFDBL", "DEFINT", "DEFLNG", "DEFSNG",
	"DEFSTR", "DIM", "DO", "ELSE", "ELSEIF", "END", "EQV", "ERROR",
	"EXIT", "FIELD", "FOR", "FUNCTION", "GET", "GOSUB", "GOTO", "IF",
	"IMP", "INPUT", "IS", "KILL", "LINE", "LOOP", "LPRINT", "LSET",
	"MOD", "NAME", "NEXT", "NOT", "ON", "OPEN", "OR", "OUTPUT", "PRINT",
	"PUT", "RANDOM", "READ", "REDIM", "REM", "RESUME", "RETURN", "RSET",
	"SELECT", "SHARED", "STEP", "SUB", "SYSTEM", "THEN", "TO", "TYPE",
	"UNTIL", "USING", "WEND", "WHILE", "WRITE", "XOR",
)

func buildKeywordSet(words ...string) map[string]struct{} {
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[asciiUpper(w)] = struct{}{}
	}
	return m
}

func asciiUpper(s string) string {
	b := []byte(s)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - ('a' - 'A')
		}
	}
	return string(b)
}

func isKeywordText(s string) bool {
	_, ok := keywords[asciiUpper(s)]
	return ok
}
