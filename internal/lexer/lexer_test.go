package lexer

import "testing"

func collectTexts(l *Lexer) []string {
	var out []string
	for {
		tok, ok := l.Next()
		if !ok {
			break
		}
		out = append(out, tok.Text)
	}
	return out
}

func TestRoundTrip(t *testing.T) {
	src := "PRINT 1 + 2 * 3\r\nNEXT I%\n"
	l := New([]byte(src))
	var rebuilt []byte
	for {
		tok, ok := l.Next()
		if !ok {
			break
		}
		rebuilt = append(rebuilt, tok.Text...)
	}
	if string(rebuilt) != src {
		t.Fatalf("round trip mismatch:\n got %q\nwant %q", rebuilt, src)
	}
}

func TestKeywordRecognitionCaseInsensitive(t *testing.T) {
	for _, src := range []string{"print", "PRINT", "Print", "PrInT"} {
		l := New([]byte(src))
		tok, ok := l.Next()
		if !ok {
			t.Fatalf("expected a token for %q", src)
		}
		if tok.Type != TokKeyword {
			t.Fatalf("%q: expected keyword, got %v", src, tok.Type)
		}
	}
}

func TestIdentifierIsNotKeyword(t *testing.T) {
	l := New([]byte("PrintValue"))
	tok, ok := l.Next()
	if !ok || tok.Type != TokIdentifier {
		t.Fatalf("expected identifier, got %+v ok=%v", tok, ok)
	}
}

func TestOctalAndHexLiterals(t *testing.T) {
	cases := map[string]TokenType{
		"&O17":  TokOctalDigits,
		"&H1F":  TokHexDigits,
		"&h1f":  TokHexDigits,
	}
	for src, want := range cases {
		l := New([]byte(src))
		tok, ok := l.Next()
		if !ok {
			t.Fatalf("%q: expected token", src)
		}
		if tok.Type != want {
			t.Fatalf("%q: expected %v, got %v", src, want, tok.Type)
		}
		if tok.Text != src {
			t.Fatalf("%q: expected full literal text, got %q", src, tok.Text)
		}
	}
}

func TestComparisonOperators(t *testing.T) {
	l := New([]byte("<= >= <> < > ="))
	var kinds []TokenType
	for {
		tok, ok := l.Next()
		if !ok {
			break
		}
		if tok.Type == TokWhitespace {
			continue
		}
		kinds = append(kinds, tok.Type)
	}
	for _, k := range kinds {
		if k != TokComparison {
			t.Fatalf("expected all comparison tokens, got %v", kinds)
		}
	}
}

func TestUnreadRestoresPosition(t *testing.T) {
	l := New([]byte("DIM A%"))
	first, _ := l.Next()
	posBefore := l.Position()
	second, ok := l.Next()
	if !ok {
		t.Fatal("expected second token")
	}
	l.Unread(second)
	posAfter := l.Position()
	if posBefore != posAfter {
		t.Fatalf("position mismatch after unread: before=%v after=%v", posBefore, posAfter)
	}
	third, _ := l.Next()
	if third != second {
		t.Fatalf("expected unread token to be redelivered: got %+v want %+v", third, second)
	}
	_ = first
}

func TestEOLVariants(t *testing.T) {
	for _, src := range []string{"\r", "\n", "\r\n"} {
		l := New([]byte("A" + src + "B"))
		l.Next() // A
		eol, ok := l.Next()
		if !ok || eol.Type != TokEOL {
			t.Fatalf("%q: expected EOL token, got %+v ok=%v", src, eol, ok)
		}
		if eol.Text != src {
			t.Fatalf("%q: expected EOL text %q, got %q", src, src, eol.Text)
		}
		b, ok := l.Next()
		if !ok || b.Pos.Row != 2 || b.Pos.Col != 1 {
			t.Fatalf("%q: expected row 2 col 1 after line break, got %+v", src, b.Pos)
		}
	}
}

func TestStringLiteralScannedAtomically(t *testing.T) {
	l := New([]byte(`"he said ""hi""" + 1`))
	tok, ok := l.Next()
	if !ok || tok.Type != TokDoubleQuote {
		t.Fatalf("expected string token, got %+v ok=%v", tok, ok)
	}
	if tok.Text != `"he said ""hi"""` {
		t.Fatalf("unexpected raw text: %q", tok.Text)
	}
	value, closed := DecodeStringLiteral(tok.Text)
	if !closed {
		t.Fatalf("expected closed string")
	}
	if value != `he said "hi"` {
		t.Fatalf("unexpected decoded value: %q", value)
	}
	rest, ok := l.Next()
	if !ok || rest.Type != TokWhitespace {
		t.Fatalf("expected whitespace after string, got %+v", rest)
	}
}

func TestUnterminatedStringLiteral(t *testing.T) {
	l := New([]byte("\"oops\nPRINT"))
	tok, _ := l.Next()
	if tok.Type != TokDoubleQuote {
		t.Fatalf("expected string token, got %+v", tok)
	}
	_, closed := DecodeStringLiteral(tok.Text)
	if closed {
		t.Fatalf("expected unterminated string")
	}
	eol, ok := l.Next()
	if !ok || eol.Type != TokEOL {
		t.Fatalf("expected EOL right after unterminated string, got %+v", eol)
	}
}

func TestRestOfLineForComments(t *testing.T) {
	l := New([]byte("' a comment\nPRINT"))
	quote, ok := l.Next()
	if !ok || quote.Type != TokSingleQuote {
		t.Fatalf("expected single quote token, got %+v", quote)
	}
	comment := l.RestOfLine()
	if comment != " a comment" {
		t.Fatalf("expected comment text, got %q", comment)
	}
	eol, ok := l.Next()
	if !ok || eol.Type != TokEOL {
		t.Fatalf("expected EOL after comment, got %+v", eol)
	}
}
