package pc

import (
	"testing"

	"github.com/ngeor/go-basic/internal/common"
	"github.com/ngeor/go-basic/internal/lexer"
)

func streamOf(src string) *Stream {
	return NewStream(lexer.New([]byte(src)))
}

func TestKeywordSoftFailureUnreadsNothingConsumed(t *testing.T) {
	s := streamOf("PRINT")
	mark := s.Mark()
	_, err := Keyword("DIM")(s)
	if !common.IsIncomplete(err) {
		t.Fatalf("expected soft failure, got %v", err)
	}
	if s.Mark() != mark {
		t.Fatalf("expected position unchanged after soft failure")
	}
}

func TestAndUnreadsLeftOnRightSoftFailure(t *testing.T) {
	s := streamOf("DIM")
	mark := s.Mark()
	p := And(Keyword("DIM"), Keyword("AS"), func(a, b Tok) Tok { return a })
	_, err := p(s)
	if !common.IsIncomplete(err) {
		t.Fatalf("expected soft failure, got %v", err)
	}
	if s.Mark() != mark {
		t.Fatalf("expected both sides unread, stream at %d want %d", s.Mark(), mark)
	}
}

func TestOrTriesSecondOnSoftFailure(t *testing.T) {
	s := streamOf("AS")
	p := Or(Keyword("DIM"), Keyword("AS"))
	v, err := p(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Text != "AS" {
		t.Fatalf("expected AS, got %q", v.Text)
	}
}

func TestAllowNone(t *testing.T) {
	s := streamOf("PRINT")
	opt, err := AllowNone(Keyword("DIM"))(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if opt.Present {
		t.Fatalf("expected absent")
	}
	v, err := AllowNone(Keyword("PRINT"))(s)
	if err != nil || !v.Present {
		t.Fatalf("expected present PRINT, err=%v", err)
	}
}

func TestOrFailConvertsSoftToHard(t *testing.T) {
	s := streamOf("PRINT")
	_, err := OrSyntaxError(Keyword("DIM"), "expected DIM")(s)
	qe, ok := err.(*common.QError)
	if !ok {
		t.Fatalf("expected *QError, got %T", err)
	}
	if qe.Kind != common.ErrSyntax {
		t.Fatalf("expected ErrSyntax, got %v", qe.Kind)
	}
}

func TestZeroOrMore(t *testing.T) {
	s := streamOf("A A A")
	p := ZeroOrMore(Ident())
	vs, err := p(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vs) != 3 {
		t.Fatalf("expected 3 identifiers, got %d", len(vs))
	}
}

func TestDelimitedByRejectsTrailingSeparator(t *testing.T) {
	s := streamOf("A, B,")
	_, err := DelimitedBy(Ident(), Punct(","), common.ErrSyntax, "trailing comma")(s)
	if err == nil {
		t.Fatalf("expected trailing separator to be a hard error")
	}
	if common.IsIncomplete(err) {
		t.Fatalf("trailing separator must be a hard failure, not Incomplete")
	}
}

func TestDelimitedByAllowMissing(t *testing.T) {
	s := streamOf("A,,B")
	vs, err := DelimitedByAllowMissing(Ident(), Punct(","))(s)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vs) != 3 {
		t.Fatalf("expected 3 slots (A, missing, B), got %d", len(vs))
	}
	if !vs[0].Present || vs[1].Present || !vs[2].Present {
		t.Fatalf("expected present/absent/present, got %+v", vs)
	}
}

func TestPeekDoesNotConsume(t *testing.T) {
	s := streamOf("DIM")
	mark := s.Mark()
	v, err := Peek(Keyword("DIM"))(s)
	if err != nil || v.Text != "DIM" {
		t.Fatalf("unexpected peek result: %v %v", v, err)
	}
	if s.Mark() != mark {
		t.Fatalf("Peek must not advance the stream")
	}
}
