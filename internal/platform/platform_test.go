package platform

import (
	"bytes"
	"strings"
	"testing"
)

func TestNewScreenPicksHeadlessForNonTerminal(t *testing.T) {
	var buf bytes.Buffer
	scr := NewScreen(&buf)
	if _, ok := scr.(*headlessScreen); !ok {
		t.Fatalf("got %T, want *headlessScreen", scr)
	}
}

func TestHeadlessScreenDiscardsPositioning(t *testing.T) {
	var buf bytes.Buffer
	scr := NewScreen(&buf)
	scr.Cls()
	scr.Locate(5, 10)
	scr.Color(14, 1)
	if buf.Len() != 0 {
		t.Fatalf("headless screen wrote %q, want nothing", buf.String())
	}
	scr.Beep()
	if buf.String() != "\a" {
		t.Fatalf("Beep() wrote %q, want bell", buf.String())
	}
}

func TestAnsiScreenEmitsEscapeSequences(t *testing.T) {
	var buf bytes.Buffer
	scr := &ansiScreen{out: &buf}
	scr.Cls()
	scr.Locate(3, 4)
	scr.Color(14, 1)
	got := buf.String()
	for _, want := range []string{"\x1b[2J", "\x1b[3;4H", "\x1b[93;44m"} {
		if !strings.Contains(got, want) {
			t.Errorf("output %q missing %q", got, want)
		}
	}
}
