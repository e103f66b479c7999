package platform

import (
	"fmt"
	"io"
)

// ansiScreen drives a real terminal with ANSI escape sequences.
type ansiScreen struct {
	out io.Writer
}

func (s *ansiScreen) Write(p []byte) (int, error) { return s.out.Write(p) }

func (s *ansiScreen) Cls() {
	fmt.Fprint(s.out, "\x1b[2J\x1b[H")
}

func (s *ansiScreen) Locate(row, col int) {
	// LOCATE is 1-based, matching CSI's own 1-based row/column addressing.
	fmt.Fprintf(s.out, "\x1b[%d;%dH", row, col)
}

func (s *ansiScreen) Color(fg, bg Color) {
	fmt.Fprintf(s.out, "\x1b[%d;%dm", ansiForeground(fg), ansiBackground(bg))
}

func (s *ansiScreen) Beep() {
	io.WriteString(s.out, "\a")
}

// cgaToAnsi maps QBasic's 16 CGA attribute indices to the nearest ANSI
// SGR base code (30-37 normal intensity, 90-97 bright); add 10 for a
// background code.
var cgaToAnsi = [16]int{
	0: 30, 1: 34, 2: 32, 3: 36, 4: 31, 5: 35, 6: 33, 7: 37,
	8: 90, 9: 94, 10: 92, 11: 96, 12: 91, 13: 95, 14: 93, 15: 97,
}

func ansiForeground(c Color) int {
	if c < 0 || int(c) >= len(cgaToAnsi) {
		return 39 // default foreground
	}
	return cgaToAnsi[c]
}

func ansiBackground(c Color) int {
	if c < 0 || int(c) >= len(cgaToAnsi) {
		return 49 // default background
	}
	return cgaToAnsi[c] + 10
}
