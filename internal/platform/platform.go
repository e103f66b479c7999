// Package platform abstracts the terminal surface a running program
// writes to: clearing the screen, moving the cursor, setting colors, and
// ringing the bell. Two backends sit behind one interface, split on
// "interactive vs headless" rather than by OS or build target, since
// this toolchain only ever runs against a real terminal or redirected
// output.
package platform

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// Color is one of QBasic's 16 CGA text-mode colors, as a SCREEN 0
// attribute index (0-15 for foreground, 0-7 for background).
type Color int

// Screen is the terminal surface CLS/COLOR/LOCATE/BEEP act on. A headless
// backend discards the positioning/color calls (there is no terminal to
// move a cursor on); the ansi backend emits the corresponding escape
// sequences.
type Screen interface {
	io.Writer
	Cls()
	Locate(row, col int)
	Color(fg, bg Color)
	Beep()
}

// NewScreen picks a backend for out: ansi when out is a terminal, per
// isatty, headless otherwise (redirected to a file, a pipe, or a
// snapshot test's buffer).
func NewScreen(out io.Writer) Screen {
	if f, ok := out.(*os.File); ok && isatty.IsTerminal(f.Fd()) {
		return &ansiScreen{out: out}
	}
	return &headlessScreen{out: out}
}
