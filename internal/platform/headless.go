package platform

import "io"

// headlessScreen is the non-interactive backend: output redirected to a
// file, a pipe, or captured by a test. Cls/Locate/Color are no-ops since
// there is no terminal to act on; Beep still writes the bell character,
// matching a real terminal emulator that happens to not be attached.
type headlessScreen struct {
	out io.Writer
}

func (s *headlessScreen) Write(p []byte) (int, error) { return s.out.Write(p) }
func (s *headlessScreen) Cls()                        {}
func (s *headlessScreen) Locate(row, col int)         {}
func (s *headlessScreen) Color(fg, bg Color)          {}
func (s *headlessScreen) Beep()                       { io.WriteString(s.out, "\a") }
