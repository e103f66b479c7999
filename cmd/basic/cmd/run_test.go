package cmd

import (
	"bytes"
	"os"
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
)

func TestMain(m *testing.M) {
	v := m.Run()
	snaps.Clean(m)
	os.Exit(v)
}

// runAndCapture runs src through the full pipeline and returns stdout,
// failing the test on any pipeline error.
func runAndCapture(t *testing.T, src string) string {
	t.Helper()
	var out bytes.Buffer
	if err := runFile([]byte(src), "<test>", &out); err != nil {
		t.Fatalf("runFile: %v", err)
	}
	return out.String()
}

func TestRunConcreteScenarios(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{
			name: "arithmetic",
			src:  `PRINT 1 + 2 * 3`,
		},
		{
			name: "for_loop",
			src: "FOR I% = 1 TO 3\nPRINT I%\nNEXT\n",
		},
		{
			name: "array_bounds",
			src:  "DIM A(1 TO 2, 3 TO 4)\nPRINT LBOUND(A, 2); UBOUND(A, 2)\n",
		},
		{
			name: "cvd_round_trip",
			src:  `PRINT CVD(CHR$(0)+CHR$(0)+CHR$(0)+CHR$(0)+CHR$(0)+CHR$(0)+CHR$(0)+CHR$(64))`,
		},
		{
			name: "mkd",
			src:  `PRINT MKD$(2)`,
		},
		{
			name: "on_error_resume_next",
			src: `ON ERROR GOTO Trap
OPEN "nope.txt" FOR INPUT AS #1
PRINT "unreachable"
END
Trap:
PRINT "handled"
RESUME NEXT
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := runAndCapture(t, tt.src)
			snaps.MatchSnapshot(t, got)
		})
	}
}

func TestRunBoundaryBehaviors(t *testing.T) {
	t.Run("for_step_negative_runs_once", func(t *testing.T) {
		got := runAndCapture(t, "FOR I = 1 TO 1 STEP -1\nPRINT I\nNEXT\n")
		snaps.MatchSnapshot(t, got)
	})

	t.Run("integer_negation_promotes_to_long", func(t *testing.T) {
		got := runAndCapture(t, "PRINT -32768%\n")
		snaps.MatchSnapshot(t, got)
	})

	t.Run("string_illegal_char_range", func(t *testing.T) {
		var out bytes.Buffer
		err := runFile([]byte("PRINT STRING$(3, 256)\n"), "<test>", &out)
		if err == nil {
			t.Fatal("expected an IllegalFunctionCall error, got none")
		}
	})

	t.Run("const_dim_duplicate_definition", func(t *testing.T) {
		var out bytes.Buffer
		err := runFile([]byte("CONST X = 1\nDIM X\n"), "<test>", &out)
		if err == nil {
			t.Fatal("expected a DuplicateDefinition error, got none")
		}
	})
}
