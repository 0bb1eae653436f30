package testutils

import (
	"strings"
	"testing"
	"text/tabwriter"
)

// TestCase represents a single unit test scenario.
type TestCase struct {
	Input    string
	Expected string
	Actual   string
	Pass     bool
}

// PrintTestTable logs a table of input, expected and returned values.
// Failing rows are marked with '>' and '<'. It fails the test if any case has Pass=false.
func PrintTestTable(t *testing.T, cases []TestCase) {
	t.Helper()

	var sb strings.Builder
	w := tabwriter.NewWriter(&sb, 0, 0, 3, ' ', 0)
	_, _ = w.Write([]byte("  Input\tExpected Value\tReturned Value\t\n"))

	anyFailed := false
	for _, tc := range cases {
		left, right := " ", " "
		if !tc.Pass {
			anyFailed = true
			left, right = ">", "<"
		}
		_, _ = w.Write([]byte(left + " " + tc.Input + "\t" + tc.Expected + "\t" + tc.Actual + "\t" + right + "\n"))
	}
	_ = w.Flush()

	if anyFailed {
		t.Errorf("\n%s", sb.String())
		return
	}
	t.Logf("\n%s", sb.String())
}
