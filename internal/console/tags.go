package console

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"
)

var (
	// semanticRegex matches {{_content_}} format for semantic tags
	semanticRegex = regexp.MustCompile(`\{\{_([A-Za-z0-9_]+)_\}\}`)

	// directRegex matches {{|content|}} format for direct style codes
	directRegex = regexp.MustCompile(`\{\{\|([A-Za-z0-9_:\-#]+)\|\}\}`)

	// ansiRegex matches CSI escape sequences
	ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[A-Za-z]`)
)

// ExpandTags converts semantic tags to their {{|style|}} definitions.
// Unknown semantic tags are dropped.
func ExpandTags(text string) string {
	return semanticRegex.ReplaceAllStringFunc(text, func(match string) string {
		content := strings.ToLower(match[3 : len(match)-3])
		return semanticTags[content]
	})
}

// ToANSI converts semantic and direct tags to ANSI escape sequences.
// When colour is disabled every tag is stripped instead.
func ToANSI(text string) string {
	if !colorEnabled() {
		return Strip(text)
	}
	text = ExpandTags(text)
	return directRegex.ReplaceAllStringFunc(text, func(match string) string {
		content := strings.ToLower(match[3 : len(match)-3])
		var b strings.Builder
		for _, part := range strings.Split(content, ":") {
			b.WriteString(directCodes[part])
		}
		return b.String()
	})
}

// Parse is the entry point used by the logger for message markup.
func Parse(text string) string {
	return ToANSI(text)
}

// Strip removes all semantic and direct tags from text, as well as ANSI escape sequences
func Strip(text string) string {
	text = semanticRegex.ReplaceAllString(text, "")
	text = directRegex.ReplaceAllString(text, "")
	return ansiRegex.ReplaceAllString(text, "")
}

// Sprintf formats according to a format specifier and returns the string with ANSI codes
func Sprintf(format string, a ...any) string {
	return ToANSI(fmt.Sprintf(format, a...))
}

// Output is where Println writes command results. Tests may replace it.
var Output io.Writer = os.Stdout

// Println prints a line of command output with tags parsed.
func Println(a ...any) {
	fmt.Fprintln(Output, ToANSI(fmt.Sprint(a...)))
}
