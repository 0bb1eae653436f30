package cmd

import (
	"fmt"
	"io"
	"strings"

	"appstore/internal/apprepo"
	"appstore/internal/version"

	"github.com/spf13/pflag"
)

// Invocation is one parsed command line: modifiers plus a single command.
type Invocation struct {
	Verbose bool
	Debug   bool
	Help    bool
	Version bool
	// Root overrides the configured platform root for this run.
	Root string

	Command string
	Args    []string

	// raw is the argument list as given, kept for error rendering.
	raw []string
}

// UsageError reports a malformed command line. It matches apprepo.ErrInvalidArgument.
type UsageError struct {
	Args    []string // The full argument list passed to Parse
	Index   int      // The index of the offending argument
	Message string   // May contain %c (command) and %o (offending argument)
	Command string   // The command being processed, if known
}

func (e *UsageError) Error() string {
	return e.message()
}

func (e *UsageError) Is(target error) bool {
	return target == apprepo.ErrInvalidArgument
}

func (e *UsageError) message() string {
	offending := ""
	if e.Index >= 0 && e.Index < len(e.Args) {
		offending = e.Args[e.Index]
	}
	return strings.NewReplacer(
		"%c", fmt.Sprintf("'{{_UserCommand_}}%s{{|-|}}'", e.Command),
		"%o", fmt.Sprintf("'{{_UserCommand_}}%s{{|-|}}'", offending),
	).Replace(e.Message)
}

// Render returns the message with the command line, a caret under the
// offending argument, and the usage of the command involved.
func (e *UsageError) Render() string {
	const indent = "   "

	parts := []string{fmt.Sprintf("{{_UserCommand_}}%s{{|-|}}", version.CommandName)}
	caret := len(indent) + 1 + len(version.CommandName) + 1
	for i, arg := range e.Args {
		if i > e.Index {
			break
		}
		if i == e.Index {
			parts = append(parts, fmt.Sprintf("{{_UserCommandError_}}%s{{|-|}}", arg))
			continue
		}
		parts = append(parts, fmt.Sprintf("{{_UserCommand_}}%s{{|-|}}", arg))
		caret += len(arg) + 1
	}
	if e.Index >= len(e.Args) {
		// Missing argument: point just past the end.
		caret--
	}

	var sb strings.Builder
	sb.WriteString("Error in command line:\n\n")
	fmt.Fprintf(&sb, "%s'%s'\n", indent, strings.Join(parts, " "))
	fmt.Fprintf(&sb, "%s{{_UserCommandErrorMarker_}}^{{|-|}}\n\n", strings.Repeat(" ", caret))
	fmt.Fprintf(&sb, "%s%s\n", indent, e.message())

	// Without a known command the full usage is shown.
	fmt.Fprintf(&sb, "\n%sUsage is:\n", indent)
	for _, line := range strings.Split(strings.TrimRight(GetUsage(e.Command), "\n"), "\n") {
		fmt.Fprintf(&sb, "%s%s\n", indent, line)
	}
	return sb.String()
}

// newFlagSet defines the modifiers accepted before a command.
func newFlagSet(inv *Invocation) *pflag.FlagSet {
	fs := pflag.NewFlagSet(version.CommandName, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.Usage = func() {}
	// Everything after the command belongs to it.
	fs.SetInterspersed(false)

	fs.BoolVarP(&inv.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVarP(&inv.Debug, "debug", "x", false, "Debug output")
	fs.BoolVarP(&inv.Help, "help", "h", false, "Show usage, optionally for one command")
	fs.BoolVarP(&inv.Version, "version", "V", false, "Show version information")
	fs.StringVar(&inv.Root, "root", "", "Platform root directory")
	return fs
}

// Parse validates args and returns the invocation. Argument counts and
// empty values are checked here so that no command starts on a malformed
// command line.
func Parse(args []string) (Invocation, error) {
	inv := Invocation{raw: args}
	fs := newFlagSet(&inv)

	if err := fs.Parse(args); err != nil {
		return inv, &UsageError{Args: args, Index: flagErrorIndex(args, err), Message: capitalize(err.Error())}
	}
	if fs.Changed("root") && strings.TrimSpace(inv.Root) == "" {
		return inv, &UsageError{Args: args, Index: indexOf(args, "--root"), Message: "Modifier '{{_UserCommand_}}--root{{|-|}}' requires a directory."}
	}

	rest := fs.Args()
	cmdIndex := len(args) - len(rest)

	if inv.Help {
		// -h may name the command to describe.
		if len(rest) > 0 {
			inv.Command = rest[0]
			if _, ok := lookupCommand(inv.Command); !ok {
				return inv, &UsageError{Args: args, Index: cmdIndex, Message: "Unknown command %o"}
			}
		}
		return inv, nil
	}

	if len(rest) == 0 {
		if inv.Version {
			return inv, nil
		}
		return inv, &UsageError{Args: args, Index: len(args), Message: "No command given."}
	}

	inv.Command = rest[0]
	inv.Args = rest[1:]

	spec, ok := lookupCommand(inv.Command)
	if !ok {
		return inv, &UsageError{Args: args, Index: cmdIndex, Message: "Unknown command %o"}
	}

	switch {
	case len(inv.Args) < len(spec.Params):
		return inv, &UsageError{
			Args: args, Index: cmdIndex, Command: spec.Name,
			Message: fmt.Sprintf("Command %%c requires an argument {{_HelpOption_}}<%s>{{|-|}}.", spec.Params[len(inv.Args)]),
		}
	case len(inv.Args) > len(spec.Params):
		return inv, &UsageError{
			Args: args, Index: cmdIndex + 1 + len(spec.Params), Command: spec.Name,
			Message: "Unexpected argument %o",
		}
	}

	for i, arg := range inv.Args {
		if strings.TrimSpace(arg) == "" {
			return inv, &UsageError{
				Args: args, Index: cmdIndex + 1 + i, Command: spec.Name,
				Message: fmt.Sprintf("Command %%c requires a non-empty {{_HelpOption_}}<%s>{{|-|}}.", spec.Params[i]),
			}
		}
	}
	return inv, nil
}

// flagErrorIndex finds the argument pflag rejected.
func flagErrorIndex(args []string, err error) int {
	msg := err.Error()
	for i, arg := range args {
		if arg == "--" || !strings.HasPrefix(arg, "-") {
			break
		}
		name, _, _ := strings.Cut(arg, "=")
		if strings.HasSuffix(msg, name) {
			return i
		}
	}
	return 0
}

func indexOf(args []string, want string) int {
	for i, arg := range args {
		if arg == want || strings.HasPrefix(arg, want+"=") {
			return i
		}
	}
	return 0
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
