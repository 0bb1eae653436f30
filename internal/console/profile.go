package console

import (
	"os"
	"strings"

	"github.com/muesli/termenv"
	"golang.org/x/term"
)

// terminal is the colour state of standard output, decided once at startup.
var terminal = struct {
	tty     bool
	profile termenv.Profile
}{
	tty:     IsTTY(os.Stdout),
	profile: detectProfile(os.Getenv),
}

// GetPreferredProfile returns the colour profile in use.
func GetPreferredProfile() termenv.Profile {
	return terminal.profile
}

// SetPreferredProfile forces a colour profile.
func SetPreferredProfile(p termenv.Profile) {
	terminal.profile = p
}

// SetTTY forces the TTY state of standard output and returns the previous one.
func SetTTY(isTTY bool) bool {
	old := terminal.tty
	terminal.tty = isTTY
	return old
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

func colorEnabled() bool {
	return terminal.tty && terminal.profile != termenv.Ascii
}

// detectProfile picks a profile from NO_COLOR, then COLORTERM, then TERM,
// and finally asks termenv.
func detectProfile(getenv func(string) string) termenv.Profile {
	if getenv("NO_COLOR") != "" {
		return termenv.Ascii
	}

	switch strings.ToLower(getenv("COLORTERM")) {
	case "truecolor", "24bit":
		return termenv.TrueColor
	case "256color", "8bit":
		return termenv.ANSI256
	case "16color", "8color", "4bit", "3bit":
		return termenv.ANSI
	case "mono", "1bit", "2color", "false", "0":
		return termenv.Ascii
	}

	switch t := strings.ToLower(getenv("TERM")); {
	case t == "dumb":
		return termenv.Ascii
	case strings.Contains(t, "direct"):
		return termenv.TrueColor
	case strings.Contains(t, "256color"):
		return termenv.ANSI256
	}
	return termenv.EnvColorProfile()
}
