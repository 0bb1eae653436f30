package console

// Raw ANSI Color Codes
const (
	CodeReset = "\033[0m"

	CodeBold      = "\033[1m"
	CodeDim       = "\033[2m"
	CodeUnderline = "\033[4m"

	CodeRed     = "\033[31m"
	CodeGreen   = "\033[32m"
	CodeYellow  = "\033[33m"
	CodeBlue    = "\033[34m"
	CodeMagenta = "\033[35m"
	CodeCyan    = "\033[36m"
	CodeWhite   = "\033[37m"

	CodeRedBg = "\033[41m"
)

// directCodes maps {{|name|}} style names to ANSI codes.
var directCodes = map[string]string{
	"-":         CodeReset,
	"reset":     CodeReset,
	"bold":      CodeBold,
	"dim":       CodeDim,
	"underline": CodeUnderline,
	"red":       CodeRed,
	"green":     CodeGreen,
	"yellow":    CodeYellow,
	"blue":      CodeBlue,
	"magenta":   CodeMagenta,
	"cyan":      CodeCyan,
	"white":     CodeWhite,
}

// semanticTags maps lower-cased {{_Name_}} tags to direct styles.
var semanticTags = map[string]string{
	"applicationname":        "{{|cyan|}}{{|bold|}}",
	"version":                "{{|cyan|}}",
	"branch":                 "{{|cyan|}}",
	"url":                    "{{|cyan|}}{{|underline|}}",
	"folder":                 "{{|cyan|}}",
	"file":                   "{{|cyan|}}",
	"user":                   "{{|cyan|}}",
	"usercommand":            "{{|yellow|}}",
	"usercommanderror":       "{{|red|}}{{|underline|}}",
	"usercommanderrormarker": "{{|red|}}",
	"runningcommand":         "{{|green|}}{{|bold|}}",
	"failingcommand":         "{{|red|}}",
	"fatalfooter":            "{{|magenta|}}",
	"helpcommand":            "{{|yellow|}}",
	"helpoption":             "{{|green|}}",
	"helpsection":            "{{|bold|}}",
}
