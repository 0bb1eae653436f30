package cmd

import (
	"fmt"
	"strings"

	"appstore/internal/console"
	"appstore/internal/version"
)

// commandSpec describes one command of the dispatcher.
type commandSpec struct {
	Name    string
	Params  []string
	Summary []string
}

var commandSpecs = []commandSpec{
	{Name: "id", Summary: []string{"Print the identifier of the active catalog."}},
	{Name: "path", Summary: []string{"Print the directory of the active catalog's local mirror."}},
	{Name: "set", Params: []string{"url"}, Summary: []string{
		"Make {{_HelpOption_}}<url>{{|-|}} the active catalog. Nothing is downloaded.",
	}},
	{Name: "update", Summary: []string{
		"Clone the active catalog, or pull it when a mirror already exists.",
		"A corrupt mirror is removed and cloned again.",
	}},
	{Name: "branch", Params: []string{"name"}, Summary: []string{
		"Switch the existing mirror to branch {{_HelpOption_}}<name>{{|-|}} and update it.",
	}},
	{Name: "checkout", Params: []string{"descriptor"}, Summary: []string{
		"Set, update and optionally switch branch in one step.",
		"{{_HelpOption_}}<descriptor>{{|-|}} is '{{_HelpOption_}}owner/repo[#branch]{{|-|}}' on GitHub or a full git URL with an optional '{{_HelpOption_}}#branch{{|-|}}'.",
	}},
	{Name: "default-repo", Summary: []string{"Print the catalog used when none has been set."}},
	{Name: "apps", Summary: []string{"List the apps in the local mirror as '{{_HelpOption_}}id<TAB>version<TAB>name{{|-|}}'."}},
}

func lookupCommand(name string) (commandSpec, bool) {
	for _, spec := range commandSpecs {
		if spec.Name == name {
			return spec, true
		}
	}
	return commandSpec{}, false
}

// PrintHelp prints usage information to the standard stream.
// An empty target prints the full usage.
func PrintHelp(target string) {
	console.Println(strings.TrimRight(GetUsage(target), "\n"))
}

// GetUsage returns usage information as tagged text.
// If target is empty, returns global usage.
// If target names a command, returns the usage of that command only.
func GetUsage(target string) string {
	var sb strings.Builder
	printStr := func(s string) {
		sb.WriteString(s + "\n")
	}

	appCmd := version.CommandName

	if target == "" {
		printStr(fmt.Sprintf("Usage: {{_HelpCommand_}}%s{{|-|}} [{{_HelpCommand_}}<Flags>{{|-|}}] {{_HelpCommand_}}<Command>{{|-|}} [{{_HelpOption_}}<Argument>{{|-|}}]", appCmd))
		printStr("")
		printStr(fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} [{{_Version_}}%s{{|-|}}]", version.ApplicationName, version.Version))
		printStr("Manages the local mirror of the app catalog.")
		printStr("")
		printStr("{{_HelpSection_}}Flags:{{|-|}}")
		printStr("")
		printStr("{{_HelpCommand_}}-v --verbose{{|-|}}")
		printStr("	Verbose")
		printStr("{{_HelpCommand_}}-x --debug{{|-|}}")
		printStr("	Debug")
		printStr("{{_HelpCommand_}}--root{{|-|}} {{_HelpOption_}}<dir>{{|-|}}")
		printStr("	Use {{_HelpOption_}}<dir>{{|-|}} as the platform root for this run")
		printStr("{{_HelpCommand_}}-V --version{{|-|}}")
		printStr("	Show version information")
		printStr("{{_HelpCommand_}}-h --help{{|-|}} [{{_HelpCommand_}}<Command>{{|-|}}]")
		printStr("	Show this usage information, or the usage of one command")
		printStr("")
		printStr("{{_HelpSection_}}Commands:{{|-|}}")
		printStr("")
	}

	for _, spec := range commandSpecs {
		if target != "" && target != spec.Name {
			continue
		}
		line := "{{_HelpCommand_}}" + spec.Name + "{{|-|}}"
		for _, p := range spec.Params {
			line += " {{_HelpOption_}}<" + p + ">{{|-|}}"
		}
		printStr(line)
		for _, s := range spec.Summary {
			printStr("	" + s)
		}
	}

	return sb.String()
}
