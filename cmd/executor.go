package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"appstore/internal/apprepo"
	"appstore/internal/config"
	"appstore/internal/console"
	"appstore/internal/gitrepo"
	"appstore/internal/logger"
	"appstore/internal/paths"
	"appstore/internal/settings"
	"appstore/internal/system"
	"appstore/internal/version"
)

// newManager wires the synchronizer to the real store, go-git and chown.
// Tests replace it.
var newManager = func(conf config.AppConfig) *apprepo.Manager {
	return apprepo.New(
		settings.NewFileStore(paths.GetUserFilePath()),
		paths.GetReposDir(),
		gitrepo.New(),
		system.Owner{UID: conf.Ownership.UID, GID: conf.Ownership.GID},
		conf.SyncTimeout(),
	)
}

// Execute runs a parsed invocation and returns the process exit code.
func Execute(ctx context.Context, inv Invocation) int {
	switch {
	case inv.Debug:
		logger.SetLevel(logger.LevelDebug)
	case inv.Verbose:
		logger.SetLevel(logger.LevelInfo)
	}

	if inv.Help {
		PrintHelp(inv.Command)
		return 0
	}

	conf := config.LoadAppConfig()
	if conf.Log.File != "" {
		slog.SetDefault(logger.NewLogger(logger.Options{FilePath: conf.Log.File}))
	}

	root := conf.RootDir
	if inv.Root != "" {
		root = config.ExpandVariables(inv.Root)
	}
	paths.SetRootDir(root)
	logger.Debug(ctx, "Platform root: '{{_Folder_}}%s{{|-|}}'", paths.GetRootDir())

	m := newManager(conf)

	if inv.Version {
		handleVersion(m)
		if inv.Command == "" {
			return 0
		}
	}

	logger.Info(ctx, "%s command: '{{_UserCommand_}}%s{{|-|}}'", version.ApplicationName, strings.Join(append([]string{version.CommandName}, inv.raw...), " "))

	if err := Run(ctx, m, inv); err != nil {
		Report(ctx, err)
		return 1
	}
	return 0
}

// Run dispatches the command of inv to m.
func Run(ctx context.Context, m *apprepo.Manager, inv Invocation) error {
	switch inv.Command {
	case "id":
		console.Println(m.ID())
	case "path":
		console.Println(m.ActivePath())
	case "default-repo":
		console.Println(apprepo.DefaultURL)
	case "set":
		return handleSet(ctx, m, inv.Args[0])
	case "update":
		return m.Update(ctx)
	case "branch":
		return m.Branch(ctx, inv.Args[0])
	case "checkout":
		return m.Checkout(ctx, inv.Args[0])
	case "apps":
		return handleApps(m)
	default:
		return &UsageError{Args: inv.raw, Index: len(inv.raw) - len(inv.Args) - 1, Message: "Unknown command %o"}
	}
	return nil
}

// Report logs err for the user. Usage errors also show the usage text.
func Report(ctx context.Context, err error) {
	var usageErr *UsageError
	if errors.As(err, &usageErr) {
		logger.Error(ctx, usageErr.Render())
		return
	}
	msg := err.Error()
	switch {
	case errors.Is(err, apprepo.ErrNoMirror):
		msg += fmt.Sprintf("\nRun '{{_UserCommand_}}%s update{{|-|}}' first.", version.CommandName)
	case errors.Is(err, apprepo.ErrTimeout):
		msg += "\nThe remote did not answer in time. Run the command again to retry."
	}
	logger.Error(ctx, msg)
}

func handleSet(ctx context.Context, m *apprepo.Manager, url string) error {
	if err := m.Set(url); err != nil {
		return err
	}
	logger.Info(ctx, "Active app repository set to '{{_Url_}}%s{{|-|}}'", url)
	return nil
}

func handleApps(m *apprepo.Manager) error {
	apps, err := m.Apps()
	if err != nil {
		return err
	}
	for _, app := range apps {
		console.Println(fmt.Sprintf("%s\t%s\t%s", app.ID, app.Version, app.Name))
	}
	return nil
}

func handleVersion(m *apprepo.Manager) {
	console.Println(fmt.Sprintf("{{_ApplicationName_}}%s{{|-|}} [{{_Version_}}%s{{|-|}}]", version.ApplicationName, version.Version))

	mirrorVersion := "Not cloned"
	if path := m.ActivePath(); paths.Exists(path) {
		mirrorVersion = paths.GetMirrorVersion(path)
	}
	console.Println(fmt.Sprintf("{{_Url_}}%s{{|-|}} [{{_Version_}}%s{{|-|}}]", m.ActiveURL(), mirrorVersion))
}
