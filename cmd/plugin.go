package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/relloyd/stagecopy/actions"
	"github.com/relloyd/stagecopy/config"
	"github.com/relloyd/stagecopy/constants"
	"github.com/relloyd/stagecopy/helper"
	"github.com/relloyd/stagecopy/logger"
)

// loadProjectFile reads the project file named by the flag value, falling back to env var SC_PROJECT_FILE.
// Dataset connections are loaded from the connections config, or the environment in 12factor mode.
func loadProjectFile(fileName string) (*config.ProjectFile, error) {
	if fileName == "" {
		fileName = os.Getenv(constants.EnvVarProjectFile)
	}
	if fileName == "" {
		return nil, helper.NewValidationError("please supply a project file using flag --project-file or environment variable %v",
			constants.EnvVarProjectFile)
	}
	return config.ReadProjectFile(fileName, getConnectionLoader())
}

// newPluginDependencies wires the project file and connections into the collaborators used by actions.
func newPluginDependencies(log logger.Logger, project *config.ProjectFile) actions.PluginDependencies {
	return actions.PluginDependencies{
		Log:      log,
		Datasets: project,
		Sql:      actions.NewSqlExecutor(log, getConnectionLoader(), project),
	}
}

// contextWithInterrupt returns a context that is cancelled on SIGINT or SIGTERM.
func contextWithInterrupt(log logger.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-c:
			log.Warn("interrupted, cancelling...")
			cancel()
		case <-ctx.Done():
		}
		signal.Stop(c)
	}()
	return ctx, cancel
}

// isInteractive returns true if STDOUT is a terminal.
func isInteractive() bool {
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
