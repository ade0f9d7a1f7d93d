// Package cli contains the command line interface, each command runs an operation from "pkg/lib/operation".
package cli

import (
	"context"
	"io"
	"os"
	"regexp"

	"github.com/spf13/cobra"

	"github.com/datasheet-tools/settings-generator/internal/pkg/dependencies"
	"github.com/datasheet-tools/settings-generator/internal/pkg/env"
	"github.com/datasheet-tools/settings-generator/internal/pkg/filesystem"
	"github.com/datasheet-tools/settings-generator/internal/pkg/log"
	"github.com/datasheet-tools/settings-generator/internal/pkg/options"
	"github.com/datasheet-tools/settings-generator/internal/pkg/utils/errors"
	"github.com/datasheet-tools/settings-generator/internal/pkg/version"
)

const binaryName = "settings-generator"

const description = `
Settings Generator

Generates settings and translation files
from APITable datasheets.

Start by writing a configuration file with outputs
and run the "generate" sub-command.
`

const usageTemplate = `Usage:{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{else if .Runnable}}
  {{.UseLine}}{{end}}{{if gt (len .Aliases) 0}}

Aliases:`

// FsFactory creates the filesystem for the working directory.
type FsFactory func(logger log.Logger, workingDir string) (filesystem.Fs, error)

type RootCommand struct {
	cmd         *cobra.Command
	fsFactory   FsFactory
	envs        *env.Map         // ENVs from OS
	options     *options.Options // parsed flags and env variables
	depsOpts    []dependencies.Option
	deps        dependencies.Container
	logger      log.Logger
	logFile     *log.File
	initialized bool
}

// NewRootCommand creates parent of all sub-commands.
func NewRootCommand(stdin io.Reader, stdout io.Writer, stderr io.Writer, envs *env.Map, fsFactory FsFactory, depsOpts ...dependencies.Option) *RootCommand {
	root := &RootCommand{
		fsFactory: fsFactory,
		envs:      envs,
		options:   options.New(),
		depsOpts:  depsOpts,
	}

	root.cmd = &cobra.Command{
		Use:           binaryName,
		Version:       version.Version(),
		Short:         description,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Print help if no command specified
			return cmd.Help()
		},
	}

	root.cmd.SetIn(stdin)
	root.cmd.SetOut(stdout)
	root.cmd.SetErr(stderr)

	root.cmd.SetVersionTemplate("{{.Version}}")
	root.cmd.SetUsageTemplate(
		regexp.MustCompile(`Usage:(.|\n)*Aliases:`).ReplaceAllString(root.cmd.UsageTemplate(), usageTemplate),
	)

	// Persistent flags for all sub-commands
	root.options.BindPersistentFlags(root.cmd.PersistentFlags())

	// Root command flags
	root.cmd.Flags().SortFlags = true
	root.cmd.Flags().BoolP("version", "V", false, "print version")

	// Init when flags are parsed
	root.cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		return root.init(cmd)
	}

	root.cmd.AddCommand(
		generateCommand(root),
		validateCommand(root),
	)

	return root
}

// Execute command or sub-command, the exit code is returned.
func (root *RootCommand) Execute(ctx context.Context) (exitCode int) {
	err := root.cmd.ExecuteContext(ctx)
	if err != nil {
		// Init, it can be uninitialized, if error occurred before PersistentPreRun call
		_ = root.init(root.cmd)
		root.logger.Error(ctx, errors.Format(err))
		exitCode = 1
	}

	root.tearDown(ctx, err != nil)
	return exitCode
}

// SetArgs overrides os.Args, for tests.
func (root *RootCommand) SetArgs(args []string) {
	root.cmd.SetArgs(args)
}

// Dependencies returns the container, it is available after flags are parsed.
func (root *RootCommand) Dependencies() dependencies.Container {
	return root.deps
}

// init sets logger, filesystem and options after flags are parsed.
func (root *RootCommand) init(cmd *cobra.Command) error {
	if root.initialized {
		return nil
	}
	root.initialized = true

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Logger must always be set up, even if an error occurs
	defer func() {
		if root.logger == nil {
			root.setupLogger(ctx)
		}
	}()

	// Load values from flags and ENVs, the ".env" files are searched in the working directory
	workingDir, _ := cmd.Flags().GetString(options.WorkingDirOpt)
	tmpFs, err := root.fsFactory(log.NewNopLogger(), workingDir)
	if err != nil {
		return err
	}
	if err := root.options.Load(ctx, log.NewNopLogger(), root.envs, tmpFs, cmd.Flags()); err != nil {
		return err
	}

	root.setupLogger(ctx)
	root.logDebugInfo(ctx)

	// Filesystem with the logger
	fs, err := root.fsFactory(root.logger, workingDir)
	if err != nil {
		return err
	}

	root.deps = dependencies.NewContainer(root.logger, root.envs, fs, root.options, root.depsOpts...)
	return nil
}

// setupLogger according to the options.
func (root *RootCommand) setupLogger(ctx context.Context) {
	logFile, logFileErr := log.NewLogFile(root.options.GetString(options.LogFileOpt))
	if logFileErr == nil {
		root.logFile = logFile
	}

	root.logger = log.NewCliLogger(root.cmd.OutOrStdout(), root.cmd.ErrOrStderr(), root.logFile, root.options.GetBool(options.VerboseOpt))
	root.cmd.SetOut(root.logger.InfoWriter())
	root.cmd.SetErr(root.logger.WarnWriter())

	// Warn if the log file cannot be opened
	if logFileErr != nil {
		root.logger.Warnf(ctx, "Cannot open log file: %s", logFileErr)
	}
}

func (root *RootCommand) logDebugInfo(ctx context.Context) {
	root.logger.DebugWriter().WriteString(root.cmd.Version)
	root.logger.Debugf(ctx, "Running command %v", os.Args)
	root.logger.Debug(ctx, root.options.Dump())
	if root.logFile != nil {
		root.logger.Debugf(ctx, `Log file "%s".`, root.logFile.Path())
	}
}

// tearDown closes the log file, a temporary log file is kept only if an error occurred.
func (root *RootCommand) tearDown(ctx context.Context, errorOccurred bool) {
	if root.logger == nil {
		return
	}
	_ = root.logger.Sync()
	if root.logFile == nil {
		return
	}
	if errorOccurred {
		root.logger.Infof(ctx, `Details can be found in the log file "%s".`, root.logFile.Path())
	}
	root.logFile.TearDown(errorOccurred)
}
