package cli

import (
	"context"
	"io"

	"github.com/FishingHacks/redstart/internal/app"
	"github.com/spf13/cobra"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// globalFlags are shared by every command.
type globalFlags struct {
	logLevel  string
	logFormat string
}

// config validates the flags into an app configuration. Invalid values are
// usage errors.
func (g *globalFlags) config(cfg app.Config) (*app.Config, error) {
	cfg.LogLevel = g.logLevel
	cfg.LogFormat = g.logFormat
	out, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &ExitError{Code: 2, Message: err.Error()}
	}
	return out, nil
}

// Execute runs the command line args against a fresh root command. Module
// and command output goes to outW, logs and help for errors go to errW.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, version string) error {
	root := NewRootCommand(outW, errW, version)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

// NewRootCommand builds the redstart command tree.
func NewRootCommand(outW, errW io.Writer, version string) *cobra.Command {
	flags := &globalFlags{}
	var (
		profile    bool
		profileDir string
	)

	rootCmd := &cobra.Command{
		Use:   "redstart [path] [job]",
		Short: "redstart - run the jobs of a .rsproj project",
		Long: `redstart runs build and setup jobs described in a .rsproj project file.

The path may be a project file or a directory holding exactly one project
file; it defaults to the current directory. The job may be omitted when the
project defines only one.`,
		Example: `  # Run the only job of the project in the current directory
  redstart

  # Run the build job of a specific project
  redstart ./app.rsproj build

  # Write a profiling report next to the current directory
  redstart --profile . build`,
		Version:       version,
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := app.Config{Profile: profile, ProfileDir: profileDir}
			if len(args) > 0 {
				cfg.ProjectPath = args[0]
			}
			if len(args) > 1 {
				cfg.Job = args[1]
			}

			appCfg, err := flags.config(cfg)
			if err != nil {
				return err
			}
			return app.NewApp(outW, errW, appCfg).Run(cmd.Context())
		},
	}

	rootCmd.SetOut(outW)
	rootCmd.SetErr(errW)
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "info", "logging level: debug, info, warn or error")
	rootCmd.PersistentFlags().StringVar(&flags.logFormat, "log-format", "text", "log output format: text or json")
	rootCmd.Flags().BoolVar(&profile, "profile", false, "write a JSON timing report")
	rootCmd.Flags().StringVar(&profileDir, "profile-dir", "", "directory for the timing report (default: current directory)")

	rootCmd.AddCommand(newModulesCommand(flags, outW, errW))
	rootCmd.AddCommand(newUsageCommand(flags, outW, errW))
	rootCmd.AddCommand(newInspectCommand(flags, outW, errW))

	return rootCmd
}

func newModulesCommand(flags *globalFlags, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "modules",
		Short: "List the available modules",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(app.Config{})
			if err != nil {
				return err
			}
			return app.NewApp(outW, errW, cfg).ListModules(outW)
		},
	}
}

func newUsageCommand(flags *globalFlags, outW, errW io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:     "usage <module>",
		Short:   "Show the options of a module",
		Example: `  redstart usage @git/gitignore`,
		Args:    exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(app.Config{})
			if err != nil {
				return err
			}
			return app.NewApp(outW, errW, cfg).Usage(outW, args[0])
		},
	}
}

func newInspectCommand(flags *globalFlags, outW, errW io.Writer) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "inspect [path]",
		Short: "Print the parsed project",
		Long: `Parse a project file and print the result with every "use" expanded
and every step's working directory resolved.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.config(app.Config{})
			if err != nil {
				return err
			}
			path := ""
			if len(args) > 0 {
				path = args[0]
			}
			return app.NewApp(outW, errW, cfg).Inspect(cmd.Context(), outW, path, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "output format: yaml or json")
	return cmd
}

// exactArgs is cobra.ExactArgs with a usage exit code.
func exactArgs(n int) cobra.PositionalArgs {
	check := cobra.ExactArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &ExitError{Code: 2, Message: err.Error()}
		}
		return nil
	}
}
