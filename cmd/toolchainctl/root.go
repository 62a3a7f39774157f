package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"toolchain_config/internal/app/bootstrap"
	"toolchain_config/internal/config"
	"toolchain_config/internal/pkg/logger"
)

// Version information - set via ldflags during build
var (
	Version = "dev"
	Commit  = "unknown"
)

// Global flag variables
var (
	settingsFile string
	dotenvPath   string
	logLevel     string
	verbose      bool
)

var (
	rootCmd    *cobra.Command
	versionCmd *cobra.Command

	// settings is resolved in PersistentPreRunE before any subcommand runs.
	settings *config.Settings
	flushLog = func() {}
)

var (
	colorOK   = color.New(color.FgGreen).SprintFunc()
	colorWarn = color.New(color.FgYellow).SprintFunc()
	colorFail = color.New(color.FgRed).SprintFunc()
	colorBold = color.New(color.Bold).SprintFunc()
	colorDim  = color.New(color.Faint).SprintFunc()
)

func init() {
	rootCmd = &cobra.Command{
		Use:   "toolchainctl",
		Short: "toolchainctl - inspect and check the contract toolchain configuration",
		Long: `toolchainctl loads the toolchain configuration (compiler, network profiles,
binding generator, verification settings) the same way the toolchain does and
lets you inspect it before running a compile, test or deploy.

Secrets are read from the process environment, then from a .env file:
  PRIVATE_KEY          signing key for the fuji and avalanche networks
  ETHERSACN_PRIVATE    verification service API key (optional at load time)

Runtime settings can be provided via flags, TOOLCHAIN_* environment variables
or a settings file (--settings or TOOLCHAIN_SETTINGS_FILE).`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) { flushLog() },
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		// Printing the version must work without any settings.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "toolchainctl %s\n", Version)
			if verbose {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "  commit:  %s\n", Commit)
			}
		},
	}

	rootCmd.PersistentFlags().StringVar(&settingsFile, "settings", "", "runtime settings file (or TOOLCHAIN_SETTINGS_FILE)")
	rootCmd.PersistentFlags().StringVar(&dotenvPath, "dotenv", "", "dotenv file with secrets (or TOOLCHAIN_DOTENV_PATH, default .env)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error (or TOOLCHAIN_LOG_LEVEL)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(newShowCmd())
	rootCmd.AddCommand(newNetworksCmd())
	rootCmd.AddCommand(newEnvCmd())
	rootCmd.AddCommand(newPreflightCmd())
	rootCmd.AddCommand(newVerifiedCmd())
}

// setup resolves runtime settings (flags win over environment and file) and
// initializes logging on stderr.
func setup(cmd *cobra.Command, args []string) error {
	s, err := config.Load(settingsFile)
	if err != nil {
		return err
	}
	if dotenvPath != "" {
		s.DotenvPath = dotenvPath
	}
	if logLevel != "" {
		s.Log.Level = logLevel
	}
	if verbose {
		s.Log.Level = "DEBUG"
	}

	opts := s.LoggerOptions()
	opts.Output = cmd.ErrOrStderr()
	flush, err := logger.Init(opts)
	if err != nil {
		return err
	}
	if s.Source != "" {
		logger.Debug("Runtime settings loaded", "file", s.Source)
	}
	settings = s
	flushLog = flush
	return nil
}

// loadApp builds the application graph from the resolved settings.
func loadApp() (*bootstrap.App, error) {
	return bootstrap.New(settings, logger.NewSlogAdapter(), logger.Zap())
}

// Execute runs the root command
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%s %s\n", colorFail("Error:"), bootstrap.DescribeLoadError(err))
	}
	return err
}

// ExecuteWithArgs runs the root command with the provided arguments (for testing)
func ExecuteWithArgs(args []string) error {
	rootCmd.SetArgs(args)
	return rootCmd.Execute()
}

// SetOutput sets the output writer for the root command (for testing)
func SetOutput(w io.Writer) {
	rootCmd.SetOut(w)
	rootCmd.SetErr(w)
}

// ResetFlags resets all global flags to their defaults (for testing)
func ResetFlags() {
	settingsFile = ""
	dotenvPath = ""
	logLevel = ""
	verbose = false
	showFormat = "yaml"
	showReveal = false
	preflightFormat = "table"
	verifiedNetwork = ""
}

// newTable creates a new tabwriter for formatted output.
func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

// printTableHeader prints a bold header row.
func printTableHeader(w io.Writer, columns ...string) {
	for i, col := range columns {
		if i > 0 {
			_, _ = fmt.Fprint(w, "\t")
		}
		_, _ = fmt.Fprint(w, colorBold(col))
	}
	_, _ = fmt.Fprintln(w)
}
