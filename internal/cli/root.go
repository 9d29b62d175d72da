package cli

import (
	"fmt"
	"slices"

	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Database string // default for --db
}

// Environment supplies flag defaults.
type Environment struct {
	Format   string `env:"NORMSTATE_FORMAT" envDefault:"text"`
	Database string `env:"NORMSTATE_DB" envDefault:"normstate.db"`
	Verbose  bool   `env:"NORMSTATE_VERBOSE"`
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// LoadEnvironment reads the NORMSTATE_* variables.
func LoadEnvironment() (Environment, error) {
	var e Environment
	if err := env.Parse(&e); err != nil {
		return Environment{}, fmt.Errorf("parse env: %w", err)
	}
	return e, nil
}

// NewRootCommand creates the root command with defaults from the process
// environment.
func NewRootCommand() (*cobra.Command, error) {
	e, err := LoadEnvironment()
	if err != nil {
		return nil, err
	}
	return NewRootCommandWithEnvironment(e), nil
}

// NewRootCommandWithEnvironment creates the root command with defaults from e.
func NewRootCommandWithEnvironment(e Environment) *cobra.Command {
	opts := &RootOptions{Database: e.Database}

	cmd := &cobra.Command{
		Use:   "normstate",
		Short: "Normalized state stores for a survey demo",
		Long: `Drive the survey demo store: compile normalization schemas, load
surveys, inspect and replay the recorded action history, and run
scenario files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", e.Verbose, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", e.Format, "output format (json|text)")

	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewLoadCommand(opts))
	cmd.AddCommand(NewTraceCommand(opts))
	cmd.AddCommand(NewReplayCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}
