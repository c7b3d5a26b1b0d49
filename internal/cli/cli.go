package cli

import (
	"fmt"
	"io"

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

// rootFlags are the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath string
	storeDSN   string
	logLevel   string
	logFormat  string
}

// validate rejects flag values the logger and config layers would
// silently coerce.
func (f *rootFlags) validate() error {
	switch f.logLevel {
	case "", "debug", "info", "warn", "error":
	default:
		return &ExitError{Code: 2, Message: "invalid log-level: must be 'debug', 'info', 'warn', or 'error'"}
	}
	switch f.logFormat {
	case "", "text", "json":
	default:
		return &ExitError{Code: 2, Message: "invalid log-format: must be 'text' or 'json'"}
	}
	return nil
}

// NewRootCmd builds the haproxygen command tree. Assembled artifacts and
// member listings go to outW; logs go to logW.
func NewRootCmd(outW, logW io.Writer) *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:           "haproxygen",
		Short:         "Declarative HAProxy configuration assembler",
		Long:          "haproxygen assembles HAProxy configuration files from independently declared,\nnamed fragments, with deterministic ordering and cross-host member collection.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return flags.validate()
		},
	}
	root.SetOut(outW)
	root.SetErr(logW)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "Path to the runtime configuration file (default $HAPROXYGEN_CONFIG).")
	pf.StringVar(&flags.storeDSN, "store", "", "Member store DSN, overriding the runtime configuration.")
	pf.StringVar(&flags.logLevel, "log-level", "", "Logging level: 'debug', 'info', 'warn', or 'error'.")
	pf.StringVar(&flags.logFormat, "log-format", "", "Log output format: 'text' or 'json'.")

	root.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &ExitError{Code: 2, Message: err.Error()}
	})

	root.AddCommand(newAssembleCmd(outW, logW, flags))
	root.AddCommand(newDeclareCmd(outW, logW, flags))
	root.AddCommand(newMembersCmd(outW, logW, flags))
	return root
}

// exactArgs wraps cobra.ExactArgs so a wrong argument count exits with a
// usage error code.
func exactArgs(n int) cobra.PositionalArgs {
	inner := cobra.ExactArgs(n)
	return func(cmd *cobra.Command, args []string) error {
		if err := inner(cmd, args); err != nil {
			return &ExitError{Code: 2, Message: fmt.Sprintf("%s: %s", cmd.Name(), err)}
		}
		return nil
	}
}
