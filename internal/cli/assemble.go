package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/davidllorente/haproxygen/internal/app"
)

func newAssembleCmd(outW, logW io.Writer, flags *rootFlags) *cobra.Command {
	var (
		stdout          bool
		requireNonEmpty bool
		watch           bool
	)

	cmd := &cobra.Command{
		Use:   "assemble [flags] GRID_PATH",
		Short: "Assemble HAProxy configuration files from grid declarations",
		Long: "Assemble validates every declaration reachable from GRID_PATH (a .hcl file\n" +
			"or a directory of them), collects exported members for sections flagged\n" +
			"collect = true, and writes one deterministic configuration file per target.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.NewApp(outW, logW, &app.Config{
				GridPath:        args[0],
				ConfigPath:      flags.configPath,
				StoreDSN:        flags.storeDSN,
				Stdout:          stdout,
				RequireNonEmpty: requireNonEmpty,
				Watch:           watch,
				LogLevel:        flags.logLevel,
				LogFormat:       flags.logFormat,
			})
			return a.Run(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&stdout, "stdout", false, "Print assembled artifacts instead of writing target files.")
	cmd.Flags().BoolVar(&requireNonEmpty, "require-non-empty", false, "Fail when a target file would be assembled with zero fragments.")
	cmd.Flags().BoolVar(&watch, "watch", false, "Stay alive and re-assemble when grid files change.")
	return cmd
}
