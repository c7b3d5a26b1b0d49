package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/davidllorente/haproxygen/internal/app"
)

func newMembersCmd(outW, logW io.Writer, flags *rootFlags) *cobra.Command {
	var section string

	cmd := &cobra.Command{
		Use:   "members [flags]",
		Short: "List backend members declared in the shared member store",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.NewApp(outW, logW, &app.Config{
				ConfigPath: flags.configPath,
				StoreDSN:   flags.storeDSN,
				LogLevel:   flags.logLevel,
				LogFormat:  flags.logFormat,
			})

			members, err := a.ListMembers(cmd.Context(), section)
			if err != nil {
				return err
			}
			if len(members) == 0 {
				fmt.Fprintln(outW, "no members declared")
				return nil
			}
			for _, m := range members {
				port := m.Port
				if port == "" {
					port = "-"
				}
				opts := strings.Join(m.Options, ",")
				if opts == "" {
					opts = "-"
				}
				fmt.Fprintf(outW, "%s\t%s\t%s\t%s\t%s\t%s\n",
					m.Section, m.Name,
					strings.Join(m.ServerNames, ","), strings.Join(m.Addresses, ","),
					port, opts)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&section, "section", "", "List only members of this section.")
	return cmd
}
