package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/davidllorente/haproxygen/internal/app"
	"github.com/davidllorente/haproxygen/internal/model"
)

func newDeclareCmd(outW, logW io.Writer, flags *rootFlags) *cobra.Command {
	var (
		file     string
		section  string
		name     string
		servers  []string
		addrs    []string
		port     string
		options  []string
		group    string
		instance string
	)

	cmd := &cobra.Command{
		Use:   "declare [flags]",
		Short: "Declare backend members into the shared member store",
		Long: "Declare publishes backend members from this host into the shared member\n" +
			"store, where assembly runs that collect the member's section will find\n" +
			"them. Declare one member with flags, or every member block of a grid file\n" +
			"with --file.",
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.NewApp(outW, logW, &app.Config{
				ConfigPath: flags.configPath,
				StoreDSN:   flags.storeDSN,
				LogLevel:   flags.logLevel,
				LogFormat:  flags.logFormat,
			})

			var members []*model.Member
			if file != "" {
				var err error
				members, err = a.LoadMembers(cmd.Context(), file)
				if err != nil {
					return err
				}
			} else {
				m, err := memberFromFlags(section, name, servers, addrs, port, options, group, instance)
				if err != nil {
					return err
				}
				members = []*model.Member{m}
			}
			return a.DeclareMembers(cmd.Context(), members)
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "Grid file whose member blocks are all declared.")
	cmd.Flags().StringVar(&section, "section", "", "Section the member belongs to.")
	cmd.Flags().StringVar(&name, "name", "", "Member name, unique within its section.")
	cmd.Flags().StringArrayVar(&servers, "server", nil, "Server name (repeatable, zipped with --address).")
	cmd.Flags().StringArrayVar(&addrs, "address", nil, "Server address (repeatable, zipped with --server).")
	cmd.Flags().StringVar(&port, "port", "", "Port appended to every server address.")
	cmd.Flags().StringArrayVar(&options, "option", nil, "Server option, e.g. 'check' (repeatable).")
	cmd.Flags().StringVar(&group, "defaults", "", "Defaults group the member's section joined.")
	cmd.Flags().StringVar(&instance, "instance", model.DefaultInstance, "Instance identifier.")
	return cmd
}

// memberFromFlags builds the single member of a flag-style declare,
// rejecting incomplete input before it reaches the store.
func memberFromFlags(section, name string, servers, addrs []string, port string, options []string, group, instance string) (*model.Member, error) {
	switch {
	case section == "":
		return nil, &ExitError{Code: 2, Message: "declare: --section is required (or use --file)"}
	case name == "":
		return nil, &ExitError{Code: 2, Message: "declare: --name is required (or use --file)"}
	case len(servers) == 0:
		return nil, &ExitError{Code: 2, Message: "declare: at least one --server is required"}
	case len(servers) != len(addrs):
		return nil, &ExitError{Code: 2, Message: fmt.Sprintf(
			"declare: %d --server flag(s) but %d --address flag(s), they zip pairwise", len(servers), len(addrs))}
	}
	return &model.Member{
		Section:       section,
		Name:          name,
		ServerNames:   servers,
		Addresses:     addrs,
		Port:          port,
		Options:       options,
		DefaultsGroup: group,
		Instance:      instance,
	}, nil
}
