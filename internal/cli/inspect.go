package cli

import (
	"github.com/spf13/cobra"

	"wiremeta/resolve"
)

func (a *app) newInspectCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <pattern> [Type...]",
		Short: "Print the resolved metadata of types",
		Long: `Analyze the packages matching pattern and print the wire members and
the deserialization constructor of each named type, or of every type
when none is named. The first type that fails to resolve stops the
command with its error.`,
		Example: `  wiremeta inspect ./catalog
  wiremeta inspect ./catalog Product catalog.Order -f json
  wiremeta inspect --naming snake --allow-private ./...`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load(cmd.ErrOrStderr(), args[0])
			if err != nil {
				return err
			}

			ids, err := s.selectTypes(args[1:])
			if err != nil {
				return err
			}

			metas := make([]*resolve.TypeMetadata, 0, len(ids))
			for _, id := range ids {
				meta, err := s.registry.Get(id)
				if err != nil {
					writeFailure(cmd.ErrOrStderr(), err)
					return err
				}
				metas = append(metas, meta)
			}

			return render(cmd.OutOrStdout(), a.cfg.Format, metas)
		},
	}
}
