package cli

import (
	"github.com/spf13/cobra"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <item-id>",
		Short: "Show one curation item with its source and content gaps",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := rootOpts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			view, err := application.Curation().GetItem(cmd.Context(), args[0])
			if err != nil {
				return actionError(err)
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), view)
			}
			writeItemView(cmd.OutOrStdout(), view)
			return nil
		},
	}

	return cmd
}
