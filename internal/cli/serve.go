package cli

import (
	"github.com/spf13/cobra"

	"NewsCuration/internal/config"
)

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the reviewer HTTP API and the scheduled intake",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := rootOpts.open(cmd.Context(), cmd, func(cfg *config.Config) {
				if addr != "" {
					cfg.HTTP.Addr = addr
				}
			})
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Serve(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address override")

	return cmd
}
