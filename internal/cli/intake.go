package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"NewsCuration/internal/config"
)

// NewIntakeCommand creates the intake command.
func NewIntakeCommand(rootOpts *RootOptions) *cobra.Command {
	var batch int

	cmd := &cobra.Command{
		Use:   "intake",
		Short: "Queue scraped news for review once",
		Long: `Queue scraped news that has no curation item yet. The advisor is asked once per
record; records are queued even when it fails.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := rootOpts.open(cmd.Context(), cmd, func(cfg *config.Config) {
				if batch > 0 {
					cfg.Intake.BatchSize = batch
				}
			})
			if err != nil {
				return err
			}
			defer application.Close()

			report, err := application.Intake().Run(cmd.Context())
			if err != nil {
				return err
			}

			if rootOpts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seen %d, queued %d, duplicates %d, advisor errors %d\n",
				report.Seen, report.Queued, report.Duplicates, report.AdvisorErrors)
			return nil
		},
	}

	cmd.Flags().IntVar(&batch, "batch", 0, "records per run (defaults to intake.batchSize)")

	return cmd
}
