package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"NewsCuration/internal/domain"
)

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.json>",
		Short: "Load scraped news records from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read %s: %w", args[0], err)
			}
			var records []domain.ScrapedNews
			if err := json.Unmarshal(raw, &records); err != nil {
				return fmt.Errorf("parse %s: %w", args[0], err)
			}

			application, err := rootOpts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			inserted, err := application.ImportScrapedNews(cmd.Context(), records)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d of %d records\n", inserted, len(records))
			return nil
		},
	}

	return cmd
}
