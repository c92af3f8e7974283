package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"NewsCuration/internal/domain"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Statuses      []string
	Source        string
	Category      string
	MinConfidence float64
	Limit         int
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the review queue",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := domain.ItemFilter{
				SourceID:   opts.Source,
				CategoryID: opts.Category,
				Limit:      opts.Limit,
			}
			for _, s := range opts.Statuses {
				status := domain.Status(strings.ToLower(strings.TrimSpace(s)))
				if !status.Valid() {
					return actionError(domain.NewError(domain.ErrMissingRequiredField, "list", "unknown status "+s))
				}
				filter.Statuses = append(filter.Statuses, status)
			}
			if cmd.Flags().Changed("min-confidence") {
				filter.MinConfidence = &opts.MinConfidence
			}

			application, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			items, err := application.Curation().ListPending(cmd.Context(), filter)
			if err != nil {
				return actionError(err)
			}

			if opts.Format == "json" {
				if items == nil {
					items = []domain.CurationItem{}
				}
				return writeJSON(cmd.OutOrStdout(), items)
			}
			for _, item := range items {
				writeItemLine(cmd.OutOrStdout(), item)
			}
			return nil
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Statuses, "status", "s", nil, "statuses to list (default pending,editing)")
	cmd.Flags().StringVar(&opts.Source, "source", "", "only items from this news source")
	cmd.Flags().StringVar(&opts.Category, "category", "", "only items resolving to this category")
	cmd.Flags().Float64Var(&opts.MinConfidence, "min-confidence", 0, "minimum advisor confidence")
	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 0, "maximum number of items")

	return cmd
}
