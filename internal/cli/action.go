package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"NewsCuration/internal/domain"
)

// ActionOptions holds flags for the action command.
type ActionOptions struct {
	*RootOptions
	Actor    string
	Category string
	Notes    string
	Reason   string
	Title    string
	Summary  string
	Content  string
}

// NewActionCommand creates the action command.
func NewActionCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ActionOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "action <item-id> <approve|reject|edit|publish>",
		Short: "Apply a curator action to one item",
		Long: `Apply a curator action to one item.

Example:
  newscuration action 3f2a approve --category economia --notes "ok"
  newscuration action 3f2a publish --title "Bolsa renova máxima"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action, err := buildAction(cmd, opts, args[1])
			if err != nil {
				return err
			}

			application, err := opts.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer application.Close()

			outcome, err := application.Curation().PerformAction(cmd.Context(), args[0], action)
			if err != nil {
				return actionError(err)
			}

			if opts.Format == "json" {
				return writeJSON(cmd.OutOrStdout(), outcome)
			}
			fmt.Fprintln(cmd.OutOrStdout(), outcome.Message)
			if outcome.Article != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "article %s /%s\n", outcome.Article.ID, outcome.Article.Slug)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.Actor, "actor", "", "curator identity recorded on the item")
	cmd.Flags().StringVar(&opts.Category, "category", "", "category id (approve, edit, publish)")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "curator notes (approve, edit)")
	cmd.Flags().StringVar(&opts.Reason, "reason", "", "rejection reason (reject)")
	cmd.Flags().StringVar(&opts.Title, "title", "", "title (edit, publish)")
	cmd.Flags().StringVar(&opts.Summary, "summary", "", "summary (edit, publish)")
	cmd.Flags().StringVar(&opts.Content, "content", "", "content (edit, publish)")

	return cmd
}

// buildAction turns flags into an action. Edit only carries flags that were set.
func buildAction(cmd *cobra.Command, opts *ActionOptions, name string) (domain.Action, error) {
	meta := domain.Meta{By: opts.Actor}
	set := func(flag, value string) *string {
		if !cmd.Flags().Changed(flag) {
			return nil
		}
		return &value
	}

	switch domain.ActionKind(strings.ToLower(name)) {
	case domain.ActionApprove:
		return domain.Approve{Meta: meta, CategoryID: opts.Category, Notes: set("notes", opts.Notes)}, nil
	case domain.ActionReject:
		return domain.Reject{Meta: meta, Reason: opts.Reason}, nil
	case domain.ActionEdit:
		return domain.Edit{
			Meta:       meta,
			Title:      set("title", opts.Title),
			Summary:    set("summary", opts.Summary),
			Content:    set("content", opts.Content),
			CategoryID: set("category", opts.Category),
			Notes:      set("notes", opts.Notes),
		}, nil
	case domain.ActionPublish:
		return domain.Publish{
			Meta:       meta,
			Title:      opts.Title,
			Summary:    opts.Summary,
			Content:    opts.Content,
			CategoryID: opts.Category,
		}, nil
	default:
		return nil, fmt.Errorf("unknown action %q: must be one of approve, reject, edit, publish", name)
	}
}
