package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"NewsCuration/internal/domain"
	"NewsCuration/internal/usecase"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeItemLine(w io.Writer, item domain.CurationItem) {
	confidence := "-"
	if item.AIConfidence != nil {
		confidence = fmt.Sprintf("%.2f", *item.AIConfidence)
	}
	category := item.ResolvedCategoryID()
	if category == "" {
		category = "-"
	}
	fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", item.ID, item.Status, category, confidence, item.Working.Title)
}

func writeItemView(w io.Writer, view usecase.ItemView) {
	item := view.Item
	fmt.Fprintf(w, "ID:        %s\n", item.ID)
	fmt.Fprintf(w, "Status:    %s (version %d)\n", item.Status, item.Version)
	fmt.Fprintf(w, "Title:     %s\n", item.Working.Title)
	if view.Category != nil {
		fmt.Fprintf(w, "Category:  %s (%s)\n", view.Category.Name, view.Category.ID)
	}
	if item.SuggestedCategoryID != "" {
		fmt.Fprintf(w, "Suggested: %s", item.SuggestedCategoryID)
		if item.AIConfidence != nil {
			fmt.Fprintf(w, " %.2f", *item.AIConfidence)
		}
		fmt.Fprintln(w)
	}
	if item.AIReasoning != "" {
		fmt.Fprintf(w, "Reasoning: %s\n", item.AIReasoning)
	}
	if item.CuratorNotes != "" {
		fmt.Fprintf(w, "Notes:     %s\n", item.CuratorNotes)
	}
	if item.RejectionReason != "" {
		fmt.Fprintf(w, "Rejected:  %s\n", item.RejectionReason)
	}
	if item.PublishedArticleID != "" {
		fmt.Fprintf(w, "Article:   %s\n", item.PublishedArticleID)
	}
	if view.News.OriginalURL != "" {
		fmt.Fprintf(w, "Source:    %s\n", view.News.OriginalURL)
	}
	if len(view.Gaps) > 0 {
		fmt.Fprintf(w, "Gaps:      %s\n", strings.Join(view.Gaps, ", "))
	}
}

// actionError keeps the stable kind visible on the command line.
func actionError(err error) error {
	return fmt.Errorf("%s: %s", domain.KindOf(err), domain.DetailOf(err))
}
