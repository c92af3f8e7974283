package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"NewsCuration/internal/domain"
)

func scraped(id, title string) domain.ScrapedNews {
	return domain.ScrapedNews{
		ID:           id,
		Title:        title,
		Summary:      "<p>resumo " + id + "</p>",
		Content:      "<p>conteúdo " + id + "</p>",
		OriginalURL:  "https://fonte.example/" + id,
		SourceID:     "g1",
		DiscoveredAt: fixedNow,
	}
}

func newTestIntake(news *memNews, items *memItems, advisor *stubAdvisor, batch int) *Intake {
	deps := IntakeDeps{
		News:      news,
		Items:     items,
		Catalog:   testCatalog(),
		BatchSize: batch,
		Now:       func() time.Time { return fixedNow },
		NewID:     sequentialIDs("item-"),
	}
	if advisor != nil {
		deps.Advisor = advisor
	}
	return NewIntake(deps)
}

func itemForNews(t *testing.T, items *memItems, newsID string) domain.CurationItem {
	t.Helper()
	items.mu.Lock()
	defer items.mu.Unlock()
	for _, it := range items.items {
		if it.ScrapedNewsID == newsID {
			return it
		}
	}
	t.Fatalf("no item queued for %s", newsID)
	return domain.CurationItem{}
}

func TestIntakeQueuesWithNormalizedSuggestions(t *testing.T) {
	t.Parallel()

	news := &memNews{records: []domain.ScrapedNews{
		scraped("n1", "Bolsa sobe"),
		scraped("n2", "Sem opinião"),
		scraped("n3", "Eleições"),
	}}
	advisor := &stubAdvisor{suggestions: map[string]*domain.Suggestion{
		"n1": {CategoryID: "economia", Confidence: ptr(1.7), Reasoning: "mercado"},
		"n3": {CategoryID: "politica", Confidence: ptr(0.5)},
	}}
	items := newMemItems()

	report, err := newTestIntake(news, items, advisor, 10).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Seen != 3 || report.Queued != 3 {
		t.Fatalf("unexpected report %+v", report)
	}
	if advisor.calls != 3 {
		t.Fatalf("expected one advisor call per record, got %d", advisor.calls)
	}

	first := itemForNews(t, items, "n1")
	if first.Status != domain.StatusPending || first.SuggestedCategoryID != "economia" {
		t.Fatalf("unexpected item %+v", first)
	}
	if first.AIConfidence == nil || *first.AIConfidence != 1 {
		t.Fatalf("expected clamped confidence 1, got %v", first.AIConfidence)
	}
	if first.Working.Title != "Bolsa sobe" || first.Working.Content != "<p>conteúdo n1</p>" {
		t.Fatalf("working copy must mirror the scraped record, got %+v", first.Working)
	}

	if second := itemForNews(t, items, "n2"); second.SuggestedCategoryID != "" || second.AIConfidence != nil {
		t.Fatalf("expected no suggestion, got %+v", second)
	}

	third := itemForNews(t, items, "n3")
	if third.SuggestedCategoryID != "" {
		t.Fatalf("unknown category must be dropped, got %q", third.SuggestedCategoryID)
	}
	if third.AIConfidence == nil || *third.AIConfidence != 0.5 {
		t.Fatalf("expected confidence to survive, got %v", third.AIConfidence)
	}
}

func TestIntakeQueuesWhenAdvisorFails(t *testing.T) {
	t.Parallel()

	news := &memNews{records: []domain.ScrapedNews{scraped("n1", "Chuva forte")}}
	advisor := &stubAdvisor{err: errors.New("advisor timeout")}
	items := newMemItems()

	report, err := newTestIntake(news, items, advisor, 10).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Queued != 1 || report.AdvisorErrors != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if it := itemForNews(t, items, "n1"); it.SuggestedCategoryID != "" {
		t.Fatalf("expected no suggestion, got %+v", it)
	}
}

func TestIntakeSkipsAlreadyQueued(t *testing.T) {
	t.Parallel()

	existing := pendingItem("old")
	existing.ScrapedNewsID = "n1"
	items := newMemItems(existing)
	news := &memNews{records: []domain.ScrapedNews{scraped("n1", "Repetida"), scraped("n2", "Nova")}}

	report, err := newTestIntake(news, items, nil, 10).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Queued != 1 || report.Duplicates != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if got := itemForNews(t, items, "n1"); got.ID != "old" {
		t.Fatalf("existing item was replaced: %+v", got)
	}
}

func TestIntakeHonorsBatchSize(t *testing.T) {
	t.Parallel()

	news := &memNews{records: []domain.ScrapedNews{scraped("n1", "a"), scraped("n2", "b"), scraped("n3", "c")}}
	report, err := newTestIntake(news, newMemItems(), nil, 2).Run(context.Background())
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Seen != 2 {
		t.Fatalf("expected 2 records, got %d", report.Seen)
	}
}

func TestIntakeListFailure(t *testing.T) {
	t.Parallel()

	news := &memNews{listErr: errors.New("db down")}
	if _, err := newTestIntake(news, newMemItems(), nil, 10).Run(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
}
