package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"NewsCuration/internal/config"
	"NewsCuration/internal/domain"
	"NewsCuration/internal/infrastructure/storage"
)

func openSQLite(t *testing.T) *storage.Store {
	t.Helper()
	ctx := context.Background()

	store, err := storage.Open(ctx, config.DatabaseConfig{Driver: storage.DriverSQLite, DSN: ":memory:"})
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := store.UpsertSource(ctx, domain.NewsSource{ID: "g1", Name: "G1"}); err != nil {
		t.Fatalf("seed source: %v", err)
	}
	for _, cat := range testCatalog() {
		if err := store.UpsertCategory(ctx, cat); err != nil {
			t.Fatalf("seed category: %v", err)
		}
	}
	if _, err := store.InsertScrapedNews(ctx, scraped("n1", "Inflação recua em outubro")); err != nil {
		t.Fatalf("seed news: %v", err)
	}
	return store
}

func sqliteCuration(store *storage.Store) *Curation {
	return NewCuration(CurationDeps{
		Items:   store,
		News:    store,
		Catalog: store,
		Policy:  config.PublishConfig{DefaultAuthor: "redacao", MaxSlugAttempts: 10, ExcerptLength: 120},
		Now:     func() time.Time { return fixedNow },
		NewID:   sequentialIDs("art-"),
	})
}

func TestAdvisorAnswersBeforeItemExistsAndOnlyOnce(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := openSQLite(t)
	curation := sqliteCuration(store)

	var rejectDuringAdvice error
	advisor := &stubAdvisor{suggestions: map[string]*domain.Suggestion{
		"n1": {CategoryID: "economia", Confidence: ptr(0.8), Reasoning: "juros"},
	}}
	advisor.during = func(domain.ScrapedNews) {
		_, rejectDuringAdvice = curation.PerformAction(ctx, "item-1", domain.Reject{Reason: "duplicada"})
	}

	intake := NewIntake(IntakeDeps{
		News:    store,
		Items:   store,
		Catalog: store,
		Advisor: advisor,
		Now:     func() time.Time { return fixedNow },
		NewID:   sequentialIDs("item-"),
	})

	if _, err := intake.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}
	requireKind(t, rejectDuringAdvice, domain.ErrNotFound)

	if _, err := curation.PerformAction(ctx, "item-1", domain.Reject{Reason: "fora do escopo"}); err != nil {
		t.Fatalf("reject: %v", err)
	}
	rejected, err := store.GetItem(ctx, "item-1")
	if err != nil {
		t.Fatalf("get item: %v", err)
	}

	for i := 0; i < 2; i++ {
		report, err := intake.Run(ctx)
		if err != nil {
			t.Fatalf("rerun: %v", err)
		}
		if report.Seen != 0 {
			t.Fatalf("queued record must not be seen again, got %+v", report)
		}
	}

	if advisor.calls != 1 {
		t.Fatalf("expected one advisor call, got %d", advisor.calls)
	}

	got, err := store.GetItem(ctx, "item-1")
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if got.Status != domain.StatusRejected || got.Version != rejected.Version {
		t.Fatalf("rejected item changed: %+v", got)
	}
	if got.SuggestedCategoryID != "economia" || got.AIReasoning != "juros" {
		t.Fatalf("unexpected suggestion %+v", got)
	}
}

func TestConcurrentPublishHasOneWinner(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := openSQLite(t)
	curation := sqliteCuration(store)

	news, err := store.GetScrapedNews(ctx, "n1")
	if err != nil {
		t.Fatalf("get news: %v", err)
	}
	if _, err := store.CreateItem(ctx, domain.NewCurationItem("x", news, nil, fixedNow)); err != nil {
		t.Fatalf("create item: %v", err)
	}
	if _, err := curation.PerformAction(ctx, "x", domain.Approve{CategoryID: "economia"}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	const publishers = 8
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		articles []*domain.Article
		failures []error
	)
	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			out, err := curation.PerformAction(ctx, "x", domain.Publish{})
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failures = append(failures, err)
				return
			}
			articles = append(articles, out.Article)
		}()
	}
	wg.Wait()

	if len(articles) != 1 {
		t.Fatalf("expected exactly one publish, got %d (failures %v)", len(articles), failures)
	}
	for _, err := range failures {
		requireKind(t, err, domain.ErrInvalidTransition)
	}

	item, err := store.GetItem(ctx, "x")
	if err != nil {
		t.Fatalf("get item: %v", err)
	}
	if item.Status != domain.StatusPublished || item.PublishedArticleID != articles[0].ID {
		t.Fatalf("unexpected item %+v", item)
	}

	stored, err := store.GetArticle(ctx, articles[0].ID)
	if err != nil {
		t.Fatalf("get article: %v", err)
	}
	if stored.Slug != "inflacao-recua-em-outubro" {
		t.Fatalf("unexpected slug %q", stored.Slug)
	}

	published, err := store.ListItems(ctx, domain.ItemFilter{Statuses: []domain.Status{domain.StatusPublished}})
	if err != nil {
		t.Fatalf("list published: %v", err)
	}
	if len(published) != 1 {
		t.Fatalf("expected one published item, got %d", len(published))
	}
}
