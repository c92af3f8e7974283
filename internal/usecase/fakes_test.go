package usecase

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"

	"NewsCuration/internal/domain"
)

var fixedNow = time.Date(2025, 11, 8, 12, 0, 0, 0, time.UTC)

type memItems struct {
	mu         sync.Mutex
	items      map[string]domain.CurationItem
	articles   map[string]domain.Article
	takenSlugs map[string]bool
	updates    int
	publishErr error
	// beforeWrite lets a test change the stored item between read and write.
	beforeWrite func(m *memItems)
}

func newMemItems(items ...domain.CurationItem) *memItems {
	m := &memItems{
		items:      make(map[string]domain.CurationItem),
		articles:   make(map[string]domain.Article),
		takenSlugs: make(map[string]bool),
	}
	for _, it := range items {
		if it.Version == 0 {
			it.Version = 1
		}
		m.items[it.ID] = it
	}
	return m
}

func (m *memItems) CreateItem(_ context.Context, item domain.CurationItem) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.items {
		if existing.ScrapedNewsID == item.ScrapedNewsID {
			return false, nil
		}
	}
	m.items[item.ID] = item
	return true, nil
}

func (m *memItems) GetItem(_ context.Context, id string) (domain.CurationItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[id]
	if !ok {
		return domain.CurationItem{}, domain.NewError(domain.ErrNotFound, "get item", "curation item "+id+" not found")
	}
	return it, nil
}

func (m *memItems) ListItems(_ context.Context, filter domain.ItemFilter) ([]domain.CurationItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = domain.DefaultQueueStatuses
	}
	var out []domain.CurationItem
	for _, it := range m.items {
		for _, s := range statuses {
			if it.Status == s {
				out = append(out, it)
			}
		}
	}
	return out, nil
}

func (m *memItems) UpdateItem(_ context.Context, item domain.CurationItem, expectedVersion int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.beforeWrite != nil {
		m.beforeWrite(m)
	}
	current, ok := m.items[item.ID]
	if !ok {
		return domain.NewError(domain.ErrNotFound, "update item", item.ID)
	}
	if current.Version != expectedVersion {
		return domain.ErrConflict
	}
	item.Version = expectedVersion + 1
	m.items[item.ID] = item
	m.updates++
	return nil
}

func (m *memItems) PublishItem(_ context.Context, item domain.CurationItem, expectedVersion int64, article domain.Article, slugs []string) (domain.Article, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.publishErr != nil {
		return domain.Article{}, m.publishErr
	}
	if m.beforeWrite != nil {
		m.beforeWrite(m)
	}
	if m.items[item.ID].Version != expectedVersion {
		return domain.Article{}, domain.ErrConflict
	}
	for _, s := range slugs {
		if m.takenSlugs[s] {
			continue
		}
		m.takenSlugs[s] = true
		article.Slug = s
		m.articles[article.ID] = article
		item.Version = expectedVersion + 1
		m.items[item.ID] = item
		return article, nil
	}
	return domain.Article{}, errors.New("no free slug")
}

func (m *memItems) get(id string) domain.CurationItem {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.items[id]
}

type memNews struct {
	records []domain.ScrapedNews
	listErr error
}

func (n *memNews) GetScrapedNews(_ context.Context, id string) (domain.ScrapedNews, error) {
	for _, r := range n.records {
		if r.ID == id {
			return r, nil
		}
	}
	return domain.ScrapedNews{}, domain.NewError(domain.ErrNotFound, "get scraped news", id)
}

func (n *memNews) ListUnqueued(_ context.Context, limit int) ([]domain.ScrapedNews, error) {
	if n.listErr != nil {
		return nil, n.listErr
	}
	if limit > 0 && len(n.records) > limit {
		return n.records[:limit], nil
	}
	return n.records, nil
}

type memCatalog map[string]domain.Category

func (c memCatalog) GetCategory(_ context.Context, id string) (domain.Category, error) {
	cat, ok := c[id]
	if !ok {
		return domain.Category{}, domain.NewError(domain.ErrNotFound, "get category", id)
	}
	return cat, nil
}

func (c memCatalog) ListCategories(_ context.Context) ([]domain.Category, error) {
	out := make([]domain.Category, 0, len(c))
	for _, cat := range c {
		out = append(out, cat)
	}
	return out, nil
}

func testCatalog() memCatalog {
	return memCatalog{
		"economia": {ID: "economia", Name: "Economia"},
		"esportes": {ID: "esportes", Name: "Esportes"},
		"cultura":  {ID: "cultura", Name: "Cultura"},
	}
}

type stubAdvisor struct {
	suggestions map[string]*domain.Suggestion
	err         error
	calls       int
	// during runs while the advisor is answering for news.
	during func(news domain.ScrapedNews)
}

func (a *stubAdvisor) Suggest(_ context.Context, news domain.ScrapedNews) (*domain.Suggestion, error) {
	a.calls++
	if a.during != nil {
		a.during(news)
	}
	if a.err != nil {
		return nil, a.err
	}
	return a.suggestions[news.ID], nil
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return prefix + strconv.Itoa(n)
	}
}

func ptr[T any](v T) *T { return &v }
