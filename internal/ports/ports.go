package ports

import (
	"context"
	"time"

	"NewsCuration/internal/domain"
)

// CurationRepository persists curation items. Mutations are conditional on the item version.
type CurationRepository interface {
	CreateItem(ctx context.Context, item domain.CurationItem) (bool, error)
	GetItem(ctx context.Context, id string) (domain.CurationItem, error)
	ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.CurationItem, error)
	UpdateItem(ctx context.Context, item domain.CurationItem, expectedVersion int64) error
	// PublishItem inserts the article under the first free slug and moves the item to
	// published in one transaction. Nothing is written when any step fails.
	PublishItem(ctx context.Context, item domain.CurationItem, expectedVersion int64, article domain.Article, slugs []string) (domain.Article, error)
}

// ScrapedNewsRepository reads the records produced by ingestion.
type ScrapedNewsRepository interface {
	GetScrapedNews(ctx context.Context, id string) (domain.ScrapedNews, error)
	ListUnqueued(ctx context.Context, limit int) ([]domain.ScrapedNews, error)
}

// CategoryCatalog looks up categories owned by the portal catalog.
type CategoryCatalog interface {
	GetCategory(ctx context.Context, id string) (domain.Category, error)
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// ArticleReader reads back published articles.
type ArticleReader interface {
	GetArticle(ctx context.Context, id string) (domain.Article, error)
}

// Advisor suggests a category for a scraped record. A nil suggestion means "no opinion".
type Advisor interface {
	Suggest(ctx context.Context, news domain.ScrapedNews) (*domain.Suggestion, error)
}

// Notifier announces published articles to the newsroom.
type Notifier interface {
	ArticlePublished(ctx context.Context, article domain.Article, category domain.Category) error
}

// Scheduler controls when intake runs.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
