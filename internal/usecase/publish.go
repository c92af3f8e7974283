package usecase

import (
	"context"
	"strings"
	"time"

	"NewsCuration/internal/config"
	"NewsCuration/internal/domain"
	"NewsCuration/internal/infrastructure/parser"
	"NewsCuration/internal/ports"
	"NewsCuration/internal/slug"
)

const defaultExcerptLength = 240

// Draft is the validated text and category an article is built from.
type Draft struct {
	Title     string
	Summary   string
	Content   string
	Category  domain.Category
	SourceURL string
	ImageURL  string
}

func (d Draft) missing() []string {
	var out []string
	if strings.TrimSpace(d.Title) == "" {
		out = append(out, "title")
	}
	if parser.Blank(d.Summary) {
		out = append(out, "summary")
	}
	if parser.Blank(d.Content) {
		out = append(out, "content")
	}
	return out
}

// PublishBridge turns a curation item into a portal article.
type PublishBridge struct {
	items  ports.CurationRepository
	policy config.PublishConfig
	now    func() time.Time
	newID  func() string
}

// NewPublishBridge wires the repository that owns the publish transaction.
func NewPublishBridge(items ports.CurationRepository, policy config.PublishConfig, now func() time.Time, newID func() string) *PublishBridge {
	return &PublishBridge{items: items, policy: policy, now: now, newID: newID}
}

// Publish creates the article and moves the item to published atomically.
// On error the stored item is unchanged.
func (b *PublishBridge) Publish(ctx context.Context, item domain.CurationItem, draft Draft, actor string) (domain.CurationItem, domain.Article, error) {
	now := b.now().UTC()

	author := strings.TrimSpace(actor)
	if author == "" {
		author = b.policy.DefaultAuthor
	}

	excerptLength := b.policy.ExcerptLength
	if excerptLength <= 0 {
		excerptLength = defaultExcerptLength
	}

	article := domain.Article{
		ID:          b.newID(),
		Title:       strings.TrimSpace(draft.Title),
		Excerpt:     parser.Excerpt(draft.Summary, excerptLength),
		Content:     draft.Content,
		CategoryID:  draft.Category.ID,
		AuthorID:    author,
		Status:      domain.ArticlePublished,
		SourceURL:   draft.SourceURL,
		ImageURL:    draft.ImageURL,
		PublishedAt: now,
	}

	updated := item
	updated.Status = domain.StatusPublished
	updated.ManualCategoryID = draft.Category.ID
	updated.Working = domain.WorkingCopy{Title: draft.Title, Summary: draft.Summary, Content: draft.Content}
	updated.PublishedArticleID = article.ID
	if actor != "" {
		updated.ReviewedBy = actor
	}
	updated.UpdatedAt = now

	candidates := slug.Candidates(slug.Make(article.Title), b.policy.MaxSlugAttempts)

	stored, err := b.items.PublishItem(ctx, updated, item.Version, article, candidates)
	if err != nil {
		return domain.CurationItem{}, domain.Article{}, err
	}

	updated.PublishedArticleID = stored.ID
	updated.Version = item.Version + 1
	return updated, stored, nil
}
