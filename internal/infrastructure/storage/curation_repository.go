package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"NewsCuration/internal/domain"
	"NewsCuration/internal/ports"
)

// ErrSlugExhausted means every candidate slug was already taken.
var ErrSlugExhausted = errors.New("no free article slug")

const defaultListLimit = 100

var itemColumns = []string{
	"ci.id",
	"ci.scraped_news_id",
	"ci.status",
	"ci.suggested_category_id",
	"ci.manual_category_id",
	"ci.ai_confidence",
	"ci.ai_category_reasoning",
	"ci.curator_notes",
	"ci.title",
	"ci.summary",
	"ci.content",
	"ci.curator_touched",
	"ci.rejection_reason",
	"ci.published_article_id",
	"ci.reviewed_by",
	"ci.version",
	"ci.created_at",
	"ci.updated_at",
}

var _ ports.CurationRepository = (*Store)(nil)

// CreateItem inserts a pending item. It returns false when the scraped record is already queued.
func (s *Store) CreateItem(ctx context.Context, item domain.CurationItem) (bool, error) {
	query, args, err := s.builder.
		Insert("curation_items").
		Columns(
			"id", "scraped_news_id", "status",
			"suggested_category_id", "manual_category_id", "ai_confidence", "ai_category_reasoning",
			"curator_notes", "title", "summary", "content", "curator_touched",
			"version", "created_at", "updated_at",
		).
		Values(
			item.ID, item.ScrapedNewsID, string(item.Status),
			nullString(item.SuggestedCategoryID), nullString(item.ManualCategoryID), nullFloat(item.AIConfidence), nullString(item.AIReasoning),
			nullString(item.CuratorNotes), item.Working.Title, item.Working.Summary, item.Working.Content, item.CuratorTouched,
			item.Version, item.CreatedAt.UTC(), item.UpdatedAt.UTC(),
		).
		Suffix("ON CONFLICT (scraped_news_id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert item: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert item rows: %w", err)
	}

	return affected == 1, nil
}

// GetItem loads one item by id.
func (s *Store) GetItem(ctx context.Context, id string) (domain.CurationItem, error) {
	query, args, err := s.builder.
		Select(itemColumns...).
		From("curation_items ci").
		Where(sq.Eq{"ci.id": id}).
		ToSql()
	if err != nil {
		return domain.CurationItem{}, fmt.Errorf("build get item: %w", err)
	}

	item, err := scanItem(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CurationItem{}, domain.NewError(domain.ErrNotFound, "get item", fmt.Sprintf("curation item %s does not exist", id))
	}
	if err != nil {
		return domain.CurationItem{}, fmt.Errorf("get item: %w", err)
	}

	return item, nil
}

// ListItems returns the review queue, oldest first.
func (s *Store) ListItems(ctx context.Context, filter domain.ItemFilter) ([]domain.CurationItem, error) {
	statuses := filter.Statuses
	if len(statuses) == 0 {
		statuses = domain.DefaultQueueStatuses
	}
	values := make([]string, 0, len(statuses))
	for _, st := range statuses {
		values = append(values, string(st))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	builder := s.builder.
		Select(itemColumns...).
		From("curation_items ci").
		Where(sq.Eq{"ci.status": values})

	if filter.SourceID != "" {
		builder = builder.
			Join("scraped_news sn ON sn.id = ci.scraped_news_id").
			Where(sq.Eq{"sn.source_id": filter.SourceID})
	}
	if filter.CategoryID != "" {
		builder = builder.Where(sq.Expr("COALESCE(ci.manual_category_id, ci.suggested_category_id) = ?", filter.CategoryID))
	}
	if filter.MinConfidence != nil {
		builder = builder.Where(sq.GtOrEq{"ci.ai_confidence": *filter.MinConfidence})
	}

	query, args, err := builder.
		OrderBy("ci.created_at ASC", "ci.id ASC").
		Limit(uint64(limit)).
		Offset(uint64(max(filter.Offset, 0))).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list items: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query items: %w", err)
	}

	var items []domain.CurationItem
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, item)
	}

	if rowsErr := rows.Err(); rowsErr != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("rows iteration: %w", rowsErr)
	}

	if closeErr := rows.Close(); closeErr != nil {
		return nil, fmt.Errorf("close rows: %w", closeErr)
	}

	return items, nil
}

// UpdateItem writes the mutable fields if the stored version still equals expectedVersion.
func (s *Store) UpdateItem(ctx context.Context, item domain.CurationItem, expectedVersion int64) error {
	return s.updateItem(ctx, s.db, item, expectedVersion)
}

// PublishItem inserts the article under the first free slug and flips the item in one transaction.
func (s *Store) PublishItem(ctx context.Context, item domain.CurationItem, expectedVersion int64, article domain.Article, slugs []string) (domain.Article, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.Article{}, fmt.Errorf("begin publish: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	inserted := false
	for _, candidate := range slugs {
		article.Slug = candidate
		ok, err := s.insertArticle(ctx, tx, article)
		if err != nil {
			return domain.Article{}, err
		}
		if ok {
			inserted = true
			break
		}
	}
	if !inserted {
		return domain.Article{}, fmt.Errorf("publish item %s: %w", item.ID, ErrSlugExhausted)
	}

	item.PublishedArticleID = article.ID
	if err := s.updateItem(ctx, tx, item, expectedVersion); err != nil {
		return domain.Article{}, err
	}

	if err := tx.Commit(); err != nil {
		return domain.Article{}, fmt.Errorf("commit publish: %w", err)
	}

	return article, nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *Store) insertArticle(ctx context.Context, ex execer, article domain.Article) (bool, error) {
	query, args, err := s.builder.
		Insert("articles").
		Columns("id", "slug", "title", "excerpt", "content", "category_id", "author_id", "status", "source_url", "image_url", "published_at").
		Values(
			article.ID, article.Slug, article.Title, article.Excerpt, article.Content,
			article.CategoryID, article.AuthorID, string(article.Status),
			nullString(article.SourceURL), nullString(article.ImageURL), article.PublishedAt.UTC(),
		).
		Suffix("ON CONFLICT (slug) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert article: %w", err)
	}

	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert article: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert article rows: %w", err)
	}

	return affected == 1, nil
}

func (s *Store) updateItem(ctx context.Context, ex execer, item domain.CurationItem, expectedVersion int64) error {
	query, args, err := s.builder.
		Update("curation_items").
		Set("status", string(item.Status)).
		Set("manual_category_id", nullString(item.ManualCategoryID)).
		Set("curator_notes", nullString(item.CuratorNotes)).
		Set("title", item.Working.Title).
		Set("summary", item.Working.Summary).
		Set("content", item.Working.Content).
		Set("curator_touched", item.CuratorTouched).
		Set("rejection_reason", nullString(item.RejectionReason)).
		Set("published_article_id", nullString(item.PublishedArticleID)).
		Set("reviewed_by", nullString(item.ReviewedBy)).
		Set("version", expectedVersion+1).
		Set("updated_at", item.UpdatedAt.UTC()).
		Where(sq.Eq{"id": item.ID, "version": expectedVersion}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update item: %w", err)
	}

	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update item: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update item rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("update item %s at version %d: %w", item.ID, expectedVersion, domain.ErrConflict)
	}

	return nil
}

func scanItem(row rowScanner) (domain.CurationItem, error) {
	var (
		item       domain.CurationItem
		status     string
		suggested  sql.NullString
		manual     sql.NullString
		confidence sql.NullFloat64
		reasoning  sql.NullString
		notes      sql.NullString
		rejection  sql.NullString
		published  sql.NullString
		reviewedBy sql.NullString
	)

	err := row.Scan(
		&item.ID,
		&item.ScrapedNewsID,
		&status,
		&suggested,
		&manual,
		&confidence,
		&reasoning,
		&notes,
		&item.Working.Title,
		&item.Working.Summary,
		&item.Working.Content,
		&item.CuratorTouched,
		&rejection,
		&published,
		&reviewedBy,
		&item.Version,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return domain.CurationItem{}, err
	}

	item.Status = domain.Status(status)
	item.SuggestedCategoryID = suggested.String
	item.ManualCategoryID = manual.String
	item.AIConfidence = floatPtr(confidence)
	item.AIReasoning = reasoning.String
	item.CuratorNotes = notes.String
	item.RejectionReason = rejection.String
	item.PublishedArticleID = published.String
	item.ReviewedBy = reviewedBy.String

	return item, nil
}
