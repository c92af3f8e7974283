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

var (
	_ ports.CategoryCatalog       = (*Store)(nil)
	_ ports.ScrapedNewsRepository = (*Store)(nil)
	_ ports.ArticleReader         = (*Store)(nil)
)

// UpsertCategory creates or refreshes a catalog category.
func (s *Store) UpsertCategory(ctx context.Context, category domain.Category) error {
	query, args, err := s.builder.
		Insert("categories").
		Columns("id", "name", "color", "icon").
		Values(category.ID, category.Name, nullString(category.Color), nullString(category.Icon)).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = excluded.name, color = excluded.color, icon = excluded.icon").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert category: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert category %s: %w", category.ID, err)
	}
	return nil
}

// GetCategory returns a NotFound error when the id is unknown.
func (s *Store) GetCategory(ctx context.Context, id string) (domain.Category, error) {
	query, args, err := s.builder.
		Select("id", "name", "color", "icon").
		From("categories").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Category{}, fmt.Errorf("build get category: %w", err)
	}

	category, err := scanCategory(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Category{}, domain.NewError(domain.ErrNotFound, "get category", fmt.Sprintf("category %s does not exist", id))
	}
	if err != nil {
		return domain.Category{}, fmt.Errorf("get category: %w", err)
	}
	return category, nil
}

// ListCategories returns the whole catalog ordered by name.
func (s *Store) ListCategories(ctx context.Context) ([]domain.Category, error) {
	query, args, err := s.builder.
		Select("id", "name", "color", "icon").
		From("categories").
		OrderBy("name ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list categories: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query categories: %w", err)
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return categories, nil
}

// UpsertSource creates or renames a news source.
func (s *Store) UpsertSource(ctx context.Context, source domain.NewsSource) error {
	query, args, err := s.builder.
		Insert("news_sources").
		Columns("id", "name").
		Values(source.ID, source.Name).
		Suffix("ON CONFLICT (id) DO UPDATE SET name = excluded.name").
		ToSql()
	if err != nil {
		return fmt.Errorf("build upsert source: %w", err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert source %s: %w", source.ID, err)
	}
	return nil
}

// InsertScrapedNews stores an ingested record. Re-inserting the same id is ignored.
func (s *Store) InsertScrapedNews(ctx context.Context, news domain.ScrapedNews) (bool, error) {
	query, args, err := s.builder.
		Insert("scraped_news").
		Columns("id", "title", "summary", "content", "image_url", "original_url", "source_id", "discovered_at").
		Values(
			news.ID, news.Title, nullString(news.Summary), nullString(news.Content),
			nullString(news.ImageURL), news.OriginalURL, news.SourceID, news.DiscoveredAt.UTC(),
		).
		Suffix("ON CONFLICT (id) DO NOTHING").
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build insert scraped news: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("insert scraped news %s: %w", news.ID, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("insert scraped news rows: %w", err)
	}
	return affected == 1, nil
}

var scrapedColumns = []string{
	"sn.id", "sn.title", "sn.summary", "sn.content", "sn.image_url", "sn.original_url", "sn.source_id", "sn.discovered_at",
}

// GetScrapedNews loads one ingested record.
func (s *Store) GetScrapedNews(ctx context.Context, id string) (domain.ScrapedNews, error) {
	query, args, err := s.builder.
		Select(scrapedColumns...).
		From("scraped_news sn").
		Where(sq.Eq{"sn.id": id}).
		ToSql()
	if err != nil {
		return domain.ScrapedNews{}, fmt.Errorf("build get scraped news: %w", err)
	}

	news, err := scanScraped(s.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ScrapedNews{}, domain.NewError(domain.ErrNotFound, "get scraped news", fmt.Sprintf("scraped news %s does not exist", id))
	}
	if err != nil {
		return domain.ScrapedNews{}, fmt.Errorf("get scraped news: %w", err)
	}
	return news, nil
}

// ListUnqueued returns ingested records that have no curation item yet, oldest first.
func (s *Store) ListUnqueued(ctx context.Context, limit int) ([]domain.ScrapedNews, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}

	query, args, err := s.builder.
		Select(scrapedColumns...).
		From("scraped_news sn").
		LeftJoin("curation_items ci ON ci.scraped_news_id = sn.id").
		Where(sq.Eq{"ci.id": nil}).
		OrderBy("sn.discovered_at ASC", "sn.id ASC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build list unqueued: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query unqueued: %w", err)
	}
	defer rows.Close()

	var out []domain.ScrapedNews
	for rows.Next() {
		news, err := scanScraped(rows)
		if err != nil {
			return nil, fmt.Errorf("scan scraped news: %w", err)
		}
		out = append(out, news)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration: %w", err)
	}

	return out, nil
}

// GetArticle reads back a published article.
func (s *Store) GetArticle(ctx context.Context, id string) (domain.Article, error) {
	query, args, err := s.builder.
		Select("id", "slug", "title", "excerpt", "content", "category_id", "author_id", "status", "source_url", "image_url", "published_at").
		From("articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Article{}, fmt.Errorf("build get article: %w", err)
	}

	var (
		article   domain.Article
		status    string
		sourceURL sql.NullString
		imageURL  sql.NullString
	)
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&article.ID, &article.Slug, &article.Title, &article.Excerpt, &article.Content,
		&article.CategoryID, &article.AuthorID, &status, &sourceURL, &imageURL, &article.PublishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Article{}, domain.NewError(domain.ErrNotFound, "get article", fmt.Sprintf("article %s does not exist", id))
	}
	if err != nil {
		return domain.Article{}, fmt.Errorf("get article: %w", err)
	}

	article.Status = domain.ArticleStatus(status)
	article.SourceURL = sourceURL.String
	article.ImageURL = imageURL.String
	return article, nil
}

func scanCategory(row rowScanner) (domain.Category, error) {
	var (
		category domain.Category
		color    sql.NullString
		icon     sql.NullString
	)
	if err := row.Scan(&category.ID, &category.Name, &color, &icon); err != nil {
		return domain.Category{}, err
	}
	category.Color = color.String
	category.Icon = icon.String
	return category, nil
}

func scanScraped(row rowScanner) (domain.ScrapedNews, error) {
	var (
		news     domain.ScrapedNews
		summary  sql.NullString
		content  sql.NullString
		imageURL sql.NullString
	)
	err := row.Scan(&news.ID, &news.Title, &summary, &content, &imageURL, &news.OriginalURL, &news.SourceID, &news.DiscoveredAt)
	if err != nil {
		return domain.ScrapedNews{}, err
	}
	news.Summary = summary.String
	news.Content = content.String
	news.ImageURL = imageURL.String
	return news, nil
}
