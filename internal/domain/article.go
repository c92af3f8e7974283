package domain

import "time"

// NewsSource is a named upstream feed (RSS, Google News) referenced by scraped records.
type NewsSource struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Category belongs to the external catalog; curation only reads it.
type Category struct {
	ID    string `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Color string `json:"color,omitempty" yaml:"color"`
	Icon  string `json:"icon,omitempty" yaml:"icon"`
}

// ScrapedNews is the snapshot produced by ingestion. Summary and Content may be empty.
type ScrapedNews struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Summary      string    `json:"summary,omitempty"`
	Content      string    `json:"content,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
	OriginalURL  string    `json:"original_url"`
	SourceID     string    `json:"source_id"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// ArticleStatus is the lifecycle marker of a portal article.
type ArticleStatus string

const (
	ArticlePublished ArticleStatus = "published"
)

// Article is the portal record materialized by a publish action.
type Article struct {
	ID          string        `json:"id"`
	Slug        string        `json:"slug"`
	Title       string        `json:"title"`
	Excerpt     string        `json:"excerpt"`
	Content     string        `json:"content"`
	CategoryID  string        `json:"category_id"`
	AuthorID    string        `json:"author_id"`
	Status      ArticleStatus `json:"status"`
	SourceURL   string        `json:"source_url,omitempty"`
	ImageURL    string        `json:"image_url,omitempty"`
	PublishedAt time.Time     `json:"published_at"`
}
