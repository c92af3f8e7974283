package domain

import "time"

// Status enumerates review milestones of a curation item.
type Status string

const (
	StatusPending   Status = "pending"
	StatusEditing   Status = "editing"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusPublished Status = "published"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusEditing, StatusApproved, StatusRejected, StatusPublished:
		return true
	}
	return false
}

// Terminal statuses accept no further actions.
func (s Status) Terminal() bool {
	return s == StatusRejected || s == StatusPublished
}

// Suggestion is the advisor's output. Every field is optional.
type Suggestion struct {
	CategoryID string   `json:"suggested_category_id,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
	Reasoning  string   `json:"reasoning,omitempty"`
}

// Empty reports whether the advisor said nothing useful.
func (s Suggestion) Empty() bool {
	return s.CategoryID == "" && s.Confidence == nil && s.Reasoning == ""
}

// WorkingCopy is the curator-editable text of an item.
type WorkingCopy struct {
	Title   string `json:"title"`
	Summary string `json:"summary"`
	Content string `json:"content"`
}

// CurationItem wraps one scraped record with its review state.
type CurationItem struct {
	ID                  string      `json:"id"`
	ScrapedNewsID       string      `json:"scraped_news_id"`
	Status              Status      `json:"status"`
	SuggestedCategoryID string      `json:"suggested_category_id,omitempty"`
	ManualCategoryID    string      `json:"manual_category_id,omitempty"`
	AIConfidence        *float64    `json:"ai_confidence,omitempty"`
	AIReasoning         string      `json:"ai_category_reasoning,omitempty"`
	CuratorNotes        string      `json:"curator_notes,omitempty"`
	Working             WorkingCopy `json:"working_copy"`
	CuratorTouched      bool        `json:"curator_touched"`
	RejectionReason     string      `json:"rejection_reason,omitempty"`
	PublishedArticleID  string      `json:"published_article_id,omitempty"`
	ReviewedBy          string      `json:"reviewed_by,omitempty"`
	Version             int64       `json:"version"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

// NewCurationItem starts a pending item whose working copy mirrors the scraped record.
func NewCurationItem(id string, news ScrapedNews, suggestion *Suggestion, now time.Time) CurationItem {
	item := CurationItem{
		ID:            id,
		ScrapedNewsID: news.ID,
		Status:        StatusPending,
		Working: WorkingCopy{
			Title:   news.Title,
			Summary: news.Summary,
			Content: news.Content,
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if suggestion != nil {
		item.ApplySuggestion(*suggestion)
	}
	return item
}

// ApplySuggestion records advisor output. The working copy is never touched.
func (c *CurationItem) ApplySuggestion(s Suggestion) {
	c.SuggestedCategoryID = s.CategoryID
	c.AIConfidence = s.Confidence
	c.AIReasoning = s.Reasoning
}

// ResolvedCategoryID prefers the curator's choice over the advisor's.
func (c CurationItem) ResolvedCategoryID() string {
	if c.ManualCategoryID != "" {
		return c.ManualCategoryID
	}
	return c.SuggestedCategoryID
}

// ItemFilter narrows the review queue listing.
type ItemFilter struct {
	Statuses      []Status
	SourceID      string
	CategoryID    string
	MinConfidence *float64
	Limit         int
	Offset        int
}

// DefaultQueueStatuses are listed when a filter names none.
var DefaultQueueStatuses = []Status{StatusPending, StatusEditing}
