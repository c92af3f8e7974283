package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"NewsCuration/internal/config"
	"NewsCuration/internal/domain"
	"NewsCuration/internal/infrastructure/parser"
	"NewsCuration/internal/metrics"
	"NewsCuration/internal/ports"
)

const fallbackRejectReason = "Rejeitado pelo curador"

// CurationDeps wires driven adapters into the curation service.
type CurationDeps struct {
	Items   ports.CurationRepository
	News    ports.ScrapedNewsRepository
	Catalog ports.CategoryCatalog
	// Notifier is optional; announcement failures never undo a publish.
	Notifier ports.Notifier
	Policy   config.PublishConfig
	Logger   *slog.Logger
	Now      func() time.Time
	NewID    func() string
}

// Curation is the single entry point for reviewer reads and curator actions.
type Curation struct {
	items    ports.CurationRepository
	news     ports.ScrapedNewsRepository
	catalog  ports.CategoryCatalog
	notifier ports.Notifier
	policy   config.PublishConfig
	bridge   *PublishBridge
	logger   *slog.Logger
	now      func() time.Time
}

// Outcome is the result of a successful action.
type Outcome struct {
	Item    domain.CurationItem `json:"item"`
	Message string              `json:"message"`
	Changed bool                `json:"changed"`
	Article *domain.Article     `json:"article,omitempty"`
}

// ItemView is what the reviewer sees for one item.
type ItemView struct {
	Item     domain.CurationItem `json:"item"`
	News     domain.ScrapedNews  `json:"news"`
	Category *domain.Category    `json:"category,omitempty"`
	Gaps     []string            `json:"gaps"`
}

// NewCuration constructs the service.
func NewCuration(deps CurationDeps) *Curation {
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	newID := deps.NewID
	if newID == nil {
		newID = uuid.NewString
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Curation{
		items:    deps.Items,
		news:     deps.News,
		catalog:  deps.Catalog,
		notifier: deps.Notifier,
		policy:   deps.Policy,
		bridge:   NewPublishBridge(deps.Items, deps.Policy, now, newID),
		logger:   logger,
		now:      now,
	}
}

// ListPending returns the review queue.
func (c *Curation) ListPending(ctx context.Context, filter domain.ItemFilter) ([]domain.CurationItem, error) {
	items, err := c.items.ListItems(ctx, filter)
	if err != nil {
		return nil, domain.WrapStorage("list items", err)
	}
	return items, nil
}

// GetItem returns one item together with its scraped original, resolved category and content gaps.
func (c *Curation) GetItem(ctx context.Context, id string) (ItemView, error) {
	item, err := c.items.GetItem(ctx, id)
	if err != nil {
		return ItemView{}, domain.WrapStorage("get item", err)
	}

	view := ItemView{Item: item, Gaps: contentGaps(item.Working)}

	if c.news != nil {
		news, err := c.news.GetScrapedNews(ctx, item.ScrapedNewsID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return ItemView{}, domain.WrapStorage("get scraped news", err)
		}
		view.News = news
	}

	if categoryID := item.ResolvedCategoryID(); categoryID != "" && c.catalog != nil {
		category, err := c.catalog.GetCategory(ctx, categoryID)
		switch {
		case err == nil:
			view.Category = &category
		case !errors.Is(err, domain.ErrNotFound):
			return ItemView{}, domain.WrapStorage("get category", err)
		}
	}

	return view, nil
}

// PerformAction applies one curator action to one item.
func (c *Curation) PerformAction(ctx context.Context, id string, action domain.Action) (Outcome, error) {
	if action == nil {
		return Outcome{}, domain.NewError(domain.ErrMissingRequiredField, "perform action", "action is required")
	}

	outcome, err := c.perform(ctx, id, action)

	result := "ok"
	switch {
	case err != nil:
		result = domain.KindOf(err)
		c.logger.WarnContext(ctx, "curation action failed",
			"item_id", id, "action", action.Kind(), "actor", action.Actor(), "kind", result, "error", err)
	case !outcome.Changed:
		result = "noop"
		c.logger.InfoContext(ctx, "curation action repeated", "item_id", id, "action", action.Kind(), "status", outcome.Item.Status)
	default:
		c.logger.InfoContext(ctx, "curation action applied",
			"item_id", id, "action", action.Kind(), "actor", action.Actor(), "status", outcome.Item.Status)
	}
	metrics.RecordAction(string(action.Kind()), result)

	return outcome, err
}

func (c *Curation) perform(ctx context.Context, id string, action domain.Action) (Outcome, error) {
	item, err := c.items.GetItem(ctx, id)
	if err != nil {
		return Outcome{}, domain.WrapStorage("load item", err)
	}

	switch a := action.(type) {
	case domain.Approve:
		return c.approve(ctx, item, a)
	case domain.Reject:
		return c.reject(ctx, item, a)
	case domain.Edit:
		return c.edit(ctx, item, a)
	case domain.Publish:
		return c.publish(ctx, item, a)
	default:
		return Outcome{}, domain.NewError(domain.ErrInvalidTransition, "perform action", fmt.Sprintf("unsupported action %T", action))
	}
}

func (c *Curation) approve(ctx context.Context, item domain.CurationItem, a domain.Approve) (Outcome, error) {
	categoryID := strings.TrimSpace(a.CategoryID)
	if categoryID == "" {
		categoryID = item.ResolvedCategoryID()
	}
	notes := item.CuratorNotes
	if a.Notes != nil {
		notes = *a.Notes
	}

	if item.Status == domain.StatusApproved && categoryID == item.ManualCategoryID && notes == item.CuratorNotes {
		return Outcome{Item: item, Message: "Notícia já aprovada"}, nil
	}

	if err := domain.CheckTransition(item.Status, domain.ActionApprove); err != nil {
		return Outcome{}, err
	}
	if categoryID == "" {
		return Outcome{}, domain.NewError(domain.ErrMissingCategory, "approve", "no category was supplied or suggested")
	}
	category, err := c.lookupCategory(ctx, "approve", categoryID)
	if err != nil {
		return Outcome{}, err
	}

	updated := item
	updated.Status = domain.StatusApproved
	updated.ManualCategoryID = category.ID
	updated.CuratorNotes = notes
	c.stamp(&updated, a.Actor())

	if err := c.save(ctx, "approve", &updated, item.Version); err != nil {
		return Outcome{}, err
	}

	return Outcome{Item: updated, Changed: true, Message: fmt.Sprintf("Notícia aprovada em %s", category.Name)}, nil
}

func (c *Curation) reject(ctx context.Context, item domain.CurationItem, a domain.Reject) (Outcome, error) {
	reason := strings.TrimSpace(a.Reason)
	if reason == "" {
		reason = c.defaultRejectReason()
	}

	if item.Status == domain.StatusRejected && item.RejectionReason == reason {
		return Outcome{Item: item, Message: "Notícia já rejeitada"}, nil
	}

	if err := domain.CheckTransition(item.Status, domain.ActionReject); err != nil {
		return Outcome{}, err
	}

	updated := item
	updated.Status = domain.StatusRejected
	updated.RejectionReason = reason
	c.stamp(&updated, a.Actor())

	if err := c.save(ctx, "reject", &updated, item.Version); err != nil {
		return Outcome{}, err
	}

	return Outcome{Item: updated, Changed: true, Message: "Notícia rejeitada: " + reason}, nil
}

func (c *Curation) edit(ctx context.Context, item domain.CurationItem, a domain.Edit) (Outcome, error) {
	if err := domain.CheckTransition(item.Status, domain.ActionEdit); err != nil {
		return Outcome{}, err
	}

	updated := item
	if a.CategoryID != nil {
		categoryID := strings.TrimSpace(*a.CategoryID)
		if categoryID != "" {
			if _, err := c.lookupCategory(ctx, "edit", categoryID); err != nil {
				return Outcome{}, err
			}
		}
		updated.ManualCategoryID = categoryID
	}
	if a.Title != nil {
		updated.Working.Title = *a.Title
		updated.CuratorTouched = true
	}
	if a.Summary != nil {
		updated.Working.Summary = *a.Summary
		updated.CuratorTouched = true
	}
	if a.Content != nil {
		updated.Working.Content = *a.Content
		updated.CuratorTouched = true
	}
	if a.Notes != nil {
		updated.CuratorNotes = *a.Notes
	}
	updated.Status = domain.StatusEditing
	c.stamp(&updated, a.Actor())

	if err := c.save(ctx, "edit", &updated, item.Version); err != nil {
		return Outcome{}, err
	}

	message := "Edições salvas"
	if a.Empty() {
		message = "Item em edição"
	}
	return Outcome{Item: updated, Changed: true, Message: message}, nil
}

func (c *Curation) publish(ctx context.Context, item domain.CurationItem, a domain.Publish) (Outcome, error) {
	if err := domain.CheckTransition(item.Status, domain.ActionPublish); err != nil {
		return Outcome{}, err
	}

	categoryID := strings.TrimSpace(a.CategoryID)
	if categoryID == "" {
		categoryID = item.ResolvedCategoryID()
	}
	if categoryID == "" {
		return Outcome{}, domain.NewError(domain.ErrMissingCategory, "publish", "no category was supplied or suggested")
	}

	draft := Draft{
		Title:   firstNonEmpty(a.Title, item.Working.Title),
		Summary: firstNonEmpty(a.Summary, item.Working.Summary),
		Content: firstNonEmpty(a.Content, item.Working.Content),
	}
	if missing := draft.missing(); len(missing) > 0 {
		return Outcome{}, domain.NewError(domain.ErrMissingRequiredField, "publish", "missing "+strings.Join(missing, ", "))
	}

	category, err := c.lookupCategory(ctx, "publish", categoryID)
	if err != nil {
		return Outcome{}, err
	}
	draft.Category = category

	if c.news != nil {
		news, err := c.news.GetScrapedNews(ctx, item.ScrapedNewsID)
		if err != nil {
			return Outcome{}, domain.WrapStorage("publish", err)
		}
		draft.SourceURL = news.OriginalURL
		draft.ImageURL = news.ImageURL
	}

	started := c.now()
	updated, article, err := c.bridge.Publish(ctx, item, draft, a.Actor())
	metrics.RecordPublish(c.now().Sub(started).Seconds())
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return Outcome{}, c.conflictError(ctx, "publish", item.ID)
		}
		return Outcome{}, domain.WrapStorage("publish", err)
	}

	if c.notifier != nil {
		if err := c.notifier.ArticlePublished(ctx, article, category); err != nil {
			c.logger.WarnContext(ctx, "publish announcement failed", "item_id", item.ID, "article_id", article.ID, "error", err)
		}
	}

	return Outcome{
		Item:    updated,
		Changed: true,
		Article: &article,
		Message: fmt.Sprintf("Notícia publicada em %s como /%s", category.Name, article.Slug),
	}, nil
}

func (c *Curation) lookupCategory(ctx context.Context, op, id string) (domain.Category, error) {
	if c.catalog == nil {
		return domain.Category{ID: id, Name: id}, nil
	}
	category, err := c.catalog.GetCategory(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return domain.Category{}, domain.NewError(domain.ErrInvalidCategory, op, fmt.Sprintf("category %s does not exist", id))
	}
	if err != nil {
		return domain.Category{}, domain.WrapStorage(op, err)
	}
	return category, nil
}

func (c *Curation) save(ctx context.Context, op string, item *domain.CurationItem, expectedVersion int64) error {
	err := c.items.UpdateItem(ctx, *item, expectedVersion)
	if errors.Is(err, domain.ErrConflict) {
		return c.conflictError(ctx, op, item.ID)
	}
	if err != nil {
		return domain.WrapStorage(op, err)
	}
	item.Version = expectedVersion + 1
	return nil
}

// conflictError explains a lost race using the state that won it.
func (c *Curation) conflictError(ctx context.Context, op, id string) error {
	current, err := c.items.GetItem(ctx, id)
	if err != nil {
		return domain.WrapStorage(op, err)
	}
	if current.Status.Terminal() {
		return domain.NewError(domain.ErrInvalidTransition, op, fmt.Sprintf("item is %s and can no longer change", current.Status))
	}
	return domain.NewError(domain.ErrInvalidTransition, op, "item was changed by another action; reload and retry")
}

func (c *Curation) stamp(item *domain.CurationItem, actor string) {
	if actor != "" {
		item.ReviewedBy = actor
	}
	item.UpdatedAt = c.now().UTC()
}

func (c *Curation) defaultRejectReason() string {
	if reason := strings.TrimSpace(c.policy.DefaultRejectReason); reason != "" {
		return reason
	}
	return fallbackRejectReason
}

func contentGaps(w domain.WorkingCopy) []string {
	var gaps []string
	if strings.TrimSpace(w.Title) == "" {
		gaps = append(gaps, "title")
	}
	if parser.Blank(w.Summary) {
		gaps = append(gaps, "summary")
	}
	if parser.Blank(w.Content) {
		gaps = append(gaps, "content")
	}
	return gaps
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
