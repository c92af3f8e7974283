package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsCuration/internal/domain"
	"NewsCuration/internal/metrics"
	"NewsCuration/internal/ports"
)

const defaultBatchSize = 50

// IntakeDeps wires all driven adapters into the intake job.
type IntakeDeps struct {
	News      ports.ScrapedNewsRepository
	Items     ports.CurationRepository
	Catalog   ports.CategoryCatalog
	Advisor   ports.Advisor
	BatchSize int
	Logger    *slog.Logger
	Now       func() time.Time
	NewID     func() string
}

// Intake queues freshly scraped records for review, annotated by the advisor.
type Intake struct {
	news      ports.ScrapedNewsRepository
	items     ports.CurationRepository
	catalog   ports.CategoryCatalog
	advisor   ports.Advisor
	batchSize int
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// IntakeReport summarizes one run.
type IntakeReport struct {
	Seen          int
	Queued        int
	Duplicates    int
	AdvisorErrors int
}

// NewIntake constructs the intake job.
func NewIntake(deps IntakeDeps) *Intake {
	in := &Intake{
		news:      deps.News,
		items:     deps.Items,
		catalog:   deps.Catalog,
		advisor:   deps.Advisor,
		batchSize: deps.BatchSize,
		logger:    deps.Logger,
		now:       deps.Now,
		newID:     deps.NewID,
	}
	if in.batchSize <= 0 {
		in.batchSize = defaultBatchSize
	}
	if in.logger == nil {
		in.logger = slog.New(slog.DiscardHandler)
	}
	if in.now == nil {
		in.now = time.Now
	}
	if in.newID == nil {
		in.newID = uuid.NewString
	}
	return in
}

// Run queues up to one batch of unqueued records. The advisor is asked once per record;
// its failure never blocks queueing.
func (in *Intake) Run(ctx context.Context) (IntakeReport, error) {
	var report IntakeReport
	if in.news == nil || in.items == nil {
		return report, nil
	}

	records, err := in.news.ListUnqueued(ctx, in.batchSize)
	if err != nil {
		return report, fmt.Errorf("list unqueued: %w", err)
	}

	for _, news := range records {
		report.Seen++

		suggestion, err := in.suggest(ctx, news)
		if err != nil {
			report.AdvisorErrors++
			metrics.RecordIntake("advisor_error")
			in.logger.WarnContext(ctx, "advisor failed, queueing without suggestion", "scraped_news_id", news.ID, "error", err)
		}

		item := domain.NewCurationItem(in.newID(), news, suggestion, in.now().UTC())
		created, err := in.items.CreateItem(ctx, item)
		if err != nil {
			metrics.RecordIntake("failed")
			return report, fmt.Errorf("queue scraped news %s: %w", news.ID, err)
		}
		if !created {
			report.Duplicates++
			metrics.RecordIntake("duplicate")
			continue
		}

		report.Queued++
		metrics.RecordIntake("queued")
		in.logger.DebugContext(ctx, "queued for review",
			"item_id", item.ID, "scraped_news_id", news.ID, "suggested_category", item.SuggestedCategoryID)
	}

	in.logger.InfoContext(ctx, "intake finished",
		"seen", report.Seen, "queued", report.Queued, "duplicates", report.Duplicates, "advisor_errors", report.AdvisorErrors)
	return report, nil
}

func (in *Intake) suggest(ctx context.Context, news domain.ScrapedNews) (*domain.Suggestion, error) {
	if in.advisor == nil {
		return nil, nil
	}
	suggestion, err := in.advisor.Suggest(ctx, news)
	if err != nil || suggestion == nil {
		return nil, err
	}
	return in.normalize(ctx, *suggestion)
}

// normalize clamps confidence to [0,1] and drops category ids the catalog does not know.
func (in *Intake) normalize(ctx context.Context, s domain.Suggestion) (*domain.Suggestion, error) {
	if s.Confidence != nil {
		c := min(max(*s.Confidence, 0), 1)
		s.Confidence = &c
	}

	if s.CategoryID != "" && in.catalog != nil {
		_, err := in.catalog.GetCategory(ctx, s.CategoryID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			in.logger.WarnContext(ctx, "advisor suggested unknown category", "category_id", s.CategoryID)
			s.CategoryID = ""
		case err != nil:
			return nil, err
		}
	}

	if s.Empty() {
		return nil, nil
	}
	return &s, nil
}
