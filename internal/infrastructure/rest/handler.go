package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"NewsCuration/internal/domain"
	"NewsCuration/internal/usecase"
)

// CuratorHeader carries the reviewer identity when the action payload has no actor.
const CuratorHeader = "X-Curator"

// CurationService is the slice of the curation use case the API drives.
type CurationService interface {
	ListPending(ctx context.Context, filter domain.ItemFilter) ([]domain.CurationItem, error)
	GetItem(ctx context.Context, id string) (usecase.ItemView, error)
	PerformAction(ctx context.Context, id string, action domain.Action) (usecase.Outcome, error)
}

// CurationHandler serves the reviewer endpoints.
type CurationHandler struct {
	curation CurationService
}

// NewCurationHandler creates the handler.
func NewCurationHandler(curation CurationService) *CurationHandler {
	return &CurationHandler{curation: curation}
}

type listResponse struct {
	Items []domain.CurationItem `json:"items"`
	Count int                   `json:"count"`
}

type itemResponse struct {
	Item     domain.CurationItem `json:"item"`
	News     domain.ScrapedNews  `json:"news"`
	Category *domain.Category    `json:"category,omitempty"`
	Gaps     []string            `json:"gaps"`
}

type actionRequest struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type actionResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Changed bool                `json:"changed"`
	Item    domain.CurationItem `json:"item"`
	Article *domain.Article     `json:"article,omitempty"`
}

// List handles GET /curation.
func (h *CurationHandler) List(c echo.Context) error {
	filter, err := parseFilter(c)
	if err != nil {
		return writeMalformed(c, err.Error())
	}

	items, err := h.curation.ListPending(c.Request().Context(), filter)
	if err != nil {
		return writeFailure(c, err)
	}
	if items == nil {
		items = []domain.CurationItem{}
	}
	return c.JSON(http.StatusOK, listResponse{Items: items, Count: len(items)})
}

// Get handles GET /curation/:id.
func (h *CurationHandler) Get(c echo.Context) error {
	view, err := h.curation.GetItem(c.Request().Context(), c.Param("id"))
	if err != nil {
		return writeFailure(c, err)
	}
	gaps := view.Gaps
	if gaps == nil {
		gaps = []string{}
	}
	return c.JSON(http.StatusOK, itemResponse{Item: view.Item, News: view.News, Category: view.Category, Gaps: gaps})
}

// Act handles PUT /curation/:id with an {action, data} body.
func (h *CurationHandler) Act(c echo.Context) error {
	var req actionRequest
	if err := c.Bind(&req); err != nil {
		return writeMalformed(c, "body must be a JSON object with action and data")
	}

	action, err := decodeAction(req, c.Request().Header.Get(CuratorHeader))
	if err != nil {
		return writeMalformed(c, err.Error())
	}

	outcome, err := h.curation.PerformAction(c.Request().Context(), c.Param("id"), action)
	if err != nil {
		return writeFailure(c, err)
	}

	return c.JSON(http.StatusOK, actionResponse{
		Success: true,
		Message: outcome.Message,
		Changed: outcome.Changed,
		Item:    outcome.Item,
		Article: outcome.Article,
	})
}

// Health handles GET /healthz.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func decodeAction(req actionRequest, curator string) (domain.Action, error) {
	data := bytes.TrimSpace(req.Data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		data = []byte("{}")
	}
	curator = strings.TrimSpace(curator)

	switch domain.ActionKind(strings.ToLower(strings.TrimSpace(req.Action))) {
	case domain.ActionApprove:
		var a domain.Approve
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("invalid approve data: %w", err)
		}
		if a.By == "" {
			a.By = curator
		}
		return a, nil
	case domain.ActionReject:
		var a domain.Reject
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("invalid reject data: %w", err)
		}
		if a.By == "" {
			a.By = curator
		}
		return a, nil
	case domain.ActionEdit:
		var a domain.Edit
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("invalid edit data: %w", err)
		}
		if a.By == "" {
			a.By = curator
		}
		return a, nil
	case domain.ActionPublish:
		var a domain.Publish
		if err := json.Unmarshal(data, &a); err != nil {
			return nil, fmt.Errorf("invalid publish data: %w", err)
		}
		if a.By == "" {
			a.By = curator
		}
		return a, nil
	case "":
		return nil, fmt.Errorf("action is required")
	default:
		return nil, fmt.Errorf("unknown action %q", req.Action)
	}
}

func parseFilter(c echo.Context) (domain.ItemFilter, error) {
	var filter domain.ItemFilter

	for _, raw := range c.QueryParams()["status"] {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			status := domain.Status(strings.ToLower(part))
			if !status.Valid() {
				return filter, fmt.Errorf("unknown status %q", part)
			}
			filter.Statuses = append(filter.Statuses, status)
		}
	}

	filter.SourceID = strings.TrimSpace(c.QueryParam("source"))
	filter.CategoryID = strings.TrimSpace(c.QueryParam("category"))

	if raw := c.QueryParam("min_confidence"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 || v > 1 {
			return filter, fmt.Errorf("min_confidence must be a number between 0 and 1")
		}
		filter.MinConfidence = &v
	}

	var err error
	if filter.Limit, err = intParam(c, "limit"); err != nil {
		return filter, err
	}
	if filter.Offset, err = intParam(c, "offset"); err != nil {
		return filter, err
	}
	return filter, nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", name)
	}
	return v, nil
}
