package advisor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsCuration/internal/domain"
	"NewsCuration/internal/ports"
)

// ServiceClient talks to a categorization service over JSON.
type ServiceClient struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

var _ ports.Advisor = (*ServiceClient)(nil)

// NewServiceClient creates a reusable HTTP client; timeout defaults to 15s.
func NewServiceClient(endpoint, apiKey string, timeout time.Duration) *ServiceClient {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ServiceClient{
		endpoint: strings.TrimRight(endpoint, "/"),
		apiKey:   apiKey,
		http:     &http.Client{Timeout: timeout},
	}
}

type categorizeRequest struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
	Content string `json:"content,omitempty"`
}

type categorizeResponse struct {
	SuggestedCategoryID string   `json:"suggested_category_id"`
	Confidence          *float64 `json:"confidence"`
	Reasoning           string   `json:"reasoning"`
}

// Suggest posts the record to /categorize. 204 or an empty body means no suggestion.
func (c *ServiceClient) Suggest(ctx context.Context, news domain.ScrapedNews) (*domain.Suggestion, error) {
	payload := categorizeRequest{
		ID:      news.ID,
		Title:   news.Title,
		Summary: news.Summary,
		Content: news.Content,
	}

	var resp categorizeResponse
	found, err := c.post(ctx, "/categorize", payload, &resp)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}

	suggestion := &domain.Suggestion{
		CategoryID: strings.TrimSpace(resp.SuggestedCategoryID),
		Confidence: resp.Confidence,
		Reasoning:  strings.TrimSpace(resp.Reasoning),
	}
	if suggestion.Empty() {
		return nil, nil
	}
	return suggestion, nil
}

func (c *ServiceClient) post(ctx context.Context, path string, payload any, v any) (bool, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return false, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return false, nil
	}
	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return false, fmt.Errorf("advisor returned %s: %s", resp.Status, strings.TrimSpace(string(snippet)))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode response: %w", err)
	}
	return true, nil
}
