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

	"NewsCuration/internal/config"
	"NewsCuration/internal/domain"
	"NewsCuration/internal/infrastructure/parser"
	"NewsCuration/internal/ports"
)

const maxPromptText = 4000

// ChatClient asks an OpenAI-compatible chat completion API to pick a category.
type ChatClient struct {
	endpoint     string
	model        string
	apiKey       string
	systemPrompt string
	catalog      ports.CategoryCatalog
	httpClient   *http.Client
}

var _ ports.Advisor = (*ChatClient)(nil)

// NewChatClient builds a client from configuration. The catalog feeds the category list into the prompt.
func NewChatClient(cfg config.AdvisorConfig, catalog ports.CategoryCatalog) *ChatClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &ChatClient{
		endpoint:     cfg.Endpoint,
		model:        cfg.Model,
		apiKey:       cfg.APIKey,
		systemPrompt: cfg.SystemPrompt,
		catalog:      catalog,
		httpClient:   &http.Client{Timeout: timeout},
	}
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

type chatVerdict struct {
	CategoryID string   `json:"category_id"`
	Confidence *float64 `json:"confidence"`
	Reasoning  string   `json:"reasoning"`
}

// Suggest sends the record text and returns the model's verdict. An answer without JSON yields no suggestion.
func (c *ChatClient) Suggest(ctx context.Context, news domain.ScrapedNews) (*domain.Suggestion, error) {
	if c == nil {
		return nil, fmt.Errorf("chat advisor is nil")
	}
	if c.apiKey == "" || c.endpoint == "" || c.model == "" {
		return nil, fmt.Errorf("chat advisor misconfigured")
	}

	categories, err := c.catalog.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	body, err := json.Marshal(map[string]any{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": buildSystemPrompt(c.systemPrompt, categories)},
			{"role": "user", "content": buildUserPrompt(news)},
		},
		"temperature": 0,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal chat payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("chat error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode chat response: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return nil, nil
	}

	return parseVerdict(decoded.Choices[0].Message.Content), nil
}

func buildSystemPrompt(prompt string, categories []domain.Category) string {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		prompt = "You classify news articles into one of the portal categories."
	}

	var b strings.Builder
	b.WriteString(prompt)
	b.WriteString("\n\nCategorias disponíveis (id: nome):\n")
	for _, cat := range categories {
		fmt.Fprintf(&b, "- %s: %s\n", cat.ID, cat.Name)
	}
	b.WriteString("\nResponda apenas com JSON: {\"category_id\": \"<id>\", \"confidence\": <0..1>, \"reasoning\": \"<texto curto>\"}.")
	return b.String()
}

func buildUserPrompt(news domain.ScrapedNews) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Título: %s\n", news.Title)
	if summary := parser.PlainText(news.Summary); summary != "" {
		fmt.Fprintf(&b, "Resumo: %s\n", summary)
	}
	if content := parser.Excerpt(news.Content, maxPromptText); content != "" {
		fmt.Fprintf(&b, "Conteúdo: %s\n", content)
	}
	return b.String()
}

func parseVerdict(answer string) *domain.Suggestion {
	start := strings.Index(answer, "{")
	end := strings.LastIndex(answer, "}")
	if start < 0 || end <= start {
		return nil
	}

	var verdict chatVerdict
	if err := json.Unmarshal([]byte(answer[start:end+1]), &verdict); err != nil {
		return nil
	}

	suggestion := &domain.Suggestion{
		CategoryID: strings.TrimSpace(verdict.CategoryID),
		Confidence: verdict.Confidence,
		Reasoning:  strings.TrimSpace(verdict.Reasoning),
	}
	if suggestion.Empty() {
		return nil
	}
	return suggestion
}
