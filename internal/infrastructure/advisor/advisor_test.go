package advisor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsCuration/internal/config"
	"NewsCuration/internal/domain"
)

var sampleNews = domain.ScrapedNews{
	ID:      "n1",
	Title:   "Selic fica em 10,5%",
	Summary: "<p>Copom mantém juros.</p>",
}

func TestServiceClientSuggest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/categorize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer key" {
			t.Errorf("missing auth header")
		}
		var req categorizeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.ID != "n1" || req.Content != "" {
			t.Errorf("unexpected request: %+v", req)
		}
		_, _ = w.Write([]byte(`{"suggested_category_id":"economia","confidence":0.82,"reasoning":"juros"}`))
	}))
	defer server.Close()

	client := NewServiceClient(server.URL+"/", "key", 0)
	suggestion, err := client.Suggest(context.Background(), sampleNews)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	if suggestion == nil || suggestion.CategoryID != "economia" || suggestion.Reasoning != "juros" {
		t.Fatalf("unexpected suggestion: %+v", suggestion)
	}
	if suggestion.Confidence == nil || *suggestion.Confidence != 0.82 {
		t.Fatalf("unexpected confidence: %v", suggestion.Confidence)
	}
}

func TestServiceClientNoSuggestion(t *testing.T) {
	t.Parallel()

	cases := map[string]func(w http.ResponseWriter){
		"no content": func(w http.ResponseWriter) { w.WriteHeader(http.StatusNoContent) },
		"empty body": func(w http.ResponseWriter) {},
		"empty json": func(w http.ResponseWriter) { _, _ = w.Write([]byte(`{}`)) },
	}

	for name, respond := range cases {
		respond := respond
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				respond(w)
			}))
			defer server.Close()

			suggestion, err := NewServiceClient(server.URL, "", 0).Suggest(context.Background(), sampleNews)
			if err != nil {
				t.Fatalf("Suggest error: %v", err)
			}
			if suggestion != nil {
				t.Fatalf("expected no suggestion, got %+v", suggestion)
			}
		})
	}
}

func TestServiceClientErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model offline", http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := NewServiceClient(server.URL, "", 0).Suggest(context.Background(), sampleNews)
	if err == nil || !strings.Contains(err.Error(), "model offline") {
		t.Fatalf("expected status error, got %v", err)
	}
}

type staticCatalog []domain.Category

func (s staticCatalog) GetCategory(_ context.Context, id string) (domain.Category, error) {
	for _, c := range s {
		if c.ID == id {
			return c, nil
		}
	}
	return domain.Category{}, domain.NewError(domain.ErrNotFound, "get category", id)
}

func (s staticCatalog) ListCategories(context.Context) ([]domain.Category, error) {
	return s, nil
}

func TestChatClientSuggest(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Model    string              `json:"model"`
			Messages []map[string]string `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Model != "gpt-test" || len(body.Messages) != 2 {
			t.Errorf("unexpected body: %+v", body)
		}
		if !strings.Contains(body.Messages[0]["content"], "- economia: Economia") {
			t.Errorf("system prompt lacks categories: %q", body.Messages[0]["content"])
		}
		if !strings.Contains(body.Messages[1]["content"], "Resumo: Copom mantém juros.") {
			t.Errorf("user prompt lacks plain summary: %q", body.Messages[1]["content"])
		}
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Claro: {\"category_id\":\"economia\",\"confidence\":0.9,\"reasoning\":\"política monetária\"}"}}]}`))
	}))
	defer server.Close()

	client := NewChatClient(config.AdvisorConfig{
		Endpoint: server.URL,
		Model:    "gpt-test",
		APIKey:   "key",
	}, staticCatalog{{ID: "economia", Name: "Economia"}, {ID: "esportes", Name: "Esportes"}})

	suggestion, err := client.Suggest(context.Background(), sampleNews)
	if err != nil {
		t.Fatalf("Suggest error: %v", err)
	}
	if suggestion == nil || suggestion.CategoryID != "economia" || suggestion.Reasoning != "política monetária" {
		t.Fatalf("unexpected suggestion: %+v", suggestion)
	}
}

func TestChatClientMisconfigured(t *testing.T) {
	t.Parallel()

	client := NewChatClient(config.AdvisorConfig{}, staticCatalog{})
	if _, err := client.Suggest(context.Background(), sampleNews); err == nil {
		t.Fatalf("expected misconfiguration error")
	}
}

func TestParseVerdict(t *testing.T) {
	t.Parallel()

	if got := parseVerdict("não sei"); got != nil {
		t.Fatalf("expected nil for prose answer, got %+v", got)
	}
	if got := parseVerdict("{broken"); got != nil {
		t.Fatalf("expected nil for broken json, got %+v", got)
	}
	got := parseVerdict(`{"reasoning":"sem categoria clara"}`)
	if got == nil || got.CategoryID != "" || got.Reasoning != "sem categoria clara" {
		t.Fatalf("unexpected verdict: %+v", got)
	}
}
