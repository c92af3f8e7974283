package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsCuration/internal/config"
	"NewsCuration/internal/domain"
	"NewsCuration/internal/ports"
)

// Notifier posts publish announcements to a Telegram chat via bot API.
type Notifier struct {
	botToken   string
	chatID     string
	apiBase    string
	portalBase string
	client     *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(cfg config.TelegramConfig) *Notifier {
	apiBase := strings.TrimRight(cfg.APIBase, "/")
	if apiBase == "" {
		apiBase = "https://api.telegram.org"
	}
	return &Notifier{
		botToken:   cfg.BotToken,
		chatID:     cfg.ChatID,
		apiBase:    apiBase,
		portalBase: strings.TrimRight(cfg.PortalBase, "/"),
		client:     &http.Client{Timeout: 5 * time.Second},
	}
}

// ArticlePublished posts a Markdown message announcing the article.
func (n *Notifier) ArticlePublished(ctx context.Context, article domain.Article, category domain.Category) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", n.message(article, category))
	form.Set("parse_mode", "Markdown")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}

func (n *Notifier) message(article domain.Article, category domain.Category) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s* publicada em _%s_\n", escape(article.Title), escape(category.Name))
	if article.Excerpt != "" {
		b.WriteString(escape(article.Excerpt))
		b.WriteString("\n")
	}
	if n.portalBase != "" {
		fmt.Fprintf(&b, "%s/%s", n.portalBase, article.Slug)
	} else {
		fmt.Fprintf(&b, "/%s", article.Slug)
	}
	return b.String()
}

var markdownEscaper = strings.NewReplacer("_", "\\_", "*", "\\*", "`", "\\`", "[", "\\[")

func escape(s string) string {
	return markdownEscaper.Replace(s)
}
