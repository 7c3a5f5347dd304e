package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/etkinlik-toplayici/etkinlik/internal/logger"
)

const (
	// DefaultTelegramURL is the Bot API endpoint.
	DefaultTelegramURL = "https://api.telegram.org"
	telegramTimeout    = 10 * time.Second
)

// Telegram posts messages to one chat through the Telegram Bot API
type Telegram struct {
	apiURL     string
	botToken   string
	chatID     string
	httpClient *http.Client
}

// NewTelegram creates a Telegram notifier. An empty apiURL selects
// DefaultTelegramURL.
func NewTelegram(apiURL, botToken, chatID string) (*Telegram, error) {
	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}
	if apiURL == "" {
		apiURL = DefaultTelegramURL
	}

	return &Telegram{
		apiURL:   strings.TrimRight(apiURL, "/"),
		botToken: botToken,
		chatID:   chatID,
		httpClient: &http.Client{
			Timeout: telegramTimeout,
		},
	}, nil
}

// Notify sends every message, stopping at the first failure.
func (t *Telegram) Notify(ctx context.Context, msgs []Message) error {
	for i, msg := range msgs {
		if err := t.SendMessage(ctx, FormatHTML(msg)); err != nil {
			return fmt.Errorf("message %d/%d: %w", i+1, len(msgs), err)
		}
		logger.IncrCounter("notify.telegram.sent")
	}
	return nil
}

// SendMessage sends an HTML formatted text to the configured chat
func (t *Telegram) SendMessage(ctx context.Context, text string) error {
	if text == "" {
		return fmt.Errorf("message text is required")
	}

	payload := map[string]interface{}{
		"chat_id":                  t.chatID,
		"text":                     text,
		"parse_mode":               "HTML",
		"disable_web_page_preview": true,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("parsing response: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	return nil
}

// FormatHTML renders a message in Telegram's HTML subset.
func FormatHTML(msg Message) string {
	var b strings.Builder
	fmt.Fprintf(&b, "🆕 <b>%s</b>\n", html.EscapeString(msg.Title))
	fmt.Fprintf(&b, "<i>%s</i>\n\n", html.EscapeString(msg.Source))
	for _, d := range msg.Details {
		b.WriteString(html.EscapeString(d))
		b.WriteByte('\n')
	}
	if msg.Link != "" {
		fmt.Fprintf(&b, "\n🔗 <a href=\"%s\">%s</a>", html.EscapeString(msg.Link), html.EscapeString(linkLabel(msg.Link)))
	}
	return b.String()
}

// linkLabel drops the scheme and a leading "www.".
func linkLabel(link string) string {
	for _, prefix := range []string{"https://", "http://"} {
		link = strings.TrimPrefix(link, prefix)
	}
	return strings.TrimPrefix(link, "www.")
}
