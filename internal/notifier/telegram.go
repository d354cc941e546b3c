package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pfrederiksen/vax-slots/internal/location"
)

const telegramTimeout = 10 * time.Second

var telegramBaseURL = "https://api.telegram.org/bot"

// TelegramNotifier sends the location to a Telegram chat through a bot
type TelegramNotifier struct {
	botToken   string
	chatID     string
	httpClient *http.Client
}

// NewTelegramNotifier creates a Telegram notifier using environment variables
// Required environment variables:
// - TELEGRAM_BOT_TOKEN
// - TELEGRAM_CHAT_ID
func NewTelegramNotifier() (*TelegramNotifier, error) {
	botToken := os.Getenv("TELEGRAM_BOT_TOKEN")
	chatID := os.Getenv("TELEGRAM_CHAT_ID")

	if botToken == "" {
		return nil, fmt.Errorf("bot token is required")
	}
	if chatID == "" {
		return nil, fmt.Errorf("chat ID is required")
	}

	return &TelegramNotifier{
		botToken: botToken,
		chatID:   chatID,
		httpClient: &http.Client{
			Timeout: telegramTimeout,
		},
	}, nil
}

// Notify sends a message describing the location
func (n *TelegramNotifier) Notify(loc location.Location) error {
	url := fmt.Sprintf("%s%s/sendMessage", telegramBaseURL, n.botToken)

	payload := map[string]interface{}{
		"chat_id":    n.chatID,
		"text":       formatTelegram(loc),
		"parse_mode": "HTML",
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("telegram API error (status %d): %s", resp.StatusCode, string(body))
	}

	if !result.OK {
		return fmt.Errorf("telegram API error: %s", result.Description)
	}

	return nil
}

// formatTelegram formats a location as an HTML Telegram message
func formatTelegram(loc location.Location) string {
	msg := fmt.Sprintf("💉 <b>%d lediga tider</b>\n📍 %s - %s",
		loc.Available,
		html.EscapeString(loc.Region),
		html.EscapeString(loc.Organization),
	)
	if loc.BookingLink != "" {
		msg += fmt.Sprintf("\n🔗 <a href=\"%s\">Boka tid</a>", html.EscapeString(loc.BookingLink))
	}
	return msg
}
