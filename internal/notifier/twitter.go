package notifier

import (
	"fmt"
	"os"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/dghubble/oauth1"
	"github.com/pfrederiksen/vax-slots/internal/location"
)

const maxTweetLength = 280

// statusUpdater is the part of the Twitter client the notifier uses
type statusUpdater interface {
	Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, error)
}

type statusService struct {
	client *twitter.Client
}

func (s statusService) Update(status string, params *twitter.StatusUpdateParams) (*twitter.Tweet, error) {
	tweet, _, err := s.client.Statuses.Update(status, params)
	return tweet, err
}

// TwitterNotifier posts the location to Twitter
type TwitterNotifier struct {
	statuses statusUpdater
}

// NewTwitterNotifier creates a new Twitter notifier using environment variables
// Required environment variables:
// - TWITTER_API_KEY
// - TWITTER_API_SECRET
// - TWITTER_ACCESS_TOKEN
// - TWITTER_ACCESS_SECRET
func NewTwitterNotifier() (*TwitterNotifier, error) {
	apiKey := os.Getenv("TWITTER_API_KEY")
	apiSecret := os.Getenv("TWITTER_API_SECRET")
	accessToken := os.Getenv("TWITTER_ACCESS_TOKEN")
	accessSecret := os.Getenv("TWITTER_ACCESS_SECRET")

	if apiKey == "" || apiSecret == "" || accessToken == "" || accessSecret == "" {
		return nil, fmt.Errorf("missing required Twitter credentials in environment variables")
	}

	config := oauth1.NewConfig(apiKey, apiSecret)
	token := oauth1.NewToken(accessToken, accessSecret)
	httpClient := config.Client(oauth1.NoContext, token)

	return &TwitterNotifier{
		statuses: statusService{client: twitter.NewClient(httpClient)},
	}, nil
}

// Notify posts a tweet for the location
func (n *TwitterNotifier) Notify(loc location.Location) error {
	if _, err := n.statuses.Update(formatTweet(loc), nil); err != nil {
		return fmt.Errorf("failed to post tweet for %s: %w", loc.Key(), err)
	}
	return nil
}

// formatTweet formats a location as a tweet
func formatTweet(loc location.Location) string {
	tweet := "💉 Lediga vaccinationstider!\n\n"
	tweet += fmt.Sprintf("📍 %s - %s\n", loc.Region, loc.Organization)
	tweet += fmt.Sprintf("🗓️ %d lediga tider\n", loc.Available)
	if loc.BookingLink != "" {
		tweet += fmt.Sprintf("\n🔗 %s\n", loc.BookingLink)
	}
	tweet += "\n#vaccin #covid19"

	if runes := []rune(tweet); len(runes) > maxTweetLength {
		tweet = string(runes[:maxTweetLength-3]) + "..."
	}

	return tweet
}
