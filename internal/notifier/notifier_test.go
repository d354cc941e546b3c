package notifier

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/dghubble/go-twitter/twitter" //nolint:staticcheck // Using stable v1.1 API
	"github.com/pfrederiksen/vax-slots/internal/location"
)

var sample = location.Location{
	Region:       "Göteborg",
	Organization: "Capio Lundby",
	BookingLink:  "https://example.se/boka/lundby",
	Available:    3,
}

func TestFormatTweet(t *testing.T) {
	tests := []struct {
		name     string
		loc      location.Location
		contains []string
	}{
		{
			name: "complete location",
			loc:  sample,
			contains: []string{
				"Göteborg",
				"Capio Lundby",
				"3 lediga tider",
				"https://example.se/boka/lundby",
				"#vaccin",
			},
		},
		{
			name: "location without link",
			loc:  location.Location{Region: "Ale", Organization: "Nödinge", Available: 1},
			contains: []string{
				"Ale - Nödinge",
				"1 lediga tider",
			},
		},
		{
			name: "very long organization gets truncated",
			loc: location.Location{
				Region:       "Kungälv",
				Organization: strings.Repeat("Närhälsan vårdcentral med ett mycket långt namn ", 10),
				BookingLink:  "https://example.se/boka",
				Available:    7,
			},
			contains: []string{"..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := formatTweet(tt.loc)

			if n := len([]rune(got)); n > maxTweetLength {
				t.Errorf("formatTweet() length = %d, want <= %d", n, maxTweetLength)
			}

			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("formatTweet() missing %q in tweet:\n%s", want, got)
				}
			}
		})
	}
}

type fakeStatuses struct {
	posted []string
	err    error
}

func (f *fakeStatuses) Update(status string, _ *twitter.StatusUpdateParams) (*twitter.Tweet, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.posted = append(f.posted, status)
	return &twitter.Tweet{Text: status}, nil
}

func TestTwitterNotifier(t *testing.T) {
	t.Run("posts formatted tweet", func(t *testing.T) {
		statuses := &fakeStatuses{}
		n := &TwitterNotifier{statuses: statuses}

		if err := n.Notify(sample); err != nil {
			t.Fatalf("Notify() error = %v", err)
		}
		if len(statuses.posted) != 1 || statuses.posted[0] != formatTweet(sample) {
			t.Errorf("posted = %v", statuses.posted)
		}
	})

	t.Run("wraps API errors", func(t *testing.T) {
		apiErr := errors.New("rate limited")
		n := &TwitterNotifier{statuses: &fakeStatuses{err: apiErr}}

		err := n.Notify(sample)
		if !errors.Is(err, apiErr) {
			t.Errorf("Notify() error = %v, want wrapped %v", err, apiErr)
		}
	})

	t.Run("requires credentials", func(t *testing.T) {
		t.Setenv("TWITTER_API_KEY", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")
		t.Setenv("TWITTER_API_SECRET", "")
		t.Setenv("TWITTER_ACCESS_TOKEN", "")
		t.Setenv("TWITTER_ACCESS_SECRET", "")

		if _, err := NewTwitterNotifier(); err == nil {
			t.Error("NewTwitterNotifier() expected error without credentials")
		}
	})
}

func TestBrowserNotifier(t *testing.T) {
	t.Run("opens booking link", func(t *testing.T) {
		var opened []string
		n := &BrowserNotifier{open: func(url string) error {
			opened = append(opened, url)
			return nil
		}}

		if err := n.Notify(sample); err != nil {
			t.Fatalf("Notify() error = %v", err)
		}
		if len(opened) != 1 || opened[0] != sample.BookingLink {
			t.Errorf("opened = %v, want [%s]", opened, sample.BookingLink)
		}
	})

	t.Run("empty link is an error", func(t *testing.T) {
		n := &BrowserNotifier{open: func(string) error {
			t.Error("open should not be called")
			return nil
		}}

		if err := n.Notify(location.Location{Region: "Ale", Organization: "A"}); err == nil {
			t.Error("Notify() expected error for empty link")
		}
	})

	t.Run("wraps open errors", func(t *testing.T) {
		openErr := errors.New("no browser")
		n := &BrowserNotifier{open: func(string) error { return openErr }}

		if err := n.Notify(sample); !errors.Is(err, openErr) {
			t.Errorf("Notify() error = %v, want wrapped %v", err, openErr)
		}
	})
}

func TestDryRunNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := NewDryRunNotifier(&buf)

	if err := n.Notify(sample); err != nil {
		t.Fatalf("DryRunNotifier.Notify() error = %v, want nil", err)
	}

	out := buf.String()
	if !strings.Contains(out, sample.BookingLink) {
		t.Errorf("output %q missing booking link", out)
	}
	if !strings.Contains(out, "Göteborg: Capio Lundby") {
		t.Errorf("output %q missing location key", out)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		action  string
		wantNil bool
		wantErr bool
	}{
		{action: "browser"},
		{action: ""},
		{action: "Dry-Run"},
		{action: "none", wantNil: true},
		{action: "carrier-pigeon", wantNil: true, wantErr: true},
		{action: "twitter", wantNil: true, wantErr: true},
		{action: "telegram", wantNil: true, wantErr: true},
	}

	t.Setenv("TWITTER_API_KEY", "")
	t.Setenv("TELEGRAM_BOT_TOKEN", "")

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			n, err := New(tt.action)

			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.action, err, tt.wantErr)
			}
			if (n == nil) != tt.wantNil {
				t.Errorf("New(%q) = %v, wantNil %v", tt.action, n, tt.wantNil)
			}
		})
	}
}
