package scraper

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/pfrederiksen/vax-slots/internal/location"
)

const (
	BookableTimesURL = "https://www.vgregion.se/ov/vaccinationstider/bokningsbara-tider/"
	UserAgent        = "vax-slots/1.0 (github.com/pfrederiksen/vax-slots)"
	Timeout          = 30 * time.Second
)

// Options configures a Scraper. Zero values fall back to the package defaults.
type Options struct {
	URL       string
	UserAgent string
	Timeout   time.Duration
}

// Scraper handles fetching and parsing the bookable times page
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
}

// New creates a new Scraper instance
func New(opts Options) *Scraper {
	if opts.URL == "" {
		opts.URL = BookableTimesURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = UserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = Timeout
	}

	return &Scraper{
		client: &http.Client{
			Timeout: opts.Timeout,
		},
		url:       opts.URL,
		userAgent: opts.UserAgent,
	}
}

// URL returns the page the scraper fetches
func (s *Scraper) URL() string {
	return s.url
}

// FetchLocations fetches the booking page and extracts all locations from it
func (s *Scraper) FetchLocations(ctx context.Context) ([]location.Location, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return ParsePage(resp.Body)
}
