package notifier

import (
	"fmt"
	"io"

	"github.com/pkg/browser"
	"github.com/pfrederiksen/vax-slots/internal/location"
)

// BrowserNotifier opens the booking link in the user's default browser
type BrowserNotifier struct {
	open func(url string) error
}

// NewBrowserNotifier creates a new browser notifier
func NewBrowserNotifier() *BrowserNotifier {
	// Keep the launched browser's chatter out of the availability table
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard

	return &BrowserNotifier{open: browser.OpenURL}
}

// Notify opens the location's booking link
func (n *BrowserNotifier) Notify(loc location.Location) error {
	if loc.BookingLink == "" {
		return fmt.Errorf("no booking link for %s", loc.Key())
	}

	if err := n.open(loc.BookingLink); err != nil {
		return fmt.Errorf("opening %s: %w", loc.BookingLink, err)
	}

	return nil
}
