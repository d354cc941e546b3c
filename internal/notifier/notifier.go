package notifier

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pfrederiksen/vax-slots/internal/location"
)

// Action names accepted by New
const (
	ActionBrowser  = "browser"
	ActionTwitter  = "twitter"
	ActionTelegram = "telegram"
	ActionDryRun   = "dry-run"
	ActionNone     = "none"
)

// Notifier defines the interface for acting on the primary candidate of a poll cycle
type Notifier interface {
	// Notify acts on the given location
	Notify(loc location.Location) error
}

// New creates the notifier for an action name. ActionNone returns a nil Notifier.
func New(action string) (Notifier, error) {
	switch strings.ToLower(strings.TrimSpace(action)) {
	case ActionBrowser, "":
		return NewBrowserNotifier(), nil
	case ActionTwitter:
		n, err := NewTwitterNotifier()
		if err != nil {
			return nil, err
		}
		return n, nil
	case ActionTelegram:
		n, err := NewTelegramNotifier()
		if err != nil {
			return nil, err
		}
		return n, nil
	case ActionDryRun:
		return NewDryRunNotifier(os.Stdout), nil
	case ActionNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown action: %s", action)
	}
}

// DryRunNotifier prints the booking link that would be opened
type DryRunNotifier struct {
	out io.Writer
}

// NewDryRunNotifier creates a new dry-run notifier writing to out
func NewDryRunNotifier(out io.Writer) *DryRunNotifier {
	return &DryRunNotifier{out: out}
}

// Notify prints the location instead of acting on it
func (n *DryRunNotifier) Notify(loc location.Location) error {
	_, err := fmt.Fprintf(n.out, "Would open %s (%d available at %s)\n", loc.BookingLink, loc.Available, loc.Key())
	return err
}
