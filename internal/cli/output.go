package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/pfrederiksen/vax-slots/internal/filter"
	"github.com/pfrederiksen/vax-slots/internal/location"
	"github.com/pfrederiksen/vax-slots/internal/watch"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// countWidth is the minimum width of the right-aligned availability column
const countWidth = 5

// OutputResult contains data to be output for one cycle
type OutputResult struct {
	CheckedAt   time.Time           `json:"checked_at"`
	Locations   []location.Location `json:"locations"`
	FilteredOut int                 `json:"filtered_out"`
	Candidate   *location.Location  `json:"candidate,omitempty"`
	FirstRun    bool                `json:"first_run"`
	Notified    bool                `json:"notified"`
}

// NewOutputResult flattens a poll cycle for rendering
func NewOutputResult(c *watch.Cycle) *OutputResult {
	return &OutputResult{
		CheckedAt:   c.CheckedAt,
		Locations:   c.Ranking.Locations,
		FilteredOut: c.Ranking.FilteredOut,
		Candidate:   c.Ranking.Candidate,
		FirstRun:    c.FirstRun,
		Notified:    c.Notified,
	}
}

// Styles holds the lipgloss styles used by the text output
type Styles struct {
	Date  lipgloss.Style
	Time  lipgloss.Style
	Count lipgloss.Style
	Link  lipgloss.Style
}

// NewStyles returns the text styles, or unstyled ones when color is false
func NewStyles(color bool) Styles {
	if !color {
		return Styles{
			Date:  lipgloss.NewStyle(),
			Time:  lipgloss.NewStyle(),
			Count: lipgloss.NewStyle(),
			Link:  lipgloss.NewStyle(),
		}
	}

	return Styles{
		Date:  lipgloss.NewStyle().Faint(true),
		Time:  lipgloss.NewStyle().Bold(true),
		Count: lipgloss.NewStyle().Bold(true),
		Link:  lipgloss.NewStyle().Faint(true),
	}
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat, styles Styles) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result, styles)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as a single JSON line per cycle
func writeJSON(w io.Writer, result *OutputResult) error {
	if result.Locations == nil {
		result.Locations = []location.Location{}
	}
	return json.NewEncoder(w).Encode(result)
}

// writeText outputs results as a timestamp header followed by an aligned table
func writeText(w io.Writer, result *OutputResult, styles Styles) error {
	local := result.CheckedAt.Local()
	if _, err := fmt.Fprintf(w, "%s %s\n",
		styles.Date.Render(local.Format("2006-01-02")),
		styles.Time.Render(local.Format("15:04:05")),
	); err != nil {
		return err
	}

	if msg := filter.FilteredMessage(result.FilteredOut); msg != "" {
		if _, err := fmt.Fprintln(w, msg); err != nil {
			return err
		}
	}

	rows := make([][]string, 0, len(result.Locations))
	for _, loc := range result.Locations {
		rows = append(rows, []string{
			styles.Count.Render(padLeft(strconv.FormatUint(loc.Available, 10), countWidth)),
			loc.Region,
			loc.Organization,
			styles.Link.Render(loc.BookingLink),
		})
	}

	_, err := io.WriteString(w, alignColumns(rows))
	return err
}

// alignColumns lays rows out in columns separated by two spaces. Widths are measured
// with lipgloss so styled cells and non-ASCII names line up.
func alignColumns(rows [][]string) string {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if cw := lipgloss.Width(cell); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-lipgloss.Width(cell)+2))
			}
		}
		b.WriteString("\n")
	}
	return b.String()
}

func padLeft(s string, width int) string {
	if n := lipgloss.Width(s); n < width {
		return strings.Repeat(" ", width-n) + s
	}
	return s
}
