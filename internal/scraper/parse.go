package scraper

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/vax-slots/internal/location"
)

// ErrMalformedBlock is wrapped by errors for booking blocks whose shape matched but
// whose content could not be converted.
var ErrMalformedBlock = errors.New("malformed booking block")

// Status classifies the outcome of parsing one booking block
type Status int

const (
	// Parsed means the block produced a complete location
	Parsed Status = iota
	// Skipped means a required element was missing or did not match; not an error
	Skipped
	// Malformed means the block matched but its content is invalid
	Malformed
)

func (s Status) String() string {
	switch s {
	case Parsed:
		return "parsed"
	case Skipped:
		return "skipped"
	case Malformed:
		return "malformed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}

// Result is the outcome of parsing one booking block.
// Location is set only for Parsed, Err only for Malformed.
type Result struct {
	Status   Status
	Location location.Location
	Err      error
}

func skipped() Result {
	return Result{Status: Skipped}
}

// ParseBlock extracts a location from a single booking block
func ParseBlock(block *goquery.Selection) Result {
	heading := block.FindMatcher(headingMatcher).First()
	link := block.FindMatcher(linkMatcher).First()
	annotation := block.FindMatcher(annotationMatcher).First()

	if heading.Length() == 0 || link.Length() == 0 || annotation.Length() == 0 {
		return skipped()
	}

	href, ok := link.Attr(LinkAttr)
	if !ok {
		return skipped()
	}

	label := headingPattern.FindStringSubmatch(heading.Text())
	if label == nil {
		return skipped()
	}

	info := annotationPattern.FindStringSubmatch(annotation.Text())
	if info == nil {
		return skipped()
	}

	available, err := strconv.ParseUint(info[1], 10, 64)
	if err != nil {
		return Result{
			Status: Malformed,
			Err:    fmt.Errorf("%w: available count %q: %w", ErrMalformedBlock, info[1], err),
		}
	}

	return Result{
		Status: Parsed,
		Location: location.Location{
			Region:       strings.TrimSpace(label[1]),
			Organization: strings.TrimSpace(label[2]),
			BookingLink:  href,
			Available:    available,
		},
	}
}

// ParsePage extracts all locations from the booking page in document order
func ParsePage(r io.Reader) ([]location.Location, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	return parseDocument(doc)
}

func parseDocument(doc *goquery.Document) ([]location.Location, error) {
	locations := make([]location.Location, 0)

	var parseErr error
	doc.FindMatcher(blockMatcher).EachWithBreak(func(i int, block *goquery.Selection) bool {
		result := ParseBlock(block)

		switch result.Status {
		case Parsed:
			locations = append(locations, result.Location)
		case Malformed:
			parseErr = fmt.Errorf("block %d: %w", i, result.Err)
			return false
		}

		return true
	})

	if parseErr != nil {
		return nil, parseErr
	}

	return locations, nil
}
