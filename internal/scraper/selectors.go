package scraper

import (
	"regexp"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// Markup contract with the booking page. Update these when the page layout changes.
const (
	ContainerClass = "mottagningbookabletimeslistblock"
	RowClass       = "block__row"
	MediaClass     = "media"

	BlockSelector      = "." + ContainerClass + " ." + RowClass + "." + MediaClass
	HeadingSelector    = "h3"
	LinkSelector       = "a"
	AnnotationSelector = "span"

	LinkAttr = "href"
)

var (
	blockMatcher      goquery.Matcher = cascadia.MustCompile(BlockSelector)
	headingMatcher    goquery.Matcher = cascadia.MustCompile(HeadingSelector)
	linkMatcher       goquery.Matcher = cascadia.MustCompile(LinkSelector)
	annotationMatcher goquery.Matcher = cascadia.MustCompile(AnnotationSelector)
)

// Separators accept Unicode spaces as well as \s, since &nbsp; arrives as U+00A0.
// Counts match any decimal digit; non-ASCII digits then fail strconv as Malformed.
var (
	// "Göteborg: Vårdcentralen Hjällbo"
	headingPattern = regexp.MustCompile(`^[\s\p{Z}]*([^:]+):[\s\p{Z}]+(.+)$`)

	// "(42 lediga tider)"
	annotationPattern = regexp.MustCompile(`^[\s\p{Z}]*\((\p{Nd}+)`)
)
