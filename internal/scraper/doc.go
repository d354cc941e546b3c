// Package scraper provides HTTP fetching and HTML parsing for the vaccination booking page.
//
// The scraper package fetches the public list of bookable vaccination times and extracts
// one location record per booking block: region and organization from the block heading,
// the booking link, and the number of available times from the inline annotation. Blocks
// that lack any of these are skipped as markup noise; a count that cannot be represented
// aborts the extraction.
package scraper
