// Package cli implements the command-line interface for vax-slots.
//
// The cli package provides the Cobra-based root command, resolves configuration through
// viper, and renders each poll cycle as an aligned text table or as JSON. It coordinates
// the scraper, watch, and notifier packages to poll the booking page and report new or
// changed availability.
package cli
