// Package notifier provides the action hooks fired for the best new booking location.
//
// The notifier package can open the booking link in the default browser, post it to
// Twitter, or print what would have happened. The poll loop decides whether to fire;
// a notifier only carries out the action.
package notifier
