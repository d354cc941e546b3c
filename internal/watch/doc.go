// Package watch runs the poll cycle: fetch the booking page, reconcile the extracted
// locations against the snapshot, rank the changes, and fire the action hook for the
// best allow-listed change. The first cycle of a Watcher never fires the hook, since
// everything it sees is new.
package watch
