// Package filter ranks the locations that changed in a poll cycle.
//
// Changes are ordered by how few times are left, fewest first, and narrowed to an
// allow-list of regions. The first remaining location is the candidate handed to the
// action hook.
package filter
