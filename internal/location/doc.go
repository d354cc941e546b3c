// Package location provides types and functions for tracking vaccination booking availability.
//
// The location package handles location representation, identity keys, and change detection
// through a process-lifetime snapshot. Each location is identified by its region and
// organization names, enabling reliable tracking of availability counts across poll cycles.
package location
