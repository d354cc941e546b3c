package location

import "fmt"

// Location represents one clinic's availability entry on the booking page
type Location struct {
	Region       string `json:"region"`
	Organization string `json:"organization"`
	BookingLink  string `json:"booking_link"`
	Available    uint64 `json:"available"`
}

// Key identifies a location across poll cycles. Both fields compare case-sensitively.
type Key struct {
	Region       string `json:"region"`
	Organization string `json:"organization"`
}

// String formats the key as "<region>: <organization>", the way the page labels it
func (k Key) String() string {
	return fmt.Sprintf("%s: %s", k.Region, k.Organization)
}

// Key returns the identity key of the location
func (l Location) Key() Key {
	return Key{Region: l.Region, Organization: l.Organization}
}
