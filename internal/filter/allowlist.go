package filter

// DefaultRegions are the municipalities watched when nothing else is configured
var DefaultRegions = []string{"Ale", "Göteborg", "Kungälv", "Mölndal"}

// AllowList is a set of region names. Membership is exact and case-sensitive.
type AllowList struct {
	regions map[string]struct{}
	order   []string
}

// NewAllowList creates an allow-list from region names. Duplicates are ignored.
func NewAllowList(regions ...string) *AllowList {
	a := &AllowList{
		regions: make(map[string]struct{}, len(regions)),
		order:   make([]string, 0, len(regions)),
	}

	for _, r := range regions {
		if _, ok := a.regions[r]; ok {
			continue
		}
		a.regions[r] = struct{}{}
		a.order = append(a.order, r)
	}

	return a
}

// Allows reports whether region is on the list
func (a *AllowList) Allows(region string) bool {
	if a == nil {
		return false
	}
	_, ok := a.regions[region]
	return ok
}

// Regions returns the region names in the order they were given
func (a *AllowList) Regions() []string {
	if a == nil {
		return nil
	}
	out := make([]string, len(a.order))
	copy(out, a.order)
	return out
}

// Len returns the number of distinct regions
func (a *AllowList) Len() int {
	if a == nil {
		return 0
	}
	return len(a.order)
}
