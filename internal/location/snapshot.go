package location

// Snapshot holds the most recently seen location per key.
//
// Entries are never evicted: a location that disappears from the page keeps its
// entry, so if it reappears later with the same count it is not reported again.
type Snapshot struct {
	Locations map[Key]Location
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Locations: make(map[Key]Location),
	}
}

// Len returns the number of known locations
func (s *Snapshot) Len() int {
	return len(s.Locations)
}

// Get returns the stored location for key, if any
func (s *Snapshot) Get(key Key) (Location, bool) {
	loc, ok := s.Locations[key]
	return loc, ok
}

// Reconcile folds current into previous and returns the updated snapshot together
// with the locations that are new or whose availability count changed.
//
// previous is updated in place; a nil previous starts from an empty snapshot.
// Changes are returned in the order of current. If current holds the same key more
// than once, each occurrence is compared against the one before it and the last wins.
func Reconcile(previous *Snapshot, current []Location) (*Snapshot, []Location) {
	if previous == nil {
		previous = NewSnapshot()
	}
	if previous.Locations == nil {
		previous.Locations = make(map[Key]Location)
	}

	changed := make([]Location, 0)

	for _, loc := range current {
		key := loc.Key()

		old, exists := previous.Locations[key]
		if !exists || old.Available != loc.Available {
			changed = append(changed, loc)
		}

		// Always overwrite so a silently changed link is picked up
		previous.Locations[key] = loc
	}

	return previous, changed
}
