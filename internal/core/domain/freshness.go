package domain

// Freshness is the caching lifecycle tag of a fetched resource.
type Freshness string

const (
	FreshnessLoading Freshness = "loading"
	FreshnessFresh   Freshness = "fresh"
	FreshnessStale   Freshness = "stale"
	FreshnessError   Freshness = "error"
)

// FreshnessTransitions defines allowed lifecycle transitions.
// Key is the current state, value is the list of valid next states.
var FreshnessTransitions = map[Freshness][]Freshness{
	FreshnessLoading: {FreshnessFresh, FreshnessError},
	FreshnessFresh:   {FreshnessStale},
	FreshnessStale:   {FreshnessLoading},
	FreshnessError:   {FreshnessLoading},
}

// CanTransition checks if a freshness transition is valid.
func CanTransition(from, to Freshness) bool {
	for _, target := range FreshnessTransitions[from] {
		if target == to {
			return true
		}
	}
	return false
}
