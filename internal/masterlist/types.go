package masterlist

import (
	"errors"
	"time"
)

// ErrInvalidSchema is wrapped by schema-validation failures in document.go.
var ErrInvalidSchema = errors.New("masterlist schema violation")

// ErrSourceUnavailable is returned by Load when no cache exists and the
// upstream source cannot be fetched.
var ErrSourceUnavailable = errors.New("masterlist source unavailable")

// Entry is one known mod and its relationships.
type Entry struct {
	Name               string
	Aliases            map[string]struct{}
	Tags               map[string]struct{}
	Requires           map[string]struct{}
	IncompatibleWith   map[string]struct{}
	LoadAfter          map[string]struct{}
	Patches            map[PairKey]string // pair -> patch entry name
	Dirty              bool
	Weight             *int
	Notes              string
	MinimumGameVersion string
}

// PairKey is a canonical, order-independent key for a pair of mod names
// (smaller name first), used for incompatibility sets and the patch map.
type PairKey struct {
	A, B string
}

// CanonicalPair builds a PairKey with the lexicographically smaller name
// first, so (A,B) and (B,A) always collapse to the same key.
func CanonicalPair(a, b string) PairKey {
	if a <= b {
		return PairKey{A: a, B: b}
	}
	return PairKey{A: b, B: a}
}

// DroppedEdge records a load-after edge removed to break a cycle, or a
// self-referential edge discarded at load time, for diagnostics.
type DroppedEdge struct {
	Reason string // "self_reference" | "cycle"
	From   string
	To     string
}

// View is a versioned, read-only snapshot of one game's masterlist data
// plus its derived indices. Once constructed a View is never mutated;
// refresh builds a new View and atomically swaps it in.
type View struct {
	Game      string
	Version   string
	FetchedAt time.Time
	Degraded  bool

	EntriesByName map[string]*Entry // keyed by display name (first-seen casing)
	NameIndex     map[string]string // alias/name (canonical lowercase) -> display name

	RequirementEdges map[string]map[string]struct{} // dependent -> set of requirements
	IncompatPairs    map[PairKey]struct{}
	LoadAfterEdges   map[string]map[string]struct{} // later -> set of earlier
	PatchMap         map[PairKey]string             // pair of canonical lowercase names -> patch name
	WeightTable      map[string]int

	Dropped []DroppedEdge
}

// Lookup resolves a user-supplied (already-canonicalized) name to its
// Entry, following aliases, and returns false if the name is unknown.
func (v *View) Lookup(canonicalName string) (*Entry, bool) {
	display, ok := v.NameIndex[canonicalName]
	if !ok {
		return nil, false
	}
	e, ok := v.EntriesByName[display]
	return e, ok
}

// Empty returns a valid, zero-content view, used when a game has no
// masterlist data cached yet but the caller chooses to proceed in a
// failure-free degraded mode.
func Empty(game string) *View {
	return &View{
		Game:             game,
		EntriesByName:    map[string]*Entry{},
		NameIndex:        map[string]string{},
		RequirementEdges: map[string]map[string]struct{}{},
		IncompatPairs:    map[PairKey]struct{}{},
		LoadAfterEdges:   map[string]map[string]struct{}{},
		PatchMap:         map[PairKey]string{},
		WeightTable:      map[string]int{},
	}
}
