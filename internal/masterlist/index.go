package masterlist

import (
	"sort"
	"strings"
	"time"

	"loadwright/internal/diagnostics"
)

// buildView turns the schema-validated raw entries into a View, applying
// the tie-break and edge-case policies: alias collapse, dropping
// self-referential requirements/incompatibilities, and breaking load-after
// cycles found in the upstream data itself (distinct from the per-user-list
// cycle breaking the load-order optimizer performs). Every dropped edge is
// also reported to diag, which may be nil (tests and offline fixture
// parsing have no bound diagnostics channel).
func buildView(game, version string, fetchedAt time.Time, entries []rawEntry, diag *diagnostics.Channel) *View {
	v := Empty(game)
	v.Version = version
	v.FetchedAt = fetchedAt

	for _, re := range entries {
		canonicalDisplay := re.Name
		key := canonicalize(re.Name)

		entry, exists := v.EntriesByName[canonicalDisplay]
		if !exists {
			entry = &Entry{
				Name:             canonicalDisplay,
				Aliases:          map[string]struct{}{},
				Tags:             map[string]struct{}{},
				Requires:         map[string]struct{}{},
				IncompatibleWith: map[string]struct{}{},
				LoadAfter:        map[string]struct{}{},
				Patches:          map[PairKey]string{},
			}
			v.EntriesByName[canonicalDisplay] = entry
		}

		entry.Dirty = entry.Dirty || re.Dirty
		if re.Notes != "" {
			entry.Notes = re.Notes
		}
		if re.Weight != nil {
			entry.Weight = re.Weight
		}
		if re.MinimumGameVersion != "" {
			entry.MinimumGameVersion = re.MinimumGameVersion
		}
		for _, t := range re.Tags {
			entry.Tags[strings.ToLower(t)] = struct{}{}
		}
		for _, a := range re.Aliases {
			entry.Aliases[canonicalize(a)] = struct{}{}
		}

		v.NameIndex[key] = canonicalDisplay
		for alias := range entry.Aliases {
			v.NameIndex[alias] = canonicalDisplay
		}

		for _, req := range re.Requires {
			if canonicalize(req) == key {
				v.Dropped = append(v.Dropped, DroppedEdge{Reason: "self_reference", From: canonicalDisplay, To: req})
				logDrop(diag, "self_reference", canonicalDisplay, req)
				continue
			}
			entry.Requires[req] = struct{}{}
			if v.RequirementEdges[canonicalDisplay] == nil {
				v.RequirementEdges[canonicalDisplay] = map[string]struct{}{}
			}
			v.RequirementEdges[canonicalDisplay][req] = struct{}{}
		}

		for _, inc := range re.IncompatibleWith {
			if canonicalize(inc) == key {
				v.Dropped = append(v.Dropped, DroppedEdge{Reason: "self_reference", From: canonicalDisplay, To: inc})
				logDrop(diag, "self_reference", canonicalDisplay, inc)
				continue
			}
			entry.IncompatibleWith[inc] = struct{}{}
			v.IncompatPairs[CanonicalPair(canonicalDisplay, inc)] = struct{}{}
		}

		for _, la := range re.LoadAfter {
			if canonicalize(la) == key {
				v.Dropped = append(v.Dropped, DroppedEdge{Reason: "self_reference", From: canonicalDisplay, To: la})
				logDrop(diag, "self_reference", canonicalDisplay, la)
				continue
			}
			entry.LoadAfter[la] = struct{}{}
			if v.LoadAfterEdges[canonicalDisplay] == nil {
				v.LoadAfterEdges[canonicalDisplay] = map[string]struct{}{}
			}
			v.LoadAfterEdges[canonicalDisplay][la] = struct{}{}
		}

		for _, p := range re.Patches {
			if len(p.Pair) == 2 {
				v.PatchMap[CanonicalPair(canonicalize(p.Pair[0]), canonicalize(p.Pair[1]))] = p.Name
				entry.Patches[CanonicalPair(p.Pair[0], p.Pair[1])] = p.Name
			}
		}
	}

	breakUpstreamCycles(v, diag)
	computeWeightTable(v)

	return v
}

// logDrop reports a dropped edge to diag if one is bound.
func logDrop(diag *diagnostics.Channel, reason, from, to string) {
	if diag != nil {
		diag.DroppedEdge(reason, from, to)
	}
}

// canonicalize mirrors listnorm's case-insensitive key normalization for
// masterlist-side names, kept local to avoid an import cycle with listnorm.
func canonicalize(name string) string {
	lower := strings.ToLower(name)
	return strings.ReplaceAll(lower, `\`, "/")
}

// breakUpstreamCycles repeatedly runs Kahn's algorithm over the upstream
// load-after graph. When no zero-indegree node remains but nodes are still
// present, a cycle exists; the edge whose target name sorts
// lexicographically last among all remaining edges is dropped and recorded
// for diagnostics.
func breakUpstreamCycles(v *View, diag *diagnostics.Channel) {
	indegree := map[string]int{}
	nodes := map[string]struct{}{}
	for later, earlier := range v.LoadAfterEdges {
		nodes[later] = struct{}{}
		for e := range earlier {
			nodes[e] = struct{}{}
		}
	}
	for later, earlier := range v.LoadAfterEdges {
		for e := range earlier {
			_ = later
			indegree[e]++
		}
	}
	for n := range nodes {
		if _, ok := indegree[n]; !ok {
			indegree[n] = 0
		}
	}

	for len(nodes) > 0 {
		progressed := false
		for {
			zero := zeroIndegreeNode(nodes, indegree)
			if zero == "" {
				break
			}
			progressed = true
			delete(nodes, zero)
			delete(indegree, zero)
			for e := range v.LoadAfterEdges[zero] {
				if _, ok := nodes[e]; ok {
					indegree[e]--
				}
			}
		}
		if len(nodes) == 0 {
			break
		}
		if progressed {
			continue
		}

		// Cycle: among all remaining edges, drop the one whose target
		// name sorts lexicographically last.
		from, to, found := worstRemainingEdge(nodes, v.LoadAfterEdges)
		if !found {
			break
		}
		delete(v.LoadAfterEdges[from], to)
		if len(v.LoadAfterEdges[from]) == 0 {
			delete(v.LoadAfterEdges, from)
		}
		if entry, ok := v.EntriesByName[from]; ok {
			delete(entry.LoadAfter, to)
		}
		if _, ok := nodes[to]; ok {
			indegree[to]--
		}
		v.Dropped = append(v.Dropped, DroppedEdge{Reason: "cycle", From: from, To: to})
		logDrop(diag, "cycle", from, to)
	}
}

func zeroIndegreeNode(nodes map[string]struct{}, indegree map[string]int) string {
	candidates := make([]string, 0)
	for n := range nodes {
		if indegree[n] <= 0 {
			candidates = append(candidates, n)
		}
	}
	if len(candidates) == 0 {
		return ""
	}
	sort.Strings(candidates)
	return candidates[0]
}

func worstRemainingEdge(nodes map[string]struct{}, edges map[string]map[string]struct{}) (from, to string, found bool) {
	bestTo := ""
	for f := range nodes {
		for t := range edges[f] {
			if _, ok := nodes[t]; !ok {
				continue
			}
			if !found || t > bestTo || (t == bestTo && f < from) {
				from, to, found, bestTo = f, t, true, t
			}
		}
	}
	return
}
