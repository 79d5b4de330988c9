// Package loadorder implements the Load-Order Optimizer (LO): a
// deterministic topological sort of enabled mod entries respecting
// load_after edges and the master/plugin/light bucket convention.
package loadorder

import (
	"fmt"
	"sort"

	"loadwright/internal/listnorm"
	"loadwright/internal/masterlist"
)

// DroppedEdgeReason is the reason a load_after edge could not be honored
// in the suggested order.
type DroppedEdgeReason string

const (
	ReasonCycle DroppedEdgeReason = "cycle"
)

// ViolatedEdge is one load_after edge the suggested order could not
// satisfy, with its reason.
type ViolatedEdge struct {
	Earlier string
	Later   string
	Reason  DroppedEdgeReason
}

// Result holds the ordered, enabled user-list entries plus any edges
// dropped to break a cycle.
type Result struct {
	Order    []listnorm.ModRecord
	Violated []ViolatedEdge
}

// Optimize produces a suggested load order for the enabled subset of
// records: bucket by extension class, Kahn's algorithm within each bucket
// with (priority weight, then name) tie-breaking. When a cycle leaves no
// candidate, every edge still among the remaining nodes is reported as
// violated and the remaining nodes are flushed in name order.
func Optimize(records []listnorm.ModRecord, view *masterlist.View) Result {
	if view == nil {
		view = masterlist.Empty("")
	}

	enabled := make([]listnorm.ModRecord, 0, len(records))
	for _, r := range records {
		if r.Enabled {
			enabled = append(enabled, r)
		}
	}

	buckets := map[listnorm.Extension][]listnorm.ModRecord{
		listnorm.ExtensionMaster: {},
		listnorm.ExtensionPlugin: {},
		listnorm.ExtensionLight:  {},
	}
	for _, r := range enabled {
		cls := r.Extension
		if cls != listnorm.ExtensionMaster && cls != listnorm.ExtensionLight {
			cls = listnorm.ExtensionPlugin // unknown-extension entries join the plugin bucket
		}
		buckets[cls] = append(buckets[cls], r)
	}

	var result Result
	for _, cls := range []listnorm.Extension{listnorm.ExtensionMaster, listnorm.ExtensionPlugin, listnorm.ExtensionLight} {
		ordered, violated := sortBucket(buckets[cls], view)
		result.Order = append(result.Order, ordered...)
		result.Violated = append(result.Violated, violated...)
	}

	return result
}

// sortBucket runs Kahn's algorithm over the subgraph of load_after edges
// whose endpoints both belong to this bucket.
func sortBucket(bucket []listnorm.ModRecord, view *masterlist.View) ([]listnorm.ModRecord, []ViolatedEdge) {
	if len(bucket) == 0 {
		return nil, nil
	}

	byKey := make(map[string]listnorm.ModRecord, len(bucket))
	inBucket := make(map[string]struct{}, len(bucket))
	for _, r := range bucket {
		key := listnorm.Canonicalize(r.Name)
		byKey[key] = r
		inBucket[key] = struct{}{}
	}

	// edges[later] = set of earlier keys that must precede it
	edges := map[string]map[string]struct{}{}
	indegree := map[string]int{}
	for key := range inBucket {
		indegree[key] = 0
	}
	for laterKey := range inBucket {
		entry, ok := view.Lookup(laterKey)
		if !ok {
			continue
		}
		for earlier := range entry.LoadAfter {
			earlierKey := listnorm.Canonicalize(earlier)
			if _, ok := inBucket[earlierKey]; !ok {
				continue // cross-bucket edge, ignored for ordering
			}
			if edges[laterKey] == nil {
				edges[laterKey] = map[string]struct{}{}
			}
			if _, dup := edges[laterKey][earlierKey]; dup {
				continue
			}
			edges[laterKey][earlierKey] = struct{}{}
			indegree[laterKey]++
		}
	}

	weight := func(key string) int {
		if entry, ok := view.Lookup(key); ok && entry.Weight != nil {
			return *entry.Weight
		}
		return 0
	}

	remaining := make(map[string]struct{}, len(bucket))
	for key := range inBucket {
		remaining[key] = struct{}{}
	}

	var order []string
	var violated []ViolatedEdge

	for len(remaining) > 0 {
		candidates := make([]string, 0)
		for key := range remaining {
			if indegree[key] == 0 {
				candidates = append(candidates, key)
			}
		}

		if len(candidates) == 0 {
			// Cycle: emit a finding for every remaining edge, then flush
			// survivors in lexicographic order.
			remainingNames := make([]string, 0, len(remaining))
			for key := range remaining {
				remainingNames = append(remainingNames, key)
			}
			sort.Strings(remainingNames)

			for _, laterKey := range remainingNames {
				earlierKeys := make([]string, 0, len(edges[laterKey]))
				for e := range edges[laterKey] {
					if _, stillHere := remaining[e]; stillHere {
						earlierKeys = append(earlierKeys, e)
					}
				}
				sort.Strings(earlierKeys)
				for _, e := range earlierKeys {
					violated = append(violated, ViolatedEdge{
						Earlier: byKey[e].Name,
						Later:   byKey[laterKey].Name,
						Reason:  ReasonCycle,
					})
				}
			}

			order = append(order, remainingNames...)
			break
		}

		// Pick by (a) higher priority weight, else (b) lexicographic name.
		sort.Slice(candidates, func(i, j int) bool {
			wi, wj := weight(candidates[i]), weight(candidates[j])
			if wi != wj {
				return wi > wj
			}
			return candidates[i] < candidates[j]
		})

		chosen := candidates[0]
		order = append(order, chosen)
		delete(remaining, chosen)
		for laterKey, earlierSet := range edges {
			if _, stillHere := remaining[laterKey]; !stillHere {
				continue
			}
			if _, wasEarlier := earlierSet[chosen]; wasEarlier {
				indegree[laterKey]--
			}
		}
	}

	out := make([]listnorm.ModRecord, 0, len(order))
	for _, key := range order {
		out = append(out, byKey[key])
	}
	return out, violated
}

// FormatViolation renders a human-readable message for a ViolatedEdge, used
// by the Result Consolidator when turning dropped edges into diagnostics.
func FormatViolation(v ViolatedEdge) string {
	return fmt.Sprintf("%s must load after %s but a cycle prevented it (reason: %s)", v.Later, v.Earlier, v.Reason)
}
