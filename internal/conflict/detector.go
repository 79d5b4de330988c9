package conflict

import (
	"fmt"
	"sort"

	"github.com/Masterminds/semver/v3"

	"loadwright/internal/gamedefs"
	"loadwright/internal/listnorm"
	"loadwright/internal/masterlist"
)

// Detect runs a single pass over a normalized mod list and a masterlist
// view, producing every finding kind. It never fails: an empty view
// yields only unknown_mod findings plus plugin-limit computations.
func Detect(records []listnorm.ModRecord, duplicates []listnorm.Duplicate, view *masterlist.View, game gamedefs.Game, gameVersion string) []Finding {
	if view == nil {
		view = masterlist.Empty("")
	}

	enabledByName := map[string]listnorm.ModRecord{}
	presentByName := map[string]listnorm.ModRecord{}
	for _, r := range records {
		key := listnorm.Canonicalize(r.Name)
		presentByName[key] = r
		if r.Enabled {
			enabledByName[key] = r
		}
	}

	var findings []Finding

	findings = append(findings, unknownModFindings(enabledByName, view)...)
	findings = append(findings, missingRequirementFindings(enabledByName, presentByName, view)...)
	findings = append(findings, incompatibleFindings(enabledByName, view)...)
	findings = append(findings, loadOrderViolationFindings(enabledByName, view)...)
	findings = append(findings, dirtyEditFindings(enabledByName, view)...)
	findings = append(findings, duplicateFindings(duplicates)...)
	findings = append(findings, pluginLimitFindings(enabledByName, game)...)
	findings = append(findings, versionMismatchFindings(enabledByName, view, gameVersion)...)

	sortFindings(findings)
	return findings
}

func unknownModFindings(enabled map[string]listnorm.ModRecord, view *masterlist.View) []Finding {
	var out []Finding
	for key, r := range enabled {
		if _, ok := view.Lookup(key); ok {
			continue
		}
		out = append(out, Finding{
			Kind:     KindUnknownMod,
			Severity: SeverityInfo,
			Subjects: []string{r.Name},
			Message:  fmt.Sprintf("%s is not recognized in the masterlist", r.Name),
		})
	}
	return out
}

func missingRequirementFindings(enabled, present map[string]listnorm.ModRecord, view *masterlist.View) []Finding {
	var out []Finding
	for key, r := range enabled {
		entry, ok := view.Lookup(key)
		if !ok {
			continue
		}
		reqs := make([]string, 0, len(entry.Requires))
		for req := range entry.Requires {
			reqs = append(reqs, req)
		}
		sort.Strings(reqs)

		for _, req := range reqs {
			reqKey := listnorm.Canonicalize(req)
			if _, ok := enabled[reqKey]; ok {
				continue
			}
			if presentRec, ok := present[reqKey]; ok && !presentRec.Enabled {
				out = append(out, Finding{
					Kind:     KindMissingRequirement,
					Severity: SeverityWarning,
					Subjects: []string{r.Name, req},
					Message:  fmt.Sprintf("%s requires %s, which is present but disabled", r.Name, req),
				})
				continue
			}
			out = append(out, Finding{
				Kind:     KindMissingRequirement,
				Severity: SeverityError,
				Subjects: []string{r.Name, req},
				Message:  fmt.Sprintf("%s requires %s, which is missing", r.Name, req),
			})
		}
	}
	return out
}

func incompatibleFindings(enabled map[string]listnorm.ModRecord, view *masterlist.View) []Finding {
	seen := map[masterlist.PairKey]struct{}{}
	var out []Finding

	for key, r := range enabled {
		entry, ok := view.Lookup(key)
		if !ok {
			continue
		}
		for other := range entry.IncompatibleWith {
			otherKey := listnorm.Canonicalize(other)
			otherRec, ok := enabled[otherKey]
			if !ok {
				continue
			}
			pair := masterlist.CanonicalPair(r.Name, otherRec.Name)
			if _, dup := seen[pair]; dup {
				continue
			}
			seen[pair] = struct{}{}

			f := Finding{
				Kind:     KindIncompatible,
				Severity: SeverityError,
				Subjects: []string{pair.A, pair.B},
				Message:  fmt.Sprintf("%s is incompatible with %s", pair.A, pair.B),
			}

			mlPair := masterlist.CanonicalPair(key, otherKey)
			if patchName, ok := view.PatchMap[mlPair]; ok {
				f.Remediation = &Remediation{PatchName: patchName, SuggestedAction: "install " + patchName}
				patchKey := listnorm.Canonicalize(patchName)
				if _, patchEnabled := enabled[patchKey]; patchEnabled {
					f.Severity = SeverityInfo
					f.Message = fmt.Sprintf("%s and %s are already reconciled by %s", pair.A, pair.B, patchName)
				}
			}

			out = append(out, f)
		}
	}
	return out
}

func loadOrderViolationFindings(enabled map[string]listnorm.ModRecord, view *masterlist.View) []Finding {
	var out []Finding
	for laterKey, earlierSet := range view.LoadAfterEdges {
		laterRec, ok := enabled[listnorm.Canonicalize(laterKey)]
		if !ok {
			continue
		}
		for earlier := range earlierSet {
			earlierRec, ok := enabled[listnorm.Canonicalize(earlier)]
			if !ok {
				continue
			}
			if laterRec.Extension == listnorm.ExtensionMaster && earlierRec.Extension == listnorm.ExtensionMaster {
				// Masters are re-sorted implicitly by the optimizer.
				continue
			}
			if laterRec.Position > earlierRec.Position {
				continue // already in the correct relative order
			}
			out = append(out, Finding{
				Kind:     KindLoadOrderViolation,
				Severity: SeverityWarning,
				Subjects: []string{earlierRec.Name, laterRec.Name},
				Message:  fmt.Sprintf("%s must load after %s", laterRec.Name, earlierRec.Name),
			})
		}
	}
	return out
}

func dirtyEditFindings(enabled map[string]listnorm.ModRecord, view *masterlist.View) []Finding {
	var out []Finding
	for key, r := range enabled {
		entry, ok := view.Lookup(key)
		if !ok || !entry.Dirty {
			continue
		}
		if hasCleanerPatch(entry, enabled) {
			continue
		}
		f := Finding{
			Kind:     KindDirtyEdit,
			Severity: SeverityInfo,
			Subjects: []string{r.Name},
			Message:  fmt.Sprintf("%s ships with known dirty edits", r.Name),
		}
		if entry.Notes != "" {
			f.Remediation = &Remediation{Notes: entry.Notes}
		}
		out = append(out, f)
	}
	return out
}

func hasCleanerPatch(entry *masterlist.Entry, enabled map[string]listnorm.ModRecord) bool {
	for _, patchName := range entry.Patches {
		if _, ok := enabled[listnorm.Canonicalize(patchName)]; ok {
			return true
		}
	}
	return false
}

func duplicateFindings(duplicates []listnorm.Duplicate) []Finding {
	var out []Finding
	for _, d := range duplicates {
		out = append(out, Finding{
			Kind:      KindDuplicate,
			Severity:  SeverityInfo,
			Subjects:  []string{d.Name},
			Positions: []int{d.FirstPosition, d.Position},
			Message:   fmt.Sprintf("%s appears more than once in the list (positions %d and %d)", d.Name, d.FirstPosition, d.Position),
		})
	}
	return out
}

func pluginLimitFindings(enabled map[string]listnorm.ModRecord, game gamedefs.Game) []Finding {
	var pluginNames, lightNames []string
	for _, r := range enabled {
		switch r.Extension {
		case listnorm.ExtensionLight:
			lightNames = append(lightNames, r.Name)
		case listnorm.ExtensionArchive:
			// archives don't count toward either limit
		default:
			pluginNames = append(pluginNames, r.Name)
		}
	}
	sort.Strings(pluginNames)
	sort.Strings(lightNames)

	var out []Finding
	if f, ok := limitFinding("plugin", pluginNames, game.PluginSoft, game.PluginHard); ok {
		out = append(out, f)
	}
	if game.LightHard > 0 {
		if f, ok := limitFinding("light plugin", lightNames, game.LightSoft, game.LightHard); ok {
			out = append(out, f)
		}
	}
	return out
}

// limitFinding emits a plugin_limit_pressure finding when count exceeds a
// threshold. Subjects carries every contributing name (sorted) so the
// invariant that error findings reference a present, enabled name holds
// even for this list-wide aggregate finding.
func limitFinding(label string, names []string, soft, hard int) (Finding, bool) {
	count := len(names)
	switch {
	case hard > 0 && count > hard:
		return Finding{
			Kind:     KindPluginLimitPressure,
			Severity: SeverityError,
			Subjects: names,
			Message:  fmt.Sprintf("%d %s entries exceed the hard limit of %d", count, label, hard),
		}, true
	case soft > 0 && count > soft:
		return Finding{
			Kind:     KindPluginLimitPressure,
			Severity: SeverityWarning,
			Subjects: names,
			Message:  fmt.Sprintf("%d %s entries exceed the soft limit of %d", count, label, soft),
		}, true
	default:
		return Finding{}, false
	}
}

func versionMismatchFindings(enabled map[string]listnorm.ModRecord, view *masterlist.View, gameVersion string) []Finding {
	if gameVersion == "" {
		return nil
	}
	supplied, err := semver.NewVersion(gameVersion)
	if err != nil {
		return nil
	}

	var out []Finding
	for key, r := range enabled {
		entry, ok := view.Lookup(key)
		if !ok || entry.MinimumGameVersion == "" {
			continue
		}
		minVer, err := semver.NewVersion(entry.MinimumGameVersion)
		if err != nil {
			continue
		}
		if supplied.LessThan(minVer) {
			out = append(out, Finding{
				Kind:     KindVersionMismatch,
				Severity: SeverityWarning,
				Subjects: []string{r.Name},
				Message:  fmt.Sprintf("%s requires game version %s or later, supplied game version is %s", r.Name, entry.MinimumGameVersion, gameVersion),
			})
		}
	}
	return out
}

// sortFindings applies a total, reproducible order: severity descending,
// then first subject lexicographically, then kind.
func sortFindings(findings []Finding) {
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if severityRank(a.Severity) != severityRank(b.Severity) {
			return severityRank(a.Severity) < severityRank(b.Severity)
		}
		aSubject, bSubject := firstSubject(a), firstSubject(b)
		if aSubject != bSubject {
			return aSubject < bSubject
		}
		return a.Kind < b.Kind
	})
}

func firstSubject(f Finding) string {
	if len(f.Subjects) == 0 {
		return ""
	}
	return f.Subjects[0]
}
