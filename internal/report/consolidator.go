package report

import (
	"sort"

	"loadwright/internal/conflict"
	"loadwright/internal/impact"
	"loadwright/internal/listnorm"
	"loadwright/internal/loadorder"
	"loadwright/internal/masterlist"
)

// Input bundles everything RC needs from CD, LO, SI, plus the request
// context required to fill in the report header.
type Input struct {
	RequestID         string
	Game              string
	MasterlistVersion string
	Records           []listnorm.ModRecord
	Findings          []conflict.Finding
	Order             loadorder.Result
	Degraded          bool
	DeadlineExceeded  bool
	InfoCap           int
}

// Consolidate merges CD/LO/SI outputs into a CanonicalReport, applying an
// info-finding cap. Errors and warnings are always preserved in full;
// info findings beyond InfoCap are dropped from the tail of the
// already-sorted list, and the truncation is always visible via
// InfoCapped/DroppedInfo.
func Consolidate(in Input, view *masterlist.View, impactReport impact.Report) CanonicalReport {
	findings := append([]conflict.Finding{}, in.Findings...)
	findings = append(findings, cycleFindings(in.Order)...)
	attachPatchNotes(findings, view)
	sortFindings(findings)

	var errors, warnings, info []conflict.Finding
	for _, f := range findings {
		switch f.Severity {
		case conflict.SeverityError:
			errors = append(errors, f)
		case conflict.SeverityWarning:
			warnings = append(warnings, f)
		default:
			info = append(info, f)
		}
	}

	infoCap := in.InfoCap
	if infoCap <= 0 {
		infoCap = 12
	}

	rawInfoCount := len(info)
	capped := false
	dropped := 0
	if rawInfoCount > infoCap {
		dropped = rawInfoCount - infoCap
		info = info[:infoCap]
		capped = true
	}

	summary := summarize(in.Records)

	order := make([]string, 0, len(in.Order.Order))
	for _, r := range in.Order.Order {
		order = append(order, r.Name)
	}

	rep := CanonicalReport{
		RequestID:         in.RequestID,
		Game:              in.Game,
		MasterlistVersion: in.MasterlistVersion,
		ListSummary:       summary,
		FindingsBySeverity: FindingsBySeverity{
			Errors:   errors,
			Warnings: warnings,
			Info:     info,
		},
		SuggestedOrder:    order,
		ImpactReport:      impactReport,
		WarningsGenerated: len(warnings),
		InfoCapped:        capped,
		DroppedInfo:       dropped,
		Degraded:          in.Degraded,
		DeadlineExceeded:  in.DeadlineExceeded,
	}

	return rep
}

func summarize(records []listnorm.ModRecord) ListSummary {
	s := ListSummary{TotalEntries: len(records)}
	for _, r := range records {
		if r.Enabled {
			s.EnabledCount++
		} else {
			s.DisabledCount++
		}
	}
	return s
}

// cycleFindings turns LO's dropped edges into load_order_violation
// findings, one per dropped edge.
func cycleFindings(order loadorder.Result) []conflict.Finding {
	var out []conflict.Finding
	for _, v := range order.Violated {
		out = append(out, conflict.Finding{
			Kind:     conflict.KindLoadOrderViolation,
			Severity: conflict.SeverityWarning,
			Subjects: []string{v.Earlier, v.Later},
			Message:  loadorder.FormatViolation(v),
		})
	}
	return out
}

// attachPatchNotes applies a remediation-enrichment rule: if a finding
// references a patch name that also appears in the masterlist, attach
// that patch entry's notes.
func attachPatchNotes(findings []conflict.Finding, view *masterlist.View) {
	if view == nil {
		return
	}
	for i := range findings {
		rem := findings[i].Remediation
		if rem == nil || rem.PatchName == "" || rem.Notes != "" {
			continue
		}
		key := listnorm.Canonicalize(rem.PatchName)
		if entry, ok := view.Lookup(key); ok && entry.Notes != "" {
			rem.Notes = entry.Notes
		}
	}
}

func sortFindings(findings []conflict.Finding) {
	rank := func(s conflict.Severity) int {
		switch s {
		case conflict.SeverityError:
			return 0
		case conflict.SeverityWarning:
			return 1
		default:
			return 2
		}
	}
	sort.SliceStable(findings, func(i, j int) bool {
		a, b := findings[i], findings[j]
		if rank(a.Severity) != rank(b.Severity) {
			return rank(a.Severity) < rank(b.Severity)
		}
		as, bs := subject(a), subject(b)
		if as != bs {
			return as < bs
		}
		return a.Kind < b.Kind
	})
}

func subject(f conflict.Finding) string {
	if len(f.Subjects) == 0 {
		return ""
	}
	return f.Subjects[0]
}
