package conflict

import (
	"fmt"
	"testing"
	"time"

	"loadwright/internal/gamedefs"
	"loadwright/internal/listnorm"
	"loadwright/internal/masterlist"
)

func normalize(t *testing.T, raw string) ([]listnorm.ModRecord, []listnorm.Duplicate) {
	t.Helper()
	res := listnorm.Normalize(raw)
	return res.Records, res.Duplicates
}

func buildTestView(t *testing.T, yamlDoc string) *masterlist.View {
	t.Helper()
	v, err := masterlist.ParseView("skyrimse", "test", time.Now(), []byte(yamlDoc))
	if err != nil {
		t.Fatalf("building test view: %v", err)
	}
	return v
}

var skyrimSE, _ = gamedefs.Lookup("skyrimse")

func findingsOfKind(findings []Finding, kind Kind) []Finding {
	var out []Finding
	for _, f := range findings {
		if f.Kind == kind {
			out = append(out, f)
		}
	}
	return out
}

func TestDetect(t *testing.T) {
	t.Run("missing requirement emits an error naming both mods", func(t *testing.T) {
		view := buildTestView(t, `
entries:
  - name: SkyUI.esp
    requires: [SKSE.esp]
`)
		records, dups := normalize(t, "USSEP.esp\nSkyUI.esp")
		findings := Detect(records, dups, view, skyrimSE, "")

		missing := findingsOfKind(findings, KindMissingRequirement)
		if len(missing) != 1 {
			t.Fatalf("expected 1 missing_requirement finding, got %d", len(missing))
		}
		if missing[0].Severity != SeverityError {
			t.Errorf("expected error severity, got %s", missing[0].Severity)
		}
		if missing[0].Subjects[0] != "SkyUI.esp" || missing[0].Subjects[1] != "SKSE.esp" {
			t.Errorf("unexpected subjects: %v", missing[0].Subjects)
		}
	})

	t.Run("present but disabled requirement downgrades to warning", func(t *testing.T) {
		view := buildTestView(t, `
entries:
  - name: X.esp
    requires: [Y.esp]
`)
		records, dups := normalize(t, "-Y.esp\nX.esp")
		findings := Detect(records, dups, view, skyrimSE, "")

		missing := findingsOfKind(findings, KindMissingRequirement)
		if len(missing) != 1 || missing[0].Severity != SeverityWarning {
			t.Fatalf("expected 1 warning-level missing_requirement, got %+v", missing)
		}
	})

	t.Run("incompatible pair with no patch is a symmetric error", func(t *testing.T) {
		view := buildTestView(t, `
entries:
  - name: Ordinator.esp
    incompatible_with: [Adamant.esp]
`)
		records, dups := normalize(t, "Ordinator.esp\nAdamant.esp")
		findings := Detect(records, dups, view, skyrimSE, "")

		incompat := findingsOfKind(findings, KindIncompatible)
		if len(incompat) != 1 {
			t.Fatalf("expected exactly 1 incompatible finding (deduped), got %d", len(incompat))
		}
		if incompat[0].Subjects[0] != "Adamant.esp" || incompat[0].Subjects[1] != "Ordinator.esp" {
			t.Errorf("expected canonical pair order, got %v", incompat[0].Subjects)
		}
		if incompat[0].Remediation != nil {
			t.Errorf("expected no remediation without a patch, got %+v", incompat[0].Remediation)
		}
	})

	t.Run("incompatible pair with enabled patch downgrades to info", func(t *testing.T) {
		view := buildTestView(t, `
entries:
  - name: A.esp
    incompatible_with: [B.esp]
    patches:
      - pair: [A.esp, B.esp]
        name: Patch.esp
`)
		records, dups := normalize(t, "A.esp\nB.esp\nPatch.esp")
		findings := Detect(records, dups, view, skyrimSE, "")

		incompat := findingsOfKind(findings, KindIncompatible)
		if len(incompat) != 1 || incompat[0].Severity != SeverityInfo {
			t.Fatalf("expected 1 info-level reconciled finding, got %+v", incompat)
		}
	})

	t.Run("load order violation fires only when positions are inverted", func(t *testing.T) {
		view := buildTestView(t, `
entries:
  - name: B.esp
    load_after: [A.esp]
`)
		records, dups := normalize(t, "B.esp\nA.esp")
		findings := Detect(records, dups, view, skyrimSE, "")
		if len(findingsOfKind(findings, KindLoadOrderViolation)) != 1 {
			t.Fatalf("expected a load_order_violation, got %+v", findings)
		}

		recordsOK, dupsOK := normalize(t, "A.esp\nB.esp")
		findingsOK := Detect(recordsOK, dupsOK, view, skyrimSE, "")
		if len(findingsOfKind(findingsOK, KindLoadOrderViolation)) != 0 {
			t.Fatalf("expected no violation when order is already correct")
		}
	})

	t.Run("dirty edit without cleaner patch is info", func(t *testing.T) {
		view := buildTestView(t, `
entries:
  - name: Dirty.esp
    dirty: true
`)
		records, dups := normalize(t, "Dirty.esp")
		findings := Detect(records, dups, view, skyrimSE, "")
		if len(findingsOfKind(findings, KindDirtyEdit)) != 1 {
			t.Fatalf("expected a dirty_edit finding")
		}
	})

	t.Run("unknown mods are reported as info", func(t *testing.T) {
		findings := Detect([]listnorm.ModRecord{
			{Name: "Ghost.esp", Extension: listnorm.ExtensionPlugin, Enabled: true, Position: 0},
		}, nil, nil, skyrimSE, "")
		unknown := findingsOfKind(findings, KindUnknownMod)
		if len(unknown) != 1 || unknown[0].Severity != SeverityInfo {
			t.Fatalf("expected 1 info unknown_mod finding, got %+v", unknown)
		}
	})

	t.Run("plugin count over the hard limit emits only the error", func(t *testing.T) {
		records := make([]listnorm.ModRecord, 0, 260)
		for i := 0; i < 260; i++ {
			records = append(records, listnorm.ModRecord{
				Name: fmt.Sprintf("Mod%03d.esp", i), Extension: listnorm.ExtensionPlugin, Enabled: true, Position: i,
			})
		}
		findings := Detect(records, nil, masterlist.Empty("skyrimse"), skyrimSE, "")
		limit := findingsOfKind(findings, KindPluginLimitPressure)
		if len(limit) != 1 {
			t.Fatalf("expected exactly 1 plugin_limit_pressure finding, got %d", len(limit))
		}
		if limit[0].Severity != SeverityError {
			t.Errorf("expected hard-limit breach to be an error, got %s", limit[0].Severity)
		}
	})

	t.Run("duplicates produce info findings", func(t *testing.T) {
		records, dups := normalize(t, "A.esp\na.esp")
		findings := Detect(records, dups, masterlist.Empty("skyrimse"), skyrimSE, "")
		dupFindings := findingsOfKind(findings, KindDuplicate)
		if len(dupFindings) != 1 {
			t.Fatalf("expected 1 duplicate finding")
		}
	})

	t.Run("duplicate findings carry exactly two positions", func(t *testing.T) {
		records, dups := normalize(t, "A.esp\nB.esp\na.esp")
		findings := Detect(records, dups, masterlist.Empty("skyrimse"), skyrimSE, "")
		dupFindings := findingsOfKind(findings, KindDuplicate)
		if len(dupFindings) != 1 {
			t.Fatalf("expected 1 duplicate finding, got %d", len(dupFindings))
		}
		if got := dupFindings[0].Positions; len(got) != 2 {
			t.Fatalf("expected exactly 2 positions, got %v", got)
		} else if got[0] != 0 || got[1] != 2 {
			t.Errorf("expected positions [0 2] (first and repeated occurrence), got %v", got)
		}
	})

	t.Run("version mismatch warns when supplied version is older", func(t *testing.T) {
		view := buildTestView(t, `
entries:
  - name: New.esp
    minimum_game_version: "1.6.0"
`)
		records, dups := normalize(t, "New.esp")
		findings := Detect(records, dups, view, skyrimSE, "1.5.97")
		if len(findingsOfKind(findings, KindVersionMismatch)) != 1 {
			t.Fatalf("expected 1 version_mismatch finding")
		}
	})

	t.Run("empty view yields only unknown_mod findings", func(t *testing.T) {
		records, dups := normalize(t, "A.esp\nB.esp")
		findings := Detect(records, dups, nil, skyrimSE, "")
		for _, f := range findings {
			if f.Kind != KindUnknownMod && f.Kind != KindPluginLimitPressure {
				t.Errorf("unexpected finding kind with an empty view: %s", f.Kind)
			}
		}
	})

	t.Run("findings are sorted by severity then subject then kind", func(t *testing.T) {
		view := buildTestView(t, `
entries:
  - name: A.esp
    requires: [Missing.esp]
  - name: Z.esp
    dirty: true
`)
		records, dups := normalize(t, "A.esp\nZ.esp")
		findings := Detect(records, dups, view, skyrimSE, "")
		if len(findings) < 2 {
			t.Fatalf("expected at least 2 findings, got %d", len(findings))
		}
		for i := 1; i < len(findings); i++ {
			if severityRank(findings[i-1].Severity) > severityRank(findings[i].Severity) {
				t.Fatalf("findings not sorted by severity: %+v", findings)
			}
		}
	})
}
