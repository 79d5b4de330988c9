package masterlist

import (
	"testing"
	"time"
)

func entry(name string, loadAfter ...string) rawEntry {
	return rawEntry{Name: name, LoadAfter: loadAfter}
}

func TestBuildView(t *testing.T) {
	t.Run("aliases collapse into the canonical display entry", func(t *testing.T) {
		entries := []rawEntry{
			{Name: "Unofficial Skyrim Special Edition Patch.esp", Aliases: []string{"USSEP.esp"}},
		}
		v := buildView("skyrimse", "v1", time.Now(), entries, nil)

		byCanonical, ok := v.Lookup("ussep.esp")
		if !ok {
			t.Fatal("alias lookup failed")
		}
		byDisplay, ok := v.Lookup(canonicalize("Unofficial Skyrim Special Edition Patch.esp"))
		if !ok {
			t.Fatal("canonical name lookup failed")
		}
		if byCanonical != byDisplay {
			t.Error("alias and canonical name should resolve to the same entry")
		}
	})

	t.Run("self-referential edges are dropped and recorded", func(t *testing.T) {
		entries := []rawEntry{
			{Name: "A.esp", Requires: []string{"A.esp"}, IncompatibleWith: []string{"a.esp"}, LoadAfter: []string{"A.ESP"}},
		}
		v := buildView("skyrimse", "v1", time.Now(), entries, nil)

		e, _ := v.Lookup("a.esp")
		if len(e.Requires) != 0 || len(e.IncompatibleWith) != 0 || len(e.LoadAfter) != 0 {
			t.Fatalf("expected all self-referential edges dropped, got %+v", e)
		}
		if len(v.Dropped) != 3 {
			t.Fatalf("expected 3 dropped edges, got %d", len(v.Dropped))
		}
		for _, d := range v.Dropped {
			if d.Reason != "self_reference" {
				t.Errorf("unexpected drop reason: %s", d.Reason)
			}
		}
	})

	t.Run("two-node cycle drops one edge deterministically", func(t *testing.T) {
		entries := []rawEntry{entry("A.esp", "B.esp"), entry("B.esp", "A.esp")}
		v := buildView("skyrimse", "v1", time.Now(), entries, nil)

		total := 0
		for _, e := range v.LoadAfterEdges {
			total += len(e)
		}
		if total != 1 {
			t.Fatalf("expected exactly 1 surviving load_after edge, got %d", total)
		}
		if len(v.Dropped) != 1 || v.Dropped[0].Reason != "cycle" {
			t.Fatalf("expected exactly 1 cycle drop, got %+v", v.Dropped)
		}
		// Of the two candidate edges (A must-load-after B, B must-load-after
		// A), the one whose earlier-side target name sorts later is dropped.
		if v.Dropped[0].To != "B.esp" {
			t.Errorf("expected the edge targeting B.esp dropped, got %+v", v.Dropped[0])
		}
	})

	t.Run("three-node chain with no cycle drops nothing", func(t *testing.T) {
		entries := []rawEntry{entry("C.esp", "B.esp"), entry("B.esp", "A.esp"), entry("A.esp")}
		v := buildView("skyrimse", "v1", time.Now(), entries, nil)
		if len(v.Dropped) != 0 {
			t.Fatalf("expected no dropped edges, got %+v", v.Dropped)
		}
	})

	t.Run("weight table falls back to tag defaults", func(t *testing.T) {
		entries := []rawEntry{{Name: "Heavy.esp", Tags: []string{"texture", "enb"}}}
		v := buildView("skyrimse", "v1", time.Now(), entries, nil)
		if w := v.WeightTable["Heavy.esp"]; w != 10 {
			t.Errorf("weight = %d, want 10 (texture=2 + enb=8)", w)
		}
	})

	t.Run("explicit weight wins over tag defaults", func(t *testing.T) {
		explicit := 99
		entries := []rawEntry{{Name: "Heavy.esp", Tags: []string{"texture"}, Weight: &explicit}}
		v := buildView("skyrimse", "v1", time.Now(), entries, nil)
		if w := v.WeightTable["Heavy.esp"]; w != 99 {
			t.Errorf("weight = %d, want 99", w)
		}
	})
}

func TestCanonicalPair(t *testing.T) {
	a := CanonicalPair("B.esp", "A.esp")
	b := CanonicalPair("A.esp", "B.esp")
	if a != b {
		t.Errorf("CanonicalPair should be order-independent: %+v != %+v", a, b)
	}
	if a.A != "A.esp" || a.B != "B.esp" {
		t.Errorf("expected lexicographically smaller name first, got %+v", a)
	}
}
