package impact

import (
	"testing"
	"time"

	"loadwright/internal/listnorm"
	"loadwright/internal/masterlist"
)

func viewFromYAML(t *testing.T, doc string) *masterlist.View {
	t.Helper()
	v, err := masterlist.ParseView("skyrimse", "test", time.Now(), []byte(doc))
	if err != nil {
		t.Fatalf("building view: %v", err)
	}
	return v
}

func rec(name string, enabled bool, ext listnorm.Extension, pos int) listnorm.ModRecord {
	return listnorm.ModRecord{Name: name, Extension: ext, Enabled: enabled, Position: pos}
}

func TestEstimate(t *testing.T) {
	t.Run("empty input is zero pressure", func(t *testing.T) {
		r := Estimate(nil, nil, nil, 0)
		if r.TotalPressure != 0 || r.PluginCountEnabled != 0 {
			t.Fatalf("expected zero report, got %+v", r)
		}
	})

	t.Run("disabled entries do not contribute", func(t *testing.T) {
		recs := []listnorm.ModRecord{rec("A.esp", false, listnorm.ExtensionPlugin, 0)}
		r := Estimate(recs, masterlist.Empty("skyrimse"), nil, 10)
		if r.TotalPressure != 0 || r.PluginCountEnabled != 0 {
			t.Fatalf("expected disabled entry to be excluded, got %+v", r)
		}
	})

	t.Run("unknown plugin defaults to weight 1, unknown archive to 0", func(t *testing.T) {
		recs := []listnorm.ModRecord{
			rec("Unknown.esp", true, listnorm.ExtensionPlugin, 0),
			rec("Unknown.bsa", true, listnorm.ExtensionArchive, 1),
		}
		r := Estimate(recs, masterlist.Empty("skyrimse"), nil, 10)
		if r.TotalPressure != 1 {
			t.Fatalf("expected total pressure 1, got %d", r.TotalPressure)
		}
		if r.PluginCountEnabled != 1 {
			t.Fatalf("expected 1 plugin counted, got %d", r.PluginCountEnabled)
		}
	})

	t.Run("known entry uses masterlist weight and aggregates per tag", func(t *testing.T) {
		view := viewFromYAML(t, `
entries:
  - name: Heavy.esp
    tags: [texture, enb]
`)
		recs := []listnorm.ModRecord{rec("Heavy.esp", true, listnorm.ExtensionPlugin, 0)}
		r := Estimate(recs, view, nil, 10)
		if r.TotalPressure != 10 {
			t.Fatalf("expected total pressure 10, got %d", r.TotalPressure)
		}
		if r.PerTagPressure["texture"] != 10 || r.PerTagPressure["enb"] != 10 {
			t.Fatalf("expected both tags to carry the full weight, got %+v", r.PerTagPressure)
		}
	})

	t.Run("light plugins count separately from plugins", func(t *testing.T) {
		recs := []listnorm.ModRecord{
			rec("Light.esl", true, listnorm.ExtensionLight, 0),
			rec("Plugin.esp", true, listnorm.ExtensionPlugin, 1),
		}
		r := Estimate(recs, masterlist.Empty("skyrimse"), nil, 10)
		if r.LightPluginCountEnabled != 1 || r.PluginCountEnabled != 1 {
			t.Fatalf("unexpected counts: %+v", r)
		}
	})

	t.Run("heaviest list is sorted by weight then name and truncated", func(t *testing.T) {
		view := viewFromYAML(t, `
entries:
  - name: Light.esp
    weight: 1
  - name: Heavy.esp
    weight: 9
  - name: Mid.esp
    weight: 5
`)
		recs := []listnorm.ModRecord{
			rec("Light.esp", true, listnorm.ExtensionPlugin, 0),
			rec("Heavy.esp", true, listnorm.ExtensionPlugin, 1),
			rec("Mid.esp", true, listnorm.ExtensionPlugin, 2),
		}
		r := Estimate(recs, view, nil, 2)
		if len(r.Heaviest) != 2 {
			t.Fatalf("expected truncation to 2, got %d", len(r.Heaviest))
		}
		if r.Heaviest[0].Name != "Heavy.esp" || r.Heaviest[1].Name != "Mid.esp" {
			t.Fatalf("unexpected ranking: %+v", r.Heaviest)
		}
	})

	t.Run("hardware pressure buckets by VRAM ratio", func(t *testing.T) {
		view := viewFromYAML(t, `
entries:
  - name: Heavy.esp
    tags: [enb]
`)
		recs := []listnorm.ModRecord{rec("Heavy.esp", true, listnorm.ExtensionPlugin, 0)}

		tight := Estimate(recs, view, &HardwareProfile{VRAMGB: 10}, 10)
		if !tight.HardwarePressureComputed || tight.HardwarePressure != HardwareTight {
			t.Fatalf("expected tight pressure (8/10=0.8), got %+v", tight)
		}

		over := Estimate(recs, view, &HardwareProfile{VRAMGB: 4}, 10)
		if over.HardwarePressure != HardwareOver {
			t.Fatalf("expected over pressure (8/4=2.0), got %+v", over)
		}

		noProfile := Estimate(recs, view, nil, 10)
		if noProfile.HardwarePressureComputed {
			t.Fatalf("expected hardware pressure not computed without a profile")
		}
	})
}
