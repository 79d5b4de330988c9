// Package impact implements the System-Impact Estimator (SI): an advisory
// pressure report scoring resource contribution per mod.
package impact

import (
	"sort"

	"loadwright/internal/listnorm"
	"loadwright/internal/masterlist"
)

// HardwareProfile is the optional hardware hint Estimate accepts.
type HardwareProfile struct {
	Tier    string
	VRAMGB  float64
}

// HardwarePressure is a bucketed advisory string.
type HardwarePressure string

const (
	HardwareOK    HardwarePressure = "ok"
	HardwareTight HardwarePressure = "tight"
	HardwareOver  HardwarePressure = "over"
)

// HeavyEntry is one ranked contributor in Report.Heaviest.
type HeavyEntry struct {
	Name         string
	Weight       int
	TagSignature []string
}

// Report is the resource pressure estimate for one normalized mod list.
type Report struct {
	TotalPressure            int
	PluginCountEnabled       int
	LightPluginCountEnabled  int
	PerTagPressure           map[string]int
	Heaviest                 []HeavyEntry
	HardwarePressure         HardwarePressure
	HardwarePressureComputed bool
}

// Estimate computes the pressure report for the enabled subset of records,
// applying weight-source priority and per-tag aggregation.
func Estimate(records []listnorm.ModRecord, view *masterlist.View, profile *HardwareProfile, heaviestN int) Report {
	if view == nil {
		view = masterlist.Empty("")
	}

	report := Report{PerTagPressure: map[string]int{}}

	type scored struct {
		name   string
		weight int
		tags   []string
	}
	var entries []scored

	for _, r := range records {
		if !r.Enabled {
			continue
		}

		switch r.Extension {
		case listnorm.ExtensionLight:
			report.LightPluginCountEnabled++
		case listnorm.ExtensionArchive:
			// archives don't count toward plugin totals
		default:
			report.PluginCountEnabled++
		}

		key := listnorm.Canonicalize(r.Name)
		entry, known := view.Lookup(key)

		weight := fallbackWeight(known, r.Extension)
		var tags []string
		if known {
			if w, ok := view.WeightTable[entry.Name]; ok {
				weight = w
			}
			for t := range entry.Tags {
				tags = append(tags, t)
			}
			sort.Strings(tags)
		}

		report.TotalPressure += weight
		for _, t := range tags {
			report.PerTagPressure[t] += weight
		}

		entries = append(entries, scored{name: r.Name, weight: weight, tags: tags})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].weight != entries[j].weight {
			return entries[i].weight > entries[j].weight
		}
		return entries[i].name < entries[j].name
	})

	if heaviestN <= 0 {
		heaviestN = 10
	}
	if len(entries) > heaviestN {
		entries = entries[:heaviestN]
	}
	for _, e := range entries {
		report.Heaviest = append(report.Heaviest, HeavyEntry{Name: e.name, Weight: e.weight, TagSignature: e.tags})
	}

	if profile != nil && profile.VRAMGB > 0 {
		report.HardwarePressureComputed = true
		numerator := float64(report.PerTagPressure["texture"] + report.PerTagPressure["enb"])
		ratio := numerator / profile.VRAMGB
		switch {
		case ratio < 0.5:
			report.HardwarePressure = HardwareOK
		case ratio < 1.0:
			report.HardwarePressure = HardwareTight
		default:
			report.HardwarePressure = HardwareOver
		}
	}

	return report
}

// fallbackWeight assigns weight = 1 for unknown plugins, 0 for unknown
// archives.
func fallbackWeight(known bool, ext listnorm.Extension) int {
	if known {
		return 0
	}
	if ext == listnorm.ExtensionArchive {
		return 0
	}
	return 1
}
