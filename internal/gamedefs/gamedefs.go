// Package gamedefs holds the static per-game table of plugin-count
// thresholds and display metadata consumed by SupportedGames and by the
// Conflict Detector's plugin-limit findings.
package gamedefs

import "sort"

// Game describes one supported Bethesda-style title and its plugin-count
// pressure thresholds.
type Game struct {
	ID          string
	DisplayName string
	PluginSoft  int
	PluginHard  int
	LightSoft   int
	LightHard   int
}

// defaults holds the documented plugin-count thresholds for the primary
// supported family (Skyrim SE) and per-game overrides for the others.
var defaults = map[string]Game{
	"skyrimse": {
		ID: "skyrimse", DisplayName: "Skyrim Special Edition",
		PluginSoft: 220, PluginHard: 250, LightSoft: 3500, LightHard: 4000,
	},
	"skyrimle": {
		ID: "skyrimle", DisplayName: "Skyrim Legendary Edition",
		PluginSoft: 220, PluginHard: 255, LightSoft: 0, LightHard: 0,
	},
	"fallout4": {
		ID: "fallout4", DisplayName: "Fallout 4",
		PluginSoft: 220, PluginHard: 250, LightSoft: 3500, LightHard: 4000,
	},
	"fallout4vr": {
		ID: "fallout4vr", DisplayName: "Fallout 4 VR",
		PluginSoft: 180, PluginHard: 255, LightSoft: 0, LightHard: 0,
	},
	"oblivion": {
		ID: "oblivion", DisplayName: "The Elder Scrolls IV: Oblivion",
		PluginSoft: 200, PluginHard: 255, LightSoft: 0, LightHard: 0,
	},
	"starfield": {
		ID: "starfield", DisplayName: "Starfield",
		PluginSoft: 220, PluginHard: 250, LightSoft: 3500, LightHard: 4000,
	},
}

// Lookup returns the Game record for a game ID (case-sensitive, canonical
// lowercase IDs as registered). The second return is false for unknown games.
func Lookup(id string) (Game, bool) {
	g, ok := defaults[id]
	return g, ok
}

// All returns every supported game sorted by ID for deterministic listing.
func All() []Game {
	ids := make([]string, 0, len(defaults))
	for id := range defaults {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]Game, 0, len(ids))
	for _, id := range ids {
		out = append(out, defaults[id])
	}
	return out
}
