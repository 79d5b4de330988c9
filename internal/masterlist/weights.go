package masterlist

// defaultTagWeights are the reference per-tag pressure weights, summed
// when an entry carries multiple tags and no explicit weight overrides
// them.
func defaultTagWeights() map[string]int {
	return map[string]int{
		"texture":        2,
		"mesh":           1,
		"script-heavy":   5,
		"scripted-quest": 3,
		"npc-overhaul":   3,
		"animation":      2,
		"enb":            8,
		"weather":        3,
		"survival":       2,
		"perk-overhaul":  2,
		"ui":             1,
	}
}

// computeWeightTable derives the per-entry weight table from each entry's
// explicit weight, falling back to the sum of its tags' default weights.
func computeWeightTable(v *View) {
	defaults := defaultTagWeights()
	for name, entry := range v.EntriesByName {
		if entry.Weight != nil {
			v.WeightTable[name] = *entry.Weight
			continue
		}
		sum := 0
		for tag := range entry.Tags {
			sum += defaults[tag]
		}
		v.WeightTable[name] = sum
	}
}
