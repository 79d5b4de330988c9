package masterlist

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// rawDocument is the on-disk YAML shape: a list of entries under a
// top-level "entries" key. Unknown keys are tolerated by yaml.v3's default
// decode behavior (it simply ignores fields with no matching tag).
type rawDocument struct {
	Entries []rawEntry `yaml:"entries"`
}

type rawPatch struct {
	Pair []string `yaml:"pair"`
	Name string   `yaml:"name"`
}

type rawEntry struct {
	Name                string     `yaml:"name"`
	Aliases             []string   `yaml:"aliases"`
	Tags                []string   `yaml:"tags"`
	Requires            []string   `yaml:"requires"`
	IncompatibleWith    []string   `yaml:"incompatible_with"`
	LoadAfter           []string   `yaml:"load_after"`
	Patches             []rawPatch `yaml:"patches"`
	Dirty               bool       `yaml:"dirty"`
	Weight              *int       `yaml:"weight"`
	Notes               string     `yaml:"notes"`
	MinimumGameVersion  string     `yaml:"minimum_game_version"`
}

// parseDocument decodes and schema-validates a masterlist document,
// rejecting it whole rather than accepting a partially-valid tree.
func parseDocument(data []byte) ([]rawEntry, error) {
	var doc rawDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing masterlist document: %w", err)
	}

	for i, e := range doc.Entries {
		if err := validateEntry(e); err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
	}

	return doc.Entries, nil
}

// ParseView parses and schema-validates a masterlist document and builds
// the derived View for it directly, without going through a Store. Used
// by callers that already hold a document (a pinned fixture, an
// offline-mode override) and by other components' tests that need a
// populated View without standing up an HTTP source.
func ParseView(game, version string, fetchedAt time.Time, data []byte) (*View, error) {
	entries, err := parseDocument(data)
	if err != nil {
		return nil, err
	}
	return buildView(game, version, fetchedAt, entries, nil), nil
}

// validateEntry enforces the document schema: name is the only required
// field; weight, when present, must be non-negative.
func validateEntry(e rawEntry) error {
	if e.Name == "" {
		return fmt.Errorf("%w: missing required field 'name'", ErrInvalidSchema)
	}
	if e.Weight != nil && *e.Weight < 0 {
		return fmt.Errorf("%w: entry %q has negative weight %d", ErrInvalidSchema, e.Name, *e.Weight)
	}
	for _, p := range e.Patches {
		if len(p.Pair) != 2 || p.Name == "" {
			return fmt.Errorf("%w: entry %q has malformed patch entry", ErrInvalidSchema, e.Name)
		}
	}
	return nil
}
