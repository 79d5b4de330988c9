package masterlist

import "fmt"

// DefaultSource resolves a conventional per-game masterlist document URL.
// Hosts supplying their own masterlist mirror can construct a Store with a
// different Source instead.
func DefaultSource(baseURL string) Source {
	return func(game string) (string, bool) {
		if game == "" {
			return "", false
		}
		return fmt.Sprintf("%s/%s/masterlist.yaml", baseURL, game), true
	}
}
