package label

import "strings"

// PreferExisting returns existing unless it is blank, in which case computed
// wins. Manual corrections in a column are never overwritten.
func PreferExisting(existing, computed string) string {
	if strings.TrimSpace(existing) == "" {
		return computed
	}
	return existing
}
