package utils

import "strings"

// NormalizeNames trims every value, drops blanks, and removes duplicates
// while preserving the order of first occurrence. Owner lists, tag lists,
// and the default-owner setting all go through this so interactively
// entered and imported data converge to the same shape.
func NormalizeNames(values []string) []string {
	normalized := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		normalized = append(normalized, v)
	}
	return normalized
}

// SplitNames splits a comma-separated list and normalizes the result.
// Legacy exports stored owner lists as a single string.
func SplitNames(s string) []string {
	return NormalizeNames(strings.Split(s, ","))
}
