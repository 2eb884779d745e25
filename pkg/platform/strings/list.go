// Package strings provides string manipulation utilities.
package strings

import (
	"strings"
)

// SplitList splits a comma separated setting such as a broker list. Elements
// are trimmed, empty ones dropped and duplicates removed with order preserved.
// A blank input yields nil.
//
// Example:
//
//	SplitList(" kafka-1:9092,kafka-2:9092,, kafka-1:9092")
//	// Returns: []string{"kafka-1:9092", "kafka-2:9092"}
func SplitList(s string) []string {
	var result []string
	seen := map[string]struct{}{}

	for _, v := range strings.Split(s, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; !ok {
			seen[trimmed] = struct{}{}
			result = append(result, trimmed)
		}
	}

	return result
}
