package repository

import (
	"strings"

	"tasker_backend/internal/reconcile"
)

// splitCSV parses a nullable CSV column into trimmed, deduplicated names.
// NULL and empty input both yield an empty list, never nil.
func splitCSV(s *string) []string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return []string{}
	}
	return reconcile.NormalizeTags(strings.Split(*s, ","))
}
