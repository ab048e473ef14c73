// Package reconcile holds the pure set-diff logic that moves a task's
// dependent collections toward a caller-supplied desired state. No I/O
// happens here; callers fetch current state and apply the computed
// additions and removals.
package reconcile

import "strings"

// NormalizeTags trims every name, drops empties and collapses duplicates,
// keeping first-seen order. Comparison is case-sensitive per the tag
// uniqueness rule.
func NormalizeTags(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" {
			continue
		}
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}

// DiffTags computes the minimal additions and removals that turn the current
// active tag set into the desired one. Both inputs are normalized first, so
// untrimmed or duplicated desired names never produce spurious work. Order
// of the returned slices follows first appearance in the inputs.
//
// An empty desired set removes every current tag. The distinction between
// "empty set" and "no reconciliation requested" is made by the caller, which
// must not call DiffTags at all in the absent case.
func DiffTags(current, desired []string) (toAdd, toRemove []string) {
	current = NormalizeTags(current)
	desired = NormalizeTags(desired)

	curSet := make(map[string]struct{}, len(current))
	for _, n := range current {
		curSet[n] = struct{}{}
	}
	desSet := make(map[string]struct{}, len(desired))
	for _, n := range desired {
		desSet[n] = struct{}{}
	}

	toAdd = make([]string, 0)
	for _, n := range desired {
		if _, ok := curSet[n]; !ok {
			toAdd = append(toAdd, n)
		}
	}
	toRemove = make([]string, 0)
	for _, n := range current {
		if _, ok := desSet[n]; !ok {
			toRemove = append(toRemove, n)
		}
	}
	return toAdd, toRemove
}

// DiffAttachments computes which current attachment ids are no longer
// desired. Additions never come from id comparison: new attachments arrive
// as uploads with no pre-existing id. Desired ids that do not exist in
// current are ignored.
func DiffAttachments(currentIDs, desiredIDs []string) (toRemove []string) {
	desSet := make(map[string]struct{}, len(desiredIDs))
	for _, id := range desiredIDs {
		desSet[strings.TrimSpace(id)] = struct{}{}
	}

	toRemove = make([]string, 0)
	seen := make(map[string]struct{}, len(currentIDs))
	for _, id := range currentIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := desSet[id]; !ok {
			toRemove = append(toRemove, id)
		}
	}
	return toRemove
}
