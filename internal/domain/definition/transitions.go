package definition

import "slices"

// CanTransition reports whether a case in status from may move to status to.
// Staying in the same status is always allowed.
func (v *Version) CanTransition(from, to string) bool {
	if from == to {
		return true
	}
	status, ok := v.CaseStatus[from]
	if !ok {
		return false
	}
	return slices.Contains(status.Transitions, to)
}

// StatusOptions returns the current status followed by every status reachable
// from it, in declaration order. Unknown target statuses are skipped.
func (v *Version) StatusOptions(from string) []StatusDefinition {
	current, ok := v.CaseStatus[from]
	if !ok {
		return nil
	}
	out := []StatusDefinition{current}
	for _, next := range current.Transitions {
		if next == from {
			continue
		}
		if def, ok := v.CaseStatus[next]; ok {
			out = append(out, def)
		}
	}
	return out
}

// StatusLabel returns the display label of a status, or the raw value.
func (v *Version) StatusLabel(status string) string {
	if def, ok := v.CaseStatus[status]; ok && def.Label != "" {
		return def.Label
	}
	return status
}
