package activity

import (
	"fmt"
	"time"
)

// StableIndex returns the position of a among the timeline activities of the
// same type, sorted by date. The position does not move when activities of
// another type are added.
func StableIndex(a Activity, timeline []Activity) (int, error) {
	if a == nil {
		return 0, ErrActivityNotFound
	}
	for i, candidate := range partition(timeline, a.Type()) {
		if candidate == a {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %s dated %s", ErrActivityNotFound, a.Type(), a.Base().Date.Format(time.RFC3339))
}

// ResolveByStableIndex returns the activity of type typ at stable index index.
func ResolveByStableIndex(timeline []Activity, typ Type, index int) (Activity, error) {
	p := partition(timeline, typ)
	if index < 0 || index >= len(p) {
		return nil, fmt.Errorf("%w: %s #%d", ErrActivityNotFound, typ, index)
	}
	return p[index], nil
}

func partition(timeline []Activity, typ Type) []Activity {
	var out []Activity
	for _, a := range timeline {
		if a.Type() == typ {
			out = append(out, a)
		}
	}
	sortByDate(out)
	return out
}
