package activity

import "errors"

// ErrActivityNotFound indicates an activity that is not part of the timeline it
// was looked up in. Callers passing a stale or foreign activity hit this.
var ErrActivityNotFound = errors.New("activity not found in timeline")
