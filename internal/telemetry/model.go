package telemetry

import "time"

// BackendError is a failed call to the HRM API.
type BackendError struct {
	ID         string    `json:"id"`
	Operation  string    `json:"operation"`
	Message    string    `json:"message"`
	OccurredAt time.Time `json:"occurredAt"`
}
