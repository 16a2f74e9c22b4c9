// Package queue defines message payloads exchanged over the message broker
// together with the publisher and the background consumer for them.
package queue

// Change kinds carried by PlaceEvent.
const (
	KindCreated = "created"
	KindUpdated = "updated"
	KindDeleted = "deleted"
)

// PlaceEvent is published after every successful place mutation. Created and
// updated events carry the full record so downstream consumers can log,
// notify, or feed analytics without querying the primary database; deleted
// events carry only the identifier.
type PlaceEvent struct {
	PlaceID     uint64  `json:"place_id"`
	Kind        string  `json:"kind"`
	Latitude    float64 `json:"latitude,omitempty"`
	Longitude   float64 `json:"longitude,omitempty"`
	Description string  `json:"description,omitempty"`
	Country     *string `json:"country,omitempty"`
	City        *string `json:"city,omitempty"`
	Locality    string  `json:"locality,omitempty"`
	OccurredAt  string  `json:"occurred_at"`
}
