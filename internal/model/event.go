package model

import "time"

type EventType string

const (
	EventLocationReceived EventType = "location_received"
	EventMessageAppended  EventType = "message_appended"
	EventDeliveryUpdated  EventType = "delivery_updated"
)

// Event is handed to the push-notification collaborator. It never carries the link token.
type Event struct {
	Type       EventType         `json:"type"`
	RequestID  int64             `json:"request_id"`
	OperatorID int64             `json:"operator_id,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	OccurredAt time.Time         `json:"occurred_at"`
}
