package model

import "time"

// Status is the lifecycle state of a Request. It only moves forward.
type Status string

const (
	StatusPending   Status = "pending"
	StatusReceived  Status = "received"
	StatusFinalized Status = "finalized"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusReceived, StatusFinalized:
		return true
	}
	return false
}

// Priority orders statuses for operator listings: most actionable first.
func (s Status) Priority() int {
	switch s {
	case StatusPending:
		return 1
	case StatusReceived:
		return 2
	case StatusFinalized:
		return 3
	}
	return 4
}

// DeliveryStatus tracks the outbound text notification, independently of Status.
type DeliveryStatus string

const (
	DeliveryNotSent   DeliveryStatus = "not_sent"
	DeliveryPending   DeliveryStatus = "pending"
	DeliveryDelivered DeliveryStatus = "delivered"
	DeliveryFailed    DeliveryStatus = "failed"
	DeliveryUnknown   DeliveryStatus = "unknown"
)

type Location struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
}

type Request struct {
	ID                int64          `json:"id"`
	LinkToken         string         `json:"link_token"`
	RequesterName     string         `json:"requester_name"`
	Phone             string         `json:"phone"`
	Status            Status         `json:"status"`
	Archived          bool           `json:"archived"`
	ArchivedAt        *time.Time     `json:"archived_at,omitempty"`
	Location          *Location      `json:"location,omitempty"`
	Address           string         `json:"address,omitempty"`
	PlusCode          string         `json:"plus_code,omitempty"`
	DeliveryStatus    DeliveryStatus `json:"delivery_status"`
	DeliveryErrorCode string         `json:"delivery_error_code,omitempty"`
	ProviderMessageID string         `json:"provider_message_id,omitempty"`
	OperatorID        int64          `json:"operator_id"`
	FinalizedBy       *int64         `json:"finalized_by,omitempty"`
	LinkExpiresAt     time.Time      `json:"link_expires_at"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
}

// RequestFilter selects requests for operator listings.
type RequestFilter struct {
	Status          *Status
	IncludeArchived bool
}

// Delivery is the outcome of a dispatch attempt as persisted on a Request.
type Delivery struct {
	Status            DeliveryStatus
	ErrorCode         string
	ProviderMessageID string
}

// LocationUpdate carries a caller-reported position and whatever could be derived from it.
type LocationUpdate struct {
	Location Location
	Address  string
	PlusCode string
}

// PublicRequestView is everything the caller's device may see about its own request.
type PublicRequestView struct {
	Status        Status    `json:"status"`
	RequesterName string    `json:"requester_name,omitempty"`
	Location      *Location `json:"location,omitempty"`
	Address       string    `json:"address,omitempty"`
	LinkExpiresAt time.Time `json:"link_expires_at"`
	Expired       bool      `json:"expired"`
}
