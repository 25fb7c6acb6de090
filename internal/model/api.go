package model

// CreateRequestPayload is the operator form for a new geolocation request.
type CreateRequestPayload struct {
	RequesterName string `json:"requester_name" validate:"required,max=120"`
	Phone         string `json:"phone" validate:"required,phone"`
}

type ResendPayload struct {
	WithLink *bool `json:"with_link,omitempty"`
}

type SubmitLocationPayload struct {
	Latitude  *float64 `json:"latitude" validate:"required,latitude"`
	Longitude *float64 `json:"longitude" validate:"required,longitude"`
	Accuracy  *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0"`
}

type AppendMessagePayload struct {
	Content     string      `json:"content" validate:"required_without=MediaRef,max=4000"`
	ContentType ContentType `json:"content_type" validate:"omitempty,oneof=text audio image"`
	MediaRef    string      `json:"media_ref,omitempty" validate:"omitempty,max=512"`
}

// SMSStatusCallback is the body posted by the SMS gateway when a delivery report arrives.
type SMSStatusCallback struct {
	PhoneNumber string `json:"phoneNumber" validate:"required"`
	Status      string `json:"status"`
	ErrorCode   string `json:"errorCode,omitempty"`
}

type ResolveResponse struct {
	Token string `json:"token"`
}

type PollIntervals struct {
	MessagePollSeconds int `json:"message_poll_seconds"`
	StatusPollSeconds  int `json:"status_poll_seconds"`
}
