package model

import "time"

type SenderRole string

const (
	SenderRequester SenderRole = "requester"
	SenderAttendant SenderRole = "attendant"
)

type ContentType string

const (
	ContentText  ContentType = "text"
	ContentAudio ContentType = "audio"
	ContentImage ContentType = "image"
)

func (t ContentType) Valid() bool {
	switch t {
	case ContentText, ContentAudio, ContentImage:
		return true
	}
	return false
}

// Message is an immutable transcript entry owned by exactly one Request.
type Message struct {
	ID          int64       `json:"id"`
	RequestID   int64       `json:"request_id"`
	SenderRole  SenderRole  `json:"sender_role"`
	Content     string      `json:"content"`
	ContentType ContentType `json:"content_type"`
	MediaRef    string      `json:"media_ref,omitempty"`
	Read        bool        `json:"read"`
	CreatedAt   time.Time   `json:"created_at"`
}
