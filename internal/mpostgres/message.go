package mpostgres

import (
	"context"
	"fmt"

	"geoloc193/internal/model"

	"github.com/jackc/pgx/v5"
)

type MessageStore interface {
	AppendMessage(ctx context.Context, msg model.Message) (model.Message, error)
	ListMessages(ctx context.Context, requestID int64) ([]model.Message, error)
	MarkRead(ctx context.Context, requestID int64, senderRole model.SenderRole) (int64, error)
}

type message struct {
	db DB
}

func NewMessageStore(db DB) MessageStore {
	return &message{
		db: db,
	}
}

func (r *message) AppendMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	query := `
		INSERT INTO messages (request_id, sender_role, content, content_type, media_ref)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, request_id, sender_role, content, content_type, media_ref, read, created_at
	`

	created, err := scanMessage(r.db.QueryRow(ctx, query,
		msg.RequestID,
		string(msg.SenderRole),
		msg.Content,
		string(msg.ContentType),
		msg.MediaRef,
	))
	if err != nil {
		return model.Message{}, fmt.Errorf("insert message: %w", err)
	}
	return created, nil
}

func (r *message) ListMessages(ctx context.Context, requestID int64) ([]model.Message, error) {
	query := `
		SELECT id, request_id, sender_role, content, content_type, media_ref, read, created_at
		FROM messages
		WHERE request_id = $1
		ORDER BY created_at, id
	`
	rows, err := r.db.Query(ctx, query, requestID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return messages, nil
}

// MarkRead flags every unread message sent by senderRole on the request.
func (r *message) MarkRead(ctx context.Context, requestID int64, senderRole model.SenderRole) (int64, error) {
	query := `
		UPDATE messages
		SET read = TRUE
		WHERE request_id = $1 AND sender_role = $2 AND read = FALSE
	`

	tag, err := r.db.Exec(ctx, query, requestID, string(senderRole))
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanMessage(row pgx.Row) (model.Message, error) {
	var (
		msg               model.Message
		role, contentType string
	)

	err := row.Scan(
		&msg.ID,
		&msg.RequestID,
		&role,
		&msg.Content,
		&contentType,
		&msg.MediaRef,
		&msg.Read,
		&msg.CreatedAt,
	)
	if err != nil {
		return model.Message{}, err
	}

	msg.SenderRole = model.SenderRole(role)
	msg.ContentType = model.ContentType(contentType)
	return msg, nil
}
