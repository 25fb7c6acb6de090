package mpostgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateToken = errors.New("link token already in use")
	ErrStatusMismatch = errors.New("status mismatch/conditional update failed")
)

const uniqueViolation = "23505"

// DB is the subset of *pgxpool.Pool the stores use.
type DB interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == uniqueViolation && (constraint == "" || pgErr.ConstraintName == constraint)
	}
	return false
}

const schema = `
CREATE TABLE IF NOT EXISTS requests (
	id                  BIGSERIAL PRIMARY KEY,
	link_token          TEXT NOT NULL,
	requester_name      TEXT NOT NULL,
	phone               TEXT NOT NULL,
	phone_digits        TEXT NOT NULL,
	status              TEXT NOT NULL DEFAULT 'pending',
	archived            BOOLEAN NOT NULL DEFAULT FALSE,
	archived_at         TIMESTAMPTZ,
	latitude            DOUBLE PRECISION,
	longitude           DOUBLE PRECISION,
	accuracy            DOUBLE PRECISION,
	address             TEXT NOT NULL DEFAULT '',
	plus_code           TEXT NOT NULL DEFAULT '',
	delivery_status     TEXT NOT NULL DEFAULT 'not_sent',
	delivery_error_code TEXT NOT NULL DEFAULT '',
	provider_message_id TEXT NOT NULL DEFAULT '',
	operator_id         BIGINT NOT NULL,
	finalized_by        BIGINT,
	link_expires_at     TIMESTAMPTZ NOT NULL,
	created_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at          TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	CONSTRAINT requests_link_token_key UNIQUE (link_token),
	CONSTRAINT requests_status_check CHECK (status IN ('pending', 'received', 'finalized'))
);

CREATE INDEX IF NOT EXISTS idx_requests_status_archived ON requests (status, archived, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_requests_phone_digits ON requests (phone_digits);

CREATE TABLE IF NOT EXISTS messages (
	id           BIGSERIAL PRIMARY KEY,
	request_id   BIGINT NOT NULL REFERENCES requests (id) ON DELETE CASCADE,
	sender_role  TEXT NOT NULL,
	content      TEXT NOT NULL DEFAULT '',
	content_type TEXT NOT NULL DEFAULT 'text',
	media_ref    TEXT NOT NULL DEFAULT '',
	read         BOOLEAN NOT NULL DEFAULT FALSE,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT clock_timestamp()
);

CREATE INDEX IF NOT EXISTS idx_messages_request_created ON messages (request_id, created_at, id);
`

// Migrate creates the tables when they do not exist yet.
func Migrate(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, schema)
	return err
}
