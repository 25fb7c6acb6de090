package mpostgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"geoloc193/internal/model"

	"github.com/jackc/pgx/v5"
)

type RequestStore interface {
	CreateRequest(ctx context.Context, req model.Request, phoneDigits string) (model.Request, error)
	GetRequest(ctx context.Context, id int64) (model.Request, error)
	GetRequestByToken(ctx context.Context, token string) (model.Request, error)
	FindActiveByPhoneSuffix(ctx context.Context, suffix string, limit int) ([]model.Request, error)
	ListRequests(ctx context.Context, filter model.RequestFilter) ([]model.Request, error)
	UpdateDelivery(ctx context.Context, id int64, delivery model.Delivery, now time.Time) error
	UpdateLocation(ctx context.Context, id int64, update model.LocationUpdate, now time.Time) (model.Request, error)
	UpdateStatus(ctx context.Context, id int64, expected, next model.Status, operatorID int64, now time.Time) (model.Request, error)
	Archive(ctx context.Context, id int64, now time.Time) (model.Request, error)
	ApplyDeliveryReport(ctx context.Context, phoneFragment string, delivery model.Delivery, now time.Time) (id int64, candidates int, err error)
}

type request struct {
	db DB
}

func NewRequestStore(db DB) RequestStore {
	return &request{
		db: db,
	}
}

const requestColumns = `
	id, link_token, requester_name, phone, status, archived, archived_at,
	latitude, longitude, accuracy, address, plus_code,
	delivery_status, delivery_error_code, provider_message_id,
	operator_id, finalized_by, link_expires_at, created_at, updated_at`

func scanRequest(row pgx.Row) (model.Request, error) {
	var (
		req                model.Request
		lat, lng, accuracy *float64
		status, delivery   string
	)

	err := row.Scan(
		&req.ID,
		&req.LinkToken,
		&req.RequesterName,
		&req.Phone,
		&status,
		&req.Archived,
		&req.ArchivedAt,
		&lat,
		&lng,
		&accuracy,
		&req.Address,
		&req.PlusCode,
		&delivery,
		&req.DeliveryErrorCode,
		&req.ProviderMessageID,
		&req.OperatorID,
		&req.FinalizedBy,
		&req.LinkExpiresAt,
		&req.CreatedAt,
		&req.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Request{}, ErrNotFound
		}
		return model.Request{}, err
	}

	req.Status = model.Status(status)
	req.DeliveryStatus = model.DeliveryStatus(delivery)
	if lat != nil && lng != nil {
		req.Location = &model.Location{Latitude: *lat, Longitude: *lng, Accuracy: accuracy}
	}
	return req, nil
}

func collectRequests(rows pgx.Rows) ([]model.Request, error) {
	defer rows.Close()

	requests := []model.Request{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, req)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *request) CreateRequest(ctx context.Context, req model.Request, phoneDigits string) (model.Request, error) {
	query := `
		INSERT INTO requests (
			link_token, requester_name, phone, phone_digits, status, archived,
			delivery_status, operator_id, link_expires_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, FALSE, $6, $7, $8, $9, $9)
		RETURNING` + requestColumns

	created, err := scanRequest(r.db.QueryRow(ctx, query,
		req.LinkToken,
		req.RequesterName,
		req.Phone,
		phoneDigits,
		string(req.Status),
		string(req.DeliveryStatus),
		req.OperatorID,
		req.LinkExpiresAt,
		req.CreatedAt,
	))
	if err != nil {
		if isUniqueViolation(err, "requests_link_token_key") {
			return model.Request{}, ErrDuplicateToken
		}
		return model.Request{}, fmt.Errorf("insert request: %w", err)
	}
	return created, nil
}

func (r *request) GetRequest(ctx context.Context, id int64) (model.Request, error) {
	query := `SELECT` + requestColumns + ` FROM requests WHERE id = $1`
	return scanRequest(r.db.QueryRow(ctx, query, id))
}

func (r *request) GetRequestByToken(ctx context.Context, token string) (model.Request, error) {
	query := `SELECT` + requestColumns + ` FROM requests WHERE link_token = $1`
	return scanRequest(r.db.QueryRow(ctx, query, token))
}

// FindActiveByPhoneSuffix returns non-archived requests whose normalized phone
// ends with suffix, newest first.
func (r *request) FindActiveByPhoneSuffix(ctx context.Context, suffix string, limit int) ([]model.Request, error) {
	query := `SELECT` + requestColumns + `
		FROM requests
		WHERE archived = FALSE AND right(phone_digits, length($1)) = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2`

	rows, err := r.db.Query(ctx, query, suffix, limit)
	if err != nil {
		return nil, fmt.Errorf("query requests by phone: %w", err)
	}
	return collectRequests(rows)
}

func (r *request) ListRequests(ctx context.Context, filter model.RequestFilter) ([]model.Request, error) {
	query := `SELECT` + requestColumns + `
		FROM requests
		WHERE ($1::text IS NULL OR status = $1) AND ($2 OR archived = FALSE)
		ORDER BY CASE status
			WHEN 'pending' THEN 1
			WHEN 'received' THEN 2
			WHEN 'finalized' THEN 3
			ELSE 4
		END, created_at DESC, id DESC`

	var status *string
	if filter.Status != nil {
		s := string(*filter.Status)
		status = &s
	}

	rows, err := r.db.Query(ctx, query, status, filter.IncludeArchived)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return collectRequests(rows)
}

func (r *request) UpdateDelivery(ctx context.Context, id int64, delivery model.Delivery, now time.Time) error {
	query := `
		UPDATE requests
		SET delivery_status = $1, delivery_error_code = $2, provider_message_id = $3, updated_at = $4
		WHERE id = $5
	`

	tag, err := r.db.Exec(ctx, query, string(delivery.Status), delivery.ErrorCode, delivery.ProviderMessageID, now, id)
	if err != nil {
		return fmt.Errorf("update delivery: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateLocation stores coordinates and moves pending -> received. A request that is
// already received keeps its status. Expired, archived or finalized rows are left untouched
// and reported as ErrStatusMismatch.
func (r *request) UpdateLocation(ctx context.Context, id int64, update model.LocationUpdate, now time.Time) (model.Request, error) {
	query := `
		UPDATE requests
		SET latitude = $1, longitude = $2, accuracy = $3,
			address = CASE WHEN $4 = '' THEN address ELSE $4 END,
			plus_code = CASE WHEN $5 = '' THEN plus_code ELSE $5 END,
			status = 'received', updated_at = $6
		WHERE id = $7
			AND status IN ('pending', 'received')
			AND archived = FALSE
			AND link_expires_at > $6
		RETURNING` + requestColumns

	updated, err := scanRequest(r.db.QueryRow(ctx, query,
		update.Location.Latitude,
		update.Location.Longitude,
		update.Location.Accuracy,
		update.Address,
		update.PlusCode,
		now,
		id,
	))
	if errors.Is(err, ErrNotFound) {
		return model.Request{}, ErrStatusMismatch
	}
	if err != nil {
		return model.Request{}, fmt.Errorf("update location: %w", err)
	}
	return updated, nil
}

// UpdateStatus conditionally moves a request from expected to next.
// Returns ErrStatusMismatch if the row is not currently in expected.
func (r *request) UpdateStatus(ctx context.Context, id int64, expected, next model.Status, operatorID int64, now time.Time) (model.Request, error) {
	query := `
		UPDATE requests
		SET status = $1,
			finalized_by = CASE WHEN $1 = 'finalized' THEN $2 ELSE finalized_by END,
			updated_at = $3
		WHERE id = $4 AND status = $5
		RETURNING` + requestColumns

	updated, err := scanRequest(r.db.QueryRow(ctx, query, string(next), operatorID, now, id, string(expected)))
	if errors.Is(err, ErrNotFound) {
		return model.Request{}, ErrStatusMismatch
	}
	if err != nil {
		return model.Request{}, fmt.Errorf("update status: %w", err)
	}
	return updated, nil
}

func (r *request) Archive(ctx context.Context, id int64, now time.Time) (model.Request, error) {
	query := `
		UPDATE requests
		SET archived = TRUE, archived_at = COALESCE(archived_at, $1), updated_at = $1
		WHERE id = $2
		RETURNING` + requestColumns

	return scanRequest(r.db.QueryRow(ctx, query, now, id))
}

// ApplyDeliveryReport updates the newest non-archived request whose normalized phone
// contains phoneFragment and reports how many requests were candidates.
// candidates == 0 means nothing was touched.
func (r *request) ApplyDeliveryReport(ctx context.Context, phoneFragment string, delivery model.Delivery, now time.Time) (int64, int, error) {
	query := `
		WITH candidates AS (
			SELECT id, created_at FROM requests
			WHERE archived = FALSE AND strpos(phone_digits, $1) > 0
		), target AS (
			SELECT id FROM candidates ORDER BY created_at DESC, id DESC LIMIT 1
		)
		UPDATE requests
		SET delivery_status = $2, delivery_error_code = $3, updated_at = $4
		FROM target
		WHERE requests.id = target.id
		RETURNING requests.id, (SELECT count(*) FROM candidates)
	`

	var (
		id         int64
		candidates int64
	)
	err := r.db.QueryRow(ctx, query, phoneFragment, string(delivery.Status), delivery.ErrorCode, now).Scan(&id, &candidates)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, 0, nil
	}
	if err != nil {
		return 0, 0, fmt.Errorf("apply delivery report: %w", err)
	}
	return id, int(candidates), nil
}
