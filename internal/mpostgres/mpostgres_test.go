package mpostgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsUniqueViolation(t *testing.T) {
	tokenErr := &pgconn.PgError{Code: "23505", ConstraintName: "requests_link_token_key"}

	assert.True(t, isUniqueViolation(tokenErr, "requests_link_token_key"))
	assert.True(t, isUniqueViolation(fmt.Errorf("insert: %w", tokenErr), ""))
	assert.False(t, isUniqueViolation(tokenErr, "other_key"))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}, ""))
	assert.False(t, isUniqueViolation(errors.New("boom"), ""))
}
