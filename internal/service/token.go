package service

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"
)

const (
	tokenBytes     = 16
	DefaultLinkTTL = 2 * time.Hour
)

// TokenService mints link tokens and decides whether they are still usable.
// It owns the clock so that issuing and validating always agree on "now".
type TokenService interface {
	Issue() (token string, expiresAt time.Time, err error)
	Validate(expiresAt, now time.Time) bool
	Now() time.Time
}

type tokenService struct {
	ttl     time.Duration
	entropy io.Reader
	nowFunc func() time.Time
}

func NewTokenService(ttl time.Duration) TokenService {
	if ttl <= 0 {
		ttl = DefaultLinkTTL
	}
	return &tokenService{
		ttl:     ttl,
		entropy: rand.Reader,
		nowFunc: time.Now,
	}
}

// Issue never falls back to a weaker source: if the entropy source fails, no token is produced.
func (s *tokenService) Issue() (string, time.Time, error) {
	buf := make([]byte, tokenBytes)
	if _, err := io.ReadFull(s.entropy, buf); err != nil {
		return "", time.Time{}, fmt.Errorf("read token entropy: %w", err)
	}
	return hex.EncodeToString(buf), s.Now().Add(s.ttl), nil
}

// Validate reports whether a link expiring at expiresAt is still valid at now.
func (s *tokenService) Validate(expiresAt, now time.Time) bool {
	return now.Before(expiresAt)
}

func (s *tokenService) Now() time.Time {
	return s.nowFunc().UTC()
}
