package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"geoloc193/internal/config"
)

const (
	GatewayErrNotConfigured = "not_configured"
	GatewayErrTimeout       = "timeout"
	GatewayErrUnreachable   = "unreachable"
	GatewayErrBadResponse   = "bad_response"
)

type MessagePayload struct {
	Message      string   `json:"message"`
	PhoneNumbers []string `json:"phoneNumbers"`
}

type MessageResponse struct {
	ID    string `json:"id"`
	State string `json:"state,omitempty"`
}

type gatewayErrorResponse struct {
	Code    string `json:"code"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

// GatewayError is a synchronous rejection. Code is what gets stored as the delivery error code.
type GatewayError struct {
	Code       string
	StatusCode int
	Err        error
}

func (e *GatewayError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("sms gateway rejected message (%s): %v", e.Code, e.Err)
	}
	return fmt.Sprintf("sms gateway rejected message (%s)", e.Code)
}

func (e *GatewayError) Unwrap() error { return e.Err }

// MessageSender performs one outbound call to the SMS gateway. A nil error only means
// the gateway accepted the message; delivery is confirmed later by callback.
type MessageSender interface {
	SendMessage(ctx context.Context, phoneNumber, message string) (string, error)
	Configured() bool
}

type messageSender struct {
	gatewayURL string
	username   string
	password   string
	client     *http.Client
}

func NewMessageSender(cfg *config.SMSGatewayConfig) MessageSender {
	timeout := cfg.GatewayTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &messageSender{
		gatewayURL: cfg.GatewayURL,
		username:   cfg.GatewayUsername,
		password:   cfg.GatewayPassword,
		client:     &http.Client{Timeout: timeout},
	}
}

func (s *messageSender) Configured() bool {
	return s.gatewayURL != "" && s.username != "" && s.password != ""
}

func (s *messageSender) SendMessage(ctx context.Context, phoneNumber, message string) (string, error) {
	if !s.Configured() {
		return "", &GatewayError{Code: GatewayErrNotConfigured}
	}

	payloadBytes, err := json.Marshal(MessagePayload{
		Message:      message,
		PhoneNumbers: []string{phoneNumber},
	})
	if err != nil {
		return "", fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.gatewayURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.SetBasicAuth(s.username, s.password)

	resp, err := s.client.Do(req)
	if err != nil {
		code := GatewayErrUnreachable
		if isTimeout(err) {
			code = GatewayErrTimeout
		}
		return "", &GatewayError{Code: code, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err != nil {
		return "", &GatewayError{Code: GatewayErrBadResponse, StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &GatewayError{
			Code:       gatewayErrorCode(resp.StatusCode, body),
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status code: %d", resp.StatusCode),
		}
	}

	var response MessageResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &response); err != nil {
			return "", &GatewayError{Code: GatewayErrBadResponse, StatusCode: resp.StatusCode, Err: err}
		}
	}
	return response.ID, nil
}

func gatewayErrorCode(statusCode int, body []byte) string {
	var payload gatewayErrorResponse
	if err := json.Unmarshal(body, &payload); err == nil {
		for _, candidate := range []string{payload.Code, payload.Error, payload.Message} {
			if c := strings.TrimSpace(candidate); c != "" {
				return truncate(c, 120)
			}
		}
	}
	return fmt.Sprintf("http_%d", statusCode)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	return errors.As(err, &netErr) && netErr.Timeout()
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
