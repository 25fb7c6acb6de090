package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"geoloc193/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSender(url string, timeout time.Duration) MessageSender {
	return NewMessageSender(&config.SMSGatewayConfig{
		GatewayURL:      url,
		GatewayUsername: "cobom",
		GatewayPassword: "secret",
		GatewayTimeout:  timeout,
	})
}

func TestSendMessageSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "cobom", user)
		assert.Equal(t, "secret", pass)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload MessagePayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "hello", payload.Message)
		assert.Equal(t, []string{"+5511987654321"}, payload.PhoneNumbers)

		w.WriteHeader(http.StatusAccepted)
		_, _ = w.Write([]byte(`{"id":"msg-123","state":"Pending"}`))
	}))
	defer server.Close()

	id, err := newTestSender(server.URL, time.Second).SendMessage(context.Background(), "+5511987654321", "hello")

	require.NoError(t, err)
	assert.Equal(t, "msg-123", id)
}

func TestSendMessageRejected(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		code   string
	}{
		{"code field", http.StatusBadRequest, `{"code":"invalid_number"}`, "invalid_number"},
		{"error field", http.StatusUnauthorized, `{"error":"unauthorized"}`, "unauthorized"},
		{"message field", http.StatusBadGateway, `{"message":"device offline"}`, "device offline"},
		{"no payload", http.StatusInternalServerError, `oops`, "http_500"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := newTestSender(server.URL, time.Second).SendMessage(context.Background(), "+5511987654321", "hi")

			var gwErr *GatewayError
			require.True(t, errors.As(err, &gwErr))
			assert.Equal(t, tt.code, gwErr.Code)
			assert.Equal(t, tt.status, gwErr.StatusCode)
		})
	}
}

func TestSendMessageTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	_, err := newTestSender(server.URL, 50*time.Millisecond).SendMessage(context.Background(), "+5511987654321", "hi")

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, GatewayErrTimeout, gwErr.Code)
}

func TestSendMessageUnreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	_, err := newTestSender(url, time.Second).SendMessage(context.Background(), "+5511987654321", "hi")

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, GatewayErrUnreachable, gwErr.Code)
}

func TestSendMessageNotConfigured(t *testing.T) {
	sender := NewMessageSender(&config.SMSGatewayConfig{GatewayURL: "http://unused"})

	assert.False(t, sender.Configured())
	_, err := sender.SendMessage(context.Background(), "+5511987654321", "hi")

	var gwErr *GatewayError
	require.True(t, errors.As(err, &gwErr))
	assert.Equal(t, GatewayErrNotConfigured, gwErr.Code)
}
