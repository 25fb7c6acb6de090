package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"geoloc193/internal/config"
)

// LinkShortener turns a link token into the short URL sent by SMS.
type LinkShortener interface {
	CreateShortCode(ctx context.Context, token string) (string, error)
	BuildPublicURL(code string) string
}

// LongURL is the unshortened caller page for token.
func LongURL(publicBaseURL, token string) string {
	return strings.TrimRight(publicBaseURL, "/") + "/solicitacao/" + token
}

// NewLinkShortener returns an HTTP-backed shortener when one is configured and a
// direct one otherwise.
func NewLinkShortener(shortener *config.ShortenerConfig, link *config.LinkConfig) LinkShortener {
	if shortener.ShortenerURL == "" {
		return &directShortener{publicBaseURL: strings.TrimRight(link.PublicBaseURL, "/")}
	}
	timeout := shortener.ShortenerTimeout
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &httpShortener{
		baseURL:       strings.TrimRight(shortener.ShortenerURL, "/"),
		publicBaseURL: link.PublicBaseURL,
		client:        &http.Client{Timeout: timeout},
	}
}

type directShortener struct {
	publicBaseURL string
}

func (s *directShortener) CreateShortCode(_ context.Context, token string) (string, error) {
	return token, nil
}

func (s *directShortener) BuildPublicURL(code string) string {
	return s.publicBaseURL + "/s/" + code
}

type shortenRequest struct {
	Target string `json:"target"`
}

type shortenResponse struct {
	Code string `json:"code"`
}

type httpShortener struct {
	baseURL       string
	publicBaseURL string
	client        *http.Client
}

func (s *httpShortener) CreateShortCode(ctx context.Context, token string) (string, error) {
	body, err := json.Marshal(shortenRequest{Target: LongURL(s.publicBaseURL, token)})
	if err != nil {
		return "", fmt.Errorf("failed to marshal shorten request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/shorten", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create shorten request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("shortener unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("shortener returned status %d", resp.StatusCode)
	}

	var out shortenResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode shorten response: %w", err)
	}
	if out.Code == "" {
		return "", errors.New("shortener returned an empty code")
	}
	return out.Code, nil
}

func (s *httpShortener) BuildPublicURL(code string) string {
	return s.baseURL + "/s/" + code
}
