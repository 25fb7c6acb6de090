package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"geoloc193/internal/model"
	"geoloc193/internal/mpostgres"

	"github.com/useinsider/go-pkg/inslogger"
)

const (
	maxTokenAttempts = 3
	minPhoneDigits   = 8
	maxPhoneDigits   = 15
	maxNameLength    = 120
	resolveScanLimit = 50
)

type RequestService interface {
	Create(ctx context.Context, requesterName, phone string, operatorID int64) (model.Request, error)
	Get(ctx context.Context, id int64) (model.Request, error)
	GetByToken(ctx context.Context, token string) (model.Request, error)
	AuthorizeToken(ctx context.Context, token string) (model.Request, error)
	PublicView(ctx context.Context, token string) (model.PublicRequestView, error)
	ResolveByPhone(ctx context.Context, query string) (string, error)
	SubmitLocation(ctx context.Context, token string, loc model.Location) (model.Request, error)
	Finalize(ctx context.Context, id, operatorID int64) (model.Request, error)
	Archive(ctx context.Context, id int64) (model.Request, error)
	List(ctx context.Context, filter model.RequestFilter) ([]model.Request, error)
	Resend(ctx context.Context, id int64, withLink bool) (model.Request, error)
}

type requestService struct {
	requests   mpostgres.RequestStore
	tokens     TokenService
	dispatcher Dispatcher
	geocoder   Geocoder
	events     EventPublisher
	logger     inslogger.Interface
}

func NewRequestService(
	requests mpostgres.RequestStore,
	tokens TokenService,
	dispatcher Dispatcher,
	geocoder Geocoder,
	events EventPublisher,
	logger inslogger.Interface,
) RequestService {
	if geocoder == nil {
		geocoder = NewNopGeocoder()
	}
	if events == nil {
		events = NewNopPublisher()
	}
	return &requestService{
		requests:   requests,
		tokens:     tokens,
		dispatcher: dispatcher,
		geocoder:   geocoder,
		events:     events,
		logger:     logger,
	}
}

// Create persists a new pending request and sends the link to the caller. A failed
// dispatch is recorded on the request as delivery failed; the request itself is never
// rolled back. When no SMS gateway is configured nothing is sent and delivery is
// recorded as not_sent rather than failed, so operators can tell a missing
// configuration apart from a gateway rejection.
func (s *requestService) Create(ctx context.Context, requesterName, phone string, operatorID int64) (model.Request, error) {
	requesterName = strings.TrimSpace(requesterName)
	if requesterName == "" {
		return model.Request{}, validationError("requester name is required")
	}
	if len(requesterName) > maxNameLength {
		return model.Request{}, validationError("requester name exceeds %d characters", maxNameLength)
	}

	digits := NormalizePhone(phone)
	if len(digits) < minPhoneDigits || len(digits) > maxPhoneDigits {
		return model.Request{}, validationError("phone must have between %d and %d digits", minPhoneDigits, maxPhoneDigits)
	}

	var created model.Request
	for attempt := 1; attempt <= maxTokenAttempts; attempt++ {
		token, expiresAt, err := s.tokens.Issue()
		if err != nil {
			return model.Request{}, fmt.Errorf("issue link token: %w", err)
		}

		created, err = s.requests.CreateRequest(ctx, model.Request{
			LinkToken:      token,
			RequesterName:  requesterName,
			Phone:          strings.TrimSpace(phone),
			Status:         model.StatusPending,
			DeliveryStatus: model.DeliveryPending,
			OperatorID:     operatorID,
			LinkExpiresAt:  expiresAt,
			CreatedAt:      s.tokens.Now(),
		}, digits)
		if errors.Is(err, mpostgres.ErrDuplicateToken) {
			s.logger.Warnf("Link token collision on attempt %d, reissuing", attempt)
			continue
		}
		if err != nil {
			return model.Request{}, fmt.Errorf("create request: %w", err)
		}
		break
	}
	if created.ID == 0 {
		return model.Request{}, fmt.Errorf("create request: %w", mpostgres.ErrDuplicateToken)
	}

	s.logger.Logf("Created request %d for operator %d", created.ID, operatorID)
	return s.dispatch(ctx, created, true), nil
}

func (s *requestService) dispatch(ctx context.Context, req model.Request, withLink bool) model.Request {
	result := s.dispatcher.Send(ctx, req.Phone, req.LinkToken, withLink)

	delivery := model.Delivery{Status: model.DeliveryPending, ProviderMessageID: result.ProviderMessageID}
	switch {
	case result.NotConfigured:
		delivery = model.Delivery{Status: model.DeliveryNotSent, ErrorCode: result.ErrorCode}
	case !result.Accepted:
		delivery = model.Delivery{Status: model.DeliveryFailed, ErrorCode: result.ErrorCode}
	}

	now := s.tokens.Now()
	if err := s.requests.UpdateDelivery(ctx, req.ID, delivery, now); err != nil {
		s.logger.Errorf("Failed to record delivery status for request %d: %v", req.ID, err)
		return req
	}

	req.DeliveryStatus = delivery.Status
	req.DeliveryErrorCode = delivery.ErrorCode
	req.ProviderMessageID = delivery.ProviderMessageID
	req.UpdatedAt = now

	if result.Accepted {
		s.logger.Logf("SMS for request %d accepted by gateway (id %q)", req.ID, result.ProviderMessageID)
	}
	return req
}

func (s *requestService) Get(ctx context.Context, id int64) (model.Request, error) {
	req, err := s.requests.GetRequest(ctx, id)
	if err != nil {
		return model.Request{}, storeError(err)
	}
	return req, nil
}

// GetByToken is the audit lookup. Archived and expired requests are returned as-is.
func (s *requestService) GetByToken(ctx context.Context, token string) (model.Request, error) {
	if token == "" {
		return model.Request{}, ErrNotFound
	}
	req, err := s.requests.GetRequestByToken(ctx, token)
	if err != nil {
		return model.Request{}, storeError(err)
	}
	return req, nil
}

// AuthorizeToken returns the request a caller-side token grants access to.
// Unknown or archived tokens are ErrNotFound; expired ones are ErrLinkExpired.
func (s *requestService) AuthorizeToken(ctx context.Context, token string) (model.Request, error) {
	req, err := s.GetByToken(ctx, token)
	if err != nil {
		return model.Request{}, err
	}
	if req.Archived {
		return model.Request{}, ErrNotFound
	}
	if !s.tokens.Validate(req.LinkExpiresAt, s.tokens.Now()) {
		return model.Request{}, ErrLinkExpired
	}
	return req, nil
}

// PublicView is polled by the caller page. An expired link only reports status and
// expiry so the page can tell the caller it is no longer valid; personal data is withheld.
func (s *requestService) PublicView(ctx context.Context, token string) (model.PublicRequestView, error) {
	req, err := s.GetByToken(ctx, token)
	if err != nil {
		return model.PublicRequestView{}, err
	}
	if req.Archived {
		return model.PublicRequestView{}, ErrNotFound
	}

	if !s.tokens.Validate(req.LinkExpiresAt, s.tokens.Now()) {
		return model.PublicRequestView{
			Status:        req.Status,
			LinkExpiresAt: req.LinkExpiresAt,
			Expired:       true,
		}, nil
	}

	return model.PublicRequestView{
		Status:        req.Status,
		RequesterName: req.RequesterName,
		Location:      req.Location,
		Address:       req.Address,
		LinkExpiresAt: req.LinkExpiresAt,
	}, nil
}

// ResolveByPhone lets a caller who cannot open the texted link find it by typing the
// last 8 or 9 digits of their number. Only the newest matching request is considered.
func (s *requestService) ResolveByPhone(ctx context.Context, query string) (string, error) {
	digits := NormalizePhone(query)
	if len(digits) < minSuffixDigits || len(digits) > maxSuffixDigits {
		return "", ErrNotFound
	}

	candidates, err := s.requests.FindActiveByPhoneSuffix(ctx, digits, resolveScanLimit)
	if err != nil {
		return "", fmt.Errorf("resolve by phone: %w", err)
	}

	for _, req := range candidates {
		if !MatchSuffix(NormalizePhone(req.Phone), digits) {
			continue
		}
		if !s.tokens.Validate(req.LinkExpiresAt, s.tokens.Now()) {
			return "", ErrNotFound
		}
		return req.LinkToken, nil
	}
	return "", ErrNotFound
}

func (s *requestService) SubmitLocation(ctx context.Context, token string, loc model.Location) (model.Request, error) {
	if loc.Latitude < -90 || loc.Latitude > 90 || loc.Longitude < -180 || loc.Longitude > 180 {
		return model.Request{}, validationError("coordinates out of range")
	}
	if loc.Accuracy != nil && *loc.Accuracy < 0 {
		return model.Request{}, validationError("accuracy must not be negative")
	}

	req, err := s.AuthorizeToken(ctx, token)
	if err != nil {
		return model.Request{}, err
	}
	if req.Status == model.StatusFinalized {
		return model.Request{}, ErrInvalidTransition
	}

	update := model.LocationUpdate{Location: loc}
	address, plusCode, err := s.geocoder.Reverse(ctx, Coordinates{Latitude: loc.Latitude, Longitude: loc.Longitude})
	if err != nil {
		s.logger.Warnf("Reverse geocoding failed for request %d: %v", req.ID, err)
	} else {
		update.Address = address
		update.PlusCode = plusCode
	}

	updated, err := s.requests.UpdateLocation(ctx, req.ID, update, s.tokens.Now())
	if errors.Is(err, mpostgres.ErrStatusMismatch) {
		return model.Request{}, s.rejectionReason(ctx, req.ID)
	}
	if err != nil {
		return model.Request{}, fmt.Errorf("submit location: %w", err)
	}

	s.publish(ctx, model.Event{
		Type:       model.EventLocationReceived,
		RequestID:  updated.ID,
		OperatorID: updated.OperatorID,
		Attributes: map[string]string{"status": string(updated.Status)},
		OccurredAt: updated.UpdatedAt,
	})
	return updated, nil
}

// rejectionReason classifies a conditional update that matched no row, since the
// request may have changed between the read and the write.
func (s *requestService) rejectionReason(ctx context.Context, id int64) error {
	current, err := s.requests.GetRequest(ctx, id)
	switch {
	case err != nil:
		return storeError(err)
	case current.Archived:
		return ErrNotFound
	case !s.tokens.Validate(current.LinkExpiresAt, s.tokens.Now()):
		return ErrLinkExpired
	default:
		return ErrInvalidTransition
	}
}

// Finalize closes a request once its location has been received.
func (s *requestService) Finalize(ctx context.Context, id, operatorID int64) (model.Request, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return model.Request{}, err
	}
	if req.Status != model.StatusReceived {
		return model.Request{}, ErrInvalidTransition
	}

	updated, err := s.requests.UpdateStatus(ctx, id, model.StatusReceived, model.StatusFinalized, operatorID, s.tokens.Now())
	if errors.Is(err, mpostgres.ErrStatusMismatch) {
		return model.Request{}, ErrInvalidTransition
	}
	if err != nil {
		return model.Request{}, fmt.Errorf("finalize request: %w", err)
	}

	s.logger.Logf("Request %d finalized by operator %d", id, operatorID)
	return updated, nil
}

// Archive hides a request from default listings and revokes its link. Calling it
// again is a no-op.
func (s *requestService) Archive(ctx context.Context, id int64) (model.Request, error) {
	req, err := s.requests.Archive(ctx, id, s.tokens.Now())
	if err != nil {
		return model.Request{}, storeError(err)
	}
	return req, nil
}

func (s *requestService) List(ctx context.Context, filter model.RequestFilter) ([]model.Request, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, validationError("unknown status %q", *filter.Status)
	}
	requests, err := s.requests.ListRequests(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return requests, nil
}

// Resend texts the caller again using the existing token.
func (s *requestService) Resend(ctx context.Context, id int64, withLink bool) (model.Request, error) {
	req, err := s.Get(ctx, id)
	if err != nil {
		return model.Request{}, err
	}
	if req.Archived {
		return model.Request{}, ErrInvalidTransition
	}
	if !s.tokens.Validate(req.LinkExpiresAt, s.tokens.Now()) {
		return model.Request{}, ErrLinkExpired
	}

	s.logger.Logf("Resending SMS for request %d (with link: %t)", id, withLink)
	return s.dispatch(ctx, req, withLink), nil
}

func (s *requestService) publish(ctx context.Context, event model.Event) {
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Warnf("Failed to publish %s event for request %d: %v", event.Type, event.RequestID, err)
	}
}

func storeError(err error) error {
	if errors.Is(err, mpostgres.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
