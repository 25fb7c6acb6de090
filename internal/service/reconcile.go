package service

import (
	"context"
	"fmt"
	"strings"

	"geoloc193/internal/model"
	"geoloc193/internal/mpostgres"

	"github.com/useinsider/go-pkg/inslogger"
)

type ReconcileOutcome string

const (
	ReconcileNoMatch          ReconcileOutcome = "no_match"
	ReconcileMatched          ReconcileOutcome = "matched"
	ReconcileMatchedAmbiguous ReconcileOutcome = "matched_ambiguous"
)

type ReconcileResult struct {
	Outcome    ReconcileOutcome `json:"outcome"`
	RequestID  int64            `json:"request_id,omitempty"`
	Candidates int              `json:"candidates"`
}

// DeliveryReconciler applies gateway delivery reports. Reports carry no request id,
// only the destination phone, so the newest non-archived request for that phone wins.
type DeliveryReconciler interface {
	Reconcile(ctx context.Context, rawPhone, statusLabel, errorCode string) (ReconcileResult, error)
}

type deliveryReconciler struct {
	requests mpostgres.RequestStore
	tokens   TokenService
	events   EventPublisher
	logger   inslogger.Interface
}

func NewDeliveryReconciler(
	requests mpostgres.RequestStore,
	tokens TokenService,
	events EventPublisher,
	logger inslogger.Interface,
) DeliveryReconciler {
	if events == nil {
		events = NewNopPublisher()
	}
	return &deliveryReconciler{
		requests: requests,
		tokens:   tokens,
		events:   events,
		logger:   logger,
	}
}

func (r *deliveryReconciler) Reconcile(ctx context.Context, rawPhone, statusLabel, errorCode string) (ReconcileResult, error) {
	digits := NormalizePhone(rawPhone)
	if len(digits) < minSuffixDigits {
		r.logger.Warnf("Delivery report ignored, phone %q has too few digits", rawPhone)
		return ReconcileResult{Outcome: ReconcileNoMatch}, nil
	}
	fragment := lastDigits(digits, callbackDigits)

	delivery := model.Delivery{Status: DeliveryStatusFromLabel(statusLabel)}
	if delivery.Status == model.DeliveryFailed {
		delivery.ErrorCode = strings.TrimSpace(errorCode)
	}

	id, candidates, err := r.requests.ApplyDeliveryReport(ctx, fragment, delivery, r.tokens.Now())
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("reconcile delivery report: %w", err)
	}
	if candidates == 0 {
		r.logger.Warnf("Delivery report for %s matched no active request", fragment)
		return ReconcileResult{Outcome: ReconcileNoMatch}, nil
	}

	result := ReconcileResult{Outcome: ReconcileMatched, RequestID: id, Candidates: candidates}
	if candidates > 1 {
		result.Outcome = ReconcileMatchedAmbiguous
		r.logger.Warnf("Delivery report for %s matched %d requests, applied to newest (%d)", fragment, candidates, id)
	}

	if err := r.events.Publish(ctx, model.Event{
		Type:       model.EventDeliveryUpdated,
		RequestID:  id,
		Attributes: map[string]string{"delivery_status": string(delivery.Status)},
		OccurredAt: r.tokens.Now(),
	}); err != nil {
		r.logger.Warnf("Failed to publish delivery event for request %d: %v", id, err)
	}
	return result, nil
}

// DeliveryStatusFromLabel maps gateway labels to a delivery status. Anything other
// than a delivered label counts as a failure.
func DeliveryStatusFromLabel(label string) model.DeliveryStatus {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "delivered", "sms:delivered":
		return model.DeliveryDelivered
	}
	return model.DeliveryFailed
}
