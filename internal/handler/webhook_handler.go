package handler

import (
	"net/http"

	"geoloc193/internal/model"
	"geoloc193/internal/service"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/useinsider/go-pkg/inslogger"
)

type WebhookHandler struct {
	reconciler service.DeliveryReconciler
	validate   *validatorv10.Validate
	logger     inslogger.Interface
}

func NewWebhookHandler(reconciler service.DeliveryReconciler, validate *validatorv10.Validate, logger inslogger.Interface) *WebhookHandler {
	return &WebhookHandler{
		reconciler: reconciler,
		validate:   validate,
		logger:     logger,
	}
}

// SMSStatus receives delivery reports from the SMS gateway. Unmatched reports are
// acknowledged so the gateway does not retry them.
// @Summary SMS delivery report callback
// @Tags webhooks
// @Accept json
// @Produce json
// @Param report body model.SMSStatusCallback true "Delivery report"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /webhooks/sms-status [post]
func (h *WebhookHandler) SMSStatus(c *gin.Context) {
	var payload model.SMSStatusCallback
	if err := BindAndValidate(c, &payload, h.validate); err != nil {
		return
	}

	result, err := h.reconciler.Reconcile(c.Request.Context(), payload.PhoneNumber, payload.Status, payload.ErrorCode)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	body := gin.H{
		"success": true,
		"matched": result.Outcome != service.ReconcileNoMatch,
		"outcome": result.Outcome,
	}
	if result.RequestID != 0 {
		body["request_id"] = result.RequestID
	}
	c.JSON(http.StatusOK, body)
}
