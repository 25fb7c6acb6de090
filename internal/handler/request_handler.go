package handler

import (
	"net/http"
	"strconv"

	"geoloc193/internal/model"
	"geoloc193/internal/service"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/useinsider/go-pkg/inslogger"
)

// RequestHandler serves the operator console.
type RequestHandler struct {
	requests   service.RequestService
	transcript service.TranscriptService
	validate   *validatorv10.Validate
	logger     inslogger.Interface
}

func NewRequestHandler(
	requests service.RequestService,
	transcript service.TranscriptService,
	validate *validatorv10.Validate,
	logger inslogger.Interface,
) *RequestHandler {
	return &RequestHandler{
		requests:   requests,
		transcript: transcript,
		validate:   validate,
		logger:     logger,
	}
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid_id", Message: "Request id must be a positive integer"})
		return 0, false
	}
	return id, true
}

// CreateRequest registers a caller and texts them the location link.
// @Summary Create a geolocation request
// @Description Create a request and send the location link by SMS. Delivery failures are reported in delivery_status.
// @Tags requests
// @Accept json
// @Produce json
// @Param X-Operator-ID header int true "Operator id"
// @Param request body model.CreateRequestPayload true "Caller details"
// @Success 201 {object} model.Request
// @Failure 400 {object} ErrorResponse
// @Router /api/requests [post]
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	var payload model.CreateRequestPayload
	if err := BindAndValidate(c, &payload, h.validate); err != nil {
		return
	}

	req, err := h.requests.Create(c.Request.Context(), payload.RequesterName, payload.Phone, operatorID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, req)
}

// ListRequests returns requests ordered pending, received, finalized, newest first.
// @Summary List requests
// @Tags requests
// @Produce json
// @Param X-Operator-ID header int true "Operator id"
// @Param status query string false "pending, received or finalized"
// @Param archived query bool false "Include archived requests"
// @Success 200 {array} model.Request
// @Failure 400 {object} ErrorResponse
// @Router /api/requests [get]
func (h *RequestHandler) ListRequests(c *gin.Context) {
	var filter model.RequestFilter
	if status := c.Query("status"); status != "" {
		s := model.Status(status)
		filter.Status = &s
	}
	if archived := c.Query("archived"); archived != "" {
		include, err := strconv.ParseBool(archived)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation_failed", Message: "archived must be a boolean"})
			return
		}
		filter.IncludeArchived = include
	}

	requests, err := h.requests.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, requests)
}

// GetRequest
// @Summary Get a request
// @Tags requests
// @Produce json
// @Param X-Operator-ID header int true "Operator id"
// @Param id path int true "Request id"
// @Success 200 {object} model.Request
// @Failure 404 {object} ErrorResponse
// @Router /api/requests/{id} [get]
func (h *RequestHandler) GetRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	req, err := h.requests.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// GetRequestByToken is the audit lookup; archived and expired requests are included.
// @Summary Look up a request by link token
// @Tags requests
// @Produce json
// @Param X-Operator-ID header int true "Operator id"
// @Param token path string true "Link token"
// @Success 200 {object} model.Request
// @Failure 404 {object} ErrorResponse
// @Router /api/requests/token/{token} [get]
func (h *RequestHandler) GetRequestByToken(c *gin.Context) {
	req, err := h.requests.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// FinalizeRequest
// @Summary Finalize a request
// @Description Only requests whose location was received can be finalized.
// @Tags requests
// @Produce json
// @Param X-Operator-ID header int true "Operator id"
// @Param id path int true "Request id"
// @Success 200 {object} model.Request
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/requests/{id}/finalize [post]
func (h *RequestHandler) FinalizeRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	req, err := h.requests.Finalize(c.Request.Context(), id, operatorID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// ArchiveRequest
// @Summary Archive a request
// @Description Hides the request from default listings and revokes its link. Idempotent.
// @Tags requests
// @Produce json
// @Param X-Operator-ID header int true "Operator id"
// @Param id path int true "Request id"
// @Success 200 {object} model.Request
// @Failure 404 {object} ErrorResponse
// @Router /api/requests/{id}/archive [post]
func (h *RequestHandler) ArchiveRequest(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	req, err := h.requests.Archive(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.logger.Logf("Request %d archived by operator %d", id, operatorID(c))
	c.JSON(http.StatusOK, req)
}

// ResendSMS
// @Summary Resend the SMS
// @Description Texts the caller again with the same token. with_link defaults to true.
// @Tags requests
// @Accept json
// @Produce json
// @Param X-Operator-ID header int true "Operator id"
// @Param id path int true "Request id"
// @Param request body model.ResendPayload false "Resend options"
// @Success 200 {object} model.Request
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/requests/{id}/resend [post]
func (h *RequestHandler) ResendSMS(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload model.ResendPayload
	if c.Request.ContentLength > 0 {
		if err := BindAndValidate(c, &payload, h.validate); err != nil {
			return
		}
	}
	withLink := payload.WithLink == nil || *payload.WithLink

	req, err := h.requests.Resend(c.Request.Context(), id, withLink)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// ListMessages
// @Summary List the transcript of a request
// @Tags messages
// @Produce json
// @Param X-Operator-ID header int true "Operator id"
// @Param id path int true "Request id"
// @Success 200 {array} model.Message
// @Failure 404 {object} ErrorResponse
// @Router /api/requests/{id}/messages [get]
func (h *RequestHandler) ListMessages(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	messages, err := h.transcript.List(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// AppendMessage posts an attendant message.
// @Summary Send a message to the caller
// @Tags messages
// @Accept json
// @Produce json
// @Param X-Operator-ID header int true "Operator id"
// @Param id path int true "Request id"
// @Param message body model.AppendMessagePayload true "Message"
// @Success 201 {object} model.Message
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/requests/{id}/messages [post]
func (h *RequestHandler) AppendMessage(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var payload model.AppendMessagePayload
	if err := BindAndValidate(c, &payload, h.validate); err != nil {
		return
	}

	msg, err := h.transcript.Append(c.Request.Context(), id, model.SenderAttendant, payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// MarkMessagesRead
// @Summary Mark the caller's messages as read
// @Tags messages
// @Produce json
// @Param X-Operator-ID header int true "Operator id"
// @Param id path int true "Request id"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /api/requests/{id}/messages/read [post]
func (h *RequestHandler) MarkMessagesRead(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	n, err := h.transcript.MarkRead(c.Request.Context(), id, model.SenderAttendant)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked": n})
}
