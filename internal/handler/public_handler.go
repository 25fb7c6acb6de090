package handler

import (
	"net/http"
	"time"

	"geoloc193/internal/model"
	"geoloc193/internal/service"

	"github.com/gin-gonic/gin"
	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/useinsider/go-pkg/inslogger"
)

// PublicHandler serves the caller's device. Everything is addressed by link token.
type PublicHandler struct {
	requests   service.RequestService
	transcript service.TranscriptService
	intervals  model.PollIntervals
	validate   *validatorv10.Validate
	logger     inslogger.Interface
}

func NewPublicHandler(
	requests service.RequestService,
	transcript service.TranscriptService,
	messagePoll, statusPoll time.Duration,
	validate *validatorv10.Validate,
	logger inslogger.Interface,
) *PublicHandler {
	return &PublicHandler{
		requests:   requests,
		transcript: transcript,
		intervals: model.PollIntervals{
			MessagePollSeconds: int(messagePoll / time.Second),
			StatusPollSeconds:  int(statusPoll / time.Second),
		},
		validate: validate,
		logger:   logger,
	}
}

// ResolveByPhone
// @Summary Find a link token by phone suffix
// @Description The caller types the last 8 or 9 digits of the number the SMS was sent to.
// @Tags public
// @Produce json
// @Param phone query string true "Last 8 or 9 digits"
// @Success 200 {object} model.ResolveResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/public/resolve [get]
func (h *PublicHandler) ResolveByPhone(c *gin.Context) {
	token, err := h.requests.ResolveByPhone(c.Request.Context(), c.Query("phone"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.ResolveResponse{Token: token})
}

// GetRequestStatus
// @Summary Poll the caller's request
// @Tags public
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {object} model.PublicRequestView
// @Failure 404 {object} ErrorResponse
// @Router /api/public/requests/{token} [get]
func (h *PublicHandler) GetRequestStatus(c *gin.Context) {
	view, err := h.requests.PublicView(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

// SubmitLocation
// @Summary Share the caller's position
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Param location body model.SubmitLocationPayload true "Coordinates"
// @Success 200 {object} model.PublicRequestView
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/public/requests/{token}/location [post]
func (h *PublicHandler) SubmitLocation(c *gin.Context) {
	var payload model.SubmitLocationPayload
	if err := BindAndValidate(c, &payload, h.validate); err != nil {
		return
	}

	req, err := h.requests.SubmitLocation(c.Request.Context(), c.Param("token"), model.Location{
		Latitude:  *payload.Latitude,
		Longitude: *payload.Longitude,
		Accuracy:  payload.Accuracy,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, model.PublicRequestView{
		Status:        req.Status,
		RequesterName: req.RequesterName,
		Location:      req.Location,
		Address:       req.Address,
		LinkExpiresAt: req.LinkExpiresAt,
	})
}

// ListMessages
// @Summary Poll the transcript
// @Tags public
// @Produce json
// @Param token path string true "Link token"
// @Success 200 {array} model.Message
// @Failure 404 {object} ErrorResponse
// @Router /api/public/requests/{token}/messages [get]
func (h *PublicHandler) ListMessages(c *gin.Context) {
	messages, err := h.transcript.ListForCaller(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, messages)
}

// AppendMessage
// @Summary Send a message to the operator
// @Tags public
// @Accept json
// @Produce json
// @Param token path string true "Link token"
// @Param message body model.AppendMessagePayload true "Message"
// @Success 201 {object} model.Message
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/public/requests/{token}/messages [post]
func (h *PublicHandler) AppendMessage(c *gin.Context) {
	var payload model.AppendMessagePayload
	if err := BindAndValidate(c, &payload, h.validate); err != nil {
		return
	}

	msg, err := h.transcript.AppendAsCaller(c.Request.Context(), c.Param("token"), payload)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, msg)
}

// GetConfig
// @Summary Poll intervals for the caller page
// @Tags public
// @Produce json
// @Success 200 {object} model.PollIntervals
// @Router /api/public/config [get]
func (h *PublicHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.intervals)
}
