package handlers

import (
	"log/slog"
	"net/http"

	"jumpstart-backend/models"
	"jumpstart-backend/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubscriberHandler handles HTTP requests for subscribers
type SubscriberHandler struct {
	subscriberService *service.SubscriberService
	logger            *slog.Logger
}

// NewSubscriberHandler creates a new subscriber handler
func NewSubscriberHandler(subscriberService *service.SubscriberService, logger *slog.Logger) *SubscriberHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &SubscriberHandler{
		subscriberService: subscriberService,
		logger:            logger,
	}
}

// SubscribeRequest is the body for POST /api/subscribers
type SubscribeRequest struct {
	Email string `json:"email"`
}

// Subscribe handles POST /api/subscribers
func (h *SubscriberHandler) Subscribe(c *gin.Context) {
	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, models.CodeInvalidRequest, "Request body must be JSON with an email field")
		return
	}

	subscriber, err := h.subscriberService.Subscribe(c.Request.Context(), req.Email)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Subscribed successfully",
		"subscriber": subscriber,
	})
}

// Unsubscribe handles DELETE /api/subscribers/:id
func (h *SubscriberHandler) Unsubscribe(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, http.StatusBadRequest, models.CodeInvalidID, "Invalid subscriber ID")
		return
	}

	if err := h.subscriberService.Unsubscribe(c.Request.Context(), id); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscriber removed"})
}

// UnsubscribeByEmail handles DELETE /api/subscribers?email=..., the target
// of the unsubscribe link in notification emails.
func (h *SubscriberHandler) UnsubscribeByEmail(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		respondError(c, http.StatusBadRequest, models.CodeInvalidRequest, "email query parameter is required")
		return
	}

	if err := h.subscriberService.UnsubscribeEmail(c.Request.Context(), email); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscriber removed"})
}
