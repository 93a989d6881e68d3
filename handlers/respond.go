package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"jumpstart-backend/models"

	"github.com/gin-gonic/gin"
)

// respondError writes the error envelope: a human-readable message plus a
// stable machine-checkable code. Internal details never reach the body.
func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"error": message,
		"code":  code,
	})
}

// handleServiceError translates service-layer errors into client responses.
// Validation and not-found errors surface as-is; anything unexpected is
// logged server-side and reported as a generic internal error.
func handleServiceError(c *gin.Context, logger *slog.Logger, err error) {
	if verr, ok := models.AsValidation(err); ok {
		respondError(c, http.StatusBadRequest, verr.Code, verr.Message)
		return
	}

	switch {
	case errors.Is(err, models.ErrNewsletterNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Newsletter not found")
	case errors.Is(err, models.ErrSubscriberNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Subscriber not found")
	case errors.Is(err, models.ErrPostNotFound):
		respondError(c, http.StatusNotFound, "NOT_FOUND", "Post not found")
	case errors.Is(err, models.ErrDuplicateEmail):
		respondError(c, http.StatusConflict, "ALREADY_SUBSCRIBED", "Email already subscribed")
	case errors.Is(err, models.ErrNoActiveSubscribers):
		respondError(c, http.StatusBadRequest, "NO_ACTIVE_SUBSCRIBERS", "There are no active subscribers")
	case errors.Is(err, models.ErrAlreadyNotified):
		respondError(c, http.StatusConflict, "ALREADY_NOTIFIED", "Subscribers were already notified for this newsletter")
	case errors.Is(err, models.ErrInvalidCredentials):
		respondError(c, http.StatusUnauthorized, "INVALID_CREDENTIALS", "Invalid email or password")
	default:
		logger.Error("request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("error", err.Error()))
		respondError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
	}
}
