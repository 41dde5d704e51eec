package handlers

import (
	"errors"
	"net/http"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/services"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP statuses
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Internal server error"

	switch {
	case errors.Is(err, services.ErrInvalidInput):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrUnknownOption):
		status, message = http.StatusBadRequest, err.Error()
	case errors.Is(err, services.ErrInsufficientBalance):
		status, message = http.StatusPaymentRequired, err.Error()
	case errors.Is(err, services.ErrInvalidCredentials):
		status, message = http.StatusUnauthorized, err.Error()
	case errors.Is(err, services.ErrAccountNotFound),
		errors.Is(err, services.ErrTicketNotFound),
		errors.Is(err, services.ErrEventNotFound):
		status, message = http.StatusNotFound, err.Error()
	case errors.Is(err, services.ErrAlreadyClaimed),
		errors.Is(err, services.ErrAlreadyVoted),
		errors.Is(err, services.ErrEventClosed),
		errors.Is(err, services.ErrAdminExists):
		status, message = http.StatusConflict, err.Error()
	case errors.Is(err, services.ErrPersistence):
		status, message = http.StatusServiceUnavailable, "Temporary storage problem, please try again"
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
