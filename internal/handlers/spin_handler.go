package handlers

import (
	"net/http"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/middleware"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/services"
	"github.com/gin-gonic/gin"
)

// SpinHandler handles prize wheel HTTP requests
type SpinHandler struct {
	spinService services.SpinService
}

// NewSpinHandler creates a new SpinHandler
func NewSpinHandler(spinService services.SpinService) *SpinHandler {
	return &SpinHandler{
		spinService: spinService,
	}
}

// GetPrizes handles GET /wheel/prizes
func (h *SpinHandler) GetPrizes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"cost":   h.spinService.Cost(),
		"prizes": h.spinService.Prizes(),
	})
}

// Spin handles POST /wheel/spin. The spin is stored before the response is
// held for the wheel animation.
func (h *SpinHandler) Spin(c *gin.Context) {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}

	record, err := h.spinService.Spin(c.Request.Context(), identity.AccountID, h.spinService.Cost())
	if err != nil {
		respondError(c, err)
		return
	}

	if err := services.Present(c.Request.Context(), h.spinService.PresentationDelay()); err != nil {
		// Client went away; the spin is already recorded
		return
	}
	c.JSON(http.StatusOK, record)
}

// Claim handles POST /claims/:ticketId
func (h *SpinHandler) Claim(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	claimedBy := identity.DisplayName
	if claimedBy == "" {
		claimedBy = identity.AccountID
	}

	record, err := h.spinService.Claim(c.Request.Context(), c.Param("ticketId"), claimedBy)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}
