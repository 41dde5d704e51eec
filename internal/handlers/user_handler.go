package handlers

import (
	"net/http"
	"strconv"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/middleware"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/services"
	"github.com/gin-gonic/gin"
)

// UserHandler handles attendee account HTTP requests
type UserHandler struct {
	userService services.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService services.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// EnsureMe handles POST /accounts/me
func (h *UserHandler) EnsureMe(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	user, err := h.userService.EnsureAccount(c.Request.Context(), identity)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetMe handles GET /accounts/me
func (h *UserHandler) GetMe(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	user, err := h.userService.GetAccount(c.Request.Context(), identity.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

// GetMySpins handles GET /accounts/me/spins
func (h *UserHandler) GetMySpins(c *gin.Context) {
	identity, _ := middleware.IdentityFromContext(c)
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	records, err := h.userService.History(c.Request.Context(), identity.AccountID, limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GrantPoints handles POST /admin/accounts/:id/points
func (h *UserHandler) GrantPoints(c *gin.Context) {
	var req models.GrantPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	identity, _ := middleware.IdentityFromContext(c)
	user, err := h.userService.GrantPoints(c.Request.Context(), c.Param("id"), req.Points, identity.AccountID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
