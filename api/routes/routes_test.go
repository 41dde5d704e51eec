package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ArowuTest/bridgetunes-event-wheel/internal/config"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/handlers"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/middleware"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/models"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/repositories/memory"
	"github.com/ArowuTest/bridgetunes-event-wheel/internal/services"
	"github.com/ArowuTest/bridgetunes-event-wheel/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testServer struct {
	router *gin.Engine
	store  *memory.Store
	tokens *jwt.TokenService
	auth   services.AuthService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{Server: config.ServerConfig{AllowedHosts: []string{"http://localhost:3000"}}}
	store := memory.NewStore()
	tokens := jwt.NewTokenService("secret", "", time.Hour)
	table, err := services.NewPrizeTable(services.DefaultPrizes())
	require.NoError(t, err)

	auth := services.NewAuthService(store.AdminUsers(), tokens)
	deps := HandlerDependencies{
		AuthHandler:  handlers.NewAuthHandler(auth),
		UserHandler:  handlers.NewUserHandler(services.NewUserService(store.Users(), store.Spins(), store.PointTransactions())),
		SpinHandler:  handlers.NewSpinHandler(services.NewSpinService(store.Users(), store.Spins(), table, nil, 20, 0)),
		EventHandler: handlers.NewEventHandler(services.NewEventService(store.Events(), store.Votes(), store.Users(), store.PointTransactions(), 10)),
		Tokens:       tokens,
		SpinLimiter:  middleware.NewRateLimiter(0.001, 2, time.Minute),
	}
	return &testServer{router: SetupRouter(cfg, deps), store: store, tokens: tokens, auth: auth}
}

func (s *testServer) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func TestHealthAndPublicRoutes(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/health", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/wheel/prizes", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/events", "", nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodGet, "/api/v1/metrics", "", nil).Code)
}

func TestAttendeeAndStaffFlow(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	attendee, err := s.tokens.Issue("acc-1", "Ada", "", "")
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/api/v1/wheel/spin", "", nil).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/accounts/me", attendee, nil).Code)
	assert.Equal(t, http.StatusPaymentRequired, s.do(t, http.MethodPost, "/api/v1/wheel/spin", attendee, nil).Code)

	// Staff login and grant
	_, err = s.auth.CreateAdmin(ctx, "desk@example.com", "correct-horse", "Front Desk")
	require.NoError(t, err)
	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "desk@example.com", "password": "correct-horse"})
	require.Equal(t, http.StatusOK, w.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &login))

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/v1/admin/accounts/acc-1/points", attendee, gin.H{"points": 20}).Code)
	require.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/admin/accounts/acc-1/points", login.Token, gin.H{"points": 20}).Code)

	w = s.do(t, http.MethodPost, "/api/v1/wheel/spin", attendee, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var record models.SpinRecord
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &record))

	// Attendees cannot redeem their own tickets
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPost, "/api/v1/claims/"+record.ClaimTicketID, attendee, nil).Code)
	assert.Equal(t, http.StatusOK, s.do(t, http.MethodPost, "/api/v1/claims/"+record.ClaimTicketID, login.Token, nil).Code)
	assert.Equal(t, http.StatusConflict, s.do(t, http.MethodPost, "/api/v1/claims/"+record.ClaimTicketID, login.Token, nil).Code)

	// Burst of two is spent: the next spin is throttled before it reaches the service
	assert.Equal(t, http.StatusTooManyRequests, s.do(t, http.MethodPost, "/api/v1/wheel/spin", attendee, nil).Code)
}

func TestLogin_BadCredentials(t *testing.T) {
	s := newTestServer(t)
	w := s.do(t, http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "nobody@example.com", "password": "whatever1"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
