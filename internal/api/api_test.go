package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"flexapp/flex-api/internal/config"
	"flexapp/flex-api/internal/repository/memory"
	"flexapp/flex-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const stubPlanJSON = `{
	"title": "Beginner Strength Plan",
	"description": "Three days of full-body strength work.",
	"fitness_level": "beginner",
	"goals": ["strength"],
	"workout_days": [
		{
			"day": "Day 1",
			"focus": "Full Body",
			"exercises": [
				{
					"name": "Goblet Squat",
					"sets": 3,
					"reps": "8-12",
					"rest_time": "60s",
					"muscle_groups": ["quads", "glutes"],
					"difficulty": "beginner"
				}
			],
			"total_time": 45
		}
	]
}`

// stubGenerator returns the same canned plan on every call.
type stubGenerator struct {
	text string
	err  error
}

func (s *stubGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	return s.text, s.err
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zap.NewNop()
	authService := service.NewAuthService(memory.NewUserRepository(), "test-secret", "HS256", 30*time.Minute)
	plannerService := service.NewPlannerService(
		memory.NewPlanRepository(),
		&stubGenerator{text: stubPlanJSON},
		time.Second,
		logger,
	)

	router := gin.New()
	corsCfg := config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}}
	SetupRoutes(router, corsCfg, authService, plannerService, logger)
	return router
}

func doJSON(router *gin.Engine, method, path, token string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func register(t *testing.T, router *gin.Engine, username string) {
	t.Helper()
	body := `{"username": "` + username + `", "email": "` + username + `@x.com", "password": "pw123"}`
	w := doJSON(router, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
}

func login(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp TokenResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, "bearer", resp.TokenType)
	return resp.AccessToken
}

func TestRegisterAndDuplicate(t *testing.T) {
	router := newTestRouter(t)

	body := `{"username": "alice", "email": "a@x.com", "password": "pw123", "full_name": "Alice"}`
	w := doJSON(router, http.MethodPost, "/api/auth/register", "", body)
	require.Equal(t, http.StatusOK, w.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "Alice", user.FullName)
	assert.NotContains(t, w.Body.String(), "passwordHash")

	w = doJSON(router, http.MethodPost, "/api/auth/register", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTokenEndpoint(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "alice")

	token := login(t, router, "alice", "pw123")
	assert.NotEmpty(t, token)

	// Wrong password yields 401 with no hint about which half failed.
	form := url.Values{"username": {"alice"}, "password": {"wrong"}}
	req := httptest.NewRequest(http.MethodPost, "/api/auth/token", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "alice")
	token := login(t, router, "alice", "pw123")

	w := doJSON(router, http.MethodGet, "/api/auth/me", token, "")
	require.Equal(t, http.StatusOK, w.Code)

	var user UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &user))
	assert.Equal(t, "alice", user.Username)

	// No token and a garbage token both fail uniformly.
	w = doJSON(router, http.MethodGet, "/api/auth/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(router, http.MethodGet, "/api/auth/me", "garbage", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

const generateBody = `{
	"fitness_level": "beginner",
	"goals": ["strength"],
	"workout_days_per_week": 3,
	"time_per_session": 45
}`

func TestGenerateEndpoint(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "alice")
	token := login(t, router, "alice", "pw123")

	w := doJSON(router, http.MethodPost, "/api/ai-planner/generate", token, generateBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp GeneratePlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Plan)
	assert.NotEmpty(t, resp.Plan.ID)
	assert.Equal(t, "alice", resp.Plan.Owner)
	assert.Equal(t, "Beginner Strength Plan", resp.Plan.Title)
	assert.Equal(t, "Workout plan generated successfully", resp.Message)

	// Unauthenticated generation is rejected before any work happens.
	w = doJSON(router, http.MethodPost, "/api/ai-planner/generate", "", generateBody)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// A request failing validation never reaches the upstream.
	bad := `{"fitness_level": "beginner", "goals": ["strength"], "workout_days_per_week": 9, "time_per_session": 45}`
	w = doJSON(router, http.MethodPost, "/api/ai-planner/generate", token, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPlanOwnershipOverHTTP(t *testing.T) {
	router := newTestRouter(t)
	register(t, router, "alice")
	register(t, router, "bob")
	aliceToken := login(t, router, "alice", "pw123")
	bobToken := login(t, router, "bob", "pw123")

	w := doJSON(router, http.MethodPost, "/api/ai-planner/generate", aliceToken, generateBody)
	require.Equal(t, http.StatusOK, w.Code)

	var resp GeneratePlanResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	planID := resp.Plan.ID

	// Owner can fetch it.
	w = doJSON(router, http.MethodGet, "/api/ai-planner/plans/"+planID, aliceToken, "")
	assert.Equal(t, http.StatusOK, w.Code)

	// A different user gets 403, not 404.
	w = doJSON(router, http.MethodGet, "/api/ai-planner/plans/"+planID, bobToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	// An unknown id gets 404.
	w = doJSON(router, http.MethodGet, "/api/ai-planner/plans/no-such-id", aliceToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	// Bob's list does not include Alice's plan.
	w = doJSON(router, http.MethodGet, "/api/ai-planner/plans", bobToken, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	// Cross-owner delete is forbidden; owner delete succeeds once.
	w = doJSON(router, http.MethodDelete, "/api/ai-planner/plans/"+planID, bobToken, "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/ai-planner/plans/"+planID, aliceToken, "")
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(router, http.MethodDelete, "/api/ai-planner/plans/"+planID, aliceToken, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}
