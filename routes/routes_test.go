package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"campus-governance-api/config"
	"campus-governance-api/middleware"
	"campus-governance-api/models"
	"campus-governance-api/testutil"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "governance-test-secret"

type apiHarness struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func newAPIHarness(t *testing.T) *apiHarness {
	t.Helper()
	gin.SetMode(gin.TestMode)

	prevDB, prevApp := config.DB, config.App
	t.Cleanup(func() {
		config.DB = prevDB
		config.App = prevApp
	})

	db := testutil.NewDB(t)
	config.DB = db
	config.App = config.Defaults()
	config.App.JWTSecret = testSecret

	router := gin.New()
	SetupRoutes(router)
	return &apiHarness{t: t, db: db, router: router}
}

func (h *apiHarness) token(user models.User) string {
	h.t.Helper()
	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(h.t, err)
	return signed
}

func (h *apiHarness) do(method, path, token string, body any) (int, map[string]any) {
	h.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(h.t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)

	var payload map[string]any
	if rec.Body.Len() > 0 {
		require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &payload), rec.Body.String())
	}
	return rec.Code, payload
}

func TestHealthIsPublic(t *testing.T) {
	h := newAPIHarness(t)
	code, body := h.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	h := newAPIHarness(t)

	code, _ := h.do(http.MethodGet, "/api/v1/events/1", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = h.do(http.MethodGet, "/api/v1/events/1", "not-a-jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	ghost := models.User{UserID: 9999, RoleID: testutil.RoleAdmin}
	code, _ = h.do(http.MethodGet, "/api/v1/events/1", h.token(ghost), nil)
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestEmptySecretRejectsEveryToken(t *testing.T) {
	h := newAPIHarness(t)
	hod := testutil.CreateUser(t, h.db, testutil.RoleHOD, "hale")
	config.App.JWTSecret = ""

	claims := middleware.Claims{
		UserID: hod.UserID,
		RoleID: hod.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(""))
	require.NoError(t, err)

	event := testutil.CreateEvent(t, h.db, hod.UserID, models.EventStatusActive)
	code, _ := h.do(http.MethodPost, fmt.Sprintf("/api/v1/events/%d/lock", event.EventID), forged, nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	var locks int64
	require.NoError(t, h.db.Model(&models.ScoreLock{}).Count(&locks).Error)
	assert.Zero(t, locks)
}

func TestGovernanceFlowOverHTTP(t *testing.T) {
	h := newAPIHarness(t)

	organizer := h.token(testutil.CreateUser(t, h.db, testutil.RoleOrganizer, "olga"))
	hod := h.token(testutil.CreateUser(t, h.db, testutil.RoleHOD, "henry"))
	director := h.token(testutil.CreateUser(t, h.db, testutil.RoleDirector, "diana"))
	judgeUser := testutil.CreateUser(t, h.db, testutil.RoleJudge, "jo")
	judge := h.token(judgeUser)
	student := h.token(testutil.CreateUser(t, h.db, testutil.RoleStudent, "stu"))

	code, body := h.do(http.MethodPost, "/api/v1/events", student, map[string]any{"title": "Spring Hack"})
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, false, body["success"])

	code, body = h.do(http.MethodPost, "/api/v1/events", organizer, map[string]any{"title": "Spring Hack", "kind": "hackathon"})
	require.Equal(t, http.StatusCreated, code, body)
	eventID := int(body["event"].(map[string]any)["event_id"].(float64))
	eventPath := fmt.Sprintf("/api/v1/events/%d", eventID)

	code, _ = h.do(http.MethodPost, eventPath+"/approve", hod, nil)
	assert.Equal(t, http.StatusConflict, code)

	code, body = h.do(http.MethodPost, eventPath+"/submit", organizer, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, models.EventStatusPendingApproval, body["status"])

	code, _ = h.do(http.MethodPost, eventPath+"/approve", organizer, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = h.do(http.MethodPost, eventPath+"/approve", hod, map[string]any{"comment": "looks good"})
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, models.EventStatusActive, body["status"])

	code, body = h.do(http.MethodPost, eventPath+"/submissions", student, map[string]any{"title": "Library Bot", "team_name": "Shelf Aware"})
	require.Equal(t, http.StatusCreated, code, body)
	submissionID := int(body["submission"].(map[string]any)["submission_id"].(float64))
	scorePath := fmt.Sprintf("/api/v1/submissions/%d/score", submissionID)

	code, _ = h.do(http.MethodPut, scorePath, judge, map[string]any{"total_score": 70})
	assert.Equal(t, http.StatusForbidden, code)

	code, body = h.do(http.MethodPost, eventPath+"/judges", director, map[string]any{"judge_id": judgeUser.UserID})
	require.Equal(t, http.StatusCreated, code, body)
	code, _ = h.do(http.MethodPost, eventPath+"/judges", director, map[string]any{"judge_id": judgeUser.UserID})
	assert.Equal(t, http.StatusConflict, code)

	code, _ = h.do(http.MethodPut, scorePath, judge, map[string]any{"total_score": 170})
	assert.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = h.do(http.MethodPut, scorePath, judge, map[string]any{"feedback": "no total"})
	assert.Equal(t, http.StatusBadRequest, code)

	code, body = h.do(http.MethodPut, scorePath, judge, map[string]any{
		"criteria_scores": []map[string]any{{"name": "Impact", "score": 40, "max_score": 50}},
		"total_score":     78,
		"is_draft":        false,
	})
	require.Equal(t, http.StatusOK, code, body)

	code, body = h.do(http.MethodGet, scorePath, judge, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, models.ScoreStatusSubmitted, body["score"].(map[string]any)["status"])

	code, body = h.do(http.MethodGet, eventPath+"/leaderboard", student, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 0, body["total"])

	code, _ = h.do(http.MethodPost, eventPath+"/lock", judge, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = h.do(http.MethodPost, eventPath+"/lock", hod, map[string]any{"comment": "final"})
	require.Equal(t, http.StatusOK, code, body)

	code, _ = h.do(http.MethodPut, scorePath, judge, map[string]any{"total_score": 80, "is_draft": true})
	assert.Equal(t, http.StatusConflict, code)

	code, body = h.do(http.MethodGet, eventPath+"/leaderboard", student, nil)
	require.Equal(t, http.StatusOK, code)
	board := body["leaderboard"].([]any)
	require.Len(t, board, 1)
	first := board[0].(map[string]any)
	assert.Equal(t, "Shelf Aware", first["display_name"])
	assert.EqualValues(t, 1, first["rank"])
	assert.EqualValues(t, 78, first["mean_score"])

	code, body = h.do(http.MethodPost, eventPath+"/complete", hod, nil)
	require.Equal(t, http.StatusOK, code, body)
	assert.Equal(t, models.EventStatusCompleted, body["status"])

	code, body = h.do(http.MethodGet, eventPath+"/governance-log", hod, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 7, body["total"])

	code, _ = h.do(http.MethodGet, eventPath+"/governance-log", student, nil)
	assert.Equal(t, http.StatusForbidden, code)
	code, _ = h.do(http.MethodGet, eventPath+"/governance-log", judge, nil)
	assert.Equal(t, http.StatusForbidden, code)

	code, body = h.do(http.MethodGet, eventPath+"/governance-log", organizer, nil)
	require.Equal(t, http.StatusOK, code)
	assert.EqualValues(t, 7, body["total"])

	code, _ = h.do(http.MethodGet, "/api/v1/events/424242/leaderboard", student, nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = h.do(http.MethodGet, "/api/v1/events/abc", student, nil)
	assert.Equal(t, http.StatusBadRequest, code)
}
