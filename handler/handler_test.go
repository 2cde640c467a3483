package handler

import (
	"Lumen/config"
	"Lumen/dao"
	"Lumen/middleware"
	"Lumen/pkg/jwt"
	"Lumen/pkg/keylock"
	"Lumen/pkg/response"
	"Lumen/pkg/testdb"
	"Lumen/service"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret       = "handler-secret"
	testServiceToken = "svc-token"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newEngine(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testdb.New(t)
	conf := &config.Config{
		Jwt:    &config.Jwt{Secret: testSecret},
		Ledger: &config.Ledger{Timezone: "UTC", ServiceToken: testServiceToken},
	}

	tx := dao.NewTx(db)
	pointDAO := dao.NewPoint(db)
	points := &service.PointService{Tx: tx, PointDAO: pointDAO}
	streak := &service.StreakService{
		Tx:           tx,
		StreakDAO:    dao.NewStreak(db),
		DailyLogDAO:  dao.NewDailyLog(db),
		PointService: points,
		Locker:       keylock.New(),
		Ledger:       conf.Ledger,
	}
	board := &service.LeaderboardService{
		Tx:             tx,
		PointDAO:       pointDAO,
		LeaderboardDAO: dao.NewLeaderboard(db),
		Ledger:         conf.Ledger,
	}

	r := gin.New()
	r.Use(response.ErrorMiddleware())
	api := r.Group("/api")
	(&Point{Config: conf, PointService: points}).RegisterRouter(api)
	(&Streak{Config: conf, StreakService: streak}).RegisterRouter(api)
	(&Leaderboard{Config: conf, LeaderboardService: board}).RegisterRouter(api)
	return r
}

func userToken(t *testing.T, userID string) string {
	t.Helper()
	token, err := jwt.GenerateToken([]byte(testSecret), userID, jwt.TokenTypeAccess, time.Hour)
	require.NoError(t, err)
	return token
}

type call struct {
	method  string
	path    string
	body    any
	user    string
	service bool
}

func do(t *testing.T, r http.Handler, c call) (int, envelope) {
	t.Helper()
	var reader io.Reader
	if c.body != nil {
		b, err := json.Marshal(c.body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(c.method, c.path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.Header.Set("Authorization", "Bearer "+userToken(t, c.user))
	}
	if c.service {
		req.Header.Set(middleware.ServiceTokenHeader, testServiceToken)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func award(t *testing.T, r http.Handler, userID, action, key string) (int, envelope) {
	t.Helper()
	return do(t, r, call{
		method:  http.MethodPost,
		path:    "/api/internal/v1/points/award",
		body:    map[string]string{"user_id": userID, "action": action, "event_key": key},
		service: true,
	})
}

func TestPoint_AwardAndBalance(t *testing.T) {
	r := newEngine(t)

	code, env := award(t, r, "u1", "COMPLETE_PROJECT", "u1:COMPLETE_PROJECT:p-1")
	require.Equal(t, http.StatusOK, code, env.Msg)
	assert.Equal(t, 0, env.Code)

	code, env = do(t, r, call{method: http.MethodGet, path: "/api/v1/points/balance", user: "u1"})
	require.Equal(t, http.StatusOK, code)
	var balance struct {
		Points int64 `json:"points"`
		Exists bool  `json:"exists"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &balance))
	assert.Equal(t, int64(50), balance.Points)
	assert.True(t, balance.Exists)

	code, env = award(t, r, "u1", "COMPLETE_PROJECT", "u1:COMPLETE_PROJECT:p-1")
	assert.Equal(t, http.StatusConflict, code)
	assert.Equal(t, http.StatusConflict, env.Code)
}

func TestPoint_Deduct(t *testing.T) {
	r := newEngine(t)

	code, _ := award(t, r, "u1", "ENROLL_COURSE", "")
	require.Equal(t, http.StatusOK, code)

	code, env := do(t, r, call{
		method:  http.MethodPost,
		path:    "/api/internal/v1/points/deduct",
		body:    map[string]string{"user_id": "u1", "action": "COMPLETE_COURSE_CHAPTER"},
		service: true,
	})
	require.Equal(t, http.StatusOK, code, env.Msg)
	var account struct {
		Points int64 `json:"points"`
		Delta  int64 `json:"delta"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &account))
	assert.Equal(t, int64(0), account.Points)
	assert.Equal(t, int64(-10), account.Delta)
}

func TestPoint_Rejections(t *testing.T) {
	r := newEngine(t)

	code, _ := do(t, r, call{method: http.MethodGet, path: "/api/v1/points/balance"})
	assert.Equal(t, http.StatusUnauthorized, code)

	code, _ = do(t, r, call{
		method: http.MethodPost,
		path:   "/api/internal/v1/points/award",
		body:   map[string]string{"user_id": "u1", "action": "ENROLL_PROJECT"},
	})
	assert.Equal(t, http.StatusForbidden, code)

	code, env := award(t, r, "u1", "WATCH_VIDEO", "")
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Msg, "unknown action kind")

	code, _ = do(t, r, call{method: http.MethodGet, path: "/api/v1/points/records?action=refund", user: "u1"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestPoint_TopAndRecords(t *testing.T) {
	r := newEngine(t)

	award(t, r, "u1", "ENROLL_PROJECT", "")
	award(t, r, "u2", "COMPLETE_PROJECT", "")
	award(t, r, "u1", "DAILY_LOG", "")

	code, env := do(t, r, call{method: http.MethodGet, path: "/api/v1/points/top?n=1", user: "u1"})
	require.Equal(t, http.StatusOK, code)
	var top []struct {
		Rank   int    `json:"rank"`
		UserID string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &top))
	require.Len(t, top, 1)
	assert.Equal(t, "u2", top[0].UserID)

	code, env = do(t, r, call{method: http.MethodGet, path: "/api/v1/points/records?limit=1", user: "u1"})
	require.Equal(t, http.StatusOK, code)
	var records struct {
		Records []struct {
			ActionType string `json:"action_type"`
		} `json:"records"`
		HasMore bool `json:"has_more"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &records))
	require.Len(t, records.Records, 1)
	assert.Equal(t, "DAILY_LOG", records.Records[0].ActionType)
	assert.True(t, records.HasMore)
}

type streakData struct {
	CurrentStreak int    `json:"current_streak"`
	TotalLogs     int64  `json:"total_logs"`
	LogID         string `json:"log_id"`
	Active        bool   `json:"active"`
}

func TestStreak_RecordAndDelete(t *testing.T) {
	r := newEngine(t)

	code, env := do(t, r, call{
		method: http.MethodPost,
		path:   "/api/v1/logs",
		body:   map[string]any{"title": "学习 Go", "duration_minutes": 40},
		user:   "u1",
	})
	require.Equal(t, http.StatusOK, code, env.Msg)
	var logged streakData
	require.NoError(t, json.Unmarshal(env.Data, &logged))
	assert.Equal(t, 1, logged.CurrentStreak)
	require.NotEmpty(t, logged.LogID)

	code, env = do(t, r, call{method: http.MethodGet, path: "/api/v1/streak", user: "u1"})
	require.Equal(t, http.StatusOK, code)
	var info streakData
	require.NoError(t, json.Unmarshal(env.Data, &info))
	assert.True(t, info.Active)
	assert.Equal(t, int64(1), info.TotalLogs)

	// 不能删别人的打卡
	code, _ = do(t, r, call{method: http.MethodDelete, path: "/api/v1/logs/" + logged.LogID, user: "u2"})
	assert.Equal(t, http.StatusNotFound, code)

	code, env = do(t, r, call{method: http.MethodDelete, path: "/api/v1/logs/" + logged.LogID, user: "u1"})
	require.Equal(t, http.StatusOK, code)
	var after streakData
	require.NoError(t, json.Unmarshal(env.Data, &after))
	assert.Equal(t, 0, after.CurrentStreak)
	assert.Equal(t, int64(0), after.TotalLogs)

	code, _ = do(t, r, call{method: http.MethodDelete, path: "/api/v1/logs/abc", user: "u1"})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestStreak_InternalLogAndRecalculate(t *testing.T) {
	r := newEngine(t)

	for _, day := range []string{"2025-03-10T09:00:00Z", "2025-03-11T21:00:00Z"} {
		code, env := do(t, r, call{
			method:  http.MethodPost,
			path:    "/api/internal/v1/logs",
			body:    map[string]any{"user_id": "u9", "title": "跑步", "occurred_at": day},
			service: true,
		})
		require.Equal(t, http.StatusOK, code, env.Msg)
	}

	code, env := do(t, r, call{
		method:  http.MethodPost,
		path:    "/api/internal/v1/streak/u9/recalculate",
		service: true,
	})
	require.Equal(t, http.StatusOK, code)
	var res streakData
	require.NoError(t, json.Unmarshal(env.Data, &res))
	assert.Equal(t, 2, res.CurrentStreak)
	assert.Equal(t, int64(2), res.TotalLogs)

	code, _ = do(t, r, call{
		method:  http.MethodPost,
		path:    "/api/internal/v1/logs",
		body:    map[string]any{"user_id": "u9"},
		service: true,
	})
	assert.Equal(t, http.StatusBadRequest, code, "title is required")
}

func TestLeaderboard_GenerateAndGet(t *testing.T) {
	r := newEngine(t)

	award(t, r, "u1", "COMPLETE_COURSE", "")
	award(t, r, "u2", "ENROLL_SHEET", "")

	code, env := do(t, r, call{method: http.MethodGet, path: "/api/v1/leaderboard/weekly", user: "u1"})
	require.Equal(t, http.StatusOK, code)
	var empty struct {
		Entries []any `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &empty))
	assert.Empty(t, empty.Entries)

	code, env = do(t, r, call{method: http.MethodPost, path: "/api/internal/v1/leaderboard/weekly/generate", service: true})
	require.Equal(t, http.StatusOK, code, env.Msg)

	code, env = do(t, r, call{method: http.MethodGet, path: "/api/v1/leaderboard/WEEKLY", user: "u1"})
	require.Equal(t, http.StatusOK, code)
	var board struct {
		Window  string `json:"window"`
		Entries []struct {
			Rank   int    `json:"rank"`
			UserID string `json:"user_id"`
			Points int64  `json:"points"`
		} `json:"entries"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &board))
	assert.Equal(t, "WEEKLY", board.Window)
	require.Len(t, board.Entries, 2)
	assert.Equal(t, "u1", board.Entries[0].UserID)
	assert.Equal(t, int64(50), board.Entries[0].Points)

	code, _ = do(t, r, call{method: http.MethodGet, path: fmt.Sprintf("/api/v1/leaderboard/%s", "yearly"), user: "u1"})
	assert.Equal(t, http.StatusBadRequest, code)
}
