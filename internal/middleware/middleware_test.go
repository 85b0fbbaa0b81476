package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/carwash/carwash-backend/internal/models"
	"github.com/carwash/carwash-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimiter(max int) *services.RateLimitService {
	return services.NewRateLimitService(services.RateLimitConfig{
		Name:        "test",
		MaxRequests: max,
		Window:      time.Minute,
		Message:     "Too many requests from this IP, please try again later.",
	})
}

func TestRateLimit_HeadersAndRejection(t *testing.T) {
	router := setupTestRouter()
	router.GET("/limited", RateLimit(newLimiter(2), testLogger()), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "success"})
	})

	for remaining := 1; remaining >= 0; remaining-- {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/limited", nil))

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, string(rune('0'+remaining)), w.Header().Get("X-RateLimit-Remaining"))
		_, err := time.Parse(time.RFC3339Nano, w.Header().Get("X-RateLimit-Reset"))
		assert.NoError(t, err)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/limited", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)

	var body struct {
		Success    bool   `json:"success"`
		Error      string `json:"error"`
		RetryAfter int    `json:"retryAfter"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "Too many requests from this IP, please try again later.", body.Error)
	assert.InDelta(t, 60, body.RetryAfter, 1)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
}

func TestRateLimit_KeyIncludesUser(t *testing.T) {
	limiter := newLimiter(1)
	router := setupTestRouter()
	router.GET("/limited", func(c *gin.Context) {
		if id := c.Query("user"); id != "" {
			c.Set(UserContextKey, UserContext{UserID: uuid.MustParse(id), Role: models.RoleUser})
		}
		c.Next()
	}, RateLimit(limiter, testLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	send := func(target string) int {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", target, nil))
		return w.Code
	}

	userA, userB := uuid.NewString(), uuid.NewString()
	assert.Equal(t, http.StatusOK, send("/limited"))
	assert.Equal(t, http.StatusOK, send("/limited?user="+userA))
	assert.Equal(t, http.StatusOK, send("/limited?user="+userB))
	assert.Equal(t, http.StatusTooManyRequests, send("/limited?user="+userA))
	assert.Equal(t, 3, limiter.Len())
}

func TestRecovery(t *testing.T) {
	tests := []struct {
		name          string
		exposeDetails bool
	}{
		{"development", true},
		{"production", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, hook := test.NewNullLogger()
			router := setupTestRouter()
			router.Use(Recovery(logger, tt.exposeDetails))
			router.GET("/panic", func(c *gin.Context) {
				panic("boom")
			})

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/panic", nil))

			assert.Equal(t, http.StatusInternalServerError, w.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
			assert.Equal(t, "Internal server error", body["error"])
			_, hasDetails := body["details"]
			assert.Equal(t, tt.exposeDetails, hasDetails)

			require.NotNil(t, hook.LastEntry())
			assert.Equal(t, logrus.ErrorLevel, hook.LastEntry().Level)
			assert.Equal(t, "boom", hook.LastEntry().Data["panic"])
		})
	}
}

func TestRequestLogger(t *testing.T) {
	logger, hook := test.NewNullLogger()
	router := setupTestRouter()
	router.Use(RequestLogger(logger))
	router.GET("/ok", func(c *gin.Context) {
		c.Set(UserContextKey, UserContext{UserID: uuid.New(), Role: models.RoleUser})
		c.Status(http.StatusOK)
	})
	router.GET("/missing", func(c *gin.Context) { c.Status(http.StatusNotFound) })
	router.GET("/broken", func(c *gin.Context) { c.Status(http.StatusServiceUnavailable) })

	tests := []struct {
		path  string
		level logrus.Level
	}{
		{"/ok", logrus.InfoLevel},
		{"/missing", logrus.WarnLevel},
		{"/broken", logrus.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.path, nil)
			req.Header.Set("User-Agent", "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1")
			router.ServeHTTP(httptest.NewRecorder(), req)

			entry := hook.LastEntry()
			require.NotNil(t, entry)
			assert.Equal(t, tt.level, entry.Level)
			assert.Equal(t, tt.path, entry.Data["path"])
			assert.Equal(t, "mobile", entry.Data["device"])
		})
	}

	_, hasUser := hook.AllEntries()[0].Data["user_id"]
	assert.True(t, hasUser)
}
