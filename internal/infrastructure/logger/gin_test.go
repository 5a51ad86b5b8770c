package logger

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func findRequestLog(t *testing.T, recorded *observer.ObservedLogs) observer.LoggedEntry {
	t.Helper()
	for _, entry := range recorded.All() {
		if entry.Message == "HTTP Request" {
			return entry
		}
	}
	t.Fatal("no HTTP Request log entry recorded")
	return observer.LoggedEntry{}
}

func serveWithMiddleware(handler gin.HandlerFunc, status int, target string) *observer.ObservedLogs {
	core, recorded := observer.New(zapcore.DebugLevel)

	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/endpoint", func(c *gin.Context) {
		if handler != nil {
			handler(c)
			return
		}
		c.JSON(status, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", target, nil)
	router.ServeHTTP(w, req)
	return recorded
}

func TestGinMiddlewareLogLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		status int
		level  zapcore.Level
	}{
		{"2xx logs at info", http.StatusOK, zapcore.InfoLevel},
		{"4xx logs at warn", http.StatusBadRequest, zapcore.WarnLevel},
		{"5xx logs at error", http.StatusInternalServerError, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorded := serveWithMiddleware(nil, tt.status, "/endpoint")
			entry := findRequestLog(t, recorded)
			assert.Equal(t, tt.level, entry.Level)
		})
	}
}

func TestGinMiddlewarePropagatesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.InfoLevel)

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-123")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/endpoint", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/endpoint", nil)
	router.ServeHTTP(w, req)

	entry := findRequestLog(t, recorded)
	fields := entry.ContextMap()
	assert.Equal(t, "req-123", fields["request_id"])
}

func TestGinMiddlewareBindsRequestContext(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, _ := observer.New(zapcore.InfoLevel)

	var seenRequestID string
	var seenLogger *zap.Logger
	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set("request_id", "req-ctx-9")
		c.Next()
	})
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/endpoint", func(c *gin.Context) {
		ctx := c.Request.Context()
		seenRequestID = GetRequestID(ctx)
		seenLogger = FromContext(ctx)
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/endpoint", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, "req-ctx-9", seenRequestID)
	require.NotNil(t, seenLogger)
}

func TestGinMiddlewareFields(t *testing.T) {
	gin.SetMode(gin.TestMode)

	recorded := serveWithMiddleware(nil, http.StatusOK, "/endpoint?budget_type=circle")
	entry := findRequestLog(t, recorded)

	fields := entry.ContextMap()
	for _, key := range []string{"status", "latency", "client_ip", "user_agent", "method", "path", "query"} {
		assert.Contains(t, fields, key)
	}
	assert.Contains(t, fields["query"], "budget_type=circle")
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, recorded := observer.New(zapcore.ErrorLevel)

	router := gin.New()
	router.Use(Recovery(zap.New(core)))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/panic", nil)

	assert.NotPanics(t, func() {
		router.ServeHTTP(w, req)
	})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	logs := recorded.All()
	require.NotEmpty(t, logs)
	assert.Equal(t, "Panic recovered", logs[0].Message)
}

func TestGetGinLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	core, _ := observer.New(zapcore.InfoLevel)

	var fromHandler *zap.Logger
	router := gin.New()
	router.Use(GinMiddleware(zap.New(core)))
	router.GET("/endpoint", func(c *gin.Context) {
		fromHandler = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/endpoint", nil)
	router.ServeHTTP(w, req)

	assert.NotNil(t, fromHandler)
}

func TestGetGinLoggerWithoutMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var fromHandler *zap.Logger
	router := gin.New()
	router.GET("/endpoint", func(c *gin.Context) {
		fromHandler = GetGinLogger(c)
		c.JSON(http.StatusOK, gin.H{})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/endpoint", nil)
	router.ServeHTTP(w, req)

	require.NotNil(t, fromHandler)
	assert.NotPanics(t, func() {
		fromHandler.Info("still usable")
	})
}
