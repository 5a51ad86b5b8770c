package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/circleops/treasury/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSystemTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	engine := gin.New()
	NewSystemHandler().RegisterRoutes(engine.Group(""))
	return engine
}

func getSystemJSON(t *testing.T, engine *gin.Engine, path string) dto.Response {
	t.Helper()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Data)
	return resp
}

func TestNewSystemHandler(t *testing.T) {
	h := NewSystemHandler()
	require.NotNil(t, h)
	assert.False(t, h.startTime.IsZero())
}

func TestSystemHandlerPing(t *testing.T) {
	engine := newSystemTestRouter(t)

	resp := getSystemJSON(t, engine, "/ping")
	data := resp.Data.(map[string]interface{})

	assert.Equal(t, "pong", data["message"])

	timestamp, ok := data["timestamp"].(string)
	require.True(t, ok)
	_, err := time.Parse(time.RFC3339, timestamp)
	assert.NoError(t, err)
}

func TestSystemHandlerGetSystemInfo(t *testing.T) {
	engine := newSystemTestRouter(t)

	resp := getSystemJSON(t, engine, "/system/info")
	data := resp.Data.(map[string]interface{})

	assert.Equal(t, "Treasury Backend API", data["name"])
	assert.Equal(t, "1.0.0", data["version"])
	assert.NotEmpty(t, data["go_version"])
	assert.NotEmpty(t, data["uptime"])
}
