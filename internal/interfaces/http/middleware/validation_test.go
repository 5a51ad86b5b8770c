package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/circleops/treasury/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)
	assert.NotNil(t, v)
}

func TestHandleValidationError(t *testing.T) {
	type createFundRequest struct {
		Name   string  `json:"name" binding:"required"`
		Amount float64 `json:"amount" binding:"required,gt=0"`
	}

	SetupValidator()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.POST("/funds", func(c *gin.Context) {
		var req createFundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true})
	})

	t.Run("invalid body yields field details", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/funds", strings.NewReader(`{"amount": -5}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, dto.ErrCodeValidation, resp.Error.Code)
		assert.Equal(t, "Request validation failed", resp.Error.Message)
		assert.Len(t, resp.Error.Details, 2)
	})

	t.Run("field names come from json tags", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/funds", strings.NewReader(`{"amount": 10}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		var resp dto.Response
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.Error)
		require.Len(t, resp.Error.Details, 1)
		assert.Equal(t, "name", resp.Error.Details[0].Field)
	})

	t.Run("valid body passes", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/funds", strings.NewReader(`{"name": "groceries", "amount": 42.5}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestGetValidationMessage(t *testing.T) {
	// A bare validator.Validate reads `validate` tags, unlike gin's
	// binding engine which reads `binding` tags.
	type form struct {
		Required string `validate:"required"`
		Email    string `validate:"email"`
		Min      string `validate:"min=5"`
		Max      string `validate:"max=2"`
		UUID     string `validate:"uuid"`
		OneOf    string `validate:"oneof=circle group"`
		GT       int    `validate:"gt=0"`
	}

	v := validator.New()
	err := v.Struct(form{Email: "nope", Min: "ab", Max: "long", UUID: "nope", OneOf: "other"})
	require.Error(t, err)

	expected := map[string]string{
		"Required": "This field is required",
		"Email":    "Invalid email format",
		"Min":      "Must be at least 5 characters",
		"Max":      "Must be at most 2 characters",
		"UUID":     "Invalid UUID format",
		"OneOf":    "Must be one of: circle group",
		"GT":       "Must be greater than 0",
	}

	validationErrs := err.(validator.ValidationErrors)
	for _, e := range validationErrs {
		want, ok := expected[e.Field()]
		require.True(t, ok, "unexpected field %s", e.Field())
		assert.Equal(t, want, getValidationMessage(e))
	}
}
