package middleware

import (
	"net/http"
	"strings"

	"github.com/circleops/treasury/internal/infrastructure/logger"
	"github.com/circleops/treasury/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CircleContextKey is the key used to store circle information in gin.Context
const (
	CircleIDKey     = "circle_id"
	CircleHeaderKey = "X-Circle-ID"
)

// CircleMiddlewareConfig holds configuration for circle middleware
type CircleMiddlewareConfig struct {
	// HeaderEnabled enables X-Circle-ID header extraction
	HeaderEnabled bool
	// JWTEnabled enables JWT claim extraction (requires JWT middleware to run first)
	JWTEnabled bool
	// SkipPaths are paths that don't require circle context (e.g., health check)
	SkipPaths []string
	// Required determines if circle context is mandatory
	Required bool
	// Logger for middleware logging
	Logger *zap.Logger
}

// DefaultCircleConfig returns default circle middleware configuration
func DefaultCircleConfig() CircleMiddlewareConfig {
	return CircleMiddlewareConfig{
		HeaderEnabled: true,
		JWTEnabled:    true,
		SkipPaths: []string{
			"/health", "/healthz", "/ready",
			"/api/v1/health",
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
		},
		Required: true,
		Logger:   nil,
	}
}

// CircleMiddleware extracts circle information from the request.
// Extraction order: JWT claims > X-Circle-ID header.
func CircleMiddleware() gin.HandlerFunc {
	return CircleMiddlewareWithConfig(DefaultCircleConfig())
}

// CircleMiddlewareWithConfig returns circle middleware with custom configuration
func CircleMiddlewareWithConfig(cfg CircleMiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Check if path should be skipped
		path := c.Request.URL.Path
		for _, skipPath := range cfg.SkipPaths {
			if path == skipPath || strings.HasPrefix(path, skipPath+"/") {
				c.Next()
				return
			}
		}

		var circleID string
		var extractionMethod string

		// Priority 1: JWT claims (if JWT middleware has already run)
		if cfg.JWTEnabled {
			if jwtCircleID, exists := c.Get(JWTCircleIDKey); exists {
				if cid, ok := jwtCircleID.(string); ok && cid != "" {
					circleID = cid
					extractionMethod = "jwt"
				}
			}
		}

		// Priority 2: X-Circle-ID header
		if circleID == "" && cfg.HeaderEnabled {
			if headerCircleID := c.GetHeader(CircleHeaderKey); headerCircleID != "" {
				circleID = headerCircleID
				extractionMethod = "header"
			}
		}

		// Validate circle ID format if present
		if circleID != "" {
			if _, err := uuid.Parse(circleID); err != nil {
				respondUnauthorized(c, "Invalid circle ID format")
				return
			}
		}

		// Check if circle is required
		if circleID == "" && cfg.Required {
			respondUnauthorized(c, "Circle identification required")
			return
		}

		// Set circle information in context
		if circleID != "" {
			// Set in gin context for easy access in handlers
			c.Set(CircleIDKey, circleID)

			// Set in request context for service layer access
			ctx := c.Request.Context()
			log := logger.FromContext(ctx)
			ctx, _ = logger.WithCircleID(ctx, log, circleID)
			c.Request = c.Request.WithContext(ctx)

			// Log extraction method for debugging
			if cfg.Logger != nil {
				cfg.Logger.Debug("Circle identified",
					zap.String("circle_id", circleID),
					zap.String("method", extractionMethod),
				)
			}
		}

		c.Next()
	}
}

// respondUnauthorized sends an unauthorized response
func respondUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, message, requestIDFrom(c)))
}

// GetCircleID retrieves the circle ID from gin.Context
func GetCircleID(c *gin.Context) string {
	if circleID, exists := c.Get(CircleIDKey); exists {
		if cid, ok := circleID.(string); ok {
			return cid
		}
	}
	return ""
}

// GetCircleUUID retrieves the circle ID as UUID from gin.Context
func GetCircleUUID(c *gin.Context) (uuid.UUID, error) {
	circleID := GetCircleID(c)
	if circleID == "" {
		return uuid.Nil, nil
	}
	return uuid.Parse(circleID)
}

// MustGetCircleID retrieves the circle ID from gin.Context or panics if not found.
// Use this only in handlers where circle context is guaranteed to exist.
func MustGetCircleID(c *gin.Context) string {
	circleID := GetCircleID(c)
	if circleID == "" {
		panic("circle_id not found in context")
	}
	return circleID
}

// MustGetCircleUUID retrieves the circle ID as UUID or panics if not found
func MustGetCircleUUID(c *gin.Context) uuid.UUID {
	circleUUID, err := GetCircleUUID(c)
	if err != nil || circleUUID == uuid.Nil {
		panic("valid circle_id not found in context")
	}
	return circleUUID
}

// OptionalCircleMiddleware creates middleware that doesn't require circle context
func OptionalCircleMiddleware() gin.HandlerFunc {
	cfg := DefaultCircleConfig()
	cfg.Required = false
	return CircleMiddlewareWithConfig(cfg)
}
