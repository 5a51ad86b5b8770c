package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// contextKey is a type for context keys used by the logger package
type contextKey string

const (
	// LoggerKey is the context key for the logger
	LoggerKey contextKey = "logger"
	// RequestIDKey is the context key for request ID
	RequestIDKey contextKey = "request_id"
	// CircleIDKey is the context key for circle ID
	CircleIDKey contextKey = "circle_id"
	// UserIDKey is the context key for user ID
	UserIDKey contextKey = "user_id"
)

// WithContext returns a new context with the logger attached
func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// FromContext retrieves the logger from context. Returns a no-op logger
// when none is attached, so callers never need a nil check.
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*zap.Logger); ok {
		return logger
	}
	return zap.NewNop()
}

// WithRequestID binds a request ID into the context and returns a logger
// stamped with it. The enriched logger is also attached to the context.
func WithRequestID(ctx context.Context, logger *zap.Logger, requestID string) (context.Context, *zap.Logger) {
	return withScopedField(ctx, logger, RequestIDKey, requestID)
}

// WithCircleID binds a circle ID into the context and returns a logger
// stamped with it.
func WithCircleID(ctx context.Context, logger *zap.Logger, circleID string) (context.Context, *zap.Logger) {
	return withScopedField(ctx, logger, CircleIDKey, circleID)
}

// WithUserID binds a user ID into the context and returns a logger
// stamped with it.
func WithUserID(ctx context.Context, logger *zap.Logger, userID string) (context.Context, *zap.Logger) {
	return withScopedField(ctx, logger, UserIDKey, userID)
}

func withScopedField(ctx context.Context, logger *zap.Logger, key contextKey, value string) (context.Context, *zap.Logger) {
	ctx = context.WithValue(ctx, key, value)
	enriched := logger.With(zap.String(string(key), value))
	return WithContext(ctx, enriched), enriched
}

// GetRequestID retrieves the request ID from context
func GetRequestID(ctx context.Context) string {
	return stringFromContext(ctx, RequestIDKey)
}

// GetCircleID retrieves the circle ID from context
func GetCircleID(ctx context.Context) string {
	return stringFromContext(ctx, CircleIDKey)
}

// GetUserID retrieves the user ID from context
func GetUserID(ctx context.Context) string {
	return stringFromContext(ctx, UserIDKey)
}

func stringFromContext(ctx context.Context, key contextKey) string {
	if v, ok := ctx.Value(key).(string); ok {
		return v
	}
	return ""
}

// spanContextFrom returns the active span context, or (zero, false) when
// no valid span is recording on ctx.
func spanContextFrom(ctx context.Context) (trace.SpanContext, bool) {
	spanCtx := trace.SpanFromContext(ctx).SpanContext()
	return spanCtx, spanCtx.IsValid()
}

// GetTraceID extracts the trace ID from the context's span, or ""
// when no valid span exists.
func GetTraceID(ctx context.Context) string {
	if spanCtx, ok := spanContextFrom(ctx); ok {
		return spanCtx.TraceID().String()
	}
	return ""
}

// GetSpanID extracts the span ID from the context's span, or ""
// when no valid span exists.
func GetSpanID(ctx context.Context) string {
	if spanCtx, ok := spanContextFrom(ctx); ok {
		return spanCtx.SpanID().String()
	}
	return ""
}

// WithTraceContext stamps trace_id and span_id onto the logger when the
// context carries a valid span; otherwise the logger is returned as is.
func WithTraceContext(ctx context.Context, logger *zap.Logger) *zap.Logger {
	spanCtx, ok := spanContextFrom(ctx)
	if !ok {
		return logger
	}
	return logger.With(
		zap.String("trace_id", spanCtx.TraceID().String()),
		zap.String("span_id", spanCtx.SpanID().String()),
	)
}
