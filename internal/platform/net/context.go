// Package net provides utilities for working with request contexts
package net

import (
	"context"

	chimw "github.com/go-chi/chi/v5/middleware"
)

// ctxKey is an unexported key type for context values
type ctxKey string

const keyCourseID ctxKey = "course_id"

// WithRequest annotates context with common request scoped ids
func WithRequest(ctx context.Context, reqID, courseID string) context.Context {
	if reqID != "" {
		// set chi RequestID so chimw.GetReqID can retrieve it
		ctx = context.WithValue(ctx, chimw.RequestIDKey, reqID)
	}
	if courseID != "" {
		ctx = context.WithValue(ctx, keyCourseID, courseID)
	}
	return ctx
}

// RequestID returns the request id on the context if present
func RequestID(ctx context.Context) string {
	if v := chimw.GetReqID(ctx); v != "" {
		return v
	}
	return ""
}

// CourseID returns the course id on the context if present
func CourseID(ctx context.Context) string {
	if v, ok := ctx.Value(keyCourseID).(string); ok {
		return v
	}
	return ""
}
