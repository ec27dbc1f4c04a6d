// Package middleware: request correlation IDs.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDHeader is the header a caller may set to propagate its own
// correlation id, and the header the response always carries.
const RequestIDHeader = "X-Request-ID"

// requestIDContextKey is the unexported key RequestID stores the resolved
// id under.
type requestIDContextKey struct{}

// RequestID returns a gin middleware that resolves a correlation id for the
// request (the caller-supplied X-Request-ID header if present, otherwise a
// freshly generated UUID), stores it on the request context, and echoes it
// back on the response so a caller can correlate logs across a deployment.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}

		ctx := context.WithValue(c.Request.Context(), requestIDContextKey{}, id)
		c.Request = c.Request.WithContext(ctx)
		c.Writer.Header().Set(RequestIDHeader, id)
		c.Next()
	}
}

// RequestIDFromContext returns the correlation id RequestID stored on ctx,
// or "" if none was attached.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDContextKey{}).(string)
	return id
}
