package handler

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/Raphi52/OnlyVIP-sub000/common/logger"
)

// startTrace joins the caller's trace when the trace header carries one and
// otherwise mints an id, echoed back so callers can correlate logs.
func startTrace(c *gin.Context, header, name string) *logger.SpanContext {
	traceID := c.GetHeader(header)
	if traceID == "" {
		if sc := trace.SpanContextFromContext(c.Request.Context()); sc.IsValid() {
			traceID = sc.TraceID().String()
		} else {
			traceID = strings.ReplaceAll(uuid.NewString(), "-", "")
		}
	}
	c.Header(header, traceID)
	return logger.StartSpanFromTraceID(c.Request.Context(), traceID, name,
		trace.WithSpanKind(trace.SpanKindServer))
}
