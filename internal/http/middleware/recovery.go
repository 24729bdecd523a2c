package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/Raphi52/OnlyVIP-sub000/common/logger"
)

// Recovery turns a handler panic into a 500. A client that hung up mid
// response (a long paced batch, typically) only gets the connection aborted.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			ctx := logger.WithLogFields(c.Request.Context(), logger.LogFields{Component: "ai.http"})

			if err, ok := rec.(error); ok && brokenPipe(err) {
				slog.WarnContext(ctx, "client connection closed",
					"error", err,
					"path", c.Request.URL.Path,
				)
				c.Abort()
				return
			}

			slog.ErrorContext(ctx, "panic recovered",
				"error", rec,
				"method", c.Request.Method,
				"route", c.FullPath(),
				"path", c.Request.URL.Path,
				"stack", string(debug.Stack()),
			)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error": "internal server error",
			})
		}()
		c.Next()
	}
}

func brokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.ECONNRESET) || errors.Is(err, http.ErrAbortHandler)
}
