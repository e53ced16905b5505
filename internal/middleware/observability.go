package middleware

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"tmf-api/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// RequestIDHeader はリクエストIDのヘッダー
	RequestIDHeader = "X-Request-Id"
	requestIDKey    = "request_id"
)

// RequestID はX-Request-Idを付与し、レスポンスにも返す
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(RequestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Header(RequestIDHeader, rid)
		c.Next()
	}
}

// GetRequestID はRequestIDで付与したIDを取得
func GetRequestID(c *gin.Context) string {
	return c.GetString(requestIDKey)
}

// RequestLogger はリクエストごとにログを出力し、メトリクスを記録する
func RequestLogger(logger *slog.Logger, m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		status := c.Writer.Status()

		if m != nil {
			m.Requests.WithLabelValues(c.Request.Method, route, strconv.Itoa(status)).Inc()
			m.RequestDuration.WithLabelValues(c.Request.Method, route).Observe(elapsed.Seconds())
		}

		level := slog.LevelInfo
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		attrs := []slog.Attr{
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.String("route", route),
			slog.Int("status", status),
			slog.Duration("latency", elapsed),
			slog.String("request_id", GetRequestID(c)),
		}
		if caller, ok := GetCallerFromContext(c); ok {
			attrs = append(attrs, slog.String("caller", caller.Subject))
		}
		logger.LogAttrs(c.Request.Context(), level, "request", attrs...)
	}
}

// Recovery はpanicをInternalErrorレスポンスに変換
func Recovery(logger *slog.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		logger.ErrorContext(c.Request.Context(), "panic recovered",
			"panic", recovered,
			"path", c.Request.URL.Path,
			"request_id", GetRequestID(c),
		)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "InternalError",
			"message": "Internal server error",
		})
	})
}

// CORS は開発用のCORS設定
func CORS() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-Id")
		c.Header("Access-Control-Expose-Headers", "X-Total-Count, X-Result-Count, X-Request-Id, Location")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
