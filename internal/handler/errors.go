package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"tmf-api/internal/middleware"
	"tmf-api/internal/service"

	"github.com/gin-gonic/gin"
)

// errorResponder はサービスエラーをJSONエラーレスポンスに変換
type errorResponder struct {
	logger        *slog.Logger
	exposeDetails bool
}

func (r errorResponder) respond(c *gin.Context, err error) {
	status, kind, message := http.StatusInternalServerError, "InternalError", "Internal server error"

	switch {
	case errors.Is(err, service.ErrNotFound):
		status, kind, message = http.StatusNotFound, service.ErrNotFound.Error(), err.Error()
	case errors.Is(err, service.ErrConflict):
		status, kind, message = http.StatusConflict, service.ErrConflict.Error(), err.Error()
	case errors.Is(err, service.ErrValidation):
		status, kind, message = http.StatusBadRequest, service.ErrValidation.Error(), err.Error()
	default:
		r.logger.ErrorContext(c.Request.Context(), "request failed",
			"error", err,
			"path", c.Request.URL.Path,
			"request_id", middleware.GetRequestID(c),
		)
	}

	body := gin.H{
		"error":   kind,
		"message": message,
	}
	var svcErr *service.Error
	if errors.As(err, &svcErr) && svcErr.Field != "" {
		body["field"] = svcErr.Field
	}
	if status == http.StatusInternalServerError && r.exposeDetails {
		body["details"] = err.Error()
	}
	c.AbortWithStatusJSON(status, body)
}

// badRequest はサービスに到達しない不正リクエストを返す
func (r errorResponder) badRequest(c *gin.Context, message string, cause error) {
	body := gin.H{
		"error":   service.ErrValidation.Error(),
		"message": message,
	}
	if cause != nil {
		body["details"] = cause.Error()
	}
	c.AbortWithStatusJSON(http.StatusBadRequest, body)
}
