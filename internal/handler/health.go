package handler

import (
	"net/http"
	"path"

	"tmf-api/internal/service"

	"github.com/gin-gonic/gin"
)

// HealthHandler はヘルスチェックとエンドポイント一覧のハンドラー
type HealthHandler struct {
	version   string
	endpoints gin.H
}

// NewHealthHandler は公開中のコレクションから一覧を組み立てる
func NewHealthHandler(services *service.Services, basePath, version string) *HealthHandler {
	endpoints := gin.H{}
	for _, svc := range services.All() {
		kind := svc.Kind()
		endpoints[kind.Name] = path.Join("/", basePath, kind.Path)
	}
	return &HealthHandler{version: version, endpoints: endpoints}
}

// Health はヘルスチェック
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"message": "TMF Open API is running",
	})
}

// Index はルート情報を表示
func (h *HealthHandler) Index(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"message":   "TMF Open API",
		"version":   h.version,
		"endpoints": h.endpoints,
	})
}
