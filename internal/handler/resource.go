package handler

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"tmf-api/internal/model"
	"tmf-api/internal/service"

	"github.com/gin-gonic/gin"
)

// 一覧レスポンスのページングヘッダー
const (
	HeaderTotalCount  = "X-Total-Count"
	HeaderResultCount = "X-Result-Count"
)

// ResourceHandler は1種類のTMFリソースのHTTPハンドラー
type ResourceHandler struct {
	service service.ResourceService
	errors  errorResponder
}

// NewResourceHandler は新しいリソースハンドラーを作成
func NewResourceHandler(svc service.ResourceService, logger *slog.Logger, exposeDetails bool) *ResourceHandler {
	return &ResourceHandler{
		service: svc,
		errors:  errorResponder{logger: logger, exposeDetails: exposeDetails},
	}
}

// Register はコレクションのルートを登録
func (h *ResourceHandler) Register(g *gin.RouterGroup) {
	path := "/" + h.service.Kind().Path
	g.POST(path, h.Create)
	g.GET(path, h.List)
	g.GET(path+"/:id", h.Get)
	g.PATCH(path+"/:id", h.Update)
	g.DELETE(path+"/:id", h.Delete)
}

// Create はリソースを作成
func (h *ResourceHandler) Create(c *gin.Context) {
	var body model.Resource
	if err := c.ShouldBindJSON(&body); err != nil {
		h.errors.badRequest(c, "Invalid request body", err)
		return
	}

	res, err := h.service.Create(c.Request.Context(), body)
	if err != nil {
		h.errors.respond(c, err)
		return
	}

	c.Header("Location", res.Href())
	c.JSON(http.StatusCreated, res)
}

// List はフィルタ条件に一致するリソース一覧を取得
func (h *ResourceHandler) List(c *gin.Context) {
	offset, err := nonNegativeQueryInt(c, "offset")
	if err != nil {
		h.errors.badRequest(c, err.Error(), nil)
		return
	}
	limit, err := nonNegativeQueryInt(c, "limit")
	if err != nil {
		h.errors.badRequest(c, err.Error(), nil)
		return
	}

	result, err := h.service.List(c.Request.Context(), service.ListQuery{
		Constraints: service.Constraints(c.Request.URL.Query()),
		Fields:      service.ParseFields(c.Query("fields")),
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		h.errors.respond(c, err)
		return
	}

	c.Header(HeaderTotalCount, strconv.Itoa(result.Total))
	c.Header(HeaderResultCount, strconv.Itoa(len(result.Items)))
	c.JSON(http.StatusOK, result.Items)
}

// Get は指定されたリソースを取得
func (h *ResourceHandler) Get(c *gin.Context) {
	res, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.errors.respond(c, err)
		return
	}

	c.JSON(http.StatusOK, service.Project(res, service.ParseFields(c.Query("fields"))))
}

// Update はリソースを部分更新
func (h *ResourceHandler) Update(c *gin.Context) {
	var patch model.Resource
	if err := c.ShouldBindJSON(&patch); err != nil {
		h.errors.badRequest(c, "Invalid request body", err)
		return
	}

	res, err := h.service.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.errors.respond(c, err)
		return
	}

	c.JSON(http.StatusOK, res)
}

// Delete はリソースを削除
func (h *ResourceHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.errors.respond(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func nonNegativeQueryInt(c *gin.Context, key string) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative integer", key)
	}
	return n, nil
}
