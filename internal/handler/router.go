package handler

import (
	"log/slog"
	"net/http"

	"tmf-api/internal/auth"
	"tmf-api/internal/metrics"
	"tmf-api/internal/middleware"
	"tmf-api/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RouterOptions はNewRouterの設定
type RouterOptions struct {
	BasePath           string
	ExposeErrorDetails bool
	Version            string

	// MetricsPath を空にするとメトリクスエンドポイントを公開しない
	MetricsPath string
	Gatherer    prometheus.Gatherer
	Metrics     *metrics.Metrics

	// Auth が nil の場合、APIは認証なしで公開される
	Auth   *auth.Service
	Logger *slog.Logger
}

// NewRouter はすべてのリソースルートを登録したGinエンジンを作成
func NewRouter(services *service.Services, opts RouterOptions) *gin.Engine {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.RequestLogger(logger, opts.Metrics),
		middleware.Recovery(logger),
		middleware.CORS(),
	)

	// ヘルスチェックエンドポイント
	health := NewHealthHandler(services, opts.BasePath, opts.Version)
	r.GET("/health", health.Health)
	r.GET("/", health.Index)

	if opts.MetricsPath != "" && opts.Gatherer != nil {
		r.GET(opts.MetricsPath, gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	// 保護されたルート
	api := r.Group(opts.BasePath)
	api.Use(middleware.AuthMiddleware(opts.Auth))
	for _, svc := range services.All() {
		NewResourceHandler(svc, logger, opts.ExposeErrorDetails).Register(api)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   service.ErrNotFound.Error(),
			"message": "no route for " + c.Request.Method + " " + c.Request.URL.Path,
		})
	})

	return r
}
