package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tmf-api/internal/auth"
	"tmf-api/internal/logging"
	"tmf-api/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newProtectedRouter(authService *auth.Service) *gin.Engine {
	r := gin.New()
	r.Use(AuthMiddleware(authService))
	r.GET("/whoami", func(c *gin.Context) {
		caller, ok := GetCallerFromContext(c)
		if !ok {
			c.JSON(http.StatusOK, gin.H{"subject": ""})
			return
		}
		c.JSON(http.StatusOK, gin.H{"subject": caller.Subject})
	})
	return r
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	w := httptest.NewRecorder()
	newProtectedRouter(nil).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"subject":""}`, w.Body.String())
}

func TestAuthMiddleware(t *testing.T) {
	authService := auth.NewService("test-secret", time.Hour)
	token, err := authService.IssueToken("ops", nil)
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + token, http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"valid token", "Bearer " + token, http.StatusOK},
		{"lowercase scheme", "bearer " + token, http.StatusOK},
	}

	router := newProtectedRouter(authService)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tc.status, w.Code)
			if tc.status == http.StatusOK {
				assert.JSONEq(t, `{"subject":"ops"}`, w.Body.String())
			} else {
				assert.Contains(t, w.Body.String(), `"error":"Unauthorized"`)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.NotEmpty(t, generated)
	assert.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRequestLoggerAndRecovery(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())

	r := gin.New()
	r.Use(RequestID(), RequestLogger(logging.Discard(), m), Recovery(logging.Discard()))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"InternalError","message":"Internal server error"}`, w.Body.String())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/ok", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Requests.WithLabelValues("GET", "/boom", "500")))
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(CORS())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodOptions, "/", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Total-Count")
}
