package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"trends-fun/backend/config"
	pkgerrors "trends-fun/backend/pkg/errors"
	"trends-fun/backend/pkg/jwt"
	"trends-fun/backend/pkg/metrics"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestJWT() *jwt.Manager {
	return jwt.NewManager(&config.AuthConfig{
		JWTSecret:              "middleware-test-secret",
		AccessTokenTTL:         15 * time.Minute,
		RefreshTokenTTLDefault: time.Hour,
	})
}

type stubRoles struct {
	role string
	err  error
}

func (s stubRoles) CurrentRole(_ context.Context, _ string) (string, error) {
	return s.role, s.err
}

func newAuthRouter(mgr *jwt.Manager, roles RoleSource, allowed ...string) *gin.Engine {
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuth(mgr, nil, roles)}
	if len(allowed) > 0 {
		handlers = append(handlers, RoleAuth(allowed...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(CtxUserID)+"|"+c.GetString(CtxRole))
	})
	r.GET("/p", handlers...)
	return r
}

func get(r *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("GET", "/p", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth_MissingHeader(t *testing.T) {
	w := get(newAuthRouter(newTestJWT(), nil), "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际 %d", w.Code)
	}
}

func TestJWTAuth_RejectsRefreshToken(t *testing.T) {
	mgr := newTestJWT()
	refresh, _ := mgr.GenerateRefreshToken("u-1", "user", false)

	w := get(newAuthRouter(mgr, nil), refresh)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际 %d", w.Code)
	}
}

func TestJWTAuth_InjectsClaims(t *testing.T) {
	mgr := newTestJWT()
	access, _ := mgr.GenerateAccessToken("u-1", "user")

	w := get(newAuthRouter(mgr, nil), access)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
	if w.Body.String() != "u-1|user" {
		t.Errorf("上下文注入不符: %s", w.Body.String())
	}
}

func TestJWTAuth_UsesPersistedRole(t *testing.T) {
	mgr := newTestJWT()
	// Token 签发时仍是 user，审核通过后数据库中已是 creator
	access, _ := mgr.GenerateAccessToken("u-1", "user")

	w := get(newAuthRouter(mgr, stubRoles{role: "creator"}), access)
	if w.Body.String() != "u-1|creator" {
		t.Errorf("期望使用持久化角色，实际: %s", w.Body.String())
	}
}

func TestJWTAuth_DemotedAdminLosesAccess(t *testing.T) {
	mgr := newTestJWT()
	access, _ := mgr.GenerateAccessToken("u-1", "admin")

	w := get(newAuthRouter(mgr, stubRoles{role: "user"}, "admin"), access)
	if w.Code != http.StatusForbidden {
		t.Fatalf("期望 403，实际 %d", w.Code)
	}
}

func TestJWTAuth_DeletedUser(t *testing.T) {
	mgr := newTestJWT()
	access, _ := mgr.GenerateAccessToken("u-1", "user")

	notFound := pkgerrors.New(pkgerrors.KindNotFound, "用户不存在")
	w := get(newAuthRouter(mgr, stubRoles{err: notFound}), access)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("期望 401，实际 %d", w.Code)
	}
}

func TestRoleAuth_Allows(t *testing.T) {
	mgr := newTestJWT()
	access, _ := mgr.GenerateAccessToken("admin-1", "admin")

	w := get(newAuthRouter(mgr, nil, "admin"), access)
	if w.Code != http.StatusOK {
		t.Fatalf("期望 200，实际 %d", w.Code)
	}
}

func TestRateLimit_NoRedisPassesThrough(t *testing.T) {
	r := gin.New()
	r.POST("/x", RateLimit(nil, 1, time.Minute), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest("POST", "/x", nil))
		if w.Code != http.StatusNoContent {
			t.Fatalf("第 %d 次请求期望 204，实际 %d", i+1, w.Code)
		}
	}
}

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.GET("/x", RequestID(), func(c *gin.Context) { c.String(http.StatusOK, GetRequestID(c)) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/x", nil))
	if w.Header().Get("X-Request-ID") == "" || w.Header().Get("X-Request-ID") != w.Body.String() {
		t.Error("期望生成并回写 X-Request-ID")
	}

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("X-Request-ID") != "abc" {
		t.Error("期望沿用外部传入的 X-Request-ID")
	}
}

func TestMetrics_UsesRouteTemplate(t *testing.T) {
	m := metrics.New()
	r := gin.New()
	r.Use(Metrics(m))
	r.GET("/tokens/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/tokens/abc", nil))

	expected := `
# HELP trends_http_requests_total Total number of HTTP requests handled.
# TYPE trends_http_requests_total counter
trends_http_requests_total{method="GET",path="/tokens/:id",status="200"} 1
`
	if err := testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "trends_http_requests_total"); err != nil {
		t.Error(err)
	}
}

func TestBodyLimit_RejectsDeclaredOversize(t *testing.T) {
	r := gin.New()
	r.POST("/x", BodyLimit(8), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("POST", "/x", strings.NewReader(`{"content":"too long"}`)))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("期望 413，实际 %d", w.Code)
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	r := gin.New()
	r.Use(CORS([]string{"https://trends.fun/"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "https://trends.fun")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Access-Control-Allow-Origin") != "https://trends.fun" {
		t.Errorf("期望放行配置的来源，实际 %q", w.Header().Get("Access-Control-Allow-Origin"))
	}

	req = httptest.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "https://evil.example")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNoContent || w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Errorf("未配置的来源不应获得 CORS 头: %d %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
	}
}
