package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
	"zenda_backend/internal/config"
	"zenda_backend/internal/model"
	"zenda_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const testSecret = "middleware-test-secret-middleware-test"

func newAuthRouter(cfg *config.Config, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(cfg)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": util.GetUserFromContext(c).UserID})
	})
	r.GET("/private", handlers...)
	return r
}

func tokenFor(t *testing.T, user *model.User) string {
	t.Helper()
	token, err := util.GenerateJWT(user, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return token
}

func TestAuthMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	learner := &model.User{BaseModel: model.BaseModel{ID: 7}, Email: "a@zenda.ao"}

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing token", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-jwt", http.StatusUnauthorized},
		{"valid token", "Bearer " + tokenFor(t, learner), http.StatusOK},
	}

	r := newAuthRouter(cfg)
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status: want=%d got=%d body=%s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestAuthMiddlewareRejectsOtherSecret(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: "a-completely-different-secret-value"}}
	r := newAuthRouter(cfg)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, &model.User{BaseModel: model.BaseModel{ID: 1}}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status: want=%d got=%d", http.StatusUnauthorized, rec.Code)
	}
}

func TestStaffMiddleware(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := newAuthRouter(cfg, StaffMiddleware())

	cases := []struct {
		name string
		user *model.User
		want int
	}{
		{"learner", &model.User{BaseModel: model.BaseModel{ID: 2}}, http.StatusForbidden},
		{"staff", &model.User{BaseModel: model.BaseModel{ID: 3}, IsStaff: true}, http.StatusOK},
		{"superuser", &model.User{BaseModel: model.BaseModel{ID: 4}, IsSuperuser: true}, http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			req.Header.Set("Authorization", "Bearer "+tokenFor(t, tc.user))
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status: want=%d got=%d", tc.want, rec.Code)
			}
		})
	}
}

func TestSuperuserMiddlewareRejectsStaff(t *testing.T) {
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := newAuthRouter(cfg, SuperuserMiddleware())

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+tokenFor(t, &model.User{BaseModel: model.BaseModel{ID: 5}, IsStaff: true}))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status: want=%d got=%d", http.StatusForbidden, rec.Code)
	}
}

func TestTryAuthMiddlewareAllowsGuests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}
	r := gin.New()
	r.GET("/public", TryAuthMiddleware(cfg), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"guest": util.GetUserFromContext(c) == nil})
	})

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer broken")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: want=%d got=%d", http.StatusOK, rec.Code)
	}
	if rec.Body.String() != `{"guest":true}` {
		t.Fatalf("body: want=%s got=%s", `{"guest":true}`, rec.Body.String())
	}
}

func TestRequestIDEchoesHeader(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestID(), RequestLogger())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	req.Header.Set(util.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	if got := rec.Header().Get(util.RequestIDHeader); got != "req-123" {
		t.Fatalf("request id: want=%q got=%q", "req-123", got)
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if got := rec.Header().Get(util.RequestIDHeader); len(got) != 36 {
		t.Fatalf("generated request id: want uuid got=%q", got)
	}
}
