package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/accounts-api/pkg/helpers"
	"github.com/oksasatya/accounts-api/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newAuthRouter(jwtm *helpers.JWTManager) *gin.Engine {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/me", Auth(jwtm), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"id": c.GetString(CtxUserIDKey), "email": c.GetString(CtxUserEmailKey)})
	})
	return r
}

func TestAuth(t *testing.T) {
	jwtm := helpers.NewJWTManager("secret", time.Hour)
	good, _, err := jwtm.Issue("u-1", "ana@x.com")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	other, _, _ := helpers.NewJWTManager("other", time.Hour).Issue("u-1", "ana@x.com")
	expired, _, _ := helpers.NewJWTManager("secret", -time.Minute).Issue("u-1", "ana@x.com")

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{"valid", "Bearer " + good, http.StatusOK, ""},
		{"lowercase scheme", "bearer " + good, http.StatusOK, ""},
		{"missing header", "", http.StatusUnauthorized, "missing bearer token"},
		{"wrong scheme", "Basic " + good, http.StatusUnauthorized, "missing bearer token"},
		{"empty token", "Bearer ", http.StatusUnauthorized, "missing bearer token"},
		{"garbage", "Bearer not-a-jwt", http.StatusUnauthorized, "invalid token"},
		{"wrong secret", "Bearer " + other, http.StatusUnauthorized, "invalid token"},
		{"expired", "Bearer " + expired, http.StatusUnauthorized, "token expired"},
	}
	r := newAuthRouter(jwtm)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", w.Code, tt.wantStatus, w.Body.String())
			}
			if tt.wantStatus == http.StatusOK {
				var body map[string]string
				_ = json.Unmarshal(w.Body.Bytes(), &body)
				if body["id"] != "u-1" || body["email"] != "ana@x.com" {
					t.Fatalf("unexpected identity %v", body)
				}
				return
			}
			var body response.ErrorBody
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error != tt.wantError || body.RequestID == "" {
				t.Fatalf("unexpected body %+v", body)
			}
		})
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("request_id")) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if _, err := uuid.Parse(w.Body.String()); err != nil {
		t.Fatalf("expected generated uuid, got %q", w.Body.String())
	}
	if w.Header().Get(HeaderRequestID) != w.Body.String() {
		t.Fatal("expected request id echoed in header")
	}

	incoming := uuid.NewString()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, incoming)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() != incoming {
		t.Fatalf("expected incoming id reused, got %q", w.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "<script>")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Body.String() == "<script>" {
		t.Fatal("expected malformed id to be replaced")
	}
}

func TestRealIP(t *testing.T) {
	r := gin.New()
	r.Use(RealIP())
	r.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString("real_ip")) })

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare", map[string]string{"CF-Connecting-IP": "203.0.113.7", "X-Forwarded-For": "198.51.100.1"}, "203.0.113.7"},
		{"forwarded left-most", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.1"}, "198.51.100.1"},
		{"fallback", nil, "192.0.2.1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Body.String() != tt.want {
				t.Fatalf("got %q, want %q", w.Body.String(), tt.want)
			}
		})
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})

	r := gin.New()
	r.Use(RequestIDMiddleware(), RequestLogger(logger))
	r.GET("/users/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/users/42", nil))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log: %v (%s)", err, buf.String())
	}
	if entry["path"] != "/users/:id" || entry["status"] != float64(404) || entry["level"] != "warning" {
		t.Fatalf("unexpected entry %v", entry)
	}
	if entry["request_id"] == "" {
		t.Fatal("expected request id in log entry")
	}
}
