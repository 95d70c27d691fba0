package middleware

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/scribe/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRecovery(t *testing.T) {
	r := gin.New()
	r.Use(Recovery(logger.Nop()))
	r.GET("/boom", func(*gin.Context) { panic("kaboom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d", w.Code)
	}
	var body struct {
		Error struct{ Code string } `json:"error"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil || body.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("body = %s", w.Body.String())
	}
}

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(RequestID())
	var seen any
	r.GET("/", func(c *gin.Context) {
		seen = c.Request.Context().Value(logger.RequestIDKey)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(HeaderRequestID, "abc")
	r.ServeHTTP(w, req)
	if w.Header().Get(HeaderRequestID) != "abc" || seen != "abc" {
		t.Errorf("header = %q, context = %v", w.Header().Get(HeaderRequestID), seen)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	if len(w.Header().Get(HeaderRequestID)) != 36 {
		t.Errorf("generated id = %q", w.Header().Get(HeaderRequestID))
	}
}

func TestCORS(t *testing.T) {
	cfg := &CORSConfig{AllowedOrigins: []string{"http://ui.local"}, AllowedMethods: []string{"GET", "PUT"}}
	r := gin.New()
	r.Use(CORS(cfg))
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantAllow  string
	}{
		{"allowed", http.MethodGet, "http://ui.local", http.StatusOK, "http://ui.local"},
		{"other origin", http.MethodGet, "http://evil.local", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "http://ui.local", http.StatusNoContent, "http://ui.local"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)
			if w.Code != tt.wantStatus || w.Header().Get("Access-Control-Allow-Origin") != tt.wantAllow {
				t.Errorf("status %d allow %q", w.Code, w.Header().Get("Access-Control-Allow-Origin"))
			}
		})
	}
}

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(BodySizeLimit(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := io.ReadAll(c.Request.Body); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	for body, want := range map[string]int{"small": http.StatusOK, "much too large": http.StatusRequestEntityTooLarge} {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		if w.Code != want {
			t.Errorf("%q: status = %d, want %d", body, w.Code, want)
		}
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&logger.Config{Level: "debug", Format: logger.FormatJSON}, "test", &buf)
	r := gin.New()
	r.Use(RequestLogger(log))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/missing/:id", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	if buf.Len() != 0 {
		t.Errorf("health check was logged: %s", buf.String())
	}

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing/1", nil))
	if !strings.Contains(buf.String(), `"level":"warn"`) || !strings.Contains(buf.String(), `"path":"/missing/:id"`) {
		t.Errorf("log = %s", buf.String())
	}
}
