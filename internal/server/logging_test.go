package server_test

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/example/go-pinyin/internal/server"
)

// capturingHandler captures all slog records during a test.
type capturingHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (c *capturingHandler) Enabled(_ context.Context, _ slog.Level) bool { return true }
func (c *capturingHandler) Handle(_ context.Context, r slog.Record) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.records = append(c.records, r)
	return nil
}
func (c *capturingHandler) WithAttrs(attrs []slog.Attr) slog.Handler { return c }
func (c *capturingHandler) WithGroup(name string) slog.Handler       { return c }

// find returns the attributes of the first record with the given message.
func (c *capturingHandler) find(msg string) (map[string]any, slog.Level, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, r := range c.records {
		if r.Message != msg {
			continue
		}
		m := make(map[string]any)
		r.Attrs(func(a slog.Attr) bool {
			m[a.Key] = a.Value.Any()
			return true
		})
		return m, r.Level, true
	}
	return nil, 0, false
}

func TestRender_LogsOpAndTextLen(t *testing.T) {
	cap := &capturingHandler{}
	h := newTestHandler(t, server.WithLogger(slog.New(cap)))

	rec := post(t, h, "/render", `{"text":"你好"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d", rec.Code)
	}

	attrs, _, ok := cap.find("conversion complete")
	if !ok {
		t.Fatal("no conversion record logged")
	}
	if attrs["op"] != "render" {
		t.Errorf("want op=render, got %v", attrs["op"])
	}
	if attrs["text_len"] != int64(len("你好")) {
		t.Errorf("want text_len=%d, got %v", len("你好"), attrs["text_len"])
	}
	if _, ok := attrs["duration_ms"]; !ok {
		t.Error("want duration_ms attribute in log record")
	}
}

func TestRequestLogger_RecordsStatusAndRequestID(t *testing.T) {
	cap := &capturingHandler{}
	h := newTestHandler(t, server.WithLogger(slog.New(cap)))

	req := httptest.NewRequest(http.MethodPost, "/encode/hanzi", nil)
	req.Header.Set(server.RequestIDHeader, "req-42")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}

	attrs, level, ok := cap.find("http.request")
	if !ok {
		t.Fatal("no http.request record logged")
	}
	if level != slog.LevelInfo {
		t.Errorf("level = %v; want INFO", level)
	}
	if attrs["status"] != int64(http.StatusBadRequest) {
		t.Errorf("status = %v; want 400", attrs["status"])
	}
	if attrs["path"] != "/encode/hanzi" || attrs["method"] != http.MethodPost {
		t.Errorf("method/path = %v %v", attrs["method"], attrs["path"])
	}
	if attrs["request_id"] != "req-42" {
		t.Errorf("request_id = %v; want req-42", attrs["request_id"])
	}
}

func TestSetupLogger_LevelFromString(t *testing.T) {
	cases := []struct {
		level   string
		wantLvl slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"error", slog.LevelError},
		{"", slog.LevelInfo}, // default
	}

	for _, tc := range cases {
		t.Run(tc.level, func(t *testing.T) {
			lvl, err := server.ParseLogLevel(tc.level)
			if err != nil {
				t.Fatalf("ParseLogLevel(%q) error: %v", tc.level, err)
			}
			if lvl != tc.wantLvl {
				t.Errorf("ParseLogLevel(%q) = %v, want %v", tc.level, lvl, tc.wantLvl)
			}
		})
	}
}

func TestSetupLogger_InvalidLevelReturnsError(t *testing.T) {
	_, err := server.ParseLogLevel("verbose")
	if err == nil {
		t.Error("want error for unknown log level")
	}
}
