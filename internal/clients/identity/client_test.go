package identity

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/yungbote/promptlib-backend/internal/platform/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestResolveBatchesIDsIntoOneRequest(t *testing.T) {
	var calls int32
	var gotIDs, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		if r.URL.Path != "/users" {
			t.Errorf("path: got=%q want=%q", r.URL.Path, "/users")
		}
		gotIDs = r.URL.Query().Get("ids")
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewEncoder(w).Encode([]userRecord{
			{ID: 7, Name: "Ada", Email: "ada@example.com"},
			{ID: 42, Name: "Lin"},
		})
	}))
	defer srv.Close()

	c, err := New(testLogger(t), Config{BaseURL: srv.URL + "/", Token: "secret", Timeout: time.Second})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Resolve(context.Background(), []int64{42, 7, 42, 99})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if n := atomic.LoadInt32(&calls); n != 1 {
		t.Fatalf("requests: got=%d want=1", n)
	}
	if gotIDs != "7,42,99" {
		t.Fatalf("ids: got=%q want=%q", gotIDs, "7,42,99")
	}
	if gotAuth != "Bearer secret" {
		t.Fatalf("authorization: got=%q want=%q", gotAuth, "Bearer secret")
	}
	if len(got) != 2 {
		t.Fatalf("resolved: got=%d want=2", len(got))
	}
	if got[7].Name != "Ada" || got[7].Email != "ada@example.com" {
		t.Fatalf("author 7: got=%+v", got[7])
	}
	if _, ok := got[99]; ok {
		t.Fatalf("unknown id 99 should be absent")
	}
}

func TestResolveEmptySkipsRequest(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	c, err := New(testLogger(t), Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Resolve(context.Background(), nil)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 0 || atomic.LoadInt32(&calls) != 0 {
		t.Fatalf("empty resolve: got=%d results, %d requests", len(got), calls)
	}
}

func TestResolveNon2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer srv.Close()

	c, err := New(testLogger(t), Config{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Resolve(context.Background(), []int64{1}); err == nil {
		t.Fatalf("expected error for 502")
	}
}

func TestNewRequiresBaseURL(t *testing.T) {
	if _, err := New(testLogger(t), Config{}); err == nil {
		t.Fatalf("expected error without base url")
	}
}

func TestStaticResolve(t *testing.T) {
	s := Static{1: {ID: 1, Name: "one"}}
	got, err := s.Resolve(context.Background(), []int64{1, 2})
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if len(got) != 1 || got[1].Name != "one" {
		t.Fatalf("static: got=%+v", got)
	}
}
