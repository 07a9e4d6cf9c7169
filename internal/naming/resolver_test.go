package naming

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestResolveSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/0xabc" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		w.Write([]byte(`{"name":"whale.eth","displayName":"Whale"}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, time.Second)
	name, err := r.Resolve(context.Background(), "0xabc")
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	if name != "whale.eth" {
		t.Fatalf("name mismatch: %q", name)
	}
}

func TestResolveNoName(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"name":null}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, time.Second)
	if _, err := r.Resolve(context.Background(), "0xabc"); err == nil {
		t.Fatalf("expected error when no name is set")
	}
}

func TestResolveServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, time.Second)
	if _, err := r.Resolve(context.Background(), "0xabc"); err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}

func TestResolveTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"name":"late.eth"}`))
	}))
	defer srv.Close()

	r := NewResolver(srv.URL, 20*time.Millisecond)
	if _, err := r.Resolve(context.Background(), "0xabc"); err == nil {
		t.Fatalf("expected timeout error")
	}
}
