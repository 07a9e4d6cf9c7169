package publish

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestPublishSuccess(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth := r.Header.Get("Authorization"); auth != "Bearer key123" {
			t.Fatalf("missing api key, got %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	p := NewPublisher(srv.URL, "key123", "basewhales", time.Second, nil)
	res := p.Publish(context.Background(), "🐋 505 ETH", "big move")

	if !res.Success || res.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected result: %+v", res)
	}
	if got["submolt"] != "basewhales" || got["title"] != "🐋 505 ETH" || got["content"] != "big move" {
		t.Fatalf("payload mismatch: %+v", got)
	}
}

func TestPublishRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	p := NewPublisher(srv.URL, "key123", "basewhales", time.Second, nil)
	res := p.Publish(context.Background(), "t", "c")

	if res.Success {
		t.Fatalf("429 must not count as success")
	}
	if res.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status mismatch: %d", res.StatusCode)
	}
}

func TestPublishTransportError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // force connection refused

	p := NewPublisher(srv.URL, "key123", "basewhales", time.Second, nil)
	res := p.Publish(context.Background(), "t", "c")

	if res.Success || res.StatusCode != 0 {
		t.Fatalf("transport error must map to zero-status failure: %+v", res)
	}
}
