package remote

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestParseEndpoint_AcceptsAbsoluteHTTP(t *testing.T) {
	u, err := ParseEndpoint("  https://example.com/recipes.json#frag ")
	if err != nil {
		t.Fatalf("ParseEndpoint returned error: %v", err)
	}
	if u.Scheme != "https" || u.Host != "example.com" || u.Path != "/recipes.json" {
		t.Fatalf("ParseEndpoint = %q, want https://example.com/recipes.json", u.String())
	}
	if u.Fragment != "" {
		t.Fatalf("fragment not stripped: %q", u.String())
	}
}

func TestParseEndpoint_RejectsInvalid(t *testing.T) {
	for _, raw := range []string{
		"",
		"not a url",
		"/recipes.json",
		"example.com/recipes.json",
		"ftp://example.com/recipes.json",
		"https://",
		"http://[::1",
	} {
		if _, err := ParseEndpoint(raw); !errors.Is(err, ErrInvalidURL) {
			t.Fatalf("ParseEndpoint(%q) error = %v, want ErrInvalidURL", raw, err)
		}
	}
}

func TestClient_GetSendsHeadersAndReturnsBody(t *testing.T) {
	t.Parallel()

	var gotAccept, gotUserAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotUserAgent = r.Header.Get("User-Agent")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"recipes":[]}`))
	}))
	t.Cleanup(server.Close)

	c := NewClient(time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	body, err := c.Get(ctx, server.URL+"/recipes.json")
	if err != nil {
		t.Fatalf("Get returned error: %v", err)
	}
	if string(body) != `{"recipes":[]}` {
		t.Fatalf("body = %q", body)
	}
	if gotAccept != "application/json" {
		t.Fatalf("Accept = %q, want application/json", gotAccept)
	}
	if !strings.HasPrefix(gotUserAgent, "galley/") {
		t.Fatalf("User-Agent = %q, want galley/*", gotUserAgent)
	}
}

func TestClient_HTTPErrorAndEmptyBody(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/empty":
			w.WriteHeader(http.StatusOK)
		case "/broken":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c := NewClient(time.Second, WithUserAgent("galley-test/1"))

	_, err := c.Get(context.Background(), server.URL+"/empty")
	if !errors.Is(err, ErrEmptyBody) {
		t.Fatalf("Get(/empty) error = %v, want ErrEmptyBody", err)
	}

	_, err = c.Get(context.Background(), server.URL+"/broken")
	if err == nil || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Get(/broken) error = %v, want status 500 error", err)
	}

	_, err = c.FetchImage(context.Background(), server.URL+"/missing.jpg")
	if err == nil || !strings.Contains(err.Error(), "returned status 404") {
		t.Fatalf("FetchImage error = %v, want status 404 error", err)
	}
}

func TestClient_ConnectionFailure(t *testing.T) {
	c := NewClient(500 * time.Millisecond)
	_, err := c.Get(context.Background(), "http://127.0.0.1:1/recipes.json")
	if err == nil || !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("Get error = %v, want execute request error", err)
	}
}

func TestClient_FetchImageAccept(t *testing.T) {
	t.Parallel()

	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		_, _ = w.Write([]byte{0xff, 0xd8, 0xff})
	}))
	t.Cleanup(server.Close)

	body, err := NewClient(0).FetchImage(context.Background(), server.URL+"/small.jpg")
	if err != nil {
		t.Fatalf("FetchImage returned error: %v", err)
	}
	if len(body) != 3 || gotAccept != "image/*" {
		t.Fatalf("FetchImage body=%v accept=%q", body, gotAccept)
	}
}
