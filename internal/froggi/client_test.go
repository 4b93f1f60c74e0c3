package froggi

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestNewClient_NormalizesAndRejectsSchemes(t *testing.T) {
	c, err := NewClient("  https://froggi.example.com/  ")
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	if c.BaseURL() != "https://froggi.example.com" {
		t.Fatalf("BaseURL = %q, want %q", c.BaseURL(), "https://froggi.example.com")
	}
	if c.RelayURL() != "https://froggi.example.com/ocr" {
		t.Fatalf("RelayURL = %q, want %q", c.RelayURL(), "https://froggi.example.com/ocr")
	}

	if _, err := NewClient("ftp://froggi.example.com"); err == nil {
		t.Fatalf("NewClient(ftp) returned nil error, want error")
	}
}

func TestClient_ProbeCheckKeyAndRelay(t *testing.T) {
	t.Parallel()

	var (
		gotMethods   []string
		gotKeyPath   string
		gotAPIKey    string
		gotBody      string
		gotUserAgent string
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethods = append(gotMethods, r.Method)
		gotUserAgent = r.Header.Get("User-Agent")

		switch {
		case r.Method == http.MethodHead && r.URL.Path == "/":
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, "/api/key/check/"):
			gotKeyPath = r.URL.EscapedPath()
			w.WriteHeader(http.StatusOK)
		case r.Method == http.MethodPost && r.URL.Path == "/ocr":
			gotAPIKey = r.Header.Get("api-key")
			body, _ := io.ReadAll(r.Body)
			gotBody = string(body)
			w.WriteHeader(http.StatusAccepted)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL+"/", WithAPIKey("k3y"))
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	reply, err := c.Probe(ctx)
	if err != nil {
		t.Fatalf("Probe returned error: %v", err)
	}
	if !reply.OK() {
		t.Fatalf("Probe reply = %#v, want 200", reply)
	}

	reply, err = c.CheckKey(ctx, "a b/c")
	if err != nil {
		t.Fatalf("CheckKey returned error: %v", err)
	}
	if !reply.OK() {
		t.Fatalf("CheckKey reply = %#v, want 200", reply)
	}
	if gotKeyPath != "/api/key/check/a%20b%2Fc" {
		t.Fatalf("key check path = %q, want %q", gotKeyPath, "/api/key/check/a%20b%2Fc")
	}

	reply, err = c.Relay(ctx, `{"text":"abc"}`)
	if err != nil {
		t.Fatalf("Relay returned error: %v", err)
	}
	if reply.StatusCode != http.StatusAccepted || reply.Status != "202 Accepted" {
		t.Fatalf("Relay reply = %#v, want 202 Accepted", reply)
	}
	if reply.OK() {
		t.Fatalf("Relay reply OK() = true for 202, want false")
	}
	if gotAPIKey != "k3y" {
		t.Fatalf("api-key header = %q, want %q", gotAPIKey, "k3y")
	}
	if gotBody != `{"text":"abc"}` {
		t.Fatalf("relay body = %q, want %q", gotBody, `{"text":"abc"}`)
	}
	if !strings.HasPrefix(gotUserAgent, "froggi-ocr/") {
		t.Fatalf("User-Agent = %q, want froggi-ocr/*", gotUserAgent)
	}
	if want := []string{"HEAD", "POST", "POST"}; strings.Join(gotMethods, ",") != strings.Join(want, ",") {
		t.Fatalf("methods = %v, want %v", gotMethods, want)
	}
}

func TestClient_NonOKIsReplyNotError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	reply, err := c.CheckKey(context.Background(), "bad")
	if err != nil {
		t.Fatalf("CheckKey returned error: %v", err)
	}
	if reply.StatusCode != http.StatusUnauthorized || reply.OK() {
		t.Fatalf("CheckKey reply = %#v, want 401", reply)
	}
}

func TestClient_TransportErrorIsError(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	c, err := NewClient(url)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Relay(context.Background(), "{}")
	if err == nil || !strings.Contains(err.Error(), "execute request") {
		t.Fatalf("Relay error = %v, want execute request error", err)
	}
}
