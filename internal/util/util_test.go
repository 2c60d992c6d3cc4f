package util

import (
	"context"
	"encoding/pem"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ppiankov/regulqa/internal/model"
)

func TestNormalizeUserAgent(t *testing.T) {
	tests := map[string]string{
		"RegulQA-Harvester/1.0":            "RegulQA-Harvester",
		"RegulQA-Harvester/1.0 (+contact)": "RegulQA-Harvester",
		"curl":                             "curl",
		"":                                 "",
	}
	for in, want := range tests {
		if got := NormalizeUserAgent(in); got != want {
			t.Errorf("NormalizeUserAgent(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestRobotsChecker(t *testing.T) {
	var robotsHits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/robots.txt" {
			robotsHits.Add(1)
			_, _ = fmt.Fprint(w, "User-agent: RegulQA-Harvester\nDisallow: /private/\nCrawl-delay: 3\n\nUser-agent: *\nDisallow: /\n")
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "RegulQA-Harvester/1.0")
	ctx := context.Background()

	allowed, delay, err := checker.CanFetch(ctx, server.URL+"/specs/srs.pdf")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("Expected /specs/ to be allowed for our agent")
	}
	if delay != 3*time.Second {
		t.Errorf("Expected crawl delay 3s, got %v", delay)
	}

	allowed, _, err = checker.CanFetch(ctx, server.URL+"/private/notes.html")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if allowed {
		t.Error("Expected /private/ to be disallowed")
	}

	if robotsHits.Load() != 1 {
		t.Errorf("Expected robots.txt to be fetched once, got %d", robotsHits.Load())
	}
}

func TestRobotsChecker_Missing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	checker := NewRobotsChecker(server.Client(), "RegulQA-Harvester/1.0")
	allowed, _, err := checker.CanFetch(context.Background(), server.URL+"/anything")
	if err != nil {
		t.Fatalf("CanFetch failed: %v", err)
	}
	if !allowed {
		t.Error("Expected a missing robots.txt to allow everything")
	}
}

func TestNewProxyFunc(t *testing.T) {
	proxy := NewProxyFunc("http://proxy.local:3128", "http://secure-proxy.local:3128", "internal.example")

	tests := []struct {
		target string
		want   string
	}{
		{"http://standards.example/doc.pdf", "http://proxy.local:3128"},
		{"https://standards.example/doc.pdf", "http://secure-proxy.local:3128"},
		{"https://internal.example/doc.pdf", ""},
	}

	for _, tt := range tests {
		u, _ := url.Parse(tt.target)
		got, err := proxy(&http.Request{URL: u})
		if err != nil {
			t.Fatalf("proxy(%s) failed: %v", tt.target, err)
		}
		gotStr := ""
		if got != nil {
			gotStr = got.String()
		}
		if gotStr != tt.want {
			t.Errorf("proxy(%s): expected %q, got %q", tt.target, tt.want, gotStr)
		}
	}
}

func TestNewHTTPClient(t *testing.T) {
	cfg := model.DefaultConfig().HTTP
	cfg.InsecureTLS = true

	client := NewHTTPClient(cfg, nil)
	if client.Timeout != cfg.Timeout {
		t.Errorf("Expected timeout %v, got %v", cfg.Timeout, client.Timeout)
	}

	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatal("Expected *http.Transport")
	}
	if transport.TLSClientConfig == nil || !transport.TLSClientConfig.InsecureSkipVerify {
		t.Error("Expected TLS verification to be disabled")
	}
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "manifest.json")

	if err := WriteFileAtomic(path, []byte(`{"a":1}`), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic failed: %v", err)
	}
	if err := WriteFileAtomic(path, []byte(`{"a":2}`), 0o644); err != nil {
		t.Fatalf("WriteFileAtomic overwrite failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(data) != `{"a":2}` {
		t.Errorf("Unexpected content: %s", data)
	}

	entries, _ := os.ReadDir(filepath.Dir(path))
	if len(entries) != 1 {
		t.Errorf("Expected only the target file, found %d entries", len(entries))
	}
}

func TestNewHTTPClient_CABundle(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprint(w, "trusted")
	}))
	defer server.Close()

	cfg := model.DefaultConfig().HTTP

	resp, err := NewHTTPClient(cfg, nil).Get(server.URL)
	if err == nil {
		_ = resp.Body.Close()
		t.Fatal("Expected the test certificate to be rejected by the system pool")
	}

	bundle := filepath.Join(t.TempDir(), "ca.pem")
	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: server.Certificate().Raw})
	if err := os.WriteFile(bundle, certPEM, 0o644); err != nil {
		t.Fatalf("write bundle: %v", err)
	}

	roots, err := LoadCABundle(bundle)
	if err != nil {
		t.Fatalf("LoadCABundle failed: %v", err)
	}
	resp, err = NewHTTPClient(cfg, roots).Get(server.URL)
	if err != nil {
		t.Fatalf("Expected the bundle to be trusted, got %v", err)
	}
	_ = resp.Body.Close()
}

func TestLoadCABundle_Invalid(t *testing.T) {
	dir := t.TempDir()
	if _, err := LoadCABundle(filepath.Join(dir, "missing.pem")); err == nil {
		t.Error("Expected error for a missing bundle")
	}

	garbage := filepath.Join(dir, "garbage.pem")
	if err := os.WriteFile(garbage, []byte("not a certificate"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadCABundle(garbage); err == nil {
		t.Error("Expected error for a bundle without certificates")
	}
}
