package ollama

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestClient_Defaults(t *testing.T) {
	c := NewClient("", "", 0)
	if c.baseURL != DefaultBaseURL {
		t.Errorf("expected default base URL, got %q", c.baseURL)
	}
	if c.Model() != DefaultModel {
		t.Errorf("expected default model, got %q", c.Model())
	}
}

func TestClient_TrimsTrailingSlash(t *testing.T) {
	c := NewClient("http://example.com:11434/", "m", time.Second)
	if c.baseURL != "http://example.com:11434" {
		t.Errorf("expected trimmed base URL, got %q", c.baseURL)
	}
}

func TestClient_Generate(t *testing.T) {
	var gotReq generateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		fmt.Fprint(w, `{"response":"all good","done":true}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "codellama", 5*time.Second)
	response, err := c.Generate(context.Background(), "summarize")
	if err != nil {
		t.Fatalf("generating: %v", err)
	}
	if response != "all good" {
		t.Errorf("expected 'all good', got %q", response)
	}

	if gotReq.Model != "codellama" {
		t.Errorf("expected model codellama, got %q", gotReq.Model)
	}
	if gotReq.Stream {
		t.Error("expected stream=false")
	}
	if gotReq.Prompt != "summarize" {
		t.Errorf("expected prompt forwarded, got %q", gotReq.Prompt)
	}
}

func TestClient_GenerateServiceReportedError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"error":"model not found"}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "missing", 5*time.Second)
	_, err := c.Generate(context.Background(), "hi")
	if err == nil {
		t.Fatal("expected error")
	}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if svcErr.Timeout {
		t.Error("service-reported error must not be a timeout")
	}
	if !strings.Contains(err.Error(), "model not found") {
		t.Errorf("expected model error in message, got %q", err.Error())
	}
}

func TestClient_GenerateNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", 5*time.Second)
	_, err := c.Generate(context.Background(), "hi")

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %v", err)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("expected status in message, got %q", err.Error())
	}
}

func TestClient_GenerateTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", 5*time.Second)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	_, err := c.Generate(ctx, "hi")
	if err == nil {
		t.Fatal("expected timeout error")
	}

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if !svcErr.Timeout {
		t.Errorf("expected Timeout=true, got %v", err)
	}
}

func TestClient_GenerateUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	srv.Close()

	c := NewClient(srv.URL, "m", 2*time.Second)
	_, err := c.Generate(context.Background(), "hi")

	var svcErr *ServiceError
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected *ServiceError, got %T", err)
	}
	if svcErr.Timeout {
		t.Error("connection refused must not be a timeout")
	}
}

func TestClient_Health(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		fmt.Fprint(w, `{"models":[]}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", 5*time.Second)
	if err := c.Health(context.Background()); err != nil {
		t.Errorf("expected healthy, got %v", err)
	}
}

func TestClient_HealthDown(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", 5*time.Second)
	if err := c.Health(context.Background()); err == nil {
		t.Error("expected error for unhealthy server")
	}
}

func TestClient_ChatIncludesContext(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Prompt
		fmt.Fprint(w, `{"response":"ok","done":true}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", 5*time.Second)

	if _, err := c.Chat(context.Background(), "what broke?", `{"suite":"smoke"}`); err != nil {
		t.Fatalf("chatting: %v", err)
	}
	if !strings.Contains(gotPrompt, `{"suite":"smoke"}`) {
		t.Errorf("expected context in prompt, got %q", gotPrompt)
	}
	if !strings.Contains(gotPrompt, "what broke?") {
		t.Errorf("expected question in prompt, got %q", gotPrompt)
	}

	// Without context the message goes through untouched.
	if _, err := c.Chat(context.Background(), "plain question", ""); err != nil {
		t.Fatalf("chatting: %v", err)
	}
	if gotPrompt != "plain question" {
		t.Errorf("expected bare message, got %q", gotPrompt)
	}
}

func TestClient_AnalyzePromptsEmbedContent(t *testing.T) {
	var gotPrompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req generateRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		gotPrompt = req.Prompt
		fmt.Fprint(w, `{"response":"ok","done":true}`)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "m", 5*time.Second)

	cases := []struct {
		name string
		run  func() (string, error)
		want string
	}{
		{"logs", func() (string, error) { return c.AnalyzeLogs(context.Background(), "LOG DATA") }, "LOG DATA"},
		{"tests", func() (string, error) { return c.AnalyzeTests(context.Background(), "TEST DATA") }, "TEST DATA"},
		{"security", func() (string, error) { return c.AnalyzeSecurity(context.Background(), "SEC DATA") }, "SEC DATA"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.run(); err != nil {
				t.Fatalf("analyzing: %v", err)
			}
			if !strings.Contains(gotPrompt, tc.want) {
				t.Errorf("expected %q embedded in prompt", tc.want)
			}
			if !strings.Contains(gotPrompt, "Recommendations") {
				t.Errorf("expected recommendations section in prompt, got %q", gotPrompt)
			}
		})
	}
}
