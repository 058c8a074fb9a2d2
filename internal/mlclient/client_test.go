//nolint:testpackage // Testing internal client requires same package access
package mlclient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_Classify(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/classify" {
			t.Errorf("expected /classify, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}

		var req struct {
			Text string `json:"text"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		if req.Text != "you are worthless" {
			t.Errorf("unexpected text: %q", req.Text)
		}

		response := ClassifyResponse{
			Flagged:          true,
			Reason:           "Harassment detected",
			Categories:       []string{"harassment"},
			Confidence:       0.92,
			ProcessingTimeMs: 12,
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			t.Errorf("failed to encode response: %v", err)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	decision, err := client.Classify(context.Background(), "you are worthless")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !decision.Flagged {
		t.Error("expected flagged decision")
	}
	if decision.Reason != "Harassment detected" {
		t.Errorf("unexpected reason: %q", decision.Reason)
	}
	if len(decision.Categories) != 1 || decision.Categories[0] != "harassment" {
		t.Errorf("unexpected categories: %v", decision.Categories)
	}
}

func TestClient_Classify_NotFlagged(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ClassifyResponse{Flagged: false})
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	decision, err := client.Classify(context.Background(), "see you at 8")

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if decision.Flagged {
		t.Error("expected clean decision")
	}
}

func TestClient_Classify_ServerError(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if _, err := client.Classify(context.Background(), "hello"); err == nil {
		t.Fatal("expected error for 500 response")
	}
}

func TestClient_Classify_Timeout(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, 50*time.Millisecond)

	start := time.Now()
	_, err := client.Classify(context.Background(), "hello")
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if time.Since(start) > time.Second {
		t.Errorf("call not bounded by timeout: took %v", time.Since(start))
	}
}

func TestClient_Health(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("expected /health, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if err := client.Health(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestClient_HealthUnhealthy(t *testing.T) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	if err := client.Health(context.Background()); err == nil {
		t.Fatal("expected error for unhealthy service")
	}
}
