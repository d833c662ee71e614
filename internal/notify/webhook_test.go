package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestWebhookNotifierDeliversDM(t *testing.T) {
	var received directMessagePayload
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&received); err != nil {
			t.Errorf("failed to decode payload: %v", err)
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, "gateway-token")
	err := notifier.DirectMessage(context.Background(), "alice", "you drew bob")
	if err != nil {
		t.Fatalf("delivery failed: %v", err)
	}

	if received.UserID != "alice" || received.Text != "you drew bob" {
		t.Errorf("unexpected payload: %+v", received)
	}
	if gotAuth != "Bearer gateway-token" {
		t.Errorf("unexpected auth header: %q", gotAuth)
	}
}

func TestWebhookNotifierReportsRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unknown user", http.StatusNotFound)
	}))
	defer server.Close()

	notifier := NewWebhookNotifier(server.URL, "")
	if err := notifier.DirectMessage(context.Background(), "ghost", "hello"); err == nil {
		t.Error("expected error for rejected delivery")
	}
}

func TestWebhookNotifierReportsConnectionError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	notifier := NewWebhookNotifier(server.URL, "")
	if err := notifier.DirectMessage(context.Background(), "alice", "hello"); err == nil {
		t.Error("expected error when gateway is unreachable")
	}
}
