package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSendPostsJSON(t *testing.T) {
	var got Message
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("invalid body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).Send(context.Background(), Message{Text: "새 문의"}); err != nil {
		t.Fatalf("Send failed: %v", err)
	}
	if got.Text != "새 문의" {
		t.Errorf("unexpected text: %q", got.Text)
	}
}

func TestSendRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if err := NewClient(srv.URL).Send(context.Background(), Message{Text: "x"}); err == nil {
		t.Error("expected an error for a 403 answer")
	}
}

func TestSendDisabled(t *testing.T) {
	c := NewClient("")
	if c.Enabled() {
		t.Error("empty url should disable the client")
	}
	if err := c.Send(context.Background(), Message{Text: "x"}); !errors.Is(err, ErrDisabled) {
		t.Errorf("expected ErrDisabled, got %v", err)
	}
}
