package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ggorockee/leadmaps/pkg/webhook"
)

type fakeRelay struct {
	enabled bool
	err     error
	sent    []webhook.Message
}

func (r *fakeRelay) Enabled() bool { return r.enabled }

func (r *fakeRelay) Send(_ context.Context, msg webhook.Message) error {
	r.sent = append(r.sent, msg)
	return r.err
}

func validContact() ContactRequest {
	return ContactRequest{
		Name:    "  김민지 <b>",
		Email:   "minji@example.kr",
		Company: "온더코너",
		Message: "리드 검색 데모를 요청드립니다.",
	}
}

func TestContactSubmitRelays(t *testing.T) {
	relay := &fakeRelay{enabled: true}
	ref, err := NewContactService(relay).Submit(context.Background(), validContact())
	if err != nil {
		t.Fatalf("Submit failed: %v", err)
	}
	if ref == "" {
		t.Error("expected a reference id")
	}
	if len(relay.sent) != 1 {
		t.Fatalf("expected one message, got %d", len(relay.sent))
	}
	text := relay.sent[0].Text
	if !strings.Contains(text, ref) || !strings.Contains(text, "이름: 김민지 b") {
		t.Errorf("unexpected message text:\n%s", text)
	}
	if strings.ContainsAny(text, "<>`") {
		t.Errorf("markup characters should be stripped:\n%s", text)
	}
}

func TestContactSubmitValidation(t *testing.T) {
	tests := map[string]func(*ContactRequest){
		"missing name":  func(r *ContactRequest) { r.Name = "   " },
		"bad email":     func(r *ContactRequest) { r.Email = "not-an-email" },
		"short message": func(r *ContactRequest) { r.Message = "hi" },
		"long phone":    func(r *ContactRequest) { r.Phone = strings.Repeat("1", 51) },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			relay := &fakeRelay{enabled: true}
			req := validContact()
			mutate(&req)
			_, err := NewContactService(relay).Submit(context.Background(), req)
			if !errors.Is(err, ErrInvalidContact) {
				t.Errorf("expected ErrInvalidContact, got %v", err)
			}
			if len(relay.sent) != 0 {
				t.Error("invalid input must not be relayed")
			}
		})
	}
}

func TestContactSubmitRelayStates(t *testing.T) {
	_, err := NewContactService(&fakeRelay{}).Submit(context.Background(), validContact())
	if !errors.Is(err, ErrRelayUnavailable) {
		t.Errorf("expected ErrRelayUnavailable, got %v", err)
	}

	_, err = NewContactService(&fakeRelay{enabled: true, err: errors.New("503")}).Submit(context.Background(), validContact())
	if !errors.Is(err, ErrRelayFailed) {
		t.Errorf("expected ErrRelayFailed, got %v", err)
	}
}
