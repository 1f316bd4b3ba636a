package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ggorockee/leadmaps/internal/logger"
	"github.com/ggorockee/leadmaps/internal/search"
	"github.com/ggorockee/leadmaps/pkg/webhook"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidContact   = errors.New("invalid contact request")
	ErrRelayUnavailable = errors.New("contact relay not configured")
	ErrRelayFailed      = errors.New("contact relay failed")
)

// ContactRequest 문의 폼 입력
type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email,max=255"`
	Company string `json:"company" validate:"max=150"`
	Phone   string `json:"phone" validate:"max=50"`
	Message string `json:"message" validate:"required,min=10,max=5000"`
}

// Relay delivers a chat message, e.g. *webhook.Client
type Relay interface {
	Enabled() bool
	Send(ctx context.Context, msg webhook.Message) error
}

type ContactService struct {
	relay    Relay
	validate *validator.Validate
	log      *zap.SugaredLogger
}

func NewContactService(relay Relay) *ContactService {
	return &ContactService{
		relay:    relay,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      logger.GetLogger("services.contact"),
	}
}

// Submit validates the form and relays it once. The returned reference is
// shown to the visitor and included in the chat message.
func (s *ContactService) Submit(ctx context.Context, req ContactRequest) (string, error) {
	req = ContactRequest{
		Name:    clean(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Company: clean(req.Company),
		Phone:   clean(req.Phone),
		Message: clean(req.Message),
	}
	if err := s.validate.Struct(req); err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidContact, err)
	}

	if !s.relay.Enabled() {
		s.log.Warn("contact form submitted but CONTACT_WEBHOOK_URL is not set")
		return "", ErrRelayUnavailable
	}

	ref := uuid.NewString()
	if err := s.relay.Send(ctx, webhook.Message{Text: formatContact(ref, req)}); err != nil {
		s.log.Errorw("contact relay failed", "reference", ref, "error", err.Error())
		return "", fmt.Errorf("%w: %v", ErrRelayFailed, err)
	}

	s.log.Infow("contact relayed", "reference", ref)
	return ref, nil
}

func clean(s string) string {
	return strings.TrimSpace(search.Sanitize(s))
}

func formatContact(ref string, req ContactRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "새 문의가 접수되었습니다 (%s)\n", ref)
	fmt.Fprintf(&b, "이름: %s\n이메일: %s\n", req.Name, req.Email)
	if req.Company != "" {
		fmt.Fprintf(&b, "회사: %s\n", req.Company)
	}
	if req.Phone != "" {
		fmt.Fprintf(&b, "전화: %s\n", req.Phone)
	}
	b.WriteString("\n")
	b.WriteString(req.Message)
	return b.String()
}
