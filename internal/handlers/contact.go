package handlers

import (
	"encoding/json"
	"errors"

	"github.com/ggorockee/leadmaps/internal/services"
	"github.com/gofiber/fiber/v2"
)

type ContactHandler struct {
	service *services.ContactService
}

func NewContactHandler(service *services.ContactService) *ContactHandler {
	return &ContactHandler{service: service}
}

func SetupContactRoutes(router fiber.Router, service *services.ContactService, limiter fiber.Handler) {
	h := NewContactHandler(service)

	router.Post("/", limiter, h.Submit)
}

// ContactResponse 문의 접수 결과
type ContactResponse struct {
	OK        bool   `json:"ok"`
	Reference string `json:"reference"`
}

// Submit godoc
// @Summary Submit the contact form
// @Tags contact
// @Accept json
// @Produce json
// @Param request body services.ContactRequest true "Contact form"
// @Success 202 {object} ContactResponse
// @Router /contact [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req services.ContactRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "입력값이 올바르지 않습니다."})
	}

	ref, err := h.service.Submit(c.UserContext(), req)
	switch {
	case err == nil:
		return c.Status(fiber.StatusAccepted).JSON(ContactResponse{OK: true, Reference: ref})
	case errors.Is(err, services.ErrInvalidContact):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: "입력값이 올바르지 않습니다."})
	case errors.Is(err, services.ErrRelayUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{Error: "현재 문의를 받을 수 없습니다."})
	default:
		return c.Status(fiber.StatusBadGateway).JSON(ErrorResponse{Error: "문의 전송에 실패했습니다. 잠시 후 다시 시도해 주세요."})
	}
}
