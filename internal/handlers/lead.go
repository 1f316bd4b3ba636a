package handlers

import (
	"encoding/json"
	"errors"

	"github.com/ggorockee/leadmaps/internal/export"
	"github.com/ggorockee/leadmaps/internal/logger"
	"github.com/ggorockee/leadmaps/internal/search"
	"github.com/ggorockee/leadmaps/internal/services"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	msgInvalidFilter = "검색 조건이 올바르지 않습니다."
	msgSearchFailed  = "검색 중 오류가 발생했습니다. 잠시 후 다시 시도해 주세요."
	msgInvalidExport = "내보낼 항목이 올바르지 않습니다."
)

// maxExportRows bounds a single CSV export request
const maxExportRows = 1000

type LeadHandler struct {
	service *services.LeadService
	log     *zap.SugaredLogger
}

func NewLeadHandler(service *services.LeadService) *LeadHandler {
	return &LeadHandler{
		service: service,
		log:     logger.GetLogger("handlers.lead"),
	}
}

func SetupLeadRoutes(router fiber.Router, service *services.LeadService) {
	h := NewLeadHandler(service)

	router.Get("/search", h.SearchQuery)
	router.Post("/search", h.Search)
	router.Post("/export", h.Export)
}

// SearchResponse wraps the result rows
type SearchResponse struct {
	Results []search.ResultRow `json:"results"`
}

// ExportRequest carries the rows the user selected in the result table
type ExportRequest struct {
	Rows []search.ResultRow `json:"rows"`
}

// Search godoc
// @Summary Search leads
// @Tags leads
// @Accept json
// @Produce json
// @Success 200 {object} SearchResponse
// @Router /leads/search [post]
func (h *LeadHandler) Search(c *fiber.Ctx) error {
	raw := map[string]any{}
	if body := c.Body(); len(body) > 0 {
		if err := json.Unmarshal(body, &raw); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidFilter})
		}
	}
	return h.search(c, raw)
}

// SearchQuery accepts the same filter fields as query parameters
// @Summary Search leads (query string)
// @Tags leads
// @Produce json
// @Success 200 {object} SearchResponse
// @Router /leads/search [get]
func (h *LeadHandler) SearchQuery(c *fiber.Ctx) error {
	raw := map[string]any{}
	for k, v := range c.Queries() {
		raw[k] = v
	}
	return h.search(c, raw)
}

func (h *LeadHandler) search(c *fiber.Ctx, raw map[string]any) error {
	filter, err := search.ParseFilter(raw)
	if err != nil {
		h.log.Debugw("rejected lead filter", "error", err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidFilter})
	}

	results, err := h.service.Search(c.UserContext(), filter)
	if err != nil {
		if !errors.Is(err, services.ErrQueryExecution) {
			h.log.Errorw("unexpected lead search failure", "error", err.Error())
		}
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: msgSearchFailed})
	}

	return c.JSON(SearchResponse{Results: results})
}

// Export godoc
// @Summary Export selected leads as CSV
// @Tags leads
// @Accept json
// @Produce text/csv
// @Router /leads/export [post]
func (h *LeadHandler) Export(c *fiber.Ctx) error {
	var req ExportRequest
	if err := json.Unmarshal(c.Body(), &req); err != nil || len(req.Rows) > maxExportRows {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: msgInvalidExport})
	}

	payload, err := export.CSV(req.Rows)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, msgSearchFailed)
	}

	c.Attachment(export.FileName)
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	return c.Send(payload)
}
