package handlers

import (
	"context"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sentencing-platform/calc-service/internal/middleware"
	"github.com/sentencing-platform/calc-service/internal/models"
	"github.com/sentencing-platform/calc-service/pkg/domain"
	"github.com/sentencing-platform/calc-service/pkg/retrieval"
)

// SearchHandler backs POST /search_guidelines (§6).
type SearchHandler struct {
	retrieval *retrieval.Orchestrator
}

func NewSearchHandler(r *retrieval.Orchestrator) *SearchHandler {
	return &SearchHandler{retrieval: r}
}

func (h *SearchHandler) Search(c *fiber.Ctx) error {
	var req models.SearchGuidelinesRequest
	if err := decodeStrict(c, &req); err != nil {
		return middleware.NewBadRequest(err.Error())
	}

	if err := models.ValidateStruct(&req); err != nil {
		return middleware.NewUnprocessable(models.FormatValidationErrors(err))
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	hits, err := h.retrieval.Search(ctx, req.Query, req.TopK, req.OffenceID)
	if err != nil {
		log.Printf("[ERROR] guideline search: %v", err)
		return middleware.NewInternal("failed to search guidelines")
	}

	chunks := make([]domain.GuidelineChunk, 0, len(hits))
	for _, hit := range hits {
		chunks = append(chunks, hit.Chunk)
	}

	return c.Status(fiber.StatusOK).JSON(models.SearchGuidelinesResponse{
		Results: models.NewGuidelineChunkResponses(chunks),
	})
}
