package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sentencing-platform/calc-service/internal/middleware"
	"github.com/sentencing-platform/calc-service/internal/models"
	"github.com/sentencing-platform/calc-service/pkg/calc"
	"github.com/sentencing-platform/calc-service/pkg/resolver"
	"github.com/sentencing-platform/calc-service/pkg/store"
)

// CalculateHandler backs POST /calculate_sentence (§6).
type CalculateHandler struct {
	calc *calc.Orchestrator
}

func NewCalculateHandler(c *calc.Orchestrator) *CalculateHandler {
	return &CalculateHandler{calc: c}
}

func (h *CalculateHandler) Calculate(c *fiber.Ctx) error {
	var req models.CalculationRequest
	if err := decodeStrict(c, &req); err != nil {
		return middleware.NewBadRequest(err.Error())
	}

	if err := models.ValidateStruct(&req); err != nil {
		return middleware.NewUnprocessable(models.FormatValidationErrors(err))
	}

	input, err := req.ToDomain()
	if err != nil {
		return middleware.NewUnprocessable(err.Error())
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	result, err := h.calc.Calculate(ctx, input, req)
	if err != nil {
		return mapCalcError(err)
	}

	return c.Status(fiber.StatusOK).JSON(models.NewCalculateSentenceResponse(result))
}

// mapCalcError maps calculation-pipeline errors onto the §6 status contract.
func mapCalcError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return middleware.NewNotFound("offence not found")
	case errors.Is(err, store.ErrMalformedID):
		return middleware.NewUnprocessable("offence_id is malformed")
	case errors.Is(err, resolver.ErrNoQuery):
		return middleware.NewUnprocessable("one of offence_id or offence_query is required")
	default:
		log.Printf("[ERROR] calculation pipeline: %v", err)
		return middleware.NewInternal("failed to calculate sentence")
	}
}

// decodeStrict rejects unknown fields (§4.A).
func decodeStrict(c *fiber.Ctx, dst interface{}) error {
	decoder := json.NewDecoder(bytes.NewReader(c.Body()))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}
