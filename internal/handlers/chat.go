package handlers

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/sentencing-platform/calc-service/internal/middleware"
	"github.com/sentencing-platform/calc-service/internal/models"
	"github.com/sentencing-platform/calc-service/pkg/chat"
	"github.com/sentencing-platform/calc-service/pkg/domain"
	"github.com/sentencing-platform/calc-service/pkg/resolver"
	"github.com/sentencing-platform/calc-service/pkg/store"
)

// ChatHandler backs POST /chat_turn (§6).
type ChatHandler struct {
	chat *chat.Orchestrator
}

func NewChatHandler(o *chat.Orchestrator) *ChatHandler {
	return &ChatHandler{chat: o}
}

func (h *ChatHandler) Chat(c *fiber.Ctx) error {
	var req models.ChatTurnRequest
	if err := decodeStrict(c, &req); err != nil {
		return middleware.NewBadRequest(err.Error())
	}

	// A nested calculation may omit offence_id/offence_query and rely on
	// the outer turn's, so inheritance must run before the struct-level
	// rule that requires an offence reference sees it.
	req.InheritOffenceReference()

	// validator.Struct dives into the non-nil *CalculationRequest field
	// automatically, including its registered cross-field rule.
	if err := models.ValidateStruct(&req); err != nil {
		return middleware.NewUnprocessable(models.FormatValidationErrors(err))
	}

	var calcInput *domain.CalculationInput
	if req.Calculation != nil {
		in, err := req.Calculation.ToDomain()
		if err != nil {
			return middleware.NewUnprocessable(err.Error())
		}
		calcInput = &in
	}

	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	result, err := h.chat.Handle(ctx, chat.Request{
		Message:      req.Message,
		OffenceID:    req.OffenceID,
		OffenceQuery: req.OffenceQuery,
		Calculation:  calcInput,
		TopK:         req.TopK,
	}, req.Calculation)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return middleware.NewUnprocessable("offence not found")
		case errors.Is(err, store.ErrMalformedID):
			return middleware.NewUnprocessable("offence_id is malformed")
		case errors.Is(err, resolver.ErrNoQuery):
			return middleware.NewUnprocessable("one of offence_id or offence_query is required")
		default:
			log.Printf("[ERROR] chat turn: %v", err)
			return middleware.NewInternal("failed to process chat turn")
		}
	}

	resp := models.ChatTurnResponse{
		Reply:     result.Reply,
		Citations: models.NewGuidelineChunkResponses(result.Citations),
		FollowUp:  result.FollowUp,
	}
	if result.Calculation != nil {
		calcResp := models.NewCalculateSentenceResponse(*result.Calculation)
		resp.Calculation = &calcResp
	}

	return c.Status(fiber.StatusOK).JSON(resp)
}
