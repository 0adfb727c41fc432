package handlers

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sentencing-platform/calc-service/internal/models"
	"github.com/sentencing-platform/calc-service/pkg/audit"
	"github.com/sentencing-platform/calc-service/pkg/calc"
	"github.com/sentencing-platform/calc-service/pkg/chat"
	"github.com/sentencing-platform/calc-service/pkg/domain"
	"github.com/sentencing-platform/calc-service/pkg/matrix"
	"github.com/sentencing-platform/calc-service/pkg/resolver"
	"github.com/sentencing-platform/calc-service/pkg/retrieval"
	"github.com/sentencing-platform/calc-service/pkg/store"
)

func newChatOrchestrator(fs *fakeStore) *chat.Orchestrator {
	r := resolver.New(fs)
	m := matrix.New(fs)
	w := audit.NewWriter(fs, 1, 4)
	c := calc.New(r, m, w)
	ret := retrieval.New(fs, nil, false, 6)
	return chat.New(c, ret)
}

func TestChatHandler_NoOffenceContext_ReturnsFollowUp(t *testing.T) {
	app := newTestApp()
	app.Post("/chat_turn", NewChatHandler(newChatOrchestrator(&fakeStore{})).Chat)

	body, _ := json.Marshal(map[string]interface{}{"message": "how long will I get?"})
	req := httptest.NewRequest("POST", "/chat_turn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.ChatTurnResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.NotEmpty(t, out.FollowUp)
	assert.Nil(t, out.Calculation)
}

func TestChatHandler_WithCalculation(t *testing.T) {
	fs := &fakeStore{offence: domain.OffenceRecord{ID: "offence-1", CanonicalName: "Theft"}}
	app := newTestApp()
	app.Post("/chat_turn", NewChatHandler(newChatOrchestrator(fs)).Chat)

	body, _ := json.Marshal(map[string]interface{}{
		"message":    "what's my sentence",
		"offence_id": "offence-1",
		"calculation": validCalculationRequestMap(),
	})
	req := httptest.NewRequest("POST", "/chat_turn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.ChatTurnResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Calculation)
	assert.Equal(t, "offence-1", out.Calculation.OffenceID)
}

func TestChatHandler_NestedCalculationInheritsOffenceReference(t *testing.T) {
	fs := &fakeStore{offence: domain.OffenceRecord{ID: "offence-1", CanonicalName: "Theft"}}
	app := newTestApp()
	app.Post("/chat_turn", NewChatHandler(newChatOrchestrator(fs)).Chat)

	calc := validCalculationRequestMap()
	delete(calc, "offence_id")

	body, _ := json.Marshal(map[string]interface{}{
		"message":     "what's my sentence",
		"offence_id":  "offence-1",
		"calculation": calc,
	})
	req := httptest.NewRequest("POST", "/chat_turn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.ChatTurnResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotNil(t, out.Calculation)
	assert.Equal(t, "offence-1", out.Calculation.OffenceID)
}

func TestChatHandler_OffenceNotFound_Returns422(t *testing.T) {
	fs := &fakeStore{offenceErr: store.ErrNotFound}
	app := newTestApp()
	app.Post("/chat_turn", NewChatHandler(newChatOrchestrator(fs)).Chat)

	body, _ := json.Marshal(map[string]interface{}{
		"message":    "what's my sentence",
		"offence_id": "offence-1",
		"calculation": validCalculationRequestMap(),
	})
	req := httptest.NewRequest("POST", "/chat_turn", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}

func validCalculationRequestMap() map[string]interface{} {
	return map[string]interface{}{
		"offence_id":           "offence-1",
		"offence_date":         "2024-01-01",
		"conviction_date":      "2024-02-01",
		"sentence_date":        "2024-03-01",
		"age_at_offence":       30,
		"age_at_conviction":    30,
		"age_at_sentence":      30,
		"plea_stage":           "first_stage",
		"sentence_type":        "determinate_custodial_sentence",
		"pre_plea_term_months": 24.0,
	}
}
