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
	"github.com/sentencing-platform/calc-service/pkg/domain"
	"github.com/sentencing-platform/calc-service/pkg/retrieval"
	"github.com/sentencing-platform/calc-service/pkg/store"
)

func TestSearchHandler_HappyPath(t *testing.T) {
	fs := &fakeStore{textHits: []store.ChunkHit{{Chunk: domain.GuidelineChunk{ID: "c1", Heading: "Sentencing for theft"}}}}
	ret := retrieval.New(fs, nil, false, 6)
	app := newTestApp()
	app.Post("/search_guidelines", NewSearchHandler(ret).Search)

	body, _ := json.Marshal(map[string]interface{}{"query": "theft sentencing"})
	req := httptest.NewRequest("POST", "/search_guidelines", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out models.SearchGuidelinesResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.Len(t, out.Results, 1)
	assert.Equal(t, "Sentencing for theft", out.Results[0].Heading)
}

func TestSearchHandler_ValidationFailure(t *testing.T) {
	ret := retrieval.New(&fakeStore{}, nil, false, 6)
	app := newTestApp()
	app.Post("/search_guidelines", NewSearchHandler(ret).Search)

	body, _ := json.Marshal(map[string]interface{}{"query": ""})
	req := httptest.NewRequest("POST", "/search_guidelines", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
}
