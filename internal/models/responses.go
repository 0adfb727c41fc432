package models

import "github.com/sentencing-platform/calc-service/pkg/domain"

// CalculateSentenceResponse is the body of 200 responses from
// POST /calculate_sentence.
type CalculateSentenceResponse struct {
	OffenceID   string `json:"offence_id"`
	OffenceName string `json:"offence_name"`

	SentenceType string `json:"sentence_type"`

	PrePleaTermMonths  *float64 `json:"pre_plea_term_months"`
	PostPleaTermMonths *float64 `json:"post_plea_term_months"`

	MinimumSentenceTriggered  bool     `json:"minimum_sentence_triggered"`
	MinimumFloorPrePleaMonths *float64 `json:"minimum_floor_pre_plea_months"`
	MinimumFloorPostPleaMonths *float64 `json:"minimum_floor_post_plea_months"`

	ReleaseFraction *float64 `json:"release_fraction"`

	EstimatedTimeInCustodyMonths *float64 `json:"estimated_time_in_custody_months"`

	VictimSurchargeGBP float64 `json:"victim_surcharge_gbp"`

	MatchedRange *SentencingMatrixRowResponse `json:"matched_range"`

	Warnings []string `json:"warnings"`
	Trace    []string `json:"trace"`
}

// SentencingMatrixRowResponse is the wire shape of a matched culpability/harm row.
type SentencingMatrixRowResponse struct {
	Culpability       string `json:"culpability"`
	Harm              string `json:"harm"`
	StartingPointText string `json:"starting_point_text"`
	CategoryRangeText string `json:"category_range_text"`
}

// GuidelineChunkResponse is one hit in the /search_guidelines results array.
type GuidelineChunkResponse struct {
	ID          string  `json:"id"`
	OffenceID   string  `json:"offence_id,omitempty"`
	GuidelineID string  `json:"guideline_id"`
	Heading     string  `json:"heading"`
	Text        string  `json:"text"`
	SourceURL   string  `json:"source_url,omitempty"`
	Score       float64 `json:"score"`
}

// SearchGuidelinesResponse is the body of 200 responses from
// POST /search_guidelines.
type SearchGuidelinesResponse struct {
	Results []GuidelineChunkResponse `json:"results"`
}

// ChatTurnResponse is the body of 200 responses from POST /chat_turn.
type ChatTurnResponse struct {
	Reply       string                       `json:"reply"`
	Calculation *CalculateSentenceResponse   `json:"calculation,omitempty"`
	Citations   []GuidelineChunkResponse     `json:"citations,omitempty"`
	FollowUp    string                       `json:"follow_up,omitempty"`
}

// ErrorResponse is the uniform error envelope (§6): detail is either a
// plain string or an array of ValidationErrorItem.
type ErrorResponse struct {
	Detail interface{} `json:"detail"`
}

// ValidationErrorItem is one entry of a 422 validation-error detail array.
type ValidationErrorItem struct {
	Loc   []string    `json:"loc"`
	Msg   string      `json:"msg"`
	Type  string      `json:"type"`
	Input interface{} `json:"input,omitempty"`
}

// HealthResponse is the body of GET /health (§6: 200 top-level
// `{"status":"ok"}`, enriched with store reachability and process uptime).
type HealthResponse struct {
	Status   string                   `json:"status"`
	Uptime   string                   `json:"uptime"`
	Services map[string]ServiceStatus `json:"services"`
}

// ServiceStatus reports one dependency's health as seen by /health.
type ServiceStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// NewCalculateSentenceResponse maps the engine's result onto the wire shape.
func NewCalculateSentenceResponse(r domain.CalculateSentenceResult) CalculateSentenceResponse {
	var matched *SentencingMatrixRowResponse
	if r.MatchedRange != nil {
		matched = &SentencingMatrixRowResponse{
			Culpability:       r.MatchedRange.Culpability,
			Harm:              r.MatchedRange.Harm,
			StartingPointText: r.MatchedRange.StartingPointText,
			CategoryRangeText: r.MatchedRange.CategoryRangeText,
		}
	}

	return CalculateSentenceResponse{
		OffenceID:   r.OffenceID,
		OffenceName: r.OffenceName,

		SentenceType: string(r.SentenceType),

		PrePleaTermMonths:  r.PrePleaTermMonths,
		PostPleaTermMonths: r.PostPleaTermMonths,

		MinimumSentenceTriggered:   r.MinimumSentenceTriggered,
		MinimumFloorPrePleaMonths:  r.MinimumFloorPreMonths,
		MinimumFloorPostPleaMonths: r.MinimumFloorPostMonths,

		ReleaseFraction: r.ReleaseFraction,

		EstimatedTimeInCustodyMonths: r.EstimatedTimeInCustodyMonths,

		VictimSurchargeGBP: r.VictimSurchargeGBP,

		MatchedRange: matched,

		Warnings: r.Warnings,
		Trace:    r.Trace,
	}
}

// NewGuidelineChunkResponse maps one retrieval hit onto the wire shape.
func NewGuidelineChunkResponse(chunk domain.GuidelineChunk) GuidelineChunkResponse {
	return GuidelineChunkResponse{
		ID:          chunk.ID,
		OffenceID:   chunk.OffenceID,
		GuidelineID: chunk.GuidelineID,
		Heading:     chunk.Heading,
		Text:        chunk.Text,
		SourceURL:   chunk.SourceURL,
		Score:       chunk.Score,
	}
}

// NewGuidelineChunkResponses maps a slice of retrieval hits onto the wire shape.
func NewGuidelineChunkResponses(chunks []domain.GuidelineChunk) []GuidelineChunkResponse {
	out := make([]GuidelineChunkResponse, 0, len(chunks))
	for _, c := range chunks {
		out = append(out, NewGuidelineChunkResponse(c))
	}
	return out
}
