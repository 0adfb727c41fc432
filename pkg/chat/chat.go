// Package chat implements the chat-turn orchestrator (§4.L): an optional
// calculation sub-request composed with always-on guideline retrieval.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/sentencing-platform/calc-service/pkg/calc"
	"github.com/sentencing-platform/calc-service/pkg/domain"
	"github.com/sentencing-platform/calc-service/pkg/retrieval"
)

const noOffenceContextFollowUp = "Which offence is this for? Provide offence_id or offence name."
const noOffenceContextReply = "I need one more detail before I can calculate a sentence."

type Request struct {
	Message      string
	OffenceID    string
	OffenceQuery string
	Calculation  *domain.CalculationInput
	TopK         *int
}

type Result struct {
	Reply       string
	Calculation *domain.CalculateSentenceResult
	Citations   []domain.GuidelineChunk
	FollowUp    string
}

type Orchestrator struct {
	calc      *calc.Orchestrator
	retrieval *retrieval.Orchestrator
}

func New(c *calc.Orchestrator, r *retrieval.Orchestrator) *Orchestrator {
	return &Orchestrator{calc: c, retrieval: r}
}

// Handle runs §4.L. rawCalcRequest is forwarded verbatim to the calculation
// orchestrator's audit write when a calculation sub-request is present.
func (o *Orchestrator) Handle(ctx context.Context, req Request, rawCalcRequest interface{}) (Result, error) {
	hasCalc := req.Calculation != nil
	hasOffenceContext := req.OffenceID != "" || req.OffenceQuery != ""

	if !hasCalc && !hasOffenceContext {
		return Result{Reply: noOffenceContextReply, FollowUp: noOffenceContextFollowUp}, nil
	}

	var calcResult *domain.CalculateSentenceResult
	if hasCalc {
		in := *req.Calculation
		if in.OffenceID == "" && in.OffenceQuery == "" {
			in.OffenceID = req.OffenceID
			in.OffenceQuery = req.OffenceQuery
		}
		result, err := o.calc.Calculate(ctx, in, rawCalcRequest)
		if err != nil {
			return Result{}, err
		}
		calcResult = &result
	}

	offenceIDForRetrieval := req.OffenceID
	if offenceIDForRetrieval == "" && calcResult != nil {
		offenceIDForRetrieval = calcResult.OffenceID
	}

	hits, err := o.retrieval.Search(ctx, req.Message, req.TopK, offenceIDForRetrieval)
	if err != nil {
		return Result{}, err
	}
	citations := make([]domain.GuidelineChunk, 0, len(hits))
	for _, h := range hits {
		citations = append(citations, h.Chunk)
	}

	return Result{
		Reply:       composeReply(calcResult, citations),
		Calculation: calcResult,
		Citations:   citations,
	}, nil
}

func composeReply(calcResult *domain.CalculateSentenceResult, citations []domain.GuidelineChunk) string {
	var lines []string

	if calcResult != nil {
		lines = append(lines, summariseCalculation(*calcResult))
		if len(calcResult.Warnings) > 0 {
			lines = append(lines, strings.Join(calcResult.Warnings, " "))
		}
	}

	if len(citations) > 0 {
		top := citations[0]
		lines = append(lines, fmt.Sprintf("See: %s.", top.Heading))
	}

	if len(lines) == 0 {
		return "I couldn't find anything relevant to that."
	}
	return strings.Join(lines, " ")
}

func summariseCalculation(r domain.CalculateSentenceResult) string {
	if r.PostPleaTermMonths == nil {
		return fmt.Sprintf("For %s (%s), there is no determinate custodial term to report.", r.OffenceName, r.SentenceType)
	}
	if r.ReleaseFraction == nil {
		return fmt.Sprintf("For %s, the post-plea term is %s months.", r.OffenceName, formatMonths(*r.PostPleaTermMonths))
	}
	return fmt.Sprintf("For %s, the post-plea term is %s months with a release fraction of %s.", r.OffenceName, formatMonths(*r.PostPleaTermMonths), formatFraction(*r.ReleaseFraction))
}

func formatMonths(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}

func formatFraction(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}
