// Package calc implements the calculation orchestrator (§4.J): composing
// offence resolution, matrix lookup, and the rules engine (§4.D-I) into a
// single domain.CalculateSentenceResult, with a best-effort audit write.
package calc

import (
	"context"
	"math"
	"time"

	"github.com/sentencing-platform/calc-service/pkg/audit"
	"github.com/sentencing-platform/calc-service/pkg/domain"
	"github.com/sentencing-platform/calc-service/pkg/matrix"
	"github.com/sentencing-platform/calc-service/pkg/monitoring"
	"github.com/sentencing-platform/calc-service/pkg/resolver"
	"github.com/sentencing-platform/calc-service/pkg/rules"
)

type Orchestrator struct {
	resolver *resolver.Resolver
	matrix   *matrix.Lookup
	audit    *audit.Writer
	metrics  *monitoring.MetricsCollector
}

func New(r *resolver.Resolver, m *matrix.Lookup, a *audit.Writer) *Orchestrator {
	return &Orchestrator{resolver: r, matrix: m, audit: a}
}

// WithMetrics attaches a metrics collector that records per-calculation
// latency and success/failure counts. Optional; Calculate works without one.
func (o *Orchestrator) WithMetrics(m *monitoring.MetricsCollector) *Orchestrator {
	o.metrics = m
	return o
}

// Calculate runs the full D-I pipeline for a resolved offence and emits a
// best-effort audit entry after the result is finalised. rawRequest is
// persisted verbatim as the audit request payload.
func (o *Orchestrator) Calculate(ctx context.Context, in domain.CalculationInput, rawRequest interface{}) (domain.CalculateSentenceResult, error) {
	start := time.Now()
	result, err := o.calculate(ctx, in, rawRequest)
	if o.metrics != nil {
		o.metrics.RecordOperation(err == nil, time.Since(start))
	}
	return result, err
}

func (o *Orchestrator) calculate(ctx context.Context, in domain.CalculationInput, rawRequest interface{}) (domain.CalculateSentenceResult, error) {
	resolved, err := o.resolver.Resolve(ctx, in.OffenceID, in.OffenceQuery)
	if err != nil {
		return domain.CalculateSentenceResult{}, err
	}
	offence := resolved.Offence

	matchedRange, err := o.matrix.Find(ctx, offence.ID, in.Culpability, in.Harm)
	if err != nil {
		return domain.CalculateSentenceResult{}, err
	}

	trace := append([]string{}, resolved.Trace...)

	postPlea := rules.ApplyPleaDiscount(in.PrePleaTermMonths, in.PleaStage)

	minDecision := rules.DecideMinimumSentence(offence, in)
	trace = append(trace, minDecision.Reason)

	floorResult := rules.ApplyFloor(in.PrePleaTermMonths, postPlea, minDecision)
	trace = append(trace, floorResult.Trace...)

	releaseDecision := rules.DecideReleaseFraction(offence, in, floorResult.PostPleaTermMonths)
	trace = append(trace, releaseDecision.Reason)

	custody := estimatedTimeInCustody(floorResult.PostPleaTermMonths, releaseDecision.Fraction)

	surcharge := rules.ComputeVictimSurcharge(offence, in, floorResult.PostPleaTermMonths)

	warnings := rules.SynthesizeWarnings(offence, in, floorResult.PrePleaTermMonths)

	result := domain.CalculateSentenceResult{
		OffenceID:    offence.ID,
		OffenceName:  offence.CanonicalName,
		SentenceType: in.SentenceType,

		PrePleaTermMonths:  floorResult.PrePleaTermMonths,
		PostPleaTermMonths: floorResult.PostPleaTermMonths,

		MinimumSentenceTriggered: minDecision.Triggered,
		MinimumFloorPreMonths:    floorValueIfTriggered(minDecision.Triggered, minDecision.FloorPreMonths),
		MinimumFloorPostMonths:   floorValueIfTriggered(minDecision.Triggered, minDecision.FloorPostMonths),

		ReleaseFraction: releaseDecision.Fraction,

		EstimatedTimeInCustodyMonths: custody,

		VictimSurchargeGBP: surcharge,

		MatchedRange: matchedRange,

		Warnings: warnings,
		Trace:    trace,
	}

	if o.audit != nil {
		o.audit.Submit(audit.Entry{OffenceID: offence.ID, Request: rawRequest, Result: result})
	}

	return result, nil
}

// floorValueIfTriggered enforces §3's invariant that both minimum_floor_*
// fields are nil when the decision did not trigger, regardless of what a
// decider happened to populate.
func floorValueIfTriggered(triggered bool, v *float64) *float64 {
	if !triggered {
		return nil
	}
	return v
}

func estimatedTimeInCustody(postPleaTermMonths, fraction *float64) *float64 {
	if postPleaTermMonths == nil || fraction == nil {
		return nil
	}
	v := math.Round(*postPleaTermMonths**fraction*100) / 100
	return &v
}
