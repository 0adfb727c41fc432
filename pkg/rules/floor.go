package rules

import (
	"fmt"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

// FloorResult carries the (possibly lifted) pre/post terms plus the trace
// lines emitted while applying a minimum-sentence floor (§4.F).
type FloorResult struct {
	PrePleaTermMonths  *float64
	PostPleaTermMonths *float64
	Trace              []string
}

// ApplyFloor lifts pre/post terms up to a triggered minimum floor, emitting
// trace lines for each lift. When decision.Triggered is false the terms pass
// through unchanged and no trace is emitted.
func ApplyFloor(pre, post *float64, decision domain.MinimumDecision) FloorResult {
	if !decision.Triggered {
		return FloorResult{PrePleaTermMonths: pre, PostPleaTermMonths: post}
	}

	var trace []string

	if decision.FloorPreMonths != nil {
		floor := *decision.FloorPreMonths
		switch {
		case pre == nil:
			pre = floatPtr(floor)
			trace = append(trace, fmt.Sprintf("Pre-plea term set to minimum floor %s months", formatMonths(floor)))
		case *pre < floor:
			trace = append(trace, fmt.Sprintf("Pre-plea term raised from %s to minimum floor %s months", formatMonths(*pre), formatMonths(floor)))
			pre = floatPtr(floor)
		}
	}

	if decision.FloorPostMonths != nil {
		floor := *decision.FloorPostMonths
		switch {
		case post == nil:
			post = floatPtr(floor)
			trace = append(trace, fmt.Sprintf("Post-plea term set to minimum floor %s months", formatMonths(floor)))
		case *post < floor:
			trace = append(trace, fmt.Sprintf("Post-plea term raised from %s to minimum floor %s months", formatMonths(*post), formatMonths(floor)))
			post = floatPtr(floor)
		}
	}

	return FloorResult{PrePleaTermMonths: pre, PostPleaTermMonths: post, Trace: trace}
}

func formatMonths(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.1f", v)
}
