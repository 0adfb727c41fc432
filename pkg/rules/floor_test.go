package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

func TestApplyFloor(t *testing.T) {
	pre := floatPtr(24)
	post := floatPtr(16)
	decision := domain.MinimumDecision{
		Triggered:       true,
		FloorPreMonths:  floatPtr(36),
		FloorPostMonths: floatPtr(28.8),
	}

	result := ApplyFloor(pre, post, decision)

	assert.Equal(t, 36.0, *result.PrePleaTermMonths)
	assert.Equal(t, 28.8, *result.PostPleaTermMonths)
	assert.Len(t, result.Trace, 2)
}

func TestApplyFloor_NotTriggeredPassesThrough(t *testing.T) {
	pre := floatPtr(24)
	result := ApplyFloor(pre, nil, domain.MinimumDecision{Triggered: false})

	assert.Equal(t, pre, result.PrePleaTermMonths)
	assert.Nil(t, result.PostPleaTermMonths)
	assert.Empty(t, result.Trace)
}

func TestApplyFloor_NilPostFloorLeavesPostAlone(t *testing.T) {
	pre := floatPtr(2)
	post := floatPtr(1.33)
	decision := domain.MinimumDecision{
		Triggered:      true,
		FloorPreMonths: floatPtr(4),
	}

	result := ApplyFloor(pre, post, decision)

	assert.Equal(t, 4.0, *result.PrePleaTermMonths)
	assert.Equal(t, 1.33, *result.PostPleaTermMonths)
}
