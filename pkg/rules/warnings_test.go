package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

func TestSynthesizeWarnings_SpecialCustodialWithoutSchedule18A(t *testing.T) {
	offence := domain.OffenceRecord{Schedule18A: false}
	in := domain.CalculationInput{SentenceType: domain.SentenceSpecialCustodial}

	warnings := SynthesizeWarnings(offence, in, floatPtr(60))

	assert.Contains(t, warnings, "Special custodial sentence selected but offence is not marked Schedule 18A in offence metadata.")
}

func TestSynthesizeWarnings_NoneWhenConditionsNotMet(t *testing.T) {
	offence := domain.OffenceRecord{Schedule18A: true}
	in := domain.CalculationInput{SentenceType: domain.SentenceDeterminateCustodial, AgeAtSentence: 30}

	warnings := SynthesizeWarnings(offence, in, floatPtr(12))

	assert.Empty(t, warnings)
}

func TestSynthesizeWarnings_DangerousnessLifeMax(t *testing.T) {
	offence := domain.OffenceRecord{SpecifiedViolent: true, MaxSentenceAmount: "Life imprisonment"}
	in := domain.CalculationInput{DangerousnessAssessed: true}

	warnings := SynthesizeWarnings(offence, in, floatPtr(12))

	assert.Contains(t, warnings, "Dangerousness + specified offence + life max may trigger mandatory life provisions; review SC285/SC274/SC258.")
}
