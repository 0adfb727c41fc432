package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

func TestDecideReleaseFraction_LifeSentence(t *testing.T) {
	d := DecideReleaseFraction(domain.OffenceRecord{}, domain.CalculationInput{SentenceType: domain.SentenceMandatoryLife}, floatPtr(240))
	assert.Nil(t, d.Fraction)
}

func TestDecideReleaseFraction_NonCustodial(t *testing.T) {
	d := DecideReleaseFraction(domain.OffenceRecord{}, domain.CalculationInput{SentenceType: domain.SentenceFine}, nil)
	assert.Nil(t, d.Fraction)
	assert.Equal(t, "Non-custodial", d.Reason)
}

func TestDecideReleaseFraction_ACEBugSwap(t *testing.T) {
	offence := domain.OffenceRecord{CanonicalName: "common assault"}

	withBug := DecideReleaseFraction(offence, domain.CalculationInput{
		SentenceType:           domain.SentenceDeterminateCustodial,
		ReplicateACEReleaseBug: true,
	}, floatPtr(8))
	if assert.NotNil(t, withBug.Fraction) {
		assert.Equal(t, 0.5, *withBug.Fraction)
	}

	withoutBug := DecideReleaseFraction(offence, domain.CalculationInput{
		SentenceType:           domain.SentenceDeterminateCustodial,
		ReplicateACEReleaseBug: false,
	}, floatPtr(8))
	if assert.NotNil(t, withoutBug.Fraction) {
		assert.Equal(t, 0.4, *withoutBug.Fraction)
	}
}

func TestDecideReleaseFraction_ManslaughterTwoThirds(t *testing.T) {
	offence := domain.OffenceRecord{Provision: "Common law manslaughter"}
	d := DecideReleaseFraction(offence, domain.CalculationInput{
		SentenceType: domain.SentenceDeterminateCustodial,
		PleaStage:    domain.PleaNotGuilty,
	}, floatPtr(60))

	if assert.NotNil(t, d.Fraction) {
		assert.InDelta(t, 2.0/3.0, *d.Fraction, 0.0001)
	}
}

func TestDecideReleaseFraction_ExtendedSentenceTwoThirds(t *testing.T) {
	d := DecideReleaseFraction(domain.OffenceRecord{}, domain.CalculationInput{SentenceType: domain.SentenceExtended}, floatPtr(50))
	if assert.NotNil(t, d.Fraction) {
		assert.InDelta(t, 2.0/3.0, *d.Fraction, 0.0001)
	}
}
