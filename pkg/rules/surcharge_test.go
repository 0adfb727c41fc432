package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

func TestComputeVictimSurcharge_BeforeAllBands(t *testing.T) {
	in := domain.CalculationInput{
		OffenceDate:   time.Date(2010, time.January, 1, 0, 0, 0, 0, time.UTC),
		AgeAtSentence: 30,
		SentenceType:  domain.SentenceDeterminateCustodial,
	}

	got := ComputeVictimSurcharge(domain.OffenceRecord{}, in, floatPtr(12))
	assert.Equal(t, 0.0, got)
}

func TestComputeVictimSurcharge_FineFortyPercentBand(t *testing.T) {
	fine := 500.0
	in := domain.CalculationInput{
		OffenceDate:   time.Date(2022, time.August, 1, 0, 0, 0, 0, time.UTC),
		AgeAtSentence: 30,
		SentenceType:  domain.SentenceFine,
		FineAmount:    &fine,
	}

	got := ComputeVictimSurcharge(domain.OffenceRecord{}, in, nil)
	assert.Equal(t, 200.0, got)
}

func TestComputeVictimSurcharge_CustodyBand(t *testing.T) {
	in := domain.CalculationInput{
		OffenceDate:   time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC),
		AgeAtSentence: 30,
		SentenceType:  domain.SentenceDeterminateCustodial,
	}

	got := ComputeVictimSurcharge(domain.OffenceRecord{}, in, floatPtr(8))
	assert.Equal(t, 187.0, got)
}

func TestComputeVictimSurcharge_FineNilAmount(t *testing.T) {
	in := domain.CalculationInput{
		OffenceDate:   time.Date(2022, time.August, 1, 0, 0, 0, 0, time.UTC),
		AgeAtSentence: 30,
		SentenceType:  domain.SentenceFine,
	}

	got := ComputeVictimSurcharge(domain.OffenceRecord{}, in, nil)
	assert.Equal(t, 0.0, got)
}
