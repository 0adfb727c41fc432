package rules

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

func TestDecideMinimumSentence_CodeA(t *testing.T) {
	offence := domain.OffenceRecord{MinimumCode: domain.MinimumCodeA}
	in := domain.CalculationInput{
		AgeAtSentence:              30,
		PleaStage:                  domain.PleaFirstStage,
		PriorDomesticBurglaryCount: 2,
	}

	d := DecideMinimumSentence(offence, in)

	assert.True(t, d.Triggered)
	if assert.NotNil(t, d.FloorPreMonths) {
		assert.Equal(t, 36.0, *d.FloorPreMonths)
	}
	if assert.NotNil(t, d.FloorPostMonths) {
		assert.InDelta(t, 28.8, *d.FloorPostMonths, 0.001)
	}
}

func TestDecideMinimumSentence_CodeB_DateThreshold(t *testing.T) {
	offence := domain.OffenceRecord{MinimumCode: domain.MinimumCodeB}
	in := domain.CalculationInput{
		AgeAtSentence:               30,
		OffenceDate:                 time.Date(1996, time.January, 1, 0, 0, 0, 0, time.UTC),
		PriorClassATraffickingCount: 3,
	}

	d := DecideMinimumSentence(offence, in)

	assert.False(t, d.Triggered)
}

func TestDecideMinimumSentence_CodeD_YouthDTO(t *testing.T) {
	offence := domain.OffenceRecord{MinimumCode: domain.MinimumCodeD}
	in := domain.CalculationInput{
		OffenceDate:                   time.Date(2020, time.January, 1, 0, 0, 0, 0, time.UTC),
		AgeAtOffence:                  17,
		AgeAtConviction:               17,
		AgeAtSentence:                 17,
		PleaStage:                     domain.PleaFirstStage,
		PriorRelevantWeaponConviction: true,
	}

	d := DecideMinimumSentence(offence, in)

	assert.True(t, d.Triggered)
	if assert.NotNil(t, d.FloorPreMonths) {
		assert.Equal(t, 4.0, *d.FloorPreMonths)
	}
	assert.Nil(t, d.FloorPostMonths)
}

func TestDecideMinimumSentence_Override(t *testing.T) {
	offence := domain.OffenceRecord{MinimumCode: domain.MinimumCodeA}
	in := domain.CalculationInput{
		AgeAtSentence:                       30,
		PriorDomesticBurglaryCount:          5,
		MinimumSentenceUnjustOrExceptional: true,
	}

	d := DecideMinimumSentence(offence, in)

	assert.False(t, d.Triggered)
	assert.Equal(t, "minimum disapplied by input override", d.Reason)
}

func TestDecideMinimumSentence_EmptyCode(t *testing.T) {
	offence := domain.OffenceRecord{MinimumCode: domain.MinimumCodeNone}
	d := DecideMinimumSentence(offence, domain.CalculationInput{})
	assert.False(t, d.Triggered)
}

func TestDecideMinimumSentence_UnsupportedCode(t *testing.T) {
	offence := domain.OffenceRecord{MinimumCode: domain.MinimumCode("Z")}
	d := DecideMinimumSentence(offence, domain.CalculationInput{})
	assert.False(t, d.Triggered)
	assert.Equal(t, "Unsupported minimum code Z", d.Reason)
}
