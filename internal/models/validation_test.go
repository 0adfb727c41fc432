package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCalculationRequest() CalculationRequest {
	return CalculationRequest{
		OffenceQuery:    "common assault",
		OffenceDate:     "2024-01-10",
		ConvictionDate:  "2024-02-10",
		SentenceDate:    "2024-03-10",
		AgeAtOffence:    30,
		AgeAtConviction: 30,
		AgeAtSentence:   30,
		PleaStage:       "first_stage",
		SentenceType:    "determinate_custodial_sentence",
	}
}

func TestValidateStruct_Valid(t *testing.T) {
	req := validCalculationRequest()
	assert.NoError(t, ValidateStruct(req))
}

func TestValidateStruct_MissingOffenceReference(t *testing.T) {
	req := validCalculationRequest()
	req.OffenceQuery = ""

	err := ValidateStruct(req)
	require.Error(t, err)

	items := FormatValidationErrors(err)
	assertHasLoc(t, items, "offence_query")
}

func TestValidateStruct_DateOrderViolation(t *testing.T) {
	req := validCalculationRequest()
	req.ConvictionDate = "2024-01-01"

	err := ValidateStruct(req)
	require.Error(t, err)

	items := FormatValidationErrors(err)
	assertHasLoc(t, items, "sentence_date")
}

func TestValidateStruct_AgeMonotonicityViolation(t *testing.T) {
	req := validCalculationRequest()
	req.AgeAtSentence = 20

	err := ValidateStruct(req)
	require.Error(t, err)

	items := FormatValidationErrors(err)
	assertHasLoc(t, items, "age_at_sentence")
}

func TestValidateStruct_InvalidEnum(t *testing.T) {
	req := validCalculationRequest()
	req.PleaStage = "guilty_on_a_whim"

	err := ValidateStruct(req)
	require.Error(t, err)

	items := FormatValidationErrors(err)
	require.Len(t, items, 1)
	assert.Equal(t, "literal_error", items[0].Type)
}

func TestValidateStruct_MissingRequiredField(t *testing.T) {
	req := validCalculationRequest()
	req.SentenceType = ""

	err := ValidateStruct(req)
	require.Error(t, err)

	items := FormatValidationErrors(err)
	require.Len(t, items, 1)
	assert.Equal(t, "missing", items[0].Type)
}

func TestValidateStruct_MalformedDate(t *testing.T) {
	req := validCalculationRequest()
	req.OffenceDate = "10/01/2024"

	err := ValidateStruct(req)
	require.Error(t, err)

	items := FormatValidationErrors(err)
	assertHasLoc(t, items, "offence_date")
}

func TestReplicateACEBug_DefaultsTrue(t *testing.T) {
	req := validCalculationRequest()
	assert.True(t, req.ReplicateACEBug())

	no := false
	req.ReplicateACEReleaseBug = &no
	assert.False(t, req.ReplicateACEBug())
}

func assertHasLoc(t *testing.T, items []ValidationErrorItem, field string) {
	t.Helper()
	for _, item := range items {
		for _, loc := range item.Loc {
			if loc == field {
				return
			}
		}
	}
	t.Fatalf("expected a validation error with loc containing %q, got %+v", field, items)
}
