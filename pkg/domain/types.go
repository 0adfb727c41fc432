// Package domain holds the strongly-typed records the sentencing engine
// operates on: offence catalog rows, matrix rows, validated calculation
// input, and the decision/response shapes produced along the way.
package domain

import (
	"strings"
	"time"
)

// OffenceRecord is an immutable, request-scoped view of a catalog offence.
type OffenceRecord struct {
	ID                   string
	CanonicalName        string
	ShortName            string
	Category             string
	Provision            string
	GuidelineURL         string
	LegislationURL       string
	MaxSentenceType      string
	MaxSentenceAmount    string
	MinimumCode          MinimumCode
	SpecifiedViolent     bool
	SpecifiedSexual      bool
	SpecifiedTerrorist   bool
	ListedOffence        bool
	Schedule18A          bool
	Schedule19ZA         bool
	CTANotification      bool
}

// HasLifeMaximum reports whether the offence's maximum sentence is life,
// per spec §4.G's case-folded substring test on MaxSentenceAmount.
func (o OffenceRecord) HasLifeMaximum() bool {
	return strings.Contains(strings.ToLower(o.MaxSentenceAmount), "life")
}

// SentencingMatrixRow is one culpability/harm cell of an offence's guideline matrix.
type SentencingMatrixRow struct {
	MatrixID           string
	Culpability        string
	Harm               string
	StartingPointText  string
	CategoryRangeText  string
}

// CalculationInput is the fully validated request body for /calculate_sentence.
type CalculationInput struct {
	OffenceID    string
	OffenceQuery string

	OffenceDate    time.Time
	ConvictionDate time.Time
	SentenceDate   time.Time

	AgeAtOffence    int
	AgeAtConviction int
	AgeAtSentence   int

	PleaStage    PleaStage
	SentenceType SentenceType

	Culpability string
	Harm        string

	PrePleaTermMonths *float64
	ExtensionMonths   float64
	FineAmount        *float64

	DangerousnessAssessed           bool
	PriorListedOffenceWithCustody   bool
	PriorRelevantWeaponConviction   bool
	TerrorismFlag                   bool
	MinimumSentenceUnjustOrExceptional bool
	ReplicateACEReleaseBug          bool

	PriorDomesticBurglaryCount   int
	PriorClassATraffickingCount  int
}

// MinimumDecision is the output of the minimum-sentence decider (§4.E).
type MinimumDecision struct {
	Triggered      bool
	FloorPreMonths *float64
	FloorPostMonths *float64
	Reason         string
}

// ReleaseDecision is the output of the release-fraction decider (§4.G).
type ReleaseDecision struct {
	Fraction *float64
	Reason   string
}

// GuidelineChunk is a single retrieval hit from the guideline chunk store.
type GuidelineChunk struct {
	ID          string
	OffenceID   string
	GuidelineID string
	Heading     string
	Text        string
	SourceURL   string
	Score       float64
}

// CalculateSentenceResult is the fully composed outcome of the calculation
// orchestrator (§4.J), independent of its HTTP JSON shape.
type CalculateSentenceResult struct {
	OffenceID    string
	OffenceName  string
	SentenceType SentenceType

	PrePleaTermMonths  *float64
	PostPleaTermMonths *float64

	MinimumSentenceTriggered  bool
	MinimumFloorPreMonths     *float64
	MinimumFloorPostMonths    *float64

	ReleaseFraction *float64

	EstimatedTimeInCustodyMonths *float64

	VictimSurchargeGBP float64

	MatchedRange *SentencingMatrixRow

	Warnings []string
	Trace    []string
}
