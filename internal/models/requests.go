package models

import "github.com/sentencing-platform/calc-service/pkg/domain"

// CalculationRequest is the body of POST /calculate_sentence, and the
// optional `calculation` sub-object of POST /chat_turn.
type CalculationRequest struct {
	OffenceID    string `json:"offence_id,omitempty"`
	OffenceQuery string `json:"offence_query,omitempty"`

	OffenceDate    string `json:"offence_date" validate:"required,date_iso8601"`
	ConvictionDate string `json:"conviction_date" validate:"required,date_iso8601"`
	SentenceDate   string `json:"sentence_date" validate:"required,date_iso8601"`

	AgeAtOffence    int `json:"age_at_offence" validate:"required,min=10,max=120"`
	AgeAtConviction int `json:"age_at_conviction" validate:"required,min=10,max=120"`
	AgeAtSentence   int `json:"age_at_sentence" validate:"required,min=10,max=120"`

	PleaStage    string `json:"plea_stage" validate:"required,oneof=first_stage after_first_stage_before_trial day_of_trial after_trial_begins not_guilty"`
	SentenceType string `json:"sentence_type" validate:"required,oneof=mandatory_life_sentence discretionary_life_sentence community_order youth_rehabilitation_order fine conditional_discharge suspended_sentence_order extended_sentence special_custodial_sentence determinate_custodial_sentence"`

	Culpability string `json:"culpability,omitempty"`
	Harm        string `json:"harm,omitempty"`

	PrePleaTermMonths *float64 `json:"pre_plea_term_months,omitempty" validate:"omitempty,min=0"`
	ExtensionMonths   float64  `json:"extension_months" validate:"min=0"`
	FineAmount        *float64 `json:"fine_amount,omitempty" validate:"omitempty,min=0"`

	DangerousnessAssessed              bool `json:"dangerousness_assessed"`
	PriorListedOffenceWithCustody      bool `json:"prior_listed_offence_with_custody"`
	PriorRelevantWeaponConviction      bool `json:"prior_relevant_weapon_conviction"`
	TerrorismFlag                      bool `json:"terrorism_flag"`
	MinimumSentenceUnjustOrExceptional bool `json:"minimum_sentence_unjust_or_exceptional"`

	// ReplicateACEReleaseBug defaults to true; a pointer so an explicit
	// `false` is distinguishable from an absent field.
	ReplicateACEReleaseBug *bool `json:"replicate_ace_release_bug,omitempty"`

	PriorDomesticBurglaryCount  int `json:"prior_domestic_burglary_count" validate:"min=0"`
	PriorClassATraffickingCount int `json:"prior_class_a_trafficking_count" validate:"min=0"`
}

// ReplicateACEBug resolves the default-true pointer field.
func (r CalculationRequest) ReplicateACEBug() bool {
	if r.ReplicateACEReleaseBug == nil {
		return true
	}
	return *r.ReplicateACEReleaseBug
}

// HasOffenceReference reports whether at least one of offence_id /
// offence_query was supplied, enforced as a cross-field rule in §4.A.
func (r CalculationRequest) HasOffenceReference() bool {
	return r.OffenceID != "" || r.OffenceQuery != ""
}

// ToDomain converts a validated CalculationRequest into the engine's input
// type. Callers MUST validate (ValidateStruct) before calling this, since
// date parsing here assumes the date_iso8601 tag already passed.
func (r CalculationRequest) ToDomain() (domain.CalculationInput, error) {
	offenceDate, err := parseISO8601Date(r.OffenceDate)
	if err != nil {
		return domain.CalculationInput{}, err
	}
	convictionDate, err := parseISO8601Date(r.ConvictionDate)
	if err != nil {
		return domain.CalculationInput{}, err
	}
	sentenceDate, err := parseISO8601Date(r.SentenceDate)
	if err != nil {
		return domain.CalculationInput{}, err
	}

	return domain.CalculationInput{
		OffenceID:    r.OffenceID,
		OffenceQuery: r.OffenceQuery,

		OffenceDate:    offenceDate,
		ConvictionDate: convictionDate,
		SentenceDate:   sentenceDate,

		AgeAtOffence:    r.AgeAtOffence,
		AgeAtConviction: r.AgeAtConviction,
		AgeAtSentence:   r.AgeAtSentence,

		PleaStage:    domain.PleaStage(r.PleaStage),
		SentenceType: domain.SentenceType(r.SentenceType),

		Culpability: r.Culpability,
		Harm:        r.Harm,

		PrePleaTermMonths: r.PrePleaTermMonths,
		ExtensionMonths:   r.ExtensionMonths,
		FineAmount:        r.FineAmount,

		DangerousnessAssessed:              r.DangerousnessAssessed,
		PriorListedOffenceWithCustody:      r.PriorListedOffenceWithCustody,
		PriorRelevantWeaponConviction:      r.PriorRelevantWeaponConviction,
		TerrorismFlag:                      r.TerrorismFlag,
		MinimumSentenceUnjustOrExceptional: r.MinimumSentenceUnjustOrExceptional,
		ReplicateACEReleaseBug:             r.ReplicateACEBug(),

		PriorDomesticBurglaryCount:  r.PriorDomesticBurglaryCount,
		PriorClassATraffickingCount: r.PriorClassATraffickingCount,
	}, nil
}

// SearchGuidelinesRequest is the body of POST /search_guidelines.
type SearchGuidelinesRequest struct {
	Query     string `json:"query" validate:"required,min=1,max=500"`
	OffenceID string `json:"offence_id,omitempty"`
	TopK      *int   `json:"top_k,omitempty" validate:"omitempty,min=1,max=20"`
}

// ChatTurnRequest is the body of POST /chat_turn.
type ChatTurnRequest struct {
	Message      string              `json:"message" validate:"required,min=1"`
	OffenceID    string              `json:"offence_id,omitempty"`
	OffenceQuery string              `json:"offence_query,omitempty"`
	Calculation  *CalculationRequest `json:"calculation,omitempty"`
	TopK         *int                `json:"top_k,omitempty" validate:"omitempty,min=1,max=20"`
}

// InheritOffenceReference copies the turn-level offence_id/offence_query
// onto a nested calculation sub-object that omits both (§4.L). Callers must
// run this before ValidateStruct: CalculationRequest's registered
// cross-field rule requires an offence reference on the struct it validates,
// and a nested calculation is allowed to rely on the outer turn for one.
func (r *ChatTurnRequest) InheritOffenceReference() {
	if r.Calculation == nil || r.Calculation.HasOffenceReference() {
		return
	}
	r.Calculation.OffenceID = r.OffenceID
	r.Calculation.OffenceQuery = r.OffenceQuery
}
