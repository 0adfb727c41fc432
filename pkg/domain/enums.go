package domain

// PleaStage is the procedural moment a guilty plea was indicated.
type PleaStage string

const (
	PleaFirstStage                PleaStage = "first_stage"
	PleaAfterFirstStageBeforeTrial PleaStage = "after_first_stage_before_trial"
	PleaDayOfTrial                PleaStage = "day_of_trial"
	PleaAfterTrialBegins          PleaStage = "after_trial_begins"
	PleaNotGuilty                 PleaStage = "not_guilty"
)

// SentenceType is the closed set of sentence dispositions recognised by the engine.
type SentenceType string

const (
	SentenceMandatoryLife        SentenceType = "mandatory_life_sentence"
	SentenceDiscretionaryLife    SentenceType = "discretionary_life_sentence"
	SentenceCommunityOrder       SentenceType = "community_order"
	SentenceYouthRehabilitation  SentenceType = "youth_rehabilitation_order"
	SentenceFine                 SentenceType = "fine"
	SentenceConditionalDischarge SentenceType = "conditional_discharge"
	SentenceSuspended            SentenceType = "suspended_sentence_order"
	SentenceExtended             SentenceType = "extended_sentence"
	SentenceSpecialCustodial     SentenceType = "special_custodial_sentence"
	SentenceDeterminateCustodial SentenceType = "determinate_custodial_sentence"
)

// IsCustodial reports whether the sentence type is treated as custodial for
// release-fraction purposes (decision branch 6 in the release decider).
func (s SentenceType) IsCustodial() bool {
	switch s {
	case SentenceDeterminateCustodial, SentenceExtended, SentenceSpecialCustodial,
		SentenceMandatoryLife, SentenceDiscretionaryLife:
		return true
	default:
		return false
	}
}

// MinimumCode is a statutory minimum-sentence regime tag.
type MinimumCode string

const (
	MinimumCodeNone MinimumCode = ""
	MinimumCodeA    MinimumCode = "A"
	MinimumCodeB    MinimumCode = "B"
	MinimumCodeC1   MinimumCode = "C1"
	MinimumCodeC2   MinimumCode = "C2"
	MinimumCodeC3   MinimumCode = "C3"
	MinimumCodeC4   MinimumCode = "C4"
	MinimumCodeD    MinimumCode = "D"
	MinimumCodeE    MinimumCode = "E"
)

// Known reports whether c is a recognised minimum code (including the empty/none code).
func (c MinimumCode) Known() bool {
	switch c {
	case MinimumCodeNone, MinimumCodeA, MinimumCodeB, MinimumCodeC1, MinimumCodeC2,
		MinimumCodeC3, MinimumCodeC4, MinimumCodeD, MinimumCodeE:
		return true
	default:
		return false
	}
}
