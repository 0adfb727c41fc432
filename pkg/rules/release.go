package rules

import (
	"strings"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

var twoThirds = floatPtr(2.0 / 3.0)
var oneHalf = floatPtr(0.5)
var fortyPercent = floatPtr(0.4)

var gbhManslaughterPhrases = []string{
	"manslaughter",
	"soliciting to commit murder",
	"grievous bodily harm with intent",
	"wounding with intent",
	"gbh with intent",
}

var fortyPercentExclusionPhrases = []string{
	"serious crime act 2015 s.76",
	"serious crime act 2015 s.75a",
	"sentencing act 2020 s.363",
	"family law act 1996 s.42a",
	"domestic abuse act 2021 s.39",
	"national security act",
	"official secrets act",
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

func containsAnyFold(haystack string, needles []string) bool {
	for _, n := range needles {
		if containsFold(haystack, n) {
			return true
		}
	}
	return false
}

// fortyPercentRegime implements the forty_percent_regime helper from §4.G:
// true unless one of the listed exclusions holds.
func fortyPercentRegime(offence domain.OffenceRecord, term float64) bool {
	if term > 48 && offence.SpecifiedViolent {
		return false
	}
	if containsFold(offence.Category, "sexual offence") {
		return false
	}
	if containsFold(offence.Provision, "protection from harassment") && containsFold(offence.Provision, "stalking") {
		return false
	}
	if containsAnyFold(offence.Provision, fortyPercentExclusionPhrases) {
		return false
	}
	return true
}

// DecideReleaseFraction implements the 11-step ordered release-fraction
// decider (§4.G), including the ACE release-bug replication toggle.
func DecideReleaseFraction(offence domain.OffenceRecord, in domain.CalculationInput, postPleaTermMonths *float64) domain.ReleaseDecision {
	switch in.SentenceType {
	case domain.SentenceMandatoryLife, domain.SentenceDiscretionaryLife:
		return domain.ReleaseDecision{Fraction: nil, Reason: "Life sentence: release not represented as determinate fraction"}
	case domain.SentenceCommunityOrder, domain.SentenceYouthRehabilitation, domain.SentenceFine, domain.SentenceConditionalDischarge:
		return domain.ReleaseDecision{Fraction: nil, Reason: "Non-custodial"}
	case domain.SentenceSuspended:
		return domain.ReleaseDecision{Fraction: nil, Reason: "Suspended: no immediate custody"}
	}

	if postPleaTermMonths == nil {
		return domain.ReleaseDecision{Fraction: nil, Reason: "No custodial term"}
	}
	term := *postPleaTermMonths

	if in.SentenceType == domain.SentenceExtended || in.SentenceType == domain.SentenceSpecialCustodial {
		return domain.ReleaseDecision{Fraction: twoThirds, Reason: "Extended/special custodial at two-thirds"}
	}

	if !in.SentenceType.IsCustodial() {
		return domain.ReleaseDecision{Fraction: nil, Reason: "Not treated as custodial"}
	}

	lifeMax := offence.HasLifeMaximum()

	if term >= 84 && lifeMax && (offence.SpecifiedSexual || offence.SpecifiedViolent) {
		return domain.ReleaseDecision{Fraction: twoThirds, Reason: "Life-maximum specified sexual/violent offence, term 84 months or more"}
	}

	if in.TerrorismFlag || offence.Schedule19ZA {
		return domain.ReleaseDecision{Fraction: twoThirds, Reason: "Schedule 19ZA or terrorism-flagged offence"}
	}

	if term >= 48 && lifeMax && offence.SpecifiedSexual {
		return domain.ReleaseDecision{Fraction: twoThirds, Reason: "Life-maximum specified sexual offence, term 48 months or more"}
	}

	if term >= 48 && (containsAnyFold(offence.Provision, gbhManslaughterPhrases) || containsAnyFold(offence.CanonicalName, gbhManslaughterPhrases)) {
		return domain.ReleaseDecision{Fraction: twoThirds, Reason: "Manslaughter or grievous-bodily-harm-with-intent family offence, term 48 months or more"}
	}

	forty := fortyPercentRegime(offence, term)
	if in.ReplicateACEReleaseBug {
		if forty {
			return domain.ReleaseDecision{Fraction: oneHalf, Reason: "Forty-percent regime offence, release fraction replicated per ACE upstream bug (swapped to one-half)"}
		}
		return domain.ReleaseDecision{Fraction: fortyPercent, Reason: "Non-forty-percent regime offence, release fraction replicated per ACE upstream bug (swapped to two-fifths)"}
	}
	if forty {
		return domain.ReleaseDecision{Fraction: fortyPercent, Reason: "Forty-percent regime offence"}
	}
	return domain.ReleaseDecision{Fraction: oneHalf, Reason: "Non-forty-percent regime offence, default one-half release point"}
}
