package rules

import (
	"fmt"
	"math/big"
	"time"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

// guiltyDiscount is the fixed discount applied to a pre-plea floor when the
// defendant pleaded guilty, per §4.E. It is hard-coded independent of the
// plea-stage table in plea.go.
var guiltyDiscount = big.NewRat(4, 5) // 0.8

func dateOnOrAfter(d time.Time, year int, month time.Month, day int) bool {
	threshold := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	return !d.Before(threshold)
}

func discountedFloor(floorMonths float64, guilty bool) *float64 {
	if !guilty {
		return floatPtr(floorMonths)
	}
	r := new(big.Rat).Mul(big.NewRat(int64(floorMonths*10), 10), guiltyDiscount)
	return floatPtr(round2(r))
}

// DecideMinimumSentence implements the minimum-sentence decider (§4.E) for
// codes A, B, C1-C4, D and E.
func DecideMinimumSentence(offence domain.OffenceRecord, in domain.CalculationInput) domain.MinimumDecision {
	if in.MinimumSentenceUnjustOrExceptional {
		return domain.MinimumDecision{Triggered: false, Reason: "minimum disapplied by input override"}
	}

	code := offence.MinimumCode
	if code == domain.MinimumCodeNone {
		return domain.MinimumDecision{Triggered: false, Reason: "No minimum sentence code applies to this offence."}
	}

	adult := in.AgeAtSentence >= 18
	youth1617 := in.AgeAtSentence >= 16 && in.AgeAtSentence <= 17
	guilty := in.PleaStage != domain.PleaNotGuilty

	switch code {
	case domain.MinimumCodeA:
		return decideCodeA(in, adult, guilty)
	case domain.MinimumCodeB:
		return decideCodeB(in, adult, guilty)
	case domain.MinimumCodeC1:
		return decideRepeatWeaponCode("C1", in.OffenceDate, 2004, time.January, 22, adult, youth1617)
	case domain.MinimumCodeC2:
		return decideRepeatWeaponCode("C2", in.OffenceDate, 2007, time.April, 6, adult, youth1617)
	case domain.MinimumCodeC3:
		return decideRepeatWeaponCode("C3", in.OffenceDate, 2014, time.July, 14, adult, youth1617)
	case domain.MinimumCodeC4:
		return decideRepeatWeaponCode("C4", time.Time{}, 0, 0, 0, adult, youth1617)
	case domain.MinimumCodeD:
		return decideCodeD(in, guilty)
	case domain.MinimumCodeE:
		return decideCodeE(in, adult, youth1617, guilty)
	default:
		return domain.MinimumDecision{Triggered: false, Reason: fmt.Sprintf("Unsupported minimum code %s", code)}
	}
}

func decideCodeA(in domain.CalculationInput, adult, guilty bool) domain.MinimumDecision {
	if adult && in.PriorDomesticBurglaryCount >= 2 {
		return domain.MinimumDecision{
			Triggered:       true,
			FloorPreMonths:  floatPtr(36),
			FloorPostMonths: discountedFloor(36, guilty),
			Reason:          "Minimum sentence code A triggered: third domestic burglary, two or more prior qualifying convictions.",
		}
	}
	return domain.MinimumDecision{
		Triggered: false,
		Reason:    "Minimum sentence code A not triggered: offender is not an adult with two or more prior domestic burglary convictions.",
	}
}

func decideCodeB(in domain.CalculationInput, adult, guilty bool) domain.MinimumDecision {
	if adult && dateOnOrAfter(in.OffenceDate, 1997, time.October, 1) && in.PriorClassATraffickingCount >= 2 {
		return domain.MinimumDecision{
			Triggered:       true,
			FloorPreMonths:  floatPtr(84),
			FloorPostMonths: discountedFloor(84, guilty),
			Reason:          "Minimum sentence code B triggered: third class A drug trafficking offence committed on or after 1997-10-01.",
		}
	}
	return domain.MinimumDecision{
		Triggered: false,
		Reason:    "Minimum sentence code B not triggered: date threshold, adult status, or prior trafficking count not met.",
	}
}

// decideRepeatWeaponCode handles C1-C4, which share the same adult/youth
// floor structure and differ only in the offence-date threshold that gates
// them. A zero year means "no date threshold" (C4).
func decideRepeatWeaponCode(code string, offenceDate time.Time, year int, month time.Month, day int, adult, youth1617 bool) domain.MinimumDecision {
	if year != 0 && !dateOnOrAfter(offenceDate, year, month, day) {
		return domain.MinimumDecision{
			Triggered: false,
			Reason:    fmt.Sprintf("Minimum sentence code %s not triggered: offence date precedes the applicable commencement date.", code),
		}
	}

	var floor float64
	switch {
	case adult:
		floor = 60
	case youth1617:
		floor = 36
	default:
		return domain.MinimumDecision{
			Triggered: false,
			Reason:    fmt.Sprintf("Minimum sentence code %s not triggered: offender is neither adult nor aged 16-17 at sentence.", code),
		}
	}

	return domain.MinimumDecision{
		Triggered:       true,
		FloorPreMonths:  floatPtr(floor),
		FloorPostMonths: floatPtr(floor),
		Reason:          fmt.Sprintf("Minimum sentence code %s triggered: repeat bladed article or offensive weapon possession.", code),
	}
}

func decideCodeD(in domain.CalculationInput, guilty bool) domain.MinimumDecision {
	if !(dateOnOrAfter(in.OffenceDate, 2015, time.July, 17) && in.AgeAtOffence >= 16 && in.PriorRelevantWeaponConviction) {
		return domain.MinimumDecision{
			Triggered: false,
			Reason:    "Minimum sentence code D not triggered: date threshold, age at offence, or prior relevant weapon conviction not met.",
		}
	}

	switch {
	case in.AgeAtConviction >= 18:
		return domain.MinimumDecision{
			Triggered:       true,
			FloorPreMonths:  floatPtr(6),
			FloorPostMonths: discountedFloor(6, guilty),
			Reason:          "Minimum sentence code D triggered: threatening with a bladed article or offensive weapon, adult at conviction.",
		}
	case in.AgeAtConviction >= 16 && in.AgeAtConviction <= 17:
		return domain.MinimumDecision{
			Triggered:       true,
			FloorPreMonths:  floatPtr(4),
			FloorPostMonths: nil,
			Reason:          "Minimum sentence code D triggered: threatening with a bladed article or offensive weapon, youth detention and training order route.",
		}
	default:
		return domain.MinimumDecision{
			Triggered: false,
			Reason:    "Minimum sentence code D not triggered: offender's age at conviction falls outside the qualifying ranges.",
		}
	}
}

func decideCodeE(in domain.CalculationInput, adult, youth1617, guilty bool) domain.MinimumDecision {
	switch {
	case adult:
		return domain.MinimumDecision{
			Triggered:       true,
			FloorPreMonths:  floatPtr(6),
			FloorPostMonths: discountedFloor(6, guilty),
			Reason:          "Minimum sentence code E triggered: repeat possession of a bladed article or offensive weapon, adult offender.",
		}
	case youth1617:
		return domain.MinimumDecision{
			Triggered:       true,
			FloorPreMonths:  floatPtr(4),
			FloorPostMonths: nil,
			Reason:          "Minimum sentence code E triggered: repeat possession of a bladed article or offensive weapon, youth detention and training order route.",
		}
	default:
		return domain.MinimumDecision{
			Triggered: false,
			Reason:    "Minimum sentence code E not triggered: offender is neither adult nor aged 16-17 at sentence.",
		}
	}
}
