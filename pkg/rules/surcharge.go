package rules

import (
	"math"
	"time"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

// surchargeBand is one of the dated victim surcharge tables (§4.H). The
// five bands below cover offences on or after 2012-10-01; the sixth,
// earlier period has no entry and selectBand reports it as no band (0).
type surchargeBand struct {
	start   time.Time
	adult   [9]float64
	youth   [3]float64
	finePct float64
}

var surchargeBands = []surchargeBand{
	{
		start:   time.Date(2022, time.June, 16, 0, 0, 0, 0, time.UTC),
		adult:   [9]float64{26, 0, 2000, 114, 154, 187, 154, 187, 228},
		youth:   [3]float64{20, 26, 41},
		finePct: 0.40,
	},
	{
		start:   time.Date(2020, time.April, 14, 0, 0, 0, 0, time.UTC),
		adult:   [9]float64{22, 34, 190, 95, 128, 156, 128, 156, 190},
		youth:   [3]float64{17, 22, 34},
		finePct: 0.10,
	},
	{
		start:   time.Date(2019, time.June, 28, 0, 0, 0, 0, time.UTC),
		adult:   [9]float64{21, 32, 181, 90, 122, 149, 122, 149, 181},
		youth:   [3]float64{16, 21, 32},
		finePct: 0.10,
	},
	{
		start:   time.Date(2016, time.April, 8, 0, 0, 0, 0, time.UTC),
		adult:   [9]float64{20, 30, 170, 85, 115, 140, 115, 140, 170},
		youth:   [3]float64{15, 20, 30},
		finePct: 0.10,
	},
	{
		start:   time.Date(2012, time.October, 1, 0, 0, 0, 0, time.UTC),
		adult:   [9]float64{15, 20, 120, 60, 80, 100, 80, 100, 120},
		youth:   [3]float64{10, 15, 20},
		finePct: 0.10,
	},
}

// Adult table indices, per §4.H.
const (
	adultConditionalDischarge = 0
	adultFineFloor            = 1
	adultFineCap              = 2
	adultCommunityOrYRO       = 3
	adultSuspendedShort       = 4
	adultSuspendedLong        = 5
	adultCustodyShort         = 6
	adultCustodyMedium        = 7
	adultCustodyLong          = 8
)

const (
	youthConditionalDischarge = 0
	youthFineCommunityYRO     = 1
	youthCustodyOrSuspended   = 2
)

// ComputeVictimSurcharge implements the six-band victim surcharge table (§4.H).
func ComputeVictimSurcharge(offence domain.OffenceRecord, in domain.CalculationInput, postPleaTermMonths *float64) float64 {
	band, ok := selectBand(in.OffenceDate)
	if !ok {
		return 0
	}

	adult := in.AgeAtSentence >= 18

	if adult {
		return adultSurcharge(band, in, postPleaTermMonths)
	}
	return youthSurcharge(band, in, postPleaTermMonths)
}

func selectBand(offenceDate time.Time) (surchargeBand, bool) {
	for _, b := range surchargeBands {
		if !offenceDate.Before(b.start) {
			return b, true
		}
	}
	return surchargeBand{}, false
}

func adultSurcharge(band surchargeBand, in domain.CalculationInput, postPleaTermMonths *float64) float64 {
	switch in.SentenceType {
	case domain.SentenceConditionalDischarge:
		return band.adult[adultConditionalDischarge]
	case domain.SentenceFine:
		return fineSurcharge(band, in.FineAmount)
	case domain.SentenceCommunityOrder, domain.SentenceYouthRehabilitation:
		return band.adult[adultCommunityOrYRO]
	case domain.SentenceSuspended:
		if termOrZero(postPleaTermMonths) <= 6 {
			return band.adult[adultSuspendedShort]
		}
		return band.adult[adultSuspendedLong]
	default:
		term := termOrZero(postPleaTermMonths)
		switch {
		case term <= 6:
			return band.adult[adultCustodyShort]
		case term <= 24:
			return band.adult[adultCustodyMedium]
		default:
			return band.adult[adultCustodyLong]
		}
	}
}

func termOrZero(term *float64) float64 {
	if term == nil {
		return 0
	}
	return *term
}

func fineSurcharge(band surchargeBand, fineAmount *float64) float64 {
	if fineAmount == nil {
		return 0
	}
	if band.finePct == 0.40 {
		capped := math.Round(*fineAmount * band.finePct)
		return math.Min(band.adult[adultFineCap], capped)
	}
	raw := math.Round(*fineAmount * band.finePct)
	return clamp(raw, band.adult[adultFineFloor], band.adult[adultFineCap])
}

func clamp(v, floor, cap float64) float64 {
	if v < floor {
		return floor
	}
	if v > cap {
		return cap
	}
	return v
}

func youthSurcharge(band surchargeBand, in domain.CalculationInput, postPleaTermMonths *float64) float64 {
	switch in.SentenceType {
	case domain.SentenceConditionalDischarge:
		return band.youth[youthConditionalDischarge]
	case domain.SentenceSuspended:
		return band.youth[youthCustodyOrSuspended]
	default:
		if in.SentenceType.IsCustodial() && postPleaTermMonths != nil {
			return band.youth[youthCustodyOrSuspended]
		}
		return band.youth[youthFineCommunityYRO]
	}
}
