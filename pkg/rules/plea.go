package rules

import (
	"math/big"

	"github.com/sentencing-platform/calc-service/pkg/domain"
)

// pleaFactors maps each plea stage to its exact discount factor (§4.D).
var pleaFactors = map[domain.PleaStage]*big.Rat{
	domain.PleaFirstStage:                 big.NewRat(2, 3),
	domain.PleaAfterFirstStageBeforeTrial: big.NewRat(3, 4),
	domain.PleaDayOfTrial:                 big.NewRat(9, 10),
	domain.PleaAfterTrialBegins:           big.NewRat(19, 20),
	domain.PleaNotGuilty:                  big.NewRat(1, 1),
}

// PleaDiscountFactor returns the exact discount factor for the given plea stage.
func PleaDiscountFactor(stage domain.PleaStage) *big.Rat {
	if f, ok := pleaFactors[stage]; ok {
		return f
	}
	return big.NewRat(1, 1)
}

// ApplyPleaDiscount computes the post-plea term from a pre-plea term, rounded
// to two decimal places. A nil pre-plea term yields a nil post-plea term.
func ApplyPleaDiscount(preMonths *float64, stage domain.PleaStage) *float64 {
	if preMonths == nil {
		return nil
	}
	pre := new(big.Rat).SetFloat64(*preMonths)
	if pre == nil {
		return nil
	}
	post := new(big.Rat).Mul(pre, PleaDiscountFactor(stage))
	return floatPtr(round2(post))
}
