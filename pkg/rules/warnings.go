package rules

import "github.com/sentencing-platform/calc-service/pkg/domain"

// SynthesizeWarnings emits the warning strings from §4.I whose conjunctions
// hold, evaluated against the final (floor-lifted) pre-plea term.
func SynthesizeWarnings(offence domain.OffenceRecord, in domain.CalculationInput, finalPrePleaTermMonths *float64) []string {
	var warnings []string
	adult := in.AgeAtSentence >= 18

	if offence.ListedOffence && adult && in.PriorListedOffenceWithCustody && finalPrePleaTermMonths != nil && *finalPrePleaTermMonths >= 120 {
		warnings = append(warnings, "Mandatory life sentence route may be engaged for repeat listed offence; review SC283/SC273 conditions.")
	}

	specified := offence.SpecifiedViolent || offence.SpecifiedSexual || offence.SpecifiedTerrorist
	if specified && in.DangerousnessAssessed && offence.HasLifeMaximum() {
		warnings = append(warnings, "Dangerousness + specified offence + life max may trigger mandatory life provisions; review SC285/SC274/SC258.")
	}

	if in.SentenceType == domain.SentenceSpecialCustodial && !offence.Schedule18A {
		warnings = append(warnings, "Special custodial sentence selected but offence is not marked Schedule 18A in offence metadata.")
	}

	return warnings
}
