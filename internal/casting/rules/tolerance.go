package rules

import "fmt"

// Tolerance is the relative mass-balance tolerance applied at cutting and
// reconciliation.
const Tolerance = 0.05

// ToleranceError reports a failed mass-balance check with the numbers the
// operator needs: which check, how far off, and how far off was allowed.
type ToleranceError struct {
	Check string  // "supply_vs_before_cut" or "before_cut_vs_cut"
	Delta float64 // measured absolute deviation
	Limit float64 // allowed absolute deviation
}

func (e *ToleranceError) Error() string {
	return fmt.Sprintf("tolerance check %s failed: deviation %.3f exceeds allowed %.3f", e.Check, e.Delta, e.Limit)
}

// CheckCutting validates the two 5% balance rules for cutting measurements:
//
//  1. before_cut within 5% of supplied (skipped when supplied is 0)
//  2. after_cast + after_scrap within 5% of before_cut (skipped when before_cut is 0)
//
// Both checks run independently; the first failure is returned.
func CheckCutting(supplied, beforeCut, afterCast, afterScrap float64) error {
	if supplied > 0 {
		delta := abs(beforeCut - supplied)
		limit := Tolerance * supplied
		if delta > limit {
			return &ToleranceError{Check: "supply_vs_before_cut", Delta: Round3(delta), Limit: Round3(limit)}
		}
	}
	if beforeCut > 0 {
		delta := abs((afterCast + afterScrap) - beforeCut)
		limit := Tolerance * beforeCut
		if delta > limit {
			return &ToleranceError{Check: "before_cut_vs_cut", Delta: Round3(delta), Limit: Round3(limit)}
		}
	}
	return nil
}

// Losses computes the mass-balance losses for a finished flask.
func Losses(supplied, beforeCut, afterCast, afterScrap float64) (inCasting, inCutting, total float64) {
	inCasting = Round3(supplied - beforeCut)
	inCutting = Round3(beforeCut - (afterCast + afterScrap))
	total = Round3(supplied - (afterCast + afterScrap))
	return inCasting, inCutting, total
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
