package rules

import "fmt"

// EstimateMetalWeight converts a measured wax tree into the metal requirement:
// (total - gasket) * density, rounded to 3 decimals. A gasket with no wax on
// it estimates to zero; a tree lighter than its gasket is rejected here.
func EstimateMetalWeight(metalName string, gasketWeight, totalWeight float64) (treeWeight, metalWeight float64, err error) {
	if gasketWeight < 0 {
		return 0, 0, fmt.Errorf("gasket weight must not be negative, got %.3f", gasketWeight)
	}
	treeWeight = Round3(totalWeight - gasketWeight)
	if treeWeight < 0 {
		return 0, 0, fmt.Errorf("tree weight must not be negative: total %.3f - gasket %.3f = %.3f", totalWeight, gasketWeight, treeWeight)
	}
	metalWeight = Round3(treeWeight * DensityFactor(metalName))
	return treeWeight, metalWeight, nil
}
