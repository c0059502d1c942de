package rules

import (
	"math"
	"testing"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		want MetalClass
	}{
		{"10K", Class10K},
		{"10k yellow", Class10K},
		{"14W", Class14W},
		{"14w white", Class14W},
		{"14Y", Class14Y},
		{"14R", Class14R},
		{"SILVER 925", ClassSilver},
		{"sterling silver", ClassSilver},
		{"18W", Class18W},
		{"18Y", Class18Y},
		{"18R", Class18R},
		{"PLATINUM 950", ClassPlatinum},
		{"BRONZE", ClassDefault},
		{"", ClassDefault},
	}
	for _, c := range cases {
		if got := Classify(c.name); got != c.want {
			t.Errorf("Classify(%q) = %s, want %s", c.name, got, c.want)
		}
	}
}

// "10" is probed before the 14-karat classes, so a name carrying both tokens
// classifies as 10K.
func TestClassifyPriorityOrder(t *testing.T) {
	if got := Classify("14W over 10K base"); got != Class10K {
		t.Errorf("Classify = %s, want %s", got, Class10K)
	}
}

func TestRuleTable(t *testing.T) {
	cases := []struct {
		metal    string
		density  float64
		castTemp float64
		ovenTemp float64
		finePct  float64
		pureOnly bool
	}{
		{"10K", 11, 1100, 1100, 0.417, false},
		{"14W", 13.25, 1050, 1150, 0.587, false},
		{"14Y", 13.25, 1030, 1050, 0.587, false},
		{"14R", 13.25, 1100, 1050, 0.587, false},
		{"SILVER 925", 11, 980, 980, 0, true},
		{"18W", 16.5, 1050, 1050, 0.752, false},
		{"18Y", 16.5, 1060, 1050, 0.752, false},
		{"18R", 16.5, 1100, 1020, 0.752, false},
		{"PLATINUM 950", 21, 1000, 1000, 0, true},
		{"UNKNOWN", 1.0, 1000, 1000, 0, false},
	}
	for _, c := range cases {
		r := RuleFor(c.metal)
		if r.DensityFactor != c.density {
			t.Errorf("%s density = %v, want %v", c.metal, r.DensityFactor, c.density)
		}
		cast, oven := Temps(c.metal)
		if cast != c.castTemp || oven != c.ovenTemp {
			t.Errorf("%s temps = %v/%v, want %v/%v", c.metal, cast, oven, c.castTemp, c.ovenTemp)
		}
		if r.FinePct != c.finePct {
			t.Errorf("%s fine pct = %v, want %v", c.metal, r.FinePct, c.finePct)
		}
		if r.PureOnly != c.pureOnly {
			t.Errorf("%s pure only = %v, want %v", c.metal, r.PureOnly, c.pureOnly)
		}
	}
}

func TestRound3(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{1.23456, 1.235},
		{1.2344, 1.234},
		{0.0005, 0.001},
		{-1.23456, -1.235},
		{10, 10},
	}
	for _, c := range cases {
		if got := Round3(c.in); got != c.want {
			t.Errorf("Round3(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestEstimateMetalWeight(t *testing.T) {
	treeWeight, metalWeight, err := EstimateMetalWeight("14W", 100, 150)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if treeWeight != 50 {
		t.Errorf("tree weight = %v, want 50", treeWeight)
	}
	if metalWeight != 662.5 {
		t.Errorf("metal weight = %v, want 662.5", metalWeight)
	}
}

func TestEstimateMetalWeightZeroTree(t *testing.T) {
	// A bare gasket needs no metal, whatever the alloy.
	for _, name := range []string{"14W", "PLATINUM 950", "SILVER 925", "BRONZE"} {
		treeWeight, metalWeight, err := EstimateMetalWeight(name, 150, 150)
		if err != nil {
			t.Errorf("%s: unexpected error: %v", name, err)
			continue
		}
		if treeWeight != 0 || metalWeight != 0 {
			t.Errorf("%s: got tree %v metal %v, want 0/0", name, treeWeight, metalWeight)
		}
	}
}

func TestEstimateMetalWeightRejectsBadInput(t *testing.T) {
	if _, _, err := EstimateMetalWeight("14W", -1, 150); err == nil {
		t.Error("expected error for negative gasket")
	}
	if _, _, err := EstimateMetalWeight("14W", 160, 150); err == nil {
		t.Error("expected error for tree lighter than gasket")
	}
}

func TestSplitComposition(t *testing.T) {
	plan, err := SplitComposition("14W", 100, 20, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Scrap != 20 {
		t.Errorf("scrap = %v, want 20", plan.Scrap)
	}
	// remainder 80, fine = 80 * 0.587 = 46.96
	if plan.Fine != 46.96 {
		t.Errorf("fine = %v, want 46.96", plan.Fine)
	}
	if plan.Alloy != 33.04 {
		t.Errorf("alloy = %v, want 33.04", plan.Alloy)
	}
	if math.Abs(plan.Fine+plan.Alloy-80) > 0.001 {
		t.Errorf("fine + alloy = %v, want 80", plan.Fine+plan.Alloy)
	}
	if plan.Total != 100 {
		t.Errorf("total = %v, want 100", plan.Total)
	}
}

func TestSplitCompositionPureOnly(t *testing.T) {
	plan, err := SplitComposition("PLATINUM 950", 60, 10, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Fine != 50 {
		t.Errorf("fine = %v, want 50", plan.Fine)
	}
	if plan.Alloy != 0 {
		t.Errorf("alloy = %v, want 0", plan.Alloy)
	}

	// Alloy overrides are ignored for pure metals.
	alloy := 5.0
	plan, err = SplitComposition("SILVER 925", 60, 10, Overrides{Alloy: &alloy})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Alloy != 0 || plan.AlloyOverridden {
		t.Errorf("alloy = %v overridden=%v, want 0 and false", plan.Alloy, plan.AlloyOverridden)
	}
}

func TestSplitCompositionOverrides(t *testing.T) {
	fine := 40.0
	alloy := 35.0
	plan, err := SplitComposition("14W", 100, 20, Overrides{Fine: &fine, Alloy: &alloy})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Fine != 40 || !plan.FineOverridden {
		t.Errorf("fine = %v overridden=%v, want 40 and true", plan.Fine, plan.FineOverridden)
	}
	if plan.Alloy != 35 || !plan.AlloyOverridden {
		t.Errorf("alloy = %v overridden=%v, want 35 and true", plan.Alloy, plan.AlloyOverridden)
	}
	if plan.Total != 95 {
		t.Errorf("total = %v, want 95", plan.Total)
	}
}

func TestSplitCompositionScrapExceedsRequired(t *testing.T) {
	plan, err := SplitComposition("14W", 50, 80, Overrides{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if plan.Fine != 0 || plan.Alloy != 0 {
		t.Errorf("fine/alloy = %v/%v, want 0/0 when scrap covers the requirement", plan.Fine, plan.Alloy)
	}
}

func TestCheckCutting(t *testing.T) {
	// Exactly 5% off passes, just over fails.
	if err := CheckCutting(100, 95, 90, 5); err != nil {
		t.Errorf("exactly 5%% deviation should pass: %v", err)
	}
	if err := CheckCutting(100, 94.9, 90, 4.9); err == nil {
		t.Error("expected supply_vs_before_cut failure")
	} else if te, ok := err.(*ToleranceError); !ok || te.Check != "supply_vs_before_cut" {
		t.Errorf("unexpected error: %v", err)
	}

	if err := CheckCutting(100, 100, 50, 44); err == nil {
		t.Error("expected before_cut_vs_cut failure")
	} else if te, ok := err.(*ToleranceError); !ok || te.Check != "before_cut_vs_cut" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestCheckCuttingSkipsZeroBaselines(t *testing.T) {
	// No supplied weight recorded: the first check is skipped.
	if err := CheckCutting(0, 50, 48, 2); err != nil {
		t.Errorf("zero supplied should skip the first check: %v", err)
	}
	// No before-cut weight: the second check is skipped too.
	if err := CheckCutting(0, 0, 10, 10); err != nil {
		t.Errorf("zero before_cut should skip the second check: %v", err)
	}
}

func TestLosses(t *testing.T) {
	inCasting, inCutting, total := Losses(100, 98, 90, 6)
	if inCasting != 2 {
		t.Errorf("loss in casting = %v, want 2", inCasting)
	}
	if inCutting != 2 {
		t.Errorf("loss in cutting = %v, want 2", inCutting)
	}
	if total != 4 {
		t.Errorf("total loss = %v, want 4", total)
	}
}
