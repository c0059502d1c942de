package rules

import "fmt"

// Overrides carries sticky per-field operator overrides for a split. A nil
// field means "auto": the splitter computes it from the rule table. A set
// field wins over the computed value and is reported back as overridden.
type Overrides struct {
	Fine  *float64
	Alloy *float64
}

// Plan is a resolved metal composition for one flask. Scrap + Fine + Alloy is
// what goes into the crucible. For pure metals the pure weight lives in Fine
// and Alloy is always zero.
type Plan struct {
	Scrap           float64 `json:"scrap"`
	Fine            float64 `json:"fine_24k"`
	Alloy           float64 `json:"alloy"`
	Total           float64 `json:"total"`
	FineOverridden  bool    `json:"fine_overridden"`
	AlloyOverridden bool    `json:"alloy_overridden"`
}

// SplitComposition splits the required metal weight into scrap, 24K fine and
// alloy for the given metal. Scrap comes off the top; the remainder is split
// by the karat fineness, or goes entirely to fine for pure metals.
func SplitComposition(metalName string, required, scrap float64, ov Overrides) (Plan, error) {
	if required < 0 {
		return Plan{}, fmt.Errorf("required weight must not be negative, got %.3f", required)
	}
	if scrap < 0 {
		return Plan{}, fmt.Errorf("scrap must not be negative, got %.3f", scrap)
	}

	rule := RuleFor(metalName)
	remain := required - scrap
	if remain < 0 {
		remain = 0
	}

	p := Plan{Scrap: Round3(scrap)}

	if rule.PureOnly {
		// Platinum and silver take no alloy; an alloy override is meaningless.
		p.Fine = Round3(remain)
		if ov.Fine != nil {
			p.Fine = Round3(*ov.Fine)
			p.FineOverridden = true
		}
		p.Alloy = 0
	} else {
		p.Fine = Round3(remain * rule.FinePct)
		p.Alloy = Round3(remain - p.Fine)
		if ov.Fine != nil {
			p.Fine = Round3(*ov.Fine)
			p.FineOverridden = true
		}
		if ov.Alloy != nil {
			p.Alloy = Round3(*ov.Alloy)
			p.AlloyOverridden = true
		}
	}

	p.Total = Round3(p.Scrap + p.Fine + p.Alloy)
	return p, nil
}
