// Package rules holds the metal rule table and the pure weight math used by
// the casting workflow: density estimates, karat splits, temperature lookups
// and the 5% tolerance checks. Nothing in here touches the database.
package rules

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MetalClass keys the consolidated rule table.
type MetalClass string

const (
	Class10K      MetalClass = "10K"
	Class14W      MetalClass = "14W"
	Class14Y      MetalClass = "14Y"
	Class14R      MetalClass = "14R"
	ClassSilver   MetalClass = "SILVER"
	Class18W      MetalClass = "18W"
	Class18Y      MetalClass = "18Y"
	Class18R      MetalClass = "18R"
	ClassPlatinum MetalClass = "PLATINUM"
	ClassDefault  MetalClass = "DEFAULT"
)

// MetalRule is one row of the rule table.
// FinePct is the 24K fraction of the karat alloy; zero for non-golds.
// PureOnly metals (platinum, silver) take no alloy at all.
type MetalRule struct {
	Class         MetalClass
	DensityFactor float64
	CastingTemp   float64 // °F
	OvenTemp      float64 // °F
	FinePct       float64
	PureOnly      bool
}

// classifiers is ordered: first substring match wins, so "14W" must be probed
// before a bare "14" would be. "10" matches any 10K name.
var classifiers = []struct {
	needle string
	class  MetalClass
}{
	{"10", Class10K},
	{"14W", Class14W},
	{"14Y", Class14Y},
	{"14R", Class14R},
	{"SILVER", ClassSilver},
	{"18W", Class18W},
	{"18Y", Class18Y},
	{"18R", Class18R},
	{"PLATINUM", ClassPlatinum},
}

var table = map[MetalClass]MetalRule{
	Class10K:      {Class10K, 11, 1100, 1100, 0.417, false},
	Class14W:      {Class14W, 13.25, 1050, 1150, 0.587, false},
	Class14Y:      {Class14Y, 13.25, 1030, 1050, 0.587, false},
	Class14R:      {Class14R, 13.25, 1100, 1050, 0.587, false},
	ClassSilver:   {ClassSilver, 11, 980, 980, 0, true},
	Class18W:      {Class18W, 16.5, 1050, 1050, 0.752, false},
	Class18Y:      {Class18Y, 16.5, 1060, 1050, 0.752, false},
	Class18R:      {Class18R, 16.5, 1100, 1020, 0.752, false},
	ClassPlatinum: {ClassPlatinum, 21, 1000, 1000, 0, true},
	ClassDefault:  {ClassDefault, 1.0, 1000, 1000, 0, false},
}

// Classify maps a metal display name to its rule table class.
// Matching is case-insensitive substring in fixed priority order.
func Classify(metalName string) MetalClass {
	n := strings.ToUpper(metalName)
	for _, c := range classifiers {
		if strings.Contains(n, c.needle) {
			return c.class
		}
	}
	return ClassDefault
}

// RuleFor returns the full rule row for a metal name.
func RuleFor(metalName string) MetalRule {
	return table[Classify(metalName)]
}

// DensityFactor returns the wax-to-metal multiplier for a metal name.
func DensityFactor(metalName string) float64 {
	return RuleFor(metalName).DensityFactor
}

// Temps returns the casting and oven temperatures in °F for a metal name.
func Temps(metalName string) (casting, oven float64) {
	r := RuleFor(metalName)
	return r.CastingTemp, r.OvenTemp
}

// Round3 rounds to 3 decimal places, half away from zero.
func Round3(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(3).Float64()
	return f
}
