package entity

import "testing"

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StageTransit, StageMetalPrep},
		{StageTransit, StageSupply},
		{StageMetalPrep, StageSupply},
		{StageSupply, StageCasting},
		{StageCasting, StageQuenching},
		{StageQuenching, StageCutting},
		{StageCutting, StageReconciliation},
		{StageReconciliation, StageDone},
	}
	for _, c := range allowed {
		if !CanTransition(c.from, c.to) {
			t.Errorf("expected %s -> %s to be allowed", c.from, c.to)
		}
	}

	denied := []struct{ from, to string }{
		{StageTransit, StageCasting},
		{StageMetalPrep, StageMetalPrep},
		{StageSupply, StageMetalPrep},
		{StageCasting, StageCutting},
		{StageQuenching, StageReconciliation},
		{StageDone, StageTransit},
		{StageDone, StageDone},
		{"bogus", StageDone},
	}
	for _, c := range denied {
		if CanTransition(c.from, c.to) {
			t.Errorf("expected %s -> %s to be denied", c.from, c.to)
		}
	}
}
