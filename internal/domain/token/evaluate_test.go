package token

import "testing"

func TestEvaluate_StatCondition(t *testing.T) {
	stats := map[string]float64{"passing_yards": 300}

	cases := []struct {
		name string
		cond Condition
		want bool
	}{
		{"gte met", Condition{Type: ConditionStat, Metric: "passing_yards", Op: OpGTE, Value: 300}, true},
		{"gt not met", Condition{Type: ConditionStat, Metric: "passing_yards", Op: OpGT, Value: 300}, false},
		{"lte not met", Condition{Type: ConditionStat, Metric: "passing_yards", Op: OpLTE, Value: 250}, false},
		{"eq met", Condition{Type: ConditionStat, Metric: "passing_yards", Op: OpEQ, Value: 300}, true},
		{"missing metric reads as zero", Condition{Type: ConditionStat, Metric: "receptions", Op: OpLT, Value: 1}, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Evaluate(tc.cond, stats, nil); got != tc.want {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestEvaluate_TeamResultCondition(t *testing.T) {
	win := ResultWin
	cond := Condition{Type: ConditionTeamResult, Result: ResultWin}

	if !Evaluate(cond, nil, &win) {
		t.Fatal("expected win condition satisfied")
	}

	loss := ResultLoss
	if Evaluate(cond, nil, &loss) {
		t.Fatal("expected loss to fail win condition")
	}

	// Unknown game state is unsatisfied, never an error.
	if Evaluate(cond, nil, nil) {
		t.Fatal("expected nil team result to be unsatisfied")
	}
}

func TestComputeReward_Points(t *testing.T) {
	got := ComputeReward(Reward{Type: RewardPoints, Value: 5}, 12)
	if got != 5 {
		t.Fatalf("expected flat 5, got %v", got)
	}
}

func TestComputeReward_MultiplierScalesBase(t *testing.T) {
	got := ComputeReward(Reward{Type: RewardMultiplier, Value: 2}, 12)
	if got != 12 {
		t.Fatalf("expected delta 12 for 2x on 12 base, got %v", got)
	}

	got = ComputeReward(Reward{Type: RewardMultiplier, Value: 0.5}, 10)
	if got != -5 {
		t.Fatalf("expected delta -5 for 0.5x on 10 base, got %v", got)
	}
}
