package labs

import "testing"

// TestTransitionTable exhaustively checks every state pair against the
// workflow rules.
func TestTransitionTable(t *testing.T) {
	all := []State{StateDraft, StatePendingReview, StateReviewed, StateValidated, StateAmended, StateCancelled}
	allowed := map[State]map[State]bool{
		StateDraft:         {StatePendingReview: true, StateCancelled: true},
		StatePendingReview: {StateReviewed: true, StateCancelled: true},
		StateReviewed:      {StateValidated: true, StateAmended: true, StateCancelled: true},
		StateAmended:       {StatePendingReview: true, StateCancelled: true},
		StateValidated:     {},
		StateCancelled:     {},
	}

	for _, from := range all {
		for _, to := range all {
			want := allowed[from][to]
			if got := TransitionAllowed(from, to); got != want {
				t.Errorf("TransitionAllowed(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []State{StateValidated, StateCancelled} {
		if !s.Terminal() {
			t.Errorf("expected %s to be terminal", s)
		}
	}
	for _, s := range []State{StateDraft, StatePendingReview, StateReviewed, StateAmended} {
		if s.Terminal() {
			t.Errorf("expected %s not to be terminal", s)
		}
	}
	if State("archived").Terminal() {
		t.Error("unknown state must not read as terminal")
	}
}

func TestStateValid(t *testing.T) {
	if !StateAmended.Valid() {
		t.Error("expected amended to be a valid state")
	}
	if State("archived").Valid() {
		t.Error("expected unknown state to be invalid")
	}
}

func TestInterpret(t *testing.T) {
	low, high := 4.0, 10.0
	tt := &TestTypeDefinition{Code: "wbc", NormalRangeLow: &low, NormalRangeHigh: &high}

	cases := []struct {
		name  string
		value float64
		want  Interpretation
	}{
		{"inside range", 7.0, InterpretationNormal},
		{"at low bound", 4.0, InterpretationNormal},
		{"at high bound", 10.0, InterpretationNormal},
		{"below range", 3.0, InterpretationLow},
		{"above range", 11.0, InterpretationHigh},
		// range width 6, multiplier 1.5: critical beyond 9 past a bound
		{"just inside critical band low", -4.9, InterpretationLow},
		{"critically low", -5.1, InterpretationCritical},
		{"just inside critical band high", 18.9, InterpretationHigh},
		{"critically high", 19.1, InterpretationCritical},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Interpret(tc.value, tt, 1.5); got != tc.want {
				t.Errorf("Interpret(%v) = %s, want %s", tc.value, got, tc.want)
			}
		})
	}
}

func TestInterpret_CustomMultiplier(t *testing.T) {
	low, high := 0.0, 10.0
	tt := &TestTypeDefinition{Code: "glu", NormalRangeLow: &low, NormalRangeHigh: &high}

	// width 10, multiplier 2: critical only beyond 20 past a bound
	if got := Interpret(25.0, tt, 2.0); got != InterpretationHigh {
		t.Errorf("expected high with multiplier 2, got %s", got)
	}
	if got := Interpret(31.0, tt, 2.0); got != InterpretationCritical {
		t.Errorf("expected critical with multiplier 2, got %s", got)
	}
}

func TestInterpret_PartialRange(t *testing.T) {
	high := 10.0
	tt := &TestTypeDefinition{Code: "crp", NormalRangeHigh: &high}

	if got := Interpret(200.0, tt, 1.5); got != InterpretationHigh {
		t.Errorf("single bound: expected high without a critical band, got %s", got)
	}
	if got := Interpret(5.0, tt, 1.5); got != InterpretationNormal {
		t.Errorf("single bound: expected normal below it, got %s", got)
	}

	none := &TestTypeDefinition{Code: "note"}
	if got := Interpret(999.0, none, 1.5); got != InterpretationNormal {
		t.Errorf("no range: expected normal, got %s", got)
	}
}
