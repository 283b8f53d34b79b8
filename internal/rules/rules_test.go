package rules_test

import (
	"strings"
	"testing"

	"github.com/dhartley/liftcoach/internal/ptr"
	"github.com/dhartley/liftcoach/internal/rules"
)

func ptrF(f float64) *float64 { return ptr.Ref(f) }
func iptr(i int) *int         { return ptr.Ref(i) }

func TestRecommendSeedScenarios(t *testing.T) {
	tests := []struct {
		name         string
		ctx          rules.Context
		lastWeight   float64
		lastReps     int
		lastRPE      *float64
		wantWeight   float64
		wantReps     int
		wantContains string
	}{
		{
			name:       "clean progression compound RPE5",
			ctx:        rules.Context{IsCompound: true, TotalSetsToday: 5},
			lastWeight: 60, lastReps: 10, lastRPE: ptrF(5),
			wantWeight: 62.5, wantReps: 10,
			wantContains: "RPE 5 — adding 2.5 kg (compound).",
		},
		{
			name:       "isolation RPE6",
			ctx:        rules.Context{IsCompound: false},
			lastWeight: 20, lastReps: 12, lastRPE: ptrF(6),
			wantWeight: 21.25, wantReps: 12,
			wantContains: "adding 1.25 kg (isolation)",
		},
		{
			name:       "RPE9 only soft fatigue",
			ctx:        rules.Context{IsCompound: true},
			lastWeight: 60, lastReps: 8, lastRPE: ptrF(9),
			wantWeight: 60.0, wantReps: 8,
			wantContains: "RPE spike",
		},
		{
			name: "rep drop plus RPE spike hard fatigue",
			ctx: rules.Context{
				IsCompound: true,
				CurrentSessionSets: []rules.SessionSet{
					{WeightKg: 60, Reps: 11},
					{WeightKg: 60, Reps: 8},
				},
			},
			lastWeight: 60, lastReps: 8, lastRPE: ptrF(9),
			wantWeight: 57.5, wantReps: 8,
			wantContains: "Rep drop + RPE spike: reducing load by 2.5 kg.",
		},
		{
			name:       "1RM cap",
			ctx:        rules.Context{IsCompound: true, Estimated1RM: ptrF(100)},
			lastWeight: 90, lastReps: 5, lastRPE: ptrF(5),
			wantWeight: 90.0, wantReps: 5,
			wantContains: "Capped at 90% estimated 1RM.",
		},
		{
			name:       "duration only fatigue",
			ctx:        rules.Context{IsCompound: true, WorkoutDurationMinutes: iptr(121)},
			lastWeight: 60, lastReps: 8, lastRPE: ptrF(5),
			wantWeight: 60.0, wantReps: 8,
			wantContains: "Duration",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			weight, reps, explanation := rules.Recommend(tt.ctx, tt.lastWeight, tt.lastReps, tt.lastRPE)
			if weight != tt.wantWeight {
				t.Errorf("weight = %v, want %v", weight, tt.wantWeight)
			}
			if reps != tt.wantReps {
				t.Errorf("reps = %v, want %v", reps, tt.wantReps)
			}
			if !strings.Contains(explanation, tt.wantContains) {
				t.Errorf("explanation = %q, want substring %q", explanation, tt.wantContains)
			}
			if !strings.HasSuffix(explanation, "Rule-based suggestion.") {
				t.Errorf("explanation = %q, want suffix %q", explanation, "Rule-based suggestion.")
			}
		})
	}
}

func TestMinimalFallback(t *testing.T) {
	weight, reps, explanation := rules.MinimalFallback(60, 8, nil)
	if weight != 62.5 || reps != 8 {
		t.Errorf("got (%v, %v), want (62.5, 8)", weight, reps)
	}
	if explanation != "AI unavailable. Rule-based suggestion." {
		t.Errorf("explanation = %q", explanation)
	}

	weight, _, _ = rules.MinimalFallback(60, 8, ptrF(8))
	if weight != 60 {
		t.Errorf("weight = %v, want 60 for rpe=8", weight)
	}
}

// TestWeightIsAlwaysQuantized covers property P1: every recommendation is a
// multiple of 1.25 kg and non-negative, across a spread of contexts.
func TestWeightIsAlwaysQuantized(t *testing.T) {
	contexts := []rules.Context{
		{IsCompound: true},
		{IsCompound: false},
		{IsCompound: true, TotalSetsToday: 20},
		{IsCompound: true, Estimated1RM: ptrF(40)},
		{IsCompound: false, WorkoutDurationMinutes: iptr(200)},
	}
	lastWeights := []float64{0, 2.5, 17.5, 101.25}
	rpes := []*float64{nil, ptrF(3), ptrF(7), ptrF(9.5)}

	for _, ctx := range contexts {
		for _, w := range lastWeights {
			for _, rpe := range rpes {
				weight, _, _ := rules.Recommend(ctx, w, 8, rpe)
				if weight < 0 {
					t.Fatalf("Recommend(%+v, %v, 8, %v) = %v, want >= 0", ctx, w, rpe, weight)
				}
				remainder := weight / 1.25
				if remainder != float64(int64(remainder)) {
					t.Fatalf("Recommend(%+v, %v, 8, %v) = %v, not a multiple of 1.25", ctx, w, rpe, weight)
				}
			}
		}
	}
}

// TestOneRMCapEnforced covers property P2.
func TestOneRMCapEnforced(t *testing.T) {
	oneRM := 100.0
	ctx := rules.Context{IsCompound: true, Estimated1RM: &oneRM}
	weight, _, _ := rules.Recommend(ctx, 95, 5, ptrF(4))
	if weight > 90 {
		t.Errorf("weight = %v, want <= 90 (floor(0.9*100/1.25)*1.25)", weight)
	}
}

// TestFatigueExclusivity covers property P9: the duration signal never
// co-occurs with another fatigue signal in the explanation.
func TestFatigueExclusivity(t *testing.T) {
	ctx := rules.Context{
		IsCompound:             true,
		WorkoutDurationMinutes: iptr(200),
	}
	_, _, explanation := rules.Recommend(ctx, 60, 8, ptrF(5))
	if !strings.Contains(explanation, "Duration") {
		t.Fatalf("expected duration signal to fire, got %q", explanation)
	}
	for _, other := range []string{"Rep drop", "RPE spike", "Excessive volume"} {
		if strings.Contains(explanation, other) {
			t.Errorf("explanation %q unexpectedly contains exclusive signal %q", explanation, other)
		}
	}
}
