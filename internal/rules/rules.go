// Package rules implements the deterministic, priority-ordered set
// recommendation engine that backstops the AI provider: fatigue signals,
// then RPE bands, then session trend, then prior-session comparison, then a
// 1RM cap, applied in that strict order.
package rules

import (
	"fmt"
	"math"
	"strings"
)

const (
	signalRepDrop          = "Rep drop"
	signalRPESpike         = "RPE spike"
	signalExcessiveVolume  = "Excessive volume"
	signalDuration         = "Duration"
)

// SessionSet is one set already logged in the current session, in the
// minimal shape the rule engine needs.
type SessionSet struct {
	WeightKg float64
	Reps     int
}

// PriorSession summarizes one earlier session for the same exercise.
type PriorSession struct {
	Sets []SessionSet
}

// Context is the subset of the recommendation context the rule engine
// reasons over. It mirrors the AI provider's context so the two can share a
// builder.
type Context struct {
	IsCompound              bool
	CurrentSessionSets      []SessionSet
	RecentSessions          []PriorSession
	Estimated1RM            *float64
	TotalSetsToday          int
	WorkoutDurationMinutes  *int
}

// roundWeight rounds to the nearest 1.25 kg plate increment and clamps to
// non-negative.
func roundWeight(weightKg float64) float64 {
	clamped := math.Max(0, weightKg)
	return math.Round(clamped/1.25) * 1.25
}

// delta returns the load increment used for both increases and fatigue-driven
// decreases: larger for compound movements.
func delta(isCompound bool) float64 {
	if isCompound {
		return 2.5
	}
	return 1.25
}

// apply1RMCap clamps weight to 90% of the estimated 1RM, rounded down to the
// nearest 1.25 kg, appending an explanation line when it fires.
func apply1RMCap(ctx Context, weight float64) (float64, []string) {
	if ctx.Estimated1RM == nil {
		return weight, nil
	}
	cap := math.Floor(0.9*(*ctx.Estimated1RM)/1.25) * 1.25
	if weight > cap {
		return roundWeight(cap), []string{"Capped at 90% estimated 1RM."}
	}
	return weight, nil
}

// Recommend applies the rule engine to the most recently logged set and
// returns the suggested weight, reps, and a human-readable explanation.
func Recommend(ctx Context, lastWeightKg float64, lastReps int, lastRPE *float64) (float64, int, string) {
	var parts []string

	var fatigueSignals []string

	if len(ctx.CurrentSessionSets) >= 2 {
		prevReps := ctx.CurrentSessionSets[len(ctx.CurrentSessionSets)-2].Reps
		if lastReps-prevReps <= -3 {
			fatigueSignals = append(fatigueSignals, signalRepDrop)
		}
	}

	if lastRPE != nil && *lastRPE >= 9 {
		fatigueSignals = append(fatigueSignals, signalRPESpike)
	}

	if ctx.TotalSetsToday >= 18 {
		fatigueSignals = append(fatigueSignals, signalExcessiveVolume)
	}

	if len(fatigueSignals) == 0 && ctx.WorkoutDurationMinutes != nil && *ctx.WorkoutDurationMinutes > 120 {
		fatigueSignals = append(fatigueSignals, signalDuration)
	}

	hardFatigue := len(fatigueSignals) >= 2
	softFatigue := len(fatigueSignals) == 1

	if hardFatigue {
		d := delta(ctx.IsCompound)
		weight := roundWeight(math.Max(0, lastWeightKg-d))
		parts = append(parts, fmt.Sprintf("%s: reducing load by %s kg.", strings.Join(fatigueSignals, " + "), trimFloat(d)))
		weight, capParts := apply1RMCap(ctx, weight)
		parts = append(parts, capParts...)
		parts = append(parts, " | Rule-based suggestion.")
		return weight, lastReps, strings.Join(parts, " ")
	}

	if softFatigue {
		weight := roundWeight(lastWeightKg)
		parts = append(parts, fatigueSignals[0], " — maintaining load.")
		weight, capParts := apply1RMCap(ctx, weight)
		parts = append(parts, capParts...)
		parts = append(parts, " | Rule-based suggestion.")
		return weight, lastReps, strings.Join(parts, " ")
	}

	increaseSuppressed := false

	var suggestedWeight float64
	switch {
	case lastRPE == nil || (*lastRPE >= 7 && *lastRPE <= 8):
		suggestedWeight = lastWeightKg
		parts = append(parts, "RPE 7–8 (or unknown) — maintaining load.")
	case *lastRPE <= 6:
		d := delta(ctx.IsCompound)
		suggestedWeight = lastWeightKg + d
		kind := "isolation"
		if ctx.IsCompound {
			kind = "compound"
		}
		parts = append(parts, fmt.Sprintf("RPE %s — adding %s kg (%s).", trimFloat(*lastRPE), trimFloat(d), kind))
	default:
		suggestedWeight = lastWeightKg
		parts = append(parts, "RPE 7–8 (or unknown) — maintaining load.")
	}
	suggestedWeight = roundWeight(math.Max(0, suggestedWeight))

	if len(ctx.CurrentSessionSets) >= 2 {
		prev := ctx.CurrentSessionSets[len(ctx.CurrentSessionSets)-2]
		repDrop := lastReps - prev.Reps
		weightDropped := lastWeightKg < prev.WeightKg
		trendDeclining := repDrop <= -2 || weightDropped
		if trendDeclining && lastRPE != nil && *lastRPE <= 6 {
			increaseSuppressed = true
			suggestedWeight = roundWeight(lastWeightKg)
			parts = []string{
				"Session trend declining — suppressing increase.",
				fmt.Sprintf("RPE %s noted but overridden.", trimFloat(*lastRPE)),
			}
		}
	}

	if !increaseSuppressed && len(ctx.RecentSessions) > 0 {
		priorSets := ctx.RecentSessions[0].Sets
		if len(priorSets) > 0 {
			bestPriorWeight := priorSets[0].WeightKg
			for _, s := range priorSets[1:] {
				if s.WeightKg > bestPriorWeight {
					bestPriorWeight = s.WeightKg
				}
			}
			if lastWeightKg < bestPriorWeight && lastRPE != nil && *lastRPE <= 6 {
				suggestedWeight = roundWeight(lastWeightKg)
				parts = []string{"Current weight below prior session best — suppressing increase."}
			}
		}
	}

	suggestedWeight, capParts := apply1RMCap(ctx, suggestedWeight)
	parts = append(parts, capParts...)
	parts = append(parts, " | Rule-based suggestion.")
	return roundWeight(suggestedWeight), lastReps, strings.Join(parts, " ")
}

// MinimalFallback is used when no context could be assembled at all: the
// workout or exercise lookups themselves failed, so the engine has nothing
// but the set just logged.
func MinimalFallback(lastWeightKg float64, lastReps int, lastRPE *float64) (float64, int, string) {
	if lastRPE != nil && *lastRPE <= 7 {
		return lastWeightKg + 2.5, lastReps, "AI unavailable. Rule-based suggestion."
	}
	return lastWeightKg, lastReps, "AI unavailable. Rule-based suggestion."
}

// trimFloat renders a delta like 2.5 or 1.25 without trailing zeros beyond
// what the Python f-string interpolation of a float produced.
func trimFloat(f float64) string {
	s := fmt.Sprintf("%g", f)
	return s
}
