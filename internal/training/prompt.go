package training

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/dhartley/liftcoach/internal/aiprovider"
)

// SystemInstruction is the fixed role and output contract sent with every
// recommendation request. Its wording is part of the contract.
const SystemInstruction = `You are an expert strength coach specializing in strength and hypertrophy training. Your job is to recommend the NEXT SET ONLY (weight in kg and number of reps) based on the athlete's context: exercise, current session sets, recent session history, estimated 1RM, personal best, and fatigue signals (total sets today, workout duration).

CRITICAL OUTPUT RULES:
- You must respond with ONLY valid JSON.
- Do NOT include markdown, code fences, or explanatory text outside the JSON.
- Your entire response must be exactly one JSON object matching the requested schema.
- Do NOT recommend multiple sets.
- Do NOT recommend a full workout.

WEIGHT AND REP CONSTRAINTS:
- All weights must be in kilograms (kg).
- All rep counts must be integers.
- Weight must be a realistic gym load.
- Only use increments of 1.25 kg.
- Never suggest impossible weights like 83.7 kg.

COACHING GUIDELINES:
- Base recommendations on the athlete's demonstrated strength and fatigue.
- Prefer conservative progression when fatigue is high.
- Do not increase weight aggressively if recent sets were near failure.
`

// BuildPrompt renders ctx into the deterministic user prompt and pairs it
// with the fixed system instruction. Equal contexts always render to
// byte-identical strings.
func BuildPrompt(ctx WorkoutContext) aiprovider.Prompt {
	var b strings.Builder

	b.WriteString("Recommend the next set for this exercise.\n\n")
	b.WriteString("--- Exercise ---\n")
	fmt.Fprintf(&b, "Exercise: %s\n", ctx.ExerciseName)
	fmt.Fprintf(&b, "Muscle group: %s\n", ctx.MuscleGroup)
	fmt.Fprintf(&b, "Equipment: %s\n", ctx.EquipmentType)
	fmt.Fprintf(&b, "Compound movement: %s\n\n", pyBool(ctx.IsCompound))

	if ctx.Estimated1RM != nil {
		fmt.Fprintf(&b, "Estimated 1RM: %s kg\n", formatNumber(*ctx.Estimated1RM))
	} else {
		b.WriteString("Estimated 1RM: not available\n")
	}
	if ctx.MaxWeightEver != nil {
		fmt.Fprintf(&b, "Personal best (max weight ever): %s kg\n", formatNumber(*ctx.MaxWeightEver))
	} else {
		b.WriteString("Personal best: not available\n")
	}
	b.WriteString("\n")

	b.WriteString("--- Current session sets (this exercise) ---\n")
	if len(ctx.CurrentSessionSets) > 0 {
		b.WriteString(formatCurrentSets(ctx.CurrentSessionSets))
	} else {
		b.WriteString("No sets completed yet this session.")
	}
	b.WriteString("\n\n")

	b.WriteString("--- Recent session history (last 3 sessions for this exercise) ---\n")
	if len(ctx.RecentSessions) > 0 {
		b.WriteString(formatSessionHistory(ctx.RecentSessions))
	} else {
		b.WriteString("No recent session data.")
	}
	b.WriteString("\n\n")

	b.WriteString("--- Fatigue / workload today ---\n")
	fmt.Fprintf(&b, "Total sets completed today (all exercises): %d\n", ctx.TotalSetsToday)
	fmt.Fprintf(&b, "Workout duration so far: %d minutes\n\n", ctx.WorkoutDurationMinutes)

	b.WriteString("Respond with ONLY a JSON object with exactly these keys (no other keys, no extra text):\n")
	b.WriteString(`  "suggested_weight_kg": <number in kg, e.g. 82.5>,` + "\n")
	b.WriteString(`  "suggested_reps": <integer number of reps>,` + "\n")
	b.WriteString(`  "explanation": "<short reason for this recommendation>",` + "\n")
	b.WriteString(`  "confidence": "<one of: high | medium | low>"`)

	return aiprovider.Prompt{SystemInstruction: SystemInstruction, UserPrompt: b.String()}
}

func formatCurrentSets(sets []CurrentSet) string {
	lines := make([]string, len(sets))
	for i, s := range sets {
		rpeStr := ""
		if s.RPE != nil {
			rpeStr = " RPE " + formatNumber(*s.RPE)
		}
		lines[i] = fmt.Sprintf("  Set %d: %s kg x %d reps%s", s.SetNumber, formatNumber(s.WeightKg), s.Reps, rpeStr)
	}
	return strings.Join(lines, "\n")
}

func formatSessionHistory(sessions []SessionSummary) string {
	lines := make([]string, len(sessions))
	for i, session := range sessions {
		var parts []string
		parts = append(parts, fmt.Sprintf("  Session %d:", i+1))
		if session.Date != "" {
			parts = append(parts, fmt.Sprintf(" date=%s", session.Date))
		}
		if len(session.Sets) > 0 {
			setStrs := make([]string, len(session.Sets))
			for j, s := range session.Sets {
				rpeStr := ""
				if s.RPE != nil {
					rpeStr = " RPE " + formatNumber(*s.RPE)
				}
				setStrs[j] = fmt.Sprintf("%s kg x %d reps%s", formatNumber(s.WeightKg), s.Reps, rpeStr)
			}
			parts = append(parts, " "+strings.Join(setStrs, "; "))
		}
		lines[i] = strings.TrimSpace(strings.Join(parts, ""))
	}
	return strings.Join(lines, "\n")
}

func pyBool(b bool) string {
	if b {
		return "True"
	}
	return "False"
}

// formatNumber mirrors Python's default float rendering: str(100.0) is
// "100.0", not "100", so every value keeps at least one decimal digit.
func formatNumber(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
