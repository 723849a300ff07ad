package trainer

import (
	"regexp"
	"strings"

	"github.com/haeun/fitcoach-go/internal/domain"
)

const (
	defaultDurationMin = 35
	minDurationMin     = 15
	maxDurationMin     = 75
)

var nonDigitPattern = regexp.MustCompile(`[^0-9]`)

// NormalizeExercises fills defaults on every exercise so downstream code
// never sees a missing id, empty reps list, or zero rest. Normalizing an
// already-normalized list is a no-op.
func NormalizeExercises(exercises []domain.Exercise) []domain.Exercise {
	out := make([]domain.Exercise, len(exercises))
	for i, exercise := range exercises {
		out[i] = normalizeExercise(exercise)
	}
	return out
}

func normalizeExercise(exercise domain.Exercise) domain.Exercise {
	if !exercise.TrackingMetric.IsValid() {
		exercise.TrackingMetric = domain.TrackWeightReps
	}
	if exercise.Modality == "" {
		exercise.Modality = "strength"
	}
	if exercise.ID == "" {
		exercise.ID = domain.NewExerciseID()
	}
	if exercise.Name == "" {
		exercise.Name = "Movement Prep"
	}
	if exercise.BodyPart == "" {
		exercise.BodyPart = "Full body"
	}
	if exercise.Instructions == "" {
		exercise.Instructions = "Controlled tempo, stay pain-free, and breathe through the rib cage."
	}
	if len(exercise.Equipment) == 0 {
		exercise.Equipment = []string{"Bodyweight"}
	}
	if exercise.TargetSets <= 0 {
		exercise.TargetSets = 2
	}
	if len(exercise.TargetReps) == 0 {
		exercise.TargetReps = defaultReps(exercise.TrackingMetric, exercise.Modality)
	}
	if exercise.Tempo == "" {
		exercise.Tempo = "2-1-2"
	}
	if exercise.RestSec <= 0 {
		exercise.RestSec = 45
	}
	if len(exercise.Cues) == 0 {
		exercise.Cues = []string{"Breathe through the ribs", "Own the end range"}
	}
	return exercise
}

// defaultReps: duration-tracked and cardio work counts one "rep" per set;
// everything else defaults to ten.
func defaultReps(metric domain.TrackingMetric, modality string) []int {
	if metric == domain.TrackDuration || strings.Contains(modality, "cardio") {
		return []int{1}
	}
	return []int{10}
}

// InferModality keyword-matches the goal, first match wins, then falls back
// on activity level.
func InferModality(profile *domain.Profile) string {
	goal := strings.ToLower(profile.Goal)
	switch {
	case strings.Contains(goal, "run"):
		return "run + strength support"
	case strings.Contains(goal, "yoga"):
		return "yoga mobility"
	case strings.Contains(goal, "pilates"):
		return "pilates core"
	case profile.ActivityLevel == domain.ActivitySedentary:
		return "gentle strength & mobility"
	default:
		return "strength & conditioning"
	}
}

// EstimateDuration derives session length in minutes from the first
// available time slot ("45min" -> 45), clamped to [15, 75], defaulting to
// 35 when no slot parses.
func EstimateDuration(profile *domain.Profile) int {
	if len(profile.TimeAvailable) == 0 {
		return defaultDurationMin
	}
	digits := nonDigitPattern.ReplaceAllString(profile.TimeAvailable[0], "")
	if digits == "" {
		return defaultDurationMin
	}
	numeric := 0
	for _, r := range digits {
		numeric = numeric*10 + int(r-'0')
		if numeric > maxDurationMin {
			return maxDurationMin
		}
	}
	if numeric < minDurationMin {
		return minDurationMin
	}
	return numeric
}
