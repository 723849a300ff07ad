package trainer

import "github.com/haeun/fitcoach-go/internal/domain"

// FallbackPlan is the deterministic four-exercise session used when plan
// generation fails. It never calls an external service and never fails;
// only the inferred modality and estimated duration vary with the profile.
// The exercises pass through the same normalization as generated plans.
func FallbackPlan(profile *domain.Profile) domain.PlanPayload {
	exercises := []domain.Exercise{
		{
			ID:             domain.NewID("fallback"),
			Name:           "Cat-Camel Mobility",
			BodyPart:       "Spine",
			Modality:       "mobility",
			Instructions:   "Move slowly through flexion and extension for spinal fluidity.",
			Equipment:      []string{},
			TargetSets:     2,
			TargetReps:     []int{10},
			Tempo:          "3-1-3",
			RestSec:        30,
			Cues:           []string{"Breathe through the ribcage", "Don't force end range"},
			TrackingMetric: domain.TrackBreath,
		},
		{
			ID:             domain.NewID("fallback"),
			Name:           "Split Squat ISO",
			BodyPart:       "Lower body",
			Modality:       "strength",
			Instructions:   "Hold a split squat at mid-range, drive front foot down.",
			Equipment:      []string{"Bodyweight"},
			TargetSets:     3,
			TargetReps:     []int{30},
			Tempo:          "ISO",
			RestSec:        45,
			Cues:           []string{"Long spine", "Front knee tracks over toes"},
			TrackingMetric: domain.TrackDuration,
		},
		{
			ID:             domain.NewID("fallback"),
			Name:           "Dead Bug Reach",
			BodyPart:       "Core",
			Modality:       "anti-extension",
			Instructions:   "Alternate limbs while keeping lumbar spine heavy.",
			Equipment:      []string{"Bodyweight"},
			TargetSets:     3,
			TargetReps:     []int{8},
			Tempo:          "2-1-2",
			RestSec:        45,
			Cues:           []string{"Exhale to rib cage", "Keep low back grounded"},
			TrackingMetric: domain.TrackWeightReps,
		},
		{
			ID:             domain.NewID("fallback"),
			Name:           "Breathing Ladder",
			BodyPart:       "Cardio",
			Modality:       "breathwork",
			Instructions:   "Box breathing: inhale 4, hold 4, exhale 6, hold 2.",
			Equipment:      []string{},
			TargetSets:     4,
			TargetReps:     []int{1},
			Tempo:          "Timed breath",
			RestSec:        0,
			Cues:           []string{"Jaw relaxed", "Nasal breathing"},
			TrackingMetric: domain.TrackBreath,
		},
	}

	return domain.PlanPayload{
		GoalFocus:   profile.Goal,
		Modality:    InferModality(profile),
		DurationMin: EstimateDuration(profile),
		Exercises:   NormalizeExercises(exercises),
	}
}
