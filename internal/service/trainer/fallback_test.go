package trainer

import (
	"reflect"
	"testing"
)

func TestFallbackPlanExercisesAreNormalized(t *testing.T) {
	plan := FallbackPlan(testProfile())

	normalized := NormalizeExercises(plan.Exercises)
	if !reflect.DeepEqual(plan.Exercises, normalized) {
		t.Errorf("fallback plan should already be normalized:\n got %+v\nwant %+v",
			plan.Exercises, normalized)
	}

	for _, exercise := range plan.Exercises {
		if len(exercise.Equipment) == 0 {
			t.Errorf("%s: equipment should default to Bodyweight", exercise.Name)
		}
		if exercise.RestSec <= 0 {
			t.Errorf("%s: restSec should be positive after normalization, got %d",
				exercise.Name, exercise.RestSec)
		}
	}
}

func TestFallbackPlanParameterizedByProfile(t *testing.T) {
	plan := FallbackPlan(testProfile())

	if plan.GoalFocus != "pain-free running" {
		t.Errorf("goalFocus = %q", plan.GoalFocus)
	}
	if plan.Modality != "run + strength support" {
		t.Errorf("modality = %q", plan.Modality)
	}
	if plan.DurationMin != 45 {
		t.Errorf("durationMin = %d, want 45 from the 45min slot", plan.DurationMin)
	}
	if len(plan.Exercises) != 4 {
		t.Errorf("expected 4 exercises, got %d", len(plan.Exercises))
	}
}
