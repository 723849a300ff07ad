package trainer

import (
	"fmt"

	"github.com/haeun/fitcoach-go/internal/domain"
)

// minMidDelaySec floors the mid-session delay so the check-in never fires
// immediately for very short sessions.
const minMidDelaySec = 60

// BuildCoachComments produces the deterministic comment track for a
// session: a session_start opener, a before_set and after_set pair per
// exercise, exactly one mid_session check-in after the exercise whose
// cumulative target sets first reach half the session total, and a
// session_end closer. No model calls, no errors.
func BuildCoachComments(profile *domain.Profile, plan []domain.Exercise, durationMin int, goal string) []domain.CoachComment {
	totalSets := 0
	for _, exercise := range plan {
		totalSets += exercise.TargetSets
	}
	halfSets := (totalSets + 1) / 2

	midDelaySec := durationMin * 30
	if midDelaySec < minMidDelaySec {
		midDelaySec = minMidDelaySec
	}

	comments := make([]domain.CoachComment, 0, len(plan)*2+3)
	comments = append(comments, domain.CoachComment{
		ID:      domain.NewCoachID(),
		Text:    fmt.Sprintf("Today's focus: %s. Keep breath light and stay in control.", goal),
		Trigger: domain.TriggerSessionStart,
	})

	runningSets := 0
	midPlaced := false
	for _, exercise := range plan {
		runningSets += exercise.TargetSets

		cue := "move with intent"
		if len(exercise.Cues) > 0 {
			cue = exercise.Cues[0]
		}
		comments = append(comments, domain.CoachComment{
			ID:         "coach-pre-" + exercise.ID,
			Text:       fmt.Sprintf("%s: %s.", exercise.Name, cue),
			Trigger:    domain.TriggerBeforeSet,
			ExerciseID: exercise.ID,
		})
		comments = append(comments, domain.CoachComment{
			ID:         "coach-post-" + exercise.ID,
			Text:       fmt.Sprintf("Nice work on %s. Shake out tension before the next block.", exercise.Name),
			Trigger:    domain.TriggerAfterSet,
			ExerciseID: exercise.ID,
		})

		if !midPlaced && runningSets >= halfSets {
			comments = append(comments, domain.CoachComment{
				ID:         "coach-mid-" + exercise.ID,
				Text:       fmt.Sprintf("Halfway there, %s. Stay tall and check in with pain levels.", profile.FirstName()),
				Trigger:    domain.TriggerMidSession,
				ExerciseID: exercise.ID,
				DelaySec:   midDelaySec,
			})
			midPlaced = true
		}
	}

	comments = append(comments, domain.CoachComment{
		ID:      domain.NewCoachID(),
		Text:    "Session done. Log how you feel so I can fine-tune recovery next time.",
		Trigger: domain.TriggerSessionEnd,
	})
	return comments
}
