package domain

type CommentTrigger string

const (
	TriggerSessionStart CommentTrigger = "session_start"
	TriggerBeforeSet    CommentTrigger = "before_set"
	TriggerAfterSet     CommentTrigger = "after_set"
	TriggerMidSession   CommentTrigger = "mid_session"
	TriggerSessionEnd   CommentTrigger = "session_end"
)

func (t CommentTrigger) IsValid() bool {
	switch t {
	case TriggerSessionStart, TriggerBeforeSet, TriggerAfterSet, TriggerMidSession, TriggerSessionEnd:
		return true
	default:
		return false
	}
}

// CoachComment is a short message surfaced during a workout session.
// ExerciseID ties set-level comments to their exercise; DelaySec schedules
// time-based comments relative to session start.
type CoachComment struct {
	ID         string         `json:"id"`
	Text       string         `json:"text"`
	Trigger    CommentTrigger `json:"trigger"`
	ExerciseID string         `json:"exerciseId,omitempty"`
	DelaySec   int            `json:"delaySec,omitempty"`
}
