package domain

import "time"

type SessionStatus string

const (
	SessionGenerated  SessionStatus = "generated"
	SessionInProgress SessionStatus = "in-progress"
	SessionCompleted  SessionStatus = "completed"
)

func (s SessionStatus) IsValid() bool {
	switch s {
	case SessionGenerated, SessionInProgress, SessionCompleted:
		return true
	default:
		return false
	}
}

// Session is a generated workout session together with the evidence that
// produced it.
type Session struct {
	ID          string        `json:"id"`
	UserID      string        `json:"userId"`
	Goal        string        `json:"goal"`
	Modality    string        `json:"modality"`
	DurationMin int           `json:"durationMin"`
	Status      SessionStatus `json:"status"`
	Plan        []Exercise    `json:"plan"`
	HealthFacts []Fact        `json:"healthFacts"`
	Citations   []Citation    `json:"citations"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// SetLog is one logged set. Which numeric field is populated follows the
// exercise's tracking metric.
type SetLog struct {
	SessionID   string    `json:"sessionId"`
	ExerciseID  string    `json:"exerciseId"`
	SetIndex    int       `json:"setIndex"`
	WeightKg    *float64  `json:"weightKg,omitempty"`
	Reps        *int      `json:"reps,omitempty"`
	RPE         *float64  `json:"rpe,omitempty"`
	DurationSec *int      `json:"durationSec,omitempty"`
	DistanceM   *float64  `json:"distanceM,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CompletedAt time.Time `json:"completedAt"`
}

type Feedback struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
