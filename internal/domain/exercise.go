package domain

type TrackingMetric string

const (
	TrackWeightReps TrackingMetric = "weight_reps"
	TrackDuration   TrackingMetric = "duration"
	TrackDistance   TrackingMetric = "distance"
	TrackBreath     TrackingMetric = "breath"
	TrackCustom     TrackingMetric = "custom"
)

func (t TrackingMetric) IsValid() bool {
	switch t {
	case TrackWeightReps, TrackDuration, TrackDistance, TrackBreath, TrackCustom:
		return true
	default:
		return false
	}
}

// Exercise is one prescribed movement in a session plan. TargetReps is a
// range when it holds two values and a single prescription otherwise; it is
// never empty after normalization.
type Exercise struct {
	ID                string         `json:"id"`
	Name              string         `json:"name"`
	BodyPart          string         `json:"bodyPart"`
	Modality          string         `json:"modality"`
	Instructions      string         `json:"instructions"`
	Equipment         []string       `json:"equipment"`
	TargetSets        int            `json:"targetSets"`
	TargetReps        []int          `json:"targetReps"`
	Tempo             string         `json:"tempo"`
	RestSec           int            `json:"restSec"`
	DurationMin       float64        `json:"durationMin,omitempty"`
	IntensityCue      string         `json:"intensityCue,omitempty"`
	Contraindications []string       `json:"contraindications,omitempty"`
	Cues              []string       `json:"cues"`
	TrackingMetric    TrackingMetric `json:"trackingMetric"`
}

// PlanPayload is the structured result of plan generation, before it is
// persisted as a session.
type PlanPayload struct {
	GoalFocus   string     `json:"goalFocus"`
	Modality    string     `json:"modality"`
	DurationMin int        `json:"durationMin"`
	Exercises   []Exercise `json:"exercises"`
}

// PlanInsights is what the generate endpoint returns: the plan plus the
// literature evidence it was built from.
type PlanInsights struct {
	Goal        string     `json:"goal"`
	Modality    string     `json:"modality"`
	DurationMin int        `json:"durationMin"`
	Plan        []Exercise `json:"plan"`
	HealthFacts []Fact     `json:"healthFacts"`
	Citations   []Citation `json:"citations"`
}
