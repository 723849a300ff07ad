package domain

import "time"

type Gender string

const (
	GenderMale        Gender = "male"
	GenderFemale      Gender = "female"
	GenderUnspecified Gender = "prefer-not-to-say"
)

func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderUnspecified, "":
		return true
	default:
		return false
	}
}

type ActivityLevel string

const (
	ActivitySedentary  ActivityLevel = "sedentary"
	ActivityLight      ActivityLevel = "light"
	ActivityModerate   ActivityLevel = "moderate"
	ActivityActive     ActivityLevel = "active"
	ActivityVeryActive ActivityLevel = "very-active"
)

func (a ActivityLevel) IsValid() bool {
	switch a {
	case ActivitySedentary, ActivityLight, ActivityModerate, ActivityActive, ActivityVeryActive, "":
		return true
	default:
		return false
	}
}

type SmokingStatus string

const (
	SmokingNever   SmokingStatus = "never"
	SmokingFormer  SmokingStatus = "former"
	SmokingCurrent SmokingStatus = "current"
)

func (s SmokingStatus) IsValid() bool {
	switch s {
	case SmokingNever, SmokingFormer, SmokingCurrent, "":
		return true
	default:
		return false
	}
}

type AlcoholStatus string

const (
	AlcoholNever        AlcoholStatus = "never"
	AlcoholOccasionally AlcoholStatus = "occasionally"
	AlcoholRegularly    AlcoholStatus = "regularly"
)

func (a AlcoholStatus) IsValid() bool {
	switch a {
	case AlcoholNever, AlcoholOccasionally, AlcoholRegularly, "":
		return true
	default:
		return false
	}
}

// Profile is the onboarding snapshot the generation pipeline reads. Age is
// free text as entered by the user ("38", "38 years"), never parsed except
// for query building.
type Profile struct {
	Name          string        `json:"name"`
	Age           string        `json:"age"`
	Gender        Gender        `json:"gender,omitempty"`
	Goal          string        `json:"goal"`
	ActivityLevel ActivityLevel `json:"activityLevel,omitempty"`
	TimeAvailable []string      `json:"timeAvailable"`
	Injuries      []string      `json:"injuries"`
	Conditions    []string      `json:"conditions"`
	Medications   string        `json:"medications"`
	Smoking       SmokingStatus `json:"smoking,omitempty"`
	Alcohol       AlcoholStatus `json:"alcohol,omitempty"`
}

func (p *Profile) Validate() error {
	if !p.Gender.IsValid() {
		return NewFieldError("gender", string(p.Gender))
	}
	if !p.ActivityLevel.IsValid() {
		return NewFieldError("activityLevel", string(p.ActivityLevel))
	}
	if !p.Smoking.IsValid() {
		return NewFieldError("smoking", string(p.Smoking))
	}
	if !p.Alcohol.IsValid() {
		return NewFieldError("alcohol", string(p.Alcohol))
	}
	return nil
}

// FirstName is used by coach comments to address the user.
func (p *Profile) FirstName() string {
	name := p.Name
	for i := 0; i < len(name); i++ {
		if name[i] == ' ' {
			return name[:i]
		}
	}
	return name
}

// Onboarding is the persisted profile record.
type Onboarding struct {
	UserID      string    `json:"userId"`
	Profile     Profile   `json:"profile"`
	TrackPeriod bool      `json:"trackPeriod"`
	CompletedAt time.Time `json:"completedAt"`
}
