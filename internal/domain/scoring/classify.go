package scoring

// Status is the headline verdict of a compatibility check.
type Status string

// Compatibility statuses.
const (
	StatusExcellent    Status = "excellent"
	StatusGood         Status = "good"
	StatusPlayable     Status = "playable"
	StatusInsufficient Status = "insufficient"
)

// Level names the requirement tier an estimate corresponds to.
type Level string

// Requirement levels.
const (
	LevelHigh         Level = "high"
	LevelRecommended  Level = "recommended"
	LevelMinimum      Level = "minimum"
	LevelBelowMinimum Level = "below_minimum"
)

// FPS band lower bounds (inclusive).
const (
	excellentFPS = 120
	goodFPS      = 60
	playableFPS  = 30
)

// Compatibility is the classification of an estimated frame rate.
type Compatibility struct {
	Status  Status `json:"status"`
	Tier    Level  `json:"tier"`
	Message string `json:"message"`
}

// Classify maps an FPS estimate to its band.
func Classify(fps int) Compatibility {
	switch {
	case fps >= excellentFPS:
		return Compatibility{Status: StatusExcellent, Tier: LevelHigh, Message: "Excellent! 120+ FPS"}
	case fps >= goodFPS:
		return Compatibility{Status: StatusGood, Tier: LevelRecommended, Message: "Good! 60+ FPS"}
	case fps >= playableFPS:
		return Compatibility{Status: StatusPlayable, Tier: LevelMinimum, Message: "Playable, 30-60 FPS"}
	default:
		return Compatibility{Status: StatusInsufficient, Tier: LevelBelowMinimum, Message: "Below 30 FPS"}
	}
}
