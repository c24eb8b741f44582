package triviaiq

import "math"

const (
	BasePoints = 100
	// SpeedWindowSeconds is the response time at which the speed bonus reaches zero
	SpeedWindowSeconds = 10
	speedBonusPerSec   = 10
)

// ScoreResult is the outcome of scoring one answer
type ScoreResult struct {
	Points    int  `json:"points"`
	IsCorrect bool `json:"is_correct"`
}

// Score awards base points plus a linearly decaying speed bonus for a correct
// answer, and nothing for a wrong one.
func Score(selectedIndex int, question ChoiceQuestion, responseSeconds float64) ScoreResult {
	if selectedIndex != question.CorrectAnswer {
		return ScoreResult{Points: 0, IsCorrect: false}
	}
	bonus := math.Floor((SpeedWindowSeconds - responseSeconds) * speedBonusPerSec)
	if bonus < 0 {
		bonus = 0
	}
	return ScoreResult{Points: BasePoints + int(bonus), IsCorrect: true}
}
