package triviaiq

import (
	"encoding/json"
	"errors"
)

// QuestionRecord is a single trivia fact as produced by a question source
type QuestionRecord struct {
	Text     string `json:"text" yaml:"text"`
	Answer   string `json:"answer" yaml:"answer"`
	Category string `json:"category" yaml:"category"`
}

// Mode selects the shape of formatted questions
type Mode string

const (
	ModeOpen   Mode = "open"
	ModeChoice Mode = "choice"
)

// Difficulty is an opaque label passed through to formatters and prompts
type Difficulty string

const (
	DifficultyEasy       Difficulty = "easy"
	DifficultyMedium     Difficulty = "medium"
	DifficultyHard       Difficulty = "hard"
	DifficultyImpossible Difficulty = "impossible"
)

// OpenQuestion is a question shown together with its answer
type OpenQuestion struct {
	Question   string     `json:"question"`
	Answer     string     `json:"answer"`
	Category   string     `json:"category"`
	Difficulty Difficulty `json:"difficulty"`
}

// ChoiceQuestion is a multiple-choice question with four unique options
type ChoiceQuestion struct {
	Question      string   `json:"question"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"` // 0-based index into Options
	Category      string   `json:"category"`
}

// CorrectOption returns the text of the correct option
func (q ChoiceQuestion) CorrectOption() string {
	return q.Options[q.CorrectAnswer]
}

// FormattedQuestion holds exactly one of the open or choice forms
type FormattedQuestion struct {
	Open   *OpenQuestion
	Choice *ChoiceQuestion
}

// MarshalJSON encodes whichever form is set
func (fq FormattedQuestion) MarshalJSON() ([]byte, error) {
	switch {
	case fq.Choice != nil:
		return json.Marshal(fq.Choice)
	case fq.Open != nil:
		return json.Marshal(fq.Open)
	}
	return nil, errors.New("formatted question has no form")
}

// GenerationRequest represents a request to generate questions
type GenerationRequest struct {
	TopicInput    string     `json:"topic_input"`
	SubtopicHint  string     `json:"subtopic_hint,omitempty"`
	GenreHint     string     `json:"genre_hint,omitempty"`
	Difficulty    Difficulty `json:"difficulty"`
	QuestionCount int        `json:"question_count"`
	Mode          Mode       `json:"mode"`
}

// Default values applied by Normalize
const (
	DefaultQuestionCount = 10
	DefaultDifficulty    = DifficultyMedium
)

// Normalize fills in defaults for missing request fields
func (r GenerationRequest) Normalize() GenerationRequest {
	if r.QuestionCount <= 0 {
		r.QuestionCount = DefaultQuestionCount
	}
	if r.Difficulty == "" {
		r.Difficulty = DefaultDifficulty
	}
	if r.Mode != ModeChoice {
		r.Mode = ModeOpen
	}
	return r
}

// ResolverInput returns the free text handed to the topic resolver.
// The subtopic hint is appended so subtopic labels can match it.
func (r GenerationRequest) ResolverInput() string {
	if r.SubtopicHint == "" {
		return r.TopicInput
	}
	if r.TopicInput == "" {
		return r.SubtopicHint
	}
	return r.TopicInput + " " + r.SubtopicHint
}

var (
	// ErrEmptySourcePool is returned when there are no candidate records to work with
	ErrEmptySourcePool = errors.New("empty source pool")
	// ErrInvalidCount is returned when fewer than one question is requested
	ErrInvalidCount = errors.New("question count must be at least 1")
)
