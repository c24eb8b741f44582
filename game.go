package triviaiq

import (
	"log"
	"time"
)

// GameState is the phase of a timed quiz session
type GameState string

const (
	StateSetup      GameState = "setup"
	StateGenerating GameState = "generating"
	StatePlaying    GameState = "playing"
	StateResults    GameState = "results"
)

// EndReason records which terminal trigger moved a session to results
type EndReason string

const (
	EndNone              EndReason = ""
	EndQuestionsAnswered EndReason = "questions_answered"
	EndTimeExpired       EndReason = "time_expired"
)

// GameQuestionCount is the number of questions generated for one game
const GameQuestionCount = 20

// ValidDurations are the allowed session lengths in seconds
var ValidDurations = []int{30, 60}

// IsValidDuration reports whether seconds is an allowed session length
func IsValidDuration(seconds int) bool {
	for _, d := range ValidDurations {
		if d == seconds {
			return true
		}
	}
	return false
}

// StartRequest asks for a new timed quiz
type StartRequest struct {
	TopicID                string     `json:"topicId"`
	SubtopicLabel          string     `json:"subtopicLabel"`
	GenreLabel             string     `json:"genreLabel,omitempty"`
	Difficulty             Difficulty `json:"difficulty"`
	SessionDurationSeconds int        `json:"sessionDurationSeconds"`
}

// AnsweredRecord is the outcome of one answered question
type AnsweredRecord struct {
	QuestionText       string  `json:"question"`
	SelectedOptionText string  `json:"selectedAnswer"`
	CorrectOptionText  string  `json:"correctAnswer"`
	IsCorrect          bool    `json:"isCorrect"`
	Points             int     `json:"points"`
	ResponseSeconds    float64 `json:"timeToAnswer"`
}

// Snapshot is the read-only view of a session
type Snapshot struct {
	State                GameState `json:"state"`
	CurrentIndex         int       `json:"currentIndex"`
	Score                int       `json:"score"`
	TimeRemainingSeconds int       `json:"timeRemainingSeconds"`
	AnsweredCount        int       `json:"answeredCount"`
}

// GameSession is the mutable state of one timed quiz. It is owned by exactly
// one quiz flow and is not safe for concurrent use.
type GameSession struct {
	state                GameState
	request              StartRequest
	questions            []ChoiceQuestion
	currentIndex         int
	timeRemainingSeconds int
	score                int
	answered             []AnsweredRecord
	questionStartedAt    time.Time
	endReason            EndReason
}

// NewGameSession creates a session in the setup state
func NewGameSession() *GameSession {
	return &GameSession{state: StateSetup}
}

// Start moves setup to generating. A request without topic or subtopic, or
// with an unsupported duration, is rejected and the session stays in setup.
func (s *GameSession) Start(req StartRequest) bool {
	if s.state != StateSetup {
		return false
	}
	if req.TopicID == "" || req.SubtopicLabel == "" || !IsValidDuration(req.SessionDurationSeconds) {
		VerboseLog("Rejected start request: %+v", req)
		return false
	}
	if req.Difficulty == "" {
		req.Difficulty = DefaultDifficulty
	}
	s.request = req
	s.state = StateGenerating
	return true
}

// Begin moves generating to playing with the generated questions. The first
// question's clock starts at at. An empty question set is a generation
// failure: the session resets to setup and ErrEmptySourcePool is returned.
func (s *GameSession) Begin(questions []ChoiceQuestion, at time.Time) error {
	if s.state != StateGenerating {
		return nil
	}
	if len(questions) == 0 {
		s.Fail(ErrEmptySourcePool)
		return ErrEmptySourcePool
	}
	s.questions = questions
	s.currentIndex = 0
	s.score = 0
	s.answered = []AnsweredRecord{}
	s.timeRemainingSeconds = s.request.SessionDurationSeconds
	s.questionStartedAt = at
	s.endReason = EndNone
	s.state = StatePlaying
	return nil
}

// Fail moves generating back to setup after a generation error
func (s *GameSession) Fail(err error) {
	if s.state != StateGenerating {
		return
	}
	log.Printf("Quiz generation failed: %v", err)
	s.Reset()
}

// Tick consumes one elapsed second. At zero the session moves to results.
func (s *GameSession) Tick() {
	if s.state != StatePlaying {
		return
	}
	s.timeRemainingSeconds--
	if s.timeRemainingSeconds <= 0 {
		s.timeRemainingSeconds = 0
		s.finish(EndTimeExpired)
	}
}

// Answer scores a selection for the current question, submitted at at.
// It returns false without changing anything when the session is not playing
// or the index does not name an option.
func (s *GameSession) Answer(selectedIndex int, at time.Time) (AnsweredRecord, bool) {
	if s.state != StatePlaying {
		return AnsweredRecord{}, false
	}
	question := s.questions[s.currentIndex]
	if selectedIndex < 0 || selectedIndex >= len(question.Options) {
		return AnsweredRecord{}, false
	}

	elapsed := at.Sub(s.questionStartedAt).Seconds()
	if elapsed < 0 {
		elapsed = 0
	}
	result := Score(selectedIndex, question, elapsed)

	record := AnsweredRecord{
		QuestionText:       question.Question,
		SelectedOptionText: question.Options[selectedIndex],
		CorrectOptionText:  question.CorrectOption(),
		IsCorrect:          result.IsCorrect,
		Points:             result.Points,
		ResponseSeconds:    elapsed,
	}
	s.answered = append(s.answered, record)
	s.score += result.Points

	if s.currentIndex == len(s.questions)-1 {
		s.finish(EndQuestionsAnswered)
	} else {
		s.currentIndex++
		s.questionStartedAt = at
	}
	return record, true
}

// Reset discards all session state and returns to setup. It serves both the
// explicit reset from results and abandoning a running session.
func (s *GameSession) Reset() {
	*s = GameSession{state: StateSetup}
}

func (s *GameSession) finish(reason EndReason) {
	s.state = StateResults
	s.endReason = reason
	VerboseLog("Quiz finished (%s): score %d, %d answered", reason, s.score, len(s.answered))
}

// Snapshot returns the current read-only view
func (s *GameSession) Snapshot() Snapshot {
	return Snapshot{
		State:                s.state,
		CurrentIndex:         s.currentIndex,
		Score:                s.score,
		TimeRemainingSeconds: s.timeRemainingSeconds,
		AnsweredCount:        len(s.answered),
	}
}

// State returns the current phase
func (s *GameSession) State() GameState { return s.state }

// Request returns the accepted start request
func (s *GameSession) Request() StartRequest { return s.request }

// EndReason returns why the session reached results
func (s *GameSession) EndReason() EndReason { return s.endReason }

// Questions returns the generated questions
func (s *GameSession) Questions() []ChoiceQuestion { return s.questions }

// Answered returns a copy of the answered records in question order
func (s *GameSession) Answered() []AnsweredRecord {
	return append([]AnsweredRecord(nil), s.answered...)
}

// CurrentQuestion returns the question awaiting an answer
func (s *GameSession) CurrentQuestion() (ChoiceQuestion, bool) {
	if s.state != StatePlaying {
		return ChoiceQuestion{}, false
	}
	return s.questions[s.currentIndex], true
}

// CorrectCount returns the number of correct answers so far
func (s *GameSession) CorrectCount() int {
	n := 0
	for _, a := range s.answered {
		if a.IsCorrect {
			n++
		}
	}
	return n
}

// Msg is an input event for Dispatch
type Msg interface{ isMsg() }

// TickMsg reports that one second has elapsed
type TickMsg struct{}

// AnswerMsg carries an answer submission and the instant it was made
type AnswerMsg struct {
	SelectedIndex int
	At            time.Time
}

func (TickMsg) isMsg()   {}
func (AnswerMsg) isMsg() {}

// Dispatch applies a batch of events that arrived in the same instant.
// Ticks are applied before answers, so a timer expiry in the batch wins over
// any answer in it. Answers keep their submission order. The records of the
// accepted answers are returned.
func (s *GameSession) Dispatch(msgs ...Msg) []AnsweredRecord {
	var answers []AnswerMsg
	for _, msg := range msgs {
		switch m := msg.(type) {
		case TickMsg:
			s.Tick()
		case AnswerMsg:
			answers = append(answers, m)
		}
	}

	var accepted []AnsweredRecord
	for _, m := range answers {
		if record, ok := s.Answer(m.SelectedIndex, m.At); ok {
			accepted = append(accepted, record)
		}
	}
	return accepted
}
