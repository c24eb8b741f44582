package main

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"triviaiq"

	"github.com/google/uuid"
)

// questionView is a choice question without its answer key
type questionView struct {
	Question string   `json:"question"`
	Options  []string `json:"options"`
	Category string   `json:"category"`
}

type gameView struct {
	triviaiq.Snapshot
	EndReason              triviaiq.EndReason        `json:"endReason,omitempty"`
	Topic                  string                    `json:"topic,omitempty"`
	Difficulty             triviaiq.Difficulty       `json:"difficulty,omitempty"`
	SessionDurationSeconds int                       `json:"sessionDurationSeconds,omitempty"`
	TotalQuestions         int                       `json:"totalQuestions"`
	Question               *questionView             `json:"question,omitempty"`
	Answered               []triviaiq.AnsweredRecord `json:"answered"`
}

func newGameView(entry *gameEntry) gameView {
	session := entry.session
	view := gameView{
		Snapshot:       session.Snapshot(),
		EndReason:      session.EndReason(),
		TotalQuestions: len(session.Questions()),
		Answered:       session.Answered(),
	}
	if view.Answered == nil {
		view.Answered = []triviaiq.AnsweredRecord{}
	}
	if view.State != triviaiq.StateSetup {
		view.Topic = entry.selection.Label()
		view.Difficulty = session.Request().Difficulty
		view.SessionDurationSeconds = session.Request().SessionDurationSeconds
	}
	if q, ok := session.CurrentQuestion(); ok {
		view.Question = &questionView{
			Question: q.Question,
			Options:  q.Options,
			Category: q.Category,
		}
	}
	return view
}

// gameFor returns the game bound to the request's session cookie, issuing a
// new game ID when the cookie has none
func (s *Server) gameFor(w http.ResponseWriter, r *http.Request) (*gameEntry, error) {
	session, err := s.store.Get(r, sessionCookieName)
	if err != nil {
		// An undecodable cookie starts a new game
		triviaiq.VerboseLog("Discarding session cookie: %v", err)
	}
	id, _ := session.Values["game_id"].(string)
	if id == "" {
		id = uuid.NewString()
		session.Values["game_id"] = id
		if err := session.Save(r, w); err != nil {
			return nil, err
		}
	}
	return s.games.Get(id, s.now()), nil
}

// sync applies the ticks owed since the last request and the given answer
// messages as one batch. Callers hold entry.mu.
func (s *Server) sync(entry *gameEntry, answers ...triviaiq.Msg) []triviaiq.AnsweredRecord {
	msgs := append(entry.catchUp(s.now()), answers...)
	accepted := entry.session.Dispatch(msgs...)
	s.saveScore(entry)
	return accepted
}

// saveScore stores the high score once when a game with a player reaches results
func (s *Server) saveScore(entry *gameEntry) {
	if entry.scoreSaved || entry.player == "" || s.db == nil {
		return
	}
	if entry.session.State() != triviaiq.StateResults {
		return
	}
	entry.scoreSaved = true
	score := triviaiq.NewHighScore(entry.player, entry.session, entry.selection.Label())
	if err := s.db.SaveHighScore(score); err != nil {
		log.Printf("Failed to save high score for %s: %v", entry.player, err)
		return
	}
	triviaiq.VerboseLog("Saved high score %d for %s", score.Score, entry.player)
}

func (s *Server) handleTopics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.taxonomy)
}

type generateQuestionsBody struct {
	Prompt        string              `json:"prompt"`
	Topic         string              `json:"topic"`
	Subtopic      string              `json:"subtopic"`
	Genre         string              `json:"genre"`
	Difficulty    triviaiq.Difficulty `json:"difficulty"`
	QuestionCount int                 `json:"questionCount"`
	Mode          triviaiq.Mode       `json:"mode"`
	GameMode      string              `json:"gameMode"`
}

func (s *Server) handleGenerateQuestions(w http.ResponseWriter, r *http.Request) {
	var body generateQuestionsBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	topic := strings.TrimSpace(body.Prompt)
	if topic == "" {
		topic = strings.TrimSpace(body.Topic)
	}
	if topic == "" && strings.TrimSpace(body.Subtopic) == "" {
		respondError(w, http.StatusBadRequest, "Topic is required")
		return
	}
	if body.QuestionCount < 0 {
		respondError(w, http.StatusBadRequest, triviaiq.ErrInvalidCount.Error())
		return
	}

	mode := body.Mode
	if body.GameMode == "mini-game" {
		mode = triviaiq.ModeChoice
	}

	req := triviaiq.GenerationRequest{
		TopicInput:    topic,
		SubtopicHint:  strings.TrimSpace(body.Subtopic),
		GenreHint:     strings.TrimSpace(body.Genre),
		Difficulty:    body.Difficulty,
		QuestionCount: body.QuestionCount,
		Mode:          mode,
	}

	questions, err := s.generator().GenerateQuestions(r.Context(), req)
	if err != nil {
		log.Printf("Failed to generate questions: %v", err)
		if errors.Is(err, triviaiq.ErrEmptySourcePool) {
			respondError(w, http.StatusUnprocessableEntity, "No questions available for this topic")
			return
		}
		respondError(w, http.StatusInternalServerError, "Failed to generate questions")
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

type startGameBody struct {
	triviaiq.StartRequest
	Player string `json:"player"`
}

func (s *Server) handleStartGame(w http.ResponseWriter, r *http.Request) {
	entry, err := s.gameFor(w, r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	var body startGameBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry.mu.Lock()
	s.sync(entry)
	if entry.session.State() != triviaiq.StateSetup {
		view := newGameView(entry)
		entry.mu.Unlock()
		respondJSON(w, http.StatusConflict, view)
		return
	}
	sel, err := s.taxonomy.Select(body.TopicID, body.SubtopicLabel, body.GenreLabel)
	if err != nil || !entry.session.Start(body.StartRequest) {
		if err != nil {
			triviaiq.VerboseLog("Invalid selection: %v", err)
		}
		view := newGameView(entry)
		entry.mu.Unlock()
		respondJSON(w, http.StatusUnprocessableEntity, view)
		return
	}
	entry.selection = sel
	entry.player = strings.TrimSpace(body.Player)
	entry.scoreSaved = false
	generation := uuid.NewString()
	entry.generation = generation
	difficulty := entry.session.Request().Difficulty
	entry.mu.Unlock()

	// Generation runs unlocked so the generating state stays observable
	questions, genErr := s.generator().GenerateQuiz(r.Context(), sel, difficulty)

	entry.mu.Lock()
	defer entry.mu.Unlock()
	if entry.generation != generation || entry.session.State() != triviaiq.StateGenerating {
		// Reset while generating; a later start may own the session now
		triviaiq.VerboseLog("Discarding generation %s for %q", generation, sel.Label())
		respondJSON(w, http.StatusConflict, newGameView(entry))
		return
	}
	entry.generation = ""
	if genErr != nil {
		entry.session.Fail(genErr)
		respondError(w, http.StatusBadGateway, "Failed to generate quiz")
		return
	}
	now := s.now()
	if err := entry.session.Begin(questions, now); err != nil {
		respondError(w, http.StatusUnprocessableEntity, "No questions available for this topic")
		return
	}
	entry.lastTick = now

	log.Printf("Started %ds quiz on %q (%s) with %d questions, %d sessions tracked",
		body.SessionDurationSeconds, sel.Label(), difficulty, len(questions), s.games.Size())
	respondJSON(w, http.StatusOK, newGameView(entry))
}

func (s *Server) handleGameState(w http.ResponseWriter, r *http.Request) {
	entry, err := s.gameFor(w, r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	s.sync(entry)
	respondJSON(w, http.StatusOK, newGameView(entry))
}

type answerBody struct {
	SelectedIndex *int `json:"selectedIndex"`
}

type answerResponse struct {
	Accepted bool                     `json:"accepted"`
	Record   *triviaiq.AnsweredRecord `json:"record,omitempty"`
	Game     gameView                 `json:"game"`
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	entry, err := s.gameFor(w, r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	var body answerBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SelectedIndex == nil {
		respondError(w, http.StatusBadRequest, "selectedIndex is required")
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	accepted := s.sync(entry, triviaiq.AnswerMsg{SelectedIndex: *body.SelectedIndex, At: s.now()})

	resp := answerResponse{Game: newGameView(entry)}
	if len(accepted) > 0 {
		resp.Accepted = true
		resp.Record = &accepted[0]
	}
	respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	entry, err := s.gameFor(w, r)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to save session")
		return
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()
	entry.reset()
	respondJSON(w, http.StatusOK, newGameView(entry))
}

func (s *Server) handleScores(w http.ResponseWriter, r *http.Request) {
	player := strings.TrimSpace(r.URL.Query().Get("player"))
	if player == "" {
		respondError(w, http.StatusBadRequest, "player is required")
		return
	}

	scores, err := s.db.GetHighScores(player)
	if err != nil {
		log.Printf("Failed to get high scores: %v", err)
		respondError(w, http.StatusInternalServerError, "Failed to get high scores")
		return
	}
	if scores == nil {
		scores = []triviaiq.HighScore{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"scores": scores})
}
