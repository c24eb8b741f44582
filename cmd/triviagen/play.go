package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"triviaiq"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var optionKeys = map[string]int{
	"1": 0, "2": 1, "3": 2, "4": 3,
	"a": 0, "b": 1, "c": 2, "d": 3,
}

// play runs one timed quiz on the terminal and stores the high score when a
// player and database are given
func play(ctx context.Context, generator *triviaiq.Generator, db *triviaiq.DB, req triviaiq.StartRequest, player string, noColor bool) error {
	sel, err := triviaiq.DefaultTaxonomy().Select(req.TopicID, req.SubtopicLabel, req.GenreLabel)
	if err != nil {
		return fmt.Errorf("invalid selection: %w", err)
	}

	session := triviaiq.NewGameSession()
	if !session.Start(req) {
		return fmt.Errorf("invalid start request: duration must be one of %v", triviaiq.ValidDurations)
	}

	fmt.Printf("Generating %d questions on %s (%s)...\n", triviaiq.GameQuestionCount, sel.Label(), session.Request().Difficulty)
	questions, err := generator.GenerateQuiz(ctx, sel, session.Request().Difficulty)
	if err != nil {
		session.Fail(err)
		return err
	}
	if err := session.Begin(questions, time.Now()); err != nil {
		return err
	}

	// Keep verbose output from tearing the terminal UI
	triviaiq.SetVerboseOutput(io.Discard)
	model := newPlayModel(session, sel, noColor)
	_, err = tea.NewProgram(model).Run()
	triviaiq.SetVerboseOutput(os.Stderr)
	if err != nil {
		return fmt.Errorf("failed to run quiz UI: %w", err)
	}

	if session.State() != triviaiq.StateResults {
		log.Printf("Quiz abandoned")
		return nil
	}
	if player != "" && db != nil {
		score := triviaiq.NewHighScore(player, session, sel.Label())
		if err := db.SaveHighScore(score); err != nil {
			return fmt.Errorf("failed to save high score: %w", err)
		}
		log.Printf("High score saved for %s: %d", player, score.Score)
	}
	return nil
}

// playModel drives a GameSession from Bubble Tea ticks and key presses
type playModel struct {
	session   *triviaiq.GameSession
	selection triviaiq.Selection
	noColor   bool
	feedback  string
	now       func() time.Time
}

type tickMsg time.Time

func newPlayModel(session *triviaiq.GameSession, sel triviaiq.Selection, noColor bool) playModel {
	return playModel{
		session:   session,
		selection: sel,
		noColor:   noColor,
		now:       time.Now,
	}
}

func tick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Init starts the one-second session timer
func (m playModel) Init() tea.Cmd {
	return tick()
}

// Update forwards ticks and answers to the session in arrival order
func (m playModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tickMsg:
		m.session.Dispatch(triviaiq.TickMsg{})
		if m.session.State() != triviaiq.StatePlaying {
			return m, nil
		}
		return m, tick()
	case tea.KeyMsg:
		key := typed.String()
		switch key {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		}
		if m.session.State() == triviaiq.StateResults {
			if key == "enter" {
				return m, tea.Quit
			}
			return m, nil
		}
		idx, ok := optionKeys[strings.ToLower(key)]
		if !ok {
			return m, nil
		}
		for _, record := range m.session.Dispatch(triviaiq.AnswerMsg{SelectedIndex: idx, At: m.now()}) {
			m.feedback = formatFeedback(record)
		}
	}
	return m, nil
}

// View renders the current question or the results
func (m playModel) View() string {
	if m.session.State() == triviaiq.StateResults {
		return m.resultsView()
	}
	return m.questionView()
}

func (m playModel) questionView() string {
	snap := m.session.Snapshot()
	q, ok := m.session.CurrentQuestion()
	if !ok {
		return ""
	}

	header := fmt.Sprintf("%s | Question %d/%d | Score %d", m.selection.Label(), snap.CurrentIndex+1, len(m.session.Questions()), snap.Score)
	timer := fmt.Sprintf("Time left: %ds", snap.TimeRemainingSeconds)
	timerColor := lipgloss.Color("33")
	if snap.TimeRemainingSeconds <= 10 {
		timerColor = lipgloss.Color("196")
	}

	lines := []string{
		stylize(header, m.noColor, lipgloss.Color("242")),
		stylize(timer, m.noColor, timerColor),
		"",
		stylizeBold(q.Question, m.noColor),
	}
	for i, opt := range q.Options {
		lines = append(lines, fmt.Sprintf("  %s) %s", string(rune('A'+i)), opt))
	}
	lines = append(lines, "")
	if m.feedback != "" {
		lines = append(lines, m.feedback)
	}
	lines = append(lines, stylize("Answer with 1-4 or a-d, q to quit", m.noColor, lipgloss.Color("244")))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m playModel) resultsView() string {
	snap := m.session.Snapshot()
	reason := "All questions answered"
	if m.session.EndReason() == triviaiq.EndTimeExpired {
		reason = "Time's up"
	}

	summary := fmt.Sprintf("%s! Final score: %d (%d/%d correct, %d answered)",
		reason, snap.Score, m.session.CorrectCount(), len(m.session.Questions()), snap.AnsweredCount)

	return lipgloss.JoinVertical(lipgloss.Left,
		stylizeBold(summary, m.noColor),
		"",
		resultsTable(m.session.Answered(), m.noColor).View(),
		"",
		stylize("Press enter or q to exit", m.noColor, lipgloss.Color("244")),
	)
}

// resultsTable lists each answered question with its outcome
func resultsTable(answered []triviaiq.AnsweredRecord, noColor bool) table.Model {
	rows := make([]table.Row, 0, len(answered))
	for i, a := range answered {
		outcome := "wrong"
		if a.IsCorrect {
			outcome = "correct"
		}
		rows = append(rows, table.Row{
			strconv.Itoa(i + 1),
			a.QuestionText,
			a.SelectedOptionText,
			a.CorrectOptionText,
			outcome,
			strconv.Itoa(a.Points),
			strconv.FormatFloat(a.ResponseSeconds, 'f', 1, 64) + "s",
		})
	}

	t := table.New(
		table.WithColumns([]table.Column{
			{Title: "#", Width: 3},
			{Title: "Question", Width: 40},
			{Title: "Your answer", Width: 18},
			{Title: "Correct", Width: 18},
			{Title: "Result", Width: 8},
			{Title: "Points", Width: 6},
			{Title: "Time", Width: 6},
		}),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(max(len(rows), 1)),
	)
	styles := table.DefaultStyles()
	if !noColor {
		styles.Header = styles.Header.Foreground(lipgloss.Color("252"))
	}
	t.SetStyles(styles)
	return t
}

func formatFeedback(record triviaiq.AnsweredRecord) string {
	if record.IsCorrect {
		return fmt.Sprintf("Correct! +%d points (%.1fs)", record.Points, record.ResponseSeconds)
	}
	return fmt.Sprintf("Wrong, the answer was %s", record.CorrectOptionText)
}

func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func stylizeBold(text string, noColor bool) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Render(text)
}
