package triviaiq

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// MaxHighScores is the number of scores kept per player
const MaxHighScores = 10

// DB stores high scores and externally sourced question records
type DB struct {
	db *sql.DB
}

// HighScore is one finished game of a player
type HighScore struct {
	ID                int64      `json:"id"`
	Player            string     `json:"player"`
	Score             int        `json:"score"`
	Difficulty        Difficulty `json:"difficulty"`
	Topic             string     `json:"topic"`
	QuestionsAnswered int        `json:"questionsAnswered"`
	CorrectAnswers    int        `json:"correctAnswers"`
	CreatedAt         time.Time  `json:"date"`
}

// OpenDB opens a new database connection
func OpenDB(dbPath string) (*DB, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{db: db}, nil
}

// CloseDB closes the database connection
func (db *DB) CloseDB() error {
	return db.db.Close()
}

// CreateTables creates the necessary tables if they don't exist
func (db *DB) CreateTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS high_scores (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			player TEXT NOT NULL,
			score INTEGER NOT NULL,
			difficulty TEXT NOT NULL,
			topic TEXT NOT NULL,
			questions_answered INTEGER NOT NULL,
			correct_answers INTEGER NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_high_scores_player ON high_scores(player, score DESC)`,
		`CREATE TABLE IF NOT EXISTS question_records (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			topic_key TEXT NOT NULL,
			subtopic TEXT NOT NULL,
			text TEXT NOT NULL,
			answer TEXT NOT NULL,
			category TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
	}

	for _, query := range queries {
		if _, err := db.db.Exec(query); err != nil {
			return fmt.Errorf("failed to execute %s: %w", query, err)
		}
	}
	return nil
}

// SaveHighScore records a finished game and trims the player's list to the
// best MaxHighScores entries
func (db *DB) SaveHighScore(score *HighScore) error {
	if score.CreatedAt.IsZero() {
		score.CreatedAt = time.Now()
	}

	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO high_scores (player, score, difficulty, topic, questions_answered, correct_answers, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)",
		score.Player, score.Score, string(score.Difficulty), score.Topic, score.QuestionsAnswered, score.CorrectAnswers, score.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save high score: %w", err)
	}
	if score.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("failed to read high score id: %w", err)
	}

	_, err = tx.Exec(
		`DELETE FROM high_scores WHERE player = ? AND id NOT IN (
			SELECT id FROM high_scores WHERE player = ? ORDER BY score DESC, created_at ASC, id ASC LIMIT ?
		)`,
		score.Player, score.Player, MaxHighScores,
	)
	if err != nil {
		return fmt.Errorf("failed to trim high scores: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit high score: %w", err)
	}
	return nil
}

// GetHighScores retrieves a player's best scores, highest first
func (db *DB) GetHighScores(player string) ([]HighScore, error) {
	rows, err := db.db.Query(
		"SELECT id, player, score, difficulty, topic, questions_answered, correct_answers, created_at FROM high_scores WHERE player = ? ORDER BY score DESC, created_at ASC, id ASC LIMIT ?",
		player, MaxHighScores,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get high scores: %w", err)
	}
	defer rows.Close()

	var scores []HighScore
	for rows.Next() {
		var hs HighScore
		var difficulty string
		err := rows.Scan(&hs.ID, &hs.Player, &hs.Score, &difficulty, &hs.Topic, &hs.QuestionsAnswered, &hs.CorrectAnswers, &hs.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan high score: %w", err)
		}
		hs.Difficulty = Difficulty(difficulty)
		scores = append(scores, hs)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating high scores: %w", err)
	}

	return scores, nil
}

// NewHighScore builds the high score entry for a finished session
func NewHighScore(player string, session *GameSession, topicLabel string) *HighScore {
	snap := session.Snapshot()
	return &HighScore{
		Player:            player,
		Score:             snap.Score,
		Difficulty:        session.Request().Difficulty,
		Topic:             topicLabel,
		QuestionsAnswered: snap.AnsweredCount,
		CorrectAnswers:    session.CorrectCount(),
	}
}

// SaveRecords stores sourced records under a topic key and subtopic label
func (db *DB) SaveRecords(topicKey, subtopic string, records []QuestionRecord) error {
	tx, err := db.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare("INSERT INTO question_records (topic_key, subtopic, text, answer, category, created_at) VALUES (?, ?, ?, ?, ?, ?)")
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, r := range records {
		if _, err := stmt.Exec(topicKey, subtopic, r.Text, r.Answer, r.Category, now); err != nil {
			return fmt.Errorf("failed to save record: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit records: %w", err)
	}
	return nil
}

// CountRecords returns how many records are stored for a subtopic
func (db *DB) CountRecords(topicKey, subtopic string) (int, error) {
	var n int
	err := db.db.QueryRow("SELECT COUNT(*) FROM question_records WHERE topic_key = ? AND subtopic = ?", topicKey, subtopic).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}

// LoadPool returns every stored record grouped by topic key and subtopic,
// in insertion order
func (db *DB) LoadPool() (SourcePool, error) {
	rows, err := db.db.Query("SELECT topic_key, subtopic, text, answer, category FROM question_records ORDER BY id")
	if err != nil {
		return SourcePool{}, fmt.Errorf("failed to load records: %w", err)
	}
	defer rows.Close()

	var pool SourcePool
	topicIndex := make(map[string]int)
	subtopicIndex := make(map[[2]string]int)
	for rows.Next() {
		var topicKey, subtopic string
		var r QuestionRecord
		if err := rows.Scan(&topicKey, &subtopic, &r.Text, &r.Answer, &r.Category); err != nil {
			return SourcePool{}, fmt.Errorf("failed to scan record: %w", err)
		}

		ti, ok := topicIndex[topicKey]
		if !ok {
			ti = len(pool.Topics)
			topicIndex[topicKey] = ti
			pool.Topics = append(pool.Topics, TopicGroup{Key: topicKey})
		}
		topic := &pool.Topics[ti]
		key := [2]string{topicKey, subtopic}
		si, ok := subtopicIndex[key]
		if !ok {
			si = len(topic.Subtopics)
			subtopicIndex[key] = si
			topic.Subtopics = append(topic.Subtopics, SubtopicGroup{Label: subtopic})
		}
		topic.Subtopics[si].Records = append(topic.Subtopics[si].Records, r)
	}

	if err = rows.Err(); err != nil {
		return SourcePool{}, fmt.Errorf("error iterating records: %w", err)
	}

	return pool, nil
}

// ExistingQuestions returns every stored record, used to seed deduplication
func (db *DB) ExistingQuestions() ([]QuestionRecord, error) {
	pool, err := db.LoadPool()
	if err != nil {
		return nil, err
	}
	return pool.All(), nil
}
