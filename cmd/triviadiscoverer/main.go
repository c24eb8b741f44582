package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"triviaiq"

	"github.com/google/uuid"
)

func main() {
	var (
		topicID      = flag.String("topic", "", "Only fill subtopics of this taxonomy topic ID (optional)")
		numQuestions = flag.Int("questions", 15, "Number of questions to request per subtopic")
		difficulty   = flag.String("difficulty", string(triviaiq.DefaultDifficulty), "Difficulty level")
		count        = flag.Int("count", 1, "Number of empty subtopics to fill")
		dbPath       = flag.String("db", "./trivia.db", "Database path")
		apiKey       = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var)")
		logDir       = flag.String("log-dir", "log", "Directory for per-generation logs (empty disables)")
		verbose      = flag.Bool("verbose", false, "Enable verbose output")
	)

	flag.Parse()

	triviaiq.SetVerbose(*verbose)

	// Get API key from flag or environment
	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
		if *apiKey == "" {
			log.Fatal("OpenAI API key is required. Use -api-key flag or set OPENAI_API_KEY environment variable.")
		}
	}

	// Initialize database
	db, err := triviaiq.OpenDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.CloseDB()

	// Create tables if they don't exist
	if err := db.CreateTables(); err != nil {
		log.Fatalf("Failed to create tables: %v", err)
	}

	targets, err := emptySubtopics(db, triviaiq.DefaultTaxonomy(), *topicID, *count)
	if err != nil {
		log.Fatalf("Failed to find empty subtopics: %v", err)
	}
	if len(targets) == 0 {
		fmt.Println("Every subtopic already has stored questions")
		return
	}

	existing, err := db.ExistingQuestions()
	if err != nil {
		log.Fatalf("Failed to load existing questions: %v", err)
	}
	dedup := triviaiq.NewQuestionDedup(nil)
	dedup.Seed(triviaiq.StaticQuestionBank().Pool.All())
	dedup.Seed(existing)
	fmt.Printf("Found %d existing questions, filling %d subtopics\n", len(existing), len(targets))

	d := &discoverer{
		source:     triviaiq.NewQuestionMaker(*apiKey),
		db:         db,
		dedup:      dedup,
		logDir:     *logDir,
		difficulty: triviaiq.Difficulty(*difficulty),
		questions:  *numQuestions,
	}

	for _, sel := range targets {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		saved, err := d.fill(ctx, sel)
		cancel()
		if err != nil {
			log.Printf("Failed to fill %s / %s: %v", sel.Topic.Name, sel.Subtopic.Label, err)
			continue
		}
		fmt.Printf("Stored %d questions for %s / %s\n", saved, sel.Topic.Name, sel.Subtopic.Label)
	}
}

// emptySubtopics returns up to limit taxonomy subtopics without stored records
func emptySubtopics(db *triviaiq.DB, tax *triviaiq.Taxonomy, topicID string, limit int) ([]triviaiq.Selection, error) {
	var targets []triviaiq.Selection
	for _, topic := range tax.Topics {
		if topicID != "" && topic.ID != topicID {
			continue
		}
		for _, sub := range topic.Subtopics {
			if len(targets) >= limit {
				return targets, nil
			}
			n, err := db.CountRecords(topic.ID, sub.Label)
			if err != nil {
				return nil, err
			}
			if n == 0 {
				targets = append(targets, triviaiq.Selection{Topic: topic, Subtopic: sub})
			}
		}
	}
	return targets, nil
}

// discoverer grows the stored question bank one subtopic at a time
type discoverer struct {
	source     triviaiq.QuestionSource
	db         *triviaiq.DB
	dedup      *triviaiq.QuestionDedup
	logDir     string
	difficulty triviaiq.Difficulty
	questions  int
}

// fill sources records for sel and stores the ones not seen before
func (d *discoverer) fill(ctx context.Context, sel triviaiq.Selection) (int, error) {
	req := triviaiq.GenerationRequest{
		TopicInput:    sel.Prompt(),
		Difficulty:    d.difficulty,
		QuestionCount: d.questions,
		Mode:          triviaiq.ModeOpen,
	}.Normalize()

	var logger *triviaiq.GenerationLogger
	if d.logDir != "" {
		var err error
		logger, err = triviaiq.NewGenerationLogger(d.logDir, uuid.NewString(), req)
		if err != nil {
			log.Printf("Failed to create generation log: %v", err)
		}
	}
	defer logger.Close()

	pool, err := d.source.FetchPool(ctx, req, logger)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch questions: %w", err)
	}

	records := d.dedup.Unique(pool.All())
	if len(records) == 0 {
		return 0, fmt.Errorf("no new questions: %w", triviaiq.ErrEmptySourcePool)
	}
	if err := d.db.SaveRecords(sel.Topic.ID, sel.Subtopic.Label, records); err != nil {
		return 0, err
	}
	return len(records), nil
}
