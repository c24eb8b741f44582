package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"triviaiq"
)

func main() {
	var (
		topic        = flag.String("topic", "", "Trivia topic (required). In -play mode this is a taxonomy topic ID")
		subtopic     = flag.String("subtopic", "", "Subtopic hint, or the taxonomy subtopic label in -play mode")
		genre        = flag.String("genre", "", "Genre hint")
		numQuestions = flag.Int("questions", triviaiq.DefaultQuestionCount, "Number of questions to generate")
		difficulty   = flag.String("difficulty", string(triviaiq.DefaultDifficulty), "Difficulty level (easy, medium, hard, impossible)")
		mode         = flag.String("mode", string(triviaiq.ModeOpen), "Question mode (open, choice)")
		outputFile   = flag.String("output", "", "Output file for questions JSON (default: stdout)")
		apiKey       = flag.String("api-key", "", "OpenAI API key (or set OPENAI_API_KEY env var). Without one the static bank is used")
		playMode     = flag.Bool("play", false, "Play a timed quiz in the terminal")
		duration     = flag.Int("duration", 60, "Session duration in seconds for -play (30 or 60)")
		seed         = flag.Int64("seed", 0, "Random seed (0 uses the current time)")
		dbPath       = flag.String("db", "", "Database with stored questions and high scores")
		player       = flag.String("player", "", "Player name for saving -play high scores (requires -db)")
		logDir       = flag.String("log-dir", "", "Directory for per-generation logs")
		noColor      = flag.Bool("no-color", false, "Disable colors in -play mode")
		verbose      = flag.Bool("verbose", false, "Enable verbose debugging output")
	)

	flag.Parse()

	triviaiq.SetVerbose(*verbose)

	if *topic == "" {
		log.Fatal("Topic is required. Use -topic flag.")
	}

	// Get API key from flag or environment
	if *apiKey == "" {
		*apiKey = os.Getenv("OPENAI_API_KEY")
	}

	bank := triviaiq.StaticQuestionBank()

	var db *triviaiq.DB
	if *dbPath != "" {
		var err error
		db, err = triviaiq.OpenDB(*dbPath)
		if err != nil {
			log.Fatalf("Failed to open database: %v", err)
		}
		defer db.CloseDB()

		if err := db.CreateTables(); err != nil {
			log.Fatalf("Failed to create tables: %v", err)
		}
		stored, err := db.LoadPool()
		if err != nil {
			log.Fatalf("Failed to load stored questions: %v", err)
		}
		bank.Pool = bank.Pool.Merge(stored)
	}

	var source triviaiq.QuestionSource
	if *apiKey != "" {
		source = triviaiq.NewQuestionMaker(*apiKey)
	} else if *verbose {
		log.Printf("No OpenAI API key, using the static question bank")
	}

	generator := triviaiq.NewGenerator(bank, source, triviaiq.NewRand(*seed))
	generator.LogDir = *logDir

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	if *playMode {
		req := triviaiq.StartRequest{
			TopicID:                *topic,
			SubtopicLabel:          *subtopic,
			GenreLabel:             *genre,
			Difficulty:             triviaiq.Difficulty(*difficulty),
			SessionDurationSeconds: *duration,
		}
		if err := play(ctx, generator, db, req, *player, *noColor); err != nil {
			log.Fatalf("Failed to play quiz: %v", err)
		}
		return
	}

	req := triviaiq.GenerationRequest{
		TopicInput:    *topic,
		SubtopicHint:  *subtopic,
		GenreHint:     *genre,
		Difficulty:    triviaiq.Difficulty(*difficulty),
		QuestionCount: *numQuestions,
		Mode:          triviaiq.Mode(*mode),
	}

	if *verbose {
		log.Printf("Starting question generation for topic: %s", *topic)
		log.Printf("Target questions: %d, Difficulty: %s, Mode: %s", *numQuestions, *difficulty, *mode)
	}

	questions, err := generator.GenerateQuestions(ctx, req)
	if err != nil {
		log.Fatalf("Failed to generate questions: %v", err)
	}

	output, err := json.MarshalIndent(questions, "", "  ")
	if err != nil {
		log.Fatalf("Failed to marshal questions: %v", err)
	}

	if *outputFile != "" {
		err = os.WriteFile(*outputFile, output, 0644)
		if err != nil {
			log.Fatalf("Failed to write output file: %v", err)
		}
		log.Printf("Questions saved to: %s", *outputFile)
	} else {
		fmt.Println(string(output))
	}
}
