package triviaiq

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
)

// Generator orchestrates resolving, sampling and formatting trivia questions
type Generator struct {
	bank   *QuestionBank
	source QuestionSource
	rng    Rand

	// LogDir enables per-generation log files when set
	LogDir string
}

// NewGenerator creates a generator over the static bank. source may be nil,
// in which case every request is served from the bank.
func NewGenerator(bank *QuestionBank, source QuestionSource, rng Rand) *Generator {
	return &Generator{
		bank:   bank,
		source: source,
		rng:    rng,
	}
}

// Generate runs the core pipeline over pool: resolve, sample, then format.
// Choice-mode distractors are drawn from the shuffled resolved pool.
func (g *Generator) Generate(req GenerationRequest, pool SourcePool) ([]FormattedQuestion, error) {
	req = req.Normalize()

	resolved, err := Resolve(req.ResolverInput(), req.GenreHint, pool)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve topic %q: %w", req.ResolverInput(), err)
	}

	selected, shuffled, err := sampleWithPool(g.rng, resolved, req.QuestionCount)
	if err != nil {
		return nil, fmt.Errorf("failed to sample questions: %w", err)
	}

	formatter := NewFormatter(g.rng, PoolDistractors(g.rng, shuffled, g.bank.FallbackAnswers))
	questions := make([]FormattedQuestion, 0, len(selected))
	for _, record := range selected {
		questions = append(questions, formatter.Format(record, req.Mode, req.Difficulty))
	}
	return questions, nil
}

// FetchPool returns the external source's pool for req, or the static bank
// when there is no source or it fails.
func (g *Generator) FetchPool(ctx context.Context, req GenerationRequest, logger *GenerationLogger) SourcePool {
	if g.source == nil {
		return g.bank.Pool
	}
	pool, err := g.source.FetchPool(ctx, req, logger)
	if err == nil && pool.IsEmpty() {
		err = ErrEmptySourcePool
	}
	if err != nil {
		log.Printf("Question source failed, using static question bank: %v", err)
		logger.LogFallback(err)
		return g.bank.Pool
	}
	return pool
}

// GenerateQuestions fetches a pool for req and runs the core pipeline over it
func (g *Generator) GenerateQuestions(ctx context.Context, req GenerationRequest) ([]FormattedQuestion, error) {
	req = req.Normalize()
	generationID := uuid.NewString()
	log.Printf("Generation %s: %d %s questions for topic %q", generationID, req.QuestionCount, req.Mode, req.ResolverInput())

	logger := g.openLogger(generationID, req)
	defer logger.Close()

	questions, err := g.Generate(req, g.FetchPool(ctx, req, logger))
	if err != nil {
		logger.Logf("Generation failed: %v\n", err)
		return nil, err
	}
	logger.Logf("Generated %d questions\n", len(questions))
	return questions, nil
}

// GenerateQuiz builds the choice questions for a timed game on sel
func (g *Generator) GenerateQuiz(ctx context.Context, sel Selection, difficulty Difficulty) ([]ChoiceQuestion, error) {
	req := GenerationRequest{
		TopicInput:    sel.Prompt(),
		GenreHint:     sel.Genre,
		Difficulty:    difficulty,
		QuestionCount: GameQuestionCount,
		Mode:          ModeChoice,
	}
	formatted, err := g.GenerateQuestions(ctx, req)
	if err != nil {
		return nil, err
	}

	questions := make([]ChoiceQuestion, 0, len(formatted))
	for _, fq := range formatted {
		if fq.Choice != nil {
			questions = append(questions, *fq.Choice)
		}
	}
	return questions, nil
}

func (g *Generator) openLogger(generationID string, req GenerationRequest) *GenerationLogger {
	if g.LogDir == "" {
		return nil
	}
	logger, err := NewGenerationLogger(g.LogDir, generationID, req)
	if err != nil {
		// Continue without logging rather than failing
		log.Printf("Failed to create generation log %s: %v", generationID, err)
		return nil
	}
	return logger
}
