package triviaiq

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// GenerationLogger writes a per-generation log of LLM interactions and
// record validation outcomes
type GenerationLogger struct {
	file         *os.File
	mu           sync.Mutex
	generationID string
}

// NewGenerationLogger creates log/<generationID>.log under dir
func NewGenerationLogger(dir, generationID string, req GenerationRequest) (*GenerationLogger, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filename := filepath.Join(dir, fmt.Sprintf("%s.log", generationID))
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}

	logger := &GenerationLogger{
		file:         file,
		generationID: generationID,
	}

	logger.Logf("=== Trivia Generation Log ===\n")
	logger.Logf("Generation ID: %s\n", generationID)
	logger.Logf("Topic: %s\n", req.TopicInput)
	if req.SubtopicHint != "" {
		logger.Logf("Subtopic: %s\n", req.SubtopicHint)
	}
	if req.GenreHint != "" {
		logger.Logf("Genre: %s\n", req.GenreHint)
	}
	logger.Logf("Number of Questions: %d\n", req.QuestionCount)
	logger.Logf("Difficulty: %s\n", req.Difficulty)
	logger.Logf("Mode: %s\n", req.Mode)
	logger.Logf("Started: %s\n", time.Now().Format(time.RFC3339))
	logger.Logf("=============================\n\n")

	return logger, nil
}

// Logf writes a formatted log entry with timestamp
func (gl *GenerationLogger) Logf(format string, args ...interface{}) {
	if gl == nil {
		return
	}
	gl.mu.Lock()
	defer gl.mu.Unlock()
	gl.writeLocked(format, args...)
}

func (gl *GenerationLogger) writeLocked(format string, args ...interface{}) {
	if gl.file == nil {
		return
	}
	timestamp := time.Now().Format("15:04:05.000")
	fmt.Fprintf(gl.file, "[%s] %s", timestamp, fmt.Sprintf(format, args...))
	gl.file.Sync()
}

// LogLLMRequest logs an LLM request
func (gl *GenerationLogger) LogLLMRequest(module, prompt string) {
	gl.Logf("=== LLM REQUEST (%s) ===\n", module)
	gl.Logf("Prompt:\n%s\n", prompt)
	gl.Logf("=====================\n\n")
}

// LogLLMResponse logs an LLM response
func (gl *GenerationLogger) LogLLMResponse(module, response string) {
	gl.Logf("=== LLM RESPONSE (%s) ===\n", module)
	gl.Logf("Response:\n%s\n", response)
	gl.Logf("======================\n\n")
}

// LogRecordResult logs the validation verdict for a sourced record
func (gl *GenerationLogger) LogRecordResult(text string, accepted bool, reason string) {
	verdict := "ACCEPTED"
	if !accepted {
		verdict = "REJECTED"
	}
	gl.Logf("Record %q: %s - %s\n", text, verdict, reason)
}

// LogDedupResult logs a record dropped as a duplicate
func (gl *GenerationLogger) LogDedupResult(text, duplicateOf string) {
	gl.Logf("Record %q: DUPLICATE of %q\n", text, duplicateOf)
}

// LogFallback logs that the static pool replaced the external source
func (gl *GenerationLogger) LogFallback(err error) {
	gl.Logf("Falling back to static question bank: %v\n", err)
}

// Close closes the log file
func (gl *GenerationLogger) Close() error {
	if gl == nil {
		return nil
	}
	gl.mu.Lock()
	defer gl.mu.Unlock()

	if gl.file == nil {
		return nil
	}
	gl.writeLocked("=== Trivia Generation Complete ===\n")
	gl.writeLocked("Completed: %s\n", time.Now().Format(time.RFC3339))
	err := gl.file.Close()
	gl.file = nil
	return err
}
