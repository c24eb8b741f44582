package triviaiq

import (
	"fmt"
	"strings"
)

// ValidationAction represents what the checker decided to do with a record
type ValidationAction string

const (
	ActionAccept ValidationAction = "accept"
	ActionReject ValidationAction = "reject"
)

// ValidationResult represents the result of checking a record
type ValidationResult struct {
	Action ValidationAction `json:"action"`
	Reason string           `json:"reason"`
}

// QuestionChecker screens externally sourced records before they enter a pool
type QuestionChecker struct {
	logger *GenerationLogger
}

// NewQuestionChecker creates a checker that reports verdicts to logger (may be nil)
func NewQuestionChecker(logger *GenerationLogger) *QuestionChecker {
	return &QuestionChecker{logger: logger}
}

// CheckRecord validates a single record
func (qc *QuestionChecker) CheckRecord(record QuestionRecord) ValidationResult {
	result := qc.evaluate(record)
	qc.logger.LogRecordResult(record.Text, result.Action == ActionAccept, result.Reason)
	VerboseLog("Record %q: %s - %s", record.Text, result.Action, result.Reason)
	return result
}

func (qc *QuestionChecker) evaluate(record QuestionRecord) ValidationResult {
	text := strings.TrimSpace(record.Text)
	answer := strings.TrimSpace(record.Answer)

	switch {
	case text == "":
		return ValidationResult{Action: ActionReject, Reason: "question text is empty"}
	case answer == "":
		return ValidationResult{Action: ActionReject, Reason: "answer is empty"}
	case strings.TrimSpace(record.Category) == "":
		return ValidationResult{Action: ActionReject, Reason: "category is empty"}
	case strings.Contains(strings.ToLower(text), strings.ToLower(answer)):
		return ValidationResult{Action: ActionReject, Reason: fmt.Sprintf("answer %q appears in the question text", answer)}
	}
	return ValidationResult{Action: ActionAccept, Reason: "passes all checks"}
}

// Filter returns the records that pass CheckRecord, in order
func (qc *QuestionChecker) Filter(records []QuestionRecord) []QuestionRecord {
	accepted := make([]QuestionRecord, 0, len(records))
	for _, record := range records {
		if qc.CheckRecord(record).Action == ActionAccept {
			accepted = append(accepted, record)
		}
	}
	return accepted
}
