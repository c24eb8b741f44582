package triviaiq

import (
	"strings"
	"unicode"
)

// QuestionDedup drops records whose question text repeats an earlier one
type QuestionDedup struct {
	logger *GenerationLogger
	seen   map[string]string // normalized text -> first original text
}

// NewQuestionDedup creates a deduplicator that reports drops to logger (may be nil)
func NewQuestionDedup(logger *GenerationLogger) *QuestionDedup {
	return &QuestionDedup{
		logger: logger,
		seen:   make(map[string]string),
	}
}

// Seed marks existing records as seen without returning them
func (qd *QuestionDedup) Seed(records []QuestionRecord) {
	for _, record := range records {
		key := normalizeQuestion(record.Text)
		if _, ok := qd.seen[key]; !ok {
			qd.seen[key] = record.Text
		}
	}
}

// IsDuplicate reports whether record repeats a seen question, marking it seen otherwise
func (qd *QuestionDedup) IsDuplicate(record QuestionRecord) bool {
	key := normalizeQuestion(record.Text)
	if original, ok := qd.seen[key]; ok {
		qd.logger.LogDedupResult(record.Text, original)
		VerboseLog("Record %q duplicates %q", record.Text, original)
		return true
	}
	qd.seen[key] = record.Text
	return false
}

// Unique returns records with duplicates removed, first occurrence kept
func (qd *QuestionDedup) Unique(records []QuestionRecord) []QuestionRecord {
	unique := make([]QuestionRecord, 0, len(records))
	for _, record := range records {
		if !qd.IsDuplicate(record) {
			unique = append(unique, record)
		}
	}
	return unique
}

// normalizeQuestion lowercases text and collapses punctuation and spacing
func normalizeQuestion(text string) string {
	var sb strings.Builder
	space := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if space && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			sb.WriteRune(r)
			space = false
		default:
			space = true
		}
	}
	return sb.String()
}
