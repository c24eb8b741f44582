package triviaiq

import "fmt"

const (
	// DistractorCount is the number of wrong options per choice question
	DistractorCount     = 3
	maxSameCategory     = 2
	maxFallbackAttempts = 50
)

// DistractorFunc produces wrong answers for a correct answer and its category
type DistractorFunc func(correctAnswer, category string) []string

// Synthesize returns exactly three wrong answers, pairwise distinct and none
// equal to correctAnswer. Same-category answers from pool are preferred, then
// random generic fallbacks, then "Option X" placeholders.
func Synthesize(rng Rand, correctAnswer, category string, pool []QuestionRecord, fallback []string) []string {
	chosen := make([]string, 0, DistractorCount)
	taken := func(answer string) bool {
		if answer == correctAnswer {
			return true
		}
		for _, c := range chosen {
			if c == answer {
				return true
			}
		}
		return false
	}

	for _, record := range pool {
		if len(chosen) >= maxSameCategory {
			break
		}
		if record.Category == category && !taken(record.Answer) {
			chosen = append(chosen, record.Answer)
		}
	}

	if len(fallback) > 0 {
		for attempts := 0; len(chosen) < DistractorCount && attempts < maxFallbackAttempts; attempts++ {
			candidate := fallback[rng.Intn(len(fallback))]
			if !taken(candidate) {
				chosen = append(chosen, candidate)
			}
		}
	}

	if len(chosen) < DistractorCount {
		VerboseLog("Distractors exhausted for %q, adding %d placeholders", correctAnswer, DistractorCount-len(chosen))
	}
	for next := len(chosen); len(chosen) < DistractorCount; next++ {
		if placeholder := placeholderLabel(next); !taken(placeholder) {
			chosen = append(chosen, placeholder)
		}
	}

	return chosen
}

// placeholderLabel returns "Option A" for 0, "Option B" for 1 and so on
func placeholderLabel(n int) string {
	if n < 26 {
		return fmt.Sprintf("Option %c", 'A'+n)
	}
	return fmt.Sprintf("Option %d", n+1)
}
