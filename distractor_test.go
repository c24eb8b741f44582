package triviaiq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertDistractors(t *testing.T, got []string, correct string) {
	t.Helper()
	require.Len(t, got, DistractorCount)
	seen := map[string]bool{}
	for _, d := range got {
		assert.NotEqual(t, correct, d)
		assert.False(t, seen[d], "duplicate distractor %q", d)
		seen[d] = true
	}
}

func TestSynthesizePrefersSameCategory(t *testing.T) {
	pool := []QuestionRecord{
		{Text: "q1", Answer: "Newton", Category: "Physics"},
		{Text: "q2", Answer: "Darwin", Category: "Biology"},
		{Text: "q3", Answer: "Einstein", Category: "Physics"},
		{Text: "q4", Answer: "Bohr", Category: "Physics"},
	}
	got := Synthesize(&fixedRand{}, "Curie", "Physics", pool, []string{"None of the above"})

	assertDistractors(t, got, "Curie")
	assert.Equal(t, []string{"Newton", "Einstein", "None of the above"}, got)
}

func TestSynthesizeSkipsCorrectAndDuplicates(t *testing.T) {
	pool := []QuestionRecord{
		{Answer: "Paris", Category: "Capitals"},
		{Answer: "Rome", Category: "Capitals"},
		{Answer: "Rome", Category: "Capitals"},
		{Answer: "Madrid", Category: "Capitals"},
	}
	got := Synthesize(&fixedRand{}, "Paris", "Capitals", pool, nil)

	assertDistractors(t, got, "Paris")
	assert.Equal(t, []string{"Rome", "Madrid", "Option C"}, got)
}

func TestSynthesizeFallbackDraws(t *testing.T) {
	fallback := []string{"1492", "1776", "1066"}
	// Draws 1776 twice; the repeat is rejected
	got := Synthesize(&fixedRand{values: []int{1, 1, 0, 2}}, "1066", "Dates", nil, fallback)

	assertDistractors(t, got, "1066")
	assert.Equal(t, []string{"1776", "1492", "Option C"}, got)
}

func TestSynthesizePlaceholders(t *testing.T) {
	tests := []struct {
		name     string
		correct  string
		fallback []string
		want     []string
	}{
		{
			name: "empty pool and fallback",
			want: []string{"Option A", "Option B", "Option C"},
		},
		{
			name:     "fallback exhausted",
			correct:  "Yes",
			fallback: []string{"Yes"},
			want:     []string{"Option A", "Option B", "Option C"},
		},
		{
			name:     "one fallback usable",
			correct:  "Yes",
			fallback: []string{"No", "Yes"},
			want:     []string{"No", "Option B", "Option C"},
		},
		{
			name:    "placeholder equals correct answer",
			correct: "Option A",
			want:    []string{"Option B", "Option C", "Option D"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Synthesize(NewRand(3), tt.correct, "Any", nil, tt.fallback)
			assertDistractors(t, got, tt.correct)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSynthesizeAlwaysThreeUnique(t *testing.T) {
	bank := StaticQuestionBank()
	all := bank.Pool.All()

	for seed := int64(1); seed <= 50; seed++ {
		rng := NewRand(seed)
		for _, record := range all {
			got := Synthesize(rng, record.Answer, record.Category, all, bank.FallbackAnswers)
			assertDistractors(t, got, record.Answer)
		}
	}
}

func TestPlaceholderLabel(t *testing.T) {
	assert.Equal(t, "Option A", placeholderLabel(0))
	assert.Equal(t, "Option Z", placeholderLabel(25))
	assert.Equal(t, "Option 27", placeholderLabel(26))
}
