package triviaiq

import (
	"math/rand"
	"time"
)

// Rand is the source of randomness used for shuffling and distractor draws.
// *rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
}

// NewRand returns a seeded random source. A zero seed uses the current time.
func NewRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// Shuffle returns a uniformly permuted copy of items using a backward
// Fisher-Yates pass. The input slice is left untouched.
func Shuffle[T any](rng Rand, items []T) []T {
	shuffled := make([]T, len(items))
	copy(shuffled, items)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

// Sample returns count records from pool. The pool is shuffled once and then
// indexed modulo its length, so a short pool repeats in a fixed cycle.
func Sample(rng Rand, pool []QuestionRecord, count int) ([]QuestionRecord, error) {
	selected, _, err := sampleWithPool(rng, pool, count)
	return selected, err
}

// sampleWithPool is Sample that also returns the shuffled pool it indexed
func sampleWithPool(rng Rand, pool []QuestionRecord, count int) ([]QuestionRecord, []QuestionRecord, error) {
	if len(pool) == 0 {
		return nil, nil, ErrEmptySourcePool
	}
	if count < 1 {
		return nil, nil, ErrInvalidCount
	}
	shuffled := Shuffle(rng, pool)
	return pick(shuffled, count), shuffled, nil
}

func pick(shuffled []QuestionRecord, count int) []QuestionRecord {
	selected := make([]QuestionRecord, count)
	for i := range selected {
		selected[i] = shuffled[i%len(shuffled)]
	}
	return selected
}
