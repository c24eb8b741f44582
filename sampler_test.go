package triviaiq

import (
	"fmt"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func records(n int) []QuestionRecord {
	rs := make([]QuestionRecord, n)
	for i := range rs {
		rs[i] = QuestionRecord{Text: fmt.Sprintf("Q%d", i), Answer: fmt.Sprintf("A%d", i), Category: "C"}
	}
	return rs
}

func TestShuffleBackwardPass(t *testing.T) {
	// j is always 0: i=2 swaps with 0, then i=1 swaps with 0
	got := Shuffle(&fixedRand{values: []int{0}}, []string{"a", "b", "c"})
	assert.Equal(t, []string{"b", "c", "a"}, got)
}

func TestShuffleIsPermutation(t *testing.T) {
	input := []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	got := Shuffle(NewRand(42), input)

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}, input, "input must not be modified")
	sorted := append([]int(nil), got...)
	sort.Ints(sorted)
	assert.Equal(t, input, sorted)
}

func TestShuffleSeeded(t *testing.T) {
	a := Shuffle(NewRand(7), records(20))
	b := Shuffle(NewRand(7), records(20))
	assert.Equal(t, a, b)
}

func TestSample(t *testing.T) {
	tests := []struct {
		pool  int
		count int
	}{
		{pool: 1, count: 1},
		{pool: 5, count: 3},
		{pool: 3, count: 7},
		{pool: 5, count: 25},
		{pool: 70, count: 20},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("pool %d count %d", tt.pool, tt.count), func(t *testing.T) {
			pool := records(tt.pool)
			got, err := Sample(NewRand(1), pool, tt.count)
			require.NoError(t, err)
			require.Len(t, got, tt.count)

			for i, r := range got {
				assert.Contains(t, pool, r)
				if i >= tt.pool {
					assert.Equal(t, got[i%tt.pool], r, "wrap-around repeats the shuffled pool")
				}
			}
			if tt.count <= tt.pool {
				seen := map[string]bool{}
				for _, r := range got {
					assert.False(t, seen[r.Text], "no repeats before wrap-around")
					seen[r.Text] = true
				}
			}
		})
	}
}

func TestSampleOrderFollowsShuffle(t *testing.T) {
	pool := records(3)
	got, err := Sample(&fixedRand{values: []int{0}}, pool, 7)
	require.NoError(t, err)

	want := []string{"Q1", "Q2", "Q0", "Q1", "Q2", "Q0", "Q1"}
	texts := make([]string, len(got))
	for i, r := range got {
		texts[i] = r.Text
	}
	assert.Equal(t, want, texts)
}

func TestSampleErrors(t *testing.T) {
	_, err := Sample(NewRand(1), nil, 3)
	assert.ErrorIs(t, err, ErrEmptySourcePool)

	_, err = Sample(NewRand(1), records(3), 0)
	assert.ErrorIs(t, err, ErrInvalidCount)
}
