package triviaiq

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticQuestionBank(t *testing.T) {
	bank := StaticQuestionBank()

	assert.Equal(t, 70, bank.Pool.Size())
	assert.Len(t, bank.FallbackAnswers, 23)

	var keys []string
	for _, topic := range bank.Pool.Topics {
		keys = append(keys, topic.Key)
	}
	assert.Equal(t, []string{"history", "science", "geography", "entertainment", "sports", "technology"}, keys)

	checker := NewQuestionChecker(nil)
	for _, record := range bank.Pool.All() {
		assert.Equal(t, ActionAccept, checker.CheckRecord(record).Action, record.Text)
	}
}

func TestStaticQuestionBankIsFresh(t *testing.T) {
	a := StaticQuestionBank()
	a.Pool.Topics[0].Subtopics[0].Records[0].Answer = "changed"
	a.FallbackAnswers = nil

	b := StaticQuestionBank()
	assert.NotEqual(t, "changed", b.Pool.Topics[0].Subtopics[0].Records[0].Answer)
	assert.Len(t, b.FallbackAnswers, 23)
}

func TestParseQuestionBankRejectsUnknownFields(t *testing.T) {
	_, err := ParseQuestionBank([]byte("topics: []\nfallbacks: [x]\n"))
	assert.Error(t, err)
}

func TestParseQuestionBankRejectsMultipleDocuments(t *testing.T) {
	_, err := ParseQuestionBank([]byte("topics: []\n---\ntopics: []\n"))
	assert.ErrorContains(t, err, "multiple YAML documents")

	bank, err := ParseQuestionBank([]byte("topics: []\nfallback_answers: [x]\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, bank.FallbackAnswers)
}

func TestSourcePoolMerge(t *testing.T) {
	base := SourcePool{Topics: []TopicGroup{
		{Key: "history", Subtopics: []SubtopicGroup{
			{Label: "World Wars", Records: []QuestionRecord{{Text: "w1"}}},
		}},
		{Key: "science", Subtopics: []SubtopicGroup{
			{Label: "Physics", Records: []QuestionRecord{{Text: "p1"}}},
		}},
	}}
	stored := SourcePool{Topics: []TopicGroup{
		{Key: "literature", Subtopics: []SubtopicGroup{
			{Label: "Poetry", Records: []QuestionRecord{{Text: "l1"}}},
		}},
		{Key: "history", Subtopics: []SubtopicGroup{
			{Label: "World Wars", Records: []QuestionRecord{{Text: "w2"}}},
			{Label: "General History", Records: []QuestionRecord{{Text: "g1"}}},
		}},
	}}

	merged := base.Merge(stored)
	assert.Equal(t, 5, merged.Size())
	assert.Equal(t, []QuestionRecord{{Text: "w1"}, {Text: "w2"}, {Text: "g1"}, {Text: "p1"}, {Text: "l1"}}, merged.All())

	require.Len(t, base.Topics[0].Subtopics[0].Records, 1, "merge leaves its inputs untouched")
	assert.Equal(t, base.All(), base.Merge(SourcePool{}).All())
}

func TestSinglePool(t *testing.T) {
	pool := SinglePool(GeneratedTopicKey, "Jazz", []QuestionRecord{{Text: "a"}, {Text: "b"}})
	assert.Equal(t, 2, pool.Size())
	assert.False(t, pool.IsEmpty())
	assert.Equal(t, "generated", pool.Topics[0].Key)
	assert.Equal(t, "Jazz", pool.Topics[0].Subtopics[0].Label)

	assert.True(t, SinglePool("x", "y", nil).IsEmpty())
	assert.True(t, SourcePool{}.IsEmpty())
}
