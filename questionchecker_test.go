package triviaiq

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckRecord(t *testing.T) {
	tests := []struct {
		name   string
		record QuestionRecord
		want   ValidationAction
	}{
		{name: "valid", record: QuestionRecord{Text: "Who painted the Mona Lisa?", Answer: "Leonardo da Vinci", Category: "Art"}, want: ActionAccept},
		{name: "empty text", record: QuestionRecord{Text: "  ", Answer: "x", Category: "c"}, want: ActionReject},
		{name: "empty answer", record: QuestionRecord{Text: "Question?", Answer: "", Category: "c"}, want: ActionReject},
		{name: "empty category", record: QuestionRecord{Text: "Question?", Answer: "x", Category: ""}, want: ActionReject},
		{name: "answer given away", record: QuestionRecord{Text: "In what year did the 1969 moon landing happen?", Answer: "1969", Category: "Space"}, want: ActionReject},
		{name: "answer given away ignoring case", record: QuestionRecord{Text: "Which city is the capital of PARIS region?", Answer: "Paris", Category: "Geography"}, want: ActionReject},
	}

	checker := NewQuestionChecker(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := checker.CheckRecord(tt.record)
			assert.Equal(t, tt.want, result.Action)
			assert.NotEmpty(t, result.Reason)
		})
	}
}

func TestFilterKeepsOrder(t *testing.T) {
	records := []QuestionRecord{
		{Text: "First?", Answer: "1", Category: "c"},
		{Text: "Broken", Answer: "", Category: "c"},
		{Text: "Second?", Answer: "2", Category: "c"},
	}
	got := NewQuestionChecker(nil).Filter(records)
	assert.Equal(t, []QuestionRecord{records[0], records[2]}, got)
}
