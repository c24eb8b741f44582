package triviaiq

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

//go:embed questionbank.yaml
var questionBankYAML []byte

// SubtopicGroup is an ordered set of records filed under one subtopic label
type SubtopicGroup struct {
	Label   string           `yaml:"label"`
	Records []QuestionRecord `yaml:"records"`
}

// TopicGroup collects the subtopic groups of one top-level topic key
type TopicGroup struct {
	Key       string          `yaml:"key"`
	Subtopics []SubtopicGroup `yaml:"subtopics"`
}

// SourcePool is a pool of candidate records grouped by topic and subtopic.
// Group order is significant and preserved by every operation.
type SourcePool struct {
	Topics []TopicGroup `yaml:"topics"`
}

// QuestionBank is the static question pool plus generic wrong answers
type QuestionBank struct {
	Pool            SourcePool
	FallbackAnswers []string
}

type questionBankFile struct {
	Topics          []TopicGroup `yaml:"topics"`
	FallbackAnswers []string     `yaml:"fallback_answers"`
}

// ParseQuestionBank decodes a question bank YAML document
func ParseQuestionBank(data []byte) (*QuestionBank, error) {
	var file questionBankFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("failed to parse question bank: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("failed to parse question bank: multiple YAML documents are not supported")
	}
	return &QuestionBank{
		Pool:            SourcePool{Topics: file.Topics},
		FallbackAnswers: file.FallbackAnswers,
	}, nil
}

// StaticQuestionBank returns the embedded question bank.
// Each call returns a fresh copy so callers may merge into it.
func StaticQuestionBank() *QuestionBank {
	bank, err := ParseQuestionBank(questionBankYAML)
	if err != nil {
		panic(err)
	}
	return bank
}

// Size returns the total number of records in the pool
func (p SourcePool) Size() int {
	n := 0
	for _, topic := range p.Topics {
		for _, sub := range topic.Subtopics {
			n += len(sub.Records)
		}
	}
	return n
}

// IsEmpty returns true if the pool holds no records
func (p SourcePool) IsEmpty() bool {
	return p.Size() == 0
}

// All returns every record in topic and subtopic order
func (p SourcePool) All() []QuestionRecord {
	records := make([]QuestionRecord, 0, p.Size())
	for _, topic := range p.Topics {
		for _, sub := range topic.Subtopics {
			records = append(records, sub.Records...)
		}
	}
	return records
}

// Merge returns a pool holding p's groups followed by other's.
// Groups sharing a topic key and subtopic label are concatenated in place.
func (p SourcePool) Merge(other SourcePool) SourcePool {
	merged := SourcePool{Topics: make([]TopicGroup, 0, len(p.Topics)+len(other.Topics))}
	topicIndex := make(map[string]int)

	add := func(topic TopicGroup) {
		i, ok := topicIndex[topic.Key]
		if !ok {
			topicIndex[topic.Key] = len(merged.Topics)
			merged.Topics = append(merged.Topics, TopicGroup{Key: topic.Key})
			i = len(merged.Topics) - 1
		}
		for _, sub := range topic.Subtopics {
			target := &merged.Topics[i]
			found := false
			for j := range target.Subtopics {
				if target.Subtopics[j].Label == sub.Label {
					target.Subtopics[j].Records = append(target.Subtopics[j].Records, sub.Records...)
					found = true
					break
				}
			}
			if !found {
				records := append([]QuestionRecord(nil), sub.Records...)
				target.Subtopics = append(target.Subtopics, SubtopicGroup{Label: sub.Label, Records: records})
			}
		}
	}

	for _, topic := range p.Topics {
		add(topic)
	}
	for _, topic := range other.Topics {
		add(topic)
	}
	return merged
}

// SinglePool wraps a flat list of records as a one-group pool
func SinglePool(topicKey, label string, records []QuestionRecord) SourcePool {
	return SourcePool{Topics: []TopicGroup{{
		Key:       topicKey,
		Subtopics: []SubtopicGroup{{Label: label, Records: records}},
	}}}
}
