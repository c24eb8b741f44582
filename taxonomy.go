package triviaiq

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed taxonomy.yaml
var taxonomyYAML []byte

var (
	ErrUnknownTopic    = errors.New("unknown topic")
	ErrUnknownSubtopic = errors.New("unknown subtopic")
	ErrUnknownGenre    = errors.New("unknown genre")
)

// Subtopic is the second level of the taxonomy.
// Genres is nil for general subtopics.
type Subtopic struct {
	Label  string   `yaml:"label" json:"label"`
	Genres []string `yaml:"genres,omitempty" json:"genres"`
}

// IsGeneral reports whether the subtopic offers no genre refinement
func (s Subtopic) IsGeneral() bool {
	return len(s.Genres) == 0
}

// HasGenre reports whether genre is one of the subtopic's genres
func (s Subtopic) HasGenre(genre string) bool {
	for _, g := range s.Genres {
		if strings.EqualFold(g, genre) {
			return true
		}
	}
	return false
}

// Topic is a top-level taxonomy entry
type Topic struct {
	ID        string     `yaml:"id" json:"id"`
	Name      string     `yaml:"name" json:"name"`
	Subtopics []Subtopic `yaml:"subtopics" json:"subtopics"`
}

// Subtopic looks up a subtopic by label
func (t Topic) Subtopic(label string) (Subtopic, bool) {
	for _, s := range t.Subtopics {
		if s.Label == label {
			return s, true
		}
	}
	return Subtopic{}, false
}

// Taxonomy is the static topic → subtopic → genre table
type Taxonomy struct {
	Topics []Topic `yaml:"topics" json:"topics"`
}

// ParseTaxonomy decodes a taxonomy YAML document
func ParseTaxonomy(data []byte) (*Taxonomy, error) {
	var tax Taxonomy
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&tax); err != nil {
		return nil, fmt.Errorf("failed to parse taxonomy: %w", err)
	}
	var extra yaml.Node
	if err := decoder.Decode(&extra); err != io.EOF {
		return nil, fmt.Errorf("failed to parse taxonomy: multiple YAML documents are not supported")
	}
	return &tax, nil
}

var defaultTaxonomy = func() *Taxonomy {
	tax, err := ParseTaxonomy(taxonomyYAML)
	if err != nil {
		panic(err)
	}
	return tax
}()

// DefaultTaxonomy returns the embedded taxonomy. It must not be modified.
func DefaultTaxonomy() *Taxonomy {
	return defaultTaxonomy
}

// Topic looks up a topic by ID
func (t *Taxonomy) Topic(id string) (Topic, bool) {
	for _, topic := range t.Topics {
		if topic.ID == id {
			return topic, true
		}
	}
	return Topic{}, false
}

// Selection is a validated guided topic choice
type Selection struct {
	Topic    Topic
	Subtopic Subtopic
	Genre    string
}

// Select validates a topic/subtopic/genre choice against the taxonomy
func (t *Taxonomy) Select(topicID, subtopicLabel, genre string) (Selection, error) {
	topic, ok := t.Topic(topicID)
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q", ErrUnknownTopic, topicID)
	}
	sub, ok := topic.Subtopic(subtopicLabel)
	if !ok {
		return Selection{}, fmt.Errorf("%w: %q in %s", ErrUnknownSubtopic, subtopicLabel, topic.Name)
	}
	if genre != "" && !sub.HasGenre(genre) {
		return Selection{}, fmt.Errorf("%w: %q in %s", ErrUnknownGenre, genre, sub.Label)
	}
	return Selection{Topic: topic, Subtopic: sub, Genre: genre}, nil
}

// Prompt builds the free-text topic input for a guided selection
func (s Selection) Prompt() string {
	switch {
	case s.Genre != "":
		return s.Genre + " " + s.Subtopic.Label
	case strings.HasPrefix(s.Subtopic.Label, "General"):
		return s.Topic.Name
	default:
		return s.Subtopic.Label + " in " + s.Topic.Name
	}
}

// Label is the human-readable topic label stored with high scores
func (s Selection) Label() string {
	if s.Genre == "" {
		return s.Subtopic.Label
	}
	return s.Subtopic.Label + " - " + s.Genre
}
