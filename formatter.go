package triviaiq

// Formatter turns question records into open or choice questions
type Formatter struct {
	rng        Rand
	distractor DistractorFunc
}

// NewFormatter creates a formatter that draws wrong answers from distractor
func NewFormatter(rng Rand, distractor DistractorFunc) *Formatter {
	return &Formatter{rng: rng, distractor: distractor}
}

// PoolDistractors binds Synthesize to a candidate pool and fallback list
func PoolDistractors(rng Rand, pool []QuestionRecord, fallback []string) DistractorFunc {
	return func(correctAnswer, category string) []string {
		return Synthesize(rng, correctAnswer, category, pool, fallback)
	}
}

// Format builds a question in the requested mode
func (f *Formatter) Format(record QuestionRecord, mode Mode, difficulty Difficulty) FormattedQuestion {
	if mode == ModeChoice {
		choice := f.Choice(record)
		return FormattedQuestion{Choice: &choice}
	}
	return FormattedQuestion{Open: &OpenQuestion{
		Question:   record.Text,
		Answer:     record.Answer,
		Category:   record.Category,
		Difficulty: difficulty,
	}}
}

// Choice builds a multiple-choice question with the answer at a random position
func (f *Formatter) Choice(record QuestionRecord) ChoiceQuestion {
	options := append([]string{record.Answer}, f.distractor(record.Answer, record.Category)...)
	options = Shuffle(f.rng, options)

	correct := 0
	for i, option := range options {
		if option == record.Answer {
			correct = i
			break
		}
	}

	return ChoiceQuestion{
		Question:      record.Text,
		Options:       options,
		CorrectAnswer: correct,
		Category:      record.Category,
	}
}
