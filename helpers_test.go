package triviaiq

// fixedRand replays values in a loop, reduced modulo n
type fixedRand struct {
	values []int
	next   int
}

func (r *fixedRand) Intn(n int) int {
	if len(r.values) == 0 {
		return 0
	}
	v := r.values[r.next%len(r.values)]
	r.next++
	return v % n
}

func choiceQuestion(correct int) ChoiceQuestion {
	return ChoiceQuestion{
		Question:      "Which planet is known as the Red Planet?",
		Options:       []string{"Venus", "Mars", "Jupiter", "Saturn"},
		CorrectAnswer: correct,
		Category:      "Astronomy",
	}
}

func choiceQuestions(n int) []ChoiceQuestion {
	qs := make([]ChoiceQuestion, n)
	for i := range qs {
		qs[i] = choiceQuestion(1)
	}
	return qs
}
