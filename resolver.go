package triviaiq

import "strings"

// Resolve maps free-text topic input and an optional genre hint to candidate
// records from pool. It never returns an empty result for a non-empty pool:
// when nothing matches, every record in the pool is returned.
func Resolve(topicInput, genreHint string, pool SourcePool) ([]QuestionRecord, error) {
	if pool.IsEmpty() {
		return nil, ErrEmptySourcePool
	}

	input := strings.ToLower(topicInput)
	genre := strings.ToLower(strings.TrimSpace(genreHint))
	firstToken := ""
	if fields := strings.Fields(input); len(fields) > 0 {
		firstToken = fields[0]
	}

	var records []QuestionRecord
	for _, topic := range pool.Topics {
		key := strings.ToLower(topic.Key)
		if !topicMatches(key, input, firstToken) {
			continue
		}
		for _, sub := range topic.Subtopics {
			if genre == "" || subtopicMatches(strings.ToLower(sub.Label), input, genre) {
				records = append(records, sub.Records...)
			}
		}
	}

	if len(records) == 0 {
		VerboseLog("No topic match for %q (genre %q), using all %d records", topicInput, genreHint, pool.Size())
		return pool.All(), nil
	}

	VerboseLog("Resolved %q (genre %q) to %d records", topicInput, genreHint, len(records))
	return records, nil
}

func topicMatches(key, input, firstToken string) bool {
	if key == "" {
		return false
	}
	if strings.Contains(input, key) {
		return true
	}
	return firstToken != "" && strings.Contains(key, firstToken)
}

func subtopicMatches(label, input, genre string) bool {
	return strings.Contains(label, genre) || (label != "" && strings.Contains(input, label))
}
