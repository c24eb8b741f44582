package triviaiq

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	openai "github.com/sashabaranov/go-openai"
)

// GeneratedTopicKey is the topic key of pools returned by QuestionMaker
const GeneratedTopicKey = "generated"

// QuestionSource supplies a candidate pool for a generation request
type QuestionSource interface {
	FetchPool(ctx context.Context, req GenerationRequest, logger *GenerationLogger) (SourcePool, error)
}

// QuestionMaker sources trivia records from an OpenAI chat model
type QuestionMaker struct {
	client *openai.Client
	model  string
}

// NewQuestionMaker creates a new question maker with OpenAI client
func NewQuestionMaker(apiKey string) *QuestionMaker {
	return NewQuestionMakerWithConfig(openai.DefaultConfig(apiKey))
}

// NewQuestionMakerWithConfig creates a question maker from a client config
func NewQuestionMakerWithConfig(cfg openai.ClientConfig) *QuestionMaker {
	return &QuestionMaker{
		client: openai.NewClientWithConfig(cfg),
		model:  openai.GPT4o,
	}
}

type difficultyCalibration struct {
	description string
	examples    string
	challenge   string
}

var difficultyCalibrations = map[Difficulty]difficultyCalibration{
	DifficultyEasy: {
		description: "easy to answer, requiring general knowledge that most people would know",
		examples:    "Basic facts, common knowledge, well-known information accessible to casual audiences",
		challenge:   "Should be answerable by someone with basic general education",
	},
	DifficultyMedium: {
		description: "moderately challenging, requiring specific knowledge or deeper understanding",
		examples:    "Requires attention to detail, some specialized knowledge, or connecting multiple concepts",
		challenge:   "Should require thought and some specific knowledge beyond casual familiarity",
	},
	DifficultyHard: {
		description: "difficult and detailed, requiring expert-level knowledge or obscure facts",
		examples:    "Deep knowledge, obscure details, technical specifics, lesser-known historical facts",
		challenge:   "Should challenge even knowledgeable enthusiasts in the subject",
	},
	DifficultyImpossible: {
		description: "extremely challenging, requiring deep expert knowledge, rare historical details, or highly specialized information",
		examples:    "Extremely specific dates, ultra-obscure facts, technical minutiae, esoteric knowledge",
		challenge:   "Should only be answerable by true experts or those with encyclopedic knowledge",
	},
}

// FetchPool asks the model for req.QuestionCount records about the request's
// topic. Records that fail validation or repeat an earlier question are dropped.
func (qm *QuestionMaker) FetchPool(ctx context.Context, req GenerationRequest, logger *GenerationLogger) (SourcePool, error) {
	req = req.Normalize()
	log.Printf("Requesting %d questions for topic: %s", req.QuestionCount, req.ResolverInput())

	prompt := qm.buildPrompt(req, uuid.NewString()[:8])
	logger.LogLLMRequest("QuestionMaker", prompt)

	resp, err := qm.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model: qm.model,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleSystem,
					Content: "You are an expert trivia question creator with a focus on factual accuracy and proper difficulty calibration.",
				},
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
			Tools: []openai.Tool{
				{
					Type: openai.ToolTypeFunction,
					Function: &openai.FunctionDefinition{
						Name:        "submit_questions",
						Description: "Submit generated trivia questions",
						Parameters: map[string]interface{}{
							"type": "object",
							"properties": map[string]interface{}{
								"questions": map[string]interface{}{
									"type": "array",
									"items": map[string]interface{}{
										"type": "object",
										"properties": map[string]interface{}{
											"question": map[string]interface{}{
												"type":        "string",
												"description": "The question text",
											},
											"answer": map[string]interface{}{
												"type":        "string",
												"description": "Precise, factual answer",
											},
											"category": map[string]interface{}{
												"type":        "string",
												"description": "Specific category of the question",
											},
										},
										"required": []string{"question", "answer", "category"},
									},
								},
							},
							"required": []string{"questions"},
						},
					},
				},
			},
			ToolChoice: openai.ToolChoice{
				Type: openai.ToolTypeFunction,
				Function: openai.ToolFunction{
					Name: "submit_questions",
				},
			},
		},
	)
	if err != nil {
		return SourcePool{}, fmt.Errorf("failed to generate questions: %w", err)
	}

	if len(resp.Choices) == 0 {
		return SourcePool{}, fmt.Errorf("no response from model")
	}
	choice := resp.Choices[0]
	if len(choice.Message.ToolCalls) == 0 {
		return SourcePool{}, fmt.Errorf("no tool calls in response")
	}
	toolCall := choice.Message.ToolCalls[0]
	if toolCall.Function.Name != "submit_questions" {
		return SourcePool{}, fmt.Errorf("unexpected tool call: %s", toolCall.Function.Name)
	}
	logger.LogLLMResponse("QuestionMaker", toolCall.Function.Arguments)

	var toolArgs struct {
		Questions []struct {
			Question string `json:"question"`
			Answer   string `json:"answer"`
			Category string `json:"category"`
		} `json:"questions"`
	}
	if err := json.Unmarshal([]byte(toolCall.Function.Arguments), &toolArgs); err != nil {
		return SourcePool{}, fmt.Errorf("failed to parse tool arguments: %w", err)
	}

	records := make([]QuestionRecord, 0, len(toolArgs.Questions))
	for _, q := range toolArgs.Questions {
		records = append(records, QuestionRecord{
			Text:     strings.TrimSpace(q.Question),
			Answer:   strings.TrimSpace(q.Answer),
			Category: strings.TrimSpace(q.Category),
		})
	}

	records = NewQuestionChecker(logger).Filter(records)
	records = NewQuestionDedup(logger).Unique(records)
	if len(records) == 0 {
		return SourcePool{}, fmt.Errorf("model returned no usable questions: %w", ErrEmptySourcePool)
	}

	log.Printf("Received %d usable questions of %d requested", len(records), req.QuestionCount)
	return SinglePool(GeneratedTopicKey, req.ResolverInput(), records), nil
}

func (qm *QuestionMaker) buildPrompt(req GenerationRequest, diversitySeed string) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Generate exactly %d unique, high-quality trivia questions about: %s\n\n", req.QuestionCount, req.ResolverInput()))
	if req.GenreHint != "" {
		sb.WriteString(fmt.Sprintf("Genre: %s\n\n", req.GenreHint))
	}

	if cal, ok := difficultyCalibrations[req.Difficulty]; ok {
		sb.WriteString(fmt.Sprintf("DIFFICULTY CALIBRATION FOR %s:\n", strings.ToUpper(string(req.Difficulty))))
		sb.WriteString(fmt.Sprintf("- Level: %s\n", cal.description))
		sb.WriteString(fmt.Sprintf("- Examples: %s\n", cal.examples))
		sb.WriteString(fmt.Sprintf("- Challenge standard: %s\n\n", cal.challenge))
	} else {
		sb.WriteString(fmt.Sprintf("Difficulty level: %s\n\n", req.Difficulty))
	}

	sb.WriteString("Requirements:\n")
	sb.WriteString("- Questions must be unique to this difficulty level\n")
	sb.WriteString("- Never give away the answer or obvious hints in the question text\n")
	sb.WriteString("- Every answer must be a verified, indisputable fact\n")
	sb.WriteString("- Answers should be short, specific and unambiguous\n")
	sb.WriteString("- Vary the question types: dates, people, places, events, concepts, records\n")
	sb.WriteString("- Give each question a specific category; reuse categories for related questions\n")
	sb.WriteString("- Use the submit_questions tool to return your questions\n\n")
	sb.WriteString(fmt.Sprintf("Diversity seed: %s\n", diversitySeed))

	return sb.String()
}
