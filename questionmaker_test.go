package triviaiq

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOpenAI answers chat completions with a submit_questions tool call
func fakeOpenAI(t *testing.T, toolName string, questions any) (*QuestionMaker, func() []openai.ChatCompletionRequest) {
	t.Helper()
	var (
		mu       sync.Mutex
		received []openai.ChatCompletionRequest
	)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req openai.ChatCompletionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		mu.Lock()
		received = append(received, req)
		mu.Unlock()

		args, _ := json.Marshal(map[string]any{"questions": questions})
		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-test",
			Object: "chat.completion",
			Model:  req.Model,
			Choices: []openai.ChatCompletionChoice{{
				Index: 0,
				Message: openai.ChatCompletionMessage{
					Role: openai.ChatMessageRoleAssistant,
					ToolCalls: []openai.ToolCall{{
						ID:   "call_1",
						Type: openai.ToolTypeFunction,
						Function: openai.FunctionCall{
							Name:      toolName,
							Arguments: string(args),
						},
					}},
				},
				FinishReason: openai.FinishReasonToolCalls,
			}},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	return NewQuestionMakerWithConfig(cfg), func() []openai.ChatCompletionRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]openai.ChatCompletionRequest(nil), received...)
	}
}

type toolQuestion struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Category string `json:"category"`
}

func TestQuestionMakerFetchPool(t *testing.T) {
	maker, received := fakeOpenAI(t, "submit_questions", []toolQuestion{
		{Question: " Who composed The Four Seasons? ", Answer: "Vivaldi", Category: "Baroque"},
		{Question: "Who composed the Four Seasons", Answer: "Antonio Vivaldi", Category: "Baroque"},
		{Question: "Which Bach wrote the Brandenburg Concertos?", Answer: "Bach", Category: "Baroque"},
		{Question: "Who wrote the Messiah?", Answer: "", Category: "Baroque"},
		{Question: "Who composed Water Music?", Answer: "Handel", Category: "Baroque"},
	})

	req := GenerationRequest{TopicInput: "classical music", GenreHint: "Baroque", Difficulty: DifficultyHard, QuestionCount: 5}
	pool, err := maker.FetchPool(context.Background(), req, nil)
	require.NoError(t, err)

	assert.Equal(t, SinglePool(GeneratedTopicKey, "classical music", []QuestionRecord{
		{Text: "Who composed The Four Seasons?", Answer: "Vivaldi", Category: "Baroque"},
		{Text: "Who composed Water Music?", Answer: "Handel", Category: "Baroque"},
	}), pool)

	sent := received()
	require.Len(t, sent, 1)
	request := sent[0]
	assert.Equal(t, openai.GPT4o, request.Model)
	require.Len(t, request.Tools, 1)
	assert.Equal(t, "submit_questions", request.Tools[0].Function.Name)
	require.Len(t, request.Messages, 2)
	prompt := request.Messages[1].Content
	assert.Contains(t, prompt, "Generate exactly 5 unique")
	assert.Contains(t, prompt, "classical music")
	assert.Contains(t, prompt, "Genre: Baroque")
	assert.Contains(t, prompt, "DIFFICULTY CALIBRATION FOR HARD")
	assert.Contains(t, prompt, "Diversity seed: ")
}

func TestQuestionMakerNoUsableQuestions(t *testing.T) {
	maker, _ := fakeOpenAI(t, "submit_questions", []toolQuestion{
		{Question: "What is the answer?", Answer: "answer", Category: "Meta"},
	})

	_, err := maker.FetchPool(context.Background(), GenerationRequest{TopicInput: "meta"}, nil)
	assert.ErrorIs(t, err, ErrEmptySourcePool)
}

func TestQuestionMakerUnexpectedTool(t *testing.T) {
	maker, _ := fakeOpenAI(t, "submit_topic", []toolQuestion{})

	_, err := maker.FetchPool(context.Background(), GenerationRequest{TopicInput: "meta"}, nil)
	assert.ErrorContains(t, err, "unexpected tool call")
}

func TestQuestionMakerServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
	}))
	t.Cleanup(srv.Close)

	cfg := openai.DefaultConfig("test-key")
	cfg.BaseURL = srv.URL + "/v1"
	maker := NewQuestionMakerWithConfig(cfg)

	_, err := maker.FetchPool(context.Background(), GenerationRequest{TopicInput: "meta"}, nil)
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "failed to generate questions"))

	// The generator falls back to the static bank
	bank := StaticQuestionBank()
	g := NewGenerator(bank, maker, NewRand(1))
	assert.Equal(t, bank.Pool, g.FetchPool(context.Background(), GenerationRequest{TopicInput: "meta"}, nil))
}

func TestBuildPromptUnknownDifficulty(t *testing.T) {
	maker := NewQuestionMaker("unused")
	prompt := maker.buildPrompt(GenerationRequest{TopicInput: "cats", SubtopicHint: "Breeds", Difficulty: "spicy", QuestionCount: 3}, "abcd1234")

	assert.Contains(t, prompt, "about: cats Breeds")
	assert.Contains(t, prompt, "Difficulty level: spicy")
	assert.NotContains(t, prompt, "Genre:")
	assert.Contains(t, prompt, "Diversity seed: abcd1234")
}
