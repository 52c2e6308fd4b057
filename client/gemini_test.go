package client

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/lohszeying/api-task-assignment/models"
)

type fakeGenerator struct {
	text     string
	err      error
	model    string
	prompt   string
	mimeType string
}

func (f *fakeGenerator) GenerateContent(_ context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if config != nil {
		f.mimeType = config.ResponseMIMEType
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func classificationRequest() models.ClassificationRequest {
	return models.ClassificationRequest{
		Tasks:  map[string]string{"task-1": "Build the login page"},
		Skills: map[int]string{1: "Frontend", 2: "Backend"},
	}
}

func TestGeminiClassifier_ParsesSuggestions(t *testing.T) {
	gen := &fakeGenerator{text: `{"task-1": [1, 2.5, "2"]}`}
	classifier := newGeminiClassifier(gen, "")

	got, err := classifier.ClassifySkills(context.Background(), classificationRequest())
	require.NoError(t, err)

	assert.Equal(t, DefaultGeminiModel, gen.model)
	assert.Equal(t, "application/json", gen.mimeType)
	assert.Contains(t, gen.prompt, `"task-1":"Build the login page"`)
	assert.Contains(t, gen.prompt, `"1":"Frontend"`)

	values, ok := got["task-1"].([]any)
	require.True(t, ok)
	assert.Equal(t, []any{json.Number("1"), json.Number("2.5"), "2"}, values)
}

func TestGeminiClassifier_AcceptsFencedJSON(t *testing.T) {
	gen := &fakeGenerator{text: "```json\n{\"task-1\": [1]}\n```"}

	got, err := newGeminiClassifier(gen, "gemini-test").ClassifySkills(context.Background(), classificationRequest())
	require.NoError(t, err)
	assert.Equal(t, "gemini-test", gen.model)
	assert.Contains(t, got, "task-1")
}

func TestGeminiClassifier_Failures(t *testing.T) {
	cases := map[string]*fakeGenerator{
		"request error": {err: assert.AnError},
		"empty text":    {text: "  "},
		"not json":      {text: "Frontend, obviously"},
		"json array":    {text: "[1, 2]"},
		"json null":     {text: "null"},
	}

	for name, gen := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := newGeminiClassifier(gen, "").ClassifySkills(context.Background(), classificationRequest())
			assert.Error(t, err)
		})
	}
}

func TestNewGeminiClassifier_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClassifier(context.Background(), " ", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEMINI_API_KEY")
}
