package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pkg/errors"
	"google.golang.org/genai"

	"github.com/lohszeying/api-task-assignment/logging"
	"github.com/lohszeying/api-task-assignment/models"
)

const DefaultGeminiModel = "gemini-2.5-flash"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClassifier asks a Gemini model to tag task descriptions with skill ids.
type GeminiClassifier struct {
	gen   contentGenerator
	model string
}

func NewGeminiClassifier(ctx context.Context, apiKey, model string) (*GeminiClassifier, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("GEMINI_API_KEY is not configured")
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create Gemini client")
	}
	return newGeminiClassifier(c.Models, model), nil
}

func newGeminiClassifier(gen contentGenerator, model string) *GeminiClassifier {
	if model == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClassifier{gen: gen, model: model}
}

func (g *GeminiClassifier) ClassifySkills(ctx context.Context, req models.ClassificationRequest) (map[string]any, error) {
	prompt, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	resp, err := g.gen.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return nil, errors.Wrap(err, "gemini request failed")
	}
	if resp == nil {
		return nil, errors.New("gemini returned no response")
	}

	text := resp.Text()
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("gemini did not return any content")
	}

	suggestions, err := parseSuggestions(text)
	if err != nil {
		logging.Logger.Debugf("Event ID: GEMINI_INVALID_RESPONSE, Description: Unparseable classifier response: %s", text)
		return nil, err
	}
	return suggestions, nil
}

func buildPrompt(req models.ClassificationRequest) (string, error) {
	skills, err := json.Marshal(req.Skills)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode skills")
	}
	tasks, err := json.Marshal(req.Tasks)
	if err != nil {
		return "", errors.Wrap(err, "failed to encode tasks")
	}

	return fmt.Sprintf(`<Example>
The available skills in this example are: {"1": "Frontend", "2": "Backend"}.

Tasks are given as a map from task id to task description, for example:
{"task-1": "As a user, I want to be able to use the website on both PC and phone.", "task-2": "As a logged-in user, I want to update my profile information and upload a profile picture."}

Assign the skill or skills best suited to each task according to its description. Answer with a map
from task id to an array of skill ids, for example:
{"task-1": [1], "task-2": [1, 2]}
"task-1" gets [1] because it needs Frontend work, while "task-2" gets [1, 2] because it needs both
Frontend and Backend work.
</Example>

Return only JSON mapping every task id to an array of skill ids, using:
- Available skills: %s
- Tasks: %s
`, skills, tasks), nil
}

// parseSuggestions decodes a JSON object, tolerating a surrounding markdown code fence.
// Numbers are kept as json.Number so non-integer ids can be told apart later.
func parseSuggestions(text string) (map[string]any, error) {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(text)))
	dec.UseNumber()

	var suggestions map[string]any
	if err := dec.Decode(&suggestions); err != nil {
		return nil, errors.Wrap(err, "gemini returned invalid JSON")
	}
	if suggestions == nil {
		return nil, errors.New("gemini returned a non-object JSON value")
	}
	return suggestions, nil
}
