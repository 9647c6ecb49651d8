package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"advisor/internal/config"
	"advisor/internal/model"
)

// AssistantService phrases advisor replies via the Gemini API. The engine
// decides WHAT to ask; the assistant only rewords it conversationally. When
// the API is not configured or fails, the engine's deterministic text is
// returned as-is, so the advisory loop never depends on the network.
type AssistantService struct {
	config *config.AIConfig
	client *http.Client
}

// NewAssistantService creates a new assistant service
func NewAssistantService() *AssistantService {
	cfg := config.DefaultAIConfig()
	return &AssistantService{
		config: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.TimeoutMS) * time.Millisecond,
		},
	}
}

// PhraseReply turns the deterministic next question into a conversational
// advisor reply. Falls back to the deterministic text on any failure.
func (s *AssistantService) PhraseReply(ctx context.Context, topicName string, next model.NextQuestion) string {
	if !s.config.IsEnabled() {
		return next.Text
	}

	prompt := s.buildReplyPrompt(topicName, next)
	response, err := s.callGemini(ctx, s.config.Models.Reply, prompt)
	if err != nil {
		return next.Text
	}

	var result struct {
		Reply string `json:"reply"`
	}
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return next.Text
	}
	if strings.TrimSpace(result.Reply) == "" {
		return next.Text
	}

	return result.Reply
}

// PolishNarrative rewords a derived topic narrative for readability. The
// polished text is display-only and never written back into the state.
func (s *AssistantService) PolishNarrative(ctx context.Context, topicName, narrative string) string {
	if !s.config.IsEnabled() || narrative == "" {
		return narrative
	}

	prompt := s.buildNarrativePrompt(topicName, narrative)
	response, err := s.callGemini(ctx, s.config.Models.Summary, prompt)
	if err != nil {
		return narrative
	}

	var result struct {
		Narrative string `json:"narrative"`
	}
	if err := json.Unmarshal([]byte(response), &result); err != nil {
		return narrative
	}
	if strings.TrimSpace(result.Narrative) == "" {
		return narrative
	}

	return result.Narrative
}

// callGemini makes a request to the Gemini API
func (s *AssistantService) callGemini(ctx context.Context, modelName, prompt string) (string, error) {
	reqBody := map[string]interface{}{
		"contents": []map[string]interface{}{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]interface{}{
			"responseMimeType": "application/json",
		},
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s?key=%s", s.config.ModelEndpoint(modelName), s.config.APIKey)
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	// Parse Gemini response structure
	var geminiResp struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(body, &geminiResp); err != nil {
		return "", err
	}

	if len(geminiResp.Candidates) > 0 && len(geminiResp.Candidates[0].Content.Parts) > 0 {
		return geminiResp.Candidates[0].Content.Parts[0].Text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}

// Prompt builders
func (s *AssistantService) buildReplyPrompt(topicName string, next model.NextQuestion) string {
	unmetStr := strings.Join(next.UnmetList, "; ")

	return fmt.Sprintf(`You are a friendly financial advisor collecting facts about a business.
Return ONLY valid JSON: {"reply": "..."}

Topic being discussed: %s
The exact question you must ask: %s
Other facts still missing for this topic: %s

Reword the question conversationally. Do NOT change what is being asked,
do NOT ask about anything else, and keep it to one or two sentences.`,
		topicName, next.Text, unmetStr)
}

func (s *AssistantService) buildNarrativePrompt(topicName, narrative string) string {
	return fmt.Sprintf(`Polish this business summary sentence for readability.
Return ONLY valid JSON: {"narrative": "..."}

Topic: %s
Summary: %s

Keep every number and fact exactly as given. Change wording only.`,
		topicName, narrative)
}
