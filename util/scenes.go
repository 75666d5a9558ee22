package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	models "visionforge-backend/models"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const (
	MinStoryWords = 50
	MaxStoryWords = 2000
)

// SceneProvider is one scene-breakdown backend. Providers return the raw
// model text; parsing and fence-stripping happen in one place downstream.
type SceneProvider interface {
	Name() string
	BreakdownScenes(ctx context.Context, prompt string) (string, error)
}

// ValidateStory checks the story length bounds before any collaborator call.
func ValidateStory(story string) error {
	words := WordCount(story)
	if words < MinStoryWords {
		return &ValidationError{Message: fmt.Sprintf("Story is too short: at least %d words are required, got %d", MinStoryWords, words)}
	}
	if words > MaxStoryWords {
		return &ValidationError{Message: fmt.Sprintf("Story is too long: must be under %d words, got %d", MaxStoryWords, words)}
	}
	return nil
}

// GenerateScenes breaks a story into 3-7 ordered scenes, trying each provider
// in priority order until one returns a parseable response.
func GenerateScenes(ctx context.Context, providers []SceneProvider, story, style string) ([]models.Scene, error) {
	if err := ValidateStory(story); err != nil {
		return nil, err
	}

	if len(providers) == 0 {
		return nil, &GenerationError{Stage: "scenes", Err: errors.New("no scene breakdown providers configured")}
	}

	prompt := sceneBreakdownPrompt(StripEmoji(story), style)

	var lastErr error
	for _, provider := range providers {
		raw, err := provider.BreakdownScenes(ctx, prompt)
		if err != nil {
			log.Printf("[ERROR] Scene breakdown with %s failed: %v", provider.Name(), err)
			lastErr = err
			continue
		}

		scenes, err := ParseSceneResponse(raw)
		if err != nil {
			log.Printf("[ERROR] Couldn't parse scene response from %s: %v", provider.Name(), err)
			lastErr = err
			continue
		}

		log.Printf("[INFO] Generated %d scenes with %s", len(scenes), provider.Name())
		return scenes, nil
	}

	return nil, &GenerationError{Stage: "scenes", Err: lastErr}
}

// NormalizeModelJSON strips a surrounding markdown code fence from model
// output so the remainder can be parsed strictly.
func NormalizeModelJSON(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.IndexByte(trimmed, '\n'); idx >= 0 {
		// drop the language tag line, e.g. ```json
		trimmed = trimmed[idx+1:]
	}
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

// ParseSceneResponse parses a {"scenes": [...]} payload. Malformed output is
// a hard error, not a best-effort partial parse.
func ParseSceneResponse(raw string) ([]models.Scene, error) {
	normalized := NormalizeModelJSON(raw)

	var parsed struct {
		Scenes []models.Scene `json:"scenes"`
	}
	if err := json.Unmarshal([]byte(normalized), &parsed); err != nil {
		return nil, fmt.Errorf("invalid JSON in scene response: %v", err)
	}

	if parsed.Scenes == nil {
		return nil, errors.New("invalid response format: missing scenes array")
	}
	if len(parsed.Scenes) == 0 {
		return nil, errors.New("scene response contained no scenes")
	}

	// scene numbers come back sequential starting at 1; no renumbering here
	for i := range parsed.Scenes {
		parsed.Scenes[i].Status = models.SceneStatusPending
	}

	return parsed.Scenes, nil
}

func sceneBreakdownPrompt(story, style string) string {
	return fmt.Sprintf(`You are a professional cinematic scene breakdown AI for video generation. Your task is to analyze stories and break them into distinct visual scenes optimized for AI video creation.

For each scene, you must provide:
1. sceneNumber: Sequential number starting from 1
2. title: A compelling 3-5 word title
3. description: 1-2 sentences describing the visual content
4. imagePrompt: A detailed prompt optimized for %s style AI image generation. Include specific visual details, lighting, mood, composition, and artistic style keywords.
5. narrationText: The exact story text that will be narrated for this scene

Guidelines:
- Create 3-7 scenes depending on story length
- Each scene should be visually distinct and memorable
- Image prompts should be detailed and specific (50-150 words)
- Narration text should flow naturally when read aloud
- Maintain narrative continuity across scenes

Respond ONLY with valid JSON in this exact format:
{
  "scenes": [
    {
      "sceneNumber": 1,
      "title": "Scene Title Here",
      "description": "Visual description of the scene",
      "imagePrompt": "Detailed image generation prompt for %s style...",
      "narrationText": "The narration text for this scene..."
    }
  ]
}

Analyze this story and break it into cinematic scenes:

%s`, style, style, story)
}

// DefaultSceneProviders builds the provider chain from the environment:
// Gemini first, Claude as fallback.
func DefaultSceneProviders() []SceneProvider {
	var providers []SceneProvider
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		providers = append(providers, &GeminiSceneProvider{APIKey: key, Model: "gemini-1.5-flash"})
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		providers = append(providers, &AnthropicSceneProvider{APIKey: key})
	}
	return providers
}

type GeminiSceneProvider struct {
	APIKey string
	Model  string
}

func (p *GeminiSceneProvider) Name() string { return "gemini" }

func (p *GeminiSceneProvider) BreakdownScenes(ctx context.Context, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(p.APIKey))
	if err != nil {
		return "", fmt.Errorf("error creating gemini client: %v", err)
	}
	defer client.Close()

	model := client.GenerativeModel(p.Model)
	model.SetTemperature(0.7)
	model.SetTopK(40)
	model.SetTopP(0.95)
	model.SetMaxOutputTokens(8192)
	model.ResponseMIMEType = "application/json"

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("error generating content: %v", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errors.New("no content in model response")
	}

	var sb strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			sb.WriteString(string(text))
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("no text parts in model response")
	}

	return sb.String(), nil
}

type AnthropicSceneProvider struct {
	APIKey string
}

func (p *AnthropicSceneProvider) Name() string { return "claude" }

func (p *AnthropicSceneProvider) BreakdownScenes(ctx context.Context, prompt string) (string, error) {
	client := anthropic.NewClient(anthropicoption.WithAPIKey(p.APIKey))

	message, err := client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.F(anthropic.ModelClaude_3_5_Sonnet_20240620),
		MaxTokens: anthropic.F(int64(4096)),
		Messages: anthropic.F([]anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		}),
	})
	if err != nil {
		return "", fmt.Errorf("error creating message: %v", err)
	}

	if len(message.Content) == 0 {
		return "", errors.New("no content in model response")
	}

	return message.Content[0].Text, nil
}
