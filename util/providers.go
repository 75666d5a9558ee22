package util

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// promptSuffix is appended to every image prompt before dispatch.
const promptSuffix = ". Ultra high resolution, professional photography, cinematic composition, dramatic lighting, 8k quality, highly detailed, masterpiece, award-winning photography."

const negativePrompt = "blurry, low quality, distorted, watermark, text"

// ImageDimensions is the target pixel size for a given aspect ratio.
type ImageDimensions struct {
	Width  int
	Height int
}

var aspectRatioDimensions = map[string]ImageDimensions{
	"16:9": {Width: 1920, Height: 1080},
	"9:16": {Width: 1080, Height: 1920},
	"1:1":  {Width: 1024, Height: 1024},
}

func DimensionsForAspectRatio(aspectRatio string) ImageDimensions {
	if dims, ok := aspectRatioDimensions[aspectRatio]; ok {
		return dims
	}
	return aspectRatioDimensions["16:9"]
}

// ImageProvider generates one image for a prompt. The returned location is
// either an http(s) URL or a base64 data URI, depending on the backend.
type ImageProvider interface {
	Name() string
	GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error)
}

// SpeechProvider synthesizes narration audio. Duration is in seconds; a zero
// duration means the backend didn't report one and the caller should estimate.
type SpeechProvider interface {
	Name() string
	GenerateSpeech(ctx context.Context, text, voiceType string) (string, float64, error)
}

// EstimateSpeechDuration assumes a speaking rate of 150 words per minute,
// with a 3 second floor.
func EstimateSpeechDuration(text string) float64 {
	words := WordCount(text)
	return math.Max(3, float64(words)/150*60)
}

// StableDiffusionProvider talks to a local Automatic1111-compatible server.
type StableDiffusionProvider struct {
	BaseURL    string
	HTTPClient *http.Client
}

func NewStableDiffusionProvider(baseURL string) *StableDiffusionProvider {
	return &StableDiffusionProvider{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

func (p *StableDiffusionProvider) Name() string { return "stable-diffusion" }

func (p *StableDiffusionProvider) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	dims := DimensionsForAspectRatio(aspectRatio)

	reqBody := map[string]interface{}{
		"prompt":          prompt,
		"negative_prompt": negativePrompt,
		"width":           dims.Width,
		"height":          dims.Height,
		"steps":           20,
		"cfg_scale":       7,
		"sampler_index":   "DPM++ 2M Karras",
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", p.BaseURL+"/sdapi/v1/txt2img", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("txt2img failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	var result struct {
		Images []string `json:"images"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	if len(result.Images) == 0 {
		return "", errors.New("txt2img returned no images")
	}

	return "data:image/png;base64," + result.Images[0], nil
}

// DallEProvider generates images with DALL-E 3.
type DallEProvider struct {
	client *openai.Client
}

func NewDallEProvider(apiKey string) *DallEProvider {
	return &DallEProvider{client: openai.NewClient(apiKey)}
}

func (p *DallEProvider) Name() string { return "dall-e" }

func (p *DallEProvider) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	resp, err := p.client.CreateImage(ctx, openai.ImageRequest{
		Model:   openai.CreateImageModelDallE3,
		Prompt:  prompt,
		Size:    dalleSizeForAspectRatio(aspectRatio),
		Quality: openai.CreateImageQualityHD,
		N:       1,
	})
	if err != nil {
		return "", fmt.Errorf("error creating image: %v", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].URL == "" {
		return "", errors.New("no image returned from the API")
	}
	return resp.Data[0].URL, nil
}

// DALL-E 3 only supports three fixed sizes; pick the closest orientation.
func dalleSizeForAspectRatio(aspectRatio string) string {
	switch aspectRatio {
	case "9:16":
		return openai.CreateImageSize1024x1792
	case "1:1":
		return openai.CreateImageSize1024x1024
	default:
		return openai.CreateImageSize1792x1024
	}
}

// OpenAISpeechProvider synthesizes narration with OpenAI TTS.
type OpenAISpeechProvider struct {
	client *openai.Client
}

func NewOpenAISpeechProvider(apiKey string) *OpenAISpeechProvider {
	return &OpenAISpeechProvider{client: openai.NewClient(apiKey)}
}

func (p *OpenAISpeechProvider) Name() string { return "openai-tts" }

func (p *OpenAISpeechProvider) GenerateSpeech(ctx context.Context, text, voiceType string) (string, float64, error) {
	voice := openai.VoiceNova
	if voiceType == "male" {
		voice = openai.VoiceOnyx
	}

	resp, err := p.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.TTSModel1HD,
		Input:          text,
		Voice:          voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
		Speed:          1.0,
	})
	if err != nil {
		return "", 0, fmt.Errorf("error creating speech: %v", err)
	}
	defer resp.Close()

	audio, err := io.ReadAll(resp)
	if err != nil {
		return "", 0, fmt.Errorf("error reading audio stream: %v", err)
	}

	dataURI := "data:audio/mp3;base64," + base64.StdEncoding.EncodeToString(audio)
	return dataURI, 0, nil
}

// elevenLabsVoices maps voice types to ElevenLabs voice identifiers.
var elevenLabsVoices = map[string]string{
	"female": "21m00Tcm4TlvDq8ikWAM",
	"male":   "pNInz6obpgDQGcFmaJgB",
}

// ElevenLabsProvider is the fallback TTS backend.
type ElevenLabsProvider struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

func NewElevenLabsProvider(apiKey string) *ElevenLabsProvider {
	return &ElevenLabsProvider{
		BaseURL: "https://api.elevenlabs.io",
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

func (p *ElevenLabsProvider) Name() string { return "elevenlabs" }

func (p *ElevenLabsProvider) GenerateSpeech(ctx context.Context, text, voiceType string) (string, float64, error) {
	voiceID, ok := elevenLabsVoices[voiceType]
	if !ok {
		voiceID = elevenLabsVoices["female"]
	}

	reqBody := map[string]interface{}{
		"text":     text,
		"model_id": "eleven_multilingual_v2",
		"voice_settings": map[string]interface{}{
			"stability":         0.5,
			"similarity_boost":  0.75,
			"style":             0.0,
			"use_speaker_boost": true,
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", 0, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := strings.TrimSuffix(p.BaseURL, "/") + "/v1/text-to-speech/" + voiceID
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("xi-api-key", p.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("text-to-speech failed: status %d, body: %s", resp.StatusCode, string(body))
	}

	dataURI := "data:audio/mp3;base64," + base64.StdEncoding.EncodeToString(body)
	return dataURI, 0, nil
}
