package util

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	models "visionforge-backend/models"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
)

// AssetGenerator drives the image and speech provider chains for one scene at
// a time. Base64 provider output is uploaded to GCS so the render service
// gets http URLs.
type AssetGenerator struct {
	ImageProviders  []ImageProvider
	SpeechProviders []SpeechProvider

	Storage *storage.Client
	Bucket  string
}

type ImageResult struct {
	ImageURL    string `json:"imageUrl"`
	SceneNumber int    `json:"sceneNumber"`
}

type SpeechResult struct {
	AudioURL    string  `json:"audioUrl"`
	SceneNumber int     `json:"sceneNumber"`
	Duration    float64 `json:"duration"`
}

// DefaultAssetGenerator wires the provider chains from the environment:
// local Stable Diffusion before DALL-E for images, OpenAI TTS before
// ElevenLabs for speech.
func DefaultAssetGenerator() *AssetGenerator {
	gen := &AssetGenerator{}

	openaiKey := os.Getenv("OPENAI_API_KEY")

	if sdURL := os.Getenv("LOCAL_SD_URL"); sdURL != "" {
		gen.ImageProviders = append(gen.ImageProviders, NewStableDiffusionProvider(sdURL))
	}
	if openaiKey != "" {
		gen.ImageProviders = append(gen.ImageProviders, NewDallEProvider(openaiKey))
		gen.SpeechProviders = append(gen.SpeechProviders, NewOpenAISpeechProvider(openaiKey))
	}
	if elKey := os.Getenv("ELEVENLABS_API_KEY"); elKey != "" {
		gen.SpeechProviders = append(gen.SpeechProviders, NewElevenLabsProvider(elKey))
	}

	if bucket := os.Getenv("GCS_BUCKET"); bucket != "" {
		client, err := GetGCPClient(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
		if err != nil {
			log.Printf("[ERROR] Error creating GCS client, assets stay as data URIs: %v", err)
		} else {
			gen.Storage = client
			gen.Bucket = bucket
		}
	}

	return gen
}

// GenerateImage tries each image provider in order and returns the first
// usable result. The prompt is enriched with fixed quality modifiers first.
func (g *AssetGenerator) GenerateImage(ctx context.Context, prompt, aspectRatio string, sceneNumber int) (*ImageResult, error) {
	if len(g.ImageProviders) == 0 {
		return nil, &GenerationError{Stage: "image", SceneNumber: sceneNumber, Err: errors.New("no image providers configured")}
	}

	enriched := prompt + promptSuffix

	var lastErr error
	for _, provider := range g.ImageProviders {
		imageURL, err := provider.GenerateImage(ctx, enriched, aspectRatio)
		if err != nil {
			log.Printf("[ERROR] Image generation with %s failed for scene %d: %v", provider.Name(), sceneNumber, err)
			lastErr = err
			continue
		}

		imageURL = g.publishAsset(ctx, imageURL, assetObjectName(sceneNumber, "image.png"))

		log.Printf("[INFO] Generated image for scene %d with %s", sceneNumber, provider.Name())
		return &ImageResult{ImageURL: imageURL, SceneNumber: sceneNumber}, nil
	}

	return nil, &GenerationError{Stage: "image", SceneNumber: sceneNumber, Err: lastErr}
}

// GenerateSpeech tries each speech provider in order. When the whole chain
// fails it degrades to the placeholder sentinel with an estimated duration
// instead of failing the scene; the composer treats the sentinel as absent.
func (g *AssetGenerator) GenerateSpeech(ctx context.Context, text, voiceType string, sceneNumber int) (*SpeechResult, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	for _, provider := range g.SpeechProviders {
		audioURL, duration, err := provider.GenerateSpeech(ctx, text, voiceType)
		if err != nil {
			log.Printf("[ERROR] Speech generation with %s failed for scene %d: %v", provider.Name(), sceneNumber, err)
			continue
		}

		if duration == 0 {
			duration = EstimateSpeechDuration(text)
		}

		audioURL = g.publishAsset(ctx, audioURL, assetObjectName(sceneNumber, "audio.mp3"))

		log.Printf("[INFO] Generated speech for scene %d with %s (%.1fs)", sceneNumber, provider.Name(), duration)
		return &SpeechResult{AudioURL: audioURL, SceneNumber: sceneNumber, Duration: duration}, nil
	}

	log.Printf("[INFO] All speech providers failed for scene %d, using placeholder audio", sceneNumber)
	return &SpeechResult{
		AudioURL:    PlaceholderAudioURL,
		SceneNumber: sceneNumber,
		Duration:    EstimateSpeechDuration(text),
	}, nil
}

// assetObjectName builds a collision-free object name. Scenes from different
// stories (and regeneration runs) share a bucket, and already-submitted render
// timelines keep pointing at their objects, so names must never be reused.
func assetObjectName(sceneNumber int, suffix string) string {
	return fmt.Sprintf("scene_%d_%s_%s", sceneNumber, uuid.NewString(), suffix)
}

// publishAsset uploads a data URI to GCS and returns the public URL. Without
// a storage client the data URI passes through unchanged; the composer will
// then skip it for tracks that need http URLs.
func (g *AssetGenerator) publishAsset(ctx context.Context, assetURL, objectName string) string {
	if !IsDataURI(assetURL) || assetURL == PlaceholderAudioURL {
		return assetURL
	}
	if g.Storage == nil || g.Bucket == "" {
		return assetURL
	}

	if idx := strings.IndexByte(assetURL, ','); idx >= 0 {
		if sizeMB, err := CalculateBase64ImageSizeMB(assetURL[idx+1:]); err == nil {
			log.Printf("[INFO] Publishing %s (%.2f MB)", objectName, sizeMB)
		}
	}

	publicURL, err := UploadDataURIToGCS(ctx, g.Storage, g.Bucket, objectName, assetURL)
	if err != nil {
		log.Printf("[ERROR] Error uploading asset %s: %v", objectName, err)
		return assetURL
	}
	return publicURL
}

// RegenerateImage re-runs image generation for a single scene, re-entering
// the generating state regardless of prior status.
func (g *AssetGenerator) RegenerateImage(ctx context.Context, scene *models.Scene, aspectRatio string) error {
	scene.Status = models.SceneStatusGenerating

	result, err := g.GenerateImage(ctx, scene.ImagePrompt, aspectRatio, scene.SceneNumber)
	if err != nil {
		scene.Status = models.SceneStatusError
		return err
	}

	scene.ImageURL = result.ImageURL
	scene.Status = models.SceneStatusReady
	return nil
}

// RegenerateSpeech re-runs speech generation for a single scene. Status is
// untouched; speech is independent of the image lifecycle.
func (g *AssetGenerator) RegenerateSpeech(ctx context.Context, scene *models.Scene, voiceType string) error {
	result, err := g.GenerateSpeech(ctx, scene.NarrationText, voiceType, scene.SceneNumber)
	if err != nil {
		return err
	}

	scene.AudioURL = result.AudioURL
	scene.Duration = result.Duration
	return nil
}
