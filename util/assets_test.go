package util_test

import (
	"context"
	"testing"

	models "visionforge-backend/models"
	util "visionforge-backend/util"

	"github.com/stretchr/testify/assert"
)

type fakeImageProvider struct {
	name    string
	url     string
	err     error
	calls   int
	prompts []string
}

func (p *fakeImageProvider) Name() string { return p.name }

func (p *fakeImageProvider) GenerateImage(ctx context.Context, prompt, aspectRatio string) (string, error) {
	p.calls++
	p.prompts = append(p.prompts, prompt)
	if p.err != nil {
		return "", p.err
	}
	return p.url, nil
}

type fakeSpeechProvider struct {
	name     string
	url      string
	duration float64
	err      error
	calls    int
}

func (p *fakeSpeechProvider) Name() string { return p.name }

func (p *fakeSpeechProvider) GenerateSpeech(ctx context.Context, text, voiceType string) (string, float64, error) {
	p.calls++
	if p.err != nil {
		return "", 0, p.err
	}
	return p.url, p.duration, nil
}

func TestGenerateImage_FirstProviderWins(t *testing.T) {
	primary := &fakeImageProvider{name: "primary", url: "https://example.com/a.png"}
	fallback := &fakeImageProvider{name: "fallback", url: "https://example.com/b.png"}
	gen := &util.AssetGenerator{ImageProviders: []util.ImageProvider{primary, fallback}}

	result, err := gen.GenerateImage(context.Background(), "a castle at dusk", "16:9", 1)

	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/a.png", result.ImageURL)
	assert.Equal(t, 1, result.SceneNumber)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 0, fallback.calls)
}

func TestGenerateImage_EnrichesPrompt(t *testing.T) {
	provider := &fakeImageProvider{name: "fake", url: "https://example.com/a.png"}
	gen := &util.AssetGenerator{ImageProviders: []util.ImageProvider{provider}}

	_, err := gen.GenerateImage(context.Background(), "a castle at dusk", "16:9", 1)

	assert.NoError(t, err)
	assert.Contains(t, provider.prompts[0], "a castle at dusk")
	assert.Contains(t, provider.prompts[0], "Ultra high resolution")
}

func TestGenerateImage_FallsBackOnError(t *testing.T) {
	primary := &fakeImageProvider{name: "primary", err: assert.AnError}
	fallback := &fakeImageProvider{name: "fallback", url: "https://example.com/b.png"}
	gen := &util.AssetGenerator{ImageProviders: []util.ImageProvider{primary, fallback}}

	result, err := gen.GenerateImage(context.Background(), "prompt", "9:16", 3)

	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/b.png", result.ImageURL)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestGenerateImage_ChainExhausted(t *testing.T) {
	primary := &fakeImageProvider{name: "primary", err: assert.AnError}
	fallback := &fakeImageProvider{name: "fallback", err: assert.AnError}
	gen := &util.AssetGenerator{ImageProviders: []util.ImageProvider{primary, fallback}}

	_, err := gen.GenerateImage(context.Background(), "prompt", "1:1", 5)

	var genErr *util.GenerationError
	assert.ErrorAs(t, err, &genErr)
	assert.Equal(t, "image", genErr.Stage)
	assert.Equal(t, 5, genErr.SceneNumber)
}

func TestGenerateSpeech_FallsBackOnError(t *testing.T) {
	primary := &fakeSpeechProvider{name: "primary", err: assert.AnError}
	fallback := &fakeSpeechProvider{name: "fallback", url: "https://example.com/a.mp3", duration: 7.5}
	gen := &util.AssetGenerator{SpeechProviders: []util.SpeechProvider{primary, fallback}}

	result, err := gen.GenerateSpeech(context.Background(), "some narration text", "female", 2)

	assert.NoError(t, err)
	assert.Equal(t, "https://example.com/a.mp3", result.AudioURL)
	assert.Equal(t, 7.5, result.Duration)
}

func TestGenerateSpeech_PlaceholderOnTotalFailure(t *testing.T) {
	primary := &fakeSpeechProvider{name: "primary", err: assert.AnError}
	fallback := &fakeSpeechProvider{name: "fallback", err: assert.AnError}
	gen := &util.AssetGenerator{SpeechProviders: []util.SpeechProvider{primary, fallback}}

	narration := storyOfWords(300)
	result, err := gen.GenerateSpeech(context.Background(), narration, "male", 4)

	assert.NoError(t, err)
	assert.Equal(t, util.PlaceholderAudioURL, result.AudioURL)
	assert.Equal(t, util.EstimateSpeechDuration(narration), result.Duration)
	assert.False(t, util.IsUsableAudioURL(result.AudioURL))
}

func TestGenerateSpeech_EstimatesMissingDuration(t *testing.T) {
	provider := &fakeSpeechProvider{name: "fake", url: "https://example.com/a.mp3", duration: 0}
	gen := &util.AssetGenerator{SpeechProviders: []util.SpeechProvider{provider}}

	narration := storyOfWords(150)
	result, err := gen.GenerateSpeech(context.Background(), narration, "female", 1)

	assert.NoError(t, err)
	assert.Equal(t, util.EstimateSpeechDuration(narration), result.Duration)
	assert.Greater(t, result.Duration, 0.0)
}

func TestEstimateSpeechDuration(t *testing.T) {
	// 150 words per minute, floor of 3 seconds
	assert.Equal(t, 60.0, util.EstimateSpeechDuration(storyOfWords(150)))
	assert.Equal(t, 3.0, util.EstimateSpeechDuration("just a few words"))
}

func TestRegenerateImage_StatusLifecycle(t *testing.T) {
	provider := &fakeImageProvider{name: "fake", url: "https://example.com/new.png"}
	gen := &util.AssetGenerator{ImageProviders: []util.ImageProvider{provider}}

	scene := &models.Scene{SceneNumber: 1, ImagePrompt: "prompt", Status: models.SceneStatusError}
	err := gen.RegenerateImage(context.Background(), scene, "16:9")

	assert.NoError(t, err)
	assert.Equal(t, models.SceneStatusReady, scene.Status)
	assert.Equal(t, "https://example.com/new.png", scene.ImageURL)
}

func TestRegenerateImage_FailureSetsError(t *testing.T) {
	provider := &fakeImageProvider{name: "fake", err: assert.AnError}
	gen := &util.AssetGenerator{ImageProviders: []util.ImageProvider{provider}}

	scene := &models.Scene{SceneNumber: 1, ImagePrompt: "prompt", Status: models.SceneStatusReady}
	err := gen.RegenerateImage(context.Background(), scene, "16:9")

	assert.Error(t, err)
	assert.Equal(t, models.SceneStatusError, scene.Status)
}

func TestRegenerateSpeech_LeavesStatusAlone(t *testing.T) {
	provider := &fakeSpeechProvider{name: "fake", url: "https://example.com/a.mp3", duration: 5}
	gen := &util.AssetGenerator{SpeechProviders: []util.SpeechProvider{provider}}

	scene := &models.Scene{SceneNumber: 2, NarrationText: "text", Status: models.SceneStatusError}
	err := gen.RegenerateSpeech(context.Background(), scene, "male")

	assert.NoError(t, err)
	assert.Equal(t, models.SceneStatusError, scene.Status)
	assert.Equal(t, "https://example.com/a.mp3", scene.AudioURL)
	assert.Equal(t, 5.0, scene.Duration)
}
