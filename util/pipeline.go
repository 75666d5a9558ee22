package util

import (
	"context"
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	models "visionforge-backend/models"
)

const (
	TaskImage = "image"
	TaskAudio = "audio"
	TaskIdle  = "idle"
)

// DefaultSceneDelay is the inter-scene pacing used to smooth request rate
// against rate-limited providers.
const DefaultSceneDelay = time.Second

// PipelineRun is the single mutable state object for one generation run.
// The orchestrator goroutine is the only writer; readers get snapshots.
type PipelineRun struct {
	mu sync.RWMutex

	StoryID string
	Scenes  []*models.Scene

	currentScene    int
	currentTask     string
	completedScenes int
	done            bool
	cancelled       bool
	warnings        []string
}

// RunProgress is a point-in-time copy safe to hand to the HTTP layer.
type RunProgress struct {
	StoryID         string         `json:"storyID"`
	CurrentScene    int            `json:"currentScene"`
	CurrentTask     string         `json:"currentTask"`
	CompletedScenes int            `json:"completedScenes"`
	TotalScenes     int            `json:"totalScenes"`
	Done            bool           `json:"done"`
	Cancelled       bool           `json:"cancelled"`
	Warnings        []string       `json:"warnings"`
	Scenes          []models.Scene `json:"scenes"`
}

func NewPipelineRun(storyID string, scenes []*models.Scene) *PipelineRun {
	return &PipelineRun{
		StoryID:     storyID,
		Scenes:      scenes,
		currentTask: TaskIdle,
	}
}

func (r *PipelineRun) setTask(sceneIndex int, task string) {
	r.mu.Lock()
	r.currentScene = sceneIndex
	r.currentTask = task
	r.mu.Unlock()
}

// updateScene applies a whole-record mutation under the run lock so progress
// snapshots never observe a half-written scene.
func (r *PipelineRun) updateScene(index int, mutate func(scene *models.Scene)) {
	r.mu.Lock()
	mutate(r.Scenes[index])
	r.mu.Unlock()
}

func (r *PipelineRun) sortScenes() {
	r.mu.Lock()
	sort.Slice(r.Scenes, func(i, j int) bool {
		return r.Scenes[i].SceneNumber < r.Scenes[j].SceneNumber
	})
	r.mu.Unlock()
}

func (r *PipelineRun) addWarning(warning string) {
	r.mu.Lock()
	r.warnings = append(r.warnings, warning)
	r.mu.Unlock()
}

func (r *PipelineRun) markSceneCompleted() {
	r.mu.Lock()
	r.completedScenes++
	r.mu.Unlock()
}

func (r *PipelineRun) markDone() {
	r.mu.Lock()
	r.done = true
	r.currentTask = TaskIdle
	r.mu.Unlock()
}

// Cancel requests a cooperative stop. The check happens between scenes, so
// an in-flight provider call still runs to completion.
func (r *PipelineRun) Cancel() {
	r.mu.Lock()
	r.cancelled = true
	r.mu.Unlock()
}

func (r *PipelineRun) IsCancelled() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.cancelled
}

func (r *PipelineRun) Warnings() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, len(r.warnings))
	copy(out, r.warnings)
	return out
}

func (r *PipelineRun) Progress() RunProgress {
	r.mu.RLock()
	defer r.mu.RUnlock()

	scenes := make([]models.Scene, len(r.Scenes))
	for i, scene := range r.Scenes {
		scenes[i] = *scene
	}

	return RunProgress{
		StoryID:         r.StoryID,
		CurrentScene:    r.currentScene,
		CurrentTask:     r.currentTask,
		CompletedScenes: r.completedScenes,
		TotalScenes:     len(r.Scenes),
		Done:            r.done,
		Cancelled:       r.cancelled,
		Warnings:        append([]string{}, r.warnings...),
		Scenes:          scenes,
	}
}

// in-memory run registry, keyed by story id; state lives only for the
// duration of one generation run
var (
	runsMu sync.RWMutex
	runs   = map[string]*PipelineRun{}
)

func RegisterRun(run *PipelineRun) {
	runsMu.Lock()
	runs[run.StoryID] = run
	runsMu.Unlock()
}

func GetRun(storyID string) *PipelineRun {
	runsMu.RLock()
	defer runsMu.RUnlock()
	return runs[storyID]
}

// PipelineConfig controls one orchestrator run.
type PipelineConfig struct {
	AspectRatio string
	VoiceType   string

	// inter-scene pacing; DefaultSceneDelay when zero and SkipDelay is false
	SceneDelay time.Duration
	SkipDelay  bool

	// called after every scene mutation so a persistence or presentation
	// layer can observe progress without being interleaved into the loop
	OnSceneUpdate func(scene *models.Scene)
}

func (c *PipelineConfig) notify(scene *models.Scene) {
	if c.OnSceneUpdate != nil {
		c.OnSceneUpdate(scene)
	}
}

func (c *PipelineConfig) delay() time.Duration {
	if c.SkipDelay {
		return 0
	}
	if c.SceneDelay > 0 {
		return c.SceneDelay
	}
	return DefaultSceneDelay
}

// RunPipeline processes scenes strictly in sceneNumber order, one at a time:
// image generation to completion, then speech, then the next scene. A failed
// image isolates that scene as an error; the loop never unwinds for
// per-scene failures.
func RunPipeline(ctx context.Context, gen *AssetGenerator, run *PipelineRun, cfg PipelineConfig) {
	run.sortScenes()

	for i, scene := range run.Scenes {
		if run.IsCancelled() || ctx.Err() != nil {
			log.Printf("[INFO] Pipeline for story %s cancelled after %d scenes", run.StoryID, i)
			break
		}

		if i > 0 {
			time.Sleep(cfg.delay())
		}

		processScene(ctx, gen, run, cfg, i, scene)
	}

	run.markDone()
	log.Printf("[INFO] Pipeline for story %s complete: %d/%d scenes ready",
		run.StoryID, run.Progress().CompletedScenes, len(run.Scenes))
}

func processScene(ctx context.Context, gen *AssetGenerator, run *PipelineRun, cfg PipelineConfig, index int, scene *models.Scene) {
	// image first; entering image generation is what flips the status
	run.setTask(index, TaskImage)
	run.updateScene(index, func(s *models.Scene) {
		s.Status = models.SceneStatusGenerating
	})
	cfg.notify(scene)

	imageResult, err := gen.GenerateImage(ctx, scene.ImagePrompt, cfg.AspectRatio, scene.SceneNumber)
	if err != nil {
		run.updateScene(index, func(s *models.Scene) {
			s.Status = models.SceneStatusError
		})
		cfg.notify(scene)
		run.addWarning(fmt.Sprintf("Scene %d image failed: %v", scene.SceneNumber, err))
		run.setTask(index, TaskIdle)
		return
	}

	run.updateScene(index, func(s *models.Scene) {
		s.ImageURL = imageResult.ImageURL
		s.Status = models.SceneStatusReady
	})
	cfg.notify(scene)
	run.markSceneCompleted()

	// speech never touches the status field
	run.setTask(index, TaskAudio)
	speechResult, err := gen.GenerateSpeech(ctx, scene.NarrationText, cfg.VoiceType, scene.SceneNumber)
	if err != nil {
		run.addWarning(fmt.Sprintf("Scene %d narration failed: %v", scene.SceneNumber, err))
	} else {
		run.updateScene(index, func(s *models.Scene) {
			s.AudioURL = speechResult.AudioURL
			s.Duration = speechResult.Duration
		})
		cfg.notify(scene)
	}

	run.setTask(index, TaskIdle)
}

// GenerateStoryAssets is the full background generation flow for a freshly
// created story: segment, persist scenes, then run the asset pipeline.
func GenerateStoryAssets(ctx context.Context, story *models.Story) {
	scenes, err := GenerateScenes(ctx, DefaultSceneProviders(), story.StoryText, story.Style)
	if err != nil {
		log.Printf("[ERROR] Error generating scenes for story %s: %v", story.ID, err)
		story.Error = err.Error()
		if _, dbErr := SetStory(story); dbErr != nil {
			log.Printf("[ERROR] Error saving story: %v", dbErr)
		}
		return
	}

	scenePtrs := make([]*models.Scene, len(scenes))
	for i := range scenes {
		scenes[i].StoryID = story.ID
		if _, err := SetScene(&scenes[i]); err != nil {
			log.Printf("[ERROR] Error saving scene %d: %v", scenes[i].SceneNumber, err)
		}
		scenePtrs[i] = &scenes[i]
	}

	run := NewPipelineRun(story.ID, scenePtrs)
	RegisterRun(run)

	RunPipeline(ctx, DefaultAssetGenerator(), run, PipelineConfig{
		AspectRatio: story.AspectRatio,
		VoiceType:   story.VoiceType,
		OnSceneUpdate: func(scene *models.Scene) {
			if _, err := SetScene(scene); err != nil {
				log.Printf("[ERROR] Error saving scene %d: %v", scene.SceneNumber, err)
			}
		},
	})
}
