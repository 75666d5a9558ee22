package util

import (
	"fmt"
	"math"

	models "visionforge-backend/models"
)

const (
	// ClipOverlap is subtracted between consecutive clip starts for a
	// cross-fade feel. Not double-counted for the first clip.
	ClipOverlap = 0.5

	// DefaultSceneDuration is applied wherever a scene never got a measured
	// narration duration.
	DefaultSceneDuration = 4.0

	soundtrackSrc = "https://shotstack-assets.s3.ap-southeast-2.amazonaws.com/music/unminus/ambisax.mp3"
)

type Timeline struct {
	Soundtrack *Soundtrack `json:"soundtrack,omitempty"`
	Background string      `json:"background"`
	Tracks     []Track     `json:"tracks"`
}

type Soundtrack struct {
	Src    string  `json:"src"`
	Effect string  `json:"effect"`
	Volume float64 `json:"volume"`
}

type Track struct {
	Clips []Clip `json:"clips"`
}

type Clip struct {
	Asset      Asset       `json:"asset"`
	Start      float64     `json:"start"`
	Length     float64     `json:"length"`
	Effect     string      `json:"effect,omitempty"`
	Fit        string      `json:"fit,omitempty"`
	Volume     float64     `json:"volume,omitempty"`
	Transition *Transition `json:"transition,omitempty"`
	Fade       *Fade       `json:"fade,omitempty"`
}

type Asset struct {
	Type     string  `json:"type"`
	Src      string  `json:"src,omitempty"`
	Text     string  `json:"text,omitempty"`
	Style    string  `json:"style,omitempty"`
	Color    string  `json:"color,omitempty"`
	Size     string  `json:"size,omitempty"`
	Position string  `json:"position,omitempty"`
	Offset   *Offset `json:"offset,omitempty"`
}

type Transition struct {
	In  string `json:"in"`
	Out string `json:"out"`
}

type Fade struct {
	In  float64 `json:"in"`
	Out float64 `json:"out"`
}

type Offset struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type Output struct {
	Format      string `json:"format"`
	Resolution  string `json:"resolution"`
	AspectRatio string `json:"aspectRatio"`
	FPS         int    `json:"fps"`
	Quality     string `json:"quality"`
}

type RenderPayload struct {
	Timeline Timeline `json:"timeline"`
	Output   Output   `json:"output"`
}

type VideoMetadata struct {
	Duration   float64 `json:"duration"`
	SceneCount int     `json:"sceneCount"`
	Resolution string  `json:"resolution"`
	FileSize   int64   `json:"fileSize"`
	Format     string  `json:"format"`
}

func sceneDuration(scene *models.Scene) float64 {
	if scene.Duration > 0 {
		return scene.Duration
	}
	return DefaultSceneDuration
}

// ReadyScenes filters to scenes eligible for composition, preserving order.
func ReadyScenes(scenes []*models.Scene) []*models.Scene {
	var ready []*models.Scene
	for _, scene := range scenes {
		if scene.Status == models.SceneStatusReady && scene.ImageURL != "" {
			ready = append(ready, scene)
		}
	}
	return ready
}

// TotalDuration is the first scene's duration plus every subsequent scene's
// duration minus the overlap.
func TotalDuration(scenes []*models.Scene) float64 {
	total := 0.0
	for i, scene := range scenes {
		if i == 0 {
			total = sceneDuration(scene)
			continue
		}
		total += sceneDuration(scene) - ClipOverlap
	}
	return total
}

// ComposeTimeline assembles the declarative render payload from ready
// scenes. It never submits anything itself.
func ComposeTimeline(scenes []*models.Scene, aspectRatio, style string, includeMusic bool) (*RenderPayload, float64, error) {
	ready := ReadyScenes(scenes)
	if len(ready) == 0 {
		return nil, 0, &ValidationError{Message: "no scenes ready for composition"}
	}

	// image track, one clip per scene with a pan/zoom effect and fades
	imageStart := 0.0
	imageClips := make([]Clip, 0, len(ready))
	for _, scene := range ready {
		duration := sceneDuration(scene)
		imageClips = append(imageClips, Clip{
			Asset:      Asset{Type: "image", Src: scene.ImageURL},
			Start:      imageStart,
			Length:     duration,
			Effect:     "zoomIn",
			Fit:        "cover",
			Transition: &Transition{In: "fade", Out: "fade"},
		})
		imageStart += duration - ClipOverlap
	}

	// narration track keeps its own accumulator: scenes with unusable audio
	// are skipped entirely, so the two accumulators can diverge
	audioStart := 0.0
	var audioClips []Clip
	for _, scene := range ready {
		if !IsUsableAudioURL(scene.AudioURL) {
			continue
		}
		duration := sceneDuration(scene)
		audioClips = append(audioClips, Clip{
			Asset:  Asset{Type: "audio", Src: scene.AudioURL},
			Start:  audioStart,
			Length: duration,
			Volume: 1.0,
			Fade:   &Fade{In: 0.5, Out: 0.5},
		})
		audioStart += duration - ClipOverlap
	}

	// title overlays mirror the image track's timing model
	titleStart := 0.0
	titleClips := make([]Clip, 0, len(ready))
	for _, scene := range ready {
		duration := sceneDuration(scene)
		titleClips = append(titleClips, Clip{
			Asset: Asset{
				Type:     "title",
				Text:     scene.Title,
				Style:    "minimal",
				Color:    "#ffffff",
				Size:     "medium",
				Position: "bottomLeft",
				Offset:   &Offset{X: 0.05, Y: 0.1},
			},
			Start:      titleStart + 0.5,
			Length:     duration - 1,
			Transition: &Transition{In: "fade", Out: "fade"},
		})
		titleStart += duration - ClipOverlap
	}

	var tracks []Track
	if len(titleClips) > 0 {
		tracks = append(tracks, Track{Clips: titleClips})
	}
	tracks = append(tracks, Track{Clips: imageClips})
	if len(audioClips) > 0 {
		tracks = append(tracks, Track{Clips: audioClips})
	}

	timeline := Timeline{
		Background: "#000000",
		Tracks:     tracks,
	}

	if includeMusic {
		// keep narration intelligible over the music bed
		volume := 0.3
		if len(audioClips) > 0 {
			volume = 0.15
		}
		timeline.Soundtrack = &Soundtrack{
			Src:    soundtrackSrc,
			Effect: "fadeOut",
			Volume: volume,
		}
	}

	payload := &RenderPayload{
		Timeline: timeline,
		Output: Output{
			Format:      "mp4",
			Resolution:  "hd",
			AspectRatio: aspectRatio,
			FPS:         30,
			Quality:     "high",
		},
	}

	return payload, TotalDuration(ready), nil
}

// BuildVideoMetadata computes the output metadata attached to the final
// result. File size is a linear estimate at ~1.5MB per second.
func BuildVideoMetadata(totalDuration float64, sceneCount int, aspectRatio string) VideoMetadata {
	dims := DimensionsForAspectRatio(aspectRatio)
	return VideoMetadata{
		Duration:   totalDuration,
		SceneCount: sceneCount,
		Resolution: fmt.Sprintf("%dx%d", dims.Width, dims.Height),
		FileSize:   int64(math.Round(totalDuration * 1.5 * 1024 * 1024)),
		Format:     "mp4",
	}
}
