package util

import (
	"fmt"
	"math"
	"sort"
	"strings"

	models "visionforge-backend/models"
)

// GenerateSRT renders scenes as SRT blocks. Block start times accumulate
// scene durations with no overlap subtraction; subtitles are not cross-faded.
func GenerateSRT(scenes []*models.Scene) string {
	ordered := make([]*models.Scene, len(scenes))
	copy(ordered, scenes)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].SceneNumber < ordered[j].SceneNumber
	})

	var sb strings.Builder
	current := 0.0

	for i, scene := range ordered {
		duration := sceneDuration(scene)

		sb.WriteString(fmt.Sprintf("%d\n", i+1))
		sb.WriteString(fmt.Sprintf("%s --> %s\n", FormatSRTTime(current), FormatSRTTime(current+duration)))
		sb.WriteString(scene.NarrationText)
		sb.WriteString("\n\n")

		current += duration
	}

	return sb.String()
}

// FormatSRTTime formats seconds as HH:MM:SS,mmm.
func FormatSRTTime(seconds float64) string {
	whole := int(math.Floor(seconds))
	hours := whole / 3600
	minutes := (whole % 3600) / 60
	secs := whole % 60
	millis := int(math.Floor((seconds - float64(whole)) * 1000))

	return fmt.Sprintf("%02d:%02d:%02d,%03d", hours, minutes, secs, millis)
}
