package util

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssetObjectNameNeverRepeats(t *testing.T) {
	first := assetObjectName(1, "image.png")
	second := assetObjectName(1, "image.png")

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasPrefix(first, "scene_1_"))
	assert.True(t, strings.HasSuffix(first, "_image.png"))

	audio := assetObjectName(2, "audio.mp3")
	assert.True(t, strings.HasPrefix(audio, "scene_2_"))
	assert.True(t, strings.HasSuffix(audio, "_audio.mp3"))
}
