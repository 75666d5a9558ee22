package util_test

import (
	"testing"

	util "visionforge-backend/util"

	"github.com/stretchr/testify/assert"
)

func TestIsUsableAudioURL(t *testing.T) {
	assert.True(t, util.IsUsableAudioURL("https://storage.googleapis.com/bucket/scene_1_audio.mp3"))
	assert.True(t, util.IsUsableAudioURL("http://example.com/audio.mp3"))

	assert.False(t, util.IsUsableAudioURL(""))
	assert.False(t, util.IsUsableAudioURL(util.PlaceholderAudioURL))
	assert.False(t, util.IsUsableAudioURL("data:audio/mp3;base64,AAAA"))
	assert.False(t, util.IsUsableAudioURL("ftp://example.com/audio.mp3"))
}

func TestWordCount(t *testing.T) {
	assert.Equal(t, 0, util.WordCount(""))
	assert.Equal(t, 0, util.WordCount("   "))
	assert.Equal(t, 3, util.WordCount("one two three"))
	assert.Equal(t, 3, util.WordCount("  one\ttwo\nthree  "))
}

func TestContains(t *testing.T) {
	assert.True(t, util.Contains(util.AspectRatios, "16:9"))
	assert.False(t, util.Contains(util.AspectRatios, "4:3"))
}

func TestStripEmoji(t *testing.T) {
	assert.Equal(t, "hello world", util.StripEmoji("hello 🌍world"))
	assert.Equal(t, "plain", util.StripEmoji("plain"))

	// only emoji go; non-Latin and accented text stays intact
	assert.Equal(t, "el niño soñó ", util.StripEmoji("el niño soñó 😀"))
	assert.Equal(t, "昔々あるところに", util.StripEmoji("昔々あるところに🎎"))
	assert.Equal(t, "flag ", util.StripEmoji("flag 🇫🇷"))
}

func TestDecodeDataURI(t *testing.T) {
	contentType, data, err := util.DecodeDataURI("data:image/png;base64,aGVsbG8=")
	assert.NoError(t, err)
	assert.Equal(t, "image/png", contentType)
	assert.Equal(t, []byte("hello"), data)

	_, _, err = util.DecodeDataURI("data:image/png;base64,not-base64!!")
	assert.Error(t, err)
}
