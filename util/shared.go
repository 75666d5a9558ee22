package util

import (
	"encoding/base64"
	"strings"

	"github.com/asaskevich/govalidator"
)

// PlaceholderAudioURL is the degenerate empty-WAV data URI a speech provider
// chain hands back when no real synthesis succeeded. It must never be placed
// on a render timeline as a playable asset.
const PlaceholderAudioURL = "data:audio/wav;base64,UklGRiQAAABXQVZFZm10IBAAAAABAAEARKwAAIhYAQACABAAZGF0YQAAAAA="

var VideoStyles = []string{"cinematic", "fantasy", "realistic", "cartoon", "minimalist"}
var VoiceTypes = []string{"male", "female"}
var AspectRatios = []string{"16:9", "9:16", "1:1"}

// StripEmoji removes emoji and their joiner characters. Other non-ASCII text
// (accents, non-Latin scripts) passes through untouched.
func StripEmoji(s string) string {
	var b strings.Builder
	for _, r := range s {
		if isEmoji(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isEmoji(r rune) bool {
	switch {
	case r >= 0x1F000 && r <= 0x1FAFF: // emoticons, pictographs, flags
		return true
	case r >= 0x2600 && r <= 0x27BF: // misc symbols and dingbats
		return true
	case r == 0xFE0F || r == 0x200D: // variation selector, zero-width joiner
		return true
	}
	return false
}

func Contains(arr []string, str string) bool {
	for _, a := range arr {
		if a == str {
			return true
		}
	}
	return false
}

func WordCount(s string) int {
	return len(strings.Fields(s))
}

// IsUsableAudioURL reports whether an audio URL can go on the render
// timeline. The render service only accepts http(s) URLs, so data URIs and
// the placeholder sentinel are treated as absent.
func IsUsableAudioURL(url string) bool {
	if url == "" || strings.HasPrefix(url, PlaceholderAudioURL) {
		return false
	}
	if !strings.HasPrefix(url, "http://") && !strings.HasPrefix(url, "https://") {
		return false
	}
	return govalidator.IsURL(url)
}

func IsDataURI(url string) bool {
	return strings.HasPrefix(url, "data:")
}

// DecodeDataURI splits a data URI into its content type and decoded bytes.
func DecodeDataURI(uri string) (string, []byte, error) {
	contentType := "application/octet-stream"
	if strings.HasPrefix(uri, "data:") {
		if idx := strings.IndexByte(uri, ';'); idx > 5 {
			contentType = uri[5:idx]
		}
	}

	b64data := uri[strings.IndexByte(uri, ',')+1:]
	data, err := base64.StdEncoding.DecodeString(b64data)
	if err != nil {
		return "", nil, err
	}
	return contentType, data, nil
}

// CalculateBase64ImageSizeMB takes a base64 encoded string and returns its size in megabytes
func CalculateBase64ImageSizeMB(base64String string) (float64, error) {
	data, err := base64.StdEncoding.DecodeString(base64String)
	if err != nil {
		return 0, err
	}

	sizeInBytes := len(data)
	sizeInMB := float64(sizeInBytes) / (1024 * 1024)

	return sizeInMB, nil
}
