package models

// Scene status lifecycle. A ready scene always has a non-empty ImageURL.
const (
	SceneStatusPending    = "pending"
	SceneStatusGenerating = "generating"
	SceneStatusReady      = "ready"
	SceneStatusError      = "error"
)

type Story struct {
	Base
	StoryText   string `json:"storyText"`
	Style       string `json:"style"`
	VoiceType   string `json:"voiceType"`
	AspectRatio string `json:"aspectRatio"`
	WordCount   int    `json:"wordCount"`

	// set when scene segmentation fails before any scene work begins
	Error string `json:"error" gorm:"null"`
}

type Scene struct {
	Base
	StoryID     string `json:"storyID" gorm:"index"`
	SceneNumber int    `json:"sceneNumber"`

	Title         string `json:"title"`
	Description   string `json:"description"`
	ImagePrompt   string `json:"imagePrompt"`
	NarrationText string `json:"narrationText"`

	ImageURL string  `json:"imageUrl" gorm:"null"`
	AudioURL string  `json:"audioUrl" gorm:"null"`
	Duration float64 `json:"duration"`

	Status string `json:"status" gorm:"default:pending"`
}
