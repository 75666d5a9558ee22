package models

import (
	pq "github.com/lib/pq"
)

const (
	VideoStatusPending   = "pending"
	VideoStatusRendering = "rendering"
	VideoStatusCompleted = "completed"
	VideoStatusFailed    = "failed"
)

type Video struct {
	Base
	StoryID      string `json:"storyID" gorm:"index"`
	VideoURL     string `json:"videoURL" gorm:"null"`
	RenderID     string `json:"renderID" gorm:"null"`
	Status       string `json:"status" gorm:"default:pending"`
	IncludeMusic bool   `json:"includeMusic"`

	Duration   float64 `json:"duration"`
	SceneCount int     `json:"sceneCount"`
	Resolution string  `json:"resolution"`
	FileSize   int64   `json:"fileSize"`
	Format     string  `json:"format"`

	// maybe, hide this from the user
	ErrorMessage string `json:"errorMessage" gorm:"null"`

	// non-fatal per-scene notices collected during the generation run
	Warnings pq.StringArray `json:"warnings" gorm:"type:text[]"`
}
