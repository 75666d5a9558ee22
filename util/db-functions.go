package util

import (
	"log"

	db "visionforge-backend/database"
	models "visionforge-backend/models"
)

func GetStoryById(id string) (*models.Story, error) {
	story := new(models.Story)
	txn := db.DB.Where("id = ?", id).First(&story)
	if txn.Error != nil {
		log.Printf("[ERROR] Error getting story: %v", txn.Error)
		return nil, txn.Error
	}
	return story, nil
}

func SetStory(story *models.Story) (*models.Story, error) {
	if story.ID == "" {
		story.CreatedAt = db.DB.NowFunc().String()
		story.UpdatedAt = db.DB.NowFunc().String()
		txn := db.DB.Create(story)
		if txn.Error != nil {
			log.Printf("[ERROR] Error creating story: %v", txn.Error)
			return story, txn.Error
		}
	} else {
		story.UpdatedAt = db.DB.NowFunc().String()
		txn := db.DB.Save(story)
		if txn.Error != nil {
			log.Printf("[ERROR] Error saving story: %v", txn.Error)
			return story, txn.Error
		}
	}

	return story, nil
}

func GetScenesByStory(storyID string) ([]models.Scene, error) {
	scenes := []models.Scene{}

	txn := db.DB.Where("story_id = ?", storyID).Order("scene_number asc").Find(&scenes)
	if txn.Error != nil {
		if txn.Error.Error() == "record not found" {
			return scenes, nil
		}

		log.Printf("[ERROR] Error getting scenes: %v", txn.Error)
		return nil, txn.Error
	}
	return scenes, nil
}

func GetSceneByNumber(storyID string, sceneNumber int) (*models.Scene, error) {
	scene := new(models.Scene)
	txn := db.DB.Where("story_id = ? AND scene_number = ?", storyID, sceneNumber).First(&scene)
	if txn.Error != nil {
		log.Printf("[ERROR] Error getting scene: %v", txn.Error)
		return nil, txn.Error
	}
	return scene, nil
}

func SetScene(scene *models.Scene) (*models.Scene, error) {
	if scene.ID == "" {
		scene.CreatedAt = db.DB.NowFunc().String()
		scene.UpdatedAt = db.DB.NowFunc().String()
		txn := db.DB.Create(scene)
		if txn.Error != nil {
			log.Printf("[ERROR] Error creating scene: %v", txn.Error)
			return scene, txn.Error
		}
	} else {
		scene.UpdatedAt = db.DB.NowFunc().String()
		txn := db.DB.Save(scene)
		if txn.Error != nil {
			log.Printf("[ERROR] Error saving scene: %v", txn.Error)
			return scene, txn.Error
		}
	}

	return scene, nil
}

func GetVideoById(id string) (*models.Video, error) {
	video := new(models.Video)
	txn := db.DB.Where("id = ?", id).First(&video)
	if txn.Error != nil {
		log.Printf("[ERROR] Error getting video: %v", txn.Error)
		return nil, txn.Error
	}
	return video, nil
}

func GetVideosByStory(storyID string) ([]models.Video, error) {
	videos := []models.Video{}

	txn := db.DB.Where("story_id = ?", storyID).Order("created_at desc").Find(&videos)
	if txn.Error != nil {
		if txn.Error.Error() == "record not found" {
			return videos, nil
		}

		log.Printf("[ERROR] Error getting videos: %v", txn.Error)
		return nil, txn.Error
	}
	return videos, nil
}

func SetVideo(video *models.Video) (*models.Video, error) {
	if video.ID == "" {
		video.CreatedAt = db.DB.NowFunc().String()
		video.UpdatedAt = db.DB.NowFunc().String()
		txn := db.DB.Create(video)
		if txn.Error != nil {
			log.Printf("[ERROR] Error creating video: %v", txn.Error)
			return video, txn.Error
		}
	} else {
		video.UpdatedAt = db.DB.NowFunc().String()
		txn := db.DB.Save(video)
		if txn.Error != nil {
			log.Printf("[ERROR] Error saving video: %v", txn.Error)
			return video, txn.Error
		}
	}

	return video, nil
}
