package router

import (
	"context"
	"errors"
	"log"

	"visionforge-backend/models"
	util "visionforge-backend/util"

	"github.com/gofiber/fiber/v2"
	pq "github.com/lib/pq"
)

func SetupVideoRoutes() {
	VIDEO.Post("/compose", ComposeVideo)
	VIDEO.Get("/:id", GetVideo)
	VIDEO.Get("/story/:storyID", GetStoryVideos)
}

func ComposeVideo(c *fiber.Ctx) error {
	type ComposeRequest struct {
		StoryID      string `json:"storyID"`
		IncludeMusic bool   `json:"includeMusic"`
		NotifyEmail  string `json:"notifyEmail"`
	}

	var req ComposeRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("[ERROR] Error parsing request: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request",
		})
	}

	story, err := util.GetStoryById(req.StoryID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Story not found",
		})
	}

	scenes, err := util.GetScenesByStory(story.ID)
	if err != nil {
		log.Printf("[ERROR] Error getting scenes: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Error getting scenes",
		})
	}

	scenePtrs := make([]*models.Scene, len(scenes))
	for i := range scenes {
		scenePtrs[i] = &scenes[i]
	}

	payload, totalDuration, err := util.ComposeTimeline(scenePtrs, story.AspectRatio, story.Style, req.IncludeMusic)
	if err != nil {
		var validationErr *util.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": validationErr.Message,
			})
		}
		log.Printf("[ERROR] Error composing timeline: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Error composing timeline",
		})
	}

	metadata := util.BuildVideoMetadata(totalDuration, len(util.ReadyScenes(scenePtrs)), story.AspectRatio)

	videoData := &models.Video{
		StoryID:      story.ID,
		Status:       models.VideoStatusRendering,
		IncludeMusic: req.IncludeMusic,
		Duration:     metadata.Duration,
		SceneCount:   metadata.SceneCount,
		Resolution:   metadata.Resolution,
		FileSize:     metadata.FileSize,
		Format:       metadata.Format,
	}

	if run := util.GetRun(story.ID); run != nil {
		videoData.Warnings = pq.StringArray(run.Warnings())
	}

	client := util.DefaultRenderClient()

	renderID, err := client.SubmitRender(context.Background(), payload)
	if err != nil {
		log.Printf("[ERROR] Error submitting render: %v", err)
		videoData.Status = models.VideoStatusFailed
		videoData.ErrorMessage = err.Error()
		if _, dbErr := util.SetVideo(videoData); dbErr != nil {
			log.Printf("[ERROR] Error saving video: %v", dbErr)
		}
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
			"video":   videoData,
		})
	}

	videoData.RenderID = renderID

	video, err := util.SetVideo(videoData)
	if err != nil {
		log.Printf("[ERROR] Error creating video: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Error creating video",
		})
	}

	// the poll loop can take minutes, so track it in the background
	go finishRender(context.Background(), client, video, req.NotifyEmail)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"error": false,
		"video": video,
	})
}

// finishRender polls the render until it resolves and persists the outcome.
func finishRender(ctx context.Context, client *util.ShotstackClient, video *models.Video, notifyEmail string) {
	videoURL, err := client.PollRender(ctx, video.RenderID)
	if err != nil {
		log.Printf("[ERROR] Render %s failed: %v", video.RenderID, err)
		video.Status = models.VideoStatusFailed
		video.ErrorMessage = err.Error()

		var renderErr *util.RenderError
		if errors.As(err, &renderErr) && renderErr.Timeout {
			video.ErrorMessage = "Render timed out: " + renderErr.Reason
		}

		if _, dbErr := util.SetVideo(video); dbErr != nil {
			log.Printf("[ERROR] Error saving video: %v", dbErr)
		}
		return
	}

	video.Status = models.VideoStatusCompleted
	video.VideoURL = videoURL

	if _, dbErr := util.SetVideo(video); dbErr != nil {
		log.Printf("[ERROR] Error saving video: %v", dbErr)
	}

	log.Printf("[INFO] Render %s completed: %s", video.RenderID, videoURL)

	metadata := util.VideoMetadata{
		Duration:   video.Duration,
		SceneCount: video.SceneCount,
		Resolution: video.Resolution,
		FileSize:   video.FileSize,
		Format:     video.Format,
	}

	if err := util.SendRenderCompleteEmail(notifyEmail, videoURL, metadata); err != nil {
		log.Printf("[ERROR] Error sending completion email: %v", err)
	}
}

func GetVideo(c *fiber.Ctx) error {
	id := c.Params("id")

	video, err := util.GetVideoById(id)
	if err != nil {
		log.Printf("[ERROR] Error getting video: %v", err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Video not found",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"error": false,
		"video": video,
	})
}

func GetStoryVideos(c *fiber.Ctx) error {
	storyID := c.Params("storyID")

	videos, err := util.GetVideosByStory(storyID)
	if err != nil {
		log.Printf("[ERROR] Error getting videos: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Error getting videos",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"error":  false,
		"videos": videos,
	})
}
