package router

import (
	"context"
	"errors"
	"log"
	"strconv"

	"visionforge-backend/models"
	util "visionforge-backend/util"

	"github.com/gofiber/fiber/v2"
)

func SetupStoryRoutes() {
	STORY.Post("/create", CreateStory)
	STORY.Get("/:id", GetStory)
	STORY.Get("/:id/progress", GetStoryProgress)
	STORY.Get("/:id/subtitles", GetStorySubtitles)
	STORY.Post("/:id/cancel", CancelStoryPipeline)
	STORY.Post("/:id/scenes/:sceneNumber/regenerate", RegenerateScene)
}

func CreateStory(c *fiber.Ctx) error {
	type CreateStoryRequest struct {
		Story       string `json:"story"`
		Style       string `json:"style"`
		VoiceType   string `json:"voiceType"`
		AspectRatio string `json:"aspectRatio"`
	}

	var req CreateStoryRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("[ERROR] Error parsing request: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request",
		})
	}

	if !util.Contains(util.VideoStyles, req.Style) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid video style",
		})
	}

	if !util.Contains(util.VoiceTypes, req.VoiceType) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid voice type",
		})
	}

	if !util.Contains(util.AspectRatios, req.AspectRatio) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid aspect ratio",
		})
	}

	if err := util.ValidateStory(req.Story); err != nil {
		var validationErr *util.ValidationError
		if errors.As(err, &validationErr) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error":   true,
				"message": validationErr.Message,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Error validating story",
		})
	}

	storyData := &models.Story{
		StoryText:   req.Story,
		Style:       req.Style,
		VoiceType:   req.VoiceType,
		AspectRatio: req.AspectRatio,
		WordCount:   util.WordCount(req.Story),
	}

	story, err := util.SetStory(storyData)
	if err != nil {
		log.Printf("[ERROR] Error creating story: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Error creating story",
		})
	}

	// background job: segment scenes, then generate assets per scene
	go util.GenerateStoryAssets(context.Background(), story)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"error": false,
		"story": story,
	})
}

func GetStory(c *fiber.Ctx) error {
	id := c.Params("id")

	story, err := util.GetStoryById(id)
	if err != nil {
		log.Printf("[ERROR] Error getting story: %v", err)
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Story not found",
		})
	}

	scenes, err := util.GetScenesByStory(id)
	if err != nil {
		log.Printf("[ERROR] Error getting scenes: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error":   true,
			"message": "Error getting scenes",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"error":  false,
		"story":  story,
		"scenes": scenes,
	})
}

func GetStoryProgress(c *fiber.Ctx) error {
	id := c.Params("id")

	run := util.GetRun(id)
	if run == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "No generation run for this story",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"error":    false,
		"progress": run.Progress(),
	})
}

func GetStorySubtitles(c *fiber.Ctx) error {
	id := c.Params("id")

	scenes, err := util.GetScenesByStory(id)
	if err != nil || len(scenes) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "No scenes found for this story",
		})
	}

	scenePtrs := make([]*models.Scene, len(scenes))
	for i := range scenes {
		scenePtrs[i] = &scenes[i]
	}

	c.Set("Content-Type", "text/plain; charset=utf-8")
	c.Set("Content-Disposition", "attachment; filename=\"subtitles.srt\"")
	return c.SendString(util.GenerateSRT(scenePtrs))
}

func CancelStoryPipeline(c *fiber.Ctx) error {
	id := c.Params("id")

	run := util.GetRun(id)
	if run == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "No generation run for this story",
		})
	}

	run.Cancel()

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"error":   false,
		"message": "Cancellation requested",
	})
}

func RegenerateScene(c *fiber.Ctx) error {
	type RegenerateRequest struct {
		Kind string `json:"kind"` // "image" or "audio"
	}

	id := c.Params("id")
	sceneNumber, err := strconv.Atoi(c.Params("sceneNumber"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid scene number",
		})
	}

	var req RegenerateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("[ERROR] Error parsing request: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Invalid request",
		})
	}

	if req.Kind != "image" && req.Kind != "audio" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   true,
			"message": "Kind must be image or audio",
		})
	}

	story, err := util.GetStoryById(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Story not found",
		})
	}

	scene, err := util.GetSceneByNumber(id, sceneNumber)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error":   true,
			"message": "Scene not found",
		})
	}

	gen := util.DefaultAssetGenerator()
	ctx := context.Background()

	if req.Kind == "image" {
		err = gen.RegenerateImage(ctx, scene, story.AspectRatio)
	} else {
		err = gen.RegenerateSpeech(ctx, scene, story.VoiceType)
	}

	if _, dbErr := util.SetScene(scene); dbErr != nil {
		log.Printf("[ERROR] Error saving scene: %v", dbErr)
	}

	if err != nil {
		log.Printf("[ERROR] Error regenerating %s for scene %d: %v", req.Kind, sceneNumber, err)
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"error":   true,
			"message": err.Error(),
			"scene":   scene,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"error": false,
		"scene": scene,
	})
}
