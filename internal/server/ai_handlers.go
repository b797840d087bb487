package server

import (
	"viewtube/internal/models"

	"github.com/gofiber/fiber/v2"
)

type transcriptBody struct {
	Transcript string `json:"transcript"`
}

// GenerateMetadata handles POST /api/v1/ai/metadata.
func (s *Server) GenerateMetadata(c *fiber.Ctx) error {
	var req transcriptBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	metadata, err := s.aiService.GenerateMetadata(c.UserContext(), req.Transcript)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusCreated, metadata, "Metadata generated successfully")
}

// Summarize handles POST /api/v1/ai/summarize.
func (s *Server) Summarize(c *fiber.Ctx) error {
	var req transcriptBody
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	summary, err := s.aiService.Summarize(c.UserContext(), req.Transcript)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"summary": summary}, "Summary generated successfully")
}

// TextToSpeech handles POST /api/v1/ai/tts.
func (s *Server) TextToSpeech(c *fiber.Ctx) error {
	var req struct {
		Text string `json:"text"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("Invalid request body"))
	}

	filePath, err := s.aiService.TextToSpeech(c.UserContext(), req.Text)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return models.Respond(c, fiber.StatusOK, fiber.Map{"file": filePath}, "Speech generated successfully")
}
