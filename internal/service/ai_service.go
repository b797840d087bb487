package service

import (
	"context"
	"strings"

	"viewtube/internal/ai"
	"viewtube/internal/models"
	"viewtube/internal/repository"
)

// AIService fronts the generative model boundaries: metadata generation,
// summarization and text to speech. Upstream failures surface as Internal
// without retry.
type AIService struct {
	client       ai.Client
	speech       ai.Speech
	metadataRepo repository.MetadataRepository
}

// NewAIService returns a new AIService.
func NewAIService(client ai.Client, speech ai.Speech, metadataRepo repository.MetadataRepository) *AIService {
	return &AIService{
		client:       client,
		speech:       speech,
		metadataRepo: metadataRepo,
	}
}

// GenerateMetadata produces titles, description, tags, summary and a
// moderation verdict from a transcript, and persists the result.
func (s *AIService) GenerateMetadata(ctx context.Context, transcript string) (*models.VideoMetadata, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return nil, models.NewValidationError("Transcript is required")
	}

	generated, err := s.client.GenerateVideoMetadata(ctx, transcript)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	metadata := &models.VideoMetadata{
		Titles:      generated.Titles,
		Description: generated.Description,
		Tags:        generated.Tags,
		Summary:     generated.Summary,
		Moderation:  generated.Moderation,
	}
	if err := s.metadataRepo.Create(ctx, metadata); err != nil {
		return nil, err
	}
	return metadata, nil
}

// Summarize condenses a transcript into a few sentences.
func (s *AIService) Summarize(ctx context.Context, transcript string) (string, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", models.NewValidationError("Transcript is required")
	}

	summary, err := s.client.Summarize(ctx, transcript)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return summary, nil
}

// TextToSpeech renders text to an audio file and returns its path.
func (s *AIService) TextToSpeech(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", models.NewValidationError("Text is required")
	}

	filePath, err := s.speech.Synthesize(ctx, text)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return filePath, nil
}
