package ai

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"viewtube/internal/config"

	"github.com/google/uuid"
)

// Speech converts text to an audio file on local disk.
type Speech interface {
	Synthesize(ctx context.Context, text string) (filePath string, err error)
}

// GeminiSpeech synthesizes speech through the Gemini TTS model and writes the
// audio to the configured output directory.
type GeminiSpeech struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	outputDir  string
}

// NewGeminiSpeech builds a speech client. The output directory is created on
// first use rather than at startup.
func NewGeminiSpeech(cfg *config.Config) *GeminiSpeech {
	return &GeminiSpeech{
		httpClient: &http.Client{Timeout: 60 * time.Second},
		endpoint:   strings.TrimRight(cfg.GeminiEndpoint, "/"),
		apiKey:     cfg.GeminiAPIKey,
		outputDir:  cfg.TTSOutputDir,
	}
}

type speechRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type generationConfig struct {
	ResponseModalities []string     `json:"responseModalities"`
	SpeechConfig       speechConfig `json:"speechConfig"`
}

type speechConfig struct {
	VoiceConfig voiceConfig `json:"voiceConfig"`
}

type voiceConfig struct {
	PrebuiltVoiceConfig prebuiltVoice `json:"prebuiltVoiceConfig"`
}

type prebuiltVoice struct {
	VoiceName string `json:"voiceName"`
}

type speechResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				InlineData struct {
					Data string `json:"data"`
				} `json:"inlineData"`
			} `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
}

// Synthesize renders text to audio and returns the path of the written file.
func (g *GeminiSpeech) Synthesize(ctx context.Context, text string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini api key is not configured")
	}

	payload, err := json.Marshal(speechRequest{
		Contents: []content{{Parts: []part{{Text: truncate(text, 4000)}}}},
		GenerationConfig: generationConfig{
			ResponseModalities: []string{"AUDIO"},
			SpeechConfig: speechConfig{
				VoiceConfig: voiceConfig{
					PrebuiltVoiceConfig: prebuiltVoice{VoiceName: "Kore"},
				},
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode speech request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/gemini-2.5-flash-preview-tts:generateContent", g.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build speech request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("speech request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read speech response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("speech api returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var decoded speechResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode speech response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("speech api returned no audio")
	}

	audio, err := base64.StdEncoding.DecodeString(decoded.Candidates[0].Content.Parts[0].InlineData.Data)
	if err != nil {
		return "", fmt.Errorf("failed to decode audio payload: %w", err)
	}

	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create tts output dir: %w", err)
	}

	filePath := filepath.Join(g.outputDir, uuid.NewString()+".wav")
	if err := os.WriteFile(filePath, audio, 0o644); err != nil {
		return "", fmt.Errorf("failed to write audio file: %w", err)
	}

	return filePath, nil
}
