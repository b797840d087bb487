// Package ai integrates generative model APIs for video metadata, summaries
// and speech synthesis.
package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"viewtube/internal/config"
)

// VideoMetadata is the bundle of generated assets for one video.
type VideoMetadata struct {
	Titles      []string `json:"titles"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	Summary     string   `json:"summary"`
	Moderation  string   `json:"moderation"`
}

// Client generates text content from a video transcript.
type Client interface {
	GenerateVideoMetadata(ctx context.Context, transcript string) (*VideoMetadata, error)
	Summarize(ctx context.Context, text string) (string, error)
}

// GeminiClient calls the Gemini generateContent REST API.
type GeminiClient struct {
	httpClient *http.Client
	endpoint   string
	model      string
	apiKey     string
}

// NewGeminiClient builds a client with a bounded request timeout so a stalled
// upstream cannot hold request handlers open.
func NewGeminiClient(cfg *config.Config) *GeminiClient {
	return &GeminiClient{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   strings.TrimRight(cfg.GeminiEndpoint, "/"),
		model:      cfg.GeminiModel,
		apiKey:     cfg.GeminiAPIKey,
	}
}

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", fmt.Errorf("gemini api key is not configured")
	}

	payload, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode prompt: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent", g.endpoint, g.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", g.apiKey)

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read gemini response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d: %s", resp.StatusCode, truncate(string(raw), 200))
	}

	var decoded generateResponse
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	return strings.TrimSpace(decoded.Candidates[0].Content.Parts[0].Text), nil
}

// GenerateVideoMetadata runs the five metadata prompts concurrently and joins
// the results. A single failed prompt fails the whole call; partial metadata
// is worse than none for the caller.
func (g *GeminiClient) GenerateVideoMetadata(ctx context.Context, transcript string) (*VideoMetadata, error) {
	excerpt := truncate(transcript, 8000)
	prompts := map[string]string{
		"titles": fmt.Sprintf(
			"Suggest 3 catchy video titles for this transcript. Return one title per line, no numbering.\n\n%s",
			excerpt),
		"description": fmt.Sprintf(
			"Write an engaging 2-3 sentence video description for this transcript.\n\n%s",
			excerpt),
		"tags": fmt.Sprintf(
			"Suggest up to 8 short search tags for this transcript. Return them comma separated, lowercase.\n\n%s",
			excerpt),
		"summary": fmt.Sprintf(
			"Summarize this transcript in 2 sentences.\n\n%s",
			excerpt),
		"moderation": fmt.Sprintf(
			"Classify this transcript as 'safe', 'review' or 'unsafe'. Reply with the single word only.\n\n%s",
			excerpt),
	}

	results := make(map[string]string, len(prompts))
	errs := make(map[string]error, len(prompts))

	var mu sync.Mutex
	var wg sync.WaitGroup
	for name, prompt := range prompts {
		wg.Add(1)
		go func(name, prompt string) {
			defer wg.Done()
			text, err := g.generate(ctx, prompt)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs[name] = err
				return
			}
			results[name] = text
		}(name, prompt)
	}
	wg.Wait()

	for name, err := range errs {
		return nil, fmt.Errorf("metadata prompt %q failed: %w", name, err)
	}

	return &VideoMetadata{
		Titles:      splitLines(results["titles"]),
		Description: results["description"],
		Tags:        splitCSV(results["tags"]),
		Summary:     results["summary"],
		Moderation:  strings.ToLower(results["moderation"]),
	}, nil
}

// Summarize produces a short summary of arbitrary text.
func (g *GeminiClient) Summarize(ctx context.Context, text string) (string, error) {
	prompt := fmt.Sprintf("Summarize the following text in at most 3 sentences:\n\n%s", truncate(text, 8000))
	return g.generate(ctx, prompt)
}

func splitLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(strings.TrimLeft(line, "-*0123456789. "))
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func splitCSV(s string) []string {
	var out []string
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
