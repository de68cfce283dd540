package internal

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// User-facing image generation errors
const (
	NoImageMessage               = "No image generated."
	ImageGenerationFailedMessage = "Image generation failed. Please try again."
)

// ImageResult is the outcome shown by the image screen. Exactly one of ImageURL and
// Error is set.
type ImageResult struct {
	Prompt   string `json:"prompt"`
	ImageURL string `json:"image_url,omitempty"`
	Error    string `json:"error,omitempty"`
	// Err is the upstream failure behind Error, if any
	Err error `json:"-"`
}

// ImageStudio drives the image generation screen
type ImageStudio struct {
	generator ImageGenerator

	queue   *semaphore.Weighted
	pending atomic.Bool

	mu   sync.RWMutex
	last *ImageResult
}

// NewImageStudio creates an ImageStudio
func NewImageStudio(generator ImageGenerator) *ImageStudio {
	return &ImageStudio{generator: generator, queue: semaphore.NewWeighted(1)}
}

// NewImageStudioFromConfig wires the HTTP image generation client described by cfg
func NewImageStudioFromConfig(cfg *Config) *ImageStudio {
	return NewImageStudio(NewPicogenClient(cfg.Picogen, cfg.HTTP.Timeout))
}

// Pending reports whether a generation is in flight
func (s *ImageStudio) Pending() bool {
	return s.pending.Load()
}

// Last returns the most recent result, nil before the first generation
func (s *ImageStudio) Last() *ImageResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.last
}

// Generate requests an image for prompt. A blank prompt is ignored and returns nil.
// Generations run one at a time in arrival order; one abandoned while queued fails
// without touching Last.
func (s *ImageStudio) Generate(ctx context.Context, prompt string) *ImageResult {
	if strings.TrimSpace(prompt) == "" {
		return nil
	}

	result := &ImageResult{Prompt: prompt}
	if err := s.queue.Acquire(ctx, 1); err != nil {
		LogDebug("Image generation abandoned while queued: %v", err)
		result.Error = ImageGenerationFailedMessage
		result.Err = err
		return result
	}
	defer s.queue.Release(1)

	s.pending.Store(true)
	defer s.pending.Store(false)

	imageURL, err := s.generator.GenerateImage(ctx, prompt)
	switch {
	case err != nil:
		logUpstreamFailure("generate-image", err)
		result.Error = ImageGenerationFailedMessage
		result.Err = err
	case imageURL == "":
		result.Error = NoImageMessage
	default:
		result.ImageURL = imageURL
	}

	s.mu.Lock()
	s.last = result
	s.mu.Unlock()
	return result
}
