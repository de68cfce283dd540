package internal

import (
	"context"
	"sync"
	"time"
)

// CreateTestSession creates a test session with sample data
func CreateTestSession(id string) *Session {
	return &Session{
		ID: id,
		Messages: []Message{
			{
				Role:      RoleUser,
				Content:   "Hello, how are you?",
				Timestamp: time.Now().Format(time.RFC3339),
			},
			{
				Role:      RoleAssistant,
				Content:   "I'm doing well, thank you!",
				Timestamp: time.Now().Format(time.RFC3339),
			},
		},
		Metadata: Metadata{
			MessageCount: 2,
			CreatedAt:    time.Now().Format(time.RFC3339),
		},
	}
}

// CreateTestSessionWithMessages creates a test session with custom messages
func CreateTestSessionWithMessages(id string, messages []Message) *Session {
	return &Session{
		ID:       id,
		Messages: messages,
		Metadata: Metadata{
			MessageCount: len(messages),
		},
	}
}

// StubTextGenerator is a TextGenerator that records prompts and replays a canned reply
type StubTextGenerator struct {
	mu      sync.Mutex
	Reply   string
	Err     error
	Prompts []string
	// Block, when set, is waited on before replying
	Block chan struct{}
}

// Generate implements TextGenerator
func (s *StubTextGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.Prompts = append(s.Prompts, prompt)
	block := s.Block
	s.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.Reply, s.Err
}

// Calls returns how many prompts were received
func (s *StubTextGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Prompts)
}

// StubPhotoSearcher is a PhotoSearcher that records queries
type StubPhotoSearcher struct {
	mu      sync.Mutex
	URL     string
	Err     error
	Queries []string
}

// RandomPhoto implements PhotoSearcher
func (s *StubPhotoSearcher) RandomPhoto(ctx context.Context, query string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Queries = append(s.Queries, query)
	return s.URL, s.Err
}

// StubImageGenerator is an ImageGenerator that records prompts
type StubImageGenerator struct {
	mu      sync.Mutex
	URL     string
	Err     error
	Prompts []string
	// Block, when set, is waited on before replying
	Block chan struct{}
	// active counts calls in progress; overlap records the most seen at once
	active  int
	overlap int
}

// GenerateImage implements ImageGenerator
func (s *StubImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	s.Prompts = append(s.Prompts, prompt)
	s.active++
	s.overlap = max(s.overlap, s.active)
	block := s.Block
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.active--
		s.mu.Unlock()
	}()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return s.URL, s.Err
}

// Calls returns how many prompts were received
func (s *StubImageGenerator) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.Prompts)
}

// MaxConcurrent returns the most calls that were ever in progress at once
func (s *StubImageGenerator) MaxConcurrent() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.overlap
}
