package internal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestImageStudio_Generate(t *testing.T) {
	tests := []struct {
		name      string
		prompt    string
		generator *StubImageGenerator
		wantNil   bool
		wantURL   string
		wantError string
	}{
		{
			name:      "blank prompt ignored",
			prompt:    "   ",
			generator: &StubImageGenerator{URL: "http://img/1.png"},
			wantNil:   true,
		},
		{
			name:      "image returned",
			prompt:    "a red fox",
			generator: &StubImageGenerator{URL: "http://img/1.png"},
			wantURL:   "http://img/1.png",
		},
		{
			name:      "no image in response",
			prompt:    "a red fox",
			generator: &StubImageGenerator{},
			wantError: NoImageMessage,
		},
		{
			name:      "upstream failure",
			prompt:    "a red fox",
			generator: &StubImageGenerator{Err: errors.New("boom")},
			wantError: ImageGenerationFailedMessage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			studio := NewImageStudio(tt.generator)
			result := studio.Generate(context.Background(), tt.prompt)

			if tt.wantNil {
				if result != nil {
					t.Errorf("Generate() = %+v, want nil", result)
				}
				if len(tt.generator.Prompts) != 0 {
					t.Error("blank prompt must not call the generator")
				}
				if studio.Last() != nil {
					t.Error("Last() should stay nil")
				}
				return
			}

			if result.ImageURL != tt.wantURL || result.Error != tt.wantError {
				t.Errorf("Generate() = %+v, want url %q error %q", result, tt.wantURL, tt.wantError)
			}
			if studio.Last() != result {
				t.Error("Last() should return the latest result")
			}
			if studio.Pending() {
				t.Error("Pending() = true after Generate returned")
			}
			if tt.generator.Prompts[0] != tt.prompt {
				t.Errorf("prompt sent = %q, want %q", tt.generator.Prompts[0], tt.prompt)
			}
		})
	}
}

func TestImageStudio_KeepsCause(t *testing.T) {
	cause := &StatusError{Endpoint: "picogen", StatusCode: 429}
	studio := NewImageStudio(&StubImageGenerator{Err: cause})

	result := studio.Generate(context.Background(), "fox")
	if !errors.Is(result.Err, cause) {
		t.Errorf("Err = %v, want %v", result.Err, cause)
	}
	if ErrorKind(result.Err) != KindQuota {
		t.Errorf("ErrorKind = %q, want quota", ErrorKind(result.Err))
	}
}

func TestImageStudio_SerializesGenerations(t *testing.T) {
	block := make(chan struct{})
	gen := &StubImageGenerator{URL: "http://img/1.png", Block: block}
	studio := NewImageStudio(gen)
	ctx := context.Background()

	first := make(chan *ImageResult, 1)
	go func() { first <- studio.Generate(ctx, "first") }()
	waitFor(t, "first generation to start", func() bool { return gen.Calls() == 1 })

	second := make(chan *ImageResult, 1)
	go func() { second <- studio.Generate(ctx, "second") }()

	// the second generation waits for the first
	time.Sleep(20 * time.Millisecond)
	if gen.Calls() != 1 {
		t.Fatalf("generator calls = %d while first is in flight, want 1", gen.Calls())
	}

	block <- struct{}{}
	if got := <-first; got.Prompt != "first" {
		t.Errorf("first result prompt = %q", got.Prompt)
	}
	waitFor(t, "second generation to start", func() bool { return gen.Calls() == 2 })
	if !studio.Pending() {
		t.Error("Pending() = false while the second generation is in flight")
	}

	close(block)
	if got := <-second; got.ImageURL != "http://img/1.png" {
		t.Errorf("second result = %+v", got)
	}
	if studio.Pending() {
		t.Error("Pending() = true after both generations returned")
	}
	if gen.MaxConcurrent() != 1 {
		t.Errorf("max concurrent calls = %d, want 1", gen.MaxConcurrent())
	}
	if studio.Last().Prompt != "second" {
		t.Errorf("Last().Prompt = %q, want second", studio.Last().Prompt)
	}
}

func TestImageStudio_CancelWhileQueued(t *testing.T) {
	block := make(chan struct{})
	gen := &StubImageGenerator{URL: "http://img/1.png", Block: block}
	studio := NewImageStudio(gen)

	done := make(chan struct{})
	go func() {
		defer close(done)
		studio.Generate(context.Background(), "first")
	}()
	waitFor(t, "first generation to start", func() bool { return gen.Calls() == 1 })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result := studio.Generate(ctx, "second")
	if result.Error != ImageGenerationFailedMessage || !errors.Is(result.Err, context.Canceled) {
		t.Errorf("Generate() with cancelled context = %+v, want failure caused by cancellation", result)
	}

	close(block)
	<-done
	if gen.Calls() != 1 {
		t.Errorf("generator calls = %d, want 1", gen.Calls())
	}
	if studio.Last().Prompt != "first" {
		t.Errorf("Last().Prompt = %q, want first", studio.Last().Prompt)
	}
}
