package internal

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

// ApologyReply is appended in place of a reply whenever an upstream call fails
const ApologyReply = "I apologize, but I'm having trouble right now. Could you try again?"

// SubmitResult describes one completed submission
type SubmitResult struct {
	Kind  RequestKind
	Reply Message
	// Err is the upstream failure behind an ApologyReply, nil on success
	Err error
}

// ConversationController owns a chat history and is its only writer. Submissions are
// served one at a time in arrival order.
type ConversationController struct {
	id        string
	createdAt time.Time
	window    int

	chat   TextGenerator
	photos PhotoSearcher

	queue   *semaphore.Weighted
	pending atomic.Bool

	mu       sync.RWMutex
	messages []Message
}

// NewConversationController creates a controller with an empty history
func NewConversationController(chat TextGenerator, photos PhotoSearcher, window int) *ConversationController {
	return &ConversationController{
		id:        uuid.NewString(),
		createdAt: time.Now().UTC(),
		window:    window,
		chat:      chat,
		photos:    photos,
		queue:     semaphore.NewWeighted(1),
	}
}

// NewConversationControllerFromConfig wires the HTTP upstream clients described by cfg
func NewConversationControllerFromConfig(cfg *Config) *ConversationController {
	return NewConversationController(
		NewHuggingFaceClient(cfg.HuggingFace, cfg.HTTP.Timeout),
		NewUnsplashClient(cfg.Unsplash, cfg.HTTP.Timeout),
		cfg.Chat.ContextWindow,
	)
}

// ID returns the session id
func (c *ConversationController) ID() string {
	return c.id
}

// Pending reports whether a submission is awaiting its reply
func (c *ConversationController) Pending() bool {
	return c.pending.Load()
}

// Messages returns a copy of the history, oldest first
func (c *ConversationController) Messages() []Message {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Message, len(c.messages))
	copy(out, c.messages)
	return out
}

// Session returns the history as an exportable session
func (c *ConversationController) Session() *Session {
	messages := c.Messages()
	metadata := Metadata{
		CreatedAt:    c.createdAt.Format(time.RFC3339),
		MessageCount: len(messages),
	}
	if len(messages) > 0 {
		metadata.UpdatedAt = messages[len(messages)-1].Timestamp
	}

	return &Session{
		ID:       c.id,
		Messages: messages,
		Metadata: metadata,
	}
}

// Reset clears the history. It waits for an in-flight submission to finish.
func (c *ConversationController) Reset(ctx context.Context) error {
	if err := c.queue.Acquire(ctx, 1); err != nil {
		return err
	}
	defer c.queue.Release(1)

	c.mu.Lock()
	c.messages = nil
	c.mu.Unlock()
	return nil
}

// Submit handles one user input. Empty input is ignored and returns (nil, nil). Upstream
// failures never surface as an error: an apology is appended instead and the cause is
// reported in SubmitResult.Err. The returned error is non-nil only when ctx ends while the
// submission is still queued, in which case history is untouched.
func (c *ConversationController) Submit(ctx context.Context, text string) (*SubmitResult, error) {
	req, ok := Classify(text)
	if !ok {
		return nil, nil
	}

	if err := c.queue.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("submission abandoned while queued: %w", err)
	}
	defer c.queue.Release(1)

	c.pending.Store(true)
	defer c.pending.Store(false)

	prior := c.append(NewMessage(RoleUser, req.Text))

	var content string
	var err error
	switch req.Kind {
	case RequestImage:
		content, err = c.lookupPhoto(ctx, req.Query)
	default:
		content, err = c.generateReply(ctx, prior, req.Text)
	}

	result := &SubmitResult{Kind: req.Kind, Err: err}
	if err != nil {
		logUpstreamFailure(req.Kind.String(), err)
		content = ApologyReply
	}

	result.Reply = NewMessage(RoleAssistant, content)
	c.append(result.Reply)
	return result, nil
}

func (c *ConversationController) lookupPhoto(ctx context.Context, query string) (string, error) {
	imageURL, err := c.photos.RandomPhoto(ctx, query)
	if err != nil {
		return "", err
	}
	return ImageReply(imageURL), nil
}

func (c *ConversationController) generateReply(ctx context.Context, prior []Message, text string) (string, error) {
	prompt := RenderPrompt(BuildChatTurns(prior, text, c.window))
	return c.chat.Generate(ctx, prompt)
}

// append adds msg to the history and returns the messages that preceded it
func (c *ConversationController) append(msg Message) []Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	prior := c.messages[:len(c.messages):len(c.messages)]
	c.messages = append(c.messages, msg)
	return prior
}

const imageReplyPrefix = "Here is your image: ![Image]("

// ImageReply formats a photo URL as the assistant's Markdown reply
func ImageReply(imageURL string) string {
	return fmt.Sprintf("%s%s)", imageReplyPrefix, imageURL)
}

// ImageURLFromReply returns the photo URL embedded by ImageReply
func ImageURLFromReply(content string) (string, bool) {
	rest, ok := strings.CutPrefix(content, imageReplyPrefix)
	if !ok {
		return "", false
	}
	return strings.CutSuffix(rest, ")")
}
