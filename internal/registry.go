package internal

import (
	"sync"
	"time"
)

// ScreenSet is the per-browser-session state: one chat and one image screen
type ScreenSet struct {
	Chat     *ConversationController
	Images   *ImageStudio
	lastSeen time.Time
}

// Registry keeps screen state per browser session in memory. Nothing is persisted;
// idle sessions are dropped by Sweep.
type Registry struct {
	newChat   func() *ConversationController
	newImages func() *ImageStudio

	mu       sync.Mutex
	sessions map[string]*ScreenSet
}

// NewRegistry creates a registry that builds screens with the given constructors
func NewRegistry(newChat func() *ConversationController, newImages func() *ImageStudio) *Registry {
	return &Registry{
		newChat:   newChat,
		newImages: newImages,
		sessions:  make(map[string]*ScreenSet),
	}
}

// NewRegistryFromConfig creates a registry whose screens call the configured upstreams
func NewRegistryFromConfig(cfg *Config) *Registry {
	return NewRegistry(
		func() *ConversationController { return NewConversationControllerFromConfig(cfg) },
		func() *ImageStudio { return NewImageStudioFromConfig(cfg) },
	)
}

// Lookup returns the screens for id, if any
func (r *Registry) Lookup(id string) (*ScreenSet, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	set, ok := r.sessions[id]
	if ok {
		set.lastSeen = time.Now()
	}
	return set, ok
}

// Create starts a new session and returns its id and screens
func (r *Registry) Create() (string, *ScreenSet) {
	set := &ScreenSet{
		Chat:     r.newChat(),
		Images:   r.newImages(),
		lastSeen: time.Now(),
	}
	id := set.Chat.ID()

	r.mu.Lock()
	r.sessions[id] = set
	r.mu.Unlock()

	LogDebug("Created browser session %s", id)
	return id, set
}

// Len returns the number of live sessions
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than maxIdle and returns how many were dropped.
// Sessions with a submission in flight are kept.
func (r *Registry) Sweep(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)

	r.mu.Lock()
	defer r.mu.Unlock()

	dropped := 0
	for id, set := range r.sessions {
		if set.lastSeen.Before(cutoff) && !set.Chat.Pending() && !set.Images.Pending() {
			delete(r.sessions, id)
			dropped++
		}
	}
	if dropped > 0 {
		LogDebug("Dropped %d idle browser session(s)", dropped)
	}
	return dropped
}
