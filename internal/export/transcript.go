package export

import "github.com/iksnae/jonsai/internal"

// Transcript is the document written by the JSON and YAML exporters
type Transcript struct {
	ID           string  `json:"id" yaml:"id"`
	StartedAt    string  `json:"started_at,omitempty" yaml:"started_at,omitempty"`
	UpdatedAt    string  `json:"updated_at,omitempty" yaml:"updated_at,omitempty"`
	MessageCount int     `json:"message_count" yaml:"message_count"`
	Messages     []Entry `json:"messages" yaml:"messages"`
}

// Entry is one transcript message. Kind is the request kind of the exchange the
// message belongs to; ImageURL is set on photo replies and Failed on apologies.
type Entry struct {
	Timestamp string        `json:"timestamp,omitempty" yaml:"timestamp,omitempty"`
	Role      internal.Role `json:"role" yaml:"role"`
	Content   string        `json:"content" yaml:"content"`
	Kind      string        `json:"kind,omitempty" yaml:"kind,omitempty"`
	ImageURL  string        `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Failed    bool          `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// NewTranscript builds the transcript of session
func NewTranscript(session *internal.Session) *Transcript {
	t := &Transcript{
		ID:           session.ID,
		StartedAt:    session.Metadata.CreatedAt,
		UpdatedAt:    session.Metadata.UpdatedAt,
		MessageCount: len(session.Messages),
		Messages:     make([]Entry, 0, len(session.Messages)),
	}

	kind := ""
	for _, msg := range session.Messages {
		entry := Entry{
			Timestamp: msg.Timestamp,
			Role:      msg.Role,
			Content:   msg.Content,
		}
		if msg.IsUser() {
			kind = ""
			if req, ok := internal.Classify(msg.Content); ok {
				kind = req.Kind.String()
			}
		} else {
			entry.Failed = msg.Content == internal.ApologyReply
			if url, ok := internal.ImageURLFromReply(msg.Content); ok {
				entry.ImageURL = url
			}
		}
		entry.Kind = kind
		t.Messages = append(t.Messages, entry)
	}
	return t
}
