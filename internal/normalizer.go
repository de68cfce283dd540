package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FallbackReply is shown when the model produced nothing usable
const FallbackReply = "Hi! How can I help you today?"

// generation is one element of a text-generation response
type generation struct {
	GeneratedText *string `json:"generated_text"`
}

// Normalizer converts upstream text-generation responses into display-ready replies
type Normalizer struct{}

// NewNormalizer creates a new Normalizer
func NewNormalizer() *Normalizer {
	return &Normalizer{}
}

// ExtractGeneratedText pulls the generated text out of a response body. It accepts a list
// of generations (first one wins), a bare JSON string, or a single generation object. Any
// other JSON value yields "". Invalid JSON is an error.
func (n *Normalizer) ExtractGeneratedText(body []byte) (string, error) {
	trimmed := bytes.TrimSpace(body)
	if !json.Valid(trimmed) {
		return "", fmt.Errorf("response is not valid JSON")
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return "", fmt.Errorf("failed to parse generation list: %w", err)
		}
		if len(items) == 0 {
			return "", nil
		}
		return n.generatedText(items[0]), nil
	case '"':
		var text string
		if err := json.Unmarshal(trimmed, &text); err != nil {
			return "", fmt.Errorf("failed to parse generation string: %w", err)
		}
		return text, nil
	case '{':
		return n.generatedText(trimmed), nil
	default:
		return "", nil
	}
}

// generatedText reads generated_text from an object, "" for anything else
func (n *Normalizer) generatedText(raw json.RawMessage) string {
	var gen generation
	if err := json.Unmarshal(raw, &gen); err != nil || gen.GeneratedText == nil {
		return ""
	}
	return *gen.GeneratedText
}

// NormalizeReply extracts, cleans and, when nothing is left, substitutes FallbackReply
func (n *Normalizer) NormalizeReply(body []byte) (string, error) {
	text, err := n.ExtractGeneratedText(body)
	if err != nil {
		return "", err
	}

	reply := CleanReply(text)
	if reply == "" {
		return FallbackReply, nil
	}
	return reply, nil
}
