package internal

import "strings"

// ImagePrefix marks a chat input as a photo lookup
const ImagePrefix = "image:"

// RequestKind is the handling class of a submitted input
type RequestKind int

const (
	RequestChat RequestKind = iota
	RequestImage
)

func (k RequestKind) String() string {
	switch k {
	case RequestImage:
		return "image"
	default:
		return "chat"
	}
}

// Request is a classified chat input
type Request struct {
	Kind  RequestKind
	Text  string // input exactly as submitted
	Query string // photo search query, set for RequestImage only
}

// Classify decides how a submitted input is handled. The second return value is false
// when the input is empty after trimming.
func Classify(text string) (Request, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Request{}, false
	}

	if len(trimmed) >= len(ImagePrefix) && strings.EqualFold(trimmed[:len(ImagePrefix)], ImagePrefix) {
		return Request{
			Kind:  RequestImage,
			Text:  text,
			Query: strings.TrimSpace(trimmed[len(ImagePrefix):]),
		}, true
	}

	return Request{Kind: RequestChat, Text: text}, true
}
