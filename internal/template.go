package internal

import (
	"fmt"
	"strings"
	"unicode"
)

// Turn delimiters of the zephyr chat template
const (
	SystemOpen    = "<|system|>"
	UserOpen      = "<|user|>"
	AssistantOpen = "<|assistant|>"
	TurnClose     = "</s>"
)

// SystemInstruction is sent as the system turn of every chat prompt
const SystemInstruction = "You are a helpful AI assistant. Respond directly to the user's question without generating unrelated content. Keep responses concise and focused on the user's needs. Do not include previous messages in your response."

// TurnRole tags a prompt turn
type TurnRole string

const (
	TurnSystem    TurnRole = "system"
	TurnUser      TurnRole = "user"
	TurnAssistant TurnRole = "assistant"
)

// Turn is one segment of a prompt before it is flattened into template text
type Turn struct {
	Role TurnRole
	Text string
}

var delimiterStripper = strings.NewReplacer(
	SystemOpen, "",
	UserOpen, "",
	AssistantOpen, "",
	TurnClose, "",
)

// BuildChatTurns assembles the turns for a chat request. prior holds the messages that
// precede the current input; only the last window of them are included as context.
func BuildChatTurns(prior []Message, current string, window int) []Turn {
	return []Turn{
		{Role: TurnSystem, Text: SystemInstruction},
		{Role: TurnUser, Text: fmt.Sprintf("Recent context:\n%s\n\nCurrent message: %s", FormatContext(prior, window), current)},
		{Role: TurnAssistant},
	}
}

// FormatContext renders the last window messages as "role: content" lines
func FormatContext(prior []Message, window int) string {
	recent := lastN(prior, window)
	lines := make([]string, 0, len(recent))
	for _, msg := range recent {
		lines = append(lines, fmt.Sprintf("%s: %s", msg.Role, msg.Content))
	}
	return strings.Join(lines, "\n")
}

// RenderPrompt flattens turns into the delimited template string. A trailing assistant
// turn with no text is left open for the model to complete.
func RenderPrompt(turns []Turn) string {
	var b strings.Builder
	for i, turn := range turns {
		b.WriteString(openDelimiter(turn.Role))
		b.WriteString(turn.Text)

		if i == len(turns)-1 && turn.Role == TurnAssistant && turn.Text == "" {
			break
		}
		b.WriteString(TurnClose)
		if i < len(turns)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func openDelimiter(role TurnRole) string {
	switch role {
	case TurnSystem:
		return SystemOpen
	case TurnAssistant:
		return AssistantOpen
	default:
		return UserOpen
	}
}

// CleanReply turns raw generated text back into display text: template delimiters are
// removed, then any leading run of non-alphanumeric characters, then surrounding space.
// CleanReply(CleanReply(s)) == CleanReply(s).
func CleanReply(raw string) string {
	text := StripDelimiters(raw)
	text = strings.TrimLeftFunc(text, func(r rune) bool { return !isASCIIAlnum(r) })
	return strings.TrimSpace(text)
}

// StripDelimiters removes every template delimiter. Removal repeats until none remain so
// that fragments joined by an earlier removal cannot form a new delimiter.
func StripDelimiters(raw string) string {
	for {
		stripped := delimiterStripper.Replace(raw)
		if stripped == raw {
			return stripped
		}
		raw = stripped
	}
}

func isASCIIAlnum(r rune) bool {
	return r <= unicode.MaxASCII && (('a' <= r && r <= 'z') || ('A' <= r && r <= 'Z') || ('0' <= r && r <= '9'))
}
