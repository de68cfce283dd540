package export

import (
	"fmt"
	"io"

	"github.com/iksnae/jonsai/internal"
)

// MarkdownExporter exports sessions in Markdown format. Message content is already
// Markdown and is written unchanged.
type MarkdownExporter struct{}

// Export exports a session to Markdown format
func (e *MarkdownExporter) Export(session *internal.Session, w io.Writer) error {
	if _, err := fmt.Fprintf(w, "# Session %s\n\n", session.ID); err != nil {
		return err
	}

	if session.Metadata.CreatedAt != "" {
		_, _ = fmt.Fprintf(w, "**Started:** %s  \n", session.Metadata.CreatedAt)
	}
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(session.Messages))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range session.Messages {
		timestamp := ""
		if msg.Timestamp != "" {
			timestamp = fmt.Sprintf(" (%s)", msg.Timestamp)
		}

		_, _ = fmt.Fprintf(w, "**%s:**%s\n\n%s\n\n", msg.Role, timestamp, msg.Content)

		if i < len(session.Messages)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}

// ContentType returns the MIME type for this format
func (e *MarkdownExporter) ContentType() string {
	return "text/markdown; charset=utf-8"
}
