package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/iksnae/jonsai/internal"
)

// JSONLExporter exports sessions in JSONL format (one message per line)
type JSONLExporter struct{}

type jsonlLine struct {
	Role      internal.Role `json:"role"`
	Content   string        `json:"content"`
	Timestamp string        `json:"timestamp,omitempty"`
}

// Export exports a session to JSONL format
func (e *JSONLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)

	for _, msg := range session.Messages {
		line := jsonlLine{
			Role:      msg.Role,
			Content:   msg.Content,
			Timestamp: msg.Timestamp,
		}
		if err := enc.Encode(line); err != nil {
			return fmt.Errorf("failed to encode message: %w", err)
		}
	}

	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}

// ContentType returns the MIME type for this format
func (e *JSONLExporter) ContentType() string {
	return "application/x-ndjson"
}
