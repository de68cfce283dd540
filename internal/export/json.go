package export

import (
	"encoding/json"
	"io"

	"github.com/iksnae/jonsai/internal"
)

// JSONExporter writes the session transcript as indented JSON
type JSONExporter struct{}

// Export writes the transcript of session to w
func (e *JSONExporter) Export(session *internal.Session, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(NewTranscript(session))
}

func (e *JSONExporter) Extension() string {
	return "json"
}

func (e *JSONExporter) ContentType() string {
	return "application/json"
}
