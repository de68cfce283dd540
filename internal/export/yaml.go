package export

import (
	"fmt"
	"io"

	"github.com/iksnae/jonsai/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter writes the session transcript as YAML
type YAMLExporter struct{}

// Export writes the transcript of session to w
func (e *YAMLExporter) Export(session *internal.Session, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)

	if err := enc.Encode(NewTranscript(session)); err != nil {
		return fmt.Errorf("failed to encode transcript: %w", err)
	}
	return enc.Close()
}

func (e *YAMLExporter) Extension() string {
	return "yaml"
}

func (e *YAMLExporter) ContentType() string {
	return "application/yaml"
}
