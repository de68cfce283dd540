package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/iksnae/jonsai/internal"
)

// Exporter defines the interface for all transcript formats
type Exporter interface {
	Export(session *internal.Session, w io.Writer) error
	Extension() string
	ContentType() string
}

// Formats lists the accepted format names
var Formats = []string{"jsonl", "md", "yaml", "json"}

// FormatList returns the accepted format names for help and error text
func FormatList() string {
	return strings.Join(Formats, ", ")
}

// NewExporter creates a new exporter based on format
func NewExporter(format string) (Exporter, error) {
	switch format {
	case "jsonl":
		return &JSONLExporter{}, nil
	case "md", "markdown":
		return &MarkdownExporter{}, nil
	case "yaml", "yml":
		return &YAMLExporter{}, nil
	case "json":
		return &JSONExporter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, FormatList())
	}
}
