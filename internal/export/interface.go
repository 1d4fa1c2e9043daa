package export

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/iksnae/session-viewer/internal"
)

// Exporter writes one normalized session to w
type Exporter interface {
	Export(session *internal.Session, w io.Writer) error
	Extension() string
}

var exporters = map[string]func() Exporter{
	"jsonl":    func() Exporter { return &JSONLExporter{} },
	"md":       func() Exporter { return &MarkdownExporter{} },
	"markdown": func() Exporter { return &MarkdownExporter{} },
	"yaml":     func() Exporter { return &YAMLExporter{} },
	"yml":      func() Exporter { return &YAMLExporter{} },
	"json":     func() Exporter { return &JSONExporter{} },
}

// SupportedFormats lists every accepted format name, aliases included
func SupportedFormats() []string {
	names := make([]string, 0, len(exporters))
	for name := range exporters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewExporter returns the exporter for format. Case and a leading dot are
// ignored, so ".JSONL" picks the JSONL exporter.
func NewExporter(format string) (Exporter, error) {
	key := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(format), "."))
	if newExporter, ok := exporters[key]; ok {
		return newExporter(), nil
	}
	return nil, &internal.ExportError{
		Format: format,
		Err:    fmt.Errorf("unsupported format (supported: %s)", strings.Join(SupportedFormats(), ", ")),
	}
}
