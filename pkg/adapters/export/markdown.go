package export

import (
	"context"
	"fmt"
	"io"
	"strings"

	"legal-document-manager/pkg/ports"
	"legal-document-manager/pkg/render"
)

// Markdown conserva encabezados, listas y énfasis del HTML; el título va como "# título".
type Markdown struct{}

func (Markdown) ContentType() string { return "text/markdown; charset=utf-8" }
func (Markdown) Extension() string   { return ".md" }

// Export implementa ports.Exporter.
func (Markdown) Export(_ context.Context, title, renderedHTML string, w io.Writer) error {
	body, err := render.Markdown(renderedHTML)
	if err != nil {
		return fmt.Errorf("failed to convert to markdown: %w", err)
	}

	var b strings.Builder
	if title = strings.TrimSpace(title); title != "" {
		b.WriteString("# ")
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	b.WriteString(strings.TrimSpace(body))
	b.WriteString("\n")

	if _, err := io.WriteString(w, b.String()); err != nil {
		return fmt.Errorf("failed to write markdown: %w", err)
	}
	return nil
}

// All devuelve los exportadores disponibles.
func All() []ports.Exporter {
	return []ports.Exporter{PDF{}, Word{}, Markdown{}}
}

var _ ports.Exporter = Markdown{}
