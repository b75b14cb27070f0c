// Package export implementa ports.Exporter: convierte el HTML renderizado de un
// documento en PDF, Word o Markdown a partir de su texto plano.
package export

import (
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"

	"legal-document-manager/pkg/ports"
	"legal-document-manager/pkg/render"
)

const (
	pdfMargin     = 20.0 // mm
	pdfFontSize   = 12.0
	pdfLineHeight = 6.0
)

// PDF genera un A4 con el texto en Arial 12 y márgenes fijos.
type PDF struct{}

func (PDF) ContentType() string { return "application/pdf" }
func (PDF) Extension() string   { return ".pdf" }

// Export implementa ports.Exporter.
func (PDF) Export(ctx context.Context, title, renderedHTML string, w io.Writer) error {
	text, err := render.PlainText(renderedHTML)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(title, true)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()
	pdf.SetFont("Arial", "", pdfFontSize)

	// Las fuentes base de PDF usan cp1252; sin traducir se pierden tildes y eñes.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.MultiCell(0, pdfLineHeight, tr(text), "", "L", false)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}

var _ ports.Exporter = PDF{}
