package export

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"legal-document-manager/pkg/ports"
	"legal-document-manager/pkg/render"
)

// Tamaño en medios puntos (24 = 12 pt).
const docxFontHalfPoints = 24

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
<Relationship Id="rId2" Type="http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties" Target="docProps/core.xml"/>
</Relationships>`

// Word genera un .docx con un solo párrafo y un solo run en Arial 12; los saltos de línea son <w:br/>.
type Word struct{}

func (Word) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
}
func (Word) Extension() string { return ".docx" }

// Export implementa ports.Exporter.
func (Word) Export(ctx context.Context, title, renderedHTML string, w io.Writer) error {
	text, err := render.PlainText(renderedHTML)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	parts := []struct {
		name string
		body string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"docProps/core.xml", coreProperties(title)},
		{"word/document.xml", documentXML(text)},
	}
	for _, p := range parts {
		f, err := zw.Create(p.name)
		if err != nil {
			return fmt.Errorf("failed to create %s: %w", p.name, err)
		}
		if _, err := io.WriteString(f, p.body); err != nil {
			return fmt.Errorf("failed to write %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to write docx: %w", err)
	}
	return nil
}

func escape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

func coreProperties(title string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/">
<dc:title>` + escape(title) + `</dc:title>
</cp:coreProperties>`
}

func documentXML(text string) string {
	var run strings.Builder
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			run.WriteString("<w:br/>")
		}
		run.WriteString(`<w:t xml:space="preserve">`)
		run.WriteString(escape(line))
		run.WriteString("</w:t>")
	}

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:rPr><w:rFonts w:ascii="Arial" w:hAnsi="Arial" w:cs="Arial"/><w:sz w:val="%d"/><w:szCs w:val="%d"/></w:rPr>%s</w:r></w:p>
</w:body>
</w:document>`, docxFontHalfPoints, docxFontHalfPoints, run.String())
}

var _ ports.Exporter = Word{}
