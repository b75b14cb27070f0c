package export_test

import (
	"archive/zip"
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-document-manager/pkg/adapters/export"
)

const sample = `<h1>Contrato</h1><p>Arrendador: Ana Ruiz &amp; Cía.</p><p>Canon: $1.200.000<br>Pago mensual</p><script>alert(1)</script>`

func TestPDF(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.PDF{}.Export(context.Background(), "Contrato", sample, &buf))

	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Equal(t, ".pdf", export.PDF{}.Extension())
	assert.Equal(t, "application/pdf", export.PDF{}.ContentType())
}

func TestPDFCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	require.ErrorIs(t, export.PDF{}.Export(ctx, "x", sample, &buf), context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestWord(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Word{}.Export(context.Background(), "Contrato <borrador>", sample, &buf))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)

	files := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		files[f.Name] = string(b)
	}

	require.Contains(t, files, "[Content_Types].xml")
	require.Contains(t, files, "_rels/.rels")
	doc := files["word/document.xml"]
	assert.Contains(t, doc, `w:ascii="Arial"`)
	assert.Contains(t, doc, `<w:sz w:val="24"/>`)
	assert.Contains(t, doc, "Ana Ruiz &amp; Cía.")
	assert.Contains(t, doc, "$1.200.000</w:t><w:br/>")
	assert.NotContains(t, doc, "alert")
	assert.Equal(t, 1, bytes.Count([]byte(doc), []byte("<w:p>")))
	assert.Contains(t, files["docProps/core.xml"], "Contrato &lt;borrador&gt;")
}

func TestMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, export.Markdown{}.Export(context.Background(), "Contrato", `<p>Entre <strong>Ana</strong> y <em>Pedro</em></p><ul><li>uno</li></ul>`, &buf))

	out := buf.String()
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("# Contrato\n\n")))
	assert.Contains(t, out, "**Ana**")
	assert.Contains(t, out, "- uno")
}

func TestAll(t *testing.T) {
	exts := map[string]bool{}
	for _, e := range export.All() {
		exts[e.Extension()] = true
	}
	assert.Equal(t, map[string]bool{".pdf": true, ".docx": true, ".md": true}, exts)
}
