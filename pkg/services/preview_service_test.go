package services_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/notify"
	"legal-document-manager/pkg/ports"
	"legal-document-manager/pkg/services"
)

type echoExporter struct {
	ext  string
	fail bool
}

func (e echoExporter) Export(_ context.Context, title, renderedHTML string, w io.Writer) error {
	if e.fail {
		return errors.New("render failed")
	}
	_, err := fmt.Fprintf(w, "%s|%s", title, renderedHTML)
	return err
}

func (e echoExporter) ContentType() string { return "text/test" }
func (e echoExporter) Extension() string   { return e.ext }

func assignedDocument() domain.Document {
	return domain.Document{
		ID:         3,
		Title:      "Promesa",
		Content:    "<p>Vendedor: {{seller}}</p>",
		AssignedTo: domain.Int64Ptr(7),
		Variables:  []domain.Variable{{NameEn: "seller", Value: domain.StringPtr("Ana Ruiz")}},
	}
}

func TestPreviewSlot(t *testing.T) {
	svc := services.NewPreviewService(newMemFiles(), nil)

	_, visible := svc.Preview()
	assert.False(t, visible)

	p := svc.OpenPreview(assignedDocument())
	assert.Equal(t, ports.Preview{Title: "Promesa", Content: "<p>Vendedor: Ana Ruiz</p>"}, p)

	unassigned := assignedDocument()
	unassigned.ID = 4
	unassigned.Title = "Plantilla"
	unassigned.AssignedTo = nil
	svc.OpenPreview(unassigned)

	got, visible := svc.Preview()
	require.True(t, visible)
	assert.Equal(t, ports.Preview{Title: "Plantilla", Content: "<p>Vendedor: {{seller}}</p>"}, got)

	svc.ClosePreview()
	got, visible = svc.Preview()
	assert.False(t, visible)
	assert.Equal(t, ports.Preview{}, got)
}

func TestPreviewDownloads(t *testing.T) {
	files := newMemFiles()
	svc := services.NewPreviewService(files, []ports.Exporter{
		echoExporter{ext: ".pdf"},
		echoExporter{ext: ".docx"},
		echoExporter{ext: ".md"},
	})
	ctx := context.Background()

	location, err := svc.DownloadAsPDF(ctx, assignedDocument())
	require.NoError(t, err)
	assert.Equal(t, "mem://Promesa.pdf", location)
	assert.Equal(t, "Promesa|<p>Vendedor: Ana Ruiz</p>", string(files.files["Promesa.pdf"]))

	_, err = svc.DownloadAsWord(ctx, assignedDocument())
	require.NoError(t, err)
	_, err = svc.DownloadAsMarkdown(ctx, assignedDocument())
	require.NoError(t, err)
	assert.Contains(t, files.files, "Promesa.docx")
	assert.Contains(t, files.files, "Promesa.md")
}

func TestPreviewDownloadFailures(t *testing.T) {
	rec := &notify.Recorder{}
	files := newMemFiles()
	svc := services.NewPreviewService(files, []ports.Exporter{echoExporter{ext: ".pdf", fail: true}}, services.WithNotifier(rec))
	ctx := context.Background()

	_, err := svc.DownloadAsPDF(ctx, assignedDocument())
	require.Error(t, err)

	_, err = svc.DownloadAsWord(ctx, assignedDocument())
	require.ErrorIs(t, err, services.ErrUnsupportedFormat)

	assert.Empty(t, files.files)
	require.Len(t, rec.Notifications(), 2)
	for _, n := range rec.Notifications() {
		assert.Equal(t, ports.SeverityError, n.Severity)
	}
}
