package services

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
	"legal-document-manager/pkg/render"
)

type previewService struct {
	fileStorage ports.FileStorage
	exporters   map[string]ports.Exporter
	notifier    ports.Notifier
	logger      zerolog.Logger

	mu      sync.RWMutex
	slot    ports.Preview
	visible bool
}

// NewPreviewService crea una nueva instancia de PreviewService.
// Los exportadores se indexan por extensión (".pdf", ".docx", ".md").
func NewPreviewService(fs ports.FileStorage, exporters []ports.Exporter, opts ...Option) ports.PreviewService {
	o := newOptions(opts)
	byExt := make(map[string]ports.Exporter, len(exporters))
	for _, e := range exporters {
		byExt[strings.ToLower(e.Extension())] = e
	}
	return &previewService{
		fileStorage: fs,
		exporters:   byExt,
		notifier:    o.notifier,
		logger:      o.logger.With().Str("service", "preview").Logger(),
	}
}

// OpenPreview implementa ports.PreviewService. Sobrescribe la vista previa anterior.
func (s *previewService) OpenPreview(doc domain.Document) ports.Preview {
	p := ports.Preview{Title: doc.Title, Content: render.RenderDocument(doc)}

	s.mu.Lock()
	s.slot = p
	s.visible = true
	s.mu.Unlock()
	return p
}

// Preview implementa ports.PreviewService.
func (s *previewService) Preview() (ports.Preview, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.slot, s.visible
}

// ClosePreview implementa ports.PreviewService.
func (s *previewService) ClosePreview() {
	s.mu.Lock()
	s.slot = ports.Preview{}
	s.visible = false
	s.mu.Unlock()
}

func (s *previewService) DownloadAsPDF(ctx context.Context, doc domain.Document) (string, error) {
	return s.export(ctx, doc, ".pdf")
}

func (s *previewService) DownloadAsWord(ctx context.Context, doc domain.Document) (string, error) {
	return s.export(ctx, doc, ".docx")
}

func (s *previewService) DownloadAsMarkdown(ctx context.Context, doc domain.Document) (string, error) {
	return s.export(ctx, doc, ".md")
}

func (s *previewService) export(ctx context.Context, doc domain.Document, ext string) (string, error) {
	name := sanitizeFileName(doc.Title + ext)

	exporter, ok := s.exporters[ext]
	if !ok {
		return "", s.exportFailed(doc, name, ErrUnsupportedFormat)
	}

	var buf bytes.Buffer
	if err := exporter.Export(ctx, doc.Title, render.RenderDocument(doc), &buf); err != nil {
		return "", s.exportFailed(doc, name, err)
	}

	location, err := s.fileStorage.Save(ctx, name, exporter.ContentType(), &buf)
	if err != nil {
		return "", s.exportFailed(doc, name, err)
	}

	s.logger.Info().Int64("document_id", doc.ID).Str("location", location).Msg("document exported")
	return location, nil
}

func (s *previewService) exportFailed(doc domain.Document, name string, err error) error {
	s.logger.Error().Err(err).Int64("document_id", doc.ID).Str("file", name).Msg("failed to export document")
	s.notifier.Notify("No se pudo generar el archivo "+name, ports.SeverityError)
	return fmt.Errorf("failed to export %s: %w", name, err)
}

// Asegurarse de que previewService implementa ports.PreviewService
var _ ports.PreviewService = (*previewService)(nil)
