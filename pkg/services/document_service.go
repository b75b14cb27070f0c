package services

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/text/cases"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/lifecycle"
	"legal-document-manager/pkg/ports"
)

type documentService struct {
	api         ports.DocumentAPI
	fileStorage ports.FileStorage
	repo        ports.DocumentRepository // copia local opcional
	machine     *lifecycle.Machine
	notifier    ports.Notifier
	logger      zerolog.Logger

	mu         sync.RWMutex
	documents  []domain.Document
	dataLoaded bool
	loading    int
	lastFilter domain.DocumentFilter
	fetchSeq   uint64
	appliedSeq uint64
}

// NewDocumentService crea una nueva instancia de DocumentService.
// repo puede ser nil si no se quiere copia local de la caché.
func NewDocumentService(api ports.DocumentAPI, fs ports.FileStorage, repo ports.DocumentRepository, opts ...Option) ports.DocumentService {
	o := newOptions(opts)
	return &documentService{
		api:         api,
		fileStorage: fs,
		repo:        repo,
		machine:     o.machine,
		notifier:    o.notifier,
		logger:      o.logger.With().Str("service", "documents").Logger(),
	}
}

// FetchDocuments implementa ports.DocumentService.
// Si termina una consulta iniciada antes que otra ya aplicada, su resultado se descarta.
func (s *documentService) FetchDocuments(ctx context.Context, filter domain.DocumentFilter) error {
	s.mu.Lock()
	s.fetchSeq++
	seq := s.fetchSeq
	s.loading++
	s.lastFilter = filter
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.loading--
		s.mu.Unlock()
	}()

	docs, err := s.listAll(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch documents")
		return fmt.Errorf("failed to fetch documents: %w", err)
	}

	s.mu.Lock()
	if seq < s.appliedSeq {
		s.mu.Unlock()
		s.logger.Debug().Uint64("seq", seq).Msg("discarding superseded fetch")
		return nil
	}
	s.appliedSeq = seq
	s.documents = docs
	s.dataLoaded = true
	s.mu.Unlock()

	s.mirror(ctx, docs)
	return nil
}

func (s *documentService) listAll(ctx context.Context, filter domain.DocumentFilter) ([]domain.Document, error) {
	if filter.Page > 0 {
		page, err := s.api.ListDocuments(ctx, filter)
		if err != nil {
			return nil, err
		}
		return page.Results, nil
	}

	var docs []domain.Document
	filter.Page = 1
	for {
		page, err := s.api.ListDocuments(ctx, filter)
		if err != nil {
			return nil, err
		}
		docs = append(docs, page.Results...)
		if page.Next == nil || len(page.Results) == 0 {
			return docs, nil
		}
		filter.Page++
	}
}

func (s *documentService) mirror(ctx context.Context, docs []domain.Document) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Replace(ctx, docs); err != nil {
		s.logger.Warn().Err(err).Msg("failed to mirror document cache")
	}
}

// refresh vuelve a pedir el listado con el último filtro después de una mutación.
func (s *documentService) refresh(ctx context.Context) {
	s.mu.RLock()
	filter := s.lastFilter
	s.mu.RUnlock()

	if err := s.FetchDocuments(ctx, filter); err != nil {
		s.logger.Warn().Err(err).Msg("failed to refresh documents after mutation")
	}
}

// Hydrate implementa ports.DocumentService: carga la copia local si aún no hay datos del backend.
func (s *documentService) Hydrate(ctx context.Context) error {
	if s.repo == nil {
		return nil
	}
	docs, err := s.repo.FindAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load mirrored documents: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dataLoaded {
		return nil
	}
	s.documents = docs
	return nil
}

// CreateDocument implementa ports.DocumentService.
func (s *documentService) CreateDocument(ctx context.Context, doc domain.Document) (*domain.Document, error) {
	if doc.State == "" {
		doc.State = domain.StateDraft // Estado por defecto
	}

	created, err := s.api.CreateDocument(ctx, doc)
	if err != nil {
		s.logger.Error().Err(err).Str("title", doc.Title).Msg("failed to create document")
		return nil, fmt.Errorf("failed to create document: %w", err)
	}

	s.mu.Lock()
	s.documents = append(s.documents, *created)
	s.mu.Unlock()

	s.refresh(ctx)
	return created, nil
}

// UpdateDocument implementa ports.DocumentService.
func (s *documentService) UpdateDocument(ctx context.Context, id int64, patch domain.DocumentPatch) error {
	if patch.State != nil {
		return ErrStateChangeRequiresTransition
	}

	if _, err := s.api.UpdateDocument(ctx, id, patch); err != nil {
		s.logger.Error().Err(err).Int64("document_id", id).Msg("failed to update document")
		return fmt.Errorf("failed to update document: %w", err)
	}

	s.refresh(ctx)
	return nil
}

// DeleteDocument implementa ports.DocumentService.
func (s *documentService) DeleteDocument(ctx context.Context, id int64) error {
	if err := s.api.DeleteDocument(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("document_id", id).Msg("failed to delete document")
		return fmt.Errorf("failed to delete document: %w", err)
	}

	s.mu.Lock()
	for i, d := range s.documents {
		if d.ID == id {
			s.documents = append(s.documents[:i:i], s.documents[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Delete(ctx, id); err != nil {
			s.logger.Warn().Err(err).Int64("document_id", id).Msg("failed to delete mirrored document")
		}
	}

	s.refresh(ctx)
	return nil
}

// Transition implementa ports.DocumentService.
// La máquina de estados valida el evento antes de cualquier petición al backend.
func (s *documentService) Transition(ctx context.Context, id int64, event lifecycle.Event, actor domain.User, comment string) error {
	doc, ok := s.DocumentByID(id)
	if !ok {
		return fmt.Errorf("failed to transition document %d: %w", id, ErrDocumentNotFound)
	}

	t, err := s.machine.Next(lifecycle.Request{Document: doc, Event: event, Actor: actor, Comment: comment})
	if err != nil {
		s.notifier.Notify("La acción no está permitida para este documento", ports.SeverityWarning)
		return fmt.Errorf("failed to transition document %d: %w", id, err)
	}

	if event == lifecycle.EventReject {
		err = s.api.RejectDocument(ctx, id, actor.ID, comment)
	} else {
		patch := domain.DocumentPatch{State: domain.StatePtr(t.To)}
		if event == lifecycle.EventStart {
			patch.AssignedTo = domain.Int64Ptr(actor.ID)
		}
		_, err = s.api.UpdateDocument(ctx, id, patch)
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("document_id", id).Str("event", string(event)).Msg("failed to transition document")
		s.notifier.Notify("No se pudo actualizar el estado del documento", ports.SeverityError)
		return fmt.Errorf("failed to transition document %d: %w", id, err)
	}

	s.machine.Committed(id, t, actor)
	s.refresh(ctx)
	return nil
}

// DownloadPDF implementa ports.DocumentService. El PDF lo genera el backend.
func (s *documentService) DownloadPDF(ctx context.Context, id int64, filename string) (string, error) {
	return s.download(ctx, id, filename, ".pdf", s.api.DownloadPDF)
}

// DownloadWord implementa ports.DocumentService. El .docx lo genera el backend.
func (s *documentService) DownloadWord(ctx context.Context, id int64, filename string) (string, error) {
	return s.download(ctx, id, filename, ".docx", s.api.DownloadWord)
}

func (s *documentService) download(ctx context.Context, id int64, filename, ext string, fetch func(context.Context, int64) (*ports.Blob, error)) (string, error) {
	name := s.downloadName(id, filename, ext)

	blob, err := fetch(ctx, id)
	if err != nil {
		return "", s.downloadFailed(id, name, err)
	}
	defer blob.Body.Close()

	location, err := s.fileStorage.Save(ctx, name, blob.ContentType, blob.Body)
	if err != nil {
		return "", s.downloadFailed(id, name, err)
	}

	s.logger.Info().Int64("document_id", id).Str("location", location).Msg("document downloaded")
	return location, nil
}

func (s *documentService) downloadName(id int64, filename, ext string) string {
	if filename == "" {
		if doc, ok := s.DocumentByID(id); ok && doc.Title != "" {
			filename = doc.Title
		} else {
			filename = fmt.Sprintf("document-%d", id)
		}
	}
	if !strings.EqualFold(filepath.Ext(filename), ext) {
		filename += ext
	}
	return sanitizeFileName(filename)
}

func (s *documentService) downloadFailed(id int64, name string, err error) error {
	s.logger.Error().Err(err).Int64("document_id", id).Str("file", name).Msg("failed to download document")
	s.notifier.Notify("No se pudo descargar el documento "+name, ports.SeverityError)
	return fmt.Errorf("failed to download document %d: %w", id, err)
}

// UpdateRecent implementa ports.DocumentService.
func (s *documentService) UpdateRecent(ctx context.Context, id int64) error {
	if err := s.api.UpdateRecent(ctx, id); err != nil {
		s.logger.Warn().Err(err).Int64("document_id", id).Msg("failed to update recent document")
		return fmt.Errorf("failed to update recent document: %w", err)
	}
	return nil
}

// RecentDocuments implementa ports.DocumentService.
func (s *documentService) RecentDocuments(ctx context.Context) ([]domain.Document, error) {
	docs, err := s.api.ListRecent(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent documents: %w", err)
	}
	return docs, nil
}

func (s *documentService) DataLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataLoaded
}

func (s *documentService) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading > 0
}

func (s *documentService) Documents() []domain.Document {
	return s.filter(func(domain.Document) bool { return true })
}

func (s *documentService) DocumentByID(id int64) (domain.Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.documents {
		if d.ID == id {
			return d, true
		}
	}
	return domain.Document{}, false
}

func (s *documentService) PublishedDocumentsUnassigned() []domain.Document {
	return s.filter(func(d domain.Document) bool {
		return d.State == domain.StatePublished && !d.IsAssigned()
	})
}

func (s *documentService) DraftAndPublishedDocumentsUnassigned() []domain.Document {
	return s.filter(func(d domain.Document) bool {
		return (d.State == domain.StateDraft || d.State == domain.StatePublished) && !d.IsAssigned()
	})
}

func (s *documentService) ProgressDocumentsByClient(clientID int64) []domain.Document {
	return s.filter(func(d domain.Document) bool {
		return d.State == domain.StateProgress && d.IsAssignedTo(clientID)
	})
}

func (s *documentService) CompletedDocumentsByClient(clientID int64) []domain.Document {
	return s.filter(func(d domain.Document) bool {
		return d.State == domain.StateCompleted && d.IsAssignedTo(clientID)
	})
}

func (s *documentService) ProgressAndCompletedDocumentsByClient(clientID int64) []domain.Document {
	return s.filter(func(d domain.Document) bool {
		return (d.State == domain.StateProgress || d.State == domain.StateCompleted) && d.IsAssignedTo(clientID)
	})
}

// FilteredDocuments busca term sin distinguir mayúsculas en el título, la etiqueta del
// estado mostrado y, si el asignado ya está cargado en users, en su nombre, correo e identificación.
func (s *documentService) FilteredDocuments(term string, users ports.UserLookup) []domain.Document {
	folder := cases.Fold()
	needle := folder.String(strings.TrimSpace(term))
	if needle == "" {
		return s.Documents()
	}

	matches := func(field string) bool {
		return field != "" && strings.Contains(folder.String(field), needle)
	}

	return s.filter(func(d domain.Document) bool {
		if matches(d.Title) || matches(lifecycle.Label(lifecycle.DisplayState(d))) {
			return true
		}
		if d.AssignedTo == nil || users == nil {
			return false
		}
		u, ok := users.UserByID(*d.AssignedTo)
		if !ok {
			return false
		}
		return matches(u.FirstName) || matches(u.LastName) || matches(u.Email) || matches(u.Identification)
	})
}

func (s *documentService) filter(keep func(domain.Document) bool) []domain.Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Document, 0, len(s.documents))
	for _, d := range s.documents {
		if keep(d) {
			out = append(out, d)
		}
	}
	return out
}

// sanitizeFileName evita separadores de ruta en nombres tomados del título.
func sanitizeFileName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		return r
	}, name)
	return strings.TrimSpace(name)
}

// Asegurarse de que documentService implementa ports.DocumentService
var _ ports.DocumentService = (*documentService)(nil)
