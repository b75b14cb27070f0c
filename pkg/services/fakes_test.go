package services_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"sort"
	"sync"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
)

var errBackend = errors.New("backend unavailable")

type fakeDocumentAPI struct {
	mu        sync.Mutex
	docs      map[int64]domain.Document
	nextID    int64
	listCalls int
	patches   []domain.DocumentPatch
	rejects   []string
	pageSize  int

	// beforeList se ejecuta con la copia ya tomada, sin el mutex.
	beforeList func(call int)
	failList   bool
	failUpdate bool
	failPDF    bool
}

func newFakeDocumentAPI(docs ...domain.Document) *fakeDocumentAPI {
	f := &fakeDocumentAPI{docs: map[int64]domain.Document{}, nextID: 100}
	for _, d := range docs {
		f.docs[d.ID] = d
	}
	return f
}

func (f *fakeDocumentAPI) ListDocuments(_ context.Context, filter domain.DocumentFilter) (*domain.DocumentPage, error) {
	f.mu.Lock()
	f.listCalls++
	call := f.listCalls
	fail := f.failList
	all := make([]domain.Document, 0, len(f.docs))
	for _, d := range f.docs {
		all = append(all, d)
	}
	pageSize := f.pageSize
	hook := f.beforeList
	f.mu.Unlock()

	if hook != nil {
		hook(call)
	}
	if fail {
		return nil, errBackend
	}

	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	page := &domain.DocumentPage{Count: len(all), Results: all}
	if pageSize > 0 {
		start := (filter.Page - 1) * pageSize
		if start > len(all) {
			start = len(all)
		}
		end := start + pageSize
		if end < len(all) {
			page.Next = domain.StringPtr("next")
		} else {
			end = len(all)
		}
		page.Results = all[start:end]
	}
	return page, nil
}

func (f *fakeDocumentAPI) CreateDocument(_ context.Context, doc domain.Document) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	doc.ID = f.nextID
	f.docs[doc.ID] = doc
	return &doc, nil
}

func (f *fakeDocumentAPI) UpdateDocument(_ context.Context, id int64, patch domain.DocumentPatch) (*domain.Document, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failUpdate {
		return nil, errBackend
	}
	doc, ok := f.docs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	f.patches = append(f.patches, patch)
	if patch.Title != nil {
		doc.Title = *patch.Title
	}
	if patch.Content != nil {
		doc.Content = *patch.Content
	}
	if patch.State != nil {
		doc.State = *patch.State
	}
	if patch.AssignedTo != nil {
		doc.AssignedTo = patch.AssignedTo
	}
	f.docs[id] = doc
	return &doc, nil
}

func (f *fakeDocumentAPI) DeleteDocument(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.docs, id)
	return nil
}

func (f *fakeDocumentAPI) DownloadPDF(_ context.Context, id int64) (*ports.Blob, error) {
	if f.failPDF {
		return nil, errBackend
	}
	return &ports.Blob{Body: io.NopCloser(bytes.NewBufferString("%PDF-1.4")), ContentType: "application/pdf"}, nil
}

func (f *fakeDocumentAPI) DownloadWord(_ context.Context, id int64) (*ports.Blob, error) {
	return &ports.Blob{
		Body:        io.NopCloser(bytes.NewBufferString("PK")),
		ContentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
	}, nil
}

func (f *fakeDocumentAPI) UpdateRecent(context.Context, int64) error { return nil }

func (f *fakeDocumentAPI) ListRecent(context.Context) ([]domain.Document, error) {
	return nil, nil
}

func (f *fakeDocumentAPI) RejectDocument(_ context.Context, id, userID int64, comment string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	doc := f.docs[id]
	doc.State = domain.StateRejected
	f.docs[id] = doc
	f.rejects = append(f.rejects, comment)
	return nil
}

func (f *fakeDocumentAPI) setDocs(docs ...domain.Document) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs = map[int64]domain.Document{}
	for _, d := range docs {
		f.docs[d.ID] = d
	}
}

type memFiles struct {
	mu    sync.Mutex
	files map[string][]byte
	types map[string]string
	fail  bool
}

func newMemFiles() *memFiles {
	return &memFiles{files: map[string][]byte{}, types: map[string]string{}}
}

func (m *memFiles) Save(_ context.Context, name, contentType string, r io.Reader) (string, error) {
	if m.fail {
		return "", errors.New("disk full")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.files[name] = b
	m.types[name] = contentType
	return "mem://" + name, nil
}

func (m *memFiles) GenerateDownloadURL(_ context.Context, location string) (string, error) {
	return location, nil
}

type users map[int64]domain.User

func (u users) UserByID(id int64) (domain.User, bool) {
	user, ok := u[id]
	return user, ok
}
