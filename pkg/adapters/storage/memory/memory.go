// Package memory guarda las copias locales en mapas; sirve para la CLI sin persistencia y para pruebas.
package memory

import (
	"context"
	"sort"
	"sync"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
)

// table es un mapa por id seguro para uso concurrente.
type table[T any] struct {
	mu    sync.RWMutex
	items map[int64]T
}

func newTable[T any]() *table[T] {
	return &table[T]{items: map[int64]T{}}
}

func (t *table[T]) put(id int64, v T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items[id] = v
}

func (t *table[T]) get(id int64) (T, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.items[id]
	return v, ok
}

func (t *table[T]) all() []T {
	t.mu.RLock()
	defer t.mu.RUnlock()

	ids := make([]int64, 0, len(t.items))
	for id := range t.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make([]T, len(ids))
	for i, id := range ids {
		out[i] = t.items[id]
	}
	return out
}

func (t *table[T]) delete(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.items, id)
}

func (t *table[T]) replace(items map[int64]T) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.items = items
}

type documentRepository struct{ t *table[domain.Document] }

// NewDocumentRepository crea una nueva instancia de DocumentRepository en memoria.
func NewDocumentRepository() ports.DocumentRepository {
	return &documentRepository{t: newTable[domain.Document]()}
}

func (r *documentRepository) Save(_ context.Context, doc *domain.Document) error {
	r.t.put(doc.ID, *doc)
	return nil
}

func (r *documentRepository) FindByID(_ context.Context, id int64) (*domain.Document, error) {
	doc, ok := r.t.get(id)
	if !ok {
		return nil, nil // No encontrado
	}
	return &doc, nil
}

func (r *documentRepository) FindAll(context.Context) ([]domain.Document, error) {
	return r.t.all(), nil
}

func (r *documentRepository) Delete(_ context.Context, id int64) error {
	r.t.delete(id)
	return nil
}

func (r *documentRepository) Replace(_ context.Context, docs []domain.Document) error {
	items := make(map[int64]domain.Document, len(docs))
	for _, d := range docs {
		items[d.ID] = d
	}
	r.t.replace(items)
	return nil
}

type userRepository struct{ t *table[domain.User] }

// NewUserRepository crea una nueva instancia de UserRepository en memoria.
func NewUserRepository() ports.UserRepository {
	return &userRepository{t: newTable[domain.User]()}
}

func (r *userRepository) Save(_ context.Context, user *domain.User) error {
	r.t.put(user.ID, *user)
	return nil
}

func (r *userRepository) FindByID(_ context.Context, id int64) (*domain.User, error) {
	user, ok := r.t.get(id)
	if !ok {
		return nil, nil
	}
	return &user, nil
}

func (r *userRepository) FindAll(context.Context) ([]domain.User, error) {
	return r.t.all(), nil
}

func (r *userRepository) Delete(_ context.Context, id int64) error {
	r.t.delete(id)
	return nil
}

type tagRepository struct{ t *table[domain.Tag] }

// NewTagRepository crea una nueva instancia de TagRepository en memoria.
func NewTagRepository() ports.TagRepository {
	return &tagRepository{t: newTable[domain.Tag]()}
}

func (r *tagRepository) Save(_ context.Context, tag *domain.Tag) error {
	r.t.put(tag.ID, *tag)
	return nil
}

func (r *tagRepository) FindByID(_ context.Context, id int64) (*domain.Tag, error) {
	tag, ok := r.t.get(id)
	if !ok {
		return nil, nil
	}
	return &tag, nil
}

func (r *tagRepository) FindAll(context.Context) ([]domain.Tag, error) {
	return r.t.all(), nil
}

func (r *tagRepository) Delete(_ context.Context, id int64) error {
	r.t.delete(id)
	return nil
}

var (
	_ ports.DocumentRepository = (*documentRepository)(nil)
	_ ports.UserRepository     = (*userRepository)(nil)
	_ ports.TagRepository      = (*tagRepository)(nil)
)
