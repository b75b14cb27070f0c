// Package sqlite guarda la copia local de los documentos en un archivo SQLite.
// Cada fila lleva el documento completo codificado en CBOR y unas pocas columnas consultables.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	_ "modernc.org/sqlite"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
)

// Open abre (o crea) la base en path. ":memory:" sirve para pruebas.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// Una sola conexión: con ":memory:" cada conexión sería una base distinta.
	db.SetMaxOpenConns(1)
	return db, nil
}

type documentRepository struct {
	db  *sql.DB
	enc cbor.EncMode
}

// NewDocumentRepository crea una nueva instancia de DocumentRepository y la tabla si falta.
func NewDocumentRepository(ctx context.Context, db *sql.DB) (ports.DocumentRepository, error) {
	enc, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		return nil, fmt.Errorf("failed to build cbor encoder: %w", err)
	}

	r := &documentRepository{db: db, enc: enc}
	if err := r.migrate(ctx); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *documentRepository) migrate(ctx context.Context) error {
	queries := []string{`
	CREATE TABLE IF NOT EXISTS documents (
		id INTEGER PRIMARY KEY,
		title TEXT NOT NULL,
		state TEXT NOT NULL,
		assigned_to INTEGER,
		updated_at TEXT NOT NULL,
		payload BLOB NOT NULL
	)`,
	}
	for _, query := range queries {
		if _, err := r.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to migrate documents table: %w", err)
		}
	}
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *documentRepository) upsert(ctx context.Context, ex execer, doc *domain.Document) error {
	payload, err := r.enc.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode document %d: %w", doc.ID, err)
	}

	var assignedTo sql.NullInt64
	if doc.AssignedTo != nil {
		assignedTo = sql.NullInt64{Int64: *doc.AssignedTo, Valid: true}
	}

	query := `INSERT INTO documents (id, title, state, assigned_to, updated_at, payload)
	VALUES (?, ?, ?, ?, ?, ?)
	ON CONFLICT(id) DO UPDATE SET
		title = excluded.title,
		state = excluded.state,
		assigned_to = excluded.assigned_to,
		updated_at = excluded.updated_at,
		payload = excluded.payload`
	_, err = ex.ExecContext(ctx, query,
		doc.ID, doc.Title, string(doc.State), assignedTo, doc.UpdatedAt.UTC().Format(time.RFC3339Nano), payload,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert document %d: %w", doc.ID, err)
	}
	return nil
}

func decode(payload []byte) (domain.Document, error) {
	var doc domain.Document
	if err := cbor.Unmarshal(payload, &doc); err != nil {
		return domain.Document{}, fmt.Errorf("failed to decode document: %w", err)
	}
	return doc, nil
}

// Save implementa ports.DocumentRepository.
func (r *documentRepository) Save(ctx context.Context, doc *domain.Document) error {
	return r.upsert(ctx, r.db, doc)
}

// FindByID implementa ports.DocumentRepository.
func (r *documentRepository) FindByID(ctx context.Context, id int64) (*domain.Document, error) {
	var payload []byte
	err := r.db.QueryRowContext(ctx, `SELECT payload FROM documents WHERE id = ?`, id).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // No encontrado
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query document %d: %w", id, err)
	}

	doc, err := decode(payload)
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// FindAll implementa ports.DocumentRepository.
func (r *documentRepository) FindAll(ctx context.Context) ([]domain.Document, error) {
	return r.query(ctx, `SELECT payload FROM documents ORDER BY id`)
}

func (r *documentRepository) query(ctx context.Context, query string, args ...any) ([]domain.Document, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query documents: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var docs []domain.Document
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan document row: %w", err)
		}
		doc, err := decode(payload)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate documents: %w", err)
	}
	return docs, nil
}

// Delete implementa ports.DocumentRepository.
func (r *documentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete document %d: %w", id, err)
	}
	return nil
}

// Replace implementa ports.DocumentRepository en una sola transacción.
func (r *documentRepository) Replace(ctx context.Context, docs []domain.Document) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("failed to clear documents: %w", err)
	}
	for i := range docs {
		if err = r.upsert(ctx, tx, &docs[i]); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit documents: %w", err)
	}
	return nil
}

// Asegurarse de que documentRepository implementa ports.DocumentRepository
var _ ports.DocumentRepository = (*documentRepository)(nil)
