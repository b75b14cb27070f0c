package ports

import (
	"context"
	"io"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/lifecycle"
)

// Primary Port (interfaces de los servicios de aplicación)

type DocumentService interface {
	FetchDocuments(ctx context.Context, filter domain.DocumentFilter) error
	Hydrate(ctx context.Context) error
	CreateDocument(ctx context.Context, doc domain.Document) (*domain.Document, error)
	UpdateDocument(ctx context.Context, id int64, patch domain.DocumentPatch) error
	DeleteDocument(ctx context.Context, id int64) error
	Transition(ctx context.Context, id int64, event lifecycle.Event, actor domain.User, comment string) error
	DownloadPDF(ctx context.Context, id int64, filename string) (string, error)
	DownloadWord(ctx context.Context, id int64, filename string) (string, error)
	UpdateRecent(ctx context.Context, id int64) error
	RecentDocuments(ctx context.Context) ([]domain.Document, error)

	DataLoaded() bool
	IsLoading() bool
	Documents() []domain.Document
	DocumentByID(id int64) (domain.Document, bool)
	PublishedDocumentsUnassigned() []domain.Document
	DraftAndPublishedDocumentsUnassigned() []domain.Document
	ProgressDocumentsByClient(clientID int64) []domain.Document
	CompletedDocumentsByClient(clientID int64) []domain.Document
	ProgressAndCompletedDocumentsByClient(clientID int64) []domain.Document
	FilteredDocuments(term string, users UserLookup) []domain.Document
}

type PreviewService interface {
	OpenPreview(doc domain.Document) Preview
	Preview() (Preview, bool)
	ClosePreview()
	DownloadAsPDF(ctx context.Context, doc domain.Document) (string, error)
	DownloadAsWord(ctx context.Context, doc domain.Document) (string, error)
	DownloadAsMarkdown(ctx context.Context, doc domain.Document) (string, error)
}

type UserService interface {
	FetchUsers(ctx context.Context) error
	Hydrate(ctx context.Context) error
	Users() []domain.User
	UserLookup
}

type TagService interface {
	FetchTags(ctx context.Context) error
	Tags() []domain.Tag
	CreateTag(ctx context.Context, tag domain.Tag) (*domain.Tag, error)
	UpdateTag(ctx context.Context, id int64, tag domain.Tag) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}

type ReportService interface {
	GenerateExcel(ctx context.Context, req ReportRequest) (string, error)
}

// UserLookup resuelve el usuario asignado a un documento; puede no tenerlo cargado aún.
type UserLookup interface {
	UserByID(id int64) (domain.User, bool)
}

// Preview es el contenido del único espacio de vista previa.
type Preview struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// ReportRequest son los parámetros del reporte en Excel.
type ReportRequest struct {
	ReportType string `json:"reportType"`
	StartDate  string `json:"startDate,omitempty"`
	EndDate    string `json:"endDate,omitempty"`
	UserID     *int64 `json:"userId,omitempty"`
}

// Secondary Port (interfaces para adaptadores de infraestructura)

// Blob es un archivo binario devuelto por el backend. Quien lo recibe debe cerrar Body.
type Blob struct {
	Body        io.ReadCloser
	ContentType string
}

type DocumentAPI interface {
	ListDocuments(ctx context.Context, filter domain.DocumentFilter) (*domain.DocumentPage, error)
	CreateDocument(ctx context.Context, doc domain.Document) (*domain.Document, error)
	UpdateDocument(ctx context.Context, id int64, patch domain.DocumentPatch) (*domain.Document, error)
	DeleteDocument(ctx context.Context, id int64) error
	DownloadPDF(ctx context.Context, id int64) (*Blob, error)
	DownloadWord(ctx context.Context, id int64) (*Blob, error)
	UpdateRecent(ctx context.Context, id int64) error
	ListRecent(ctx context.Context) ([]domain.Document, error)
	RejectDocument(ctx context.Context, id, userID int64, comment string) error
}

type UserAPI interface {
	ListUsers(ctx context.Context) ([]domain.User, error)
	GetUser(ctx context.Context, id int64) (*domain.User, error)
}

type TagAPI interface {
	ListTags(ctx context.Context) ([]domain.Tag, error)
	CreateTag(ctx context.Context, tag domain.Tag) (*domain.Tag, error)
	UpdateTag(ctx context.Context, id int64, tag domain.Tag) (*domain.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}

type ReportAPI interface {
	GenerateExcel(ctx context.Context, req ReportRequest) (*Blob, error)
}

// DocumentRepository guarda una copia local de la caché de documentos.
type DocumentRepository interface {
	Save(ctx context.Context, doc *domain.Document) error
	FindByID(ctx context.Context, id int64) (*domain.Document, error)
	FindAll(ctx context.Context) ([]domain.Document, error)
	Delete(ctx context.Context, id int64) error
	Replace(ctx context.Context, docs []domain.Document) error
}

type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Delete(ctx context.Context, id int64) error
}

type TagRepository interface {
	Save(ctx context.Context, tag *domain.Tag) error
	FindByID(ctx context.Context, id int64) (*domain.Tag, error)
	FindAll(ctx context.Context) ([]domain.Tag, error)
	Delete(ctx context.Context, id int64) error
}

// FileStorage recibe los archivos descargados o exportados.
type FileStorage interface {
	// Save guarda el contenido y devuelve su ubicación (ruta o URI).
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
	// GenerateDownloadURL devuelve una URL temporal para una ubicación devuelta por Save.
	GenerateDownloadURL(ctx context.Context, location string) (string, error)
}

// Exporter convierte el HTML renderizado a un formato binario.
type Exporter interface {
	Export(ctx context.Context, title, renderedHTML string, w io.Writer) error
	ContentType() string
	Extension() string
}

// Severity es la gravedad de una notificación al usuario.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// Notifier muestra mensajes al usuario (toast/modal).
type Notifier interface {
	Notify(message string, severity Severity)
}
