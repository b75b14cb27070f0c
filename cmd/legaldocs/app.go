package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"legal-document-manager/pkg/adapters/api/rest"
	"legal-document-manager/pkg/adapters/awsconf"
	"legal-document-manager/pkg/adapters/export"
	"legal-document-manager/pkg/adapters/filestorage/local"
	s3storage "legal-document-manager/pkg/adapters/filestorage/s3"
	ddb "legal-document-manager/pkg/adapters/storage/dynamodb"
	"legal-document-manager/pkg/adapters/storage/memory"
	"legal-document-manager/pkg/adapters/storage/sqlite"
	"legal-document-manager/pkg/config"
	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/lifecycle"
	"legal-document-manager/pkg/logger"
	"legal-document-manager/pkg/notify"
	"legal-document-manager/pkg/ports"
	"legal-document-manager/pkg/services"
)

// App conecta la configuración con los adaptadores y servicios.
type App struct {
	cfg    *config.Config
	log    *logger.LogData
	logger zerolog.Logger

	client   *rest.Client
	registry *prometheus.Registry
	db       *sql.DB
	aws      *awsconf.Config
	machine  *lifecycle.Machine
	files    ports.FileStorage
	notifier ports.Notifier

	documents ports.DocumentService
	users     ports.UserService
	tags      ports.TagService
	preview   ports.PreviewService
	reports   ports.ReportService
}

type repositories struct {
	documents ports.DocumentRepository
	users     ports.UserRepository
	tags      ports.TagRepository
}

// NewApp crea la aplicación. stderr recibe el log y los avisos al usuario.
func NewApp(ctx context.Context, cfg *config.Config, stderr io.Writer) (*App, error) {
	build := logger.New().FromWriter(stderr).Level(cfg.Log.Level).Console(cfg.Log.Console)
	if cfg.Log.Path != "" {
		build = build.FromPath(cfg.Log.Path)
	}
	logData, err := build.Make()
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	app := &App{
		cfg:      cfg,
		log:      logData,
		logger:   logData.Logger,
		registry: prometheus.NewRegistry(),
		machine:  lifecycle.NewMachine(),
	}
	app.machine.AddObserver(lifecycle.LogObserver{Logger: app.logger})

	app.client = rest.NewClient(cfg.API.BaseURL,
		rest.WithTimeout(cfg.API.Timeout),
		rest.WithAuthToken(cfg.API.Token),
		rest.WithRateLimit(cfg.API.RateLimit, cfg.API.Burst),
		rest.WithRegisterer(app.registry),
		rest.WithLogger(app.logger),
	)

	repos, err := app.openRepositories(ctx)
	if err != nil {
		_ = app.Close()
		return nil, err
	}
	if app.files, err = app.openFileStorage(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}

	app.notifier = notify.Multi{
		notify.LogNotifier{Logger: app.logger},
		notify.NewWriterNotifier(stderr),
	}
	opts := []services.Option{
		services.WithLogger(app.logger),
		services.WithNotifier(app.notifier),
		services.WithMachine(app.machine),
	}
	app.documents = services.NewDocumentService(app.client, app.files, repos.documents, opts...)
	app.users = services.NewUserService(app.client, repos.users, opts...)
	app.tags = services.NewTagService(app.client, repos.tags, opts...)
	app.preview = services.NewPreviewService(app.files, export.All(), opts...)
	app.reports = services.NewReportService(app.client, app.files, opts...)
	return app, nil
}

func (a *App) openRepositories(ctx context.Context) (repositories, error) {
	switch a.cfg.Storage.Backend {
	case "sqlite":
		db, err := sqlite.Open(a.cfg.Storage.SQLitePath)
		if err != nil {
			return repositories{}, fmt.Errorf("failed to open sqlite mirror: %w", err)
		}
		a.db = db
		docs, err := sqlite.NewDocumentRepository(ctx, db)
		if err != nil {
			return repositories{}, err
		}
		return repositories{documents: docs, users: memory.NewUserRepository(), tags: memory.NewTagRepository()}, nil
	case "dynamodb":
		awsCfg, err := a.awsConfig(ctx)
		if err != nil {
			return repositories{}, err
		}
		client := awsCfg.DynamoDB()
		return repositories{
			documents: ddb.NewDocumentRepository(client, a.cfg.Storage.DocumentsTable),
			users:     ddb.NewUserRepository(client, a.cfg.Storage.UsersTable),
			tags:      ddb.NewTagRepository(client, a.cfg.Storage.TagsTable),
		}, nil
	default:
		return repositories{
			documents: memory.NewDocumentRepository(),
			users:     memory.NewUserRepository(),
			tags:      memory.NewTagRepository(),
		}, nil
	}
}

func (a *App) openFileStorage(ctx context.Context) (ports.FileStorage, error) {
	if a.cfg.Files.Backend == "s3" {
		awsCfg, err := a.awsConfig(ctx)
		if err != nil {
			return nil, err
		}
		return s3storage.NewS3FileStorage(awsCfg.S3(), a.cfg.Files.Bucket), nil
	}
	fs, err := local.NewLocalFileStorage(a.cfg.Files.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare download directory: %w", err)
	}
	return fs, nil
}

func (a *App) awsConfig(ctx context.Context) (*awsconf.Config, error) {
	if a.aws != nil {
		return a.aws, nil
	}
	cfg, err := awsconf.Load(ctx, awsconf.Options{
		Region: a.cfg.Storage.Region,
		Local:  a.cfg.Storage.Local,
	})
	if err != nil {
		return nil, err
	}
	a.aws = cfg
	return cfg, nil
}

// loadDocuments pide el listado al backend. Si falla y la copia local tiene documentos,
// se trabaja con ella; la copia es el último listado que se obtuvo.
func (a *App) loadDocuments(ctx context.Context, filter domain.DocumentFilter) error {
	err := a.documents.FetchDocuments(ctx, filter)
	if err == nil {
		return nil
	}
	if herr := a.documents.Hydrate(ctx); herr != nil {
		return errors.Join(err, herr)
	}
	if len(a.documents.Documents()) == 0 {
		return err
	}
	a.logger.Warn().Err(err).Msg("backend unavailable, serving mirrored documents")
	a.notifier.Notify("Sin conexión con el servidor, se muestra la copia local", ports.SeverityWarning)
	return nil
}

// documentByID carga el listado completo y busca el documento.
func (a *App) documentByID(ctx context.Context, id int64) (domain.Document, error) {
	if err := a.loadDocuments(ctx, domain.DocumentFilter{}); err != nil {
		return domain.Document{}, err
	}
	doc, ok := a.documents.DocumentByID(id)
	if !ok {
		return domain.Document{}, fmt.Errorf("%w: %d", services.ErrDocumentNotFound, id)
	}
	return doc, nil
}

var errNotSignedIn = errors.New("no saved session, run legaldocs login --save")

// currentUser devuelve el usuario de la sesión guardada.
func (a *App) currentUser(ctx context.Context) (domain.User, error) {
	if a.cfg.API.UserID == 0 || a.client.AuthToken() == "" {
		return domain.User{}, errNotSignedIn
	}
	if err := a.users.FetchUsers(ctx); err != nil {
		return domain.User{}, err
	}
	user, ok := a.users.UserByID(a.cfg.API.UserID)
	if !ok {
		return domain.User{}, fmt.Errorf("signed-in user %d not found", a.cfg.API.UserID)
	}
	return user, nil
}

// Close libera la base local y el archivo de log.
func (a *App) Close() error {
	var errs []error
	if a.db != nil {
		errs = append(errs, a.db.Close())
	}
	if a.log != nil {
		errs = append(errs, a.log.Close())
	}
	return errors.Join(errs...)
}
