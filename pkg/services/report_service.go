package services

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"legal-document-manager/pkg/ports"
)

type reportService struct {
	api         ports.ReportAPI
	fileStorage ports.FileStorage
	notifier    ports.Notifier
	logger      zerolog.Logger
	now         func() time.Time
}

// NewReportService crea una nueva instancia de ReportService.
func NewReportService(api ports.ReportAPI, fs ports.FileStorage, opts ...Option) ports.ReportService {
	o := newOptions(opts)
	return &reportService{
		api:         api,
		fileStorage: fs,
		notifier:    o.notifier,
		logger:      o.logger.With().Str("service", "reports").Logger(),
		now:         time.Now,
	}
}

// GenerateExcel implementa ports.ReportService.
func (s *reportService) GenerateExcel(ctx context.Context, req ports.ReportRequest) (string, error) {
	if req.ReportType == "" {
		return "", fmt.Errorf("report type is required")
	}

	blob, err := s.api.GenerateExcel(ctx, req)
	if err != nil {
		return "", s.failed(req, err)
	}
	defer blob.Body.Close()

	name := fmt.Sprintf("%s_%s.xlsx", req.ReportType, s.now().Format("2006-01-02"))
	location, err := s.fileStorage.Save(ctx, sanitizeFileName(name), blob.ContentType, blob.Body)
	if err != nil {
		return "", s.failed(req, err)
	}
	return location, nil
}

func (s *reportService) failed(req ports.ReportRequest, err error) error {
	s.logger.Error().Err(err).Str("report_type", req.ReportType).Msg("failed to generate report")
	s.notifier.Notify("No se pudo generar el reporte", ports.SeverityError)
	return fmt.Errorf("failed to generate report: %w", err)
}

// Asegurarse de que reportService implementa ports.ReportService
var _ ports.ReportService = (*reportService)(nil)
