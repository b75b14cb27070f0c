package services

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
)

type tagService struct {
	api    ports.TagAPI
	repo   ports.TagRepository
	logger zerolog.Logger

	mu   sync.RWMutex
	tags []domain.Tag
}

// NewTagService crea una nueva instancia de TagService. repo puede ser nil.
func NewTagService(api ports.TagAPI, repo ports.TagRepository, opts ...Option) ports.TagService {
	o := newOptions(opts)
	return &tagService{
		api:    api,
		repo:   repo,
		logger: o.logger.With().Str("service", "tags").Logger(),
	}
}

// FetchTags implementa ports.TagService.
func (s *tagService) FetchTags(ctx context.Context) error {
	tags, err := s.api.ListTags(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch tags")
		return fmt.Errorf("failed to fetch tags: %w", err)
	}

	s.mu.Lock()
	s.tags = tags
	s.mu.Unlock()

	for i := range tags {
		s.mirror(ctx, &tags[i])
	}
	return nil
}

// Tags implementa ports.TagService.
func (s *tagService) Tags() []domain.Tag {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]domain.Tag(nil), s.tags...)
}

// CreateTag implementa ports.TagService.
func (s *tagService) CreateTag(ctx context.Context, tag domain.Tag) (*domain.Tag, error) {
	if strings.TrimSpace(tag.Name) == "" {
		return nil, fmt.Errorf("tag name is required")
	}
	if tag.ColorID < 0 || tag.ColorID >= len(domain.TagPalette) {
		tag.ColorID = 0 // Color por defecto
	}

	created, err := s.api.CreateTag(ctx, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}

	s.mu.Lock()
	s.tags = append(s.tags, *created)
	s.mu.Unlock()
	s.mirror(ctx, created)
	return created, nil
}

// UpdateTag implementa ports.TagService.
func (s *tagService) UpdateTag(ctx context.Context, id int64, tag domain.Tag) (*domain.Tag, error) {
	updated, err := s.api.UpdateTag(ctx, id, tag)
	if err != nil {
		return nil, fmt.Errorf("failed to update tag: %w", err)
	}

	s.mu.Lock()
	for i := range s.tags {
		if s.tags[i].ID == id {
			s.tags[i] = *updated
			break
		}
	}
	s.mu.Unlock()
	s.mirror(ctx, updated)
	return updated, nil
}

// DeleteTag implementa ports.TagService.
func (s *tagService) DeleteTag(ctx context.Context, id int64) error {
	if err := s.api.DeleteTag(ctx, id); err != nil {
		return fmt.Errorf("failed to delete tag: %w", err)
	}

	s.mu.Lock()
	for i := range s.tags {
		if s.tags[i].ID == id {
			s.tags = append(s.tags[:i:i], s.tags[i+1:]...)
			break
		}
	}
	s.mu.Unlock()

	if s.repo != nil {
		if err := s.repo.Delete(ctx, id); err != nil {
			s.logger.Warn().Err(err).Int64("tag_id", id).Msg("failed to delete mirrored tag")
		}
	}
	return nil
}

func (s *tagService) mirror(ctx context.Context, tag *domain.Tag) {
	if s.repo == nil {
		return
	}
	if err := s.repo.Save(ctx, tag); err != nil {
		s.logger.Warn().Err(err).Int64("tag_id", tag.ID).Msg("failed to mirror tag")
	}
}

// Asegurarse de que tagService implementa ports.TagService
var _ ports.TagService = (*tagService)(nil)
