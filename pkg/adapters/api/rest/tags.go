package rest

import (
	"context"
	"fmt"
	"net/http"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
)

// ListTags implementa ports.TagAPI.
func (c *Client) ListTags(ctx context.Context) ([]domain.Tag, error) {
	var tags []domain.Tag
	if err := c.call(ctx, http.MethodGet, "dynamic-documents/tags", "dynamic-documents/tags/", nil, &tags); err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// CreateTag implementa ports.TagAPI.
func (c *Client) CreateTag(ctx context.Context, tag domain.Tag) (*domain.Tag, error) {
	var result domain.Tag
	if err := c.call(ctx, http.MethodPost, "dynamic-documents/tags", "dynamic-documents/tags/", tag, &result); err != nil {
		return nil, fmt.Errorf("failed to create tag: %w", err)
	}
	return &result, nil
}

// UpdateTag implementa ports.TagAPI.
func (c *Client) UpdateTag(ctx context.Context, id int64, tag domain.Tag) (*domain.Tag, error) {
	var result domain.Tag
	path := fmt.Sprintf("dynamic-documents/tags/%d/", id)
	if err := c.call(ctx, http.MethodPatch, "dynamic-documents/tags/item", path, tag, &result); err != nil {
		return nil, fmt.Errorf("failed to update tag %d: %w", id, err)
	}
	return &result, nil
}

// DeleteTag implementa ports.TagAPI.
func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	path := fmt.Sprintf("dynamic-documents/tags/%d/", id)
	if err := c.call(ctx, http.MethodDelete, "dynamic-documents/tags/item", path, nil, nil); err != nil {
		return fmt.Errorf("failed to delete tag %d: %w", id, err)
	}
	return nil
}

var _ ports.TagAPI = (*Client)(nil)
