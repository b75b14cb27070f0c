package rest

import (
	"context"
	"fmt"
	"net/http"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/ports"
)

// ListUsers implementa ports.UserAPI.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.call(ctx, http.MethodGet, "users", "users/", nil, &users); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser implementa ports.UserAPI. Devuelve (nil, nil) si no existe.
func (c *Client) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	if err := c.call(ctx, http.MethodGet, "users/get", fmt.Sprintf("users/%d/", id), nil, &user); err != nil {
		if IsNotFound(err) {
			return nil, nil // Usuario no encontrado
		}
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &user, nil
}

var _ ports.UserAPI = (*Client)(nil)
