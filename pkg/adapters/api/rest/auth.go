package rest

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"legal-document-manager/pkg/domain"
)

// AuthResponse es la respuesta de sign_in y sign_on.
type AuthResponse struct {
	Access  string      `json:"access"`
	Refresh string      `json:"refresh,omitempty"`
	User    domain.User `json:"user"`
}

// SignOnRequest son los datos de registro; el código llega por send_passcode.
type SignOnRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Passcode  string `json:"passcode"`
}

func validateCredentials(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if password == "" {
		return fmt.Errorf("%w: password is required", ErrValidation)
	}
	return nil
}

// SignIn autentica y guarda el token para las siguientes peticiones.
func (c *Client) SignIn(ctx context.Context, email, password string) (*AuthResponse, error) {
	if err := validateCredentials(email, password); err != nil {
		return nil, err
	}

	var result AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.call(ctx, http.MethodPost, "sign_in", "sign_in/", body, &result); err != nil {
		if IsUnauthorized(err) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	c.SetAuthToken(result.Access)
	return &result, nil
}

// SignOn registra un usuario nuevo y guarda su token.
func (c *Client) SignOn(ctx context.Context, req SignOnRequest) (*AuthResponse, error) {
	if err := validateCredentials(req.Email, req.Password); err != nil {
		return nil, err
	}

	var result AuthResponse
	if err := c.call(ctx, http.MethodPost, "sign_on", "sign_on/", req, &result); err != nil {
		if IsConflict(err) {
			return nil, fmt.Errorf("%w: %w", ErrEmailAlreadyRegistered, err)
		}
		return nil, fmt.Errorf("failed to sign on: %w", err)
	}

	c.SetAuthToken(result.Access)
	return &result, nil
}

// SendPasscode pide el código de verificación para email.
func (c *Client) SendPasscode(ctx context.Context, email string) error {
	if strings.TrimSpace(email) == "" {
		return fmt.Errorf("%w: email is required", ErrValidation)
	}
	if err := c.call(ctx, http.MethodPost, "send_passcode", "send_passcode/", map[string]string{"email": email}, nil); err != nil {
		return fmt.Errorf("failed to send passcode: %w", err)
	}
	return nil
}

// SignOut olvida el token local. El backend no expone cierre de sesión.
func (c *Client) SignOut(context.Context) error {
	c.SetAuthToken("")
	return nil
}
