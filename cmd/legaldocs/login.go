package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"legal-document-manager/pkg/config"
)

func loginCmd(c *cli) *cobra.Command {
	var (
		email    string
		password string
		save     bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Inicia sesión y opcionalmente guarda el token",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			auth, err := app.client.SignIn(cmd.Context(), email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sesión iniciada como %s (%s)\n", auth.User.FullName(), auth.User.Role)

			if !save {
				fmt.Fprintln(cmd.OutOrStdout(), auth.Access)
				return nil
			}
			path, err := c.sessionPath()
			if err != nil {
				return err
			}
			if err := config.SaveSession(path, auth.Access, auth.User.ID); err != nil {
				return err
			}
			app.logger.Info().Str("path", path).Msg("session saved")
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Correo del usuario")
	cmd.Flags().StringVar(&password, "password", "", "Contraseña")
	cmd.Flags().BoolVar(&save, "save", false, "Guardar la sesión en el archivo de configuración")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func logoutCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Cierra la sesión y borra el token guardado",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := c.open(cmd.Context()); err != nil {
				return err
			}
			return c.logout(cmd.Context())
		},
	}
}

// logout cierra la sesión del cliente y borra la sesión guardada en el archivo.
func (c *cli) logout(ctx context.Context) error {
	if err := c.app.client.SignOut(ctx); err != nil {
		return err
	}
	path, err := c.sessionPath()
	if err != nil {
		return err
	}
	if err := config.SaveSession(path, "", 0); err != nil {
		return err
	}
	c.cfg.API.Token, c.cfg.API.UserID = "", 0
	c.app.logger.Info().Str("path", path).Msg("session cleared")
	return nil
}

// sessionPath es el archivo de --config o, sin él, el del usuario.
func (c *cli) sessionPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	path, err := config.UserConfigPath()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config path: %w", err)
	}
	return path, nil
}
