package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"legal-document-manager/pkg/adapters/http/preview"
	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/session"
)

func previewCmd(c *cli) *cobra.Command {
	var (
		addr        string
		idleTimeout time.Duration
	)

	serve := &cobra.Command{
		Use:   "serve [id]",
		Short: "Sirve la vista previa en un navegador local",
		Long: `Sirve la vista previa por HTTP. Con un id abre ese documento al iniciar;
los demás se abren con POST /documents/{id}/preview. La sesión se cierra
tras el tiempo de inactividad configurado y el servidor se detiene.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.loadDocuments(cmd.Context(), domain.DocumentFilter{}); err != nil {
				return err
			}
			if len(args) == 1 {
				id, err := parseID(args[0])
				if err != nil {
					return err
				}
				doc, ok := app.documents.DocumentByID(id)
				if !ok {
					return fmt.Errorf("document %d not found", id)
				}
				app.preview.OpenPreview(doc)
			}

			if addr == "" {
				addr = app.cfg.Preview.Addr
			}
			if idleTimeout <= 0 {
				idleTimeout = app.cfg.Session.IdleTimeout
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			idle := session.NewIdleLogout(c.logout, func(route string) {
				fmt.Fprintf(cmd.ErrOrStderr(), "Sesión cerrada por inactividad, vuelve a iniciar sesión (%s)\n", route)
				cancel()
			}, session.WithTimeout(idleTimeout), session.WithLogger(app.logger))
			if err := idle.Subscribe(ctx); err != nil {
				return err
			}
			defer idle.BeforeUnload(context.Background())

			srv := preview.NewServer(app.preview, app.documents, app.logger)
			srv.OnActivity(idle.Activity)

			fmt.Fprintf(cmd.OutOrStdout(), "Vista previa en http://%s/preview\n", addr)
			return srv.ListenAndServe(ctx, addr)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "Dirección de escucha (por defecto preview.addr)")
	serve.Flags().DurationVar(&idleTimeout, "idle-timeout", 0, "Inactividad antes de cerrar la sesión (por defecto session.idle_timeout)")

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Vista previa de documentos",
	}
	cmd.AddCommand(serve)
	return cmd
}
