package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"legal-document-manager/pkg/domain"
	"legal-document-manager/pkg/lifecycle"
	"legal-document-manager/pkg/ports"
	"legal-document-manager/pkg/render"
)

func documentsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "documents",
		Aliases: []string{"docs"},
		Short:   "Documentos dinámicos",
	}
	cmd.AddCommand(
		documentsListCmd(c),
		documentsShowCmd(c),
		documentsRenderCmd(c),
		documentsExportCmd(c),
		documentsDownloadCmd(c),
		documentsTransitionCmd(c),
		documentsDeleteCmd(c),
		documentsRecentCmd(c),
	)
	return cmd
}

func documentsListCmd(c *cli) *cobra.Command {
	var (
		states   []string
		lawyerID int64
		search   string
		term     string
		view     string
		clientID int64
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Lista los documentos",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}

			filter := domain.DocumentFilter{Search: search}
			for _, s := range states {
				state := domain.DocumentState(s)
				if !state.Valid() {
					return fmt.Errorf("unknown state %q", s)
				}
				filter.States = append(filter.States, state)
			}
			if lawyerID > 0 {
				filter.LawyerID = &lawyerID
			}
			if err := app.loadDocuments(cmd.Context(), filter); err != nil {
				return err
			}

			docs, err := selectView(app.documents, view, clientID)
			if err != nil {
				return err
			}
			if term != "" {
				if err := app.users.FetchUsers(cmd.Context()); err != nil {
					return err
				}
				docs = intersect(docs, app.documents.FilteredDocuments(term, app.users))
			}
			return printDocuments(cmd.OutOrStdout(), docs, app.users)
		},
	}

	cmd.Flags().StringSliceVar(&states, "state", nil, "Filtrar por estado en el backend (Draft, Published, ...)")
	cmd.Flags().Int64Var(&lawyerID, "lawyer", 0, "Filtrar por abogado en el backend")
	cmd.Flags().StringVar(&search, "search", "", "Búsqueda en el backend")
	cmd.Flags().StringVar(&term, "filter", "", "Filtro local por título, estado o cliente asignado")
	cmd.Flags().StringVar(&view, "view", "all", "all, published-unassigned, unassigned, progress, completed, active")
	cmd.Flags().Int64Var(&clientID, "client", 0, "Cliente para las vistas progress, completed y active")
	return cmd
}

func selectView(docs ports.DocumentService, view string, clientID int64) ([]domain.Document, error) {
	switch view {
	case "", "all":
		return docs.Documents(), nil
	case "published-unassigned":
		return docs.PublishedDocumentsUnassigned(), nil
	case "unassigned":
		return docs.DraftAndPublishedDocumentsUnassigned(), nil
	}

	if clientID <= 0 {
		return nil, fmt.Errorf("view %q requires --client", view)
	}
	switch view {
	case "progress":
		return docs.ProgressDocumentsByClient(clientID), nil
	case "completed":
		return docs.CompletedDocumentsByClient(clientID), nil
	case "active":
		return docs.ProgressAndCompletedDocumentsByClient(clientID), nil
	}
	return nil, fmt.Errorf("unknown view %q", view)
}

// intersect conserva el orden de a.
func intersect(a, b []domain.Document) []domain.Document {
	keep := make(map[int64]bool, len(b))
	for _, d := range b {
		keep[d.ID] = true
	}
	out := make([]domain.Document, 0, len(a))
	for _, d := range a {
		if keep[d.ID] {
			out = append(out, d)
		}
	}
	return out
}

func printDocuments(w io.Writer, docs []domain.Document, users ports.UserLookup) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTÍTULO\tESTADO\tFIRMAS\tASIGNADO")
	for _, d := range docs {
		signatures := "-"
		if d.RequiresSignature {
			signatures = lifecycle.SignatureRatio(d)
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", d.ID, d.Title, lifecycle.Label(lifecycle.DisplayState(d)), signatures, assignee(d, users))
	}
	return tw.Flush()
}

func assignee(d domain.Document, users ports.UserLookup) string {
	if d.AssignedTo == nil {
		return "-"
	}
	if u, ok := users.UserByID(*d.AssignedTo); ok {
		return u.FullName()
	}
	return fmt.Sprintf("#%d", *d.AssignedTo)
}

func documentsShowCmd(c *cli) *cobra.Command {
	var role string

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Muestra el detalle de un documento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := app.documentByID(cmd.Context(), id)
			if err != nil {
				return err
			}
			if err := app.users.FetchUsers(cmd.Context()); err != nil {
				app.logger.Warn().Err(err).Msg("users unavailable, showing ids")
			}
			// Abrir el detalle lo marca como reciente; un fallo aquí no impide mostrarlo.
			_ = app.documents.UpdateRecent(cmd.Context(), id)

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Documento #%d: %s\n", doc.ID, doc.Title)
			fmt.Fprintf(w, "Estado:    %s\n", lifecycle.Label(lifecycle.DisplayState(doc)))
			fmt.Fprintf(w, "Asignado:  %s\n", assignee(doc, app.users))
			if doc.RequiresSignature {
				fmt.Fprintf(w, "Firmas:    %s\n", lifecycle.SignatureRatio(doc))
			}
			if value := domain.FormatSummaryValue(doc.Summary); value != "" {
				fmt.Fprintf(w, "Valor:     %s\n", value)
			}
			if len(doc.Tags) > 0 {
				names := make([]string, 0, len(doc.Tags))
				for _, t := range doc.Tags {
					names = append(names, t.Name)
				}
				fmt.Fprintf(w, "Etiquetas: %s\n", strings.Join(names, ", "))
			}
			if missing := render.MissingVariables(doc.Content, doc.Variables); len(missing) > 0 {
				fmt.Fprintf(w, "Sin valor: %s\n", strings.Join(missing, ", "))
			}
			if role == "" {
				if user, err := app.currentUser(cmd.Context()); err == nil {
					role = string(user.Role)
				}
			}
			if role != "" {
				actions := lifecycle.Actions(doc.State, domain.Role(role)).Names()
				events := app.machine.AvailableEvents(doc.State, domain.Role(role))
				names := make([]string, 0, len(events))
				for _, e := range events {
					names = append(names, string(e))
				}
				fmt.Fprintf(w, "Acciones:  %s\n", strings.Join(actions, ", "))
				fmt.Fprintf(w, "Eventos:   %s\n", strings.Join(names, ", "))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&role, "role", "", "Rol para las acciones disponibles (por defecto el de la sesión)")
	return cmd
}

func documentsRenderCmd(c *cli) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "render <id>",
		Short: "Imprime el contenido con las variables sustituidas",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := app.documentByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			out := render.RenderDocument(doc)
			switch format {
			case "html":
			case "text":
				if out, err = render.PlainText(out); err != nil {
					return err
				}
			case "markdown", "md":
				if out, err = render.Markdown(out); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "html", "html, text o markdown")
	return cmd
}

func documentsExportCmd(c *cli) *cobra.Command {
	var (
		format string
		url    bool
	)

	cmd := &cobra.Command{
		Use:   "export <id>",
		Short: "Genera localmente un PDF, Word o Markdown desde la vista previa",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := app.documentByID(cmd.Context(), id)
			if err != nil {
				return err
			}

			app.preview.OpenPreview(doc)
			defer app.preview.ClosePreview()

			var location string
			switch format {
			case "pdf":
				location, err = app.preview.DownloadAsPDF(cmd.Context(), doc)
			case "docx", "word":
				location, err = app.preview.DownloadAsWord(cmd.Context(), doc)
			case "md", "markdown":
				location, err = app.preview.DownloadAsMarkdown(cmd.Context(), doc)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			return printLocation(cmd.Context(), cmd.OutOrStdout(), app, location, url)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "pdf, docx o md")
	cmd.Flags().BoolVar(&url, "url", false, "Imprimir una URL de descarga temporal")
	return cmd
}

func documentsDownloadCmd(c *cli) *cobra.Command {
	var (
		format string
		name   string
		url    bool
	)

	cmd := &cobra.Command{
		Use:   "download <id>",
		Short: "Descarga el PDF o Word generado por el backend",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			// El nombre por defecto sale del título, que solo se conoce con el listado cargado.
			if name == "" {
				if _, err := app.documentByID(cmd.Context(), id); err != nil {
					return err
				}
			}

			var location string
			switch format {
			case "pdf":
				location, err = app.documents.DownloadPDF(cmd.Context(), id, name)
			case "word", "docx":
				location, err = app.documents.DownloadWord(cmd.Context(), id, name)
			default:
				return fmt.Errorf("unknown format %q", format)
			}
			if err != nil {
				return err
			}
			return printLocation(cmd.Context(), cmd.OutOrStdout(), app, location, url)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "pdf", "pdf o word")
	cmd.Flags().StringVar(&name, "name", "", "Nombre del archivo")
	cmd.Flags().BoolVar(&url, "url", false, "Imprimir una URL de descarga temporal")
	return cmd
}

func printLocation(ctx context.Context, w io.Writer, app *App, location string, url bool) error {
	if !url {
		fmt.Fprintln(w, location)
		return nil
	}
	link, err := app.files.GenerateDownloadURL(ctx, location)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, link)
	return nil
}

func documentsTransitionCmd(c *cli) *cobra.Command {
	var comment string

	cmd := &cobra.Command{
		Use:   "transition <id> <event>",
		Short: "Aplica un evento del ciclo de vida (publish, unpublish, start, complete, request_signatures, sign_all, reject)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if _, err := app.documentByID(cmd.Context(), id); err != nil {
				return err
			}
			// El evento lo ejecuta siempre el usuario de la sesión guardada.
			actor, err := app.currentUser(cmd.Context())
			if err != nil {
				return err
			}

			if err := app.documents.Transition(cmd.Context(), id, lifecycle.Event(args[1]), actor, comment); err != nil {
				return err
			}
			doc, _ := app.documents.DocumentByID(id)
			fmt.Fprintf(cmd.OutOrStdout(), "Documento #%d: %s\n", id, lifecycle.Label(lifecycle.DisplayState(doc)))
			return nil
		},
	}

	cmd.Flags().StringVar(&comment, "comment", "", "Motivo del rechazo")
	return cmd
}

func documentsDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Elimina un documento",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.documents.DeleteDocument(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Documento #%d eliminado\n", id)
			return nil
		},
	}
}

func documentsRecentCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "Lista los documentos vistos recientemente",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			docs, err := app.documents.RecentDocuments(cmd.Context())
			if err != nil {
				return err
			}
			return printDocuments(cmd.OutOrStdout(), docs, app.users)
		},
	}
}
