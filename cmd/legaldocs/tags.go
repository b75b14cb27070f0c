package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"legal-document-manager/pkg/domain"
)

func tagsCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tags",
		Short: "Etiquetas de documentos",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Lista las etiquetas",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			if err := app.tags.FetchTags(cmd.Context()); err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tNOMBRE\tCOLOR")
			for _, t := range app.tags.Tags() {
				fmt.Fprintf(tw, "%d\t%s\t%s\n", t.ID, t.Name, t.Color().Name)
			}
			return tw.Flush()
		},
	})

	var (
		name  string
		color int
	)
	create := &cobra.Command{
		Use:   "create",
		Short: "Crea una etiqueta",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			tag, err := app.tags.CreateTag(cmd.Context(), domain.Tag{Name: name, ColorID: color})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Etiqueta #%d creada: %s\n", tag.ID, tag.Name)
			return nil
		},
	}
	create.Flags().StringVar(&name, "name", "", "Nombre de la etiqueta")
	create.Flags().IntVar(&color, "color", 0, "Índice del color pastel")
	_ = create.MarkFlagRequired("name")

	cmd.AddCommand(create, &cobra.Command{
		Use:   "delete <id>",
		Short: "Elimina una etiqueta",
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
			return app.tags.DeleteTag(cmd.Context(), id)
		},
	})
	return cmd
}
