package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"legal-document-manager/pkg/ports"
)

func reportsCmd(c *cli) *cobra.Command {
	var (
		reportType string
		start      string
		end        string
		userID     int64
	)

	excel := &cobra.Command{
		Use:   "excel",
		Short: "Genera un reporte en Excel",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := c.open(cmd.Context())
			if err != nil {
				return err
			}
			req := ports.ReportRequest{ReportType: reportType, StartDate: start, EndDate: end}
			if userID > 0 {
				req.UserID = &userID
			}
			location, err := app.reports.GenerateExcel(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), location)
			return nil
		},
	}
	excel.Flags().StringVar(&reportType, "type", "", "Tipo de reporte")
	excel.Flags().StringVar(&start, "from", "", "Fecha inicial (YYYY-MM-DD)")
	excel.Flags().StringVar(&end, "to", "", "Fecha final (YYYY-MM-DD)")
	excel.Flags().Int64Var(&userID, "user", 0, "Limitar a un usuario")
	_ = excel.MarkFlagRequired("type")

	cmd := &cobra.Command{
		Use:   "reports",
		Short: "Reportes",
	}
	cmd.AddCommand(excel)
	return cmd
}
