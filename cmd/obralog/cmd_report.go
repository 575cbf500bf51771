package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/obralog/obralog/client"
)

func newReportCmd() *cobra.Command {
	var visit client.VisitSession
	cmd := &cobra.Command{
		Use:   "report <kind> <id>",
		Short: "Generate the report document for a sealed record",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			doc, err := apiClient.Reports.Generate(context.Background(), args[0], args[1], &visit)
			if err != nil {
				fatal("generate report", err)
			}
			output(doc, doc.Filename)
		},
	}
	cmd.Flags().StringVar(&visit.Date, "date", "", "Visit date (YYYY-MM-DD, defaults to the record time)")
	cmd.Flags().StringVar(&visit.Hour, "hour", "", "Visit hour (HH:MM)")
	cmd.Flags().IntVar(&visit.VisitNumber, "visit", 0, "Visit number")
	return cmd
}
