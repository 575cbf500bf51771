package main

import (
	"context"
	"strconv"

	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "audit <kind> <id>",
		Short: "Show the edit history of a record, newest first",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			entries, err := apiClient.Audit.ListForRecord(context.Background(), args[0], args[1])
			if err != nil {
				fatal("list audit entries", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, 0, len(entries))
				for _, e := range entries {
					rows = append(rows, []string{
						strconv.FormatInt(e.ID, 10),
						e.CreatedAt.Format("2006-01-02 15:04"),
						e.ActorName,
						e.Reason,
					})
				}
				formatTable([]string{"ID", "WHEN", "ACTOR", "REASON"}, rows)
				return
			}
			output(map[string]any{"entries": entries}, "")
		},
	}
}
