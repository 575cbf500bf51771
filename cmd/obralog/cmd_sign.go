package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"
)

func newSignCmd() *cobra.Command {
	var imagePath string
	cmd := &cobra.Command{
		Use:   "sign <kind> <id> <party>",
		Short: "Upload a signature for one party (company|client)",
		Long: `Upload a signature image for one party of a record.

Signing the first open slot moves the record to partially_signed.
Signing the remaining slot seals the record permanently; sealed
records refuse edits and further signatures.`,
		Args: cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			data, err := os.ReadFile(imagePath)
			if err != nil {
				fatal("read signature image", err)
			}
			result, err := apiClient.Signatures.Sign(context.Background(), args[0], args[1], args[2], data)
			if err != nil {
				fatal("sign record", err)
			}
			output(result, result.State)
		},
	}
	cmd.Flags().StringVar(&imagePath, "image", "", "Path to the signature image (required)")
	cmd.MarkFlagRequired("image") //nolint:errcheck
	return cmd
}

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <kind> <id>",
		Short: "Show the signing progress of a record",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			status, err := apiClient.Signatures.Status(context.Background(), args[0], args[1])
			if err != nil {
				fatal("signature status", err)
			}
			output(status, status.State)
		},
	}
}
