package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/obralog/obralog/client"
)

func newRecordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Manage inspection records and meeting minutes",
	}
	cmd.AddCommand(recordListCmd())
	cmd.AddCommand(recordGetCmd())
	cmd.AddCommand(recordCreateCmd())
	cmd.AddCommand(recordEditCmd())
	cmd.AddCommand(recordDeleteCmd())
	cmd.AddCommand(recordFieldsCmd())
	return cmd
}

func recordListCmd() *cobra.Command {
	var projectID string
	var limit, offset int
	cmd := &cobra.Command{
		Use:   "list <kind>",
		Short: "List records of a kind (inspection|minutes)",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			records, hasMore, err := apiClient.Records.List(context.Background(), args[0], &client.ListOptions{
				ProjectID: projectID,
				Limit:     limit,
				Offset:    offset,
			})
			if err != nil {
				fatal("list records", err)
			}
			if flagFmt == "table" {
				rows := make([][]string, 0, len(records))
				for _, r := range records {
					rows = append(rows, []string{
						r.ID, r.ProjectName, r.LotName,
						r.RecordTime.Format("2006-01-02 15:04"),
						signatureState(&r),
						strconv.FormatInt(r.Version, 10),
					})
				}
				formatTable([]string{"ID", "PROJECT", "LOT", "TIME", "STATE", "VERSION"}, rows)
				if hasMore {
					fmt.Fprintln(os.Stderr, "(more results available, use --offset)")
				}
				return
			}
			output(map[string]any{"records": records, "has_more": hasMore}, "")
		},
	}
	cmd.Flags().StringVar(&projectID, "project", "", "Filter by project ID")
	cmd.Flags().IntVar(&limit, "limit", 0, "Page size")
	cmd.Flags().IntVar(&offset, "offset", 0, "Page offset")
	return cmd
}

func recordGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <kind> <id>",
		Short: "Get a record by ID",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			rec, err := apiClient.Records.Get(context.Background(), args[0], args[1])
			if err != nil {
				fatal("get record", err)
			}
			output(rec, rec.ID)
		},
	}
}

func recordCreateCmd() *cobra.Command {
	var req client.CreateRecordRequest
	var fieldsJSON, recordTime string
	cmd := &cobra.Command{
		Use:   "create <kind>",
		Short: "Create a record in the Unsigned state",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if fieldsJSON != "" {
				if err := json.Unmarshal([]byte(fieldsJSON), &req.Fields); err != nil {
					fatal("parse fields", err)
				}
			}
			if recordTime != "" {
				t, err := parseRecordTime(recordTime)
				if err != nil {
					fatal("parse time", err)
				}
				req.RecordTime = t
			}
			rec, err := apiClient.Records.Create(context.Background(), args[0], &req)
			if err != nil {
				fatal("create record", err)
			}
			output(rec, rec.ID)
		},
	}
	cmd.Flags().StringVar(&req.ID, "id", "", "Record ID (generated if empty)")
	cmd.Flags().StringVar(&req.ProjectID, "project", "", "Project ID")
	cmd.Flags().StringVar(&req.ProjectName, "project-name", "", "Project display name")
	cmd.Flags().StringVar(&req.LotName, "lot", "", "Lot display name")
	cmd.Flags().StringVar(&req.ResponsibleName, "responsible", "", "Responsible person's name")
	cmd.Flags().StringVar(&recordTime, "time", "", "Record time (RFC 3339 or 2006-01-02 15:04)")
	cmd.Flags().StringVar(&fieldsJSON, "fields", "", "Field values as JSON")
	return cmd
}

func recordEditCmd() *cobra.Command {
	var fieldsJSON, reason string
	var imageSpecs []string
	cmd := &cobra.Command{
		Use:   "edit <kind> <id>",
		Short: "Apply an audited edit (reason is mandatory)",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			req := &client.EditRequest{Reason: reason}
			if fieldsJSON != "" {
				if err := json.Unmarshal([]byte(fieldsJSON), &req.Fields); err != nil {
					fatal("parse fields", err)
				}
			}
			if len(imageSpecs) > 0 {
				images, err := readImageSpecs(imageSpecs)
				if err != nil {
					fatal("read images", err)
				}
				req.Images = images
			}
			rec, err := apiClient.Records.Edit(context.Background(), args[0], args[1], req)
			if err != nil {
				fatal("edit record", err)
			}
			output(rec, rec.ID)
		},
	}
	cmd.Flags().StringVar(&fieldsJSON, "fields", "", "Field changes as JSON (null deletes a key)")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason for the edit (required)")
	cmd.Flags().StringArrayVar(&imageSpecs, "image", nil, "Image upload as slot=path (repeatable, slots 0-5)")
	cmd.MarkFlagRequired("reason") //nolint:errcheck
	return cmd
}

func recordDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <kind> <id>",
		Short: "Delete a record",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			if err := apiClient.Records.Delete(context.Background(), args[0], args[1]); err != nil {
				fatal("delete record", err)
			}
			output(map[string]bool{"deleted": true}, args[1])
		},
	}
}

func recordFieldsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fields <kind>",
		Short: "List field keys in use across records of a kind",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			keys, err := apiClient.Records.FieldKeys(context.Background(), args[0])
			if err != nil {
				fatal("list fields", err)
			}
			output(map[string]any{"fields": keys}, strings.Join(keys, "\n"))
		},
	}
}

// readImageSpecs parses repeated slot=path flags into slot-keyed image bytes.
func readImageSpecs(specs []string) (map[int][]byte, error) {
	images := make(map[int][]byte, len(specs))
	for _, spec := range specs {
		slotStr, path, ok := strings.Cut(spec, "=")
		if !ok {
			return nil, fmt.Errorf("invalid image spec %q, want slot=path", spec)
		}
		slot, err := strconv.Atoi(slotStr)
		if err != nil {
			return nil, fmt.Errorf("invalid slot in %q: %w", spec, err)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		images[slot] = data
	}
	return images, nil
}

// parseRecordTime accepts RFC 3339 or a local "2006-01-02 15:04" form.
func parseRecordTime(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized time %q", s)
	}
	return t, nil
}

// signatureState derives the display state from the signature slots.
func signatureState(r *client.Record) string {
	switch {
	case r.SignatureCompany != nil && r.SignatureClient != nil:
		return "sealed"
	case r.SignatureCompany != nil || r.SignatureClient != nil:
		return "partially_signed"
	default:
		return "unsigned"
	}
}
