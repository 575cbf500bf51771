package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// RecordService handles record CRUD and the audited edit operation.
type RecordService struct {
	c *Client
}

// recordListResponse wraps the paginated record list response.
type recordListResponse struct {
	Records []Record `json:"records"`
	HasMore bool     `json:"has_more"`
}

// List returns records of one kind with optional filtering and pagination.
func (s *RecordService) List(ctx context.Context, kind string, opts *ListOptions) ([]Record, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.ProjectID != "" {
			params.Set("project_id", opts.ProjectID)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp recordListResponse
	if err := s.c.get(ctx, "/api/v1/records/"+url.PathEscape(kind), params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Records, resp.HasMore, nil
}

// Get returns a single record by ID.
func (s *RecordService) Get(ctx context.Context, kind, id string) (*Record, error) {
	var rec Record
	if err := s.c.get(ctx, recordPath(kind, id), nil, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Create creates a new record in the Unsigned state.
func (s *RecordService) Create(ctx context.Context, kind string, req *CreateRecordRequest) (*Record, error) {
	var rec Record
	if err := s.c.post(ctx, "/api/v1/records/"+url.PathEscape(kind), req, &rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// Delete removes a record by ID.
func (s *RecordService) Delete(ctx context.Context, kind, id string) error {
	return s.c.del(ctx, recordPath(kind, id))
}

// FieldKeys returns the distinct field keys in use across records of a kind.
func (s *RecordService) FieldKeys(ctx context.Context, kind string) ([]string, error) {
	var resp struct {
		Fields []string `json:"fields"`
	}
	if err := s.c.get(ctx, "/api/v1/records/"+url.PathEscape(kind)+"/fields", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Fields, nil
}

// Edit applies an audited edit to a record. The reason is mandatory and
// is recorded in the audit log together with before/after snapshots.
func (s *RecordService) Edit(ctx context.Context, kind, id string, req *EditRequest) (*Record, error) {
	payload, err := json.Marshal(struct {
		Fields map[string]any `json:"fields,omitempty"`
		Reason string         `json:"reason"`
	}{Fields: req.Fields, Reason: req.Reason})
	if err != nil {
		return nil, fmt.Errorf("marshal edit payload: %w", err)
	}

	var files []FilePart
	for slot, data := range req.Images {
		files = append(files, FilePart{
			Field:    fmt.Sprintf("image_%d", slot),
			Filename: fmt.Sprintf("image_%d.jpg", slot),
			Data:     data,
		})
	}

	var rec Record
	err = s.c.postMultipart(ctx, recordPath(kind, id)+"/edit",
		map[string]string{"payload": string(payload)}, files, &rec)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

func recordPath(kind, id string) string {
	return "/api/v1/records/" + url.PathEscape(kind) + "/" + url.PathEscape(id)
}
