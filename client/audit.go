package client

import "context"

// AuditService reads the immutable edit history of records.
type AuditService struct {
	c *Client
}

// ListForRecord returns all audit entries for a record, newest first.
func (s *AuditService) ListForRecord(ctx context.Context, kind, id string) ([]AuditEntry, error) {
	var resp struct {
		Entries []AuditEntry `json:"entries"`
	}
	if err := s.c.get(ctx, recordPath(kind, id)+"/audit", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Entries, nil
}
