package client

import "context"

// ReportService handles report generation.
type ReportService struct {
	c *Client
}

// Generate assembles the multi-page report document for a sealed record.
func (s *ReportService) Generate(ctx context.Context, kind, id string, visit *VisitSession) (*ReportDocument, error) {
	if visit == nil {
		visit = &VisitSession{}
	}
	var doc ReportDocument
	if err := s.c.post(ctx, recordPath(kind, id)+"/report", visit, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}
