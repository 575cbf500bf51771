package client

import (
	"context"
	"net/url"
)

// SignatureService handles the signing flow.
type SignatureService struct {
	c *Client
}

// Status returns the signing progress of a record.
func (s *SignatureService) Status(ctx context.Context, kind, id string) (*SignatureStatus, error) {
	var status SignatureStatus
	if err := s.c.get(ctx, recordPath(kind, id)+"/signatures", nil, &status); err != nil {
		return nil, err
	}
	return &status, nil
}

// Sign uploads a signature image for one party (PartyCompany or
// PartyClient). Signing the second open slot seals the record.
func (s *SignatureService) Sign(ctx context.Context, kind, id, party string, image []byte) (*SignResult, error) {
	var result SignResult
	err := s.c.postMultipart(ctx, recordPath(kind, id)+"/signatures/"+url.PathEscape(party),
		nil, []FilePart{{Field: "signature", Filename: "signature.png", Data: image}}, &result)
	if err != nil {
		return nil, err
	}
	return &result, nil
}
