package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/domain"
	"github.com/obralog/obralog/internal/models"
)

// SignatureGate drives the signing state machine over a record's two
// signature slots: Unsigned → PartiallySigned → Sealed. Transitions are
// one-way; there is no unsign operation anywhere in the codebase.
type SignatureGate struct {
	store    RecordStore
	uploader domain.ImageUploader
	events   EventBroadcaster
	log      *logrus.Logger
}

// NewSignatureGate creates a SignatureGate. The uploader should store
// under the signature path prefix, not the record-image prefix.
func NewSignatureGate(store RecordStore, uploader domain.ImageUploader, events EventBroadcaster, log *logrus.Logger) *SignatureGate {
	return &SignatureGate{store: store, uploader: uploader, events: events, log: log}
}

// SignatureTicket is the capability returned by RequestSignature. Only
// a holder of a ticket can commit a signature, which keeps the
// occupied-slot and sealed checks ahead of the image upload.
type SignatureTicket struct {
	kind        models.Kind
	recordID    string
	party       models.SignatureParty
	projectName string
	lotName     string
}

// GateStatus reports the derived signature state plus per-slot
// occupancy, for clients deciding which signing actions to offer.
type GateStatus struct {
	State   models.SignatureState `json:"state"`
	Company bool                  `json:"company"`
	Client  bool                  `json:"client"`
}

// RequestSignature checks the gate and returns a commit ticket.
// A sealed record yields ErrAlreadySealed: the caller treats it as
// informational, not a failure. An occupied slot yields ErrSlotOccupied
// and the existing signature is untouched.
func (g *SignatureGate) RequestSignature(
	ctx context.Context, kind models.Kind, recordID string, party models.SignatureParty,
) (*SignatureTicket, error) {
	rec, err := g.store.GetRecord(ctx, kind, recordID)
	if err != nil {
		return nil, err
	}

	if rec.Sealed() {
		return nil, models.ErrAlreadySealed
	}

	if rec.Signature(party) != nil {
		return nil, models.ErrSlotOccupied
	}

	return &SignatureTicket{
		kind:        kind,
		recordID:    recordID,
		party:       party,
		projectName: rec.ProjectName,
		lotName:     rec.LotName,
	}, nil
}

// CommitSignature uploads the signature image and writes its storage
// path into the ticket's slot. The store re-checks slot emptiness at
// write time, so a racing commit for the same slot loses with
// ErrSlotOccupied. No audit entry is written: signing is a sanctioned
// transition, not an edit.
func (g *SignatureGate) CommitSignature(
	ctx context.Context, ticket *SignatureTicket, upload models.ImageUpload,
) (*models.Record, error) {
	path, err := g.uploader.Upload(ctx, upload, models.ImageMetadata{
		Project: ticket.projectName,
		Lot:     ticket.lotName,
		Date:    time.Now().UTC().Format("2006-01-02"),
	})
	if err != nil {
		return nil, err
	}

	rec, err := g.store.SetSignature(ctx, ticket.kind, ticket.recordID, ticket.party, path)
	if err != nil {
		return nil, err
	}

	g.log.WithFields(logrus.Fields{
		"kind":      ticket.kind,
		"record_id": ticket.recordID,
		"party":     ticket.party,
		"state":     rec.SignatureState(),
	}).Info("signature committed")

	notify(g.events, "record.signed", recordEvent{
		Kind:     ticket.kind,
		RecordID: ticket.recordID,
		Party:    ticket.party,
		State:    rec.SignatureState(),
	})

	return rec, nil
}

// Status returns the gate state for a record.
func (g *SignatureGate) Status(ctx context.Context, kind models.Kind, recordID string) (*GateStatus, error) {
	rec, err := g.store.GetRecord(ctx, kind, recordID)
	if err != nil {
		return nil, err
	}

	return &GateStatus{
		State:   rec.SignatureState(),
		Company: rec.SignatureCompany != nil,
		Client:  rec.SignatureClient != nil,
	}, nil
}

// CanGenerateReport reports whether the record is sealed. This is the
// sole gate on report generation.
func (g *SignatureGate) CanGenerateReport(ctx context.Context, kind models.Kind, recordID string) (bool, error) {
	rec, err := g.store.GetRecord(ctx, kind, recordID)
	if err != nil {
		return false, err
	}

	return rec.Sealed(), nil
}
