package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/obralog/obralog/internal/domain"
	"github.com/obralog/obralog/internal/models"
)

// EditRequest is one editor commit: observation field changes, optional
// replacement images keyed by slot index, and the mandatory reason.
// A nil field value deletes the key from the record's field bag.
type EditRequest struct {
	Fields map[string]any
	Images map[int]models.ImageUpload
	Reason string
	Actor  string
}

// RecordEditor applies audited edits to unsealed records. Every
// successful commit writes exactly one audit entry carrying full
// before/after snapshots.
type RecordEditor struct {
	store    RecordStore
	audit    AuditLog
	uploader domain.ImageUploader
	events   EventBroadcaster
	log      *logrus.Logger
}

// NewRecordEditor creates a RecordEditor. The uploader should store
// under the record-image path prefix.
func NewRecordEditor(store RecordStore, audit AuditLog, uploader domain.ImageUploader, events EventBroadcaster, log *logrus.Logger) *RecordEditor {
	return &RecordEditor{store: store, audit: audit, uploader: uploader, events: events, log: log}
}

// Edit re-reads the persisted record, applies the request on top of
// that snapshot, and replaces the stored document under an optimistic
// version check. The reason must be non-blank and the record unsealed;
// violations are rejected before anything is written.
//
// Replacement images upload concurrently, one goroutine per slot.
// Coordinates are not carried over: an image swapped in at edit time
// was not captured on site, so its metadata holds blank coordinates.
func (e *RecordEditor) Edit(
	ctx context.Context, kind models.Kind, recordID string, req EditRequest,
) (*models.Record, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" {
		return nil, models.ErrEmptyReason
	}

	for slot := range req.Images {
		if slot < 0 || slot >= models.MaxImageSlots {
			return nil, fmt.Errorf("image slot %d out of range [0,%d)", slot, models.MaxImageSlots)
		}
	}

	before, err := e.store.GetRecord(ctx, kind, recordID)
	if err != nil {
		return nil, err
	}

	if before.Sealed() {
		return nil, models.ErrRecordSealed
	}

	working := before.Clone()

	if err := e.uploadImages(ctx, before, working, req.Images); err != nil {
		return nil, err
	}

	mergeFields(working, req.Fields)

	after, err := e.store.ReplaceRecord(ctx, kind, working)
	if err != nil {
		return nil, err
	}

	// The record write is committed at this point. An audit append
	// failure is logged loudly rather than rolled back; the entry is
	// written synchronously so the normal path never loses history.
	entry := &models.AuditEntry{
		Kind:      kind,
		RecordID:  recordID,
		ActorName: req.Actor,
		Reason:    reason,
		Before:    before,
		After:     after.Clone(),
	}
	if err := e.audit.Append(ctx, entry); err != nil {
		e.log.WithError(err).WithFields(logrus.Fields{
			"kind":      kind,
			"record_id": recordID,
			"actor":     req.Actor,
		}).Error("audit append failed after record write; history is incomplete for this commit")
	} else {
		notify(e.events, "audit.appended", recordEvent{Kind: kind, RecordID: recordID})
	}

	e.log.WithFields(logrus.Fields{
		"kind":      kind,
		"record_id": recordID,
		"actor":     req.Actor,
		"fields":    len(req.Fields),
		"images":    len(req.Images),
		"version":   after.Version,
	}).Info("record edited")

	notify(e.events, "record.updated", recordEvent{Kind: kind, RecordID: recordID})

	return after, nil
}

// uploadImages pushes replacement images to blob storage concurrently
// and writes the resulting paths into the working copy's slots. Any
// upload failure aborts the whole edit before the record is touched.
func (e *RecordEditor) uploadImages(
	ctx context.Context, before, working *models.Record, images map[int]models.ImageUpload,
) error {
	if len(images) == 0 {
		return nil
	}

	meta := models.ImageMetadata{
		Project: before.ProjectName,
		Lot:     before.LotName,
		Date:    before.RecordTime.UTC().Format("2006-01-02"),
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(models.MaxImageSlots)

	for slot, upload := range images {
		g.Go(func() error {
			path, err := e.uploader.Upload(gctx, upload, meta)
			if err != nil {
				return fmt.Errorf("uploading image for slot %d: %w", slot, err)
			}

			// Each goroutine writes a distinct slot; no lock needed.
			working.Images[slot] = &path

			return nil
		})
	}

	return g.Wait()
}

// mergeFields applies observation field edits over the working copy.
// Structural keys are ignored: identity, images, signatures, and
// timestamps are never writable through the field bag. A nil value
// deletes the key.
func mergeFields(working *models.Record, fields map[string]any) {
	if len(fields) == 0 {
		return
	}

	if working.Fields == nil {
		working.Fields = make(map[string]any, len(fields))
	}

	for k, v := range fields {
		if models.IsStructuralField(k) {
			continue
		}

		if v == nil {
			delete(working.Fields, k)
			continue
		}

		working.Fields[k] = v
	}
}
