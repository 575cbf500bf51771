package models

import (
	"errors"
	"fmt"
)

// Sentinel errors for validation. These map to HTTP 400.
var (
	ErrEmptyReason    = errors.New("reason is required")
	ErrMissingProject = errors.New("project_id is required")
	ErrUnknownKind    = errors.New("unknown record kind")
	ErrUnknownParty   = errors.New("unknown signature party")
)

// Sentinel errors for entity lookups.
var (
	ErrRecordNotFound = errors.New("record not found")
	ErrBlobNotFound   = errors.New("blob not found")
)

// Signature gate conditions. Both describe valid terminal states rather
// than failures: an already sealed record is surfaced as informational,
// an occupied slot is refused so the UI stops offering it.
var (
	ErrAlreadySealed = errors.New("record is already sealed")
	ErrSlotOccupied  = errors.New("signature slot is already filled")
)

// ErrRecordSealed indicates an attempted edit on a sealed record.
var ErrRecordSealed = errors.New("record is sealed and cannot be edited")

// ErrVersionConflict indicates a concurrent write was detected by the
// optimistic version check at replace time.
var ErrVersionConflict = errors.New("record was modified concurrently")

// ErrReportNotReady indicates report generation was requested for a
// record that does not yet carry both signatures.
var ErrReportNotReady = errors.New("record is not fully signed")

// ErrDuplicateKey indicates a unique constraint violation (maps to HTTP 409 Conflict).
var ErrDuplicateKey = errors.New("duplicate key")

// ErrFieldTooLong returns an error indicating a field exceeds its maximum length.
func ErrFieldTooLong(field string, maxLen int) error {
	return fmt.Errorf("%s exceeds maximum length of %d", field, maxLen)
}
