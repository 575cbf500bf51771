// Package models defines data types for the inspection record lifecycle.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MaxImageSlots is the fixed number of photo slots per record.
const MaxImageSlots = 6

// SignatureParty identifies which of the two signature slots an
// operation targets.
type SignatureParty string

// The two countersigning parties.
const (
	PartyCompany SignatureParty = "company"
	PartyClient  SignatureParty = "client"
)

// ParseParty validates a party string from a path or CLI argument.
func ParseParty(s string) (SignatureParty, error) {
	p := SignatureParty(s)
	if p != PartyCompany && p != PartyClient {
		return "", ErrUnknownParty
	}

	return p, nil
}

// SignatureState is the signature gate state derived from a record's slots.
type SignatureState string

// Gate states. Transitions are monotonic: Unsigned → PartiallySigned → Sealed.
const (
	StateUnsigned        SignatureState = "unsigned"
	StatePartiallySigned SignatureState = "partially_signed"
	StateSealed          SignatureState = "sealed"
)

// Record is the unit of work: one inspection or meeting-minute entry
// tied to a project and a site visit.
//
// Fields is an open, sparse bag of observation attributes whose schema
// is discovered at read time; structural attributes (identity, images,
// signatures, timestamps) are explicit and never appear inside Fields.
type Record struct {
	ID               string                     `json:"id"`
	Kind             Kind                       `json:"kind"`
	ProjectID        string                     `json:"project_id"`
	ProjectName      string                     `json:"project_name"`
	LotName          string                     `json:"lot_name"`
	RecordTime       time.Time                  `json:"record_time"`
	Fields           map[string]any             `json:"fields"`
	Images           [MaxImageSlots]*string     `json:"images"`
	SignatureCompany *string                    `json:"signature_company,omitempty"`
	SignatureClient  *string                    `json:"signature_client,omitempty"`
	ResponsibleName  string                     `json:"responsible_name"`
	Version          int64                      `json:"version"`
	CreatedAt        time.Time                  `json:"created_at"`
	UpdatedAt        time.Time                  `json:"updated_at"`
}

// Signature returns a pointer to the slot for the given party, or nil
// for an unknown party.
func (r *Record) Signature(party SignatureParty) *string {
	switch party {
	case PartyCompany:
		return r.SignatureCompany
	case PartyClient:
		return r.SignatureClient
	}

	return nil
}

// Sealed reports whether both signature slots are filled. Sealed records
// are immutable except for administrative deletion.
func (r *Record) Sealed() bool {
	return r.SignatureCompany != nil && r.SignatureClient != nil
}

// SignatureState derives the gate state from the two slots.
func (r *Record) SignatureState() SignatureState {
	switch {
	case r.Sealed():
		return StateSealed
	case r.SignatureCompany != nil || r.SignatureClient != nil:
		return StatePartiallySigned
	}

	return StateUnsigned
}

// ImageCount returns the number of occupied image slots.
func (r *Record) ImageCount() int {
	n := 0
	for _, img := range r.Images {
		if img != nil {
			n++
		}
	}

	return n
}

// Clone returns a deep copy of the record, used for audit before/after
// snapshots so later mutations cannot leak into persisted history.
func (r *Record) Clone() *Record {
	cp := *r

	cp.Fields = cloneFieldBag(r.Fields)

	for i, img := range r.Images {
		if img != nil {
			v := *img
			cp.Images[i] = &v
		}
	}

	if r.SignatureCompany != nil {
		v := *r.SignatureCompany
		cp.SignatureCompany = &v
	}

	if r.SignatureClient != nil {
		v := *r.SignatureClient
		cp.SignatureClient = &v
	}

	return &cp
}

// cloneFieldBag deep-copies an open field bag. Values are limited to
// what JSON can carry (strings, numbers, bools, nested maps, lists).
func cloneFieldBag(fields map[string]any) map[string]any {
	if fields == nil {
		return nil
	}

	cp := make(map[string]any, len(fields))
	for k, v := range fields {
		cp[k] = cloneFieldValue(v)
	}

	return cp
}

func cloneFieldValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return cloneFieldBag(val)
	case []any:
		cp := make([]any, len(val))
		for i, e := range val {
			cp[i] = cloneFieldValue(e)
		}

		return cp
	}

	return v
}

// structuralFields are the closed set of keys handled explicitly by the
// record schema. Edits addressing them through the open field bag are
// ignored: only observation-class fields are writable.
var structuralFields = map[string]struct{}{
	"id":                {},
	"kind":              {},
	"project_id":        {},
	"projectId":         {},
	"project_name":      {},
	"lot_name":          {},
	"record_time":       {},
	"images":            {},
	"signature_company": {},
	"signature_client":  {},
	"signatureCompany":  {},
	"signatureClient":   {},
	"responsible_name":  {},
	"version":           {},
	"created_at":        {},
	"updated_at":        {},
}

// IsStructuralField reports whether key belongs to the closed structural
// schema rather than the open observation field bag.
func IsStructuralField(key string) bool {
	_, ok := structuralFields[key]

	return ok
}

// CreateRecordRequest is the intake payload for a new (unsigned) record.
type CreateRecordRequest struct {
	ID              string         `json:"id"`
	ProjectID       string         `json:"project_id"`
	ProjectName     string         `json:"project_name"`
	LotName         string         `json:"lot_name"`
	RecordTime      time.Time      `json:"record_time"`
	ResponsibleName string         `json:"responsible_name"`
	Fields          map[string]any `json:"fields,omitempty"`
}

// Validate checks that required fields are present and within limits.
// If ID is empty, a UUID is auto-generated.
func (r *CreateRecordRequest) Validate() error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}

	if len(r.ID) > 255 {
		return ErrFieldTooLong("id", 255)
	}

	if r.ProjectID == "" {
		return ErrMissingProject
	}

	if len(r.ProjectName) > 1000 {
		return ErrFieldTooLong("project_name", 1000)
	}

	if r.RecordTime.IsZero() {
		r.RecordTime = time.Now().UTC()
	}

	if r.Fields != nil {
		data, err := json.Marshal(r.Fields)
		if err != nil {
			return fmt.Errorf("invalid fields: %w", err)
		}
		if len(data) > 65536 {
			return ErrFieldTooLong("fields", 65536)
		}
	}

	return nil
}
