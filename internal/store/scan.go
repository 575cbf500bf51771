package store

import (
	"encoding/json"
	"fmt"

	"github.com/obralog/obralog/internal/models"
)

// recordColumns lists the columns selected for record queries.
const recordColumns = `kind, id, project_id, project_name, lot_name, record_time,
	fields, images, signature_company, signature_client, responsible_name,
	version, created_at, updated_at`

// scanRecord scans a single row into a models.Record.
func scanRecord(scan func(dest ...any) error) (*models.Record, error) {
	var r models.Record
	var fields, images []byte

	err := scan(
		&r.Kind,
		&r.ID,
		&r.ProjectID,
		&r.ProjectName,
		&r.LotName,
		&r.RecordTime,
		&fields,
		&images,
		&r.SignatureCompany,
		&r.SignatureClient,
		&r.ResponsibleName,
		&r.Version,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(fields, &r.Fields); err != nil {
		return nil, fmt.Errorf("unmarshalling record fields: %w", err)
	}

	if err := json.Unmarshal(images, &r.Images); err != nil {
		return nil, fmt.Errorf("unmarshalling record images: %w", err)
	}

	return &r, nil
}

// marshalDoc serializes a field bag or image slot array for JSONB storage.
func marshalDoc(v any, what string) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", what, err)
	}

	return data, nil
}
