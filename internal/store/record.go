package store

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/obralog/obralog/internal/models"
)

// RecordStore handles record document operations for both collection
// kinds. The kind argument selects the collection family; there is one
// implementation, not one per kind.
type RecordStore struct {
	Base
}

// NewRecordStore creates a new RecordStore.
func NewRecordStore(base Base) *RecordStore {
	return &RecordStore{Base: base}
}

// CreateRecord inserts a new unsigned record and returns the stored row.
func (s *RecordStore) CreateRecord(
	ctx context.Context,
	kind models.Kind,
	req models.CreateRecordRequest,
) (*models.Record, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	fields := req.Fields
	if fields == nil {
		fields = map[string]any{}
	}

	fieldsJSON, err := marshalDoc(fields, "record fields")
	if err != nil {
		return nil, err
	}

	var images [models.MaxImageSlots]*string

	imagesJSON, err := marshalDoc(images, "record images")
	if err != nil {
		return nil, err
	}

	query := `INSERT INTO records (kind, id, project_id, project_name, lot_name, record_time, fields, images, responsible_name)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + recordColumns

	row := s.Pool.QueryRow(ctx, query,
		kind, req.ID, req.ProjectID, req.ProjectName, req.LotName,
		req.RecordTime, fieldsJSON, imagesJSON, req.ResponsibleName,
	)

	r, err := scanRecord(row.Scan)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, models.ErrDuplicateKey
		}

		return nil, fmt.Errorf("scanning created record: %w", err)
	}

	return r, nil
}

// GetRecord retrieves a single record by ID (pure read, no side effects).
func (s *RecordStore) GetRecord(ctx context.Context, kind models.Kind, recordID string) (*models.Record, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	query := `SELECT ` + recordColumns + ` FROM records WHERE kind = $1 AND id = $2`

	row := s.Pool.QueryRow(ctx, query, kind, recordID)

	r, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrRecordNotFound
		}

		return nil, fmt.Errorf("scanning record: %w", err)
	}

	return r, nil
}

// ListRecords returns records of a kind, newest visit first, with an
// optional project filter and has_more pagination.
func (s *RecordStore) ListRecords(
	ctx context.Context,
	kind models.Kind,
	projectID string,
	limit, offset int,
) ([]models.Record, bool, error) {
	if limit <= 0 {
		limit = 50
	}

	if limit > maxListLimit {
		limit = maxListLimit
	}

	if offset < 0 {
		offset = 0
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where := " WHERE kind = $1"
	args := []any{kind}
	argIdx := 2

	if projectID != "" {
		where += fmt.Sprintf(" AND project_id = $%d", argIdx)
		args = append(args, projectID)
		argIdx++
	}

	query := "SELECT " + recordColumns + " FROM records" + where
	query += " ORDER BY record_time DESC, id"
	query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, limit+1, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying records: %w", err)
	}
	defer rows.Close()

	records := make([]models.Record, 0, limit+1)

	for rows.Next() {
		r, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, false, fmt.Errorf("scanning record row: %w", err)
		}

		records = append(records, *r)
	}

	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterating record rows: %w", err)
	}

	hasMore := len(records) > limit
	if hasMore {
		records = records[:limit]
	}

	return records, hasMore, nil
}

// ReplaceRecord overwrites the stored document with the given record as
// a full replace (not a partial patch). The write carries an optimistic
// version check: it succeeds only if the stored version still equals
// record.Version, and returns ErrVersionConflict otherwise.
func (s *RecordStore) ReplaceRecord(ctx context.Context, kind models.Kind, record *models.Record) (*models.Record, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	fieldsJSON, err := marshalDoc(record.Fields, "record fields")
	if err != nil {
		return nil, err
	}

	imagesJSON, err := marshalDoc(record.Images, "record images")
	if err != nil {
		return nil, err
	}

	query := `UPDATE records SET
			project_name = $1, lot_name = $2, record_time = $3, fields = $4,
			images = $5, responsible_name = $6, version = version + 1, updated_at = NOW()
		WHERE kind = $7 AND id = $8 AND version = $9
		RETURNING ` + recordColumns

	row := s.Pool.QueryRow(ctx, query,
		record.ProjectName, record.LotName, record.RecordTime, fieldsJSON,
		imagesJSON, record.ResponsibleName,
		kind, record.ID, record.Version,
	)

	r, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyMissingRow(ctx, kind, record.ID)
		}

		return nil, fmt.Errorf("scanning replaced record: %w", err)
	}

	return r, nil
}

// classifyMissingRow distinguishes a vanished record from a version
// conflict after an UPDATE matched no rows.
func (s *RecordStore) classifyMissingRow(ctx context.Context, kind models.Kind, recordID string) error {
	var exists bool

	err := s.Pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM records WHERE kind = $1 AND id = $2)",
		kind, recordID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking record existence: %w", err)
	}

	if exists {
		return models.ErrVersionConflict
	}

	return models.ErrRecordNotFound
}

// SetSignature writes a signature reference into the given party's slot.
// The WHERE clause refuses the write if the slot is already occupied, so
// a second commit for the same slot can never overwrite the first.
func (s *RecordStore) SetSignature(
	ctx context.Context,
	kind models.Kind,
	recordID string,
	party models.SignatureParty,
	path string,
) (*models.Record, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var column string

	switch party {
	case models.PartyCompany:
		column = "signature_company"
	case models.PartyClient:
		column = "signature_client"
	default:
		return nil, models.ErrUnknownParty
	}

	query := fmt.Sprintf(`UPDATE records
		SET %s = $1, version = version + 1, updated_at = NOW()
		WHERE kind = $2 AND id = $3 AND %s IS NULL
		RETURNING `+recordColumns, column, column)

	row := s.Pool.QueryRow(ctx, query, path, kind, recordID)

	r, err := scanRecord(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, s.classifyOccupiedSlot(ctx, kind, recordID)
		}

		return nil, fmt.Errorf("scanning signed record: %w", err)
	}

	return r, nil
}

// classifyOccupiedSlot distinguishes a vanished record from an occupied
// signature slot after the guarded UPDATE matched no rows.
func (s *RecordStore) classifyOccupiedSlot(ctx context.Context, kind models.Kind, recordID string) error {
	var exists bool

	err := s.Pool.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM records WHERE kind = $1 AND id = $2)",
		kind, recordID,
	).Scan(&exists)
	if err != nil {
		return fmt.Errorf("checking record existence: %w", err)
	}

	if exists {
		return models.ErrSlotOccupied
	}

	return models.ErrRecordNotFound
}

// DeleteRecord removes a record by ID. This is the administrative
// deletion hook; history rows are retained.
func (s *RecordStore) DeleteRecord(ctx context.Context, kind models.Kind, recordID string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM records WHERE kind = $1 AND id = $2", kind, recordID)
	if err != nil {
		return fmt.Errorf("executing record delete: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrRecordNotFound
	}

	return nil
}

// FieldKeys returns the sorted union of observation field keys present
// across all records of a kind. The field schema is dynamic and only
// discoverable at read time.
func (s *RecordStore) FieldKeys(ctx context.Context, kind models.Kind) ([]string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx,
		"SELECT DISTINCT jsonb_object_keys(fields) FROM records WHERE kind = $1",
		kind,
	)
	if err != nil {
		return nil, fmt.Errorf("querying field keys: %w", err)
	}
	defer rows.Close()

	var keys []string

	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, fmt.Errorf("scanning field key: %w", err)
		}

		keys = append(keys, k)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating field keys: %w", err)
	}

	sort.Strings(keys)

	return keys, nil
}
