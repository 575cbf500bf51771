package service

import (
	"context"
	"errors"
	"testing"

	"github.com/obralog/obralog/internal/models"
)

func TestRecordService_CreateRecord(t *testing.T) {
	tests := []struct {
		name     string
		req      models.CreateRecordRequest
		storeErr error
		wantErr  bool
	}{
		{name: "success", req: models.CreateRecordRequest{ProjectID: "proj-1", ProjectName: "Edificio Central"}},
		{name: "missing project", req: models.CreateRecordRequest{}, wantErr: true},
		{name: "store error", req: models.CreateRecordRequest{ProjectID: "proj-1"}, storeErr: errors.New("db down"), wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store := &mockRecordStore{
				createRecord: func(_ context.Context, kind models.Kind, req models.CreateRecordRequest) (*models.Record, error) {
					if tc.storeErr != nil {
						return nil, tc.storeErr
					}

					return &models.Record{ID: req.ID, Kind: kind, ProjectID: req.ProjectID, Version: 1}, nil
				},
			}
			events := &mockBroadcaster{}

			svc := NewRecordService(store, events, newTestLogger())

			rec, err := svc.CreateRecord(context.Background(), models.KindInspection, tc.req)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if len(events.eventTypes()) != 0 {
					t.Error("event broadcast on failed create")
				}

				return
			}

			if err != nil {
				t.Fatalf("CreateRecord: %v", err)
			}
			if rec.ID == "" {
				t.Error("ID was not auto-generated")
			}
			types := events.eventTypes()
			if len(types) != 1 || types[0] != "record.created" {
				t.Errorf("events = %v, want [record.created]", types)
			}
		})
	}
}

func TestRecordService_DeleteRecord(t *testing.T) {
	store := &mockRecordStore{
		deleteRecord: func(context.Context, models.Kind, string) error {
			return nil
		},
	}
	events := &mockBroadcaster{}

	svc := NewRecordService(store, events, newTestLogger())

	if err := svc.DeleteRecord(context.Background(), models.KindMinutes, "rec-9"); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}

	types := events.eventTypes()
	if len(types) != 1 || types[0] != "record.deleted" {
		t.Errorf("events = %v, want [record.deleted]", types)
	}
}

func TestRecordService_FieldKeys(t *testing.T) {
	store := &mockRecordStore{
		fieldKeys: func(context.Context, models.Kind) ([]string, error) {
			return []string{"avance", "sectorNombre"}, nil
		},
	}

	svc := NewRecordService(store, nil, newTestLogger())

	keys, err := svc.FieldKeys(context.Background(), models.KindInspection)
	if err != nil {
		t.Fatalf("FieldKeys: %v", err)
	}
	if len(keys) != 2 || keys[0] != "avance" {
		t.Errorf("keys = %v", keys)
	}
}
