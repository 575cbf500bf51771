package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// APIKeyStore is the identity provider surface: it maps API keys to the
// actor display names recorded in audit entries.
type APIKeyStore struct {
	Base
}

// NewAPIKeyStore creates an APIKeyStore.
func NewAPIKeyStore(base Base) *APIKeyStore {
	return &APIKeyStore{Base: base}
}

// GetActorByAPIKey looks up an actor display name by API key hash.
func (s *APIKeyStore) GetActorByAPIKey(ctx context.Context, apiKey string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var actor string

	err := s.Pool.QueryRow(ctx, "SELECT actor_name FROM api_keys WHERE key_hash = $1", hashKey(apiKey)).Scan(&actor)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("unknown api key")
		}

		return "", fmt.Errorf("looking up actor by API key: %w", err)
	}

	return actor, nil
}

// CreateAPIKey registers an API key for an actor. Idempotent: re-seeding
// an existing key is a no-op, so startup bootstrap can run every boot.
func (s *APIKeyStore) CreateAPIKey(ctx context.Context, apiKey, actorName string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	_, err := s.Pool.Exec(ctx,
		"INSERT INTO api_keys (key_hash, actor_name) VALUES ($1, $2) ON CONFLICT (key_hash) DO NOTHING",
		hashKey(apiKey), actorName,
	)
	if err != nil {
		return fmt.Errorf("inserting api key: %w", err)
	}

	return nil
}
