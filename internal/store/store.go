// Package store provides focused, single-concern data access stores for
// the obralog record lifecycle.
//
// Each store owns one domain (records, history, blobs, api keys) and
// embeds shared helpers (Pool, logger) via the Base struct. Stores never
// import each other; shared logic lives in this file or in dedicated
// helper files (scan.go).
package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/obralog/obralog/internal/dbpool"
)

const defaultQueryTimeout = 30 * time.Second

// maxListLimit caps page sizes for list queries.
const maxListLimit = 1000

// Base contains shared dependencies for all stores.
// Embed this in each store struct.
type Base struct {
	Pool *dbpool.Pool
	Log  *logrus.Logger
}

// withTimeout creates a context with the default query timeout.
func withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// hashKey returns the hex-encoded SHA-256 of an API key. Only hashes are
// ever persisted or compared.
func hashKey(apiKey string) string {
	sum := sha256.Sum256([]byte(apiKey))

	return hex.EncodeToString(sum[:])
}
