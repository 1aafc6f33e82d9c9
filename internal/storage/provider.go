package storage

import (
	"context"

	"github.com/equiptrack/linebot-go/internal/device"
)

// Provider hands out the shared SQLite-backed repository.
// The local backend has no per-user authentication, so every
// session shares the same connection pool.
type Provider struct {
	db *DB
}

// NewProvider wraps the database as a device.Provider.
func NewProvider(db *DB) *Provider {
	return &Provider{db: db}
}

// Session returns the shared repository for any user.
func (p *Provider) Session(_ context.Context, _ string) (device.Repository, error) {
	return p.db, nil
}
