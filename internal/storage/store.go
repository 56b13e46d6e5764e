// Package storage is the persistent session store: a small namespaced
// key-value port with interchangeable backends. Values survive process
// restarts; writes are last-write-wins.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
)

// Keys written by the session controller
const (
	KeyToken           = "token"
	KeyUser            = "user"
	KeyRole            = "role"
	KeyStaffPermission = "staffPermission"
	KeyPrices          = "prices"
)

// SessionKeys lists every key the application owns
var SessionKeys = []string{KeyToken, KeyUser, KeyRole, KeyStaffPermission, KeyPrices}

// Store is the key-value port used by the session controller
type Store interface {
	// Get returns the value for key; ok is false when nothing was written
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	// Set overwrites the value for key
	Set(ctx context.Context, key, value string) error
	// Remove deletes the given keys; missing keys are ignored
	Remove(ctx context.Context, keys ...string) error
	// Clear removes every key in this application's namespace
	Clear(ctx context.Context) error
	// Ping checks the backend is reachable
	Ping(ctx context.Context) error
	Close() error
}

// SetJSON serializes v and writes it under key
func SetJSON(ctx context.Context, s Store, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", key, err)
	}
	return s.Set(ctx, key, string(data))
}

// GetJSON reads key and decodes it into v. ok is false when the key is absent.
func GetJSON(ctx context.Context, s Store, key string, v any) (bool, error) {
	raw, ok, err := s.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), v); err != nil {
		return false, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return true, nil
}
