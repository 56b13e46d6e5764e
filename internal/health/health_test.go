package health

import (
	"context"
	"errors"
	"testing"

	"parking-client/internal/storage"
)

type brokenStore struct {
	*storage.MemoryStore
}

func (brokenStore) Ping(ctx context.Context) error { return errors.New("connection refused") }

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestCheckBasicHealthy(t *testing.T) {
	status := NewHealthChecker(storage.NewMemoryStore()).CheckBasic()
	if status.Status != "healthy" || status.Storage.Status != "healthy" {
		t.Fatalf("got %+v", status)
	}
	if status.Backend != nil {
		t.Fatalf("backend reported without a probe: %+v", status.Backend)
	}
}

func TestCheckBasicStorageDown(t *testing.T) {
	status := NewHealthChecker(brokenStore{storage.NewMemoryStore()}).CheckBasic()
	if status.Status != "unhealthy" {
		t.Fatalf("status = %q", status.Status)
	}
	if status.Storage.Error != "connection refused" {
		t.Fatalf("error = %q", status.Storage.Error)
	}
}

func TestUnreachableBackendStaysHealthy(t *testing.T) {
	checker := NewHealthChecker(storage.NewMemoryStore()).
		WithBackend(pingFunc(func(ctx context.Context) error { return errors.New("dial tcp: timeout") }))

	status := checker.CheckBasic()
	if status.Status != "healthy" {
		t.Fatalf("status = %q", status.Status)
	}
	if status.Backend == nil || status.Backend.Status != "unreachable" {
		t.Fatalf("backend = %+v", status.Backend)
	}
}

func TestFormatBytes(t *testing.T) {
	cases := map[uint64]string{
		512 * 1024 * 1024:      "512.0 MB",
		3 * 1024 * 1024 * 1024: "3.0 GB",
		0:                      "0.0 MB",
	}
	for in, want := range cases {
		if got := formatBytes(in); got != want {
			t.Errorf("formatBytes(%d) = %q, want %q", in, got, want)
		}
	}
}
