package storage

import (
	"context"
	"log"
	"strings"

	"parking-client/internal/config"
	"parking-client/internal/db"
)

// Open selects the backend named by cfg.Storage.Driver. Network backends that
// cannot be reached degrade to the encrypted file store, and the file store
// degrades to memory, so the client always starts.
func Open(ctx context.Context, cfg *config.Config) Store {
	driver := strings.ToLower(strings.TrimSpace(cfg.Storage.Driver))

	switch driver {
	case "memory":
		log.Println("[Storage] Using in-memory session store")
		return NewMemoryStore()

	case "redis":
		rs, err := NewRedisStore(cfg.RedisAddr(), cfg.Redis.Password, cfg.Redis.DB, cfg.Storage.Namespace)
		if err == nil {
			log.Printf("[Storage] Using redis session store at %s", cfg.RedisAddr())
			return rs
		}
		log.Printf("[Storage] Redis unavailable (%v), falling back to file store", err)

	case "postgres":
		pool, err := db.Connect(ctx, cfg.DatabaseDSN())
		if err != nil {
			log.Printf("[Storage] Postgres unavailable (%v), falling back to file store", err)
			break
		}
		ps, err := NewPostgresStore(ctx, pool, cfg.Storage.Namespace)
		if err != nil {
			pool.Close()
			log.Printf("[Storage] Postgres migration failed (%v), falling back to file store", err)
			break
		}
		log.Printf("[Storage] Using postgres session store (%s)", cfg.Database.Name)
		return ps

	case "file", "":
	default:
		log.Printf("[Storage] Unknown driver %q, using file store", driver)
	}

	return openFile(cfg)
}

func openFile(cfg *config.Config) Store {
	if cfg.Storage.Passphrase == "" {
		log.Println("[Storage] WARNING: storage.passphrase is empty, session file is sealed with an empty key")
	}
	fs, err := NewFileStore(cfg.Storage.Path, cfg.Storage.Passphrase)
	if err != nil {
		log.Printf("[Storage] File store unavailable (%v), using in-memory session store", err)
		return NewMemoryStore()
	}
	log.Printf("[Storage] Using encrypted file session store at %s", cfg.Storage.Path)
	return fs
}
