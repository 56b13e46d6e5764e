package storage

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/crypto/scrypt"
)

// On-disk layout: magic | salt | nonce | secretbox(JSON object of key -> value)
var fileMagic = []byte("PKS1")

const (
	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

// scrypt cost parameters (N=2^15 keeps derivation around 50-100ms)
var (
	scryptN = 1 << 15
	scryptR = 8
	scryptP = 1
)

// ErrDecrypt is returned when the session file cannot be opened with the passphrase
var ErrDecrypt = errors.New("session file could not be decrypted (wrong passphrase or corrupt file)")

// FileStore persists the whole keyspace as one sealed file. The bearer token
// lives in here, so the document is encrypted at rest.
type FileStore struct {
	mu     sync.Mutex
	path   string
	salt   []byte
	key    [keySize]byte
	values map[string]string
}

// NewFileStore opens (or prepares) the sealed file at path
func NewFileStore(path, passphrase string) (*FileStore, error) {
	fs := &FileStore{
		path:   path,
		values: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		fs.salt = make([]byte, saltSize)
		if _, err := io.ReadFull(rand.Reader, fs.salt); err != nil {
			return nil, fmt.Errorf("failed to generate salt: %w", err)
		}
		if err := fs.deriveKey(passphrase); err != nil {
			return nil, err
		}
		return fs, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	if err := fs.load(data, passphrase); err != nil {
		return nil, err
	}
	return fs, nil
}

func (f *FileStore) deriveKey(passphrase string) error {
	k, err := scrypt.Key([]byte(passphrase), f.salt, scryptN, scryptR, scryptP, keySize)
	if err != nil {
		return fmt.Errorf("failed to derive key: %w", err)
	}
	copy(f.key[:], k)
	return nil
}

func (f *FileStore) load(data []byte, passphrase string) error {
	header := len(fileMagic) + saltSize + nonceSize
	if len(data) < header+secretbox.Overhead || !bytes.Equal(data[:len(fileMagic)], fileMagic) {
		return ErrDecrypt
	}

	f.salt = append([]byte(nil), data[len(fileMagic):len(fileMagic)+saltSize]...)
	if err := f.deriveKey(passphrase); err != nil {
		return err
	}

	var nonce [nonceSize]byte
	copy(nonce[:], data[len(fileMagic)+saltSize:header])

	plain, ok := secretbox.Open(nil, data[header:], &nonce, &f.key)
	if !ok {
		return ErrDecrypt
	}
	if err := json.Unmarshal(plain, &f.values); err != nil {
		return fmt.Errorf("session file is corrupt: %w", err)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	return nil
}

// persist seals the current keyspace and atomically replaces the file.
// Caller holds f.mu.
func (f *FileStore) persist() error {
	plain, err := json.Marshal(f.values)
	if err != nil {
		return err
	}

	var nonce [nonceSize]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}

	out := make([]byte, 0, len(fileMagic)+saltSize+nonceSize+len(plain)+secretbox.Overhead)
	out = append(out, fileMagic...)
	out = append(out, f.salt...)
	out = append(out, nonce[:]...)
	out = secretbox.Seal(out, plain, &nonce, &f.key)

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("failed to create session dir: %w", err)
		}
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, out, 0o600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

func (f *FileStore) Get(ctx context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *FileStore) Set(ctx context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value
	return f.persist()
}

func (f *FileStore) Remove(ctx context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, k := range keys {
		delete(f.values, k)
	}
	return f.persist()
}

func (f *FileStore) Clear(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = make(map[string]string)
	return f.persist()
}

// Ping verifies the directory holding the session file is writable
func (f *FileStore) Ping(ctx context.Context) error {
	dir := filepath.Dir(f.path)
	if _, err := os.Stat(dir); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}

func (f *FileStore) Close() error { return nil }
