// Package service implements the profile read/patch pipeline: cache-aside
// retrieval against the authoritative store, PII scoping, and multi-field
// patch validation with early-exit semantics.
package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/l31-dev/Autha/internal/account/cache"
	"github.com/l31-dev/Autha/internal/account/store"
)

// Cache is the snapshot cache contract. A miss is sentinel.ErrNotFound;
// any other error is a backend failure the service treats as a miss.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Cipher is the PII protection contract: a deterministic digest for
// indexable fields and reversible encryption for at-rest fields.
type Cipher interface {
	HashIndex(plaintext string) string
	Encrypt(plaintext string) (string, error)
	Decrypt(ciphertext string) (string, error)
}

// Verifier compares and rotates password hashes.
type Verifier interface {
	Hash(password string) (string, error)
	Verify(digest, candidate string) bool
}

// Service orchestrates profile reads and patches. Requests are independent;
// the only shared state is the external cache and store, so no in-process
// locking is involved. Concurrent patches to one identifier are
// last-write-wins at the store.
type Service struct {
	store       store.Store
	cache       Cache
	cipher      Cipher
	verifier    Verifier
	logger      *slog.Logger
	clock       func() time.Time
	snapshotTTL time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithClock sets the clock used for age computation (testability).
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithSnapshotTTL overrides the cache entry lifetime.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.snapshotTTL = ttl
		}
	}
}

// New wires the service with its external collaborators. All of them are
// constructed by the process entry point and injected here; the service owns
// no connection state of its own.
func New(st store.Store, c Cache, cipher Cipher, verifier Verifier, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		store:       st,
		cache:       c,
		cipher:      cipher,
		verifier:    verifier,
		logger:      logger,
		clock:       time.Now,
		snapshotTTL: cache.SnapshotTTL,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}
