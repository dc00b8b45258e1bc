package service

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/l31-dev/Autha/internal/account/cache"
	"github.com/l31-dev/Autha/internal/account/credentials"
	"github.com/l31-dev/Autha/internal/account/pii"
	"github.com/l31-dev/Autha/internal/account/store"
)

// stubStore scripts the profile store contract per statement kind and
// records every mutation so tests can assert exactly which writes happened.
type stubStore struct {
	userRows     []store.Row
	userErr      error
	botRows      []store.Row
	botErr       error
	baselineRows []store.Row
	baselineErr  error

	execErr map[string]error // keyed by statement kind
	execs   []execCall
}

type execCall struct {
	kind string
	args []any
}

func (s *stubStore) Query(_ context.Context, stmt string, _ ...any) ([]store.Row, error) {
	switch queryKind(stmt) {
	case "baseline":
		return s.baselineRows, s.baselineErr
	case "user":
		return s.userRows, s.userErr
	case "bot":
		return s.botRows, s.botErr
	}
	return nil, nil
}

func (s *stubStore) Exec(_ context.Context, stmt string, args ...any) error {
	kind := execKind(stmt)
	s.execs = append(s.execs, execCall{kind: kind, args: args})
	return s.execErr[kind]
}

func (s *stubStore) execKinds() []string {
	kinds := make([]string, 0, len(s.execs))
	for _, call := range s.execs {
		kinds = append(kinds, call.kind)
	}
	return kinds
}

func queryKind(stmt string) string {
	switch {
	case strings.Contains(stmt, "password"):
		return "baseline"
	case strings.Contains(stmt, "FROM users"):
		return "user"
	case strings.Contains(stmt, "FROM bots"):
		return "bot"
	}
	return "unknown"
}

func execKind(stmt string) string {
	switch {
	case strings.Contains(stmt, "SET password"):
		return "password"
	case strings.Contains(stmt, "SET deleted"):
		return "suspend"
	case strings.Contains(stmt, "username = $1"):
		return "profile"
	}
	return "unknown"
}

// test fixture shared by the reader and patch suites.
type fixture struct {
	store    *stubStore
	cache    *cache.MemoryCache
	cipher   *pii.Cipher
	verifier *credentials.Verifier
	service  *Service
	now      time.Time
}

func newFixture() *fixture {
	cipher, err := pii.NewCipher(bytes.Repeat([]byte{0x42}, pii.KeySize))
	if err != nil {
		panic(err)
	}
	f := &fixture{
		store:    &stubStore{execErr: map[string]error{}},
		cache:    cache.NewMemoryCache(),
		cipher:   cipher,
		verifier: credentials.NewVerifier(credentials.WithCost(bcrypt.MinCost)),
		now:      time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	f.service = New(
		f.store,
		f.cache,
		f.cipher,
		f.verifier,
		slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil)),
		WithClock(func() time.Time { return f.now }),
	)
	return f
}

func str(s string) *string { return &s }

func flagBytes(b ...byte) []byte { return b }
