package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/l31-dev/Autha/internal/account/models"
	"github.com/l31-dev/Autha/internal/account/store"
	dErrors "github.com/l31-dev/Autha/pkg/domain-errors"
	"github.com/l31-dev/Autha/pkg/platform/sentinel"
)

// GetProfile resolves a vanity to a profile, cache first. An unknown
// identifier yields an empty placeholder (vanity ""), not an error, so the
// caller decides whether that is a 404. A deleted record yields the redacted
// suspension placeholder.
//
// Requester scoping: email and birthdate are decrypted only when the
// requester is the profile owner. Cached snapshots are returned verbatim;
// the scoping decision was baked in when the entry was written, and only
// non-deleted, non-empty profiles are ever written.
func (s *Service) GetProfile(ctx context.Context, vanity, requester string) (models.Profile, error) {
	start := time.Now()
	defer func() {
		profileReadDuration.Observe(time.Since(start).Seconds())
	}()

	if profile, ok := s.cachedProfile(ctx, vanity); ok {
		profileReadsTotal.WithLabelValues("cache").Inc()
		return profile, nil
	}

	rows, err := s.store.Query(ctx, stmtSelectUser, vanity)
	if err != nil {
		// A transient failure at the first query stage degrades to the
		// unknown-identifier shape instead of surfacing an error.
		s.logger.WarnContext(ctx, "user lookup failed, serving empty profile", "vanity", vanity, "error", err)
		profileReadsTotal.WithLabelValues("none").Inc()
		return models.Profile{}, nil
	}

	isUser := true
	if len(rows) == 0 {
		isUser = false
		rows, err = s.store.Query(ctx, stmtSelectBot, vanity)
		if err != nil {
			return models.Profile{}, dErrors.Wrap(err, dErrors.CodeInternal, "bot lookup failed")
		}
	}
	if len(rows) == 0 {
		profileReadsTotal.WithLabelValues("none").Inc()
		return models.Profile{}, nil
	}

	profile, err := s.decodeProfile(rows[0], vanity, requester, isUser)
	if err != nil {
		return models.Profile{}, dErrors.Wrap(err, dErrors.CodeInternal, "profile decode failed")
	}
	if isUser {
		profileReadsTotal.WithLabelValues("user").Inc()
	} else {
		profileReadsTotal.WithLabelValues("bot").Inc()
	}

	if profile.Deleted {
		// Suspended accounts are served redacted and never cached.
		return models.Suspended(vanity), nil
	}

	s.fillCache(ctx, profile)
	return profile, nil
}

// cachedProfile attempts the cache-aside fast path. Backend failures and
// corrupt snapshots both degrade to a miss (fail open to the store).
func (s *Service) cachedProfile(ctx context.Context, vanity string) (models.Profile, bool) {
	snapshot, err := s.cache.Get(ctx, vanity)
	if err != nil {
		if !errors.Is(err, sentinel.ErrNotFound) {
			s.logger.WarnContext(ctx, "cache read failed, falling back to store", "vanity", vanity, "error", err)
		}
		return models.Profile{}, false
	}
	var profile models.Profile
	if err := json.Unmarshal(snapshot, &profile); err != nil {
		s.logger.WarnContext(ctx, "corrupt cache snapshot, falling back to store", "vanity", vanity, "error", err)
		return models.Profile{}, false
	}
	return profile, true
}

// decodeProfile turns a raw store row into a typed profile. Column order
// follows stmtSelectUser / stmtSelectBot. Bot rows never carry PII columns,
// and verified is not populated by this path.
func (s *Service) decodeProfile(row store.Row, vanity, requester string, isUser bool) (models.Profile, error) {
	var profile models.Profile
	var err error

	if profile.Username, err = row.StringAt(0); err != nil {
		return models.Profile{}, err
	}
	if profile.Avatar, err = row.OptionalStringAt(1); err != nil {
		return models.Profile{}, err
	}
	if profile.Bio, err = row.OptionalStringAt(2); err != nil {
		return models.Profile{}, err
	}
	if profile.Deleted, err = row.BoolAt(3); err != nil {
		return models.Profile{}, err
	}
	if profile.Flags, err = row.FlagsAt(4); err != nil {
		return models.Profile{}, err
	}
	profile.Vanity = vanity

	if isUser && vanity == requester {
		if err := s.decodePII(row, &profile); err != nil {
			return models.Profile{}, err
		}
	}
	return profile, nil
}

// decodePII decrypts the owner-only columns of a user row.
func (s *Service) decodePII(row store.Row, profile *models.Profile) error {
	emailCiphertext, err := row.OptionalStringAt(5)
	if err != nil {
		return err
	}
	if emailCiphertext != nil {
		email, err := s.cipher.Decrypt(*emailCiphertext)
		if err != nil {
			return err
		}
		profile.Email = &email
	}

	birthdateCiphertext, err := row.OptionalStringAt(6)
	if err != nil {
		return err
	}
	if birthdateCiphertext != nil {
		birthdate, err := s.cipher.Decrypt(*birthdateCiphertext)
		if err != nil {
			return err
		}
		profile.Birthdate = &birthdate
	}
	return nil
}

// fillCache writes a snapshot of a live profile. Best effort: failures are
// logged and swallowed, the store remains authoritative.
func (s *Service) fillCache(ctx context.Context, profile models.Profile) {
	snapshot, err := json.Marshal(profile)
	if err != nil {
		s.logger.ErrorContext(ctx, "snapshot marshal failed", "vanity", profile.Vanity, "error", err)
		return
	}
	if err := s.cache.Set(ctx, profile.Vanity, snapshot, s.snapshotTTL); err != nil {
		s.logger.WarnContext(ctx, "cache fill failed", "vanity", profile.Vanity, "error", err)
	}
}
