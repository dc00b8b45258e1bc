package service

import (
	"context"
	"regexp"
	"time"

	"github.com/l31-dev/Autha/internal/account/models"
	dErrors "github.com/l31-dev/Autha/pkg/domain-errors"
)

var (
	emailPattern    = regexp.MustCompile(`.+@.+.([a-zA-Z]{2,7})$`)
	passwordPattern = regexp.MustCompile(`([0-9|*|]|[$&+,:;=?@#|'<>.^*()%!-])+`)
	birthPattern    = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])-(0[1-9]|[12][0-9]|3[01])$`)
)

// minimumAge is the policy threshold below which an account is suspended.
const minimumAge = 13

// PatchProfile validates and applies a partial update to a user record.
// Fields are validated in a fixed order and the first failure aborts the
// whole operation with no store write, with two deliberate exceptions: the
// age-policy suspension write, and the separate password write that
// precedes the combined update.
func (s *Service) PatchProfile(ctx context.Context, vanity string, patch models.Patch) error {
	err := s.patchProfile(ctx, vanity, patch)
	profilePatchesTotal.WithLabelValues(patchOutcome(err)).Inc()
	return err
}

func (s *Service) patchProfile(ctx context.Context, vanity string, patch models.Patch) error {
	// Baseline comes from the store, never the cache, so the patch applies
	// against the current record.
	rows, err := s.store.Query(ctx, stmtSelectBaseline, vanity)
	if err != nil || len(rows) == 0 {
		return dErrors.New(dErrors.CodeNotFound, "unknown user")
	}

	username, err := rows[0].StringAt(0)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "baseline decode failed")
	}
	bio, err := rows[0].OptionalStringAt(2)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "baseline decode failed")
	}
	email, err := rows[0].StringAt(3)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "baseline decode failed")
	}
	storedHash, err := rows[0].StringAt(4)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "baseline decode failed")
	}

	// Re-authentication gate. Email and password changes below require it.
	passwordValid := false
	if patch.Password != nil {
		if !s.verifier.Verify(storedHash, *patch.Password) {
			return dErrors.NewField(dErrors.CodeValidation, "password", "invalid password")
		}
		passwordValid = true
	}

	if patch.Username != nil {
		if len(*patch.Username) >= 16 {
			return dErrors.NewField(dErrors.CodeValidation, "username", "invalid username")
		}
		username = *patch.Username
	}

	if patch.Bio != nil {
		switch {
		case len(*patch.Bio) > 160:
			return dErrors.NewField(dErrors.CodeValidation, "bio", "invalid bio")
		case *patch.Bio == "":
			bio = nil
		default:
			bio = patch.Bio
		}
	}

	if patch.Email != nil {
		if !passwordValid || !emailPattern.MatchString(*patch.Email) {
			return dErrors.NewField(dErrors.CodeValidation, "email", "invalid email")
		}
		// The indexable digest is written, never the raw address.
		email = s.cipher.HashIndex(*patch.Email)
	}

	var birthdate *string
	if patch.Birthdate != nil {
		ciphertext, err := s.adoptBirthdate(ctx, vanity, *patch.Birthdate)
		if err != nil {
			return err
		}
		birthdate = &ciphertext
	}

	if patch.Phone != nil {
		return dErrors.NewField(dErrors.CodeNotImplemented, "phone", "phones are not implemented yet")
	}

	if patch.NewPassword != nil {
		if !passwordValid || !passwordPattern.MatchString(*patch.NewPassword) {
			return dErrors.NewField(dErrors.CodeValidation, "password", "invalid password")
		}
		newHash, err := s.verifier.Hash(*patch.NewPassword)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "password hash failed")
		}
		// The password column is written on its own, ahead of the combined
		// update. The two writes are not transactional.
		if err := s.store.Exec(ctx, stmtUpdatePassword, newHash, vanity); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "password update failed")
		}
	}

	// Avatar and phone have no patch path yet and are written as nil.
	var avatar, phone *string
	if err := s.store.Exec(ctx, stmtUpdateProfile, username, avatar, bio, birthdate, phone, email, vanity); err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "profile update failed")
	}

	// Snapshots are invalidated, never rewritten in place.
	if err := s.cache.Delete(ctx, vanity); err != nil {
		s.logger.WarnContext(ctx, "cache invalidation failed", "vanity", vanity, "error", err)
	}
	return nil
}

// adoptBirthdate validates the birthdate, enforces the age policy, and
// returns the ciphertext to store. A failing age check suspends the account
// before returning: the suspension write is the one mutation allowed on a
// validation failure path, and it is one-way.
func (s *Service) adoptBirthdate(ctx context.Context, vanity, birth string) (string, error) {
	if !birthPattern.MatchString(birth) {
		return "", dErrors.NewField(dErrors.CodeValidation, "birthdate", "invalid birthdate")
	}
	parsed, err := time.Parse("2006-01-02", birth)
	if err != nil {
		return "", dErrors.NewField(dErrors.CodeValidation, "birthdate", "invalid birthdate")
	}

	if age(parsed, s.clock()) < minimumAge {
		if err := s.store.Exec(ctx, stmtSuspend, vanity); err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "suspension failed")
		}
		return "", dErrors.New(dErrors.CodeSuspended, "your account has been suspended: age")
	}

	ciphertext, err := s.cipher.Encrypt(birth)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "birthdate encryption failed")
	}
	return ciphertext, nil
}

// age returns full years elapsed between birth and now.
func age(birth, now time.Time) int {
	years := now.Year() - birth.Year()
	if now.Month() < birth.Month() || (now.Month() == birth.Month() && now.Day() < birth.Day()) {
		years--
	}
	return years
}
