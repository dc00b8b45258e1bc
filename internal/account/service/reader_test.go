package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/l31-dev/Autha/internal/account/cache"
	"github.com/l31-dev/Autha/internal/account/models"
	"github.com/l31-dev/Autha/internal/account/store"
	dErrors "github.com/l31-dev/Autha/pkg/domain-errors"
	"github.com/l31-dev/Autha/pkg/platform/sentinel"
)

type ReaderSuite struct {
	suite.Suite
	f *fixture
}

func (s *ReaderSuite) SetupTest() {
	s.f = newFixture()
}

func TestReaderSuite(t *testing.T) {
	suite.Run(t, new(ReaderSuite))
}

// userRow builds a row matching the user SELECT column order.
func (s *ReaderSuite) userRow(username string, avatar, bio any, deleted bool, flags []byte, email, birthdate any) store.Row {
	return store.Row{username, avatar, bio, deleted, flags, email, birthdate, false}
}

func (s *ReaderSuite) encrypted(plaintext string) string {
	ciphertext, err := s.f.cipher.Encrypt(plaintext)
	s.Require().NoError(err)
	return ciphertext
}

func (s *ReaderSuite) TestCacheHitSkipsStore() {
	ctx := context.Background()
	snapshot, err := json.Marshal(models.Profile{Username: "Taki", Vanity: "taki", Flags: 2})
	s.Require().NoError(err)
	s.Require().NoError(s.f.cache.Set(ctx, "taki", snapshot, cache.SnapshotTTL))
	s.f.store.userErr = errors.New("store must not be touched")

	profile, err := s.f.service.GetProfile(ctx, "taki", "")
	s.Require().NoError(err)
	s.Equal("Taki", profile.Username)
	s.Equal(uint32(2), profile.Flags)
}

func (s *ReaderSuite) TestCorruptSnapshotFallsBackToStore() {
	ctx := context.Background()
	s.Require().NoError(s.f.cache.Set(ctx, "taki", []byte("{not json"), cache.SnapshotTTL))
	s.f.store.userRows = []store.Row{s.userRow("Taki", nil, nil, false, flagBytes(0, 0, 0, 0), nil, nil)}

	profile, err := s.f.service.GetProfile(ctx, "taki", "")
	s.Require().NoError(err)
	s.Equal("Taki", profile.Username)
	s.Equal("taki", profile.Vanity)
}

func (s *ReaderSuite) TestUserRowDecodes() {
	s.f.store.userRows = []store.Row{
		s.userRow("Taki", "https://cdn.example/a.webp", "", false, flagBytes(0, 0, 1, 2), nil, nil),
	}

	profile, err := s.f.service.GetProfile(context.Background(), "taki", "")
	s.Require().NoError(err)
	s.Equal("Taki", profile.Username)
	s.Equal("taki", profile.Vanity)
	s.Require().NotNil(profile.Avatar)
	s.Equal("https://cdn.example/a.webp", *profile.Avatar)
	s.Nil(profile.Bio, "empty string normalizes to absent")
	s.Equal(uint32(258), profile.Flags)
	s.False(profile.Verified, "read path never populates verified")
}

func (s *ReaderSuite) TestOwnerSeesDecryptedPII() {
	s.f.store.userRows = []store.Row{
		s.userRow("Taki", nil, nil, false, flagBytes(0, 0, 0, 0),
			s.encrypted("taki@example.com"), s.encrypted("2000-01-01")),
	}

	profile, err := s.f.service.GetProfile(context.Background(), "taki", "taki")
	s.Require().NoError(err)
	s.Require().NotNil(profile.Email)
	s.Equal("taki@example.com", *profile.Email)
	s.Require().NotNil(profile.Birthdate)
	s.Equal("2000-01-01", *profile.Birthdate)
}

func (s *ReaderSuite) TestOtherRequesterNeverSeesPII() {
	s.f.store.userRows = []store.Row{
		s.userRow("Taki", nil, nil, false, flagBytes(0, 0, 0, 0),
			s.encrypted("taki@example.com"), s.encrypted("2000-01-01")),
	}

	profile, err := s.f.service.GetProfile(context.Background(), "taki", "someone-else")
	s.Require().NoError(err)
	s.Nil(profile.Email)
	s.Nil(profile.Birthdate)
}

func (s *ReaderSuite) TestBotFallback() {
	s.f.store.botRows = []store.Row{
		{"StatsBot", nil, "beep boop", false, flagBytes(0, 0, 0, 1)},
	}

	profile, err := s.f.service.GetProfile(context.Background(), "statsbot", "statsbot")
	s.Require().NoError(err)
	s.Equal("StatsBot", profile.Username)
	s.Equal(uint32(1), profile.Flags)
	s.Nil(profile.Email, "bot rows never carry PII")
	s.Nil(profile.Birthdate)
}

func (s *ReaderSuite) TestUnknownIdentifierIsEmptyPlaceholder() {
	profile, err := s.f.service.GetProfile(context.Background(), "nobody", "")
	s.Require().NoError(err)
	s.True(profile.IsEmpty())
	s.Equal("", profile.Vanity)
	s.False(profile.Deleted, "distinguishable from a found-but-deleted profile")
}

func (s *ReaderSuite) TestDeletedProfileIsRedactedAndNotCached() {
	ctx := context.Background()
	s.f.store.userRows = []store.Row{
		s.userRow("Taki", "avatar", "bio", true, flagBytes(0, 0, 1, 2),
			s.encrypted("taki@example.com"), nil),
	}

	profile, err := s.f.service.GetProfile(ctx, "taki", "taki")
	s.Require().NoError(err)
	s.Equal("Account suspended", profile.Username)
	s.Equal("taki", profile.Vanity)
	s.True(profile.Deleted)
	s.Nil(profile.Avatar)
	s.Nil(profile.Email)
	s.Equal(uint32(0), profile.Flags)

	_, err = s.f.cache.Get(ctx, "taki")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ReaderSuite) TestLiveProfileFillsCache() {
	ctx := context.Background()
	s.f.store.userRows = []store.Row{
		s.userRow("Taki", nil, nil, false, flagBytes(0, 0, 0, 0), nil, nil),
	}

	_, err := s.f.service.GetProfile(ctx, "taki", "")
	s.Require().NoError(err)

	snapshot, err := s.f.cache.Get(ctx, "taki")
	s.Require().NoError(err)
	var cached models.Profile
	s.Require().NoError(json.Unmarshal(snapshot, &cached))
	s.Equal("Taki", cached.Username)
}

func (s *ReaderSuite) TestEmptyPlaceholderIsNotCached() {
	ctx := context.Background()
	_, err := s.f.service.GetProfile(ctx, "nobody", "")
	s.Require().NoError(err)

	_, err = s.f.cache.Get(ctx, "nobody")
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}

func (s *ReaderSuite) TestFirstQueryFailureServesEmptyProfile() {
	s.f.store.userErr = errors.New("connection reset")

	profile, err := s.f.service.GetProfile(context.Background(), "taki", "")
	s.Require().NoError(err)
	s.True(profile.IsEmpty())
}

func (s *ReaderSuite) TestBotQueryFailureIsInternal() {
	s.f.store.botErr = errors.New("connection reset")

	_, err := s.f.service.GetProfile(context.Background(), "statsbot", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ReaderSuite) TestDecodeFailureIsInternal() {
	s.f.store.userRows = []store.Row{
		s.userRow("Taki", nil, nil, false, flagBytes(1, 2), nil, nil), // flags must be 4 bytes
	}

	_, err := s.f.service.GetProfile(context.Background(), "taki", "")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ReaderSuite) TestMalformedPIIIsInternal() {
	s.f.store.userRows = []store.Row{
		s.userRow("Taki", nil, nil, false, flagBytes(0, 0, 0, 0), "not-a-ciphertext", nil),
	}

	_, err := s.f.service.GetProfile(context.Background(), "taki", "taki")
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}
