package credentials

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	dErrors "github.com/l31-dev/Autha/pkg/domain-errors"
)

func TestVerifierRoundTrip(t *testing.T) {
	v := NewVerifier(WithCost(bcrypt.MinCost))

	digest, err := v.Hash("Test1234_")
	require.NoError(t, err)
	require.NotEqual(t, "Test1234_", digest)

	assert.True(t, v.Verify(digest, "Test1234_"))
	assert.False(t, v.Verify(digest, "wrong password"))
}

func TestVerifierSaltsEveryHash(t *testing.T) {
	v := NewVerifier(WithCost(bcrypt.MinCost))

	first, err := v.Hash("Test1234_")
	require.NoError(t, err)
	second, err := v.Hash("Test1234_")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, v.Verify(first, "Test1234_"))
	assert.True(t, v.Verify(second, "Test1234_"))
}

func TestVerifierRejectsEmptyPassword(t *testing.T) {
	v := NewVerifier(WithCost(bcrypt.MinCost))

	_, err := v.Hash("")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	assert.Equal(t, "password", dErrors.FieldOf(err))
}

func TestVerifyRejectsGarbageDigest(t *testing.T) {
	v := NewVerifier()
	assert.False(t, v.Verify("not a bcrypt digest", "Test1234_"))
}
