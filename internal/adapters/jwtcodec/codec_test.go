package jwtcodec

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	domainauth "github.com/target/social-login-api/internal/domain/auth"
)

func testIdentity() domainauth.Identity {
	return domainauth.Identity{
		ID:         "identity-1",
		Provider:   domainauth.ProviderLinkedIn,
		ProviderID: "li-subject",
		Name:       "Jane Doe",
		Email:      "jane@example.com",
	}
}

func TestNewCodec_RequiresSecret(t *testing.T) {
	_, err := NewCodec(Config{Secret: ""})
	require.Error(t, err)
}

func TestCodec_IssueAndVerify(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	codec, err := NewCodec(Config{Secret: "test-secret", Now: func() time.Time { return now }})
	require.NoError(t, err)

	token, err := codec.Issue(testIdentity())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := codec.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "identity-1", claims.Subject)
	assert.Equal(t, "jane@example.com", claims.Email)
	assert.Equal(t, domainauth.ProviderLinkedIn, claims.Provider)
	assert.Equal(t, now, claims.IssuedAt)
	assert.Equal(t, now.Add(DefaultTTL), claims.ExpiresAt)
}

func TestCodec_Issue_RequiresIdentityID(t *testing.T) {
	codec, err := NewCodec(Config{Secret: "test-secret"})
	require.NoError(t, err)

	_, err = codec.Issue(domainauth.Identity{})
	require.Error(t, err)
}

func TestCodec_Verify_Expired(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	codec, err := NewCodec(Config{
		Secret: "test-secret",
		TTL:    time.Hour,
		Now:    func() time.Time { return *clock },
	})
	require.NoError(t, err)

	token, err := codec.Issue(testIdentity())
	require.NoError(t, err)

	// Advance past expiry
	later := now.Add(time.Hour + time.Minute)
	clock = &later

	_, err = codec.Verify(token)
	assert.ErrorIs(t, err, domainauth.ErrTokenExpired)
}

func TestCodec_Verify_StillValidJustBeforeExpiry(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := &now
	codec, err := NewCodec(Config{
		Secret: "test-secret",
		TTL:    time.Hour,
		Now:    func() time.Time { return *clock },
	})
	require.NoError(t, err)

	token, err := codec.Issue(testIdentity())
	require.NoError(t, err)

	later := now.Add(59 * time.Minute)
	clock = &later

	_, err = codec.Verify(token)
	assert.NoError(t, err)
}

func TestCodec_Verify_TamperedToken(t *testing.T) {
	codec, err := NewCodec(Config{Secret: "test-secret"})
	require.NoError(t, err)

	token, err := codec.Issue(testIdentity())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = codec.Verify(tampered)
	assert.ErrorIs(t, err, domainauth.ErrTokenInvalid)
}

func TestCodec_Verify_WrongSecret(t *testing.T) {
	issuer, err := NewCodec(Config{Secret: "secret-a"})
	require.NoError(t, err)
	verifier, err := NewCodec(Config{Secret: "secret-b"})
	require.NoError(t, err)

	token, err := issuer.Issue(testIdentity())
	require.NoError(t, err)

	_, err = verifier.Verify(token)
	assert.ErrorIs(t, err, domainauth.ErrTokenInvalid)
}

func TestCodec_Verify_Garbage(t *testing.T) {
	codec, err := NewCodec(Config{Secret: "test-secret"})
	require.NoError(t, err)

	_, err = codec.Verify("not-a-jwt")
	assert.ErrorIs(t, err, domainauth.ErrTokenInvalid)

	_, err = codec.Verify("")
	assert.ErrorIs(t, err, domainauth.ErrTokenInvalid)
}
