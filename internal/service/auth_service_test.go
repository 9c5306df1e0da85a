package service

import (
	"context"
	"testing"
	"time"

	"flexapp/flex-api/internal/repository/memory"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func newTestAuthService(t *testing.T) AuthService {
	t.Helper()
	return NewAuthService(memory.NewUserRepository(), testSecret, "HS256", 30*time.Minute)
}

func TestRegister(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	user, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "Alice A")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Equal(t, "a@x.com", user.Email)
	assert.Equal(t, "Alice A", user.FullName)
	assert.Empty(t, user.PasswordHash, "hash must never leave the service")
	assert.False(t, user.CreatedAt.IsZero())
}

func TestRegisterDuplicateUsername(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	_, err = svc.Register(ctx, "alice", "other@x.com", "pw456", "")
	assert.ErrorIs(t, err, ErrUsernameTaken)
}

func TestLogin(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	token, err := svc.Login(ctx, "alice", "pw123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestLoginInvalidCredentials(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	// Wrong password and unknown user must be indistinguishable.
	_, err = svc.Login(ctx, "alice", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, "nobody", "pw123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(t)

	token, err := svc.IssueToken("alice", time.Minute)
	require.NoError(t, err)

	subject, err := svc.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, "alice", subject)
}

func TestVerifyExpiredToken(t *testing.T) {
	svc := newTestAuthService(t)

	token, err := svc.IssueToken("alice", time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(5 * time.Millisecond)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerifyTokenWrongSecret(t *testing.T) {
	svc := newTestAuthService(t)
	other := NewAuthService(memory.NewUserRepository(), "a-different-secret", "HS256", 30*time.Minute)

	token, err := other.IssueToken("alice", time.Minute)
	require.NoError(t, err)

	_, err = svc.VerifyToken(token)
	assert.ErrorIs(t, err, ErrTokenSignature)
}

func TestVerifyMalformedToken(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.VerifyToken("not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenMalformed)
}

func TestVerifyTokenMissingSubject(t *testing.T) {
	svc := newTestAuthService(t)

	// A well-signed token without a subject claim.
	claims := &jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = svc.VerifyToken(raw)
	assert.ErrorIs(t, err, ErrTokenMissingSubject)
}

func TestCurrentUser(t *testing.T) {
	ctx := context.Background()
	svc := newTestAuthService(t)

	_, err := svc.Register(ctx, "alice", "a@x.com", "pw123", "")
	require.NoError(t, err)

	user, err := svc.CurrentUser(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.Empty(t, user.PasswordHash)

	_, err = svc.CurrentUser(ctx, "nobody")
	assert.Error(t, err)
}
