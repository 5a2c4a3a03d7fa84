package jwtauth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	ctx := context.Background()

	token, err := m.Sign(ctx, "user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := m.Verify(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}

func TestSign_RequiresUserID(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Sign(context.Background(), "   ")
	assert.Error(t, err)
}

func TestVerify_EmptyToken(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Verify(context.Background(), "")
	assert.ErrorIs(t, err, ErrTokenEmpty)
}

func TestVerify_Garbage(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	_, err := m.Verify(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_WrongSecret(t *testing.T) {
	signer := NewManager("secret-a", time.Hour)
	verifier := NewManager("secret-b", time.Hour)
	ctx := context.Background()

	token, err := signer.Sign(ctx, "user-123")
	require.NoError(t, err)

	_, err = verifier.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	ctx := context.Background()

	base := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return base }

	token, err := m.Sign(ctx, "user-123")
	require.NoError(t, err)

	// Dentro del TTL todavía vale.
	m.now = func() time.Time { return base.Add(59 * time.Minute) }
	_, err = m.Verify(ctx, token)
	require.NoError(t, err)

	// Pasado el TTL, no.
	m.now = func() time.Time { return base.Add(61 * time.Minute) }
	_, err = m.Verify(ctx, token)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
