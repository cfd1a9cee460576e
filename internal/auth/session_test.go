package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifier_RoundTrip(t *testing.T) {
	v := NewVerifier("secret")
	token, err := v.Issue(Session{UserID: "u1", Email: "u1@example.com"}, time.Hour)
	require.NoError(t, err)

	s, err := v.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, Session{UserID: "u1", Email: "u1@example.com"}, s)
	assert.True(t, s.Complete())
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier("secret")

	other, err := NewVerifier("other").Issue(Session{UserID: "u1", Email: "a@b.c"}, time.Hour)
	require.NoError(t, err)
	_, err = v.Verify(other)
	assert.ErrorIs(t, err, ErrInvalidToken)

	expired, err := v.Issue(Session{UserID: "u1", Email: "a@b.c"}, -time.Minute)
	require.NoError(t, err)
	_, err = v.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = v.Verify("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestSession_Complete(t *testing.T) {
	assert.False(t, Session{UserID: "u1"}.Complete())
	assert.False(t, Session{Email: "a@b.c"}.Complete())
}
