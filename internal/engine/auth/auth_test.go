package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueVerify(t *testing.T) {
	tok, err := Issue("s3cret", "operator", []string{"cases"}, time.Hour, time.Now())
	require.NoError(t, err)

	p, err := Verify("s3cret", tok)
	require.NoError(t, err)
	assert.Equal(t, "operator", p.Subject)
	assert.Equal(t, []string{"cases"}, p.Scopes)
	assert.Equal(t, "jwt", p.Source)
}

func TestVerifyRejects(t *testing.T) {
	tok, err := Issue("s3cret", "operator", nil, time.Minute, time.Now().Add(-time.Hour))
	require.NoError(t, err)
	_, err = Verify("s3cret", tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "expired")

	tok, err = Issue("s3cret", "operator", nil, 0, time.Now())
	require.NoError(t, err)
	_, err = Verify("other", tok)
	assert.ErrorIs(t, err, ErrInvalidToken, "wrong secret")

	_, err = Verify("", tok)
	assert.ErrorIs(t, err, ErrSecretMissing)

	_, err = Issue("", "operator", nil, 0, time.Now())
	assert.ErrorIs(t, err, ErrSecretMissing)
}
