package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessTokenRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", time.Hour)
	branch := uuid.New()
	sub := TokenSubject{
		UserID:      uuid.New(),
		Email:       "kasir@salon.test",
		Roles:       []string{"cashier"},
		Permissions: []string{"manage-transactions"},
		BranchID:    &branch,
	}

	token, err := m.GenerateAccessToken(sub)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, sub.UserID, claims.UserID)
	assert.Equal(t, sub.Permissions, claims.Permissions)
	require.NotNil(t, claims.BranchID)
	assert.Equal(t, branch, *claims.BranchID)
}

func TestValidateRejectsForeignSecretAndExpiry(t *testing.T) {
	token, err := NewJWTManager("other", time.Hour).GenerateAccessToken(TokenSubject{UserID: uuid.New()})
	require.NoError(t, err)

	_, err = NewJWTManager("secret", time.Hour).ValidateAccessToken(token)
	assert.Error(t, err)

	expired, err := NewJWTManager("secret", -time.Minute).GenerateAccessToken(TokenSubject{UserID: uuid.New()})
	require.NoError(t, err)
	_, err = NewJWTManager("secret", time.Hour).ValidateAccessToken(expired)
	assert.Error(t, err)
}
