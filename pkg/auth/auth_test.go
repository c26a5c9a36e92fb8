package auth_test

import (
	"context"
	"testing"

	"github.com/bookloop/library-service/pkg/auth"
	"github.com/stretchr/testify/require"
)

func TestToken_roundtrip(t *testing.T) {
	t.Parallel()

	token, err := auth.SignToken(7, auth.RoleAdmin)
	require.NoError(t, err)

	claims, err := auth.ParseToken(token)
	require.NoError(t, err)
	require.Equal(t, int64(7), claims.UserID)
	require.Equal(t, auth.RoleAdmin, claims.Role)
}

func TestParseToken_garbage(t *testing.T) {
	t.Parallel()

	_, err := auth.ParseToken("not-a-jwt")
	require.Error(t, err)
}

func TestAuthContext(t *testing.T) {
	t.Parallel()

	ctx := auth.SetAuthContext(context.Background(), 42, auth.RoleUser)

	id, ok := auth.UserID(ctx)
	require.True(t, ok)
	require.Equal(t, int64(42), id)

	role, ok := auth.Role(ctx)
	require.True(t, ok)
	require.Equal(t, auth.RoleUser, role)

	_, ok = auth.UserID(context.Background())
	require.False(t, ok)
}
