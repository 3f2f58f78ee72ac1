package accounts

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rollbook/internal/auth"
	"rollbook/internal/store"
	"rollbook/internal/tenant"
)

func setup(t *testing.T, hasher Hasher) (*Service, store.Backend) {
	t.Helper()
	b, err := store.NewFileBackend(t.TempDir())
	require.NoError(t, err)
	codes := tenant.NewRegistry(b, nil)
	require.NoError(t, codes.Add(context.Background(), "U1"))
	return NewService(b, codes, StaticAdmin{Username: "admin", Password: "admin123"}, hasher, nil), b
}

func TestRegisterThenAuthenticate(t *testing.T) {
	ctx := context.Background()
	for _, h := range []Hasher{SHA256Hasher{}, BcryptHasher{Cost: bcrypt.MinCost}} {
		svc, _ := setup(t, h)
		require.NoError(t, svc.Register(ctx, "alice", "pw", "pw", "U1"))

		s, err := svc.Authenticate(ctx, "alice", "pw")
		require.NoError(t, err)
		assert.Equal(t, auth.UserSession("alice"), s)

		_, err = svc.Authenticate(ctx, "alice", "wrong")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		_, err = svc.Authenticate(ctx, "bob", "pw")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
}

func TestRegisterErrors(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, nil)
	require.NoError(t, svc.Register(ctx, "alice", "pw", "pw", "U1"))

	tests := []struct {
		name                     string
		user, pwd, confirm, code string
		wantErr                  error
	}{
		{name: "blank username", user: "  ", pwd: "pw", confirm: "pw", code: "U1", wantErr: ErrEmptyUsername},
		{name: "duplicate", user: "alice", pwd: "pw", confirm: "pw", code: "U1", wantErr: ErrDuplicateUsername},
		{name: "duplicate wins over mismatch", user: "alice", pwd: "a", confirm: "b", code: "nope", wantErr: ErrDuplicateUsername},
		{name: "mismatch", user: "bob", pwd: "a", confirm: "b", code: "U1", wantErr: ErrPasswordMismatch},
		{name: "mismatch wins over code", user: "bob", pwd: "a", confirm: "b", code: "nope", wantErr: ErrPasswordMismatch},
		{name: "bad code", user: "bob", pwd: "pw", confirm: "pw", code: "nope", wantErr: ErrInvalidTenantCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := svc.Register(ctx, tt.user, tt.pwd, tt.confirm, tt.code)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestStoredDigestFormat(t *testing.T) {
	ctx := context.Background()
	svc, b := setup(t, nil)
	require.NoError(t, svc.Register(ctx, "alice", "password", "password", "U1"))

	body, err := b.Load(ctx, documentName)
	require.NoError(t, err)
	// sha256("password")
	assert.JSONEq(t, `{"alice":"5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8"}`, string(body))
}

func TestSwitchingHasherKeepsOldAccounts(t *testing.T) {
	ctx := context.Background()
	svc, b := setup(t, SHA256Hasher{})
	require.NoError(t, svc.Register(ctx, "alice", "pw", "pw", "U1"))

	codes := tenant.NewRegistry(b, nil)
	hardened := NewService(b, codes, StaticAdmin{}, BcryptHasher{Cost: bcrypt.MinCost}, nil)
	require.NoError(t, hardened.Register(ctx, "bob", "pw2", "pw2", "U1"))

	_, err := hardened.Authenticate(ctx, "alice", "pw")
	assert.NoError(t, err)
	_, err = hardened.Authenticate(ctx, "bob", "pw2")
	assert.NoError(t, err)

	creds, err := hardened.snap.Read(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(creds["bob"], "$2"))
}

func TestAuthenticateAdmin(t *testing.T) {
	ctx := context.Background()
	svc, _ := setup(t, nil)

	s, err := svc.AuthenticateAdmin(ctx, "admin", "admin123")
	require.NoError(t, err)
	assert.True(t, s.IsAdmin())

	_, err = svc.AuthenticateAdmin(ctx, "admin", "nope")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.AuthenticateAdmin(ctx, "root", "admin123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// user accounts are not admin accounts
	require.NoError(t, svc.Register(ctx, "alice", "pw", "pw", "U1"))
	_, err = svc.AuthenticateAdmin(ctx, "alice", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestHasherByName(t *testing.T) {
	h, err := HasherByName("BCRYPT")
	require.NoError(t, err)
	assert.IsType(t, BcryptHasher{}, h)

	_, err = HasherByName("md5")
	assert.Error(t, err)
}

func TestNullCredentialsDocumentIsCorrupt(t *testing.T) {
	ctx := context.Background()
	svc, b := setup(t, nil)
	require.NoError(t, b.Save(ctx, "user_credentials", []byte("null")))

	assert.ErrorIs(t, svc.Register(ctx, "bob", "pw", "pw", "U1"), store.ErrCorrupt)
	_, err := svc.Authenticate(ctx, "bob", "pw")
	assert.ErrorIs(t, err, store.ErrCorrupt)
}
