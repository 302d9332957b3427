package auth

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	dto "github.com/dropDatabas3/hellodiary/internal/http/dto/auth"
	"github.com/dropDatabas3/hellodiary/internal/jwt"
	"github.com/dropDatabas3/hellodiary/internal/security/password"
	"github.com/dropDatabas3/hellodiary/internal/security/token"
	"github.com/dropDatabas3/hellodiary/internal/store/adapters/sqlite"
	"github.com/dropDatabas3/hellodiary/internal/validation"
)

type env struct {
	svc    Services
	users  repository.UserRepository
	tokens *token.Service
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "auth.db"))
	require.NoError(t, err)
	conn := sqlite.New(db)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.Migrate(ctx))

	ks, err := jwt.NewDevEd25519("test")
	require.NoError(t, err)
	tokens := token.NewService(token.Deps{
		Issuer:   jwt.NewIssuer("hellodiary-test", ks),
		Denylist: conn.Denylist(),
		Users:    conn.Users(),
	})

	svc := NewServices(Deps{Users: conn.Users(), Tokens: tokens, Hash: password.Fast})
	return &env{svc: svc, users: conn.Users(), tokens: tokens}
}

func (e *env) register(t *testing.T, username, email, pwd string) *repository.User {
	t.Helper()
	u, err := e.svc.Register.Register(context.Background(), dto.RegisterRequest{
		Username: username, Email: email, Password: pwd, Password2: pwd,
	})
	require.NoError(t, err)
	return u
}

func (e *env) login(t *testing.T, email, pwd string) *token.Pair {
	t.Helper()
	pair, err := e.svc.Login.Login(context.Background(), dto.LoginRequest{Email: email, Password: pwd})
	require.NoError(t, err)
	return pair
}

func asValidation(t *testing.T, err error) validation.Errors {
	t.Helper()
	var verrs validation.Errors
	require.True(t, errors.As(err, &verrs), "expected validation errors, got %v", err)
	return verrs
}

func TestRegisterThenLogin(t *testing.T) {
	e := newEnv(t)
	u := e.register(t, "alice", "A@X.com", "Pass123")
	assert.Equal(t, "a@x.com", u.Email)
	assert.NotEqual(t, "Pass123", u.PasswordHash)

	pair := e.login(t, "a@x.com", "Pass123")
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
}

func TestRegisterDuplicates(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	e.register(t, "alice", "a@x.com", "Pass123")

	_, err := e.svc.Register.Register(ctx, dto.RegisterRequest{
		Username: "alice", Email: "other@x.com", Password: "p", Password2: "p",
	})
	assert.Equal(t, []string{validation.MsgUsernameTaken}, asValidation(t, err)[validation.FieldUsername])

	_, err = e.svc.Register.Register(ctx, dto.RegisterRequest{
		Username: "bob", Email: "A@x.com", Password: "p", Password2: "p",
	})
	assert.Equal(t, []string{validation.MsgEmailTaken}, asValidation(t, err)[validation.FieldEmail])

	_, err = e.users.GetByUsername(ctx, "bob")
	assert.True(t, repository.IsNotFound(err), "store must be unchanged")
}

func TestRegisterDuplicateAgainstInactiveAccount(t *testing.T) {
	e := newEnv(t)
	u := e.register(t, "alice", "a@x.com", "Pass123")
	require.NoError(t, e.users.SoftDelete(context.Background(), u.ID))

	_, err := e.svc.Register.Register(context.Background(), dto.RegisterRequest{
		Username: "alice", Email: "a@x.com", Password: "p", Password2: "p",
	})
	verrs := asValidation(t, err)
	assert.True(t, verrs.Has(validation.FieldUsername))
	assert.True(t, verrs.Has(validation.FieldEmail))
}

type raceUsers struct {
	repository.UserRepository
}

func (raceUsers) ExistsUsername(context.Context, string) (bool, error) { return false, nil }
func (raceUsers) ExistsEmail(context.Context, string) (bool, error)    { return false, nil }

func TestRegisterStoreConflictIsGeneric(t *testing.T) {
	e := newEnv(t)
	e.register(t, "alice", "a@x.com", "Pass123")

	svc := NewRegisterService(Deps{Users: raceUsers{e.users}, Hash: password.Fast})
	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Username: "alice", Email: "a@x.com", Password: "p", Password2: "p",
	})
	assert.ErrorIs(t, err, ErrDuplicateIdentity)
}

func TestLoginFailuresAreIdentical(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", "a@x.com", "Pass123")
	e.register(t, "carol", "c@x.com", "Pass123")
	require.NoError(t, e.users.SoftDelete(ctx, u.ID))

	for _, in := range []dto.LoginRequest{
		{Email: "nobody@x.com", Password: "Pass123"},
		{Email: "c@x.com", Password: "wrong"},
		{Email: "a@x.com", Password: "Pass123"},
	} {
		_, err := e.svc.Login.Login(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidCredentials, "email %s", in.Email)
	}
}

func TestLoginMissingFields(t *testing.T) {
	e := newEnv(t)
	_, err := e.svc.Login.Login(context.Background(), dto.LoginRequest{})
	verrs := asValidation(t, err)
	assert.True(t, verrs.Has(validation.FieldEmail))
	assert.True(t, verrs.Has(validation.FieldPassword))
}

func TestLogout(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", "a@x.com", "Pass123")
	pair := e.login(t, "a@x.com", "Pass123")

	assert.ErrorIs(t, e.svc.Logout.Logout(ctx, u.ID, ""), token.ErrTokenMissing)
	assert.ErrorIs(t, e.svc.Logout.Logout(ctx, u.ID, "garbage"), token.ErrTokenInvalid)
	assert.ErrorIs(t, e.svc.Logout.Logout(ctx, u.ID, pair.Access), token.ErrTokenInvalid)

	require.NoError(t, e.svc.Logout.Logout(ctx, u.ID, pair.Refresh))
	assert.ErrorIs(t, e.svc.Logout.Logout(ctx, u.ID, pair.Refresh), token.ErrTokenRevoked)

	_, err := e.svc.Refresh.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, token.ErrTokenRevoked)
}

func TestLogoutForeignToken(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	a := e.register(t, "alice", "a@x.com", "Pass123")
	e.register(t, "bob", "b@x.com", "Pass123")
	bobPair := e.login(t, "b@x.com", "Pass123")

	assert.ErrorIs(t, e.svc.Logout.Logout(ctx, a.ID, bobPair.Refresh), token.ErrTokenInvalid)

	_, err := e.svc.Refresh.Refresh(ctx, bobPair.Refresh)
	assert.NoError(t, err, "foreign logout must not revoke")
}

func TestDelete(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", "a@x.com", "Pass123")
	pair := e.login(t, "a@x.com", "Pass123")

	require.NoError(t, e.svc.Delete.Delete(ctx, u.ID, pair.Refresh))

	got, err := e.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	_, err = e.tokens.VerifyRefresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, token.ErrTokenRevoked)

	_, err = e.svc.Login.Login(ctx, dto.LoginRequest{Email: "a@x.com", Password: "Pass123"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestDeleteToleratesBadRefresh(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", "a@x.com", "Pass123")

	require.NoError(t, e.svc.Delete.Delete(ctx, u.ID, "garbage"))
	require.NoError(t, e.svc.Delete.Delete(ctx, u.ID, ""), "idempotent")

	assert.ErrorIs(t, e.svc.Delete.Delete(ctx, "00000000-0000-0000-0000-000000000000", ""), ErrUserNotFound)
}

func TestProfileUpdate(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", "a@x.com", "Pass123")
	e.register(t, "bob", "b@x.com", "Pass123")

	first, last := "  Alice ", "Liddell"
	got, err := e.svc.Profile.Update(ctx, u.ID, dto.ProfileUpdateRequest{FirstName: &first, LastName: &last})
	require.NoError(t, err)
	assert.Equal(t, "Alice", got.FirstName)
	assert.Equal(t, "Liddell", got.LastName)
	assert.Equal(t, "a@x.com", got.Email)

	same := "A@X.COM"
	got, err = e.svc.Profile.Update(ctx, u.ID, dto.ProfileUpdateRequest{Email: &same})
	require.NoError(t, err, "own email is not a conflict")
	assert.Equal(t, "a@x.com", got.Email)

	taken := "b@x.com"
	_, err = e.svc.Profile.Update(ctx, u.ID, dto.ProfileUpdateRequest{Email: &taken})
	assert.Equal(t, []string{validation.MsgEmailTaken}, asValidation(t, err)[validation.FieldEmail])

	short := "Al"
	_, err = e.svc.Profile.Update(ctx, u.ID, dto.ProfileUpdateRequest{FirstName: &short})
	assert.True(t, asValidation(t, err).Has(validation.FieldFirstName))
}

func TestRefreshInactiveOwner(t *testing.T) {
	e := newEnv(t)
	ctx := context.Background()
	u := e.register(t, "alice", "a@x.com", "Pass123")
	pair := e.login(t, "a@x.com", "Pass123")

	access, err := e.svc.Refresh.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	require.NoError(t, e.users.SoftDelete(ctx, u.ID))
	_, err = e.svc.Refresh.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, token.ErrInactiveOwner)
}
