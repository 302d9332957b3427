package token

import (
	"context"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/hellodiary/internal/cache"
	"github.com/dropDatabas3/hellodiary/internal/domain/repository"
	"github.com/dropDatabas3/hellodiary/internal/jwt"
	"github.com/dropDatabas3/hellodiary/internal/store/adapters/sqlite"
)

type fixture struct {
	svc   *Service
	conn  *sqlite.Conn
	iss   *jwt.Issuer
	cache cache.Client
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "tokens.db"))
	require.NoError(t, err)
	conn := sqlite.New(db)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.Migrate(ctx))

	ks, err := jwt.NewDevEd25519("test")
	require.NoError(t, err)
	iss := jwt.NewIssuer("hellodiary-test", ks)
	c := cache.NewMemory("test")

	svc := NewService(Deps{Issuer: iss, Denylist: conn.Denylist(), Users: conn.Users(), Cache: c})
	return &fixture{svc: svc, conn: conn, iss: iss, cache: c}
}

func (f *fixture) user(t *testing.T, name string) *repository.User {
	t.Helper()
	u, err := f.conn.Users().Create(context.Background(), repository.CreateUserInput{
		Username: name, Email: name + "@x.com", PasswordHash: "$argon2id$dummy",
	})
	require.NoError(t, err)
	return u
}

func TestIssueAndVerify(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "alice")

	pair, err := f.svc.Issue(ctx, u.ID)
	require.NoError(t, err)
	assert.NotEqual(t, pair.Access, pair.Refresh)
	assert.True(t, pair.RefreshExpiresAt.After(pair.AccessExpiresAt))

	c, err := f.svc.VerifyAccess(ctx, pair.Access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, c.Subject)

	_, err = f.svc.VerifyAccess(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = f.svc.VerifyRefresh(ctx, pair.Access)
	assert.ErrorIs(t, err, ErrTokenInvalid)

	_, err = f.svc.VerifyAccess(ctx, "  ")
	assert.ErrorIs(t, err, ErrTokenMissing)
}

func TestVerifyExpired(t *testing.T) {
	f := newFixture(t)
	f.iss.WithClock(func() time.Time { return time.Now().Add(-48 * time.Hour) })
	pair, err := f.svc.Issue(context.Background(), "u")
	require.NoError(t, err)
	f.iss.WithClock(time.Now)

	_, err = f.svc.VerifyAccess(context.Background(), pair.Access)
	assert.ErrorIs(t, err, ErrTokenExpired)
	_, err = f.svc.Revoke(context.Background(), pair.Refresh, repository.RevokeReasonLogout)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRevokeTwiceFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "bob")
	pair, err := f.svc.Issue(ctx, u.ID)
	require.NoError(t, err)

	c, err := f.svc.Revoke(ctx, pair.Refresh, repository.RevokeReasonLogout)
	require.NoError(t, err)
	assert.Equal(t, u.ID, c.Subject)

	_, err = f.svc.Revoke(ctx, pair.Refresh, repository.RevokeReasonLogout)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	_, _, err = f.svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestRevokedSurvivesCacheLoss(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "carol")
	pair, err := f.svc.Issue(ctx, u.ID)
	require.NoError(t, err)

	c, err := f.svc.Revoke(ctx, pair.Refresh, repository.RevokeReasonLogout)
	require.NoError(t, err)
	require.NoError(t, f.cache.Delete(ctx, revokedKeyPrefix+c.ID))

	_, err = f.svc.VerifyRefresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	ok, err := f.cache.Exists(ctx, revokedKeyPrefix+c.ID)
	require.NoError(t, err)
	assert.True(t, ok, "store hit should repopulate the cache")
}

func TestRefresh(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "dave")
	pair, err := f.svc.Issue(ctx, u.ID)
	require.NoError(t, err)

	access, exp, err := f.svc.Refresh(ctx, pair.Refresh)
	require.NoError(t, err)
	assert.True(t, exp.After(time.Now()))
	c, err := f.svc.VerifyAccess(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, u.ID, c.Subject)

	require.NoError(t, f.conn.Users().SoftDelete(ctx, u.ID))
	_, _, err = f.svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrInactiveOwner)
}

func TestRefreshUnknownOwner(t *testing.T) {
	f := newFixture(t)
	pair, err := f.svc.Issue(context.Background(), "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)

	_, _, err = f.svc.Refresh(context.Background(), pair.Refresh)
	assert.ErrorIs(t, err, ErrInactiveOwner)
}

func TestPrune(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "erin")
	pair, err := f.svc.Issue(ctx, u.ID)
	require.NoError(t, err)
	_, err = f.svc.Revoke(ctx, pair.Refresh, repository.RevokeReasonLogout)
	require.NoError(t, err)

	n, err := f.svc.Prune(ctx, time.Now())
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = f.svc.Prune(ctx, time.Now().Add(48*time.Hour))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

type countingDenylist struct {
	repository.DenylistRepository
	calls atomic.Int32
	gate  chan struct{}
}

func (d *countingDenylist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	d.calls.Add(1)
	<-d.gate
	return false, nil
}

func TestConcurrentLookupsCollapse(t *testing.T) {
	ks, err := jwt.NewDevEd25519("k")
	require.NoError(t, err)
	iss := jwt.NewIssuer("x", ks)
	dl := &countingDenylist{gate: make(chan struct{})}
	svc := NewService(Deps{Issuer: iss, Denylist: dl})

	raw, _, err := iss.Issue("u", jwt.TypeRefresh)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.VerifyRefresh(context.Background(), raw)
			assert.NoError(t, err)
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(dl.gate)
	wg.Wait()

	assert.Less(t, dl.calls.Load(), int32(8))
}

func TestRevokedHoldsThroughLeeway(t *testing.T) {
	ctx := context.Background()
	db, err := sqlite.Open(ctx, filepath.Join(t.TempDir(), "leeway.db"))
	require.NoError(t, err)
	conn := sqlite.New(db)
	t.Cleanup(func() { _ = conn.Close() })
	require.NoError(t, conn.Migrate(ctx))

	ks, err := jwt.NewDevEd25519("test")
	require.NoError(t, err)
	iss := jwt.NewIssuer("hellodiary-test", ks)
	iss.Leeway = 5 * time.Second

	t0 := time.Now().Truncate(time.Second)
	at := t0
	iss.WithClock(func() time.Time { return at })

	// sin cache: proceso recién arrancado, solo cuenta el store
	svc := NewService(Deps{Issuer: iss, Denylist: conn.Denylist(), Users: conn.Users()})
	u, err := conn.Users().Create(ctx, repository.CreateUserInput{
		Username: "frank", Email: "frank@x.com", PasswordHash: "$argon2id$dummy",
	})
	require.NoError(t, err)

	pair, err := svc.Issue(ctx, u.ID)
	require.NoError(t, err)
	_, err = svc.Revoke(ctx, pair.Refresh, repository.RevokeReasonLogout)
	require.NoError(t, err)

	exp := pair.RefreshExpiresAt
	n, err := svc.Prune(ctx, exp.Add(time.Second))
	require.NoError(t, err)
	assert.Zero(t, n, "entry must survive while the token is inside the leeway")

	at = exp.Add(2 * time.Second)
	_, err = svc.VerifyRefresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenRevoked)
	_, _, err = svc.Refresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenRevoked)

	n, err = svc.Prune(ctx, exp.Add(iss.Leeway+time.Second))
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	at = exp.Add(iss.Leeway + 2*time.Second)
	_, err = svc.VerifyRefresh(ctx, pair.Refresh)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestRevokedCacheCoversLeeway(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.iss.Leeway = 5 * time.Second
	u := f.user(t, "gina")

	// exp quedó 2s atrás: Parse todavía lo acepta por el leeway
	f.iss.WithClock(func() time.Time { return time.Now().Add(-f.iss.RefreshTTL - 2*time.Second) })
	pair, err := f.svc.Issue(ctx, u.ID)
	require.NoError(t, err)
	f.iss.WithClock(time.Now)

	claims, err := f.svc.Revoke(ctx, pair.Refresh, repository.RevokeReasonLogout)
	require.NoError(t, err)

	ok, err := f.cache.Exists(ctx, revokedKeyPrefix+claims.ID)
	require.NoError(t, err)
	assert.True(t, ok)
}
