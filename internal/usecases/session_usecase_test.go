package usecases_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"
	"ideagraph.backend/internal/domain/entities"
	domainerrors "ideagraph.backend/internal/domain/errors"
	"ideagraph.backend/internal/usecases"
	"ideagraph.backend/pkg/crypto"
	"ideagraph.backend/pkg/jwt"
)

type directUnitOfWork struct{}

func (directUnitOfWork) Do(ctx context.Context, fn func(context.Context) error) error {
	return fn(ctx)
}

// memSessions keeps sessions in memory; Revoke is a compare-and-set under one lock.
type memSessions struct {
	mu     sync.Mutex
	byHash map[string]*entities.Session
}

func newMemSessions() *memSessions {
	return &memSessions{byHash: map[string]*entities.Session{}}
}

func (m *memSessions) Create(_ context.Context, s *entities.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.CreatedAt = time.Now().UTC()
	cp := *s
	m.byHash[s.TokenHash] = &cp
	return nil
}

func (m *memSessions) GetByTokenHash(_ context.Context, hash string) (*entities.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byHash[hash]
	if !ok {
		return nil, domainerrors.ErrNotFound
	}
	cp := *s
	return &cp, nil
}

func (m *memSessions) Revoke(_ context.Context, hash string, reason entities.RevokeReason, now time.Time) (*entities.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byHash[hash]
	if !ok || !s.Active(now) {
		return nil, domainerrors.ErrNotFound
	}
	s.RevokedAt = null.TimeFrom(now)
	s.RevokedReason = reason
	cp := *s
	return &cp, nil
}

func (m *memSessions) MarkExpired(_ context.Context, hash string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byHash[hash]
	if !ok || s.RevokedAt.Valid || now.Before(s.ExpiresAt) {
		return domainerrors.ErrNotFound
	}
	s.RevokedAt = null.TimeFrom(now)
	s.RevokedReason = entities.RevokeExpired
	return nil
}

func (m *memSessions) SetReplacedBy(_ context.Context, id uuid.UUID, next uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.byHash {
		if s.ID == id {
			s.ReplacedBy = null.StringFrom(next.String())
			return nil
		}
	}
	return domainerrors.ErrNotFound
}

func (m *memSessions) RevokeAllForAccount(_ context.Context, accountID uuid.UUID, reason entities.RevokeReason, now time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for _, s := range m.byHash {
		if s.AccountID == accountID && !s.RevokedAt.Valid {
			s.RevokedAt = null.TimeFrom(now)
			s.RevokedReason = reason
			n++
		}
	}
	return n, nil
}

func (m *memSessions) ExpireStale(context.Context, time.Time, int) (int64, error) {
	return 0, nil
}

type sessionFixture struct {
	usecase  *usecases.SessionUsecase
	sessions *memSessions
	accounts *MockAccountRepository
	profiles *MockProfileRepository
	devices  *MockDeviceRepository
	account  *entities.Account
	profile  *entities.Profile
}

func newSessionFixture(t *testing.T) *sessionFixture {
	t.Helper()
	f := &sessionFixture{
		sessions: newMemSessions(),
		accounts: new(MockAccountRepository),
		profiles: new(MockProfileRepository),
		devices:  new(MockDeviceRepository),
		account:  &entities.Account{ID: uuid.New(), Email: "a@example.com", EmailVerified: true},
	}
	f.profile = &entities.Profile{ID: uuid.New(), AccountID: f.account.ID, Name: "Alice"}

	f.accounts.On("GetByID", mock.Anything, f.account.ID).Return(f.account, nil)
	f.profiles.On("GetByAccountID", mock.Anything, f.account.ID).Return(f.profile, nil)
	f.devices.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.devices.On("Touch", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)
	f.devices.On("GetByID", mock.Anything, mock.Anything).Return(&entities.Device{Platform: entities.PlatformIOS}, nil)

	f.usecase = usecases.NewSessionUsecase(
		directUnitOfWork{}, f.accounts, f.profiles, f.devices, f.sessions,
		jwt.NewJWTService("test-secret", "ideagraph", 15*time.Minute),
		"ideagraph", time.Hour, nil,
	)
	return f
}

func TestSessionUsecase_IssueAndRotate(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	first, err := f.usecase.Issue(ctx, f.account, f.profile, entities.DeviceInput{Platform: entities.PlatformIOS, Model: "iPhone"})
	require.NoError(t, err)
	assert.NotEmpty(t, first.AccessToken)
	assert.Len(t, first.RefreshToken, 43)
	assert.Equal(t, entities.PlatformIOS, first.Platform)

	stored, err := f.sessions.GetByTokenHash(ctx, crypto.HashToken(first.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, "ideagraph", stored.Issuer)

	second, err := f.usecase.Refresh(ctx, first.RefreshToken, "10.0.0.9")
	require.NoError(t, err)
	assert.NotEqual(t, first.RefreshToken, second.RefreshToken)

	old, err := f.sessions.GetByTokenHash(ctx, crypto.HashToken(first.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, entities.RevokeReplaced, old.RevokedReason)
	assert.True(t, old.ReplacedBy.Valid)

	_, err = f.usecase.Refresh(ctx, first.RefreshToken, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	third, err := f.usecase.Refresh(ctx, second.RefreshToken, "")
	require.NoError(t, err)
	assert.NotEmpty(t, third.RefreshToken)
}

func TestSessionUsecase_ConcurrentRefreshHasOneWinner(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	issued, err := f.usecase.Issue(ctx, f.account, f.profile, entities.DeviceInput{})
	require.NoError(t, err)

	var (
		wins   atomic.Int32
		wg     sync.WaitGroup
		mu     sync.Mutex
		winner string
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			resp, err := f.usecase.Refresh(ctx, issued.RefreshToken, "")
			if err == nil {
				wins.Add(1)
				mu.Lock()
				winner = resp.RefreshToken
				mu.Unlock()
				return
			}
			assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
		}()
	}
	wg.Wait()

	require.Equal(t, int32(1), wins.Load())
	_, err = f.usecase.Refresh(ctx, winner, "")
	require.NoError(t, err)
}

func TestSessionUsecase_ExpiredTokenIsMarked(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	require.NoError(t, f.sessions.Create(ctx, &entities.Session{
		ID:        uuid.New(),
		AccountID: f.account.ID,
		TokenHash: crypto.HashToken("stale"),
		ExpiresAt: time.Now().UTC().Add(-time.Minute),
	}))

	_, err := f.usecase.Refresh(ctx, "stale", "")
	require.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	s, err := f.sessions.GetByTokenHash(ctx, crypto.HashToken("stale"))
	require.NoError(t, err)
	assert.Equal(t, entities.RevokeExpired, s.RevokedReason)
}

func TestSessionUsecase_RefreshRejects(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	_, err := f.usecase.Refresh(ctx, "", "")
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	_, err = f.usecase.Refresh(ctx, "never-issued", "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)

	issued, err := f.usecase.Issue(ctx, f.account, f.profile, entities.DeviceInput{})
	require.NoError(t, err)
	f.account.DeactivatedAt = null.TimeFrom(time.Now())
	_, err = f.usecase.Refresh(ctx, issued.RefreshToken, "")
	assert.ErrorIs(t, err, domainerrors.ErrInvalidToken)
}

func TestSessionUsecase_LogoutAndRevokeAll(t *testing.T) {
	f := newSessionFixture(t)
	ctx := context.Background()

	a, err := f.usecase.Issue(ctx, f.account, f.profile, entities.DeviceInput{})
	require.NoError(t, err)
	b, err := f.usecase.Issue(ctx, f.account, f.profile, entities.DeviceInput{})
	require.NoError(t, err)

	require.NoError(t, f.usecase.Logout(ctx, a.RefreshToken))
	require.NoError(t, f.usecase.Logout(ctx, a.RefreshToken))
	require.NoError(t, f.usecase.Logout(ctx, ""))

	s, err := f.sessions.GetByTokenHash(ctx, crypto.HashToken(a.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, entities.RevokeLogout, s.RevokedReason)

	require.NoError(t, f.usecase.RevokeAll(ctx, f.account.ID, entities.RevokeDeactivated))
	s, err = f.sessions.GetByTokenHash(ctx, crypto.HashToken(b.RefreshToken))
	require.NoError(t, err)
	assert.Equal(t, entities.RevokeDeactivated, s.RevokedReason)
}
