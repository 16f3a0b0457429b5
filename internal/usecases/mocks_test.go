package usecases_test

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"ideagraph.backend/internal/domain/entities"
	"ideagraph.backend/internal/loaders"
)

// Mock UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
}

func (m *MockUnitOfWork) Do(ctx context.Context, f func(context.Context) error) error {
	m.Called(ctx, f)
	return f(ctx)
}

// Mock AccountRepository
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) Create(ctx context.Context, account *entities.Account, profile *entities.Profile) error {
	args := m.Called(ctx, account, profile)
	return args.Error(0)
}

func (m *MockAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) GetByEmail(ctx context.Context, email string) (*entities.Account, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Account), args.Error(1)
}

func (m *MockAccountRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	args := m.Called(ctx, id, passwordHash)
	return args.Error(0)
}

func (m *MockAccountRepository) MarkVerified(ctx context.Context, id uuid.UUID, channel entities.VerificationChannel) error {
	args := m.Called(ctx, id, channel)
	return args.Error(0)
}

func (m *MockAccountRepository) Deactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockAccountRepository) Reactivate(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// Mock ProfileRepository
type MockProfileRepository struct {
	mock.Mock
}

func (m *MockProfileRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByAccountID(ctx context.Context, accountID uuid.UUID) (*entities.Profile, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*entities.Profile, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*entities.Profile), args.Error(1)
}

func (m *MockProfileRepository) Update(ctx context.Context, profile *entities.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// Mock VerificationRepository
type MockVerificationRepository struct {
	mock.Mock
}

func (m *MockVerificationRepository) Create(ctx context.Context, code *entities.VerificationCode) error {
	args := m.Called(ctx, code)
	return args.Error(0)
}

func (m *MockVerificationRepository) Consume(ctx context.Context, accountID uuid.UUID, channel entities.VerificationChannel, code string, now time.Time) error {
	args := m.Called(ctx, accountID, channel, code, now)
	return args.Error(0)
}

// Mock ProfileProjection
type MockProfileProjection struct {
	mock.Mock
}

func (m *MockProfileProjection) Upsert(ctx context.Context, profile *entities.Profile) error {
	args := m.Called(ctx, profile)
	return args.Error(0)
}

// Mock DeviceRepository
type MockDeviceRepository struct {
	mock.Mock
}

func (m *MockDeviceRepository) Create(ctx context.Context, device *entities.Device) error {
	args := m.Called(ctx, device)
	return args.Error(0)
}

func (m *MockDeviceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entities.Device, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Device), args.Error(1)
}

func (m *MockDeviceRepository) Touch(ctx context.Context, id uuid.UUID, address string, at time.Time) error {
	args := m.Called(ctx, id, address, at)
	return args.Error(0)
}

// Mock SessionRepository
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Create(ctx context.Context, session *entities.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*entities.Session, error) {
	args := m.Called(ctx, tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}

func (m *MockSessionRepository) Revoke(ctx context.Context, tokenHash string, reason entities.RevokeReason, now time.Time) (*entities.Session, error) {
	args := m.Called(ctx, tokenHash, reason, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Session), args.Error(1)
}

func (m *MockSessionRepository) MarkExpired(ctx context.Context, tokenHash string, now time.Time) error {
	args := m.Called(ctx, tokenHash, now)
	return args.Error(0)
}

func (m *MockSessionRepository) SetReplacedBy(ctx context.Context, id uuid.UUID, replacedBy uuid.UUID) error {
	args := m.Called(ctx, id, replacedBy)
	return args.Error(0)
}

func (m *MockSessionRepository) RevokeAllForAccount(ctx context.Context, accountID uuid.UUID, reason entities.RevokeReason, now time.Time) (int64, error) {
	args := m.Called(ctx, accountID, reason, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) ExpireStale(ctx context.Context, now time.Time, limit int) (int64, error) {
	args := m.Called(ctx, now, limit)
	return args.Get(0).(int64), args.Error(1)
}

// Mock ContentRepository
type MockContentRepository struct {
	mock.Mock
}

func (m *MockContentRepository) CreatePost(ctx context.Context, post *entities.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockContentRepository) CreateIdea(ctx context.Context, idea *entities.Idea) error {
	args := m.Called(ctx, idea)
	return args.Error(0)
}

func (m *MockContentRepository) UpdatePost(ctx context.Context, actor uuid.UUID, post *entities.Post) error {
	args := m.Called(ctx, actor, post)
	return args.Error(0)
}

func (m *MockContentRepository) UpdateIdea(ctx context.Context, actor uuid.UUID, idea *entities.Idea) error {
	args := m.Called(ctx, actor, idea)
	return args.Error(0)
}

func (m *MockContentRepository) SoftDelete(ctx context.Context, actor uuid.UUID, kind entities.ContentKind, id string) error {
	args := m.Called(ctx, actor, kind, id)
	return args.Error(0)
}

func (m *MockContentRepository) FindByID(ctx context.Context, id string) (entities.ActionableContent, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(entities.ActionableContent), args.Error(1)
}

func (m *MockContentRepository) FindByAuthor(ctx context.Context, author uuid.UUID, kind entities.ContentKind, limit, offset int) ([]entities.ActionableContent, error) {
	args := m.Called(ctx, author, kind, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entities.ActionableContent), args.Error(1)
}

func (m *MockContentRepository) FindReplies(ctx context.Context, parentID string, limit, offset int) ([]*entities.Idea, error) {
	args := m.Called(ctx, parentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Idea), args.Error(1)
}

func (m *MockContentRepository) LoadReplyCounts(ctx context.Context, ids []string) (map[string]int, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

// Mock ReactionRepository
type MockReactionRepository struct {
	mock.Mock
}

func (m *MockReactionRepository) Create(ctx context.Context, reaction *entities.Reaction) error {
	args := m.Called(ctx, reaction)
	return args.Error(0)
}

func (m *MockReactionRepository) Delete(ctx context.Context, actor uuid.UUID, contentID string) error {
	args := m.Called(ctx, actor, contentID)
	return args.Error(0)
}

func (m *MockReactionRepository) ListByContent(ctx context.Context, contentID string, limit, offset int) ([]*entities.Reaction, error) {
	args := m.Called(ctx, contentID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Reaction), args.Error(1)
}

func (m *MockReactionRepository) LoadCounts(ctx context.Context, ids []string) (map[string]int, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]int), args.Error(1)
}

func (m *MockReactionRepository) LoadStatuses(ctx context.Context, actor uuid.UUID, ids []string) (map[string]*entities.Reaction, error) {
	args := m.Called(ctx, actor, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entities.Reaction), args.Error(1)
}

// Mock FollowRepository
type MockFollowRepository struct {
	mock.Mock
}

func (m *MockFollowRepository) Follow(ctx context.Context, follow *entities.Follow) error {
	args := m.Called(ctx, follow)
	return args.Error(0)
}

func (m *MockFollowRepository) Unfollow(ctx context.Context, follower, followee uuid.UUID) error {
	args := m.Called(ctx, follower, followee)
	return args.Error(0)
}

func (m *MockFollowRepository) ListFollowers(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*entities.Follow, error) {
	args := m.Called(ctx, profileID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Follow), args.Error(1)
}

func (m *MockFollowRepository) ListFollowing(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]*entities.Follow, error) {
	args := m.Called(ctx, profileID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Follow), args.Error(1)
}

func (m *MockFollowRepository) LoadFollowingStatuses(ctx context.Context, actor uuid.UUID, ids []uuid.UUID) (map[uuid.UUID]*entities.Follow, error) {
	args := m.Called(ctx, actor, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]*entities.Follow), args.Error(1)
}

func (m *MockFollowRepository) LoadFollowerCounts(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]int, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[uuid.UUID]int), args.Error(1)
}

// Mock ReportRepository
type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Create(ctx context.Context, report *entities.Report) error {
	args := m.Called(ctx, report)
	return args.Error(0)
}

// Mock WatchlistRepository
type MockWatchlistRepository struct {
	mock.Mock
}

func (m *MockWatchlistRepository) Create(ctx context.Context, watchlist *entities.Watchlist) error {
	args := m.Called(ctx, watchlist)
	return args.Error(0)
}

func (m *MockWatchlistRepository) GetByID(ctx context.Context, owner uuid.UUID, id string) (*entities.Watchlist, error) {
	args := m.Called(ctx, owner, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Watchlist), args.Error(1)
}

func (m *MockWatchlistRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*entities.Watchlist, error) {
	args := m.Called(ctx, owner)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Watchlist), args.Error(1)
}

func (m *MockWatchlistRepository) Update(ctx context.Context, watchlist *entities.Watchlist) error {
	args := m.Called(ctx, watchlist)
	return args.Error(0)
}

func (m *MockWatchlistRepository) Delete(ctx context.Context, owner uuid.UUID, id string) error {
	args := m.Called(ctx, owner, id)
	return args.Error(0)
}

// Mock ActivityPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event entities.ActivityEvent) {
	m.Called(ctx, event)
}

// Mock SecretStore
type MockSecretStore struct {
	mock.Mock
}

func (m *MockSecretStore) Put(ctx context.Context, id string, data any, ttl time.Duration) error {
	args := m.Called(ctx, id, data, ttl)
	return args.Error(0)
}

func (m *MockSecretStore) Take(ctx context.Context, id string, out any) error {
	args := m.Called(ctx, id, out)
	return args.Error(0)
}

// Mock MarketData
type MockMarketData struct {
	mock.Mock
}

func (m *MockMarketData) Sectors(ctx context.Context, bearer string) ([]*entities.Sector, error) {
	args := m.Called(ctx, bearer)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Sector), args.Error(1)
}

func (m *MockMarketData) Industries(ctx context.Context, bearer, sectorID string) ([]*entities.Industry, error) {
	args := m.Called(ctx, bearer, sectorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Industry), args.Error(1)
}

func (m *MockMarketData) Company(ctx context.Context, bearer, symbol string) (*entities.Company, error) {
	args := m.Called(ctx, bearer, symbol)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Company), args.Error(1)
}

// Mock BlogData
type MockBlogData struct {
	mock.Mock
}

func (m *MockBlogData) Articles(ctx context.Context, bearer string, limit, offset int) ([]*entities.Article, error) {
	args := m.Called(ctx, bearer, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Article), args.Error(1)
}

func (m *MockBlogData) Article(ctx context.Context, bearer, slug string) (*entities.Article, error) {
	args := m.Called(ctx, bearer, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Article), args.Error(1)
}

// newLoaderFactory routes every loader source to the given mocks
func newLoaderFactory(content *MockContentRepository, reactions *MockReactionRepository, follows *MockFollowRepository, profiles *MockProfileRepository) *loaders.Factory {
	return loaders.NewFactory(loaders.Sources{
		ReplyCounts:       content.LoadReplyCounts,
		ReactionCounts:    reactions.LoadCounts,
		ReactionStatuses:  reactions.LoadStatuses,
		FollowerCounts:    follows.LoadFollowerCounts,
		FollowingStatuses: follows.LoadFollowingStatuses,
		Profiles:          profiles.GetByIDs,
	}, loaders.Config{}, nil)
}
