package community

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/opencatechism/catechesis-backend/internal/domain"
)

var (
	_ profileRepo     = &profileRepoMock{}
	_ badgeRepo       = &badgeRepoMock{}
	_ achievementRepo = &achievementRepoMock{}
	_ activityRepo    = &activityRepoMock{}
	_ leaderboardRepo = &leaderboardRepoMock{}
	_ txManager       = &txManagerMock{}
)

// profileStoreMock is an in-memory profileRepo that behaves like the real
// one: Ensure is idempotent and IncrementMetric mutates the counters the
// achievement engine reads back.
type profileStoreMock struct {
	mu       sync.Mutex
	profiles map[uuid.UUID]*domain.UserProfile
}

func newProfileStore() *profileStoreMock {
	return &profileStoreMock{profiles: make(map[uuid.UUID]*domain.UserProfile)}
}

func (m *profileStoreMock) get(userID uuid.UUID) *domain.UserProfile {
	p, ok := m.profiles[userID]
	if !ok {
		p = &domain.UserProfile{ID: uuid.New(), UserID: userID, IsPublic: true}
		m.profiles[userID] = p
	}
	return p
}

func (m *profileStoreMock) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.profiles[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *profileStoreMock) Ensure(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.get(userID)
	return &cp, nil
}

func (m *profileStoreMock) UpdateInfo(ctx context.Context, p *domain.UserProfile) (*domain.UserProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored := m.get(p.UserID)
	*stored = *p
	cp := *stored
	return &cp, nil
}

func (m *profileStoreMock) IncrementMetric(ctx context.Context, userID uuid.UUID, metricKey string, delta int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.get(userID)
	switch metricKey {
	case domain.MetricTotalSubmissions:
		p.TotalSubmissions += delta
		return p.TotalSubmissions, nil
	case domain.MetricApprovedSubmissions:
		p.ApprovedSubmissions += delta
		return p.ApprovedSubmissions, nil
	case domain.MetricTotalVotesCast:
		p.TotalVotesCast += delta
		return p.TotalVotesCast, nil
	case domain.MetricTotalHelpfulVotes:
		p.TotalHelpfulVotes += delta
		return p.TotalHelpfulVotes, nil
	case domain.MetricReviewsCompleted:
		p.TotalReviewsCompleted += delta
		return p.TotalReviewsCompleted, nil
	case domain.MetricFlagsResolved:
		p.TotalFlagsResolved += delta
		return p.TotalFlagsResolved, nil
	}
	return 0, domain.ErrNotFound
}

type profileRepoMock struct {
	GetByUserIDFunc     func(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	EnsureFunc          func(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error)
	UpdateInfoFunc      func(ctx context.Context, p *domain.UserProfile) (*domain.UserProfile, error)
	IncrementMetricFunc func(ctx context.Context, userID uuid.UUID, metricKey string, delta int) (int, error)
}

func (m *profileRepoMock) GetByUserID(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	return m.GetByUserIDFunc(ctx, userID)
}

func (m *profileRepoMock) Ensure(ctx context.Context, userID uuid.UUID) (*domain.UserProfile, error) {
	return m.EnsureFunc(ctx, userID)
}

func (m *profileRepoMock) UpdateInfo(ctx context.Context, p *domain.UserProfile) (*domain.UserProfile, error) {
	return m.UpdateInfoFunc(ctx, p)
}

func (m *profileRepoMock) IncrementMetric(ctx context.Context, userID uuid.UUID, metricKey string, delta int) (int, error) {
	return m.IncrementMetricFunc(ctx, userID, metricKey, delta)
}

// badgeStoreMock is an in-memory badgeRepo with idempotent awards.
type badgeStoreMock struct {
	mu      sync.Mutex
	byCode  map[string]*domain.Badge
	awarded map[uuid.UUID]map[uuid.UUID]bool
}

func newBadgeStore(badges ...domain.Badge) *badgeStoreMock {
	m := &badgeStoreMock{
		byCode:  make(map[string]*domain.Badge),
		awarded: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
	for i := range badges {
		m.byCode[badges[i].Code] = &badges[i]
	}
	return m
}

func (m *badgeStoreMock) GetByCode(ctx context.Context, code string) (*domain.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byCode[code]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return b, nil
}

func (m *badgeStoreMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.byCode {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *badgeStoreMock) ListActive(ctx context.Context) ([]domain.Badge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Badge, 0, len(m.byCode))
	for _, b := range m.byCode {
		if b.IsActive {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *badgeStoreMock) Award(ctx context.Context, userID, badgeID uuid.UUID, note *string, now time.Time) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.awarded[userID] == nil {
		m.awarded[userID] = make(map[uuid.UUID]bool)
	}
	if m.awarded[userID][badgeID] {
		return false, nil
	}
	m.awarded[userID][badgeID] = true
	return true, nil
}

func (m *badgeStoreMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserBadge, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UserBadge, 0, len(m.awarded[userID]))
	for badgeID := range m.awarded[userID] {
		out = append(out, domain.UserBadge{UserID: userID, BadgeID: badgeID})
	}
	return out, nil
}

func (m *badgeStoreMock) has(userID uuid.UUID, code string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.byCode[code]
	if !ok {
		return false
	}
	return m.awarded[userID][b.ID]
}

type badgeRepoMock struct {
	GetByCodeFunc  func(ctx context.Context, code string) (*domain.Badge, error)
	GetByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.Badge, error)
	ListActiveFunc func(ctx context.Context) ([]domain.Badge, error)
	AwardFunc      func(ctx context.Context, userID, badgeID uuid.UUID, note *string, now time.Time) (bool, error)
	ListByUserFunc func(ctx context.Context, userID uuid.UUID) ([]domain.UserBadge, error)
}

func (m *badgeRepoMock) GetByCode(ctx context.Context, code string) (*domain.Badge, error) {
	return m.GetByCodeFunc(ctx, code)
}

func (m *badgeRepoMock) GetByID(ctx context.Context, id uuid.UUID) (*domain.Badge, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *badgeRepoMock) ListActive(ctx context.Context) ([]domain.Badge, error) {
	return m.ListActiveFunc(ctx)
}

func (m *badgeRepoMock) Award(ctx context.Context, userID, badgeID uuid.UUID, note *string, now time.Time) (bool, error) {
	return m.AwardFunc(ctx, userID, badgeID, note, now)
}

func (m *badgeRepoMock) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserBadge, error) {
	return m.ListByUserFunc(ctx, userID)
}

// achievementStoreMock is an in-memory achievementRepo enforcing the same
// monotonic upsert the SQL does.
type achievementStoreMock struct {
	mu       sync.Mutex
	catalog  []domain.Achievement
	progress map[uuid.UUID]map[uuid.UUID]*domain.UserAchievement
}

func newAchievementStore(catalog ...domain.Achievement) *achievementStoreMock {
	return &achievementStoreMock{
		catalog:  catalog,
		progress: make(map[uuid.UUID]map[uuid.UUID]*domain.UserAchievement),
	}
}

func (m *achievementStoreMock) ListActive(ctx context.Context) ([]domain.Achievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Achievement, 0, len(m.catalog))
	for _, a := range m.catalog {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *achievementStoreMock) GetProgress(ctx context.Context, userID, achievementID uuid.UUID) (*domain.UserAchievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ua, ok := m.progress[userID][achievementID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *ua
	return &cp, nil
}

func (m *achievementStoreMock) UpsertProgress(ctx context.Context, ua *domain.UserAchievement) (*domain.UserAchievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.progress[ua.UserID] == nil {
		m.progress[ua.UserID] = make(map[uuid.UUID]*domain.UserAchievement)
	}
	existing, ok := m.progress[ua.UserID][ua.AchievementID]
	if !ok {
		cp := *ua
		m.progress[ua.UserID][ua.AchievementID] = &cp
		out := cp
		return &out, nil
	}
	if ua.CurrentValue > existing.CurrentValue {
		existing.CurrentValue = ua.CurrentValue
	}
	existing.Completed = existing.Completed || ua.Completed
	if existing.CompletedAt == nil {
		existing.CompletedAt = ua.CompletedAt
	}
	existing.UpdatedAt = ua.UpdatedAt
	cp := *existing
	return &cp, nil
}

func (m *achievementStoreMock) ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.UserAchievement, 0, len(m.progress[userID]))
	for _, ua := range m.progress[userID] {
		out = append(out, *ua)
	}
	return out, nil
}

type achievementRepoMock struct {
	ListActiveFunc         func(ctx context.Context) ([]domain.Achievement, error)
	GetProgressFunc        func(ctx context.Context, userID, achievementID uuid.UUID) (*domain.UserAchievement, error)
	UpsertProgressFunc     func(ctx context.Context, ua *domain.UserAchievement) (*domain.UserAchievement, error)
	ListProgressByUserFunc func(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error)
}

func (m *achievementRepoMock) ListActive(ctx context.Context) ([]domain.Achievement, error) {
	return m.ListActiveFunc(ctx)
}

func (m *achievementRepoMock) GetProgress(ctx context.Context, userID, achievementID uuid.UUID) (*domain.UserAchievement, error) {
	return m.GetProgressFunc(ctx, userID, achievementID)
}

func (m *achievementRepoMock) UpsertProgress(ctx context.Context, ua *domain.UserAchievement) (*domain.UserAchievement, error) {
	return m.UpsertProgressFunc(ctx, ua)
}

func (m *achievementRepoMock) ListProgressByUser(ctx context.Context, userID uuid.UUID) ([]domain.UserAchievement, error) {
	return m.ListProgressByUserFunc(ctx, userID)
}

type activityRepoMock struct {
	CreateFunc                func(ctx context.Context, a *domain.ContributionActivity) error
	ListByUserFunc            func(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ContributionActivity, error)
	SumPointsPerUserSinceFunc func(ctx context.Context, since time.Time) ([]domain.UserPoints, error)
	TotalPointsFunc           func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (m *activityRepoMock) Create(ctx context.Context, a *domain.ContributionActivity) error {
	if m.CreateFunc == nil {
		return nil
	}
	return m.CreateFunc(ctx, a)
}

func (m *activityRepoMock) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]domain.ContributionActivity, error) {
	return m.ListByUserFunc(ctx, userID, limit)
}

func (m *activityRepoMock) SumPointsPerUserSince(ctx context.Context, since time.Time) ([]domain.UserPoints, error) {
	return m.SumPointsPerUserSinceFunc(ctx, since)
}

func (m *activityRepoMock) TotalPoints(ctx context.Context, userID uuid.UUID) (int, error) {
	return m.TotalPointsFunc(ctx, userID)
}

type leaderboardRepoMock struct {
	UpsertEntriesFunc func(ctx context.Context, entries []domain.LeaderboardEntry) error
	PruneFunc         func(ctx context.Context, t domain.LeaderboardType, periodKey string, keep int) error
	ListFunc          func(ctx context.Context, t domain.LeaderboardType, periodKey string, limit int) ([]domain.LeaderboardEntry, error)
	UserRankFunc      func(ctx context.Context, t domain.LeaderboardType, periodKey string, userID uuid.UUID) (int, error)
}

func (m *leaderboardRepoMock) UpsertEntries(ctx context.Context, entries []domain.LeaderboardEntry) error {
	return m.UpsertEntriesFunc(ctx, entries)
}

func (m *leaderboardRepoMock) Prune(ctx context.Context, t domain.LeaderboardType, periodKey string, keep int) error {
	if m.PruneFunc == nil {
		return nil
	}
	return m.PruneFunc(ctx, t, periodKey, keep)
}

func (m *leaderboardRepoMock) List(ctx context.Context, t domain.LeaderboardType, periodKey string, limit int) ([]domain.LeaderboardEntry, error) {
	return m.ListFunc(ctx, t, periodKey, limit)
}

func (m *leaderboardRepoMock) UserRank(ctx context.Context, t domain.LeaderboardType, periodKey string, userID uuid.UUID) (int, error) {
	return m.UserRankFunc(ctx, t, periodKey, userID)
}

type txManagerMock struct{}

func (txManagerMock) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
