package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/lms-api/internal/domain/entity"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/internal/pkg/events"
)

// ============================================================================
// Моки для GamificationService
// ============================================================================

// MockStatsRepoForGamification реализует repository.UserStatsRepository
type MockStatsRepoForGamification struct {
	mock.Mock
}

func (m *MockStatsRepoForGamification) GetOrCreate(userID uint) (*entity.UserStats, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.UserStats), args.Error(1)
}

func (m *MockStatsRepoForGamification) Save(stats *entity.UserStats) error {
	args := m.Called(stats)
	return args.Error(0)
}

func (m *MockStatsRepoForGamification) AddXP(userID uint, delta int) error {
	args := m.Called(userID, delta)
	return args.Error(0)
}

func (m *MockStatsRepoForGamification) Leaderboard(limit int) ([]entity.UserStats, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.UserStats), args.Error(1)
}

// MockBadgeRepoForGamification реализует repository.BadgeRepository
type MockBadgeRepoForGamification struct {
	mock.Mock
}

func (m *MockBadgeRepoForGamification) Create(badge *entity.Badge) error {
	args := m.Called(badge)
	return args.Error(0)
}

func (m *MockBadgeRepoForGamification) ListActive() ([]entity.Badge, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Badge), args.Error(1)
}

func (m *MockBadgeRepoForGamification) ListByUser(userID uint) ([]entity.Badge, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Badge), args.Error(1)
}

func (m *MockBadgeRepoForGamification) HasBadge(userID, badgeID uint) (bool, error) {
	args := m.Called(userID, badgeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBadgeRepoForGamification) Award(userBadge *entity.UserBadge) error {
	args := m.Called(userBadge)
	return args.Error(0)
}

// MockUserRepoForGamification реализует repository.UserRepository
type MockUserRepoForGamification struct {
	mock.Mock
}

func (m *MockUserRepoForGamification) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepoForGamification) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepoForGamification) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// MockEmailServiceForGamification реализует EmailService
type MockEmailServiceForGamification struct {
	mock.Mock
}

func (m *MockEmailServiceForGamification) SendBadgeAwarded(ctx context.Context, toEmail, username string, badge *entity.Badge) error {
	args := m.Called(ctx, toEmail, username, badge)
	return args.Error(0)
}

// ============================================================================
// Фикстуры
// ============================================================================

type gamificationFixture struct {
	statsRepo      *MockStatsRepoForGamification
	badgeRepo      *MockBadgeRepoForGamification
	testRepo       *MockTestRepoForSessionService
	assignmentRepo *MockAssignmentRepoForGradeService
	userRepo       *MockUserRepoForGamification
	emailService   *MockEmailServiceForGamification
	service        *GamificationService
}

func newGamificationFixture() *gamificationFixture {
	f := &gamificationFixture{
		statsRepo:      new(MockStatsRepoForGamification),
		badgeRepo:      new(MockBadgeRepoForGamification),
		testRepo:       new(MockTestRepoForSessionService),
		assignmentRepo: new(MockAssignmentRepoForGradeService),
		userRepo:       new(MockUserRepoForGamification),
		emailService:   new(MockEmailServiceForGamification),
	}
	f.service = NewGamificationService(
		f.statsRepo, f.badgeRepo, f.testRepo, f.assignmentRepo, f.userRepo,
		f.emailService, DefaultXPConfig(),
	)
	return f
}

func (f *gamificationFixture) noBadges() {
	f.badgeRepo.On("ListActive").Return([]entity.Badge{}, nil)
}

// ============================================================================
// Начисление XP
// ============================================================================

func TestHandleAttemptSubmitted_XPScalesWithResult(t *testing.T) {
	f := newGamificationFixture()
	f.noBadges()
	// 3 из 5 правильных при базе 100 - начисляется 60 XP
	f.statsRepo.On("AddXP", uint(10), 60).Return(nil)
	f.statsRepo.On("GetOrCreate", uint(10)).Return(&entity.UserStats{UserID: 10, XPTotal: 60}, nil)
	f.statsRepo.On("Save", mock.Anything).Return(nil)

	err := f.service.HandleAttemptSubmitted(context.Background(), events.AttemptSubmitted{
		UserID: 10, QuizID: 1, Result: 3, Total: 5,
	})

	require.NoError(t, err)
	f.statsRepo.AssertCalled(t, "AddXP", uint(10), 60)
}

func TestHandleAttemptSubmitted_ZeroResultStillCountsActivity(t *testing.T) {
	f := newGamificationFixture()
	f.noBadges()
	f.statsRepo.On("GetOrCreate", uint(10)).Return(&entity.UserStats{UserID: 10}, nil)
	f.statsRepo.On("Save", mock.Anything).Return(nil)

	err := f.service.HandleAttemptSubmitted(context.Background(), events.AttemptSubmitted{
		UserID: 10, QuizID: 1, Result: 0, Total: 5,
	})

	require.NoError(t, err)
	// Нулевой результат не трогает XP, но стрик обновляется
	f.statsRepo.AssertNotCalled(t, "AddXP", mock.Anything, mock.Anything)
	f.statsRepo.AssertCalled(t, "Save", mock.Anything)
}

func TestHandleActivityRecorded_XPByKind(t *testing.T) {
	tests := []struct {
		name   string
		kind   string
		wantXP int
	}{
		{"сдача задания", events.ActivityAssignmentSubmitted, 50},
		{"пост в обсуждении", events.ActivityDiscussionPost, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newGamificationFixture()
			f.noBadges()
			f.statsRepo.On("AddXP", uint(10), tt.wantXP).Return(nil)
			f.statsRepo.On("GetOrCreate", uint(10)).Return(&entity.UserStats{UserID: 10}, nil)
			f.statsRepo.On("Save", mock.Anything).Return(nil)

			err := f.service.HandleActivityRecorded(context.Background(), events.ActivityRecorded{
				UserID: 10, Kind: tt.kind, OccurredAt: time.Now(),
			})

			require.NoError(t, err)
			f.statsRepo.AssertCalled(t, "AddXP", uint(10), tt.wantXP)
		})
	}
}

func TestHandleActivityRecorded_UnknownKind(t *testing.T) {
	f := newGamificationFixture()

	err := f.service.HandleActivityRecorded(context.Background(), events.ActivityRecorded{
		UserID: 10, Kind: "video_watched",
	})

	assert.Error(t, err)
	f.statsRepo.AssertNotCalled(t, "AddXP", mock.Anything, mock.Anything)
}

// ============================================================================
// Стрик
// ============================================================================

func TestRecordActivity_StreakContinuesFromYesterday(t *testing.T) {
	f := newGamificationFixture()
	f.noBadges()

	yesterday := time.Now().UTC().Truncate(24 * time.Hour).Add(-24 * time.Hour)
	stats := &entity.UserStats{UserID: 10, CurrentStreak: 3, LongestStreak: 5, LastActivityDate: &yesterday}

	f.statsRepo.On("AddXP", uint(10), 10).Return(nil)
	f.statsRepo.On("GetOrCreate", uint(10)).Return(stats, nil)

	var saved *entity.UserStats
	f.statsRepo.On("Save", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*entity.UserStats) }).
		Return(nil)

	err := f.service.HandleActivityRecorded(context.Background(), events.ActivityRecorded{
		UserID: 10, Kind: events.ActivityDiscussionPost, OccurredAt: time.Now(),
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, 4, saved.CurrentStreak)
	assert.Equal(t, 5, saved.LongestStreak)
}

func TestRecordActivity_SameDaySkipsSave(t *testing.T) {
	f := newGamificationFixture()
	f.noBadges()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	stats := &entity.UserStats{UserID: 10, CurrentStreak: 3, LongestStreak: 5, LastActivityDate: &today}

	f.statsRepo.On("AddXP", uint(10), 10).Return(nil)
	f.statsRepo.On("GetOrCreate", uint(10)).Return(stats, nil)

	err := f.service.HandleActivityRecorded(context.Background(), events.ActivityRecorded{
		UserID: 10, Kind: events.ActivityDiscussionPost, OccurredAt: time.Now(),
	})

	require.NoError(t, err)
	// Активность уже записана сегодня: XP начисляется, но строка
	// статистики не перезаписывается
	f.statsRepo.AssertCalled(t, "AddXP", uint(10), 10)
	f.statsRepo.AssertNotCalled(t, "Save", mock.Anything)
	assert.Equal(t, 3, stats.CurrentStreak)
}

func TestRecordActivity_StreakResetsAfterGap(t *testing.T) {
	f := newGamificationFixture()
	f.noBadges()

	threeDaysAgo := time.Now().UTC().Truncate(24 * time.Hour).Add(-72 * time.Hour)
	stats := &entity.UserStats{UserID: 10, CurrentStreak: 9, LongestStreak: 9, LastActivityDate: &threeDaysAgo}

	f.statsRepo.On("AddXP", uint(10), 10).Return(nil)
	f.statsRepo.On("GetOrCreate", uint(10)).Return(stats, nil)

	var saved *entity.UserStats
	f.statsRepo.On("Save", mock.Anything).
		Run(func(args mock.Arguments) { saved = args.Get(0).(*entity.UserStats) }).
		Return(nil)

	err := f.service.HandleActivityRecorded(context.Background(), events.ActivityRecorded{
		UserID: 10, Kind: events.ActivityDiscussionPost, OccurredAt: time.Now(),
	})

	require.NoError(t, err)
	require.NotNil(t, saved)
	// Разрыв сбрасывает стрик, рекорд остаётся
	assert.Equal(t, 1, saved.CurrentStreak)
	assert.Equal(t, 9, saved.LongestStreak)
}

// ============================================================================
// Бейджи
// ============================================================================

func xpBadge(id uint, threshold int) entity.Badge {
	return entity.Badge{
		ID:        id,
		Code:      "xp_1000",
		Name:      "Тысячник",
		Criteria:  entity.BadgeCriteriaXPTotal,
		Threshold: threshold,
		IsActive:  true,
	}
}

func TestEvaluateBadges_AwardsWhenThresholdMet(t *testing.T) {
	f := newGamificationFixture()
	f.badgeRepo.On("ListActive").Return([]entity.Badge{xpBadge(1, 1000)}, nil)
	f.statsRepo.On("AddXP", uint(10), 10).Return(nil)
	f.statsRepo.On("GetOrCreate", uint(10)).Return(&entity.UserStats{UserID: 10, XPTotal: 1200}, nil)
	f.statsRepo.On("Save", mock.Anything).Return(nil)
	f.badgeRepo.On("HasBadge", uint(10), uint(1)).Return(false, nil)
	f.badgeRepo.On("Award", mock.Anything).Return(nil)
	f.userRepo.On("GetByID", uint(10)).Return(&entity.User{ID: 10, Username: "ivan", Email: "ivan@example.com"}, nil)
	f.emailService.On("SendBadgeAwarded", mock.Anything, "ivan@example.com", "ivan", mock.Anything).Return(nil)

	err := f.service.HandleActivityRecorded(context.Background(), events.ActivityRecorded{
		UserID: 10, Kind: events.ActivityDiscussionPost, OccurredAt: time.Now(),
	})

	require.NoError(t, err)
	f.badgeRepo.AssertCalled(t, "Award", mock.Anything)
	f.emailService.AssertCalled(t, "SendBadgeAwarded", mock.Anything, "ivan@example.com", "ivan", mock.Anything)
}

func TestEvaluateBadges_BelowThresholdNotAwarded(t *testing.T) {
	f := newGamificationFixture()
	f.badgeRepo.On("ListActive").Return([]entity.Badge{xpBadge(1, 1000)}, nil)
	f.statsRepo.On("AddXP", uint(10), 10).Return(nil)
	f.statsRepo.On("GetOrCreate", uint(10)).Return(&entity.UserStats{UserID: 10, XPTotal: 500}, nil)
	f.statsRepo.On("Save", mock.Anything).Return(nil)

	err := f.service.HandleActivityRecorded(context.Background(), events.ActivityRecorded{
		UserID: 10, Kind: events.ActivityDiscussionPost, OccurredAt: time.Now(),
	})

	require.NoError(t, err)
	f.badgeRepo.AssertNotCalled(t, "Award", mock.Anything)
}

func TestEvaluateBadges_AlreadyHeldSkipped(t *testing.T) {
	f := newGamificationFixture()
	f.badgeRepo.On("ListActive").Return([]entity.Badge{xpBadge(1, 1000)}, nil)
	f.statsRepo.On("AddXP", uint(10), 10).Return(nil)
	f.statsRepo.On("GetOrCreate", uint(10)).Return(&entity.UserStats{UserID: 10, XPTotal: 1200}, nil)
	f.statsRepo.On("Save", mock.Anything).Return(nil)
	f.badgeRepo.On("HasBadge", uint(10), uint(1)).Return(true, nil)

	err := f.service.HandleActivityRecorded(context.Background(), events.ActivityRecorded{
		UserID: 10, Kind: events.ActivityDiscussionPost, OccurredAt: time.Now(),
	})

	require.NoError(t, err)
	f.badgeRepo.AssertNotCalled(t, "Award", mock.Anything)
	f.emailService.AssertNotCalled(t, "SendBadgeAwarded", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluateBadges_ConflictOnAwardIsSilent(t *testing.T) {
	f := newGamificationFixture()
	f.badgeRepo.On("ListActive").Return([]entity.Badge{xpBadge(1, 1000)}, nil)
	f.statsRepo.On("AddXP", uint(10), 10).Return(nil)
	f.statsRepo.On("GetOrCreate", uint(10)).Return(&entity.UserStats{UserID: 10, XPTotal: 1200}, nil)
	f.statsRepo.On("Save", mock.Anything).Return(nil)
	f.badgeRepo.On("HasBadge", uint(10), uint(1)).Return(false, nil)
	// Гонка параллельной выдачи: уникальный индекс мапится на ErrConflict
	f.badgeRepo.On("Award", mock.Anything).Return(apperrors.ErrConflict)

	err := f.service.HandleActivityRecorded(context.Background(), events.ActivityRecorded{
		UserID: 10, Kind: events.ActivityDiscussionPost, OccurredAt: time.Now(),
	})

	require.NoError(t, err)
	// Конфликт означает, что бейдж уже выдан - уведомление не уходит
	f.emailService.AssertNotCalled(t, "SendBadgeAwarded", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluateBadges_QuizCriteriaUseTestCounters(t *testing.T) {
	f := newGamificationFixture()
	badges := []entity.Badge{
		{ID: 1, Code: "quiz_master", Criteria: entity.BadgeCriteriaQuizzesCompleted, Threshold: 10, IsActive: true},
		{ID: 2, Code: "perfectionist", Criteria: entity.BadgeCriteriaPerfectScores, Threshold: 5, IsActive: true},
	}
	f.badgeRepo.On("ListActive").Return(badges, nil)
	f.statsRepo.On("AddXP", uint(10), 100).Return(nil)
	f.statsRepo.On("GetOrCreate", uint(10)).Return(&entity.UserStats{UserID: 10, XPTotal: 100}, nil)
	f.statsRepo.On("Save", mock.Anything).Return(nil)
	f.testRepo.On("CountDistinctQuizzes", uint(10)).Return(int64(10), nil)
	f.testRepo.On("CountPerfect", uint(10)).Return(int64(3), nil)
	f.badgeRepo.On("HasBadge", uint(10), uint(1)).Return(false, nil)
	f.badgeRepo.On("Award", mock.MatchedBy(func(ub *entity.UserBadge) bool {
		return ub.BadgeID == 1
	})).Return(nil)
	f.userRepo.On("GetByID", uint(10)).Return(&entity.User{ID: 10, Username: "ivan", Email: "ivan@example.com"}, nil)
	f.emailService.On("SendBadgeAwarded", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := f.service.HandleAttemptSubmitted(context.Background(), events.AttemptSubmitted{
		UserID: 10, QuizID: 1, Result: 5, Total: 5,
	})

	require.NoError(t, err)
	// quizzes_completed достигнут, perfect_scores нет
	f.badgeRepo.AssertNumberOfCalls(t, "Award", 1)
}

// ============================================================================
// HandleSubmissionGraded
// ============================================================================

func TestHandleSubmissionGraded_OnlyReevaluatesBadges(t *testing.T) {
	f := newGamificationFixture()
	f.statsRepo.On("GetOrCreate", uint(10)).Return(&entity.UserStats{UserID: 10, XPTotal: 100}, nil)
	f.badgeRepo.On("ListActive").Return([]entity.Badge{
		{ID: 1, Code: "diligent", Criteria: entity.BadgeCriteriaAssignmentsGraded, Threshold: 5, IsActive: true},
	}, nil)
	f.assignmentRepo.On("CountGradedByUser", uint(10)).Return(int64(5), nil)
	f.badgeRepo.On("HasBadge", uint(10), uint(1)).Return(false, nil)
	f.badgeRepo.On("Award", mock.Anything).Return(nil)
	f.userRepo.On("GetByID", uint(10)).Return(&entity.User{ID: 10, Username: "ivan", Email: "ivan@example.com"}, nil)
	f.emailService.On("SendBadgeAwarded", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	err := f.service.HandleSubmissionGraded(context.Background(), events.SubmissionGraded{
		SubmissionID: 100, AssignmentID: 10, UserID: 10, CourseID: 5, Score: 90, MaxPoints: 100,
	})

	require.NoError(t, err)
	// За выставление оценки опыт не начисляется
	f.statsRepo.AssertNotCalled(t, "AddXP", mock.Anything, mock.Anything)
	f.badgeRepo.AssertCalled(t, "Award", mock.Anything)
}

// ============================================================================
// Leaderboard
// ============================================================================

func TestLeaderboard_LimitClamped(t *testing.T) {
	f := newGamificationFixture()
	f.statsRepo.On("Leaderboard", 10).Return([]entity.UserStats{}, nil)

	_, err := f.service.Leaderboard(0)
	require.NoError(t, err)
	_, err = f.service.Leaderboard(500)
	require.NoError(t, err)

	f.statsRepo.AssertNumberOfCalls(t, "Leaderboard", 2)
}
