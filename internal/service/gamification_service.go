package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"time"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/internal/pkg/events"
)

// XPConfig - начисления опыта по видам активности
type XPConfig struct {
	// QuizBase - XP за попытку с полным результатом; фактическое начисление
	// масштабируется долей правильных ответов
	QuizBase int
	// AssignmentSubmit - XP за сдачу задания
	AssignmentSubmit int
	// DiscussionPost - XP за пост в обсуждении
	DiscussionPost int
}

// DefaultXPConfig возвращает начисления по умолчанию
func DefaultXPConfig() XPConfig {
	return XPConfig{QuizBase: 100, AssignmentSubmit: 50, DiscussionPost: 10}
}

// GamificationService - реактивный движок XP, стриков и бейджей.
// Подписывается на события попыток, сдач и активности; каждое событие
// начисляет опыт, обновляет стрик и перепроверяет критерии бейджей.
type GamificationService struct {
	statsRepo      repository.UserStatsRepository
	badgeRepo      repository.BadgeRepository
	testRepo       repository.TestRepository
	assignmentRepo repository.AssignmentRepository
	userRepo       repository.UserRepository
	emailService   EmailService
	xp             XPConfig
}

// NewGamificationService создает новый сервис геймификации
func NewGamificationService(
	statsRepo repository.UserStatsRepository,
	badgeRepo repository.BadgeRepository,
	testRepo repository.TestRepository,
	assignmentRepo repository.AssignmentRepository,
	userRepo repository.UserRepository,
	emailService EmailService,
	xp XPConfig,
) *GamificationService {
	return &GamificationService{
		statsRepo:      statsRepo,
		badgeRepo:      badgeRepo,
		testRepo:       testRepo,
		assignmentRepo: assignmentRepo,
		userRepo:       userRepo,
		emailService:   emailService,
		xp:             xp,
	}
}

// GetStats возвращает игровую статистику пользователя
func (s *GamificationService) GetStats(userID uint) (*entity.UserStats, error) {
	return s.statsRepo.GetOrCreate(userID)
}

// Leaderboard возвращает таблицу лидеров по XP
func (s *GamificationService) Leaderboard(limit int) ([]entity.UserStats, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	return s.statsRepo.Leaderboard(limit)
}

// ListUserBadges возвращает бейджи пользователя
func (s *GamificationService) ListUserBadges(userID uint) ([]entity.Badge, error) {
	return s.badgeRepo.ListByUser(userID)
}

// HandleAttemptSubmitted - подписчик отправки попытки: XP пропорционально
// доле правильных ответов, обновление стрика, перепроверка бейджей
func (s *GamificationService) HandleAttemptSubmitted(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.AttemptSubmitted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	xp := 0
	if evt.Total > 0 {
		xp = int(math.Round(float64(s.xp.QuizBase) * float64(evt.Result) / float64(evt.Total)))
	}
	return s.recordActivity(ctx, evt.UserID, xp, time.Now())
}

// HandleActivityRecorded - подписчик прочей XP-активности
// (сдача задания, пост в обсуждении)
func (s *GamificationService) HandleActivityRecorded(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.ActivityRecorded)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	var xp int
	switch evt.Kind {
	case events.ActivityAssignmentSubmitted:
		xp = s.xp.AssignmentSubmit
	case events.ActivityDiscussionPost:
		xp = s.xp.DiscussionPost
	default:
		return fmt.Errorf("unknown activity kind %q", evt.Kind)
	}

	at := evt.OccurredAt
	if at.IsZero() {
		at = time.Now()
	}
	return s.recordActivity(ctx, evt.UserID, xp, at)
}

// HandleSubmissionGraded - подписчик оценки сдачи: опыт за оценку
// не начисляется, но счётчик assignments_graded мог открыть новый бейдж
func (s *GamificationService) HandleSubmissionGraded(ctx context.Context, e events.Event) error {
	evt, ok := e.(events.SubmissionGraded)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}

	stats, err := s.statsRepo.GetOrCreate(evt.UserID)
	if err != nil {
		return err
	}
	s.evaluateBadges(ctx, evt.UserID, stats)
	return nil
}

// recordActivity начисляет XP, обновляет стрик и перепроверяет бейджи
func (s *GamificationService) recordActivity(ctx context.Context, userID uint, xp int, at time.Time) error {
	if xp > 0 {
		if err := s.statsRepo.AddXP(userID, xp); err != nil {
			return err
		}
	}

	stats, err := s.statsRepo.GetOrCreate(userID)
	if err != nil {
		return err
	}

	prevStreak := stats.CurrentStreak
	prevDay := stats.LastActivityDate
	stats.ApplyDailyActivity(at)
	// Повторная активность в тот же день не меняет строку - запись не нужна
	if stats.CurrentStreak != prevStreak || prevDay == nil || !prevDay.Equal(*stats.LastActivityDate) {
		if err := s.statsRepo.Save(stats); err != nil {
			return err
		}
	}

	log.Printf("[Gamification] Пользователь %d: +%d XP (итого %d), стрик %d",
		userID, xp, stats.XPTotal, stats.CurrentStreak)

	s.evaluateBadges(ctx, userID, stats)
	return nil
}

// evaluateBadges перепроверяет все активные бейджи против текущих метрик
// и выдаёт новые. Выдача идемпотентна: уже полученный бейдж повторно
// не выдаётся (уникальный индекс мапится на ErrConflict и игнорируется).
// Ошибки отдельных бейджей логируются и не прерывают перебор.
func (s *GamificationService) evaluateBadges(ctx context.Context, userID uint, stats *entity.UserStats) {
	badges, err := s.badgeRepo.ListActive()
	if err != nil {
		log.Printf("[Gamification] Не удалось загрузить бейджи: %v", err)
		return
	}

	for i := range badges {
		badge := &badges[i]
		value, err := s.metricFor(userID, stats, badge.Criteria)
		if err != nil {
			log.Printf("[Gamification] Метрика %s для пользователя %d: %v", badge.Criteria, userID, err)
			continue
		}
		if value < int64(badge.Threshold) {
			continue
		}

		held, err := s.badgeRepo.HasBadge(userID, badge.ID)
		if err != nil || held {
			continue
		}

		err = s.badgeRepo.Award(&entity.UserBadge{
			UserID:    userID,
			BadgeID:   badge.ID,
			AwardedAt: time.Now(),
		})
		if err != nil {
			if !errors.Is(err, apperrors.ErrConflict) {
				log.Printf("[Gamification] Не удалось выдать бейдж %s пользователю %d: %v",
					badge.Code, userID, err)
			}
			continue
		}

		log.Printf("[Gamification] Пользователь %d получил бейдж %s", userID, badge.Code)
		s.notifyBadgeAwarded(ctx, userID, badge)
	}
}

// metricFor возвращает значение агрегатной метрики критерия
func (s *GamificationService) metricFor(userID uint, stats *entity.UserStats, criteria string) (int64, error) {
	switch criteria {
	case entity.BadgeCriteriaXPTotal:
		return int64(stats.XPTotal), nil
	case entity.BadgeCriteriaStreakDays:
		return int64(stats.LongestStreak), nil
	case entity.BadgeCriteriaQuizzesCompleted:
		return s.testRepo.CountDistinctQuizzes(userID)
	case entity.BadgeCriteriaPerfectScores:
		return s.testRepo.CountPerfect(userID)
	case entity.BadgeCriteriaAssignmentsGraded:
		return s.assignmentRepo.CountGradedByUser(userID)
	default:
		return 0, fmt.Errorf("unknown badge criteria %q", criteria)
	}
}

// notifyBadgeAwarded отправляет best-effort уведомление о новом бейдже
func (s *GamificationService) notifyBadgeAwarded(ctx context.Context, userID uint, badge *entity.Badge) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		log.Printf("[Gamification] Пользователь %d для уведомления не найден: %v", userID, err)
		return
	}
	if err := s.emailService.SendBadgeAwarded(ctx, user.Email, user.Username, badge); err != nil {
		log.Printf("[Gamification] Не удалось отправить уведомление о бейдже %s: %v", badge.Code, err)
	}
}
