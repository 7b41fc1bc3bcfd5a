package repository

import (
	"github.com/yourusername/lms-api/internal/domain/entity"
)

// BadgeRepository определяет методы для работы с бейджами
type BadgeRepository interface {
	Create(badge *entity.Badge) error
	ListActive() ([]entity.Badge, error)
	ListByUser(userID uint) ([]entity.Badge, error)
	// HasBadge проверяет, выдан ли бейдж пользователю
	HasBadge(userID, badgeID uint) (bool, error)
	// Award выдаёт бейдж. Уникальный индекс (user_id, badge_id) гарантирует
	// идемпотентность: повторная выдача мапится на ErrConflict, которую
	// вызывающий код трактует как no-op.
	Award(userBadge *entity.UserBadge) error
}

// UserStatsRepository определяет методы для работы с XP и streak
type UserStatsRepository interface {
	// GetOrCreate возвращает статистику пользователя, создавая нулевую
	// строку при первом обращении
	GetOrCreate(userID uint) (*entity.UserStats, error)
	Save(stats *entity.UserStats) error
	// AddXP атомарно увеличивает накопленный опыт
	AddXP(userID uint, delta int) error
	// Leaderboard возвращает статистику, отсортированную по XP
	Leaderboard(limit int) ([]entity.UserStats, error)
}
