package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/lms-api/internal/domain/entity"
)

// UserStatsRepo реализует repository.UserStatsRepository
type UserStatsRepo struct {
	db *gorm.DB
}

// NewUserStatsRepo создает новый репозиторий статистики пользователей
func NewUserStatsRepo(db *gorm.DB) *UserStatsRepo {
	return &UserStatsRepo{db: db}
}

// GetOrCreate возвращает статистику пользователя, создавая нулевую строку
// при первом обращении
func (r *UserStatsRepo) GetOrCreate(userID uint) (*entity.UserStats, error) {
	var stats entity.UserStats
	err := r.db.Where("user_id = ?", userID).First(&stats).Error
	if err == nil {
		return &stats, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	stats = entity.UserStats{UserID: userID}
	if err := r.db.Create(&stats).Error; err != nil {
		// Параллельное создание: перечитываем строку победителя
		if IsUniqueViolation(err) {
			if err := r.db.Where("user_id = ?", userID).First(&stats).Error; err != nil {
				return nil, err
			}
			return &stats, nil
		}
		return nil, err
	}
	return &stats, nil
}

// Save сохраняет статистику пользователя
func (r *UserStatsRepo) Save(stats *entity.UserStats) error {
	return r.db.Save(stats).Error
}

// AddXP атомарно увеличивает накопленный опыт
func (r *UserStatsRepo) AddXP(userID uint, delta int) error {
	return r.db.Model(&entity.UserStats{}).
		Where("user_id = ?", userID).
		Update("xp_total", gorm.Expr("xp_total + ?", delta)).
		Error
}

// Leaderboard возвращает статистику, отсортированную по XP
func (r *UserStatsRepo) Leaderboard(limit int) ([]entity.UserStats, error) {
	var stats []entity.UserStats
	err := r.db.Order("xp_total DESC").Limit(limit).Find(&stats).Error
	return stats, err
}
