package postgres

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yourusername/lms-api/internal/domain/entity"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
)

// BadgeRepo реализует repository.BadgeRepository
type BadgeRepo struct {
	db *gorm.DB
}

// NewBadgeRepo создает новый репозиторий бейджей
func NewBadgeRepo(db *gorm.DB) *BadgeRepo {
	return &BadgeRepo{db: db}
}

// Create создает определение бейджа
func (r *BadgeRepo) Create(badge *entity.Badge) error {
	return r.db.Create(badge).Error
}

// ListActive возвращает активные определения бейджей
func (r *BadgeRepo) ListActive() ([]entity.Badge, error) {
	var badges []entity.Badge
	err := r.db.Where("is_active = ?", true).Order("id").Find(&badges).Error
	return badges, err
}

// ListByUser возвращает бейджи, выданные пользователю
func (r *BadgeRepo) ListByUser(userID uint) ([]entity.Badge, error) {
	var badges []entity.Badge
	err := r.db.
		Joins("JOIN user_badges ON user_badges.badge_id = badges.id").
		Where("user_badges.user_id = ?", userID).
		Order("user_badges.awarded_at").
		Find(&badges).Error
	return badges, err
}

// HasBadge проверяет, выдан ли бейдж пользователю
func (r *BadgeRepo) HasBadge(userID, badgeID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.UserBadge{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Award выдаёт бейдж; повторная выдача мапится на ErrConflict
func (r *BadgeRepo) Award(userBadge *entity.UserBadge) error {
	err := r.db.Create(userBadge).Error
	if err != nil {
		if IsUniqueViolation(err) {
			return fmt.Errorf("%w: badge #%d already awarded to user #%d",
				apperrors.ErrConflict, userBadge.BadgeID, userBadge.UserID)
		}
		return err
	}
	return nil
}
