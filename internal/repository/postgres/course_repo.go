package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/lms-api/internal/domain/entity"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
)

// CourseRepo реализует repository.CourseRepository
type CourseRepo struct {
	db *gorm.DB
}

// NewCourseRepo создает новый репозиторий курсов
func NewCourseRepo(db *gorm.DB) *CourseRepo {
	return &CourseRepo{db: db}
}

// Create создает новый курс
func (r *CourseRepo) Create(course *entity.Course) error {
	return r.db.Create(course).Error
}

// GetByID возвращает курс по ID
func (r *CourseRepo) GetByID(id uint) (*entity.Course, error) {
	var course entity.Course
	err := r.db.First(&course, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &course, nil
}

// List возвращает список курсов с пагинацией
func (r *CourseRepo) List(limit, offset int) ([]entity.Course, int64, error) {
	var courses []entity.Course
	var total int64

	if err := r.db.Model(&entity.Course{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.Limit(limit).Offset(offset).Order("id DESC").Find(&courses).Error
	if err != nil {
		return nil, 0, err
	}
	return courses, total, nil
}

// IsEnrolled проверяет, записан ли пользователь на курс
func (r *CourseRepo) IsEnrolled(userID, courseID uint) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Enrollment{}).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Enroll записывает пользователя на курс; повторная запись - no-op
func (r *CourseRepo) Enroll(userID, courseID uint) error {
	err := r.db.Create(&entity.Enrollment{UserID: userID, CourseID: courseID}).Error
	if err != nil && IsUniqueViolation(err) {
		return nil
	}
	return err
}

// ListEnrolledUserIDs возвращает ID записанных на курс пользователей
func (r *CourseRepo) ListEnrolledUserIDs(courseID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&entity.Enrollment{}).
		Where("course_id = ?", courseID).
		Order("user_id").
		Pluck("user_id", &ids).Error
	return ids, err
}
