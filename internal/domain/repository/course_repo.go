package repository

import (
	"github.com/yourusername/lms-api/internal/domain/entity"
)

// CourseRepository определяет методы для работы с курсами и записями на них
type CourseRepository interface {
	Create(course *entity.Course) error
	GetByID(id uint) (*entity.Course, error)
	List(limit, offset int) ([]entity.Course, int64, error)
	// IsEnrolled проверяет, записан ли пользователь на курс
	IsEnrolled(userID, courseID uint) (bool, error)
	// Enroll записывает пользователя на курс (повторная запись - no-op)
	Enroll(userID, courseID uint) error
	// ListEnrolledUserIDs возвращает ID записанных на курс пользователей
	ListEnrolledUserIDs(courseID uint) ([]uint, error)
}
