package repository

import (
	"github.com/yourusername/lms-api/internal/domain/entity"
)

// AssignmentRepository определяет методы для работы с заданиями и сдачами
type AssignmentRepository interface {
	Create(assignment *entity.Assignment) error
	GetByID(id uint) (*entity.Assignment, error)
	ListByCourse(courseID uint) ([]entity.Assignment, error)
	CountByCourse(courseID uint) (int64, error)

	CreateSubmission(submission *entity.AssignmentSubmission) error
	GetSubmission(id uint) (*entity.AssignmentSubmission, error)
	UpdateSubmission(submission *entity.AssignmentSubmission) error
	// ListGradedByUserAndCourse возвращает оценённые/одобренные сдачи
	// пользователя по заданиям курса (источник assignmentAverage)
	ListGradedByUserAndCourse(userID, courseID uint) ([]entity.AssignmentSubmission, error)
	CountGradedByUser(userID uint) (int64, error)
}
