package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/yourusername/lms-api/internal/domain/entity"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
)

// AssignmentRepo реализует repository.AssignmentRepository
type AssignmentRepo struct {
	db *gorm.DB
}

// NewAssignmentRepo создает новый репозиторий заданий
func NewAssignmentRepo(db *gorm.DB) *AssignmentRepo {
	return &AssignmentRepo{db: db}
}

// Create создает новое задание
func (r *AssignmentRepo) Create(assignment *entity.Assignment) error {
	return r.db.Create(assignment).Error
}

// GetByID возвращает задание по ID
func (r *AssignmentRepo) GetByID(id uint) (*entity.Assignment, error) {
	var assignment entity.Assignment
	err := r.db.First(&assignment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &assignment, nil
}

// ListByCourse возвращает задания курса
func (r *AssignmentRepo) ListByCourse(courseID uint) ([]entity.Assignment, error) {
	var assignments []entity.Assignment
	err := r.db.Where("course_id = ?", courseID).Order("id").Find(&assignments).Error
	return assignments, err
}

// CountByCourse возвращает число заданий курса
func (r *AssignmentRepo) CountByCourse(courseID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Assignment{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

// CreateSubmission создает сдачу задания
func (r *AssignmentRepo) CreateSubmission(submission *entity.AssignmentSubmission) error {
	return r.db.Create(submission).Error
}

// GetSubmission возвращает сдачу по ID
func (r *AssignmentRepo) GetSubmission(id uint) (*entity.AssignmentSubmission, error) {
	var submission entity.AssignmentSubmission
	err := r.db.First(&submission, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &submission, nil
}

// UpdateSubmission обновляет сдачу
func (r *AssignmentRepo) UpdateSubmission(submission *entity.AssignmentSubmission) error {
	return r.db.Save(submission).Error
}

// ListGradedByUserAndCourse возвращает оценённые/одобренные сдачи
// пользователя по заданиям курса
func (r *AssignmentRepo) ListGradedByUserAndCourse(userID, courseID uint) ([]entity.AssignmentSubmission, error) {
	var submissions []entity.AssignmentSubmission
	err := r.db.
		Joins("JOIN assignments ON assignments.id = assignment_submissions.assignment_id").
		Where("assignment_submissions.user_id = ? AND assignments.course_id = ?", userID, courseID).
		Where("assignment_submissions.status IN ?", []string{
			entity.SubmissionStatusGraded,
			entity.SubmissionStatusApproved,
		}).
		Find(&submissions).Error
	return submissions, err
}

// CountGradedByUser возвращает число оценённых сдач пользователя
func (r *AssignmentRepo) CountGradedByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&entity.AssignmentSubmission{}).
		Where("user_id = ? AND status IN ?", userID, []string{
			entity.SubmissionStatusGraded,
			entity.SubmissionStatusApproved,
		}).
		Count(&count).Error
	return count, err
}
