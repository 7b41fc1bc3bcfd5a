package service

import (
	"context"
	"fmt"
	"time"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/internal/pkg/events"
)

// CourseService предоставляет методы для работы с курсами и записями
type CourseService struct {
	courseRepo repository.CourseRepository
	dispatcher *events.Dispatcher
}

// NewCourseService создает новый сервис курсов
func NewCourseService(courseRepo repository.CourseRepository, dispatcher *events.Dispatcher) *CourseService {
	return &CourseService{
		courseRepo: courseRepo,
		dispatcher: dispatcher,
	}
}

// CreateCourse создает новый курс
func (s *CourseService) CreateCourse(course *entity.Course) error {
	if course.Title == "" {
		return fmt.Errorf("course title is required: %w", apperrors.ErrValidation)
	}
	return s.courseRepo.Create(course)
}

// GetCourse возвращает курс по ID
func (s *CourseService) GetCourse(id uint) (*entity.Course, error) {
	return s.courseRepo.GetByID(id)
}

// ListCourses возвращает курсы с пагинацией
func (s *CourseService) ListCourses(limit, offset int) ([]entity.Course, int64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.courseRepo.List(limit, offset)
}

// Enroll записывает пользователя на курс (повторная запись - no-op)
func (s *CourseService) Enroll(userID, courseID uint) error {
	if _, err := s.courseRepo.GetByID(courseID); err != nil {
		return err
	}
	return s.courseRepo.Enroll(userID, courseID)
}

// IsEnrolled проверяет запись пользователя на курс
func (s *CourseService) IsEnrolled(userID, courseID uint) (bool, error) {
	return s.courseRepo.IsEnrolled(userID, courseID)
}

// RecordDiscussionPost фиксирует пост пользователя в обсуждении курса.
// Сами обсуждения живут вне этого сервиса; здесь важен только факт
// активности, питающий XP и стрики.
func (s *CourseService) RecordDiscussionPost(ctx context.Context, userID, courseID uint) error {
	enrolled, err := s.courseRepo.IsEnrolled(userID, courseID)
	if err != nil {
		return err
	}
	if !enrolled {
		return apperrors.ErrNotEnrolled
	}

	s.dispatcher.Publish(ctx, events.ActivityRecorded{
		UserID:     userID,
		Kind:       events.ActivityDiscussionPost,
		OccurredAt: time.Now(),
	})
	return nil
}
