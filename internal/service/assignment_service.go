package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/internal/pkg/events"
)

// AssignmentService предоставляет методы для работы с заданиями и сдачами.
// Оценка сдачи (ручная или AI) - событие уровня модели: переход в статус
// graded/approved публикует SubmissionGraded, на который реагируют
// агрегация оценок и геймификация.
type AssignmentService struct {
	assignmentRepo repository.AssignmentRepository
	courseRepo     repository.CourseRepository
	aiGrader       AIGrader
	dispatcher     *events.Dispatcher
}

// NewAssignmentService создает новый сервис заданий
func NewAssignmentService(
	assignmentRepo repository.AssignmentRepository,
	courseRepo repository.CourseRepository,
	aiGrader AIGrader,
	dispatcher *events.Dispatcher,
) *AssignmentService {
	return &AssignmentService{
		assignmentRepo: assignmentRepo,
		courseRepo:     courseRepo,
		aiGrader:       aiGrader,
		dispatcher:     dispatcher,
	}
}

// CreateAssignment создает задание курса
func (s *AssignmentService) CreateAssignment(assignment *entity.Assignment) error {
	if assignment.Title == "" {
		return fmt.Errorf("assignment title is required: %w", apperrors.ErrValidation)
	}
	if assignment.MaxPoints <= 0 {
		assignment.MaxPoints = 100
	}
	if _, err := s.courseRepo.GetByID(assignment.CourseID); err != nil {
		return err
	}
	return s.assignmentRepo.Create(assignment)
}

// GetAssignment возвращает задание по ID
func (s *AssignmentService) GetAssignment(id uint) (*entity.Assignment, error) {
	return s.assignmentRepo.GetByID(id)
}

// ListByCourse возвращает задания курса
func (s *AssignmentService) ListByCourse(courseID uint) ([]entity.Assignment, error) {
	return s.assignmentRepo.ListByCourse(courseID)
}

// SubmitAssignment создает сдачу задания от имени пользователя.
// Пользователь должен быть записан на курс задания.
func (s *AssignmentService) SubmitAssignment(ctx context.Context, assignmentID, userID uint, content string) (*entity.AssignmentSubmission, error) {
	if content == "" {
		return nil, fmt.Errorf("submission content is required: %w", apperrors.ErrValidation)
	}

	assignment, err := s.assignmentRepo.GetByID(assignmentID)
	if err != nil {
		return nil, err
	}

	enrolled, err := s.courseRepo.IsEnrolled(userID, assignment.CourseID)
	if err != nil {
		return nil, err
	}
	if !enrolled {
		return nil, apperrors.ErrNotEnrolled
	}

	submission := &entity.AssignmentSubmission{
		AssignmentID: assignmentID,
		UserID:       userID,
		Content:      content,
		Status:       entity.SubmissionStatusSubmitted,
	}
	if err := s.assignmentRepo.CreateSubmission(submission); err != nil {
		return nil, err
	}

	s.dispatcher.Publish(ctx, events.ActivityRecorded{
		UserID:     userID,
		Kind:       events.ActivityAssignmentSubmitted,
		OccurredAt: time.Now(),
	})
	return submission, nil
}

// GradeManually выставляет ручную оценку сдаче. Ручная оценка имеет
// приоритет над AI и переводит сдачу в статус graded.
func (s *AssignmentService) GradeManually(ctx context.Context, submissionID uint, score float64, feedback string) (*entity.AssignmentSubmission, error) {
	submission, err := s.assignmentRepo.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignmentRepo.GetByID(submission.AssignmentID)
	if err != nil {
		return nil, err
	}
	if score < 0 || score > float64(assignment.MaxPoints) {
		return nil, fmt.Errorf("score must be within [0, %d]: %w", assignment.MaxPoints, apperrors.ErrValidation)
	}

	now := time.Now()
	submission.Score = &score
	if feedback != "" {
		submission.Feedback = feedback
	}
	submission.Status = entity.SubmissionStatusGraded
	submission.GradedAt = &now
	if err := s.assignmentRepo.UpdateSubmission(submission); err != nil {
		return nil, err
	}

	s.publishGraded(ctx, submission, assignment, score)
	return submission, nil
}

// GradeWithAI запрашивает оценку у внешнего AI-коллаборатора и сохраняет
// возвращённое как есть. Ошибка коллаборатора возвращается вызывающей
// стороне без ретраев; сдача остаётся в статусе submitted.
func (s *AssignmentService) GradeWithAI(ctx context.Context, submissionID uint) (*entity.AssignmentSubmission, error) {
	submission, err := s.assignmentRepo.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	assignment, err := s.assignmentRepo.GetByID(submission.AssignmentID)
	if err != nil {
		return nil, err
	}

	result, err := s.aiGrader.GradeSubmission(ctx, assignment.Description, submission.Content, assignment.MaxPoints)
	if err != nil {
		return nil, fmt.Errorf("ai grading failed: %w", err)
	}
	if result == nil {
		// Оценщик выключен - сдача ждёт ручной проверки
		return submission, nil
	}

	now := time.Now()
	submission.AIScore = &result.Score
	submission.Feedback = result.Feedback
	submission.Status = entity.SubmissionStatusGraded
	submission.GradedAt = &now
	if err := s.assignmentRepo.UpdateSubmission(submission); err != nil {
		return nil, err
	}

	s.publishGraded(ctx, submission, assignment, result.Score)
	return submission, nil
}

// ApproveSubmission подтверждает AI-оценку (переход graded -> approved)
func (s *AssignmentService) ApproveSubmission(ctx context.Context, submissionID uint) (*entity.AssignmentSubmission, error) {
	submission, err := s.assignmentRepo.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if submission.FinalScore() == nil {
		return nil, fmt.Errorf("submission %d has no score to approve: %w", submissionID, apperrors.ErrValidation)
	}
	submission.Status = entity.SubmissionStatusApproved
	if err := s.assignmentRepo.UpdateSubmission(submission); err != nil {
		return nil, err
	}

	assignment, err := s.assignmentRepo.GetByID(submission.AssignmentID)
	if err != nil {
		log.Printf("[AssignmentService] Задание %d для события не найдено: %v", submission.AssignmentID, err)
		return submission, nil
	}
	s.publishGraded(ctx, submission, assignment, *submission.FinalScore())
	return submission, nil
}

// RejectSubmission отклоняет сдачу (оценка в агрегацию не попадает)
func (s *AssignmentService) RejectSubmission(submissionID uint, feedback string) (*entity.AssignmentSubmission, error) {
	submission, err := s.assignmentRepo.GetSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	submission.Status = entity.SubmissionStatusRejected
	if feedback != "" {
		submission.Feedback = feedback
	}
	if err := s.assignmentRepo.UpdateSubmission(submission); err != nil {
		return nil, err
	}
	return submission, nil
}

// GetSubmission возвращает сдачу по ID
func (s *AssignmentService) GetSubmission(id uint) (*entity.AssignmentSubmission, error) {
	return s.assignmentRepo.GetSubmission(id)
}

func (s *AssignmentService) publishGraded(ctx context.Context, submission *entity.AssignmentSubmission, assignment *entity.Assignment, score float64) {
	s.dispatcher.Publish(ctx, events.SubmissionGraded{
		SubmissionID: submission.ID,
		AssignmentID: assignment.ID,
		UserID:       submission.UserID,
		CourseID:     assignment.CourseID,
		Score:        score,
		MaxPoints:    assignment.MaxPoints,
	})
}
