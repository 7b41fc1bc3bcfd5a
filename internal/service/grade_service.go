package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	"github.com/yourusername/lms-api/internal/pkg/events"
)

// GradeWeights - фиксированные веса компонент итоговой оценки.
// При отсутствии компоненты её вес исключается, остальные перенормируются.
type GradeWeights struct {
	Quiz          float64
	Assignment    float64
	Participation float64
}

// DefaultGradeWeights возвращает веса по умолчанию
func DefaultGradeWeights() GradeWeights {
	return GradeWeights{Quiz: 0.5, Assignment: 0.4, Participation: 0.1}
}

// GradeService - движок агрегации оценок: пересчитывает составную оценку
// пары (user, course) при каждой отправке попытки и оценке сдачи задания.
type GradeService struct {
	gradeRepo      repository.GradeRepository
	quizRepo       repository.QuizRepository
	testRepo       repository.TestRepository
	assignmentRepo repository.AssignmentRepository
	courseRepo     repository.CourseRepository
	weights        GradeWeights
}

// NewGradeService создает новый сервис агрегации оценок
func NewGradeService(
	gradeRepo repository.GradeRepository,
	quizRepo repository.QuizRepository,
	testRepo repository.TestRepository,
	assignmentRepo repository.AssignmentRepository,
	courseRepo repository.CourseRepository,
	weights GradeWeights,
) *GradeService {
	return &GradeService{
		gradeRepo:      gradeRepo,
		quizRepo:       quizRepo,
		testRepo:       testRepo,
		assignmentRepo: assignmentRepo,
		courseRepo:     courseRepo,
		weights:        weights,
	}
}

// Recalculate пересчитывает составную оценку пары (user, course).
// Идемпотентен: повторный вызов без новых данных даёт те же значения.
// Компоненты считаются внутри критической секции SaveCalculated -
// попытки и сдачи читаются уже после захвата блокировки строки, поэтому
// параллельные пересчёты одной пары (по разным викторинам/заданиям)
// сериализуются целиком и не теряют обновления.
func (s *GradeService) Recalculate(userID, courseID uint) (*entity.Grade, error) {
	if _, err := s.courseRepo.GetByID(courseID); err != nil {
		return nil, fmt.Errorf("course %d: %w", courseID, err)
	}
	return s.gradeRepo.SaveCalculated(userID, courseID, s.computeComponents)
}

// computeComponents перезаполняет производные поля заблокированной строки.
// Метрика участия считается внешним коллаборатором и не трогается: её
// текущее значение берётся из самой строки и входит в итог. Любая ошибка
// чтения откатывает пересчёт, не затирая сохранённые данные.
func (s *GradeService) computeComponents(grade *entity.Grade) error {
	grade.QuizAverage = nil
	grade.AssignmentAverage = nil
	grade.CompletedQuizzes, grade.TotalQuizzes = 0, 0
	grade.CompletedAssignments, grade.TotalAssignments = 0, 0

	if err := s.fillQuizComponent(grade); err != nil {
		return err
	}
	if err := s.fillAssignmentComponent(grade); err != nil {
		return err
	}

	grade.FinalGrade = s.weightedFinal(grade.QuizAverage, grade.AssignmentAverage, grade.ParticipationScore)
	now := time.Now()
	grade.CalculatedAt = &now
	return nil
}

// SetParticipationScore сохраняет внешне вычисленную метрику участия
// и пересчитывает итог с её учётом
func (s *GradeService) SetParticipationScore(userID, courseID uint, score *float64) (*entity.Grade, error) {
	if err := s.gradeRepo.SetParticipation(userID, courseID, score); err != nil {
		return nil, err
	}
	return s.Recalculate(userID, courseID)
}

// GetGrade возвращает агрегированную оценку пары (user, course)
func (s *GradeService) GetGrade(userID, courseID uint) (*entity.Grade, error) {
	return s.gradeRepo.GetByUserAndCourse(userID, courseID)
}

// ListByCourse возвращает оценки всех пользователей курса (журнал оценок)
func (s *GradeService) ListByCourse(courseID uint) ([]entity.Grade, error) {
	return s.gradeRepo.ListByCourse(courseID)
}

// HandleAttemptSubmitted - подписчик события отправки попытки.
// Ошибки пересчёта логируются и не откатывают породившую запись.
func (s *GradeService) HandleAttemptSubmitted(_ context.Context, e events.Event) error {
	evt, ok := e.(events.AttemptSubmitted)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	// Викторины вне курса в агрегацию не попадают
	if evt.CourseID == nil {
		return nil
	}
	if _, err := s.Recalculate(evt.UserID, *evt.CourseID); err != nil {
		log.Printf("[GradeService] Пересчёт оценки user=%d course=%d пропущен: %v",
			evt.UserID, *evt.CourseID, err)
	}
	return nil
}

// HandleSubmissionGraded - подписчик события оценки сдачи задания
func (s *GradeService) HandleSubmissionGraded(_ context.Context, e events.Event) error {
	evt, ok := e.(events.SubmissionGraded)
	if !ok {
		return fmt.Errorf("unexpected event type %T", e)
	}
	if _, err := s.Recalculate(evt.UserID, evt.CourseID); err != nil {
		log.Printf("[GradeService] Пересчёт оценки user=%d course=%d пропущен: %v",
			evt.UserID, evt.CourseID, err)
	}
	return nil
}

// fillQuizComponent заполняет quizAverage и счётчики викторин.
// Среднее берётся по всем отправленным попыткам (не лучшим), в процентах
// от числа вопросов на момент попытки; nil при нуле попыток.
func (s *GradeService) fillQuizComponent(grade *entity.Grade) error {
	quizIDs, err := s.quizRepo.ListIDsByCourse(grade.CourseID)
	if err != nil {
		return err
	}
	grade.TotalQuizzes = len(quizIDs)
	if len(quizIDs) == 0 {
		return nil
	}

	tests, err := s.testRepo.ListByUserAndQuizIDs(grade.UserID, quizIDs)
	if err != nil {
		return err
	}
	if len(tests) == 0 {
		return nil
	}

	sum := 0.0
	completed := make(map[uint]struct{})
	for i := range tests {
		sum += tests[i].ScorePercent()
		completed[tests[i].QuizID] = struct{}{}
	}
	avg := sum / float64(len(tests))
	grade.QuizAverage = &avg
	grade.CompletedQuizzes = len(completed)
	return nil
}

// fillAssignmentComponent заполняет assignmentAverage и счётчики заданий.
// Учитываются сдачи в статусах graded/approved; ручная оценка имеет
// приоритет над AI; nil при отсутствии оценённых сдач.
func (s *GradeService) fillAssignmentComponent(grade *entity.Grade) error {
	assignments, err := s.assignmentRepo.ListByCourse(grade.CourseID)
	if err != nil {
		return err
	}
	grade.TotalAssignments = len(assignments)
	if len(assignments) == 0 {
		return nil
	}

	maxPoints := make(map[uint]int, len(assignments))
	for i := range assignments {
		maxPoints[assignments[i].ID] = assignments[i].MaxPoints
	}

	submissions, err := s.assignmentRepo.ListGradedByUserAndCourse(grade.UserID, grade.CourseID)
	if err != nil {
		return err
	}

	sum := 0.0
	counted := 0
	completed := make(map[uint]struct{})
	for i := range submissions {
		score := submissions[i].FinalScore()
		max := maxPoints[submissions[i].AssignmentID]
		if score == nil || max <= 0 {
			continue
		}
		sum += *score / float64(max) * 100
		counted++
		completed[submissions[i].AssignmentID] = struct{}{}
	}
	if counted == 0 {
		return nil
	}
	avg := sum / float64(counted)
	grade.AssignmentAverage = &avg
	grade.CompletedAssignments = len(completed)
	return nil
}

// weightedFinal считает итоговую оценку как взвешенную сумму ненулевых
// компонент с перенормировкой весов; nil, если все компоненты nil.
func (s *GradeService) weightedFinal(quiz, assignment, participation *float64) *float64 {
	sum := 0.0
	weightSum := 0.0
	if quiz != nil {
		sum += *quiz * s.weights.Quiz
		weightSum += s.weights.Quiz
	}
	if assignment != nil {
		sum += *assignment * s.weights.Assignment
		weightSum += s.weights.Assignment
	}
	if participation != nil {
		sum += *participation * s.weights.Participation
		weightSum += s.weights.Participation
	}
	if weightSum == 0 {
		return nil
	}
	final := sum / weightSum
	return &final
}
