package service

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
	apperrors "github.com/yourusername/lms-api/internal/pkg/errors"
	"github.com/yourusername/lms-api/internal/pkg/events"
	"github.com/yourusername/lms-api/internal/service/scoring"
)

// Запас TTL сверх расчётного времени прохождения: догоняет задержки сети
// и время на экранах подтверждения. Сессия, пережившая этот запас,
// считается брошенной и просто истекает, не оставляя попытки.
const sessionTTLGraceSeconds = 300

// SessionService - движок квиз-сессий: проверки допуска, снимок вопросов
// со случайным порядком, приём ответов, навигация и отправка.
// Состояние сессии живёт в SessionStore по токену; машина состояний:
// NotStarted -> InProgress -> Submitted (терминальное).
type SessionService struct {
	quizRepo     repository.QuizRepository
	questionRepo repository.QuestionRepository
	courseRepo   repository.CourseRepository
	testRepo     repository.TestRepository
	sessionStore repository.SessionStore
	dispatcher   *events.Dispatcher
}

// NewSessionService создает новый движок квиз-сессий
func NewSessionService(
	quizRepo repository.QuizRepository,
	questionRepo repository.QuestionRepository,
	courseRepo repository.CourseRepository,
	testRepo repository.TestRepository,
	sessionStore repository.SessionStore,
	dispatcher *events.Dispatcher,
) *SessionService {
	return &SessionService{
		quizRepo:     quizRepo,
		questionRepo: questionRepo,
		courseRepo:   courseRepo,
		testRepo:     testRepo,
		sessionStore: sessionStore,
		dispatcher:   dispatcher,
	}
}

// StartSession начинает новую попытку пользователя по викторине.
// Предусловия проверяются по порядку, каждое проваливается своей ошибкой:
//  1. викторина существует и опубликована (ErrNotFound);
//  2. текущее время в окне доступности (ErrQuizUnavailable);
//  3. для викторины курса пользователь записан на курс (ErrNotEnrolled);
//  4. отправленных попыток меньше лимита (ErrMaxAttempts);
//  5. у викторины есть хотя бы один вопрос (ErrNotFound).
func (s *SessionService) StartSession(quizID, userID uint, clientIP string) (*entity.QuizSession, error) {
	quiz, err := s.quizRepo.GetByID(quizID)
	if err != nil {
		return nil, err
	}
	if !quiz.IsPublished {
		return nil, fmt.Errorf("quiz %d is not published: %w", quizID, apperrors.ErrNotFound)
	}

	now := time.Now()
	if !quiz.IsAvailableAt(now) {
		return nil, apperrors.ErrQuizUnavailable
	}

	if quiz.CourseID != nil {
		enrolled, err := s.courseRepo.IsEnrolled(userID, *quiz.CourseID)
		if err != nil {
			return nil, err
		}
		if !enrolled {
			return nil, apperrors.ErrNotEnrolled
		}
	}

	// Считаются только отправленные попытки: брошенная сессия истекает
	// по TTL и записи не оставляет
	submitted, err := s.testRepo.CountSubmitted(userID, quizID)
	if err != nil {
		return nil, err
	}
	if quiz.AttemptsAllowed > 0 && submitted >= int64(quiz.AttemptsAllowed) {
		return nil, apperrors.ErrMaxAttempts
	}

	questions, err := s.questionRepo.GetByQuizID(quizID)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, fmt.Errorf("quiz %d has no questions: %w", quizID, apperrors.ErrNotFound)
	}

	session := &entity.QuizSession{
		Token:             uuid.NewString(),
		QuizID:            quizID,
		CourseID:          quiz.CourseID,
		UserID:            userID,
		AttemptNumber:     int(submitted) + 1,
		ClientIP:          clientIP,
		Questions:         snapshotQuestions(questions),
		CurrentIndex:      0,
		AllowNavigation:   quiz.AllowQuestionNavigation,
		StartedAt:         now,
		QuestionStartedAt: now,
	}

	// Режим времени разрешается один раз: общий таймер отключает пер-вопросный
	if quiz.UsesTotalTimer() {
		session.TotalDurationSec = quiz.TotalDurationSec
	} else {
		session.PerQuestionSec = quiz.PerQuestionSeconds()
	}

	// Инвариант len(Answers) == len(Questions): под каждый вопрос заводится
	// пустая запись нужной формы, записи дальше только перезаписываются
	session.Answers = make([]entity.SessionAnswer, len(session.Questions))
	for i, q := range session.Questions {
		if q.Type == entity.QuestionTypeMultiSelect {
			session.Answers[i].SelectedIDs = []uint{}
		}
	}

	if err := s.sessionStore.Save(session, s.sessionTTL(session)); err != nil {
		return nil, err
	}

	log.Printf("[SessionService] Пользователь %d начал попытку %d по викторине %d (токен %s)",
		userID, session.AttemptNumber, quizID, session.Token)
	return session, nil
}

// GetSession возвращает сессию по токену, проверяя владельца
func (s *SessionService) GetSession(token string, userID uint) (*entity.QuizSession, error) {
	session, err := s.sessionStore.Get(token)
	if err != nil {
		return nil, err
	}
	if session.UserID != userID {
		return nil, apperrors.ErrForbidden
	}
	return session, nil
}

// SetAnswer перезаписывает ответ на вопрос с данным индексом.
// Форма ответа обязана соответствовать типу вопроса; несовпадение -
// нарушение контракта, отклоняется без изменения состояния сессии.
// При выключенной навигации отвечать можно только на текущий вопрос.
func (s *SessionService) SetAnswer(token string, userID uint, questionIndex int, answer entity.SessionAnswer) (*entity.QuizSession, error) {
	session, err := s.GetSession(token, userID)
	if err != nil {
		return nil, err
	}

	if questionIndex < 0 || questionIndex >= session.QuestionCount() {
		return nil, fmt.Errorf("question index %d out of range: %w", questionIndex, apperrors.ErrValidation)
	}
	if !session.AllowNavigation && questionIndex != session.CurrentIndex {
		return nil, fmt.Errorf("navigation disabled, only current question accepts answers: %w", apperrors.ErrValidation)
	}

	question := &session.Questions[questionIndex]
	if err := validateAnswerShape(question, &answer); err != nil {
		return nil, err
	}

	session.Answers[questionIndex] = answer
	if err := s.sessionStore.Save(session, s.sessionTTL(session)); err != nil {
		return nil, err
	}
	return session, nil
}

// Navigate переводит сессию на вопрос с данным индексом.
// При выключенной навигации произвольные переходы - no-op (CurrentIndex
// не меняется, ошибки нет); разрешён только пошаговый ChangeQuestion.
// Смена вопроса сбрасывает пер-вопросный таймер.
func (s *SessionService) Navigate(token string, userID uint, targetIndex int) (*entity.QuizSession, error) {
	session, err := s.GetSession(token, userID)
	if err != nil {
		return nil, err
	}

	if !session.AllowNavigation {
		return session, nil
	}
	if targetIndex < 0 || targetIndex >= session.QuestionCount() {
		return nil, fmt.Errorf("target index %d out of range: %w", targetIndex, apperrors.ErrValidation)
	}
	if targetIndex == session.CurrentIndex {
		return session, nil
	}

	session.CurrentIndex = targetIndex
	session.QuestionStartedAt = time.Now()
	if err := s.sessionStore.Save(session, s.sessionTTL(session)); err != nil {
		return nil, err
	}
	return session, nil
}

// ChangeQuestion продвигает сессию на один вопрос вперёд.
// На последнем вопросе продвижение означает отправку: возвращается
// сохранённая попытка, сессия при этом завершается и удаляется.
// Единственный разрешённый переход при выключенной навигации.
func (s *SessionService) ChangeQuestion(ctx context.Context, token string, userID uint) (*entity.QuizSession, *entity.Test, error) {
	session, err := s.GetSession(token, userID)
	if err != nil {
		return nil, nil, err
	}

	if session.IsLastQuestion() {
		test, err := s.submit(ctx, session)
		if err != nil {
			return nil, nil, err
		}
		return nil, test, nil
	}

	session.CurrentIndex++
	session.QuestionStartedAt = time.Now()
	if err := s.sessionStore.Save(session, s.sessionTTL(session)); err != nil {
		return nil, nil, err
	}
	return session, nil, nil
}

// Submit завершает сессию: оценивает ответы, атомарно сохраняет попытку
// и удаляет состояние сессии. Переход терминальный - повторная отправка
// того же токена вернёт ErrNotFound.
func (s *SessionService) Submit(ctx context.Context, token string, userID uint) (*entity.Test, error) {
	session, err := s.GetSession(token, userID)
	if err != nil {
		return nil, err
	}
	return s.submit(ctx, session)
}

func (s *SessionService) submit(ctx context.Context, session *entity.QuizSession) (*entity.Test, error) {
	now := time.Now()

	test := &entity.Test{
		UserID:         session.UserID,
		QuizID:         session.QuizID,
		Result:         0,
		TotalQuestions: session.QuestionCount(),
		TimeSpentSec:   int(now.Sub(session.StartedAt).Seconds()),
		AttemptNumber:  session.AttemptNumber,
		IPAddress:      session.ClientIP,
	}

	answers := make([]entity.TestAnswer, session.QuestionCount())
	verdicts := make([]bool, session.QuestionCount())
	correctCount := 0
	for i := range session.Questions {
		question := &session.Questions[i]
		normalized := normalizeAnswer(question, &session.Answers[i])

		answers[i] = entity.TestAnswer{
			QuestionID:     question.QuestionID,
			UserID:         session.UserID,
			OptionID:       normalized.SelectedID,
			UserAnswerText: normalized.Text,
		}
		if question.Type == entity.QuestionTypeMultiSelect {
			answers[i].SelectedOptionIDs = entity.UintArray(normalized.SelectedIDs)
		}

		verdicts[i] = scoring.Evaluate(question, &normalized)
		if verdicts[i] {
			correctCount++
		}
	}

	test.Result = correctCount
	if err := s.testRepo.SubmitAttempt(test, answers, verdicts); err != nil {
		return nil, err
	}

	// Состояние сессии своё отработало; ошибка удаления не критична -
	// ключ всё равно истечёт по TTL
	if err := s.sessionStore.Delete(session.Token); err != nil {
		log.Printf("[SessionService] Не удалось удалить сессию %s: %v", session.Token, err)
	}

	log.Printf("[SessionService] Пользователь %d отправил попытку %d по викторине %d: %d/%d",
		session.UserID, session.AttemptNumber, session.QuizID, test.Result, test.TotalQuestions)

	// Агрегация оценок и геймификация - реактивные best-effort подписчики,
	// публикация строго после коммита попытки
	s.dispatcher.Publish(ctx, events.AttemptSubmitted{
		AttemptID: test.ID,
		UserID:    test.UserID,
		QuizID:    test.QuizID,
		CourseID:  session.CourseID,
		Result:    test.Result,
		Total:     test.TotalQuestions,
	})

	return test, nil
}

// sessionTTL возвращает остаток жизни сессии в хранилище.
// База - расчётное время прохождения плюс запас; каждое сохранение
// пишет именно остаток, так что дедлайн от перезаписей не сдвигается.
func (s *SessionService) sessionTTL(session *entity.QuizSession) time.Duration {
	baseSec := session.TotalDurationSec
	if baseSec <= 0 {
		baseSec = session.PerQuestionSec * session.QuestionCount()
	}
	deadline := session.StartedAt.Add(time.Duration(baseSec+sessionTTLGraceSeconds) * time.Second)
	remaining := time.Until(deadline)
	if remaining < time.Second {
		remaining = time.Second
	}
	return remaining
}

// snapshotQuestions снимает копию вопросов в случайном порядке,
// с независимо перемешанными вариантами внутри каждого вопроса.
// Порядок фиксируется на всю сессию и не зависит от прошлых попыток.
func snapshotQuestions(questions []entity.Question) []entity.SessionQuestion {
	snapshots := make([]entity.SessionQuestion, len(questions))
	for i, q := range questions {
		snap := entity.SessionQuestion{
			QuestionID:   q.ID,
			Text:         q.Text,
			Type:         q.Type,
			CodeSnippet:  q.CodeSnippet,
			MoreInfoLink: q.MoreInfoLink,
		}
		if q.Type == entity.QuestionTypeFreeText {
			snap.CorrectAnswer = q.CorrectAnswer
		}
		snap.Options = make([]entity.SessionOption, len(q.Options))
		for j, opt := range q.Options {
			snap.Options[j] = entity.SessionOption{
				ID:        opt.ID,
				Text:      opt.Text,
				IsCorrect: opt.IsCorrect,
			}
		}
		rand.Shuffle(len(snap.Options), func(a, b int) {
			snap.Options[a], snap.Options[b] = snap.Options[b], snap.Options[a]
		})
		snapshots[i] = snap
	}
	rand.Shuffle(len(snapshots), func(a, b int) {
		snapshots[a], snapshots[b] = snapshots[b], snapshots[a]
	})
	return snapshots
}

// validateAnswerShape проверяет соответствие формы ответа типу вопроса.
// Для вопросов с вариантами дополнительно проверяется принадлежность
// выбранных ID снимку вопроса.
func validateAnswerShape(question *entity.SessionQuestion, answer *entity.SessionAnswer) error {
	switch question.Type {
	case entity.QuestionTypeSingleChoice:
		if len(answer.SelectedIDs) > 0 || answer.Text != "" {
			return fmt.Errorf("single_choice answer must carry a single option id: %w", apperrors.ErrValidation)
		}
		if answer.SelectedID != nil && !question.HasOption(*answer.SelectedID) {
			return fmt.Errorf("option %d does not belong to question %d: %w",
				*answer.SelectedID, question.QuestionID, apperrors.ErrValidation)
		}
	case entity.QuestionTypeMultiSelect:
		if answer.SelectedID != nil || answer.Text != "" {
			return fmt.Errorf("multi_select answer must carry a set of option ids: %w", apperrors.ErrValidation)
		}
		for _, id := range answer.SelectedIDs {
			if id == 0 {
				continue
			}
			if !question.HasOption(id) {
				return fmt.Errorf("option %d does not belong to question %d: %w",
					id, question.QuestionID, apperrors.ErrValidation)
			}
		}
	case entity.QuestionTypeFreeText:
		if answer.SelectedID != nil || len(answer.SelectedIDs) > 0 {
			return fmt.Errorf("free_text answer must carry text: %w", apperrors.ErrValidation)
		}
	default:
		return fmt.Errorf("unknown question type %q: %w", question.Type, apperrors.ErrValidation)
	}
	return nil
}

// normalizeAnswer приводит сырой ответ к канонической пер-типовой форме:
// single_choice - выбранный ID или nil; multi_select - множество ID без
// нулей и дубликатов, отсортированное для детерминизма хранения;
// free_text - строка с обрезанными пробелами.
func normalizeAnswer(question *entity.SessionQuestion, raw *entity.SessionAnswer) entity.SessionAnswer {
	var normalized entity.SessionAnswer
	switch question.Type {
	case entity.QuestionTypeSingleChoice:
		normalized.SelectedID = raw.SelectedID
	case entity.QuestionTypeMultiSelect:
		seen := make(map[uint]struct{}, len(raw.SelectedIDs))
		ids := make([]uint, 0, len(raw.SelectedIDs))
		for _, id := range raw.SelectedIDs {
			if id == 0 {
				continue
			}
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
		sort.Slice(ids, func(a, b int) bool { return ids[a] < ids[b] })
		normalized.SelectedIDs = ids
	case entity.QuestionTypeFreeText:
		normalized.Text = strings.TrimSpace(raw.Text)
	}
	return normalized
}
