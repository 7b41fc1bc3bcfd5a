package redis

import (
	"fmt"
	"time"

	"github.com/yourusername/lms-api/internal/domain/entity"
	"github.com/yourusername/lms-api/internal/domain/repository"
)

// SessionStore реализует repository.SessionStore поверх Redis.
// Состояние сессии сериализуется в JSON по ключу с токеном; TTL задаёт
// движок сессий исходя из режима времени викторины. Брошенная сессия
// истекает вместе с ключом.
type SessionStore struct {
	cache repository.CacheRepository
}

// NewSessionStore создает новое хранилище квиз-сессий
func NewSessionStore(cache repository.CacheRepository) *SessionStore {
	return &SessionStore{cache: cache}
}

func sessionKey(token string) string {
	return fmt.Sprintf("quiz_session:%s", token)
}

// Save сохраняет состояние сессии с заданным TTL
func (s *SessionStore) Save(session *entity.QuizSession, ttl time.Duration) error {
	return s.cache.SetJSON(sessionKey(session.Token), session, ttl)
}

// Get загружает состояние сессии по токену.
// Возвращает apperrors.ErrNotFound для несуществующей или истекшей сессии.
func (s *SessionStore) Get(token string) (*entity.QuizSession, error) {
	var session entity.QuizSession
	if err := s.cache.GetJSON(sessionKey(token), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Delete удаляет сессию (вызывается после успешной отправки)
func (s *SessionStore) Delete(token string) error {
	return s.cache.Delete(sessionKey(token))
}
