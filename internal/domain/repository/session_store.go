package repository

import (
	"time"

	"github.com/yourusername/lms-api/internal/domain/entity"
)

// SessionStore определяет хранилище эфемерного состояния квиз-сессий.
// Состояние сериализуется по токену, загружается в начале каждой операции
// движка и сохраняется в конце; машина состояний от хранилища не зависит.
// Брошенная сессия просто истекает по TTL, не оставляя попытки.
type SessionStore interface {
	Save(session *entity.QuizSession, ttl time.Duration) error
	Get(token string) (*entity.QuizSession, error)
	Delete(token string) error
}
