package repository

import (
	"time"
)

// CacheRepository определяет методы для работы с кешем (Redis)
type CacheRepository interface {
	Set(key string, value interface{}, expiration time.Duration) error
	Get(key string) (string, error)
	Delete(key string) error
	Exists(key string) (bool, error)
	// Increment атомарно увеличивает счётчик (используется rate limiter'ом)
	Increment(key string) (int64, error)
	Expire(key string, expiration time.Duration) error
	// SetJSON сохраняет структуру, сериализованную в JSON
	SetJSON(key string, value interface{}, expiration time.Duration) error
	// GetJSON читает и десериализует структуру из JSON
	GetJSON(key string, dest interface{}) error
}
