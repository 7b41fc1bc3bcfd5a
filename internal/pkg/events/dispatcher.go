package events

import (
	"context"
	"log"
	"sync"
)

// Handler обрабатывает доменное событие. Возвращённая ошибка логируется
// и не прерывает ни публикацию, ни остальных подписчиков.
type Handler func(ctx context.Context, e Event) error

// Dispatcher - синхронный in-process диспетчер доменных событий.
// Подписчики (агрегация оценок, геймификация) регистрируются при старте
// приложения; публикация best-effort - отказ подписчика логируется и
// никогда не откатывает породившую событие запись.
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
}

// NewDispatcher создает новый диспетчер событий
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]Handler),
	}
}

// Subscribe регистрирует обработчик на событие с данным именем
func (d *Dispatcher) Subscribe(eventName string, h Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventName] = append(d.handlers[eventName], h)
}

// Publish доставляет событие всем подписчикам по порядку регистрации.
// Паника или ошибка одного подписчика изолируется от остальных.
func (d *Dispatcher) Publish(ctx context.Context, e Event) {
	d.mu.RLock()
	handlers := d.handlers[e.Name()]
	d.mu.RUnlock()

	for _, h := range handlers {
		d.dispatch(ctx, e, h)
	}
}

func (d *Dispatcher) dispatch(ctx context.Context, e Event, h Handler) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Events] PANIC recovered in handler for %s: %v", e.Name(), r)
		}
	}()

	if err := h(ctx, e); err != nil {
		log.Printf("[Events] Ошибка обработчика события %s: %v", e.Name(), err)
	}
}
