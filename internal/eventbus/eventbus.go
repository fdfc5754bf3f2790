package eventbus

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrBusClosed возвращается при публикации в закрытую шину.
var ErrBusClosed = errors.New("шина событий закрыта")

// Типы событий мира
const (
	EventChunkActivated   = "ChunkActivated"
	EventChunkDeactivated = "ChunkDeactivated"
	EventBlockChanged     = "BlockChanged"
)

// Envelope — универсальный контейнер события мира.
type Envelope struct {
	ID        string    // Глобально уникальный идентификатор (UUID)
	Timestamp time.Time // Время создания события (UTC)
	Source    string    // Имя подсистемы-источника
	EventType string    // Тип события (ChunkActivated, BlockChanged…)
	Version   int       // Схема полезной нагрузки
	Priority  int       // 0=Low … 9=Critical (для backpressure)
	Payload   []byte    // Сериализованная полезная нагрузка (JSON)
}

// ChunkEventPayload — полезная нагрузка событий активации и деактивации
type ChunkEventPayload struct {
	ChunkX int `json:"chunk_x"`
	ChunkY int `json:"chunk_y"`
}

// BlockEventPayload — полезная нагрузка события изменения блока
type BlockEventPayload struct {
	X       int   `json:"x"`
	Y       int   `json:"y"`
	Z       int   `json:"z"`
	OldType uint8 `json:"old_type"`
	NewType uint8 `json:"new_type"`
}

// NewEnvelope собирает событие с заполненными служебными полями.
// Полезная нагрузка сериализуется в JSON.
func NewEnvelope(source, eventType string, priority int, payload any) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	return &Envelope{
		ID:        uuid.NewString(),
		Timestamp: time.Now().UTC(),
		Source:    source,
		EventType: eventType,
		Version:   1,
		Priority:  priority,
		Payload:   data,
	}, nil
}

// Filter позволяет подписаться только на нужные события.
type Filter struct {
	Types   []string // Если пусто, подходят все типы
	Sources []string // Если пусто, подходят все источники
}

// Subscription возвращается при подписке; позволяет отписаться.
type Subscription interface {
	Unsubscribe()
}

// Handler потребляет события.
type Handler func(ctx context.Context, ev *Envelope)

// Stats — агрегированные метрики шины.
type Stats struct {
	Published uint64
	Consumed  uint64
	Dropped   uint64
	InFlight  int
}

// EventBus определяет абстракцию шины событий мира.
// Реализации: in-memory для одиночного процесса, JetStream для
// распределённой доставки.
type EventBus interface {
	Publish(ctx context.Context, ev *Envelope) error
	Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error)
	Metrics() Stats

	// Close останавливает доставку и освобождает ресурсы шины.
	// Публикация после Close возвращает ErrBusClosed.
	Close() error
}

//================ In-Memory implementation =================//

type memoryBus struct {
	mu          sync.RWMutex
	subscribers map[int]subscriber
	nextID      int
	stats       Stats
	buffer      chan *Envelope

	// quit закрывается один раз в Close; канал buffer не закрывается
	// никогда, чтобы публикация не паниковала наперегонки с Close
	quit      chan struct{}
	closeOnce sync.Once
}

type subscriber struct {
	filter  Filter
	handler Handler
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewMemoryBus создаёт in-memory шину с указанным буфером.
func NewMemoryBus(capacity int) EventBus {
	mb := &memoryBus{
		subscribers: make(map[int]subscriber),
		buffer:      make(chan *Envelope, capacity),
		quit:        make(chan struct{}),
	}
	go mb.dispatchLoop()
	return mb
}

func (mb *memoryBus) Publish(ctx context.Context, ev *Envelope) error {
	select {
	case <-mb.quit:
		return ErrBusClosed
	default:
	}

	select {
	case mb.buffer <- ev:
		mb.mu.Lock()
		mb.stats.Published++
		mb.mu.Unlock()
		return nil
	default:
	}

	// Буфер заполнен: низкий приоритет (<5) дропаем, высокий ждёт
	// места, отмены контекста или закрытия шины
	if ev.Priority < 5 {
		mb.mu.Lock()
		mb.stats.Dropped++
		mb.mu.Unlock()
		return nil
	}

	select {
	case mb.buffer <- ev:
		mb.mu.Lock()
		mb.stats.Published++
		mb.mu.Unlock()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-mb.quit:
		return ErrBusClosed
	}
}

// Close останавливает цикл доставки. Повторный вызов безопасен.
func (mb *memoryBus) Close() error {
	mb.closeOnce.Do(func() {
		close(mb.quit)
	})
	return nil
}

func (mb *memoryBus) Subscribe(ctx context.Context, f Filter, h Handler) (Subscription, error) {
	mb.mu.Lock()
	id := mb.nextID
	mb.nextID++
	cctx, cancel := context.WithCancel(ctx)
	mb.subscribers[id] = subscriber{filter: f, handler: h, ctx: cctx, cancel: cancel}
	mb.mu.Unlock()

	return &memSub{bus: mb, id: id}, nil
}

func (mb *memoryBus) Metrics() Stats {
	mb.mu.RLock()
	defer mb.mu.RUnlock()
	s := mb.stats
	s.InFlight = len(mb.buffer)
	return s
}

// dispatchLoop рассылает события подписчикам до закрытия шины.
func (mb *memoryBus) dispatchLoop() {
	for {
		var ev *Envelope
		select {
		case ev = <-mb.buffer:
		case <-mb.quit:
			return
		}

		mb.mu.RLock()
		subs := make([]subscriber, 0, len(mb.subscribers))
		for _, sub := range mb.subscribers {
			subs = append(subs, sub)
		}
		mb.mu.RUnlock()

		for _, sub := range subs {
			if !matchFilter(ev, sub.filter) {
				continue
			}
			go func(s subscriber) {
				select {
				case <-s.ctx.Done():
					return
				default:
					s.handler(s.ctx, ev)
					mb.mu.Lock()
					mb.stats.Consumed++
					mb.mu.Unlock()
				}
			}(sub)
		}
	}
}

func matchFilter(ev *Envelope, f Filter) bool {
	match := func(val string, arr []string) bool {
		if len(arr) == 0 {
			return true
		}
		for _, v := range arr {
			if v == val {
				return true
			}
		}
		return false
	}
	return match(ev.EventType, f.Types) && match(ev.Source, f.Sources)
}

type memSub struct {
	bus *memoryBus
	id  int
}

func (s *memSub) Unsubscribe() {
	s.bus.mu.Lock()
	if sub, ok := s.bus.subscribers[s.id]; ok {
		sub.cancel()
		delete(s.bus.subscribers, s.id)
	}
	s.bus.mu.Unlock()
}
