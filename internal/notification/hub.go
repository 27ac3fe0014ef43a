package notification

import "sync"

// Event - полезная нагрузка уведомления о найме.
type Event struct {
	Message string `json:"message"`
	GigID   string `json:"gigId"`
}

// Publisher - интерфейс для публикации уведомлений пользователю.
type Publisher interface {
	Publish(userID string, event Event)
}

// subscriber - одно живое подключение пользователя.
type subscriber struct {
	userID string
	ch     chan Event
}

// Hub раздаёт уведомления по именованным каналам пользователей.
// Каждый пользователь слушает только свой канал; доставка best-effort,
// без истории и без повтора для офлайн-пользователей.
type Hub struct {
	mu      sync.Mutex
	subs    map[int]*subscriber
	nextSub int
}

// NewHub создает новый экземпляр Hub.
func NewHub() *Hub {
	return &Hub{
		subs: make(map[int]*subscriber),
	}
}

// Subscribe привязывает новое подключение к каналу пользователя userID.
// Возвращает канал событий и функцию отписки.
func (h *Hub) Subscribe(userID string) (<-chan Event, func()) {
	h.mu.Lock()
	defer h.mu.Unlock()

	id := h.nextSub
	h.nextSub++
	sub := &subscriber{
		userID: userID,
		ch:     make(chan Event, 16),
	}
	h.subs[id] = sub

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if s, ok := h.subs[id]; ok {
			close(s.ch)
			delete(h.subs, id)
		}
	}
	return sub.ch, cancel
}

// Publish доставляет событие всем живым подключениям пользователя userID.
// Если подключений нет - no-op. Подписчик с переполненным буфером отключается.
func (h *Hub) Publish(userID string, event Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for id, sub := range h.subs {
		if sub.userID != userID {
			continue
		}
		select {
		case sub.ch <- event:
		default:
			close(sub.ch)
			delete(h.subs, id)
		}
	}
}

// SubscriberCount возвращает число живых подключений пользователя.
func (h *Hub) SubscriberCount(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, sub := range h.subs {
		if sub.userID == userID {
			n++
		}
	}
	return n
}
