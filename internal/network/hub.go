package network

import (
	"sync"

	"github.com/tos-kamiya/zombie-escape-sub001/pkg/api"
)

type subscriber struct {
	session string
	ch      chan api.ServerMessage
}

// Broadcaster занимается только рассылкой сообщений подписчикам.
// Подписчик — одно websocket-соединение, привязанное к сессии.
type Broadcaster struct {
	mu sync.RWMutex
	// Мапа: ClientID -> подписка (сессия + личный канал)
	subscribers map[string]subscriber
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[string]subscriber),
	}
}

// Register создает личный канал для клиента в рамках сессии.
func (b *Broadcaster) Register(clientID, session string) chan api.ServerMessage {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Если канал был, закрываем
	if old, ok := b.subscribers[clientID]; ok {
		close(old.ch)
	}

	ch := make(chan api.ServerMessage, 100)
	b.subscribers[clientID] = subscriber{session: session, ch: ch}
	return ch
}

// Channel возвращает личный канал клиента (после Register).
func (b *Broadcaster) Channel(clientID string) (chan api.ServerMessage, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sub, ok := b.subscribers[clientID]
	return sub.ch, ok
}

// Unregister удаляет подписчика.
func (b *Broadcaster) Unregister(clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if sub, ok := b.subscribers[clientID]; ok {
		close(sub.ch)
		delete(b.subscribers, clientID)
	}
}

// SendTo отправляет сообщение конкретному клиенту (Unicast).
// Полный канал — дроп кадра: клиент, не успевающий читать, получит
// следующий снимок.
func (b *Broadcaster) SendTo(clientID string, msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if sub, ok := b.subscribers[clientID]; ok {
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

// BroadcastSession отправляет сообщение всем подписчикам сессии.
func (b *Broadcaster) BroadcastSession(session string, msg api.ServerMessage) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for _, sub := range b.subscribers {
		if sub.session != session {
			continue
		}
		select {
		case sub.ch <- msg:
		default:
		}
	}
}

// SessionSubscribers возвращает число подписчиков сессии.
// Инстанс без зрителей может не собирать снимки вовсе.
func (b *Broadcaster) SessionSubscribers(session string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	n := 0
	for _, sub := range b.subscribers {
		if sub.session == session {
			n++
		}
	}
	return n
}

// SubscriberCount возвращает количество активных подписчиков.
func (b *Broadcaster) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
