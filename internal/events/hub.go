package events

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/ButyrinIA/publy/internal/metrics"
	"github.com/ButyrinIA/publy/internal/models"
)

const (
	shardCount = 16
	// размер буфера подписчика; при переполнении событие для него теряется
	subscriberBuffer = 16
)

// Event - уведомление о новом комментарии, живет только в момент доставки
type Event struct {
	StoryID string
	Comment models.Comment
}

type subscriber struct {
	ch chan Event
}

type shard struct {
	mu   sync.RWMutex
	subs map[string]map[*subscriber]struct{}
}

// Hub - реестр подписчиков по идентификатору истории.
// Шардирование ограничивает конкуренцию подписчиками одной истории.
type Hub struct {
	shards [shardCount]*shard
}

func NewHub() *Hub {
	h := &Hub{}
	for i := range h.shards {
		h.shards[i] = &shard{subs: make(map[string]map[*subscriber]struct{})}
	}
	return h
}

func (h *Hub) shardFor(storyID string) *shard {
	f := fnv.New32a()
	f.Write([]byte(storyID))
	return h.shards[f.Sum32()%shardCount]
}

// Subscribe регистрирует подписчика на новые комментарии истории.
// Отмена контекста детерминированно удаляет подписчика и закрывает канал.
func (h *Hub) Subscribe(ctx context.Context, storyID string) <-chan Event {
	sub := &subscriber{ch: make(chan Event, subscriberBuffer)}

	sh := h.shardFor(storyID)
	sh.mu.Lock()
	if _, exists := sh.subs[storyID]; !exists {
		sh.subs[storyID] = make(map[*subscriber]struct{})
	}
	sh.subs[storyID][sub] = struct{}{}
	sh.mu.Unlock()
	metrics.ActiveSubscriptions.Inc()

	// Очистка после завершения подписки
	go func() {
		<-ctx.Done()
		sh.mu.Lock()
		if set, exists := sh.subs[storyID]; exists {
			if _, ok := set[sub]; ok {
				delete(set, sub)
				close(sub.ch)
				metrics.ActiveSubscriptions.Dec()
			}
			if len(set) == 0 {
				delete(sh.subs, storyID)
			}
		}
		sh.mu.Unlock()
	}()

	return sub.ch
}

// Publish доставляет событие всем активным подписчикам ровно этой истории.
// Отправка неблокирующая: медленный подписчик теряет событие, издатель не ждет.
func (h *Hub) Publish(storyID string, comment models.Comment) {
	ev := Event{StoryID: storyID, Comment: comment}

	sh := h.shardFor(storyID)
	sh.mu.RLock()
	for sub := range sh.subs[storyID] {
		select {
		case sub.ch <- ev:
		default:
		}
	}
	sh.mu.RUnlock()
}

// Subscribers возвращает число активных подписчиков истории
func (h *Hub) Subscribers(storyID string) int {
	sh := h.shardFor(storyID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return len(sh.subs[storyID])
}
