package memory

import (
	"sync"

	"github.com/google/uuid"
)

// ChatLockRegistry hands out one mutex per chat id so concurrent turns
// on the same chat serialize while different chats proceed in parallel.
type ChatLockRegistry struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*sync.Mutex
}

func NewChatLockRegistry() *ChatLockRegistry {
	return &ChatLockRegistry{
		locks: make(map[uuid.UUID]*sync.Mutex),
	}
}

func (r *ChatLockRegistry) Lock(chatId uuid.UUID) {
	r.get(chatId).Lock()
}

func (r *ChatLockRegistry) Unlock(chatId uuid.UUID) {
	r.get(chatId).Unlock()
}

// Forget drops a chat's mutex once the chat itself is deleted, so the
// registry only tracks live chats. Callers must not hold the lock they
// are forgetting.
func (r *ChatLockRegistry) Forget(chatId uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.locks, chatId)
}

func (r *ChatLockRegistry) get(chatId uuid.UUID) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	if l, ok := r.locks[chatId]; ok {
		return l
	}
	l := &sync.Mutex{}
	r.locks[chatId] = l
	return l
}
