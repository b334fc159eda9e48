package store

import (
	"context"
	"sync"

	"github.com/avuppal/driveRAG/internal/domain/commonModels"
)

// InMemoryAnswerCache is the fallback when redis is unreachable. No TTL,
// entries live for the process lifetime.
type InMemoryAnswerCache struct {
	mu      *sync.RWMutex
	answers map[string]commonModels.QueryAnswer
}

func InitInMemoryAnswerCache() *InMemoryAnswerCache {
	return &InMemoryAnswerCache{
		mu:      new(sync.RWMutex),
		answers: make(map[string]commonModels.QueryAnswer),
	}
}

func (c *InMemoryAnswerCache) Get(ctx context.Context, key string) (commonModels.QueryAnswer, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	answer, found := c.answers[key]
	return answer, found
}

func (c *InMemoryAnswerCache) Put(ctx context.Context, key string, answer commonModels.QueryAnswer) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.answers[key] = answer
	return nil
}
