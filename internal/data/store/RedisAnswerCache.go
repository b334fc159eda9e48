package store

import (
	"context"
	"encoding/json"

	"github.com/avuppal/driveRAG/internal/config"
	"github.com/avuppal/driveRAG/internal/data/redisStore"
	"github.com/avuppal/driveRAG/internal/domain/commonModels"
	"github.com/avuppal/driveRAG/pkg/logger_i"
)

// RedisAnswerCache holds finished answers keyed by the query hash. Entries
// expire on their TTL; a lookup failure of any kind is just a miss.
type RedisAnswerCache struct {
	store  *redisStore.Store
	logger *logger_i.Logger
}

func GetRedisAnswerCache(ctx context.Context) *RedisAnswerCache {
	inner := redisStore.GetRedisStore(ctx, config.RedisAnswerCache)
	if inner == nil {
		return nil
	}
	return &RedisAnswerCache{
		store:  inner,
		logger: logger_i.NewLogger("AnswerCache"),
	}
}

func (c *RedisAnswerCache) Get(ctx context.Context, key string) (commonModels.QueryAnswer, bool) {
	var answer commonModels.QueryAnswer
	val, err := c.store.Get(ctx, key)
	if err != nil {
		if !c.store.IsNil(err) {
			c.logger.Error("answer cache lookup failed", "error", err)
		}
		return answer, false
	}
	if err := json.Unmarshal([]byte(val), &answer); err != nil {
		c.logger.Error("answer cache entry is corrupt", "error", err)
		return answer, false
	}
	return answer, true
}

func (c *RedisAnswerCache) Put(ctx context.Context, key string, answer commonModels.QueryAnswer) error {
	data, err := json.Marshal(answer)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, data, config.RedisAnswerCacheTTL)
}

func TestAnswerCache(store *redisStore.Store) *RedisAnswerCache {
	return &RedisAnswerCache{
		store:  store,
		logger: logger_i.NewLogger("test answer cache"),
	}
}
