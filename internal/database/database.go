package database

import (
	"ipguard/internal/cache"
	client "ipguard/internal/database/client"
	fluentdRepo "ipguard/internal/database/fluentd/repository"
	mongoRepo "ipguard/internal/database/mongodb/repository"
	redisRepo "ipguard/internal/database/redis/repository"

	"github.com/google/wire"
	"github.com/redis/go-redis/v9"
)

// ProviderSet 定義所有 DB Client 與 repository 的依賴
var ProviderSet = wire.NewSet(
	client.NewMongoClient,
	client.NewRedisClient,
	client.NewFluentdClient,
	ProvideRedisClient,
	ProvideCache,
	mongoRepo.ProviderSet,
	redisRepo.ProviderSet,
	fluentdRepo.ProviderSet,
)

func ProvideRedisClient(redisClient *client.RedisClient) *redis.Client {
	return redisClient.Client()
}

// ProvideCache 以 Redis 作為共用快取後端
func ProvideCache(client *redis.Client) cache.Cache {
	return cache.NewRedisCache(client)
}
