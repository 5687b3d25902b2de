package middleware

import (
	"ipguard/internal/database/redis/repository"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	NewTraceEntry,
	NewCors,
	NewRecovery,
	NewResponse,
	NewUser,
	NewTracking,
	NewRateLimit,
	ProvideQuotaTaker,
)

func ProvideQuotaTaker(repo *repository.RateLimiterRepository) QuotaTaker {
	return repo
}
