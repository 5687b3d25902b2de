package service

import (
	fluentdRepo "ipguard/internal/database/fluentd/repository"
	mongoRepo "ipguard/internal/database/mongodb/repository"
	"ipguard/internal/service/geo"

	"github.com/google/wire"
)

var ProviderSet = wire.NewSet(
	ProvideRequestLogStore,
	ProvideBlockedIPStore,
	ProvideSuspiciousIPStore,
	ProvideAuditSink,
	geo.ProviderSet,
	NewBlocklistService,
	NewRequestLogService,
	NewDetectorService,
	NewHealthService,
)

// repository 以介面注入 service
func ProvideRequestLogStore(repo *mongoRepo.RequestLogRepository) RequestLogStore {
	return repo
}

func ProvideBlockedIPStore(repo *mongoRepo.BlockedIPRepository) BlockedIPStore {
	return repo
}

func ProvideSuspiciousIPStore(repo *mongoRepo.SuspiciousIPRepository) SuspiciousIPStore {
	return repo
}

func ProvideAuditSink(repo *fluentdRepo.AuditRepository) AuditSink {
	return repo
}
