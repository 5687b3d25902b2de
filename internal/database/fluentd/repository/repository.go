package repository

import (
	"github.com/google/wire"
)

// 統一管理所有 Fluentd repository
type FluentdRepository struct {
	auditRepository *AuditRepository
}

func NewFluentdRepository(
	auditRepository *AuditRepository,
) *FluentdRepository {
	return &FluentdRepository{
		auditRepository: auditRepository,
	}
}

// Wire 依賴提供
var ProviderSet = wire.NewSet(
	NewAuditRepository,
	NewFluentdRepository)
