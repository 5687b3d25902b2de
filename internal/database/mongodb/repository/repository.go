package repository

import (
	"github.com/google/wire"
)

// 統一管理所有 MongoDB repository
type MongoDBRepository struct {
	requestLogRepo   *RequestLogRepository
	blockedIPRepo    *BlockedIPRepository
	suspiciousIPRepo *SuspiciousIPRepository
}

// 建立 MongoDB repository 物件
func NewMongoDBRepository(
	requestLogRepo *RequestLogRepository,
	blockedIPRepo *BlockedIPRepository,
	suspiciousIPRepo *SuspiciousIPRepository,
) *MongoDBRepository {
	return &MongoDBRepository{
		requestLogRepo:   requestLogRepo,
		blockedIPRepo:    blockedIPRepo,
		suspiciousIPRepo: suspiciousIPRepo,
	}
}

// Wire 依賴提供
var ProviderSet = wire.NewSet(
	NewRequestLogRepository,
	NewBlockedIPRepository,
	NewSuspiciousIPRepository,
	NewMongoDBRepository)
