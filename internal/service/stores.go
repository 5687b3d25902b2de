package service

import (
	"context"
	"time"

	"ipguard/internal/core"
	fluentdModel "ipguard/internal/database/fluentd/model"
	"ipguard/internal/database/mongodb/model"
)

// 持久層以介面注入，方便測試替身；實作為 mongodb repository

type RequestLogStore interface {
	Create(ctx context.Context, entry *model.RequestLog) (*model.RequestLog, error)
	CountByIPSince(ctx context.Context, since time.Time) ([]model.IPRequestCount, error)
	FindByPathsSince(ctx context.Context, since time.Time, paths []string) ([]*model.RequestLog, error)
	List(ctx context.Context, opts core.ListOptions) ([]*model.RequestLog, error)
}

type BlockedIPStore interface {
	GetByIP(ctx context.Context, ip string) (*model.BlockedIP, error)
	GetOrCreate(ctx context.Context, ip, reason string) (*model.BlockedIP, bool, error)
	UpdateReason(ctx context.Context, ip, reason string) (int64, error)
	DeleteByIP(ctx context.Context, ip string) (int64, error)
	List(ctx context.Context, opts core.ListOptions) ([]*model.BlockedIP, error)
}

type SuspiciousIPStore interface {
	CreateIfAbsent(ctx context.Context, ip, reason string) (bool, error)
	List(ctx context.Context, opts core.ListOptions) ([]*model.SuspiciousIP, error)
}

// AuditSink 營運稽核事件出口；實作為 fluentd repository
type AuditSink interface {
	LogEvent(ctx context.Context, event fluentdModel.AuditLog) error
}
