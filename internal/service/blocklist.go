package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ipguard/config"
	"ipguard/internal/cache"
	"ipguard/internal/core"
	fluentdModel "ipguard/internal/database/fluentd/model"
	"ipguard/internal/database/mongodb/model"
	"ipguard/internal/database/mongodb/repository"
	"ipguard/internal/dto"
	cErr "ipguard/internal/pkg/error"
	"ipguard/internal/telemetry"

	"go.uber.org/zap"
)

const (
	blockedCacheHit  = "1"
	blockedCacheMiss = "0"
)

// BlocklistService 維護 IP 封鎖名單。
// 查詢先走快取，未命中再查資料庫並回填；封鎖與解封會主動更新快取，
// 不必等舊的快取項過期。
type BlocklistService struct {
	trace      *telemetry.Trace
	blockRepo  BlockedIPStore
	cacheStore cache.Cache
	audit      AuditSink
	logger     *zap.Logger
	config     *config.Configuration
}

func NewBlocklistService(
	trace *telemetry.Trace,
	blockRepo BlockedIPStore,
	cacheStore cache.Cache,
	audit AuditSink,
	logger *zap.Logger,
	config *config.Configuration,
) *BlocklistService {
	return &BlocklistService{
		trace:      trace,
		blockRepo:  blockRepo,
		cacheStore: cacheStore,
		audit:      audit,
		logger:     logger,
		config:     config,
	}
}

// IsBlocked 回傳 IP 是否在封鎖名單。
// 快取不可用時直接查資料庫；資料庫也失敗才回錯誤（呼叫端自行決定放行或拒絕）。
func (s *BlocklistService) IsBlocked(ctx context.Context, ip string) (bool, error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	key := s.buildKey(ip)
	cached, err := s.cacheStore.Get(ctx, key)
	if err == nil {
		blocked := cached == blockedCacheHit
		s.trace.ApplyTraceAttributes(span, core.TraceBlocklistMeta{
			IP: ip, Blocked: blocked, CacheHit: true, Op: "is_blocked",
		})
		return blocked, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("blocklist cache read failed", zap.String("ip", ip), zap.Error(err))
	}

	blocked := true
	if _, err := s.blockRepo.GetByIP(ctx, ip); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			end(err)
			return false, cErr.DatabaseError("database IsBlocked error")
		}
		blocked = false
	}

	value := blockedCacheMiss
	if blocked {
		value = blockedCacheHit
	}
	ttl := time.Duration(s.config.Blocklist.CacheTTLOrDefault()) * time.Second
	if setErr := s.cacheStore.Set(ctx, key, value, ttl); setErr != nil {
		s.logger.Warn("blocklist cache write failed", zap.String("ip", ip), zap.Error(setErr))
	}

	s.trace.ApplyTraceAttributes(span, core.TraceBlocklistMeta{
		IP: ip, Blocked: blocked, CacheHit: false, Op: "is_blocked",
	})
	return blocked, nil
}

// Block 將 IP 加入封鎖名單；已存在時只更新 reason（有變才更新）。
// 回傳 (entry, created)。
func (s *BlocklistService) Block(ctx context.Context, ip, reason string) (*model.BlockedIP, bool, error) {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	entry, created, err := s.blockRepo.GetOrCreate(ctx, ip, reason)
	if err != nil {
		end(err)
		return nil, false, cErr.DatabaseError("database Block error")
	}
	if !created && reason != "" && entry.Reason != reason {
		if _, err := s.blockRepo.UpdateReason(ctx, ip, reason); err != nil {
			end(err)
			return nil, false, cErr.DatabaseError("database Block error")
		}
		entry.Reason = reason
	}

	// 主動標記為封鎖，讓還沒過期的 "0" 快取失效
	ttl := time.Duration(s.config.Blocklist.CacheTTLOrDefault()) * time.Second
	if setErr := s.cacheStore.Set(ctx, s.buildKey(ip), blockedCacheHit, ttl); setErr != nil {
		s.logger.Warn("blocklist cache write failed", zap.String("ip", ip), zap.Error(setErr))
	}

	if auditErr := s.audit.LogEvent(ctx, fluentdModel.AuditLog{
		Event:     "ip_blocked",
		IPAddress: ip,
		Reason:    reason,
	}); auditErr != nil {
		s.logger.Warn("audit ip_blocked failed", zap.Error(auditErr))
	}

	s.trace.ApplyTraceAttributes(span, core.TraceBlocklistMeta{
		IP: ip, Blocked: true, Op: "block",
	})
	return entry, created, nil
}

// Unblock 將 IP 移出封鎖名單並清掉快取項；IP 不在名單時回 NotFound。
func (s *BlocklistService) Unblock(ctx context.Context, ip string) error {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	deleted, err := s.blockRepo.DeleteByIP(ctx, ip)
	if err != nil {
		end(err)
		return cErr.DatabaseError("database Unblock error")
	}
	if deleted == 0 {
		return cErr.NotFound(fmt.Sprintf("ip %s is not blocked", ip))
	}

	if delErr := s.cacheStore.Delete(ctx, s.buildKey(ip)); delErr != nil {
		s.logger.Warn("blocklist cache delete failed", zap.String("ip", ip), zap.Error(delErr))
	}

	if auditErr := s.audit.LogEvent(ctx, fluentdModel.AuditLog{
		Event:     "ip_unblocked",
		IPAddress: ip,
	}); auditErr != nil {
		s.logger.Warn("audit ip_unblocked failed", zap.Error(auditErr))
	}

	s.trace.ApplyTraceAttributes(span, core.TraceBlocklistMeta{
		IP: ip, Blocked: false, Op: "unblock",
	})
	return nil
}

// List 封鎖名單（新到舊，分頁）
func (s *BlocklistService) List(ctx context.Context, page, size int64) ([]*dto.BlockedIPResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	entries, err := s.blockRepo.List(ctx, core.ListOptions{Page: page, Size: size})
	if err != nil {
		return nil, cErr.DatabaseError("database ListBlockedIPs error")
	}
	resp := make([]*dto.BlockedIPResponseDto, len(entries))
	for i, e := range entries {
		resp[i] = modelToBlockedIPResponseDto(e)
	}
	return resp, nil
}

func (s *BlocklistService) buildKey(ip string) string {
	return fmt.Sprintf("%s:%s:%s", core.RedisKeyServerName, core.RedisKeyBlockedIP, ip)
}

func modelToBlockedIPResponseDto(m *model.BlockedIP) *dto.BlockedIPResponseDto {
	return &dto.BlockedIPResponseDto{
		ID:        m.ID.Hex(),
		IPAddress: m.IPAddress,
		Reason:    m.Reason,
		CreatedAt: m.CreatedAt,
	}
}
