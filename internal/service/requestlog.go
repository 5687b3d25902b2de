package service

import (
	"context"
	"time"
	"unicode/utf8"

	"ipguard/internal/core"
	fluentdModel "ipguard/internal/database/fluentd/model"
	"ipguard/internal/database/mongodb/model"
	"ipguard/internal/dto"
	cErr "ipguard/internal/pkg/error"
	"ipguard/internal/service/geo"
	"ipguard/internal/telemetry"

	"go.uber.org/zap"
)

// 路徑最長保留 500 字元，超過截斷
const maxLoggedPathLength = 500

// truncateToRunes 以字元數截斷，不會切在 multi-byte rune 中間
func truncateToRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}

// RequestLogService 記錄通過封鎖檢查的請求。
// 寫入失敗只記 log、送稽核事件、加計數器，不影響請求處理。
type RequestLogService struct {
	trace   *telemetry.Trace
	metric  *telemetry.Metric
	logRepo RequestLogStore
	audit   AuditSink
	logger  *zap.Logger
}

func NewRequestLogService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logRepo RequestLogStore,
	audit AuditSink,
	logger *zap.Logger,
) *RequestLogService {
	return &RequestLogService{
		trace:   trace,
		metric:  metric,
		logRepo: logRepo,
		audit:   audit,
		logger:  logger,
	}
}

// LogRequest 盡力而為地寫入一筆請求紀錄；不回傳錯誤。
// city 只在有 country 時入庫。
func (s *RequestLogService) LogRequest(ctx context.Context, ip, path, userAgent string, location geo.Location) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	path = truncateToRunes(path, maxLoggedPathLength)

	entry := &model.RequestLog{
		IPAddress: ip,
		Timestamp: time.Now().UTC(),
		Path:      path,
		UserAgent: userAgent,
		Country:   location.Country,
	}
	if location.Country != nil {
		entry.City = location.City
	}

	if _, err := s.logRepo.Create(ctx, entry); err != nil {
		s.logger.Error("request log write failed",
			zap.String("ip", ip),
			zap.String("path", path),
			zap.Error(err),
		)
		if s.metric != nil && s.metric.RequestLogFailTotal != nil {
			s.metric.RequestLogFailTotal.WithLabelValues("database_error").Inc()
		}
		if auditErr := s.audit.LogEvent(ctx, fluentdModel.AuditLog{
			Event:     "request_log_failed",
			IPAddress: ip,
			Path:      path,
			Error:     err.Error(),
		}); auditErr != nil {
			s.logger.Warn("audit request_log_failed failed", zap.Error(auditErr))
		}
	}
}

// List 請求紀錄（新到舊，分頁）
func (s *RequestLogService) List(ctx context.Context, page, size int64) ([]*dto.RequestLogResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	entries, err := s.logRepo.List(ctx, core.ListOptions{Page: page, Size: size})
	if err != nil {
		return nil, cErr.DatabaseError("database ListRequestLogs error")
	}
	resp := make([]*dto.RequestLogResponseDto, len(entries))
	for i, e := range entries {
		resp[i] = &dto.RequestLogResponseDto{
			ID:        e.ID.Hex(),
			IPAddress: e.IPAddress,
			Timestamp: e.Timestamp,
			Path:      e.Path,
			Country:   e.Country,
			City:      e.City,
			UserAgent: e.UserAgent,
		}
	}
	return resp, nil
}
