package service

import (
	"context"
	"fmt"
	"time"

	"ipguard/config"
	"ipguard/internal/core"
	fluentdModel "ipguard/internal/database/fluentd/model"
	"ipguard/internal/dto"
	cErr "ipguard/internal/pkg/error"
	"ipguard/internal/telemetry"

	"go.uber.org/zap"
)

// 敏感路徑：任何視窗內碰過這些路徑的 IP 一律標記
var sensitivePaths = []string{"/admin", "/login"}

// DetectorSummary 單次掃描結果
type DetectorSummary struct {
	WindowMinutes  int           `json:"windowMinutes"`
	ScannedIPs     int           `json:"scannedIps"`
	VolumeFlags    int           `json:"volumeFlags"`
	SensitiveFlags int           `json:"sensitiveFlags"`
	Duration       time.Duration `json:"-"`
}

// DetectorService 定期掃描請求紀錄，標記可疑 IP。
// 同一 IP 只會有一筆標記，先寫入者的 reason 保留。
type DetectorService struct {
	trace          *telemetry.Trace
	metric         *telemetry.Metric
	logRepo        RequestLogStore
	suspiciousRepo SuspiciousIPStore
	audit          AuditSink
	logger         *zap.Logger
	config         *config.Configuration
}

func NewDetectorService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logRepo RequestLogStore,
	suspiciousRepo SuspiciousIPStore,
	audit AuditSink,
	logger *zap.Logger,
	config *config.Configuration,
) *DetectorService {
	return &DetectorService{
		trace:          trace,
		metric:         metric,
		logRepo:        logRepo,
		suspiciousRepo: suspiciousRepo,
		audit:          audit,
		logger:         logger,
		config:         config,
	}
}

// Run 執行一次掃描：
//  1. 視窗內請求數超過門檻的 IP
//  2. 視窗內存取過敏感路徑的 IP
//
// 任一規則失敗不會中斷另一規則；兩者都失敗才回錯誤。
func (s *DetectorService) Run(ctx context.Context) (*DetectorSummary, error) {
	ctx, span, end := s.trace.WithSpan(ctx, string(core.SpanDetectorRun))
	defer end(nil)

	start := time.Now()
	windowMinutes := s.config.Detector.WindowOrDefault()
	since := start.UTC().Add(-time.Duration(windowMinutes) * time.Minute)
	threshold := int64(s.config.Detector.VolumeThresholdOrDefault())

	summary := &DetectorSummary{WindowMinutes: windowMinutes}

	counts, volumeErr := s.logRepo.CountByIPSince(ctx, since)
	if volumeErr != nil {
		s.logger.Error("detector volume scan failed", zap.Error(volumeErr))
	} else {
		summary.ScannedIPs = len(counts)
		for _, c := range counts {
			if c.Count <= threshold {
				continue
			}
			reason := fmt.Sprintf("%d requests in the last hour", c.Count)
			if s.flag(ctx, c.IPAddress, reason, "volume") {
				summary.VolumeFlags++
			}
		}
	}

	entries, sensitiveErr := s.logRepo.FindByPathsSince(ctx, since, sensitivePaths)
	if sensitiveErr != nil {
		s.logger.Error("detector sensitive path scan failed", zap.Error(sensitiveErr))
	} else {
		seen := make(map[string]bool)
		for _, e := range entries {
			if seen[e.IPAddress] {
				continue
			}
			seen[e.IPAddress] = true
			reason := "Accessed sensitive path: " + e.Path
			if s.flag(ctx, e.IPAddress, reason, "sensitive_path") {
				summary.SensitiveFlags++
			}
		}
	}

	summary.Duration = time.Since(start)
	s.trace.ApplyTraceAttributes(span, core.TraceDetectorMeta{
		WindowMinutes:  summary.WindowMinutes,
		ScannedIPs:     summary.ScannedIPs,
		VolumeFlags:    summary.VolumeFlags,
		SensitiveFlags: summary.SensitiveFlags,
		DurationMs:     summary.Duration.Milliseconds(),
	})
	s.logger.Info("detector run finished",
		zap.Int("windowMinutes", summary.WindowMinutes),
		zap.Int("scannedIps", summary.ScannedIPs),
		zap.Int("volumeFlags", summary.VolumeFlags),
		zap.Int("sensitiveFlags", summary.SensitiveFlags),
		zap.Duration("duration", summary.Duration),
	)

	if volumeErr != nil && sensitiveErr != nil {
		end(volumeErr)
		return summary, cErr.DatabaseError("database detector scan error")
	}
	return summary, nil
}

// flag 寫入可疑名單；已存在（含同批次被別的規則先寫入）回 false
func (s *DetectorService) flag(ctx context.Context, ip, reason, rule string) bool {
	created, err := s.suspiciousRepo.CreateIfAbsent(ctx, ip, reason)
	if err != nil {
		s.logger.Error("detector flag failed",
			zap.String("ip", ip),
			zap.String("rule", rule),
			zap.Error(err),
		)
		return false
	}
	if !created {
		return false
	}
	if s.metric != nil && s.metric.SuspiciousFlaggedTotal != nil {
		s.metric.SuspiciousFlaggedTotal.WithLabelValues(rule).Inc()
	}
	if auditErr := s.audit.LogEvent(ctx, fluentdModel.AuditLog{
		Event:     "suspicious_flagged",
		IPAddress: ip,
		Reason:    reason,
	}); auditErr != nil {
		s.logger.Warn("audit suspicious_flagged failed", zap.Error(auditErr))
	}
	return true
}

// ListSuspicious 可疑名單（新到舊，分頁）
func (s *DetectorService) ListSuspicious(ctx context.Context, page, size int64) ([]*dto.SuspiciousIPResponseDto, error) {
	ctx, _, end := s.trace.WithSpan(ctx)
	defer end(nil)

	entries, err := s.suspiciousRepo.List(ctx, core.ListOptions{Page: page, Size: size})
	if err != nil {
		return nil, cErr.DatabaseError("database ListSuspiciousIPs error")
	}
	resp := make([]*dto.SuspiciousIPResponseDto, len(entries))
	for i, e := range entries {
		resp[i] = &dto.SuspiciousIPResponseDto{
			ID:        e.ID.Hex(),
			IPAddress: e.IPAddress,
			Reason:    e.Reason,
			FlaggedAt: e.FlaggedAt,
		}
	}
	return resp, nil
}
