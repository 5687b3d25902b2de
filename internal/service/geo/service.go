package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"ipguard/config"
	"ipguard/internal/cache"
	"ipguard/internal/core"
	"ipguard/internal/telemetry"
	"ipguard/utils/iputil"

	"go.uber.org/zap"
)

// Service 依序詢問多個 Provider 解析 IP 地理位置，結果（含空結果）都會進快取。
type Service struct {
	trace     *telemetry.Trace
	metric    *telemetry.Metric
	logger    *zap.Logger
	cache     cache.Cache
	providers []Provider
	config    *config.Configuration
}

func NewService(
	trace *telemetry.Trace,
	metric *telemetry.Metric,
	logger *zap.Logger,
	cacheStore cache.Cache,
	providers []Provider,
	config *config.Configuration,
) *Service {
	return &Service{
		trace:     trace,
		metric:    metric,
		logger:    logger,
		cache:     cacheStore,
		providers: providers,
		config:    config,
	}
}

// Locate 解析 IP 的國家與城市。
// 私有位址不查快取也不打外部 API，直接回空結果。
// 快取命中直接回傳；否則輪詢 Provider，取得 country 即停止，
// 缺的欄位由後續 Provider 補齊。查無結果也會快取，避免重複打外部 API。
func (s *Service) Locate(ctx context.Context, ip string) Location {
	ctx, span, end := s.trace.WithSpan(ctx)
	defer end(nil)

	if ip == "" || iputil.IsPrivate(ip) {
		return Location{}
	}

	key := s.buildKey(ip)
	if cached, err := s.cache.Get(ctx, key); err == nil {
		var loc Location
		if unmarshalErr := json.Unmarshal([]byte(cached), &loc); unmarshalErr == nil {
			s.trace.ApplyTraceAttributes(span, core.TraceGeoLookupMeta{
				IP:      ip,
				Outcome: "cache_hit",
				Country: strOrEmpty(loc.Country),
				City:    strOrEmpty(loc.City),
			})
			return loc
		}
		// 快取內容壞掉就當作未命中，往下重查
		s.logger.Warn("geolocation cache entry corrupt", zap.String("ip", ip))
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.logger.Warn("geolocation cache read failed", zap.String("ip", ip), zap.Error(err))
	}

	result := Location{}
	for _, provider := range s.providers {
		loc, err := provider.Fetch(ctx, ip)
		if err != nil {
			s.logger.Debug("geolocation provider failed",
				zap.String("provider", provider.Name()),
				zap.String("ip", ip),
				zap.Error(err),
			)
			s.countLookup(provider.Name(), "error")
			continue
		}
		if result.Country == nil {
			result.Country = loc.Country
		}
		if result.City == nil {
			result.City = loc.City
		}
		if loc.Empty() {
			s.countLookup(provider.Name(), "empty")
		} else {
			s.countLookup(provider.Name(), "success")
		}
		if result.Country != nil {
			break
		}
	}

	// 不回傳沒有國家的城市
	if result.Country == nil {
		result.City = nil
	}

	if payload, err := json.Marshal(result); err == nil {
		ttl := time.Duration(s.config.Geo.CacheTTLOrDefault()) * time.Second
		if setErr := s.cache.Set(ctx, key, string(payload), ttl); setErr != nil {
			s.logger.Warn("geolocation cache write failed", zap.String("ip", ip), zap.Error(setErr))
		}
	}

	s.trace.ApplyTraceAttributes(span, core.TraceGeoLookupMeta{
		IP:      ip,
		Outcome: "resolved",
		Country: strOrEmpty(result.Country),
		City:    strOrEmpty(result.City),
	})
	return result
}

func (s *Service) countLookup(providerName, outcome string) {
	if s.metric != nil && s.metric.GeoLookupTotal != nil {
		s.metric.GeoLookupTotal.WithLabelValues(providerName, outcome).Inc()
	}
}

func (s *Service) buildKey(ip string) string {
	return fmt.Sprintf("%s:%s:%s", core.RedisKeyServerName, core.RedisKeyGeo, ip)
}

func strOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
