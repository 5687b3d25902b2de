package core

const ContextTraceKey = "telemetry_trace_ctx"

// ==== 型別安全 span name ====
// 專案全域建議都寫這裡，方便集中管理
type TraceSpanName string

const (
	SpanHttpRequest        TraceSpanName = "http_request"
	SpanTrackingMiddleware TraceSpanName = "tracking_middleware"
	SpanRecoveryMiddleware TraceSpanName = "recovery_middleware"
	SpanCorsMiddleware     TraceSpanName = "cors_middleware"
	SpanResponseMiddleware TraceSpanName = "response_middleware"
	SpanUserMiddleware     TraceSpanName = "user_middleware"
	SpanRateLimitGuard     TraceSpanName = "ratelimit_guard"
	SpanDetectorRun        TraceSpanName = "detector_run"
)

// 指標名稱常數
type MetricName string

const (
	MetricHttpRequestsTotal      MetricName = "requests_total"
	MetricHttpRequestDuration    MetricName = "request_duration_seconds"
	MetricBlockedTotal           MetricName = "blocked_total"
	MetricRateLimitedTotal       MetricName = "rate_limited_total"
	MetricGeoLookupTotal         MetricName = "geo_lookup_total"
	MetricRequestLogFailTotal    MetricName = "request_log_fail_total"
	MetricSuspiciousFlaggedTotal MetricName = "suspicious_flagged_total"
)

// label name 常數
type MetricLabelName string

const (
	MetricLabelEndpoint MetricLabelName = "endpoint"
	MetricLabelStatus   MetricLabelName = "status"
	MetricLabelReason   MetricLabelName = "reason"
	MetricLabelProvider MetricLabelName = "provider"
	MetricLabelOutcome  MetricLabelName = "outcome"
	MetricLabelRule     MetricLabelName = "rule"
	MetricLabelLimiter  MetricLabelName = "limiter"
)

// ==== Trace metadata（struct tag 會由 telemetry.ApplyTraceAttributes 打進 span）====

type TraceHttpServerMeta struct {
	ClientAddr        string `trace:"client.address"`
	HttpRequestMethod string `trace:"http.request.method"`
	HttpRoute         string `trace:"http.route"`
	HttpStatusCode    int    `trace:"http.response.status_code"`
	UrlPath           string `trace:"url.path"`
	UrlScheme         string `trace:"url.scheme"`
	UserAgent         string `trace:"user_agent.original"`
	ServerAddress     string `trace:"server.address"`
	NetworkPeerAddr   string `trace:"network.peer.address"`
	NetworkPeerPort   int    `trace:"network.peer.port"`
	NetworkProtoVer   string `trace:"network.protocol.version"`
	SpanTraceID       string `trace:"span.trace_id"`
}

type TraceTrackingMeta struct {
	ClientIP string `trace:"guard.client_ip"`
	Path     string `trace:"guard.path"`
	Blocked  bool   `trace:"guard.blocked"`
	Country  string `trace:"guard.geo.country"`
	City     string `trace:"guard.geo.city"`
	CacheHit bool   `trace:"guard.geo.cache_hit"`
}

type TraceGeoLookupMeta struct {
	IP       string `trace:"geo.ip"`
	Provider string `trace:"geo.provider"`
	Outcome  string `trace:"geo.outcome"`
	Country  string `trace:"geo.country"`
	City     string `trace:"geo.city"`
}

type TraceBlocklistMeta struct {
	IP       string `trace:"blocklist.ip"`
	Blocked  bool   `trace:"blocklist.blocked"`
	CacheHit bool   `trace:"blocklist.cache_hit"`
	Op       string `trace:"blocklist.op"`
}

type TraceRateLimitMeta struct {
	Limiter   string `trace:"ratelimit.limiter"`
	Key       string `trace:"ratelimit.key"`
	Limit     int    `trace:"ratelimit.limit"`
	WindowSec int64  `trace:"ratelimit.window_sec"`
	Remaining int    `trace:"ratelimit.remaining"`
	TTL       int64  `trace:"ratelimit.ttl_sec"`
	Blocked   bool   `trace:"ratelimit.blocked"`
	Op        string `trace:"ratelimit.op"`
}

type TraceDetectorMeta struct {
	WindowMinutes  int   `trace:"detector.window_minutes"`
	ScannedIPs     int   `trace:"detector.scanned_ips"`
	VolumeFlags    int   `trace:"detector.volume_flags"`
	SensitiveFlags int   `trace:"detector.sensitive_flags"`
	DurationMs     int64 `trace:"detector.duration_ms"`
}

type TracePanicMeta struct {
	Path       string  `trace:"http.url.path"`
	Method     string  `trace:"http.request.method"`
	ClientIP   string  `trace:"client.address"`
	UserAgent  string  `trace:"user_agent.original"`
	DurationMs float64 `trace:"http.server.duration_ms"`
	Message    string  `trace:"exception.message"`
	Stack      string  `trace:"exception.stacktrace"`
	Status     int     `trace:"http.response.status_code"`
}

type TraceResponseMeta struct {
	Path       string  `trace:"url.path"`
	Method     string  `trace:"http.request.method"`
	Status     int     `trace:"http.response.status_code"`
	Message    string  `trace:"response.message"`
	Code       int     `trace:"response.code"`
	DurationMs float64 `trace:"http.server.duration_ms"`
	Data       string  `trace:"response.data_preview"`
}

type TraceUserMiddlewareMeta struct {
	UserID string `trace:"user.id"`
	Status string `trace:"middleware.status"`
}
