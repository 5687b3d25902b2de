package config

type Geo struct {
	// 單一 provider 的 HTTP timeout（秒），預設 5
	TimeoutSeconds int `mapstructure:"TIMEOUT_SECONDS" json:"timeoutSeconds" yaml:"timeoutSeconds"`
	// 查詢結果快取時間（秒），預設 86400（24 小時）
	CacheTTLSeconds int `mapstructure:"CACHE_TTL_SECONDS" json:"cacheTtlSeconds" yaml:"cacheTtlSeconds"`
	// 對外查詢時帶的 User-Agent
	UserAgent string `mapstructure:"USER_AGENT" json:"userAgent" yaml:"userAgent"`
}

func (g Geo) TimeoutOrDefault() int {
	if g.TimeoutSeconds > 0 {
		return g.TimeoutSeconds
	}
	return 5
}

func (g Geo) CacheTTLOrDefault() int {
	if g.CacheTTLSeconds > 0 {
		return g.CacheTTLSeconds
	}
	return 86400
}

func (g Geo) UserAgentOrDefault() string {
	if g.UserAgent != "" {
		return g.UserAgent
	}
	return "ipguard/1.0"
}
