package config

type Blocklist struct {
	// 封鎖名單快取時間（秒），預設 300（5 分鐘）
	CacheTTLSeconds int `mapstructure:"CACHE_TTL_SECONDS" json:"cacheTtlSeconds" yaml:"cacheTtlSeconds"`
}

func (b Blocklist) CacheTTLOrDefault() int {
	if b.CacheTTLSeconds > 0 {
		return b.CacheTTLSeconds
	}
	return 300
}
