package config

type RateLimit struct {
	// 匿名流量（以 IP 為 key）每分鐘允許次數，預設 5
	AnonymousPerMinute int `mapstructure:"ANONYMOUS_PER_MINUTE" json:"anonymousPerMinute" yaml:"anonymousPerMinute"`
	// 已驗證用戶（以 userID 為 key）每分鐘允許次數，預設 10
	UserPerMinute int `mapstructure:"USER_PER_MINUTE" json:"userPerMinute" yaml:"userPerMinute"`
}

func (r RateLimit) AnonymousOrDefault() int {
	if r.AnonymousPerMinute > 0 {
		return r.AnonymousPerMinute
	}
	return 5
}

func (r RateLimit) UserOrDefault() int {
	if r.UserPerMinute > 0 {
		return r.UserPerMinute
	}
	return 10
}
