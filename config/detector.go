package config

type Detector struct {
	// 是否由內建 cron 排程（false 則僅能透過 `app detect` 由外部排程觸發）
	Enabled bool `mapstructure:"ENABLED" json:"enabled" yaml:"enabled"`
	// cron 排程（六欄位，含秒），預設每小時整點
	Schedule string `mapstructure:"SCHEDULE" json:"schedule" yaml:"schedule"`
	// 掃描視窗（分鐘），預設 60
	WindowMinutes int `mapstructure:"WINDOW_MINUTES" json:"windowMinutes" yaml:"windowMinutes"`
	// 視窗內超過此請求數即標記，預設 100
	VolumeThreshold int `mapstructure:"VOLUME_THRESHOLD" json:"volumeThreshold" yaml:"volumeThreshold"`
}

func (d Detector) ScheduleOrDefault() string {
	if d.Schedule != "" {
		return d.Schedule
	}
	return "0 0 * * * *"
}

func (d Detector) WindowOrDefault() int {
	if d.WindowMinutes > 0 {
		return d.WindowMinutes
	}
	return 60
}

func (d Detector) VolumeThresholdOrDefault() int {
	if d.VolumeThreshold > 0 {
		return d.VolumeThreshold
	}
	return 100
}
