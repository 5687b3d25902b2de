package model

// AuditLog 是送往 Fluentd 的營運稽核事件
// Event 例：request_blocked / request_log_failed / ip_blocked / ip_unblocked / suspicious_flagged
type AuditLog struct {
	Event       string `bson:"event" json:"event"`
	IPAddress   string `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
	Path        string `bson:"path,omitempty" json:"path,omitempty"`
	Reason      string `bson:"reason,omitempty" json:"reason,omitempty"`
	Error       string `bson:"error,omitempty" json:"error,omitempty"`
	ProjectName string `bson:"project_name,omitempty" json:"project_name,omitempty"`
	Version     string `bson:"version,omitempty" json:"version,omitempty"`
	EventTS     string `bson:"event_ts" json:"event_ts"`
	LoggedAt    string `bson:"logged_at" json:"logged_at"`
}
