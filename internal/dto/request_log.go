package dto

import "time"

type RequestLogResponseDto struct {
	ID        string    `json:"id"`
	IPAddress string    `json:"ipAddress"`
	Timestamp time.Time `json:"timestamp"`
	Path      string    `json:"path"`
	Country   *string   `json:"country,omitempty"`
	City      *string   `json:"city,omitempty"`
	UserAgent string    `json:"userAgent,omitempty"`
}
