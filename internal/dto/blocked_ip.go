package dto

import "time"

type BlockIPDto struct {
	IPAddress string `json:"ipAddress" binding:"required,ip"` // IPv4 或 IPv6
	Reason    string `json:"reason" binding:"max=200"`
}

type BlockedIPResponseDto struct {
	ID        string    `json:"id"`
	IPAddress string    `json:"ipAddress"`
	CreatedAt time.Time `json:"createdAt"`
	Reason    string    `json:"reason,omitempty"`
}
