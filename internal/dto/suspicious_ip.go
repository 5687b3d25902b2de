package dto

import "time"

type SuspiciousIPResponseDto struct {
	ID        string    `json:"id"`
	IPAddress string    `json:"ipAddress"`
	Reason    string    `json:"reason"`
	FlaggedAt time.Time `json:"flaggedAt"`
}
