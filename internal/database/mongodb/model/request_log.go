package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RequestLog 每筆放行請求的稽核紀錄；寫入後不再修改
type RequestLog struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	IPAddress string             `json:"ipAddress" bson:"ipAddress"`                   // 來源 IP（IPv4/IPv6 字面）
	Timestamp time.Time          `json:"timestamp" bson:"timestamp"`                   // 請求時間
	Path      string             `json:"path" bson:"path"`                             // 請求路徑（上限 500 字元）
	Country   *string            `json:"country,omitempty" bson:"country,omitempty"`   // 來源國家（可缺）
	City      *string            `json:"city,omitempty" bson:"city,omitempty"`         // 來源城市（僅在國家存在時寫入）
	UserAgent string             `json:"userAgent,omitempty" bson:"userAgent,omitempty"`
}

// IPRequestCount 是時間視窗內依 IP 聚合的請求數
type IPRequestCount struct {
	IPAddress string `bson:"_id"`
	Count     int64  `bson:"count"`
}
