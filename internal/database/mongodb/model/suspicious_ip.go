package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SuspiciousIP 偵測器標記的可疑 IP；ipAddress 唯一，reason 以首次寫入為準
type SuspiciousIP struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	IPAddress string             `json:"ipAddress" bson:"ipAddress"`
	Reason    string             `json:"reason" bson:"reason"`
	FlaggedAt time.Time          `json:"flaggedAt" bson:"flaggedAt"`
}
