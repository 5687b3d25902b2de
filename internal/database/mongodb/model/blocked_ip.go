package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// BlockedIP 封鎖名單；ipAddress 唯一
type BlockedIP struct {
	ID        primitive.ObjectID `json:"id" bson:"_id"`
	IPAddress string             `json:"ipAddress" bson:"ipAddress"`
	CreatedAt time.Time          `json:"createdAt" bson:"createdAt"`
	Reason    string             `json:"reason,omitempty" bson:"reason,omitempty"` // 封鎖原因（可空）
}
