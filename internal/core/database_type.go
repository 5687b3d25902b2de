package core

import "go.mongodb.org/mongo-driver/bson"

// ─── Database Types ────────────────────────────────────────────────────────────

// DatabaseType defines the type of database
type DatabaseType string

const (
	Mongo DatabaseType = "mongo"
	Redis DatabaseType = "redis"
)

// Databases contains all supported database types
var Databases = []DatabaseType{Mongo, Redis}

type MongoDatabaseName string
type MongoCollection string
type RedisKey string
type FluentdSubTag string

// ─── MongoDB ───────────────────────────────────────────────────────────────────
const (
	MongoDBIPGuard MongoDatabaseName = "ipguard"
)

// MongoDB collections
const (
	MongoCollectionRequestLogs   MongoCollection = "request_logs"
	MongoCollectionBlockedIPs    MongoCollection = "blocked_ips"
	MongoCollectionSuspiciousIPs MongoCollection = "suspicious_ips"
)

// ─── Redis Keys ────────────────────────────────────────────────────────────────

const (
	RedisKeyServerName RedisKey = "ipguard"     // key 前綴（伺服器名稱）
	RedisKeyBlockedIP  RedisKey = "blocked_ip"  // 封鎖名單快取
	RedisKeyGeo        RedisKey = "geolocation" // 地理位置快取
	RedisKeyRateLimit  RedisKey = "ratelimit"   // 流量限制計數
)

const (
	FluentdAudit FluentdSubTag = "audit_log"
)

type ListOptions struct {
	Filter bson.M `json:"filter,omitempty" bson:"filter,omitempty"`
	Page   int64  `json:"page,omitempty" bson:"page,omitempty"`
	Size   int64  `json:"size,omitempty" bson:"size,omitempty"`
}
