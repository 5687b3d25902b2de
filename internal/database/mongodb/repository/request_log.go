package repository

import (
	"context"
	"fmt"
	"time"

	"ipguard/internal/core"
	client "ipguard/internal/database/client"
	"ipguard/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type RequestLogRepository struct {
	collection *mongo.Collection
}

func NewRequestLogRepository(mongoClient *client.MongoClient) *RequestLogRepository {
	repository := &RequestLogRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBIPGuard)).Collection(string(core.MongoCollectionRequestLogs)),
	}
	// 啟動時建立常用索引（冪等、存在即跳過）
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *RequestLogRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{ // 依時間倒序查列表 / 視窗掃描
			Keys:    bson.D{{Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_timestamp_desc"),
		},
		{ // 偵測器依 IP 聚合
			Keys:    bson.D{{Key: "ipAddress", Value: 1}, {Key: "timestamp", Value: -1}},
			Options: options.Index().SetName("idx_ip_timestamp"),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

// Create：單文件插入（append-only，不提供更新）
func (repository *RequestLogRepository) Create(
	contextValue context.Context,
	entry *model.RequestLog,
) (_ *model.RequestLog, returnedError error) {

	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	insertResult, insertError := repository.collection.InsertOne(contextValue, entry)
	if insertError != nil {
		return nil, insertError
	}
	objectID, ok := insertResult.InsertedID.(primitive.ObjectID)
	if !ok {
		return nil, fmt.Errorf("unexpected InsertedID type: %T", insertResult.InsertedID)
	}
	entry.ID = objectID
	return entry, nil
}

// CountByIPSince：聚合 timestamp >= since 的請求數，依 IP 分組
func (repository *RequestLogRepository) CountByIPSince(
	contextValue context.Context,
	since time.Time,
) (_ []model.IPRequestCount, returnedError error) {

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"timestamp": bson.M{"$gte": since.UTC()}}}},
		{{Key: "$group", Value: bson.M{"_id": "$ipAddress", "count": bson.M{"$sum": 1}}}},
	}
	cursor, aggregateError := repository.collection.Aggregate(contextValue, pipeline)
	if aggregateError != nil {
		return nil, aggregateError
	}
	defer cursor.Close(contextValue)

	var counts []model.IPRequestCount
	if returnedError = cursor.All(contextValue, &counts); returnedError != nil {
		return nil, returnedError
	}
	return counts, nil
}

// FindByPathsSince：查 timestamp >= since 且 path 在指定集合內的紀錄
func (repository *RequestLogRepository) FindByPathsSince(
	contextValue context.Context,
	since time.Time,
	paths []string,
) (_ []*model.RequestLog, returnedError error) {

	filter := bson.M{
		"timestamp": bson.M{"$gte": since.UTC()},
		"path":      bson.M{"$in": paths},
	}
	cursor, findError := repository.collection.Find(contextValue, filter)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var entries []*model.RequestLog
	if returnedError = cursor.All(contextValue, &entries); returnedError != nil {
		return nil, returnedError
	}
	return entries, nil
}

// List：分頁查詢，固定時間倒序（page 為 0 起算）
func (repository *RequestLogRepository) List(
	contextValue context.Context,
	listOptions core.ListOptions,
) (_ []*model.RequestLog, returnedError error) {

	findOptions := options.Find().
		SetSkip(listOptions.Page * listOptions.Size).
		SetLimit(listOptions.Size).
		SetSort(bson.M{"timestamp": -1})

	filter := listOptions.Filter
	if filter == nil {
		filter = bson.M{}
	}
	cursor, findError := repository.collection.Find(contextValue, filter, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var entries []*model.RequestLog
	if returnedError = cursor.All(contextValue, &entries); returnedError != nil {
		return nil, returnedError
	}
	return entries, nil
}
