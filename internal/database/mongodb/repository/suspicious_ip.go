package repository

import (
	"context"
	"time"

	"ipguard/internal/core"
	client "ipguard/internal/database/client"
	"ipguard/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type SuspiciousIPRepository struct {
	collection *mongo.Collection
}

func NewSuspiciousIPRepository(mongoClient *client.MongoClient) *SuspiciousIPRepository {
	repository := &SuspiciousIPRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBIPGuard)).Collection(string(core.MongoCollectionSuspiciousIPs)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *SuspiciousIPRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{ // ipAddress 唯一：同一 IP 至多一筆，跨併發執行也成立
			Keys:    bson.D{{Key: "ipAddress", Value: 1}},
			Options: options.Index().SetName("idx_ip_unique").SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "flaggedAt", Value: -1}},
			Options: options.Index().SetName("idx_flaggedAt_desc"),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

// CreateIfAbsent 以 $setOnInsert upsert 寫入；已存在則不動既有 reason（先寫者勝）。
// 回傳 created=true 表示本次呼叫實際建立了 entry。
func (repository *SuspiciousIPRepository) CreateIfAbsent(
	contextValue context.Context,
	ipAddress string,
	reason string,
) (created bool, returnedError error) {

	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"ipAddress": ipAddress,
			"reason":    reason,
			"flaggedAt": time.Now().UTC(),
		},
	}
	result, updateError := repository.collection.UpdateOne(
		contextValue,
		bson.M{"ipAddress": ipAddress},
		update,
		options.Update().SetUpsert(true),
	)
	if updateError != nil {
		// 併發 upsert 撞唯一索引：另一端已建立，視為未建立而非錯誤
		if mongo.IsDuplicateKeyError(updateError) {
			return false, nil
		}
		return false, updateError
	}
	return result.UpsertedCount > 0, nil
}

// List：依標記時間倒序列舉
func (repository *SuspiciousIPRepository) List(
	contextValue context.Context,
	listOptions core.ListOptions,
) (_ []*model.SuspiciousIP, returnedError error) {

	findOptions := options.Find().
		SetSkip(listOptions.Page * listOptions.Size).
		SetLimit(listOptions.Size).
		SetSort(bson.M{"flaggedAt": -1})

	filter := listOptions.Filter
	if filter == nil {
		filter = bson.M{}
	}
	cursor, findError := repository.collection.Find(contextValue, filter, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var entries []*model.SuspiciousIP
	if returnedError = cursor.All(contextValue, &entries); returnedError != nil {
		return nil, returnedError
	}
	return entries, nil
}
