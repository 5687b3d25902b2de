package repository

import (
	"context"
	"errors"
	"time"

	"ipguard/internal/core"
	client "ipguard/internal/database/client"
	"ipguard/internal/database/mongodb/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when the requested IP has no entry.
var ErrNotFound = errors.New("blocked ip: not found")

type BlockedIPRepository struct {
	collection *mongo.Collection
}

func NewBlockedIPRepository(mongoClient *client.MongoClient) *BlockedIPRepository {
	repository := &BlockedIPRepository{
		collection: mongoClient.Client().Database(string(core.MongoDBIPGuard)).Collection(string(core.MongoCollectionBlockedIPs)),
	}
	_ = repository.ensureIndexes(context.Background())
	return repository
}

func (repository *BlockedIPRepository) ensureIndexes(contextValue context.Context) error {
	indexModels := []mongo.IndexModel{
		{ // ipAddress 唯一
			Keys:    bson.D{{Key: "ipAddress", Value: 1}},
			Options: options.Index().SetName("idx_ip_unique").SetUnique(true),
		},
		{ // 依建立時間倒序查列表
			Keys:    bson.D{{Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("idx_createdAt_desc"),
		},
	}
	_, _ = repository.collection.Indexes().CreateMany(contextValue, indexModels)
	return nil
}

// GetByIP：精確比對單一 IP；不存在回 ErrNotFound
func (repository *BlockedIPRepository) GetByIP(
	contextValue context.Context,
	ipAddress string,
) (_ *model.BlockedIP, returnedError error) {

	var entry model.BlockedIP
	findError := repository.collection.FindOne(contextValue, bson.M{"ipAddress": ipAddress}).Decode(&entry)
	if errors.Is(findError, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if findError != nil {
		return nil, findError
	}
	return &entry, nil
}

// GetOrCreate：存在即回傳既有 entry（created=false），否則插入新 entry。
// 以 $setOnInsert upsert 實作，與併發寫入互不覆蓋。
func (repository *BlockedIPRepository) GetOrCreate(
	contextValue context.Context,
	ipAddress string,
	reason string,
) (_ *model.BlockedIP, created bool, returnedError error) {

	update := bson.M{
		"$setOnInsert": bson.M{
			"_id":       primitive.NewObjectID(),
			"ipAddress": ipAddress,
			"createdAt": time.Now().UTC(),
			"reason":    reason,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.Before)

	var before model.BlockedIP
	findError := repository.collection.FindOneAndUpdate(contextValue, bson.M{"ipAddress": ipAddress}, update, opts).Decode(&before)
	if errors.Is(findError, mongo.ErrNoDocuments) {
		// upsert 發生：重讀取剛建立的 entry
		entry, getError := repository.GetByIP(contextValue, ipAddress)
		if getError != nil {
			return nil, false, getError
		}
		return entry, true, nil
	}
	if findError != nil {
		return nil, false, findError
	}
	return &before, false, nil
}

// UpdateReason：更新既有 entry 的封鎖原因
func (repository *BlockedIPRepository) UpdateReason(
	contextValue context.Context,
	ipAddress string,
	reason string,
) (_ int64, returnedError error) {

	update := bson.M{"$set": bson.M{"reason": reason}}
	result, updateError := repository.collection.UpdateOne(contextValue, bson.M{"ipAddress": ipAddress}, update)
	if updateError != nil {
		return 0, updateError
	}
	return result.MatchedCount, nil
}

// DeleteByIP：解除封鎖；回傳實際刪除筆數
func (repository *BlockedIPRepository) DeleteByIP(
	contextValue context.Context,
	ipAddress string,
) (_ int64, returnedError error) {

	result, deleteError := repository.collection.DeleteOne(contextValue, bson.M{"ipAddress": ipAddress})
	if deleteError != nil {
		return 0, deleteError
	}
	return result.DeletedCount, nil
}

// List：依建立時間倒序列舉
func (repository *BlockedIPRepository) List(
	contextValue context.Context,
	listOptions core.ListOptions,
) (_ []*model.BlockedIP, returnedError error) {

	findOptions := options.Find().
		SetSkip(listOptions.Page * listOptions.Size).
		SetLimit(listOptions.Size).
		SetSort(bson.M{"createdAt": -1})

	filter := listOptions.Filter
	if filter == nil {
		filter = bson.M{}
	}
	cursor, findError := repository.collection.Find(contextValue, filter, findOptions)
	if findError != nil {
		return nil, findError
	}
	defer cursor.Close(contextValue)

	var entries []*model.BlockedIP
	if returnedError = cursor.All(contextValue, &entries); returnedError != nil {
		return nil, returnedError
	}
	return entries, nil
}
