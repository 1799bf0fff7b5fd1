package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"movie-rec-go/internal/model"
)

// 每个用户保留的历史查询条数上限。
const maxHistoryPerUser = 20

// QueryHistoryRepository 定义了用户查询历史的操作接口。
type QueryHistoryRepository interface {
	Append(ctx context.Context, userID uint, record model.QueryRecord) error
	List(ctx context.Context, userID uint) ([]model.QueryRecord, error)
	Clear(ctx context.Context, userID uint) error
}

type redisQueryHistoryRepository struct {
	redisClient *redis.Client
}

// NewQueryHistoryRepository 创建一个新的 QueryHistoryRepository 实例。
func NewQueryHistoryRepository(redisClient *redis.Client) QueryHistoryRepository {
	return &redisQueryHistoryRepository{redisClient: redisClient}
}

func (r *redisQueryHistoryRepository) historyKey(userID uint) string {
	return fmt.Sprintf("user:%d:query_history", userID)
}

// Append 向用户历史列表头部追加一条查询记录，超出上限的旧记录被裁剪。
func (r *redisQueryHistoryRepository) Append(ctx context.Context, userID uint, record model.QueryRecord) error {
	jsonData, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal query record: %w", err)
	}

	key := r.historyKey(userID)
	pipe := r.redisClient.Pipeline()
	pipe.LPush(ctx, key, jsonData)
	pipe.LTrim(ctx, key, 0, maxHistoryPerUser-1)
	pipe.Expire(ctx, key, 30*24*time.Hour)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to append query history: %w", err)
	}
	return nil
}

// List 按时间倒序返回用户的历史查询记录。
func (r *redisQueryHistoryRepository) List(ctx context.Context, userID uint) ([]model.QueryRecord, error) {
	items, err := r.redisClient.LRange(ctx, r.historyKey(userID), 0, maxHistoryPerUser-1).Result()
	if err != nil {
		if err == redis.Nil {
			return []model.QueryRecord{}, nil
		}
		return nil, fmt.Errorf("failed to list query history: %w", err)
	}

	records := make([]model.QueryRecord, 0, len(items))
	for _, item := range items {
		var record model.QueryRecord
		if err := json.Unmarshal([]byte(item), &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// Clear 删除用户的全部历史查询记录。
func (r *redisQueryHistoryRepository) Clear(ctx context.Context, userID uint) error {
	return r.redisClient.Del(ctx, r.historyKey(userID)).Err()
}
