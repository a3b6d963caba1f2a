package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"main/model"
	"main/utils"

	"github.com/redis/go-redis/v9"
)

// PublicCache is a Redis read-through cache for resolved public notes.
// Entries are invalidated whenever a mutation can change what a share
// link serves; a cache failure is logged and degrades to the store.
type PublicCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewPublicCache connects to Redis and verifies the connection.
func NewPublicCache(redisURL string, ttl time.Duration) (*PublicCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %v", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %v", err)
	}

	return &PublicCache{client: client, ttl: ttl}, nil
}

func cacheKey(publicID string) string {
	return fmt.Sprintf("public_note:%s", publicID)
}

func (pc *PublicCache) Get(ctx context.Context, publicID string) (*model.PublicNote, bool) {
	data, err := pc.client.Get(ctx, cacheKey(publicID)).Bytes()
	if err != nil {
		if err != redis.Nil {
			utils.TrackError("cache", "get_failed")
			log.Printf("Public cache get failed: %v", err)
		}
		return nil, false
	}

	var note model.PublicNote
	if err := json.Unmarshal(data, &note); err != nil {
		utils.TrackError("cache", "unmarshal_failed")
		return nil, false
	}
	return &note, true
}

func (pc *PublicCache) Set(ctx context.Context, publicID string, note *model.PublicNote) {
	data, err := json.Marshal(note)
	if err != nil {
		utils.TrackError("cache", "marshal_failed")
		return
	}

	if err := pc.client.Set(ctx, cacheKey(publicID), data, pc.ttl).Err(); err != nil {
		utils.TrackError("cache", "set_failed")
		log.Printf("Public cache set failed: %v", err)
	}
}

func (pc *PublicCache) Invalidate(ctx context.Context, publicID string) {
	if err := pc.client.Del(ctx, cacheKey(publicID)).Err(); err != nil {
		utils.TrackError("cache", "invalidate_failed")
		log.Printf("Public cache invalidate failed: %v", err)
	}
}
