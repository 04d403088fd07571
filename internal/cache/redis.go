package cache

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const playerTTL = 24 * time.Hour

// PlayerCache remembers which player a signed-in user is inside a room, so
// the lookup backing most requests skips the database. The store stays the
// source of truth; entries expire and are rewritten on every join.
type PlayerCache struct {
	client *redis.Client
}

// New connects to Redis at redisURL. Returns an error when the URL does not
// parse or the server does not answer a ping.
func New(redisURL string) (*PlayerCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, err
	}
	log.Printf("redis connected addr=%s", opts.Addr)
	return &PlayerCache{client: client}, nil
}

// GetPlayerID is safe on a nil cache; it just reports a miss.
func (c *PlayerCache) GetPlayerID(ctx context.Context, roomID, userID uint) (uint, bool) {
	if c == nil {
		return 0, false
	}
	raw, err := c.client.Get(ctx, playerKey(roomID, userID)).Result()
	if err != nil {
		return 0, false
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (c *PlayerCache) SetPlayerID(ctx context.Context, roomID, userID, playerID uint) {
	if c == nil {
		return
	}
	if err := c.client.Set(ctx, playerKey(roomID, userID), strconv.FormatUint(uint64(playerID), 10), playerTTL).Err(); err != nil {
		log.Printf("player cache set failed room_id=%d user_id=%d error=%v", roomID, userID, err)
	}
}

func (c *PlayerCache) Close() error {
	if c == nil {
		return nil
	}
	return c.client.Close()
}

func playerKey(roomID, userID uint) string {
	return fmt.Sprintf("player:%d:%d", roomID, userID)
}
