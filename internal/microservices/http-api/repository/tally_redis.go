package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"foodfinder/internal/microservices/http-api/models"

	"github.com/redis/go-redis/v9"
)

// RedisTallyRepo keeps each tally in a hash "tally:item:<id>" with fields upvotes/downvotes.
// Votes use HINCRBY inside MULTI so the returned snapshot is the one the increment produced.
type RedisTallyRepo struct {
	client *redis.Client
}

func NewRedisTallyRepo(client *redis.Client) *RedisTallyRepo {
	return &RedisTallyRepo{client: client}
}

// NewRedisClient parses a redis:// URL and verifies the connection.
func NewRedisClient(ctx context.Context, redisURL, password string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if password != "" {
		opts.Password = password
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second
	// per-call context deadlines must cut socket reads short
	opts.ContextTimeoutEnabled = true

	rdb := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

func tallyKey(itemID int64) string {
	return fmt.Sprintf("tally:item:%d", itemID)
}

func (r *RedisTallyRepo) Get(ctx context.Context, itemID int64) (*models.RatingTally, error) {
	fields, err := r.client.HGetAll(ctx, tallyKey(itemID)).Result()
	if err != nil {
		return nil, unavailable("get tally", err)
	}
	return parseTally(itemID, fields), nil
}

func (r *RedisTallyRepo) GetMany(ctx context.Context, itemIDs []int64) (map[int64]models.RatingTally, error) {
	out := make(map[int64]models.RatingTally, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	pipe := r.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(itemIDs))
	for i, id := range itemIDs {
		cmds[i] = pipe.HGetAll(ctx, tallyKey(id))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, unavailable("get tallies", err)
	}
	for i, id := range itemIDs {
		if fields := cmds[i].Val(); len(fields) > 0 {
			out[id] = *parseTally(id, fields)
		}
	}
	return out, nil
}

func (r *RedisTallyRepo) ApplyVote(ctx context.Context, itemID int64, dir models.VoteDirection) (*models.RatingTally, error) {
	field := "upvotes"
	if dir == models.VoteDown {
		field = "downvotes"
	}
	key := tallyKey(itemID)

	pipe := r.client.TxPipeline()
	pipe.HIncrBy(ctx, key, field, 1)
	pipe.HSet(ctx, key, "updated_at", time.Now().UTC().Format(time.RFC3339Nano))
	all := pipe.HGetAll(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, unavailable("apply vote", err)
	}
	return parseTally(itemID, all.Val()), nil
}

func (r *RedisTallyRepo) Overwrite(ctx context.Context, itemID int64, upvotes, downvotes int64) (*models.RatingTally, error) {
	key := tallyKey(itemID)
	pipe := r.client.TxPipeline()
	pipe.HSet(ctx, key, map[string]any{
		"upvotes":    upvotes,
		"downvotes":  downvotes,
		"updated_at": time.Now().UTC().Format(time.RFC3339Nano),
	})
	all := pipe.HGetAll(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, unavailable("overwrite tally", err)
	}
	return parseTally(itemID, all.Val()), nil
}

func parseTally(itemID int64, fields map[string]string) *models.RatingTally {
	t := models.ZeroTally(itemID)
	if v, ok := fields["upvotes"]; ok {
		t.Upvotes, _ = strconv.ParseInt(v, 10, 64)
	}
	if v, ok := fields["downvotes"]; ok {
		t.Downvotes, _ = strconv.ParseInt(v, 10, 64)
	}
	if ts, ok := fields["updated_at"]; ok {
		t.UpdatedAt, _ = time.Parse(time.RFC3339Nano, ts)
	}
	return &t
}
