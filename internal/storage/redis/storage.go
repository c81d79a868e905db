package redis

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/holdem/internal/model"
	"github.com/mcoot/holdem/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
	keys   keyspace
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns
	opts.DialTimeout = cfg.DialTimeout

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.DialTimeout)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}

	return NewWithClient(client, cfg), nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
		keys:   keyspace(cfg.KeyPrefix),
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Table operations

func (s *Storage) SaveTable(ctx context.Context, table *model.Table) error {
	data, err := json.Marshal(table)
	if err != nil {
		return err
	}

	key := s.keys.table(table.ID)
	pipe := s.client.Pipeline()
	pipe.Set(ctx, key, data, s.cfg.TableTTL)
	pipe.SAdd(ctx, s.keys.tablesIndex(), key)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) GetTable(ctx context.Context, id model.GameID) (*model.Table, error) {
	data, err := s.client.Get(ctx, s.keys.table(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrTableNotFound
		}
		return nil, err
	}

	var table model.Table
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	return &table, nil
}

func (s *Storage) ListTables(ctx context.Context) ([]*model.Table, error) {
	keys, err := s.client.SMembers(ctx, s.keys.tablesIndex()).Result()
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []*model.Table{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	tables := make([]*model.Table, 0, len(values))
	var expired []interface{}
	for i, val := range values {
		if val == nil {
			expired = append(expired, keys[i])
			continue
		}
		var table model.Table
		if err := json.Unmarshal([]byte(val.(string)), &table); err != nil {
			continue // Skip invalid data
		}
		tables = append(tables, &table)
	}

	// Drop index entries whose table has expired
	if len(expired) > 0 {
		if err := s.client.SRem(ctx, s.keys.tablesIndex(), expired...).Err(); err != nil {
			return nil, err
		}
	}

	storage.SortTables(tables)
	return tables, nil
}

func (s *Storage) DeleteTable(ctx context.Context, id model.GameID) error {
	key := s.keys.table(id)
	pipe := s.client.Pipeline()
	pipe.Del(ctx, key, s.keys.hands(id))
	pipe.SRem(ctx, s.keys.tablesIndex(), key)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Storage) TableExists(ctx context.Context, id model.GameID) (bool, error) {
	exists, err := s.client.Exists(ctx, s.keys.table(id)).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// Hand history operations

func (s *Storage) SaveHand(ctx context.Context, hand *model.HandRecord) error {
	data, err := json.Marshal(hand)
	if err != nil {
		return err
	}

	key := s.keys.hands(hand.GameID)
	pipe := s.client.Pipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, int64(s.cfg.HandHistoryLimit)-1)
	pipe.Expire(ctx, key, s.cfg.HandTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *Storage) ListHands(ctx context.Context, gameID model.GameID, limit int) ([]*model.HandRecord, error) {
	stop := int64(-1)
	if limit > 0 {
		stop = int64(limit) - 1
	}

	values, err := s.client.LRange(ctx, s.keys.hands(gameID), 0, stop).Result()
	if err != nil {
		return nil, err
	}

	hands := make([]*model.HandRecord, 0, len(values))
	for _, val := range values {
		var hand model.HandRecord
		if err := json.Unmarshal([]byte(val), &hand); err != nil {
			continue // Skip invalid data
		}
		hands = append(hands, &hand)
	}
	return hands, nil
}
