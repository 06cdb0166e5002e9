// Package store holds the Redis-backed aggregate stores. Values are whole
// JSON documents rewritten on every mutation; a corrupt or missing value
// degrades to the empty aggregate and is never surfaced as an error.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/bhmida/bricodirect-backend/internal/cart"
	"github.com/bhmida/bricodirect-backend/pkg/logger"
)

const cartKeyPrefix = "cart:"

type CartStore interface {
	Load(ctx context.Context, cartID string) (*cart.Aggregate, error)
	Save(ctx context.Context, cartID string, aggregate *cart.Aggregate) error
	Delete(ctx context.Context, cartID string) error
}

type cartStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCartStore(client *redis.Client, ttl time.Duration) CartStore {
	return &cartStore{client: client, ttl: ttl}
}

// Load rehydrates the aggregate. Missing and corrupt values both come back
// as an empty cart; only transport failures are errors.
func (s *cartStore) Load(ctx context.Context, cartID string) (*cart.Aggregate, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+cartID).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return cart.New(), nil
		}
		logger.Error("Failed to load cart from store", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return nil, err
	}
	return DecodeAggregate(cartID, data), nil
}

// DecodeAggregate unmarshals a stored cart payload, degrading corrupt data
// to the empty aggregate.
func DecodeAggregate(cartID string, data []byte) *cart.Aggregate {
	var aggregate cart.Aggregate
	if err := json.Unmarshal(data, &aggregate); err != nil {
		logger.Warn("Corrupt cart payload, starting empty", map[string]interface{}{
			"cart_id": cartID,
			"error":   err.Error(),
		})
		return cart.New()
	}
	return &aggregate
}

func (s *cartStore) Save(ctx context.Context, cartID string, aggregate *cart.Aggregate) error {
	data, err := json.Marshal(aggregate)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, cartKeyPrefix+cartID, data, s.ttl).Err(); err != nil {
		logger.Error("Failed to persist cart", err, map[string]interface{}{
			"cart_id": cartID,
		})
		return err
	}
	return nil
}

func (s *cartStore) Delete(ctx context.Context, cartID string) error {
	return s.client.Del(ctx, cartKeyPrefix+cartID).Err()
}
