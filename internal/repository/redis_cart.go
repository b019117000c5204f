package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/zoshlabs/checkout-service/internal/domain"
)

// RedisCartRepository reads the cart the cart subsystem keeps in Redis as a
// JSON blob per user.
type RedisCartRepository struct {
	redis redis.UniversalClient
}

func NewRedisCartRepository(client redis.UniversalClient) *RedisCartRepository {
	return &RedisCartRepository{
		redis: client,
	}
}

func cartKey(userID int64) string {
	return fmt.Sprintf("cart:user:%d", userID)
}

func (r *RedisCartRepository) GetByUserId(ctx context.Context, userID int64) (*domain.Cart, error) {
	cartBytes, err := r.redis.Get(ctx, cartKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, domain.ErrCartNotFound
		}
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(cartBytes, &cart); err != nil {
		return nil, err
	}

	cart.UserID = userID

	return &cart, nil
}

func (r *RedisCartRepository) Set(ctx context.Context, cart domain.Cart) error {
	cartBytes, err := json.Marshal(cart)
	if err != nil {
		return err
	}

	return r.redis.Set(ctx, cartKey(cart.UserID), cartBytes, 0).Err()
}

func (r *RedisCartRepository) Delete(ctx context.Context, userID int64) error {
	return r.redis.Del(ctx, cartKey(userID)).Err()
}
