// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package identity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sewcraft/api/internal/platform/apperr"
	"github.com/sewcraft/api/internal/platform/constants"
)

// # Volatile Token Repository

// RedisTokenRepository implements TokenRepository using Redis. The key prefix
// and label distinguish the confirmation flow from the reset flow so both can
// share one implementation without colliding in the keyspace.
type RedisTokenRepository struct {
	client *redis.Client
	prefix string
	label  string
}

// NewConfirmTokenRepository creates a Redis-backed store for email
// confirmation tokens.
func NewConfirmTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{
		client: client,
		prefix: constants.RedisPrefixConfirmToken,
		label:  "confirm",
	}
}

// NewResetTokenRepository creates a Redis-backed store for password reset
// tokens.
func NewResetTokenRepository(client *redis.Client) *RedisTokenRepository {
	return &RedisTokenRepository{
		client: client,
		prefix: constants.RedisPrefixResetToken,
		label:  "reset",
	}
}

/*
Set stores a token with its associated userID and TTL.

Parameters:
  - context: context.Context
  - token: string
  - userID: string
  - ttl: time.Duration

Returns:
  - error: Storage failures
*/
func (repository *RedisTokenRepository) Set(context context.Context, token string, userID string, ttl time.Duration) error {

	// Use constants for key prefix
	key := repository.prefix + token

	// Set the token with TTL
	if err := repository.client.Set(context, key, userID, ttl).Err(); err != nil {
		return fmt.Errorf("redis_%s_token_set_failed: %w", repository.label, err)
	}

	// Return nil on success
	return nil
}

/*
Get retrieves the userID for a given token.

Description: Returns apperr.NotFound if the token is absent or expired.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - string: Original UserID
  - error: apperr.NotFound or connectivity errors
*/
func (repository *RedisTokenRepository) Get(context context.Context, token string) (string, error) {

	// Use constants for key prefix
	key := repository.prefix + token

	// Get the token from Redis
	userID, err := repository.client.Get(context, key).Result()

	// Handle errors
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperr.NotFound("Token is invalid or expired")
		}
		return "", fmt.Errorf("redis_%s_token_get_failed: %w", repository.label, err)
	}

	// Return the userID
	return userID, nil
}

/*
Delete removes the token from Redis after successful use.

Parameters:
  - context: context.Context
  - token: string

Returns:
  - error: Deletion failures
*/
func (repository *RedisTokenRepository) Delete(context context.Context, token string) error {

	// Use constants for key prefix
	key := repository.prefix + token

	// Delete the token from Redis
	if err := repository.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("redis_%s_token_delete_failed: %w", repository.label, err)
	}

	// Return nil on success
	return nil
}
