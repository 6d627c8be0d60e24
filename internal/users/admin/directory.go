// Copyright (c) 2026 SewCraft. All rights reserved.
// Author: dev@sewcraft.app

package admin

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/sewcraft/api/internal/identity"
	"github.com/sewcraft/api/internal/platform/constants"
)

// Directory is the credential record that must stay in step with the
// identity row. Middleware and downstream services read it to resolve a
// subject's current email, role, and block flag without a Postgres hit.
type Directory interface {

	/*
		Sync writes the identity's credential snapshot.

		Parameters:
		  - context: context.Context
		  - ident: *identity.Identity

		Returns:
		  - error: Write failures
	*/
	Sync(context context.Context, ident *identity.Identity) error

	/*
		Remove drops the credential snapshot for a subject.

		Parameters:
		  - context: context.Context
		  - userID: string

		Returns:
		  - error: Delete failures
	*/
	Remove(context context.Context, userID string) error
}

// directoryRecord is the stored credential snapshot shape.
type directoryRecord struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	IsBlocked bool   `json:"is_blocked"`
}

// RedisDirectory implements [Directory] on Redis.
type RedisDirectory struct {
	client *redis.Client
}

// NewRedisDirectory constructs a Redis-backed credential directory.
func NewRedisDirectory(client *redis.Client) *RedisDirectory {
	return &RedisDirectory{client: client}
}

// Sync writes the credential snapshot under the directory prefix. Records
// carry no TTL; they live until the subject is removed.
func (directory *RedisDirectory) Sync(context context.Context, ident *identity.Identity) error {
	payload, err := json.Marshal(directoryRecord{
		Email:     ident.Email,
		Role:      string(ident.Role),
		IsBlocked: ident.IsBlocked,
	})
	if err != nil {
		return fmt.Errorf("directory_marshal_failed: %w", err)
	}

	key := constants.RedisPrefixDirectory + ident.ID
	if err := directory.client.Set(context, key, payload, 0).Err(); err != nil {
		return fmt.Errorf("directory_sync_failed: %w", err)
	}
	return nil
}

// Remove drops the snapshot.
func (directory *RedisDirectory) Remove(context context.Context, userID string) error {
	key := constants.RedisPrefixDirectory + userID
	if err := directory.client.Del(context, key).Err(); err != nil {
		return fmt.Errorf("directory_remove_failed: %w", err)
	}
	return nil
}
