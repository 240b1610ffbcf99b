package redis

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chatwave/auth-api/internal/core/domain"
)

// RedisTokenRepository stores token digests as hashes with a TTL, plus a
// per-user set of digests enabling bulk revocation.
//
// Key layout:
//
//	token:<sha256hex>        hash {id, user_id, created_at, last_used_at}
//	user_tokens:<user_id>    set of digests
type RedisTokenRepository struct {
	client *redis.Client
	ttl    time.Duration
}

const defaultTokenTTL = 30 * 24 * time.Hour

// touchScript bumps last_used_at only when the token hash still exists, so an
// expired token is never resurrected as a stray key without a TTL.
var touchScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
	return redis.call("HSET", KEYS[1], "last_used_at", ARGV[1])
end
return 0
`)

func NewTokenRepository(client *redis.Client, ttl time.Duration) *RedisTokenRepository {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &RedisTokenRepository{client: client, ttl: ttl}
}

func (r *RedisTokenRepository) Insert(ctx context.Context, token *domain.Token) error {
	_, err := r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		r.insertPipe(ctx, pipe, token)
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert token: %w", err)
	}
	return nil
}

func (r *RedisTokenRepository) FindByDigest(ctx context.Context, digest string) (*domain.Token, error) {
	fields, err := r.client.HGetAll(ctx, tokenKey(digest)).Result()
	if err != nil {
		return nil, fmt.Errorf("find token: %w", err)
	}
	if len(fields) == 0 {
		return nil, domain.ErrTokenNotFound
	}

	return &domain.Token{
		ID:         fields["id"],
		UserID:     fields["user_id"],
		Digest:     digest,
		CreatedAt:  unixField(fields, "created_at"),
		LastUsedAt: unixField(fields, "last_used_at"),
	}, nil
}

// DeleteByUser removes every token owned by the user in one transaction. The
// per-user set is watched so a digest added concurrently aborts the swap
// instead of surviving it. No-op when the set is empty.
func (r *RedisTokenRepository) DeleteByUser(ctx context.Context, userID string) error {
	setKey := userTokensKey(userID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		digests, err := tx.SMembers(ctx, setKey).Result()
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, dg := range digests {
				pipe.Del(ctx, tokenKey(dg))
			}
			pipe.Del(ctx, setKey)
			return nil
		})
		return err
	}, setKey)
	if err != nil {
		return fmt.Errorf("delete tokens for user: %w", err)
	}
	return nil
}

// Replace removes every token owned by the token's user and inserts the given
// one, all inside a single transaction. Readers either see the old tokens or
// only the new one; there is no zero-token window.
func (r *RedisTokenRepository) Replace(ctx context.Context, token *domain.Token) error {
	setKey := userTokensKey(token.UserID)

	err := r.client.Watch(ctx, func(tx *redis.Tx) error {
		digests, err := tx.SMembers(ctx, setKey).Result()
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			for _, dg := range digests {
				pipe.Del(ctx, tokenKey(dg))
			}
			pipe.Del(ctx, setKey)
			r.insertPipe(ctx, pipe, token)
			return nil
		})
		return err
	}, setKey)
	if err != nil {
		return fmt.Errorf("replace tokens for user: %w", err)
	}
	return nil
}

func (r *RedisTokenRepository) TouchLastUsed(ctx context.Context, digest string) error {
	now := time.Now().UTC().Unix()
	if err := touchScript.Run(ctx, r.client, []string{tokenKey(digest)}, now).Err(); err != nil {
		return fmt.Errorf("touch token: %w", err)
	}
	return nil
}

func (r *RedisTokenRepository) insertPipe(ctx context.Context, pipe redis.Pipeliner, token *domain.Token) {
	key := tokenKey(token.Digest)
	pipe.HSet(ctx, key, map[string]any{
		"id":           token.ID,
		"user_id":      token.UserID,
		"created_at":   token.CreatedAt.Unix(),
		"last_used_at": token.LastUsedAt.Unix(),
	})
	pipe.Expire(ctx, key, r.ttl)

	setKey := userTokensKey(token.UserID)
	pipe.SAdd(ctx, setKey, token.Digest)
	// The set must outlive the newest member.
	pipe.Expire(ctx, setKey, r.ttl)
}

func tokenKey(digest string) string {
	return "token:" + digest
}

func userTokensKey(userID string) string {
	return "user_tokens:" + userID
}

func unixField(fields map[string]string, name string) time.Time {
	ts, err := strconv.ParseInt(fields[name], 10, 64)
	if err != nil || ts == 0 {
		return time.Time{}
	}
	return time.Unix(ts, 0).UTC()
}
