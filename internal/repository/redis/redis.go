// Package redis implements the repository interfaces on top of a Redis
// key-value store.
//
// STORE ADAPTER:
// The raw go-redis client is wrapped in a small set of typed operations
// (HashSet, SortedSetAdd, Multi, ...). Repository code above them never
// touches the client directly, which keeps the Redis command surface we
// depend on in one place.
//
// MULTI SEMANTICS:
// Writes that must be observed as a single unit — "set the session fields
// AND set their expiry" — go through Multi, which batches them into one
// MULTI/EXEC round trip. The caller then checks that every sub-result is
// truthy via allTruthy. This is NOT a transaction with rollback: if the
// connection dies mid-batch, earlier commands may have applied. We accept
// that and treat any non-truthy sub-result as total failure from the
// caller's perspective.
package redis

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DB owns the single Redis connection for the process lifetime. It is safe
// for concurrent use: every operation is a self-contained request/response
// round trip, and go-redis clients are goroutine-safe.
type DB struct {
	rdb    *goredis.Client
	logger *slog.Logger
}

// New connects to Redis and verifies the connection with a bounded ping.
// Connection failure at startup is fatal for the process — there is no
// "maybe connected" state threaded through call sites.
func New(addr, password string, logger *slog.Logger) (*DB, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis: connecting to %s: %w", addr, err)
	}

	return &DB{rdb: client, logger: logger}, nil
}

// NewWithClient wraps an existing client. Used by tests to point the
// repositories at a miniredis instance.
func NewWithClient(client *goredis.Client, logger *slog.Logger) *DB {
	return &DB{rdb: client, logger: logger}
}

// Ping verifies the connection is alive. Used by health checks.
func (db *DB) Ping(ctx context.Context) error {
	return db.rdb.Ping(ctx).Err()
}

// Close releases the underlying connection pool.
func (db *DB) Close() error {
	return db.rdb.Close()
}

// --- typed store operations -------------------------------------------------

// hashSet sets the given fields on a hash, returning the number of fields
// that were newly created (Redis HSET semantics: updating an existing field
// does not count).
func (db *DB) hashSet(ctx context.Context, key string, fields map[string]string) (int64, error) {
	args := make([]interface{}, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return db.rdb.HSet(ctx, key, args...).Result()
}

// hashGetAll returns all fields of a hash. A missing key yields an empty
// map and no error — absence is the caller's concern.
func (db *DB) hashGetAll(ctx context.Context, key string) (map[string]string, error) {
	return db.rdb.HGetAll(ctx, key).Result()
}

// exists reports whether the key is present.
func (db *DB) exists(ctx context.Context, key string) (bool, error) {
	n, err := db.rdb.Exists(ctx, key).Result()
	return n > 0, err
}

// del removes the key, reporting whether a key was actually removed.
func (db *DB) del(ctx context.Context, key string) (bool, error) {
	n, err := db.rdb.Del(ctx, key).Result()
	return n > 0, err
}

// sortedSetAdd adds a member with the given score, returning the number of
// members newly added (0 when the member already existed).
func (db *DB) sortedSetAdd(ctx context.Context, set string, score float64, member string) (int64, error) {
	return db.rdb.ZAdd(ctx, set, goredis.Z{Score: score, Member: member}).Result()
}

// sortedSetScore looks up a member's score. ok is false when the member is
// absent; err is reserved for store failures.
func (db *DB) sortedSetScore(ctx context.Context, set, member string) (score float64, ok bool, err error) {
	score, err = db.rdb.ZScore(ctx, set, member).Result()
	if err == goredis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return score, true, nil
}

// sortedSetRangeByScore returns members whose score lies in [min, max],
// in score order.
func (db *DB) sortedSetRangeByScore(ctx context.Context, set string, min, max float64) ([]string, error) {
	return db.rdb.ZRangeByScore(ctx, set, &goredis.ZRangeBy{
		Min: strconv.FormatFloat(min, 'f', -1, 64),
		Max: strconv.FormatFloat(max, 'f', -1, 64),
	}).Result()
}

// listRange returns the full list stored at key; an absent key yields an
// empty slice.
func (db *DB) listRange(ctx context.Context, key string) ([]string, error) {
	return db.rdb.LRange(ctx, key, 0, -1).Result()
}

// multi batches the writes queued by build into a single MULTI/EXEC apply
// and returns the per-command results in order.
func (db *DB) multi(ctx context.Context, build func(pipe goredis.Pipeliner)) ([]goredis.Cmder, error) {
	return db.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		build(pipe)
		return nil
	})
}

// allTruthy reports whether every sub-result of a multi succeeded with a
// truthy reply: a positive integer, a true boolean, or an "OK" status.
// A batch where any command errored or replied falsy is treated as a total
// failure by callers, even though Redis itself may have applied the
// earlier commands.
func allTruthy(cmds []goredis.Cmder) bool {
	for _, cmd := range cmds {
		if cmd.Err() != nil {
			return false
		}
		switch c := cmd.(type) {
		case *goredis.IntCmd:
			if c.Val() <= 0 {
				return false
			}
		case *goredis.BoolCmd:
			if !c.Val() {
				return false
			}
		case *goredis.StatusCmd:
			if c.Val() != "OK" {
				return false
			}
		}
	}
	return true
}
