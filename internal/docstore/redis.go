package docstore

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"time"

	"github.com/docuforge/docuforge/internal/config"
	ierr "github.com/docuforge/docuforge/internal/errors"
	"github.com/docuforge/docuforge/internal/logger"
	"github.com/redis/go-redis/v9"
)

// ScanCount determines how many keys to scan per SCAN iteration.
const ScanCount = 100

// Version-checked writes are done in a Lua script so the compare and the
// write are atomic on the Redis side. ARGV[1] is the expected version:
// "-1" for unconditional, "0" for create-only, otherwise an exact match.
var setScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if ARGV[1] == '0' then
  if cur then return -1 end
elseif ARGV[1] ~= '-1' then
  if not cur or cur ~= ARGV[1] then return -1 end
end
local v = 1
if cur then v = tonumber(cur) + 1 end
redis.call('HSET', KEYS[1], 'data', ARGV[2], 'version', v, 'updated_at', ARGV[3])
return v
`)

var deleteScript = redis.NewScript(`
local cur = redis.call('HGET', KEYS[1], 'version')
if not cur then return -2 end
if ARGV[1] ~= '-1' and cur ~= ARGV[1] then return -1 end
redis.call('DEL', KEYS[1])
return 0
`)

// RedisStore implements Store on top of Redis hashes, one hash per
// document, keyed "<collection>:<key>".
type RedisStore struct {
	client *redis.Client
	log    *logger.Logger
}

// NewRedisStore connects to Redis using the application configuration.
func NewRedisStore(cfg *config.Configuration, log *logger.Logger) (*RedisStore, error) {
	opts := &redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		DialTimeout:  cfg.Redis.Timeout,
		ReadTimeout:  cfg.Redis.Timeout,
		WriteTimeout: cfg.Redis.Timeout,
		PoolSize:     cfg.Redis.PoolSize,
	}
	if cfg.Redis.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to connect to Redis").
			Mark(ierr.ErrDatabase)
	}

	log.Infow("connected to redis document store", "addr", opts.Addr, "db", opts.DB)
	return &RedisStore{client: client, log: log}, nil
}

// Close releases the underlying Redis connection pool.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func redisKey(collection, key string) string {
	return collection + ":" + key
}

// escapeMatch backslash-escapes SCAN MATCH glob metacharacters so a
// prefix containing "*", "?", "[", "]", "^", or "\" matches literally.
func escapeMatch(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '*', '?', '[', ']', '^', '\\':
			out = append(out, '\\')
		}
		out = append(out, s[i])
	}
	return string(out)
}

func (s *RedisStore) Get(ctx context.Context, collection, key string) (*Document, error) {
	fields, err := s.client.HGetAll(ctx, redisKey(collection, key)).Result()
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to read document").
			Mark(ierr.ErrDatabase)
	}
	if len(fields) == 0 {
		return nil, ierr.NewError("document not found").
			WithHint("Document not found").
			WithReportableDetails(map[string]interface{}{
				"collection": collection,
				"key":        key,
			}).
			Mark(ierr.ErrNotFound)
	}
	return documentFromFields(collection, key, fields)
}

func (s *RedisStore) Set(ctx context.Context, collection, key string, value interface{}, expectedVersion *int64) (int64, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to encode document").
			Mark(ierr.ErrValidation)
	}

	expected := "-1"
	if expectedVersion != nil {
		expected = fmt.Sprintf("%d", *expectedVersion)
	}

	version, err := setScript.Run(ctx, s.client,
		[]string{redisKey(collection, key)},
		expected, string(data), time.Now().UTC().Format(time.RFC3339Nano),
	).Int64()
	if err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to write document").
			Mark(ierr.ErrDatabase)
	}
	if version < 0 {
		return 0, ierr.NewError("document version conflict").
			WithHint("The document was modified concurrently").
			WithReportableDetails(map[string]interface{}{
				"collection": collection,
				"key":        key,
			}).
			Mark(ierr.ErrVersionConflict)
	}
	return version, nil
}

func (s *RedisStore) List(ctx context.Context, collection string, opts ListOptions) ([]*Document, error) {
	// Escape the prefix so keys containing glob metacharacters cannot
	// widen or corrupt the scan pattern.
	match := escapeMatch(redisKey(collection, opts.Prefix)) + "*"

	docs := make([]*Document, 0)
	iter := s.client.Scan(ctx, 0, match, ScanCount).Iterator()
	for iter.Next(ctx) {
		fullKey := iter.Val()
		fields, err := s.client.HGetAll(ctx, fullKey).Result()
		if err != nil || len(fields) == 0 {
			continue
		}
		doc, err := documentFromFields(collection, fullKey[len(collection)+1:], fields)
		if err != nil {
			s.log.Warnw("skipping malformed document", "key", fullKey, "error", err)
			continue
		}
		docs = append(docs, doc)
		if opts.Limit > 0 && len(docs) >= opts.Limit {
			break
		}
	}
	if err := iter.Err(); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list documents").
			Mark(ierr.ErrDatabase)
	}

	sortDocumentsByKey(docs)
	return docs, nil
}

func (s *RedisStore) Delete(ctx context.Context, collection, key string, expectedVersion *int64) error {
	expected := "-1"
	if expectedVersion != nil {
		expected = fmt.Sprintf("%d", *expectedVersion)
	}

	res, err := deleteScript.Run(ctx, s.client, []string{redisKey(collection, key)}, expected).Int64()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete document").
			Mark(ierr.ErrDatabase)
	}
	switch res {
	case -2:
		return ierr.NewError("document not found").
			WithHint("Document not found").
			Mark(ierr.ErrNotFound)
	case -1:
		return ierr.NewError("document version conflict").
			WithHint("The document was modified concurrently").
			Mark(ierr.ErrVersionConflict)
	}
	return nil
}

func documentFromFields(collection, key string, fields map[string]string) (*Document, error) {
	doc := &Document{
		Collection: collection,
		Key:        key,
		Data:       json.RawMessage(fields["data"]),
	}
	if _, err := fmt.Sscanf(fields["version"], "%d", &doc.Version); err != nil {
		return nil, ierr.NewError("document missing version field").
			Mark(ierr.ErrInternal)
	}
	if ts, err := time.Parse(time.RFC3339Nano, fields["updated_at"]); err == nil {
		doc.UpdatedAt = ts
	}
	return doc, nil
}
