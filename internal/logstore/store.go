package logstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrUnavailable is returned when the backing store cannot be reached.
// Callers on the request path must swallow it; the query facade reports
// it as a degraded response instead of failing.
var ErrUnavailable = errors.New("log store unavailable")

const (
	globalIndexKey   = "application_logs"
	levelKeyPrefix   = "logs:"
	requestKeyPrefix = "logs:request:"

	// Query limits for level and time-range lookups.
	DefaultQueryLimit = 100
	MaxQueryLimit     = 1000
)

// Config holds connection and retention settings for the store.
type Config struct {
	// Connection settings
	Address  string
	Password string
	DB       int

	// Pool settings
	PoolSize     int
	MinIdleConns int

	// Timeouts
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration

	// Retention settings
	MaxEntries         int
	EntryTTL           time.Duration
	CorrelationTTL     time.Duration
	DefaultQueryWindow time.Duration
}

// DefaultConfig returns the retention defaults used in production.
func DefaultConfig(address string) Config {
	return Config{
		Address: address,

		PoolSize:     10,
		MinIdleConns: 2,

		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,

		MaxEntries:         10000,
		EntryTTL:           7 * 24 * time.Hour,
		CorrelationTTL:     24 * time.Hour,
		DefaultQueryWindow: 1 * time.Hour,
	}
}

// Store writes log entries to Redis under three indexes: a global sorted
// set scored by timestamp, a list per level, and a list per request id.
// The connection is established lazily on first use and shared by all
// callers; go-redis re-dials on the next call after a failure.
type Store struct {
	cfg Config

	mu     sync.Mutex
	client *redis.Client
}

// New creates a store. No connection is made until the first call.
func New(cfg Config) *Store {
	if cfg.MaxEntries <= 0 {
		cfg.MaxEntries = 10000
	}
	if cfg.CorrelationTTL <= 0 {
		cfg.CorrelationTTL = 24 * time.Hour
	}
	if cfg.DefaultQueryWindow <= 0 {
		cfg.DefaultQueryWindow = 1 * time.Hour
	}
	return &Store{cfg: cfg}
}

func (s *Store) redisClient() *redis.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		s.client = redis.NewClient(&redis.Options{
			Addr:     s.cfg.Address,
			Password: s.cfg.Password,
			DB:       s.cfg.DB,

			PoolSize:     s.cfg.PoolSize,
			MinIdleConns: s.cfg.MinIdleConns,

			DialTimeout:  s.cfg.DialTimeout,
			ReadTimeout:  s.cfg.ReadTimeout,
			WriteTimeout: s.cfg.WriteTimeout,
		})
	}

	return s.client
}

// Close releases the connection if one was ever established.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		return nil
	}
	err := s.client.Close()
	s.client = nil
	return err
}

// Ping checks whether the backing store is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.redisClient().Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func levelKey(level string) string {
	return levelKeyPrefix + strings.ToLower(level)
}

func requestKey(requestID string) string {
	return requestKeyPrefix + requestID
}

func timestampScore(t time.Time) float64 {
	return float64(t.UnixMicro()) / 1e6
}

// Append writes an entry to all applicable indexes and trims them to
// their retention bounds, as one pipelined batch. Entries that cannot
// be serialized are replaced by a placeholder rather than dropped.
func (s *Store) Append(ctx context.Context, entry *Entry) error {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		// A payload field was not serializable. Keep the envelope,
		// replace the payload with a marker.
		fallback := &Entry{
			Timestamp: entry.Timestamp,
			Level:     entry.Level,
			Message:   entry.Message,
			RequestID: entry.RequestID,
			Fields:    map[string]interface{}{"serialization_error": err.Error()},
		}
		data, err = json.Marshal(fallback)
		if err != nil {
			return fmt.Errorf("failed to marshal log entry: %w", err)
		}
	}

	pipe := s.redisClient().TxPipeline()

	pipe.ZAdd(ctx, globalIndexKey, redis.Z{
		Score:  timestampScore(entry.Timestamp),
		Member: data,
	})
	pipe.LPush(ctx, levelKey(entry.Level), data)

	if entry.RequestID != "" {
		pipe.LPush(ctx, requestKey(entry.RequestID), data)
		pipe.Expire(ctx, requestKey(entry.RequestID), s.cfg.CorrelationTTL)
	}

	// Trim: oldest out first, by score for the global index and by
	// insertion order for the level list.
	pipe.ZRemRangeByRank(ctx, globalIndexKey, 0, int64(-s.cfg.MaxEntries-1))
	if s.cfg.EntryTTL > 0 {
		cutoff := timestampScore(entry.Timestamp.Add(-s.cfg.EntryTTL))
		pipe.ZRemRangeByScore(ctx, globalIndexKey, "-inf", formatScore(cutoff))
	}
	pipe.LTrim(ctx, levelKey(entry.Level), 0, int64(s.cfg.MaxEntries-1))

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return nil
}

// Filter selects log entries. Exactly one selection mode applies:
// RequestID takes precedence over Level, which takes precedence over
// the time range.
type Filter struct {
	RequestID string
	Level     string
	StartTime *time.Time
	EndTime   *time.Time
	Limit     int
}

// Query returns entries matching the filter. Correlation lookups are
// ordered most-recent-first, as are level lookups; time-range lookups
// are ordered ascending by timestamp.
func (s *Store) Query(ctx context.Context, filter Filter) ([]*Entry, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultQueryLimit
	}
	if limit > MaxQueryLimit {
		limit = MaxQueryLimit
	}

	var raw []string
	var err error

	switch {
	case filter.RequestID != "":
		raw, err = s.redisClient().LRange(ctx, requestKey(filter.RequestID), 0, -1).Result()
	case filter.Level != "":
		raw, err = s.redisClient().LRange(ctx, levelKey(filter.Level), 0, int64(limit-1)).Result()
	default:
		end := time.Now().UTC()
		if filter.EndTime != nil {
			end = *filter.EndTime
		}
		start := end.Add(-s.cfg.DefaultQueryWindow)
		if filter.StartTime != nil {
			start = *filter.StartTime
		}
		raw, err = s.redisClient().ZRangeByScore(ctx, globalIndexKey, &redis.ZRangeBy{
			Min:    formatScore(timestampScore(start)),
			Max:    formatScore(timestampScore(end)),
			Offset: 0,
			Count:  int64(limit),
		}).Result()
	}

	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	entries := make([]*Entry, 0, len(raw))
	for _, item := range raw {
		var entry Entry
		if err := json.Unmarshal([]byte(item), &entry); err != nil {
			continue // Skip malformed items
		}
		entries = append(entries, &entry)
	}

	return entries, nil
}

func formatScore(score float64) string {
	return strconv.FormatFloat(score, 'f', -1, 64)
}
