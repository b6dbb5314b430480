package redis

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/escalopa/quran-tajweed-bot/internal/domain"
	"github.com/redis/go-redis/v9"
	"github.com/zeebo/blake3"
)

const (
	spanKeyPrefix  = "tajweed:spans:"
	defaultSpanTTL = 7 * 24 * time.Hour
)

// SpanCache stores segmentation results keyed by rule table and verse text
type SpanCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewSpanCache(client *redis.Client, ttl time.Duration) *SpanCache {
	if ttl <= 0 {
		ttl = defaultSpanTTL
	}
	return &SpanCache{client: client, ttl: ttl}
}

// GetSpans returns cached spans, ok is false when nothing is stored
func (c *SpanCache) GetSpans(ctx context.Context, tableID, text string) ([]domain.SpanRecord, bool, error) {
	val, err := c.client.Get(ctx, spanKey(tableID, text)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get spans: %w", err)
	}

	var records []domain.SpanRecord
	if err := json.Unmarshal(val, &records); err != nil {
		return nil, false, fmt.Errorf("decode spans: %w", err)
	}
	return records, true, nil
}

// SetSpans stores spans for the text
func (c *SpanCache) SetSpans(ctx context.Context, tableID, text string, records []domain.SpanRecord) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode spans: %w", err)
	}
	if err := c.client.Set(ctx, spanKey(tableID, text), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set spans: %w", err)
	}
	return nil
}

func spanKey(tableID, text string) string {
	sum := blake3.Sum256([]byte(text))
	return spanKeyPrefix + tableID + ":" + hex.EncodeToString(sum[:])
}
