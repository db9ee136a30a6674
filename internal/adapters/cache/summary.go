package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"seatledger/internal/domain"
)

const summaryKey = "seatledger:report:summary"

// SummaryCache caches the report summary in redis with a short TTL.
// Every method is best-effort: backend failures are logged and treated as
// a miss, never surfaced to the caller.
type SummaryCache struct {
	client *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

var _ domain.SummaryCache = (*SummaryCache)(nil)

func NewSummaryCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *SummaryCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SummaryCache{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *SummaryCache) Get(ctx context.Context) (*domain.ReportSummary, bool) {
	raw, err := c.client.Get(ctx, summaryKey).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.WarnContext(ctx, "summary cache get failed", "err", err)
		}
		return nil, false
	}
	var summary domain.ReportSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		c.logger.WarnContext(ctx, "summary cache payload corrupt", "err", err)
		return nil, false
	}
	return &summary, true
}

func (c *SummaryCache) Set(ctx context.Context, summary *domain.ReportSummary) {
	data, err := json.Marshal(summary)
	if err != nil {
		c.logger.WarnContext(ctx, "summary cache marshal failed", "err", err)
		return
	}
	if err := c.client.Set(ctx, summaryKey, data, c.ttl).Err(); err != nil {
		c.logger.WarnContext(ctx, "summary cache set failed", "err", err)
	}
}

func (c *SummaryCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, summaryKey).Err(); err != nil {
		c.logger.WarnContext(ctx, "summary cache invalidate failed", "err", err)
	}
}
