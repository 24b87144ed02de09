package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/competiscore/competiscore/internal/config"
	redis "github.com/redis/go-redis/v9"
)

const (
	keyReportUser = "abuse:report:user:%s"
	keyJoinUser   = "abuse:join:user:%s"
)

// AbuseLimiter throttles report submission and link redemption per user.
// A nil limiter (rate limiting disabled) allows everything.
type AbuseLimiter struct {
	enabled bool

	bucket *TokenBucket

	reportRate  float64
	reportBurst int
	joinRate    float64
	joinBurst   int
}

func NewAbuseLimiter(cfg config.Config) (*AbuseLimiter, error) {
	limitCfg := cfg.RateLimit
	if !limitCfg.Enabled {
		return nil, nil
	}

	addr := strings.TrimSpace(limitCfg.RedisAddr)
	if addr == "" {
		return nil, errors.New("rate limit redis addr is required")
	}
	if limitCfg.ReportRate <= 0 || limitCfg.ReportBurst <= 0 {
		return nil, errors.New("report rate limit must be positive")
	}
	if limitCfg.JoinRate <= 0 || limitCfg.JoinBurst <= 0 {
		return nil, errors.New("join rate limit must be positive")
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: strings.TrimSpace(limitCfg.RedisPassword),
		DB:       limitCfg.RedisDB,
	})

	return &AbuseLimiter{
		enabled:     true,
		bucket:      NewTokenBucket(client),
		reportRate:  limitCfg.ReportRate,
		reportBurst: limitCfg.ReportBurst,
		joinRate:    limitCfg.JoinRate,
		joinBurst:   limitCfg.JoinBurst,
	}, nil
}

func (l *AbuseLimiter) Enabled() bool {
	return l != nil && l.enabled
}

func (l *AbuseLimiter) AllowReport(ctx context.Context, userID snowflake.ID) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyReportUser, userID.String()), l.reportRate, l.reportBurst)
}

func (l *AbuseLimiter) AllowJoin(ctx context.Context, userID snowflake.ID) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, fmt.Sprintf(keyJoinUser, userID.String()), l.joinRate, l.joinBurst)
}
