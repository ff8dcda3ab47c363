package cache

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"math/big"
	"net"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"

	"github.com/bowenxiang/blockorder-bsc-service/internal/core/entity"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/apperr"
	"github.com/bowenxiang/blockorder-bsc-service/internal/pkg/applog"
)

const defaultKeyPrefix = "ordering:report:"

// ReportCache stores completed ordering reports in Redis, JSON-encoded and
// keyed by block number. It relies on the concurrency-safe go-redis client,
// so it is safe for concurrent use.
type ReportCache struct {
	rdb *redis.Client
	log applog.AppLogger
	cfg Config
}

// NewReportCache validates the Config, constructs a Redis client with
// optional TLS, and returns an initialized ReportCache.
func NewReportCache(log applog.AppLogger, cfg Config, v *validator.Validate) (*ReportCache, error) {
	if err := v.Struct(cfg); err != nil {
		log.Error("invalid redis config", "err", err)
		return nil, apperr.NewCacheErr("invalid redis config", err)
	}

	addr := net.JoinHostPort(cfg.Host, cfg.Port)
	opts := &redis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		PoolSize:    cfg.PoolSize,
		MaxRetries:  cfg.MaxRetries,
		DialTimeout: time.Duration(cfg.DialTimeoutSeconds) * time.Second,
	}
	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = defaultKeyPrefix
	}

	return &ReportCache{
		rdb: redis.NewClient(opts),
		log: log,
		cfg: cfg,
	}, nil
}

// GetReport returns the cached report for the block, or (nil, nil) on a
// miss.
func (c *ReportCache) GetReport(ctx context.Context, number uint64) (*entity.OrderingReport, error) {
	data, err := c.rdb.Get(ctx, c.key(number)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.NewCacheErr("failed to read cached report", err)
	}

	report, err := unmarshalReport(data)
	if err != nil {
		// A corrupt entry behaves like a miss; the next Put overwrites it.
		c.log.Warn("Dropping unreadable cached report", "number", number, "err", err)
		return nil, nil
	}
	return report, nil
}

// PutReport stores the report under the configured TTL.
func (c *ReportCache) PutReport(ctx context.Context, report *entity.OrderingReport) error {
	if report == nil {
		return apperr.NewCacheErr("report is required", nil)
	}

	data, err := marshalReport(report)
	if err != nil {
		return apperr.NewCacheErr("failed to encode report", err)
	}

	ttl := time.Duration(c.cfg.ReportTTLSeconds) * time.Second
	if err := c.rdb.Set(ctx, c.key(report.Number), data, ttl).Err(); err != nil {
		return apperr.NewCacheErr("failed to store report", err)
	}
	return nil
}

// Close releases the Redis client.
func (c *ReportCache) Close() error {
	return c.rdb.Close()
}

func (c *ReportCache) key(number uint64) string {
	return c.cfg.KeyPrefix + strconv.FormatUint(number, 10)
}

type reportJSON struct {
	Number         uint64   `json:"number"`
	BaseFee        string   `json:"baseFee,omitempty"`
	Ordered        bool     `json:"ordered"`
	Fees           []string `json:"fees,omitempty"`
	CheckedTxs     int      `json:"checkedTxs"`
	SkippedTxs     int      `json:"skippedTxs"`
	ViolationIndex int      `json:"violationIndex"`
}

func marshalReport(r *entity.OrderingReport) ([]byte, error) {
	j := reportJSON{
		Number:         r.Number,
		BaseFee:        bigToString(r.BaseFee),
		Ordered:        r.Ordered,
		CheckedTxs:     r.CheckedTxs,
		SkippedTxs:     r.SkippedTxs,
		ViolationIndex: r.ViolationIndex,
	}
	if len(r.Fees) > 0 {
		j.Fees = make([]string, len(r.Fees))
		for i, f := range r.Fees {
			j.Fees[i] = bigToString(f)
		}
	}
	return json.Marshal(j)
}

func unmarshalReport(data []byte) (*entity.OrderingReport, error) {
	var j reportJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, err
	}
	r := &entity.OrderingReport{
		Number:         j.Number,
		BaseFee:        stringToBig(j.BaseFee),
		Ordered:        j.Ordered,
		CheckedTxs:     j.CheckedTxs,
		SkippedTxs:     j.SkippedTxs,
		ViolationIndex: j.ViolationIndex,
	}
	if len(j.Fees) > 0 {
		r.Fees = make([]*big.Int, len(j.Fees))
		for i, f := range j.Fees {
			r.Fees[i] = stringToBig(f)
		}
	}
	return r, nil
}

func bigToString(b *big.Int) string {
	if b == nil {
		return ""
	}
	return b.String()
}

func stringToBig(s string) *big.Int {
	if s == "" {
		return nil
	}
	if bi, ok := new(big.Int).SetString(s, 10); ok {
		return bi
	}
	return nil
}
