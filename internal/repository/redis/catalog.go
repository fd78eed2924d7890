package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	catalogdomain "dna-clinic-go/internal/domain/catalog"
	"dna-clinic-go/pkg/logger"
)

const catalogKey = "dna-clinic:catalog:offerings"

// CatalogCache keeps the offering list in redis. Redis failures degrade to
// cache misses.
type CatalogCache struct {
	client *goredis.Client
	log    logger.Logger
}

func NewCatalogCache(client *goredis.Client, log logger.Logger) *CatalogCache {
	return &CatalogCache{client: client, log: log}
}

func (c *CatalogCache) GetAll(ctx context.Context) ([]catalogdomain.Offering, bool) {
	data, err := c.client.Get(ctx, catalogKey).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false
	}
	if err != nil {
		c.log.Warn("catalog.cache: get failed", "err", err)
		return nil, false
	}

	var offerings []catalogdomain.Offering
	if err := json.Unmarshal(data, &offerings); err != nil {
		c.log.Warn("catalog.cache: decode failed", "err", err)
		return nil, false
	}
	return offerings, true
}

func (c *CatalogCache) SetAll(ctx context.Context, offerings []catalogdomain.Offering, ttl time.Duration) {
	if ttl <= 0 {
		c.Invalidate(ctx)
		return
	}
	if offerings == nil {
		offerings = []catalogdomain.Offering{}
	}

	data, err := json.Marshal(offerings)
	if err != nil {
		c.log.Warn("catalog.cache: encode failed", "err", err)
		return
	}
	if err := c.client.Set(ctx, catalogKey, data, ttl).Err(); err != nil {
		c.log.Warn("catalog.cache: set failed", "err", err)
	}
}

func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.client.Del(ctx, catalogKey).Err(); err != nil {
		c.log.Warn("catalog.cache: invalidate failed", "err", err)
	}
}

// Connect opens a client and checks it answers within five seconds.
func Connect(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}
