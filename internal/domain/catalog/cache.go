package catalog

import (
	"context"
	"time"
)

type Cache interface {
	GetAll(ctx context.Context) ([]Offering, bool)
	SetAll(ctx context.Context, offerings []Offering, ttl time.Duration)
	Invalidate(ctx context.Context)
}

type noopCache struct{}

func (noopCache) GetAll(context.Context) ([]Offering, bool) {
	return nil, false
}

func (noopCache) SetAll(context.Context, []Offering, time.Duration) {}

func (noopCache) Invalidate(context.Context) {}
