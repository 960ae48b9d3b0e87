package ports

import (
	"context"
)

// SeedSource provides seeds for optimizer runs that were not given one.
type SeedSource interface {
	// NextSeed returns a seed in [1, 100000].
	NextSeed(ctx context.Context) int64
}
