package price

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/reef-chain/explorer-backtracker/internal/adapter"
	"github.com/reef-chain/explorer-backtracker/internal/logger"
)

const (
	// DefaultURL is the CoinGecko simple price endpoint for the native token
	DefaultURL = "https://api.coingecko.com/api/v3/simple/price?ids=reef&vs_currencies=usd&include_24hr_change=true"

	// DefaultCoin is the CoinGecko id of the native token
	DefaultCoin = "reef"
)

// ErrPriceUnavailable is returned when no price has ever been fetched and the provider fails
var ErrPriceUnavailable = errors.New("can not extract reef price from coingecko")

// Price is the USD quote of the native token
type Price struct {
	USD          float64 `json:"usd"`
	USD24hChange float64 `json:"usd_24h_change"`
}

// Snapshot is a cached price with the time it was fetched in unix milliseconds
type Snapshot struct {
	Time  int64  `json:"time"`
	Price *Price `json:"price,omitempty"`
}

// Config holds configuration for the price cache
type Config struct {
	URL  string
	Coin string

	// TTL is how long a fetched price is served without refreshing
	TTL time.Duration

	// StaleWindow is how long a price may still be served when refreshing fails
	StaleWindow time.Duration
}

// Cache serves the native token price, refreshing it at most once per TTL
//
//go:generate mockgen -source=price.go -destination=../mocks/price.go -package=mocks -mock_names=Cache=MockPriceCache
type Cache interface {
	// Get returns the cached price, refreshing it when it expired
	Get(ctx context.Context) (Snapshot, error)
}

type cache struct {
	config Config
	http   adapter.HTTPClient
	clock  adapter.Clock
	group  singleflight.Group

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewCache creates a price cache over the CoinGecko API
func NewCache(config Config, httpClient adapter.HTTPClient, clock adapter.Clock) Cache {
	if config.URL == "" {
		config.URL = DefaultURL
	}
	if config.Coin == "" {
		config.Coin = DefaultCoin
	}
	if config.TTL <= 0 {
		config.TTL = 30 * time.Second
	}

	return &cache{
		config: config,
		http:   httpClient,
		clock:  clock,
	}
}

func (c *cache) Get(ctx context.Context) (Snapshot, error) {
	c.mu.RLock()
	cached := c.snapshot
	c.mu.RUnlock()

	now := c.clock.Now()
	if cached != nil && now.Sub(time.UnixMilli(cached.Time)) < c.config.TTL {
		return *cached, nil
	}

	// concurrent requests share one refresh
	result, err, _ := c.group.Do(c.config.Coin, func() (interface{}, error) {
		return c.refresh(ctx)
	})
	if err != nil {
		if cached != nil && now.Sub(time.UnixMilli(cached.Time)) < c.config.StaleWindow {
			logger.WarnCtx(ctx, "Serving stale price", zap.Int64("fetched_at", cached.Time), zap.Error(err))
			return *cached, nil
		}
		return Snapshot{}, err
	}

	return result.(Snapshot), nil
}

func (c *cache) refresh(ctx context.Context) (Snapshot, error) {
	var quotes map[string]Price
	if err := c.http.Get(ctx, c.config.URL, &quotes); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrPriceUnavailable, err)
	}

	quote, ok := quotes[c.config.Coin]
	if !ok {
		return Snapshot{}, ErrPriceUnavailable
	}

	snapshot := Snapshot{
		Time:  c.clock.Now().UnixMilli(),
		Price: &quote,
	}

	c.mu.Lock()
	c.snapshot = &snapshot
	c.mu.Unlock()

	logger.DebugCtx(ctx, "Refreshed price", zap.Float64("usd", quote.USD))

	return snapshot, nil
}
