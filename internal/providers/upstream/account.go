package upstream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coocood/freecache"
	"go.uber.org/zap"

	"github.com/reef-chain/explorer-backtracker/internal/logger"
	"github.com/reef-chain/explorer-backtracker/internal/types"
)

// AccountCacheConfig sizes the address cache
type AccountCacheConfig struct {
	SizeMB int
	// TTL of bound addresses. A binding never changes once made.
	TTL time.Duration
	// UnboundTTL of addresses without a native account; they may be bound later
	UnboundTTL time.Duration
}

// AccountResolver maps EVM addresses to the native accounts bound to them
type AccountResolver struct {
	client     Client
	cache      *freecache.Cache
	ttl        int
	unboundTTL int
}

type account struct {
	ID string `json:"id"`
}

// NewAccountResolver creates a resolver caching lookups in a freecache of cfg.SizeMB megabytes
func NewAccountResolver(client Client, cfg AccountCacheConfig) *AccountResolver {
	if cfg.SizeMB <= 0 {
		cfg.SizeMB = 16
	}
	return &AccountResolver{
		client:     client,
		cache:      freecache.NewCache(cfg.SizeMB * 1024 * 1024),
		ttl:        int(cfg.TTL.Seconds()),
		unboundTTL: int(cfg.UnboundTTL.Seconds()),
	}
}

// NativeAddress returns the native address bound to evmAddress, or an empty string when none is
func (r *AccountResolver) NativeAddress(ctx context.Context, evmAddress string) (string, error) {
	if !types.IsEthereumAddress(evmAddress) {
		return "", fmt.Errorf("invalid evm address: %s", evmAddress)
	}

	key := []byte(strings.ToLower(evmAddress))
	if cached, err := r.cache.Get(key); err == nil {
		return string(cached), nil
	} else if !errors.Is(err, freecache.ErrNotFound) {
		logger.WarnCtx(ctx, "Address cache read failed", zap.String("evm_address", evmAddress), zap.Error(err))
	}

	native, err := r.lookup(ctx, evmAddress)
	if err != nil {
		return "", err
	}

	ttl := r.ttl
	if native == "" {
		ttl = r.unboundTTL
	}
	if ttl > 0 {
		if err := r.cache.Set(key, []byte(native), ttl); err != nil {
			logger.WarnCtx(ctx, "Address cache write failed", zap.String("evm_address", evmAddress), zap.Error(err))
		}
	}

	return native, nil
}

func (r *AccountResolver) lookup(ctx context.Context, evmAddress string) (string, error) {
	addressLiteral, err := Literal(evmAddress)
	if err != nil {
		return "", err
	}

	document := fmt.Sprintf(`query {
  accounts(where: {evmAddress_eq: %s}, limit: 1) {
    id
  }
}`, addressLiteral)

	var accounts []account
	if err := r.client.Query(ctx, "accounts", document, &accounts); err != nil {
		return "", fmt.Errorf("failed to resolve native address of %s: %w", evmAddress, err)
	}
	if len(accounts) == 0 {
		return "", nil
	}
	return accounts[0].ID, nil
}
