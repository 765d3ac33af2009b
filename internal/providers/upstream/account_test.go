package upstream_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reef-chain/explorer-backtracker/internal/mocks"
	"github.com/reef-chain/explorer-backtracker/internal/providers/upstream"
)

const (
	boundAddress   = "0xabcdefabcdefabcdefabcdefabcdefabcdefabcd"
	unboundAddress = "0x2222222222222222222222222222222222222222"
)

func TestAccountResolver_NativeAddress(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockUpstreamClient(ctrl)
	resolver := upstream.NewAccountResolver(client, upstream.AccountCacheConfig{
		SizeMB:     1,
		TTL:        time.Hour,
		UnboundTTL: time.Minute,
	})
	ctx := context.Background()

	client.EXPECT().
		Query(ctx, "accounts", gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, field, document string, out interface{}) error {
			assert.Contains(t, document, `evmAddress_eq: "`+boundAddress+`"`)
			return respond(`[{"id":"5Native"}]`)(ctx, field, document, out)
		}).
		Times(1)

	native, err := resolver.NativeAddress(ctx, boundAddress)
	require.NoError(t, err)
	assert.Equal(t, "5Native", native)

	// cached regardless of case
	native, err = resolver.NativeAddress(ctx, "0x"+strings.ToUpper(boundAddress[2:]))
	require.NoError(t, err)
	assert.Equal(t, "5Native", native)
}

func TestAccountResolver_Unbound(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockUpstreamClient(ctrl)
	resolver := upstream.NewAccountResolver(client, upstream.AccountCacheConfig{
		SizeMB:     1,
		TTL:        time.Hour,
		UnboundTTL: time.Minute,
	})
	ctx := context.Background()

	client.EXPECT().Query(ctx, "accounts", gomock.Any(), gomock.Any()).DoAndReturn(respond(`[]`)).Times(1)

	for i := 0; i < 2; i++ {
		native, err := resolver.NativeAddress(ctx, unboundAddress)
		require.NoError(t, err)
		assert.Empty(t, native)
	}
}

func TestAccountResolver_NoUnboundCaching(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockUpstreamClient(ctrl)
	resolver := upstream.NewAccountResolver(client, upstream.AccountCacheConfig{TTL: time.Hour})
	ctx := context.Background()

	client.EXPECT().Query(ctx, "accounts", gomock.Any(), gomock.Any()).DoAndReturn(respond(`[]`)).Times(2)

	for i := 0; i < 2; i++ {
		_, err := resolver.NativeAddress(ctx, unboundAddress)
		require.NoError(t, err)
	}
}

func TestAccountResolver_Errors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := mocks.NewMockUpstreamClient(ctrl)
	resolver := upstream.NewAccountResolver(client, upstream.AccountCacheConfig{SizeMB: 1, TTL: time.Hour})
	ctx := context.Background()

	_, err := resolver.NativeAddress(ctx, "not-an-address")
	assert.Error(t, err)

	client.EXPECT().Query(ctx, "accounts", gomock.Any(), gomock.Any()).Return(errors.New("upstream down")).Times(2)

	// failures are not cached
	_, err = resolver.NativeAddress(ctx, boundAddress)
	assert.Error(t, err)
	_, err = resolver.NativeAddress(ctx, boundAddress)
	assert.Error(t, err)
}
