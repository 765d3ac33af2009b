package ethereum

import (
	"context"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/reef-chain/explorer-backtracker/internal/logger"
)

// HeadHandler is called with every newly finalized header
type HeadHandler func(ctx context.Context, header *types.Header) error

// FinalizedHeadSubscriber streams finalized headers
//
//go:generate mockgen -source=subscriber.go -destination=../../mocks/ethereum_subscriber.go -package=mocks -mock_names=FinalizedHeadSubscriber=MockFinalizedHeadSubscriber
type FinalizedHeadSubscriber interface {
	// SubscribeFinalizedHeads calls handler once per finalized height, in increasing order.
	// It blocks until the context is canceled or the subscription fails.
	SubscribeFinalizedHeads(ctx context.Context, handler HeadHandler) error
}

type headSubscriber struct {
	client EthereumClient
}

// NewSubscriber creates a finalized head subscriber
func NewSubscriber(client EthereumClient) FinalizedHeadSubscriber {
	return &headSubscriber{client: client}
}

// SubscribeFinalizedHeads polls the finalized tag on every new head. Heights the node
// finalizes in one step are reported once, with the latest header.
func (s *headSubscriber) SubscribeFinalizedHeads(ctx context.Context, handler HeadHandler) error {
	heads := make(chan *types.Header)
	sub, err := s.client.SubscribeNewHead(ctx, heads)
	if err != nil {
		return fmt.Errorf("failed to subscribe to new heads: %w", err)
	}
	defer func() {
		logger.InfoCtx(ctx, "Unsubscribing from ethereum new heads")
		sub.Unsubscribe()
	}()

	var last uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-sub.Err():
			return fmt.Errorf("subscription error: %w", err)
		case head := <-heads:
			finalized, err := s.client.FinalizedHeader(ctx)
			if err != nil {
				if !errors.Is(err, context.Canceled) {
					logger.WarnCtx(ctx, "Failed to get finalized header",
						zap.Uint64("head", head.Number.Uint64()),
						zap.Error(err),
					)
				}
				continue
			}

			height := finalized.Number.Uint64()
			if height <= last {
				continue
			}
			last = height

			if err := handler(ctx, finalized); err != nil {
				logger.ErrorCtx(ctx, err, zap.String("message", "Error handling finalized head"), zap.Uint64("height", height))
			}
		}
	}
}
