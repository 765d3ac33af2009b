package tracker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/core/types"
	"go.uber.org/zap"

	"github.com/reef-chain/explorer-backtracker/internal/logger"
	"github.com/reef-chain/explorer-backtracker/internal/providers/ethereum"
)

// BlockInfo represents the last finalized block that was reported
type BlockInfo struct {
	Height    uint64
	Hash      string
	Timestamp time.Time
}

// FinalizedBlockReporter tells the indexing service which blocks are final
//
//go:generate mockgen -source=tracker.go -destination=../mocks/tracker.go -package=mocks -mock_names=FinalizedBlockReporter=MockFinalizedBlockReporter
type FinalizedBlockReporter interface {
	ReportFinalizedBlock(ctx context.Context, height uint64, hash string) error
}

// Tracker forwards finalized heads to the indexing service
type Tracker struct {
	subscriber ethereum.FinalizedHeadSubscriber
	reporter   FinalizedBlockReporter

	mu     sync.RWMutex
	latest *BlockInfo
}

// New creates a finalized head tracker
func New(subscriber ethereum.FinalizedHeadSubscriber, reporter FinalizedBlockReporter) *Tracker {
	return &Tracker{
		subscriber: subscriber,
		reporter:   reporter,
	}
}

// Run blocks until ctx is canceled or the head subscription fails
func (t *Tracker) Run(ctx context.Context) error {
	logger.InfoCtx(ctx, "Tracking finalized blocks")

	err := t.subscriber.SubscribeFinalizedHeads(ctx, t.report)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("finalized head subscription stopped: %w", err)
	}
	return nil
}

// Latest returns the last block that was reported successfully
func (t *Tracker) Latest() (BlockInfo, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if t.latest == nil {
		return BlockInfo{}, false
	}
	return *t.latest, true
}

func (t *Tracker) report(ctx context.Context, header *types.Header) error {
	height := header.Number.Uint64()
	hash := header.Hash().Hex()

	if err := t.reporter.ReportFinalizedBlock(ctx, height, hash); err != nil {
		return fmt.Errorf("failed to report finalized block %d: %w", height, err)
	}

	logger.DebugCtx(ctx, "Reported finalized block", zap.Uint64("height", height), zap.String("hash", hash))

	t.mu.Lock()
	t.latest = &BlockInfo{
		Height:    height,
		Hash:      hash,
		Timestamp: time.Unix(int64(header.Time), 0).UTC(),
	}
	t.mu.Unlock()

	return nil
}
