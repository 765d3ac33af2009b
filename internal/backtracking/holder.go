package backtracking

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/reef-chain/explorer-backtracker/internal/batch"
	"github.com/reef-chain/explorer-backtracker/internal/domain"
	"github.com/reef-chain/explorer-backtracker/internal/logger"
	"github.com/reef-chain/explorer-backtracker/internal/types"
)

// HolderProjector turns classified logs into token holder balance snapshots
type HolderProjector struct {
	resolver  AddressResolver
	balances  BalanceReader
	chunkSize int
}

// NewHolderProjector creates a projector reading balances in waves of chunkSize holders
func NewHolderProjector(resolver AddressResolver, balances BalanceReader, chunkSize int) *HolderProjector {
	return &HolderProjector{
		resolver:  resolver,
		balances:  balances,
		chunkSize: chunkSize,
	}
}

// Heads returns the deduplicated holder candidates of logs, without the zero address
func (p *HolderProjector) Heads(ctx context.Context, logs []domain.EvmLog) []domain.TokenHolderHead {
	var heads []domain.TokenHolderHead
	for i := range logs {
		heads = append(heads, p.heads(ctx, &logs[i])...)
	}

	heads = types.DedupLast(heads, domain.TokenHolderHead.Key)
	return types.Filter(heads, func(h domain.TokenHolderHead) bool {
		return !domain.IsZeroAddress(h.EvmAddress)
	})
}

func (p *HolderProjector) heads(ctx context.Context, log *domain.EvmLog) []domain.TokenHolderHead {
	kind := Classify(log)
	if kind == EventKindUnclassified {
		return nil
	}

	moves, err := movements(kind, log.DecodedEvent)
	if err != nil {
		logger.WarnCtx(ctx, "Dropping holder log with unexpected arguments",
			zap.String("event_id", log.ID),
			zap.String("kind", kind.String()),
			zap.Error(err),
		)
		return nil
	}

	heads := make([]domain.TokenHolderHead, 0, 2*len(moves))
	for _, m := range moves {
		for _, owner := range []string{m.To, m.From} {
			heads = append(heads, domain.TokenHolderHead{
				Type:       kind.TokenType(),
				NftID:      m.NftID,
				Timestamp:  log.Timestamp,
				EvmAddress: owner,
				TokenID:    log.Address,
				ABI:        log.ABI(),
			})
		}
	}
	return heads
}

// Project returns the current balance snapshot of every counterparty in logs.
// Candidates whose balance cannot be read are dropped; a resolver error fails the whole call.
func (p *HolderProjector) Project(ctx context.Context, logs []domain.EvmLog) ([]domain.TokenHolder, error) {
	heads := p.Heads(ctx, logs)

	results, err := batch.InWaves(ctx, heads, p.chunkSize, p.holder)
	if err != nil {
		return nil, err
	}

	holders := make([]domain.TokenHolder, 0, len(results))
	for _, r := range results {
		if r != nil {
			holders = append(holders, *r)
		}
	}
	return types.DedupLast(holders, func(h domain.TokenHolder) string { return h.ID }), nil
}

// holder builds the snapshot of one candidate, or nil when its balance is unavailable
func (p *HolderProjector) holder(ctx context.Context, head domain.TokenHolderHead) (*domain.TokenHolder, error) {
	balance, err := p.balance(ctx, head)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return nil, err
		}
		// self-destructed contracts have no state left to read
		logger.DebugCtx(ctx, "Dropping holder without readable balance",
			zap.String("token", head.TokenID),
			zap.String("owner", head.EvmAddress),
			zap.Error(err),
		)
		return nil, nil
	}

	native, err := p.resolver.NativeAddress(ctx, head.EvmAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", head.EvmAddress, err)
	}

	holder := domain.NewTokenHolder(head, native, balance)
	return &holder, nil
}

func (p *HolderProjector) balance(ctx context.Context, head domain.TokenHolderHead) (string, error) {
	if head.Type == domain.TokenTypeERC1155 {
		return p.balances.BalanceOfNft(ctx, head.EvmAddress, head.TokenID, types.SafeString(head.NftID), head.ABI)
	}
	return p.balances.BalanceOf(ctx, head.EvmAddress, head.TokenID, head.ABI)
}
