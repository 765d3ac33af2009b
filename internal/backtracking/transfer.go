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

// TransferProjector turns classified logs into normalized transfers
type TransferProjector struct {
	resolver  AddressResolver
	chunkSize int
}

// NewTransferProjector creates a projector resolving counterparties in waves of chunkSize addresses
func NewTransferProjector(resolver AddressResolver, chunkSize int) *TransferProjector {
	return &TransferProjector{
		resolver:  resolver,
		chunkSize: chunkSize,
	}
}

// classifiedLog is a transfer log with its movements extracted
type classifiedLog struct {
	log   *domain.EvmLog
	kind  EventKind
	moves []movement
}

// Project returns the transfers carried by logs. Unclassified logs are ignored and logs whose
// arguments do not have the expected shape are dropped. A resolver error fails the whole call.
func (p *TransferProjector) Project(ctx context.Context, logs []domain.EvmLog) ([]domain.Transfer, error) {
	classified := make([]classifiedLog, 0, len(logs))
	var addresses []string
	for i := range logs {
		log := &logs[i]
		kind := Classify(log)
		if kind == EventKindUnclassified {
			continue
		}

		moves, err := movements(kind, log.DecodedEvent)
		if err != nil {
			if errors.Is(err, domain.ErrUnexpectedArgs) || errors.Is(err, domain.ErrBatchLengthMismatch) {
				logger.WarnCtx(ctx, "Dropping transfer log with unexpected arguments",
					zap.String("event_id", log.ID),
					zap.String("kind", kind.String()),
					zap.Error(err),
				)
				continue
			}
			return nil, err
		}
		if len(moves) == 0 {
			continue
		}

		// every movement of a log shares the same counterparties
		classified = append(classified, classifiedLog{log: log, kind: kind, moves: moves})
		addresses = append(addresses, moves[0].From, moves[0].To)
	}

	natives, err := p.resolveAll(ctx, addresses)
	if err != nil {
		return nil, err
	}

	var transfers []domain.Transfer
	for _, c := range classified {
		transfers = append(transfers, project(c, natives)...)
	}
	return transfers, nil
}

// resolveAll resolves each distinct address once, at most chunkSize at a time.
// Unbound addresses map to "0x".
func (p *TransferProjector) resolveAll(ctx context.Context, addresses []string) (map[string]string, error) {
	unique := types.DedupLast(addresses, func(a string) string { return a })

	ids, err := batch.InWaves(ctx, unique, p.chunkSize, func(ctx context.Context, address string) (string, error) {
		id, err := p.resolver.NativeAddress(ctx, address)
		if err != nil {
			return "", fmt.Errorf("failed to resolve %s: %w", address, err)
		}
		return nativeOrUnresolved(id), nil
	})
	if err != nil {
		return nil, err
	}

	natives := make(map[string]string, len(unique))
	for i, address := range unique {
		natives[address] = ids[i]
	}
	return natives, nil
}

func project(c classifiedLog, natives map[string]string) []domain.Transfer {
	log := c.log
	from, to := c.moves[0].From, c.moves[0].To

	base := domain.Transfer{
		ID:             log.ID,
		BlockHeight:    log.BlockHeight,
		BlockHash:      log.BlockHash,
		ExtrinsicID:    log.ExtrinsicID,
		ExtrinsicHash:  log.ExtrinsicHash,
		ExtrinsicIndex: log.ExtrinsicIndex,
		ToID:           natives[to],
		FromID:         natives[from],
		TokenID:        log.Address,
		ToEvmAddress:   to,
		FromEvmAddress: from,
		Type:           c.kind.TokenType(),
		Amount:         "0",
		FeeAmount:      log.SignedData.FeeAmount(),
		Success:        true,
		Timestamp:      log.Timestamp,
		Finalized:      log.Finalized,
	}
	if c.kind == EventKindERC20Transfer && log.ContractData != nil && log.ContractData.Symbol != "" {
		symbol := log.ContractData.Symbol
		base.Denom = &symbol
	}

	transfers := make([]domain.Transfer, len(c.moves))
	for i, m := range c.moves {
		t := base
		t.Amount = m.Amount
		t.NftID = m.NftID
		transfers[i] = t
	}
	return transfers
}

func nativeOrUnresolved(id string) string {
	if id == "" {
		return domain.UnresolvedNativeID
	}
	return id
}
