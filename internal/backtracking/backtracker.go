package backtracking

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/reef-chain/explorer-backtracker/internal/adapter"
	"github.com/reef-chain/explorer-backtracker/internal/batch"
	"github.com/reef-chain/explorer-backtracker/internal/decoder"
	"github.com/reef-chain/explorer-backtracker/internal/domain"
	"github.com/reef-chain/explorer-backtracker/internal/logger"
	"github.com/reef-chain/explorer-backtracker/internal/metrics"
)

// Config holds the backtracking loop configuration
type Config struct {
	ChunkSize    int           // Max concurrent resolver/balance calls per wave
	MutationSize int           // Records per upstream write
	QueueLimit   int           // Work items fetched per poll
	PollInterval time.Duration // Sleep between polling cycles
}

func (c Config) withDefaults() Config {
	if c.ChunkSize <= 0 {
		c.ChunkSize = domain.DefaultChunkSize
	}
	if c.MutationSize <= 0 {
		c.MutationSize = domain.DefaultMutationSize
	}
	if c.QueueLimit <= 0 {
		c.QueueLimit = domain.DefaultQueueLimit
	}
	if c.PollInterval <= 0 {
		c.PollInterval = domain.DefaultPollInterval
	}
	return c
}

// ErrBacktrackerStopped is returned when Start is called on a backtracker whose loop already exited
var ErrBacktrackerStopped = errors.New("backtracker already stopped")

// Backtracker reprocesses the history of newly verified contracts
//
//go:generate mockgen -source=backtracker.go -destination=../mocks/backtracker.go -package=mocks -mock_names=Backtracker=MockBacktracker
type Backtracker interface {
	// Start runs the polling loop until the context is canceled or Stop is called.
	// A backtracker runs once; Start after the loop exited returns ErrBacktrackerStopped.
	Start(ctx context.Context) error

	// Stop gracefully stops the loop, waiting for the item in progress
	Stop(ctx context.Context) error

	// Name returns the loop name for logging
	Name() string

	// RunCycle polls the queue once and processes every returned item sequentially
	RunCycle(ctx context.Context) error

	// ProcessContract backtracks one contract. A nil error means the work item can be dequeued.
	ProcessContract(ctx context.Context, address string) (Stats, error)
}

type backtracker struct {
	config    Config
	source    Source
	sink      Sink
	transfers *TransferProjector
	holders   *HolderProjector
	retry     RetryPolicy
	notifier  Notifier
	clock     adapter.Clock
	metrics   metrics.BacktrackingMetrics

	transferWriter *batch.Writer[domain.Transfer]
	holderWriter   *batch.Writer[domain.TokenHolder]
	ackWriter      *batch.Writer[domain.EvmEventDataParsed]

	running   atomic.Bool
	stopChan  chan struct{}
	stoppedCh chan struct{}
}

// NewBacktracker creates the backtracking orchestrator. notifier may be nil.
func NewBacktracker(
	config Config,
	source Source,
	sink Sink,
	resolver AddressResolver,
	balances BalanceReader,
	retry RetryPolicy,
	notifier Notifier,
	clock adapter.Clock,
) Backtracker {
	config = config.withDefaults()
	if retry == nil {
		retry = NewRetryForever()
	}

	return &backtracker{
		config:    config,
		source:    source,
		sink:      sink,
		transfers: NewTransferProjector(resolver, config.ChunkSize),
		holders:   NewHolderProjector(resolver, balances, config.ChunkSize),
		retry:     retry,
		notifier:  notifier,
		clock:     clock,
		metrics:   metrics.NewDefaultBacktrackingMetrics("explorer"),

		transferWriter: batch.NewWriter("transfers", config.MutationSize, sink.SaveTransfers),
		holderWriter:   batch.NewWriter("token_holders", config.MutationSize, sink.SaveTokenHolders),
		ackWriter:      batch.NewWriter("evm_events", config.MutationSize, sink.MarkEventsDecoded, batch.Sequential()),

		stopChan:  make(chan struct{}),
		stoppedCh: make(chan struct{}),
	}
}

// Name returns the loop name
func (b *backtracker) Name() string {
	return "backtracker"
}

// Start runs the polling loop
func (b *backtracker) Start(ctx context.Context) error {
	if !b.running.CompareAndSwap(false, true) {
		return fmt.Errorf("backtracker already running")
	}
	select {
	case <-b.stoppedCh:
		b.running.Store(false)
		return ErrBacktrackerStopped
	default:
	}
	defer func() {
		b.running.Store(false)
		close(b.stoppedCh)
	}()

	logger.InfoCtx(ctx, "Starting backtracking service",
		zap.Int("chunk_size", b.config.ChunkSize),
		zap.Int("mutation_size", b.config.MutationSize),
		zap.Int("queue_limit", b.config.QueueLimit),
		zap.Duration("poll_interval", b.config.PollInterval),
	)

	for {
		select {
		case <-ctx.Done():
			logger.InfoCtx(ctx, "Backtracking service stopping due to context cancellation", zap.Error(ctx.Err()))
			return nil
		case <-b.stopChan:
			logger.InfoCtx(ctx, "Backtracking service stop requested")
			return nil
		default:
		}

		if err := b.RunCycle(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.ErrorCtx(ctx, err)
		}

		if !b.sleep(ctx, b.config.PollInterval) {
			logger.InfoCtx(ctx, "Backtracking service stopped")
			return nil
		}
	}
}

// Stop signals the loop to exit after the item in progress
func (b *backtracker) Stop(ctx context.Context) error {
	if !b.running.Load() {
		return nil
	}

	logger.InfoCtx(ctx, "Stopping backtracking service")
	select {
	case <-b.stopChan:
	default:
		close(b.stopChan)
	}

	select {
	case <-b.stoppedCh:
		logger.InfoCtx(ctx, "Backtracking service stopped gracefully")
		return nil
	case <-ctx.Done():
		logger.WarnCtx(ctx, "Backtracking service stop interrupted by context timeout")
		return ctx.Err()
	}
}

// sleep waits for duration and reports false when interrupted
func (b *backtracker) sleep(ctx context.Context, duration time.Duration) bool {
	select {
	case <-b.clock.After(duration):
		return true
	case <-ctx.Done():
		return false
	case <-b.stopChan:
		return false
	}
}

func (b *backtracker) stopping() bool {
	select {
	case <-b.stopChan:
		return true
	default:
		return false
	}
}

// RunCycle polls the queue once and processes its items one after another
func (b *backtracker) RunCycle(ctx context.Context) error {
	items, err := b.source.ListPendingContracts(ctx, b.config.QueueLimit)
	if err != nil {
		return fmt.Errorf("failed to list pending contracts: %w", err)
	}
	b.metrics.QueueBatch(len(items))

	if len(items) == 0 {
		logger.DebugCtx(ctx, "No newly verified contracts to backtrack")
		return nil
	}
	logger.InfoCtx(ctx, "Found newly verified contracts", zap.Int("count", len(items)))

	for _, item := range items {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if b.stopping() {
			return nil
		}

		if !b.retry.ShouldAttempt(item.ID, b.clock.Now()) {
			logger.DebugCtx(ctx, "Contract is backing off", zap.String("contract", item.ID))
			b.metrics.Contracts(metrics.StatusSkipped).Inc()
			continue
		}

		b.processItem(ctx, item)
	}

	return nil
}

func (b *backtracker) processItem(ctx context.Context, item domain.WorkItem) {
	stats, err := b.ProcessContract(ctx, item.ID)
	if err != nil {
		b.retry.RecordFailure(item.ID, b.clock.Now())
		b.metrics.Contracts(metrics.StatusFailure).Inc()
		logger.WarnCtx(ctx, "Error processing contract events",
			zap.String("contract", item.ID),
			zap.Error(err),
		)
		return
	}

	if err := b.source.DeleteQueueItem(ctx, item.ID); err != nil {
		// the item is reprocessed next cycle; sinks upsert by id
		b.retry.RecordFailure(item.ID, b.clock.Now())
		b.metrics.Contracts(metrics.StatusFailure).Inc()
		logger.ErrorCtx(ctx, fmt.Errorf("failed to dequeue contract: %w", err), zap.String("contract", item.ID))
		return
	}

	b.retry.RecordSuccess(item.ID)
	b.metrics.Contracts(metrics.StatusSuccess).Inc()

	if b.notifier != nil {
		if err := b.notifier.ContractBacktracked(ctx, item.ID, stats); err != nil {
			logger.WarnCtx(ctx, "Failed to publish backtracking completion",
				zap.String("contract", item.ID),
				zap.Error(err),
			)
		}
	}
}

// ProcessContract runs the backtracking saga of one contract:
// decode its raw events, write transfers, then holders, then acknowledge the decoded events.
// Each step aborts the saga on failure, leaving already written records in place.
func (b *backtracker) ProcessContract(ctx context.Context, address string) (Stats, error) {
	var stats Stats
	ctx = logger.WithFields(ctx, zap.String("contract", address))

	logger.InfoCtx(ctx, "Retrieving unverified evm events")
	timer := b.metrics.StepLatency("fetch_events")
	events, err := b.source.ListUnresolvedEvents(ctx, address)
	timer.ObserveDuration()
	if err != nil {
		return stats, fmt.Errorf("failed to list unresolved events: %w", err)
	}
	if len(events) == 0 {
		logger.InfoCtx(ctx, "No unverified evm events")
		return stats, nil
	}
	stats.Events = len(events)

	contract, err := b.source.GetVerifiedContract(ctx, address)
	if err != nil {
		return stats, fmt.Errorf("failed to get verified contract: %w", err)
	}
	if contract == nil {
		return stats, fmt.Errorf("%w: %s", domain.ErrContractNotFound, address)
	}

	logs, acks, err := b.decode(ctx, contract, events)
	if err != nil {
		return stats, err
	}
	stats.Decoded = len(logs)
	b.metrics.Records("events").Add(float64(stats.Events))
	b.metrics.Records("decoded").Add(float64(stats.Decoded))

	logger.InfoCtx(ctx, "Decoded unverified evm events",
		zap.Int("events", stats.Events),
		zap.Int("decoded", stats.Decoded),
	)

	// both projections only read logs
	var transfers []domain.Transfer
	var holders []domain.TokenHolder
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer b.metrics.StepLatency("project_transfers").ObserveDuration()
		var err error
		transfers, err = b.transfers.Project(gctx, logs)
		if err != nil {
			return fmt.Errorf("failed to project transfers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		defer b.metrics.StepLatency("project_holders").ObserveDuration()
		var err error
		holders, err = b.holders.Project(gctx, logs)
		if err != nil {
			return fmt.Errorf("failed to project token holders: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return stats, err
	}
	stats.Transfers = len(transfers)
	stats.Holders = len(holders)

	logger.InfoCtx(ctx, "Inserting transfers", zap.Int("count", len(transfers)))
	timer = b.metrics.StepLatency("save_transfers")
	err = b.transferWriter.Write(ctx, transfers)
	timer.ObserveDuration()
	if err != nil {
		return stats, fmt.Errorf("failed to save transfers: %w", err)
	}

	logger.InfoCtx(ctx, "Inserting token holders", zap.Int("count", len(holders)))
	timer = b.metrics.StepLatency("save_token_holders")
	err = b.holderWriter.Write(ctx, holders)
	timer.ObserveDuration()
	if err != nil {
		return stats, fmt.Errorf("failed to save token holders: %w", err)
	}

	logger.InfoCtx(ctx, "Updating evm events with parsed data", zap.Int("count", len(acks)))
	timer = b.metrics.StepLatency("mark_events_decoded")
	err = b.ackWriter.Write(ctx, acks)
	timer.ObserveDuration()
	if err != nil {
		return stats, fmt.Errorf("failed to mark events decoded: %w", err)
	}

	b.metrics.Records("transfers").Add(float64(stats.Transfers))
	b.metrics.Records("holders").Add(float64(stats.Holders))

	logger.InfoCtx(ctx, "Contract events updated successfully",
		zap.Int("transfers", stats.Transfers),
		zap.Int("holders", stats.Holders),
	)
	return stats, nil
}

// decode parses every raw event against the contract ABI. Events that do not match the ABI are skipped.
func (b *backtracker) decode(ctx context.Context, contract *domain.VerifiedContract, events []domain.RawEvmEvent) ([]domain.EvmLog, []domain.EvmEventDataParsed, error) {
	abiJSON, ok := contract.ABI()
	if !ok {
		return nil, nil, fmt.Errorf("%w: %s (%s)", domain.ErrNoABI, contract.ID, contract.Name)
	}

	dec, err := decoder.New(abiJSON)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build decoder for %s: %w", contract.ID, err)
	}

	logs := make([]domain.EvmLog, 0, len(events))
	acks := make([]domain.EvmEventDataParsed, 0, len(events))
	for _, event := range events {
		decoded, err := dec.ParseLog(event.RawData)
		if err != nil {
			logger.DebugCtx(ctx, "No matching event in abi, skipping",
				zap.String("event_id", event.ID),
				zap.Error(err),
			)
			continue
		}

		logs = append(logs, newEvmLog(contract, event, decoded))
		acks = append(acks, domain.EvmEventDataParsed{ID: event.ID, DataParsed: decoded})
	}

	return logs, acks, nil
}

// newEvmLog attaches the contract context to a decoded event
func newEvmLog(contract *domain.VerifiedContract, event domain.RawEvmEvent, decoded domain.DecodedEvent) domain.EvmLog {
	return domain.EvmLog{
		ID:             event.ID,
		BlockID:        event.BlockID,
		BlockHeight:    event.BlockHeight,
		BlockHash:      event.BlockHash,
		ExtrinsicID:    event.ExtrinsicID,
		ExtrinsicHash:  event.ExtrinsicHash,
		ExtrinsicIndex: event.ExtrinsicIndex,
		Address:        contract.ID,
		Name:           contract.Name,
		Type:           contract.Type,
		ContractData:   contract.ContractData,
		ABIs:           contract.CompiledData,
		Data:           event.RawData.Data,
		Topics:         event.RawData.Topics,
		SignedData:     event.SignedData,
		Finalized:      event.Finalized,
		Timestamp:      event.Timestamp.UnixMilli(),
		DecodedEvent:   decoded,
	}
}
