package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reef-chain/explorer-backtracker/internal/domain"
	"github.com/reef-chain/explorer-backtracker/internal/logger"
	"github.com/reef-chain/explorer-backtracker/internal/store/schema"
	"github.com/reef-chain/explorer-backtracker/internal/types"
)

type pgStore struct {
	FinalizedBlockStore
	db *gorm.DB
}

// NewPGStore creates a new PostgreSQL store instance
func NewPGStore(db *gorm.DB) Store {
	return &pgStore{
		FinalizedBlockStore: NewCursorStore(db),
		db:                  db,
	}
}

// ConfigureConnectionPool configures the connection pool settings for a GORM database connection.
// It accesses the underlying *sql.DB and sets the pool configuration.
// If any of the pool settings are 0 or empty, reasonable defaults are used:
//   - MaxOpenConns: 20 (if 0)
//   - MaxIdleConns: 5 (if 0)
//   - ConnMaxLifetime: 5 minutes (if 0)
//   - ConnMaxIdleTime: 10 minutes (if 0)
func ConfigureConnectionPool(db *gorm.DB, maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime =
		NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime)

	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)
	sqlDB.SetConnMaxIdleTime(connMaxIdleTime)

	return nil
}

// NormalizeConnectionPoolSettings applies defaults and keeps idle connections within the open limit
func NormalizeConnectionPoolSettings(maxOpenConns, maxIdleConns int, connMaxLifetime, connMaxIdleTime time.Duration) (int, int, time.Duration, time.Duration) {
	if maxOpenConns == 0 {
		maxOpenConns = 20
	}
	if maxIdleConns == 0 {
		maxIdleConns = 5
	}
	if connMaxLifetime == 0 {
		connMaxLifetime = 5 * time.Minute
	}
	if connMaxIdleTime == 0 {
		connMaxIdleTime = 10 * time.Minute
	}

	if maxIdleConns > maxOpenConns {
		maxIdleConns = maxOpenConns
	}

	return maxOpenConns, maxIdleConns, connMaxLifetime, connMaxIdleTime
}

// calculateSafeBatchSize returns how many records fit in one insert without exceeding
// PostgreSQL's limit of 65535 bind parameters per statement
func calculateSafeBatchSize(totalRecords int, fieldsPerRecord int) int {
	const maxParams = 65535
	const totalHeadroom = 1000

	availableParams := maxParams - totalHeadroom
	safeBatchSize := max(availableParams/fieldsPerRecord, 1)

	if safeBatchSize > totalRecords {
		return totalRecords
	}

	return safeBatchSize
}

// ListPendingContracts returns the oldest queued contracts first
func (s *pgStore) ListPendingContracts(ctx context.Context, limit int) ([]domain.WorkItem, error) {
	var rows []schema.NewlyVerifiedContractQueue
	err := s.db.WithContext(ctx).
		Order("created_at ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list pending contracts: %w", err)
	}

	items := make([]domain.WorkItem, len(rows))
	for i, row := range rows {
		items[i] = domain.WorkItem{ID: row.ID}
	}
	return items, nil
}

// DeleteQueueItem removes a contract from the queue. Deleting a missing item is not an error.
func (s *pgStore) DeleteQueueItem(ctx context.Context, id string) error {
	err := s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&schema.NewlyVerifiedContractQueue{}).Error
	if err != nil {
		return fmt.Errorf("failed to delete queue item: %w", err)
	}
	return nil
}

// ListUnresolvedEvents returns the contract's events that were never decoded, in chain order
func (s *pgStore) ListUnresolvedEvents(ctx context.Context, contractID string) ([]domain.RawEvmEvent, error) {
	var rows []schema.EvmEvent
	err := s.db.WithContext(ctx).
		Where("lower(contract_address) = lower(?) AND type = ?", contractID, schema.EvmEventTypeUnverified).
		Order("block_height ASC, extrinsic_index ASC, event_index ASC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list unresolved events: %w", err)
	}

	events := make([]domain.RawEvmEvent, 0, len(rows))
	for _, row := range rows {
		event, err := toRawEvmEvent(row)
		if err != nil {
			// a malformed row must not block the rest of the contract's history
			logger.WarnCtx(ctx, "Skipping malformed evm event", zap.String("event_id", row.ID), zap.Error(err))
			continue
		}
		events = append(events, event)
	}
	return events, nil
}

// GetVerifiedContract returns the verified contract or nil when it does not exist
func (s *pgStore) GetVerifiedContract(ctx context.Context, id string) (*domain.VerifiedContract, error) {
	var row schema.VerifiedContract
	err := s.db.WithContext(ctx).Where("lower(id) = lower(?)", id).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get verified contract: %w", err)
	}

	contract, err := toVerifiedContract(row)
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

// SaveTransfers upserts transfers by (id, nft_id)
func (s *pgStore) SaveTransfers(ctx context.Context, transfers []domain.Transfer) error {
	if len(transfers) == 0 {
		return nil
	}

	rows := make([]schema.Transfer, len(transfers))
	for i, transfer := range transfers {
		rows[i] = fromTransfer(transfer)
	}
	// one statement can not update the same row twice
	rows = types.DedupLast(rows, func(row schema.Transfer) [2]string { return [2]string{row.ID, row.NftID} })

	batchSize := calculateSafeBatchSize(len(rows), 20)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}, {Name: "nft_id"}},
		UpdateAll: true,
	}).CreateInBatches(rows, batchSize).Error
	if err != nil {
		return fmt.Errorf("failed to save transfers: %w", err)
	}
	return nil
}

// SaveTokenHolders upserts token holders by id
func (s *pgStore) SaveTokenHolders(ctx context.Context, holders []domain.TokenHolder) error {
	if len(holders) == 0 {
		return nil
	}

	rows := make([]schema.TokenHolder, len(holders))
	for i, holder := range holders {
		rows[i] = fromTokenHolder(holder)
	}
	rows = types.DedupLast(rows, func(row schema.TokenHolder) string { return row.ID })

	batchSize := calculateSafeBatchSize(len(rows), 9)
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"balance", "signer_id", "evm_address", "type", "timestamp", "updated_at"}),
	}).CreateInBatches(rows, batchSize).Error
	if err != nil {
		return fmt.Errorf("failed to save token holders: %w", err)
	}
	return nil
}

// MarkEventsDecoded stores the decoded form of each event and flags it verified
func (s *pgStore) MarkEventsDecoded(ctx context.Context, events []domain.EvmEventDataParsed) error {
	if len(events) == 0 {
		return nil
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, event := range events {
			parsed, err := json.Marshal(event.DataParsed)
			if err != nil {
				return fmt.Errorf("failed to marshal decoded event %s: %w", event.ID, err)
			}

			err = tx.Model(&schema.EvmEvent{}).
				Where("id = ?", event.ID).
				Updates(map[string]interface{}{
					"data_parsed": datatypes.JSON(parsed),
					"type":        schema.EvmEventTypeVerified,
				}).Error
			if err != nil {
				return fmt.Errorf("failed to mark event %s decoded: %w", event.ID, err)
			}
		}
		return nil
	})
}

// NativeAddress returns the native account bound to evmAddress or an empty string
func (s *pgStore) NativeAddress(ctx context.Context, evmAddress string) (string, error) {
	var account schema.Account
	err := s.db.WithContext(ctx).
		Where("lower(evm_address) = lower(?)", evmAddress).
		First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", fmt.Errorf("failed to resolve native address: %w", err)
	}
	return account.ID, nil
}
