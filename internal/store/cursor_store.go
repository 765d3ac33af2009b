package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/reef-chain/explorer-backtracker/internal/store/schema"
)

const finalizedBlockKey = "finalized_block"

// FinalizedBlock is the last block reported final
type FinalizedBlock struct {
	Height uint64 `json:"height"`
	Hash   string `json:"hash"`
}

// FinalizedBlockStore records the finalized head
type FinalizedBlockStore interface {
	// GetFinalizedBlock returns the last finalized block or nil when none was reported
	GetFinalizedBlock(ctx context.Context) (*FinalizedBlock, error)
	// ReportFinalizedBlock stores a finalized block. Lower heights than the stored one are ignored.
	ReportFinalizedBlock(ctx context.Context, height uint64, hash string) error
}

type cursorStore struct {
	db *gorm.DB
}

// NewCursorStore creates a new finalized block store
func NewCursorStore(db *gorm.DB) FinalizedBlockStore {
	return &cursorStore{db: db}
}

// GetFinalizedBlock retrieves the last finalized block
func (s *cursorStore) GetFinalizedBlock(ctx context.Context) (*FinalizedBlock, error) {
	var kv schema.KeyValueStore
	err := s.db.WithContext(ctx).Where("key = ?", finalizedBlockKey).First(&kv).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get finalized block: %w", err)
	}

	var block FinalizedBlock
	if err := json.Unmarshal([]byte(kv.Value), &block); err != nil {
		return nil, fmt.Errorf("failed to parse finalized block: %w", err)
	}

	return &block, nil
}

// ReportFinalizedBlock stores the finalized block when it is higher than the stored one
func (s *cursorStore) ReportFinalizedBlock(ctx context.Context, height uint64, hash string) error {
	value, err := json.Marshal(FinalizedBlock{Height: height, Hash: hash})
	if err != nil {
		return fmt.Errorf("failed to marshal finalized block: %w", err)
	}

	kv := schema.KeyValueStore{
		Key:   finalizedBlockKey,
		Value: string(value),
	}

	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		Where: clause.Where{Exprs: []clause.Expression{
			clause.Expr{SQL: "(key_value_store.value::jsonb->>'height')::numeric < ?", Vars: []interface{}{height}},
		}},
	}).Create(&kv).Error
	if err != nil {
		return fmt.Errorf("failed to set finalized block: %w", err)
	}

	return nil
}
