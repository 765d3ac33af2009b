package schema

import (
	"time"

	"gorm.io/datatypes"
)

// EvmEventType tells whether an event was decoded against a verified ABI
type EvmEventType string

const (
	EvmEventTypeUnverified EvmEventType = "Unverified"
	EvmEventTypeVerified   EvmEventType = "Verified"
)

// EvmEvent represents the evm_event table
type EvmEvent struct {
	ID              string `gorm:"column:id;primaryKey;type:text"`
	BlockID         string `gorm:"column:block_id;not null;type:text"`
	BlockHeight     int64  `gorm:"column:block_height;not null"`
	BlockHash       string `gorm:"column:block_hash;not null;type:text"`
	ExtrinsicID     string `gorm:"column:extrinsic_id;not null;type:text"`
	ExtrinsicHash   string `gorm:"column:extrinsic_hash;not null;type:text"`
	ExtrinsicIndex  int64  `gorm:"column:extrinsic_index;not null"`
	EventIndex      int64  `gorm:"column:event_index;not null"`
	ContractAddress string `gorm:"column:contract_address;not null;type:text;index:idx_evm_event_contract_type,priority:1"`
	// RawData is the undecoded log {address, topics, data}
	RawData    datatypes.JSON `gorm:"column:raw_data;not null;type:jsonb"`
	SignedData datatypes.JSON `gorm:"column:signed_data;type:jsonb"`
	// DataParsed is set once the log is decoded
	DataParsed datatypes.JSON `gorm:"column:data_parsed;type:jsonb"`
	Type       EvmEventType   `gorm:"column:type;not null;type:text;index:idx_evm_event_contract_type,priority:2"`
	Finalized  bool           `gorm:"column:finalized;not null;default:false"`
	Timestamp  time.Time      `gorm:"column:timestamp;not null;type:timestamptz"`
}

// TableName specifies the table name for the EvmEvent model
func (EvmEvent) TableName() string {
	return "evm_event"
}
