package schema

import "time"

// Transfer represents the transfer table.
// ERC1155 batch transfers share the event id, so rows are keyed by (id, nft_id).
type Transfer struct {
	ID string `gorm:"column:id;primaryKey;type:text"`
	// NftID is empty for fungible transfers
	NftID          string  `gorm:"column:nft_id;primaryKey;type:text"`
	BlockHeight    int64   `gorm:"column:block_height;not null"`
	BlockHash      string  `gorm:"column:block_hash;not null;type:text"`
	ExtrinsicID    string  `gorm:"column:extrinsic_id;not null;type:text"`
	ExtrinsicHash  string  `gorm:"column:extrinsic_hash;not null;type:text"`
	ExtrinsicIndex int64   `gorm:"column:extrinsic_index;not null"`
	ToID           string  `gorm:"column:to_id;not null;type:text"`
	FromID         string  `gorm:"column:from_id;not null;type:text"`
	TokenID        string  `gorm:"column:token_id;not null;type:text;index"`
	ToEvmAddress   string  `gorm:"column:to_evm_address;not null;type:text"`
	FromEvmAddress string  `gorm:"column:from_evm_address;not null;type:text"`
	Type           string  `gorm:"column:type;not null;type:text"`
	Amount         string  `gorm:"column:amount;not null;type:numeric(78,0)"`
	Denom          *string `gorm:"column:denom;type:text"`
	FeeAmount      string  `gorm:"column:fee_amount;not null;type:numeric(78,0)"`
	ErrorMessage   string  `gorm:"column:error_message;not null;type:text;default:''"`
	Success        bool    `gorm:"column:success;not null"`
	Finalized      bool    `gorm:"column:finalized;not null"`
	// Timestamp is the block time
	Timestamp time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
}

// TableName specifies the table name for the Transfer model
func (Transfer) TableName() string {
	return "transfer"
}
