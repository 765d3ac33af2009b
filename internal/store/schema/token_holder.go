package schema

import "time"

// TokenHolder represents the token_holder table
type TokenHolder struct {
	// ID is tokenId-owner[-nftId]
	ID         string    `gorm:"column:id;primaryKey;type:text"`
	Balance    string    `gorm:"column:balance;not null;type:numeric(78,0)"`
	SignerID   *string   `gorm:"column:signer_id;type:text"`
	EvmAddress *string   `gorm:"column:evm_address;type:text"`
	TokenID    string    `gorm:"column:token_id;not null;type:text;index"`
	NftID      *string   `gorm:"column:nft_id;type:text"`
	Type       string    `gorm:"column:type;not null;type:text"`
	Timestamp  time.Time `gorm:"column:timestamp;not null;type:timestamptz"`
	UpdatedAt  time.Time `gorm:"column:updated_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the TokenHolder model
func (TokenHolder) TableName() string {
	return "token_holder"
}
