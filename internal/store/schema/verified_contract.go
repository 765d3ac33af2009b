package schema

import (
	"time"

	"gorm.io/datatypes"
)

// VerifiedContract represents the verified_contract table
type VerifiedContract struct {
	// ID is the contract address
	ID   string `gorm:"column:id;primaryKey;type:text"`
	Name string `gorm:"column:name;not null;type:text"`
	// Type is the declared token standard (ERC20, ERC721, ERC1155 or other)
	Type string `gorm:"column:type;not null;type:text"`
	// ContractData holds token metadata such as name, symbol and decimals
	ContractData datatypes.JSON `gorm:"column:contract_data;type:jsonb"`
	// CompiledData maps compilation unit names to their ABIs
	CompiledData datatypes.JSON `gorm:"column:compiled_data;not null;type:jsonb"`
	CreatedAt    time.Time      `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the VerifiedContract model
func (VerifiedContract) TableName() string {
	return "verified_contract"
}
