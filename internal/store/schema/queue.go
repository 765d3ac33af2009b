package schema

import "time"

// NewlyVerifiedContractQueue holds contracts waiting for their history to be backtracked
type NewlyVerifiedContractQueue struct {
	// ID is the contract address
	ID        string    `gorm:"column:id;primaryKey;type:text"`
	CreatedAt time.Time `gorm:"column:created_at;not null;default:now();type:timestamptz"`
}

// TableName specifies the table name for the NewlyVerifiedContractQueue model
func (NewlyVerifiedContractQueue) TableName() string {
	return "newly_verified_contract_queue"
}
