package schema

// Account binds a native account to its EVM address
type Account struct {
	// ID is the native address
	ID         string  `gorm:"column:id;primaryKey;type:text"`
	EvmAddress *string `gorm:"column:evm_address;type:text;uniqueIndex"`
}

// TableName specifies the table name for the Account model
func (Account) TableName() string {
	return "account"
}
