package domain

import "time"

const (
	// ZeroAddress is the mint/burn counterparty; it never holds tokens
	ZeroAddress = "0x0000000000000000000000000000000000000000"

	// UnresolvedNativeID is written in place of a native address that could not be resolved
	UnresolvedNativeID = "0x"

	// Backtracking defaults
	DefaultChunkSize    = 1024
	DefaultMutationSize = 100
	DefaultQueueLimit   = 100
	DefaultPollInterval = time.Second
)
