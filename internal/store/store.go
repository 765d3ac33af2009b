package store

import (
	"github.com/reef-chain/explorer-backtracker/internal/backtracking"
)

// Store defines the interface for the local mirror of the explorer tables.
// It serves as the backtracking queue and event source, as the record sinks
// and as the address resolver when the backtracker runs against Postgres.
type Store interface {
	backtracking.Source
	backtracking.Sink
	backtracking.AddressResolver
	FinalizedBlockStore
}
