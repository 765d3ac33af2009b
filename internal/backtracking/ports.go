package backtracking

import (
	"context"
	"encoding/json"

	"github.com/reef-chain/explorer-backtracker/internal/domain"
)

// Source provides the work queue, the raw events and the verified contract metadata
//
//go:generate mockgen -source=ports.go -destination=../mocks/backtracking.go -package=mocks -mock_names=Source=MockSource,Sink=MockSink,AddressResolver=MockAddressResolver,BalanceReader=MockBalanceReader,Notifier=MockNotifier
type Source interface {
	// ListPendingContracts returns up to limit newly verified contracts waiting to be backtracked
	ListPendingContracts(ctx context.Context, limit int) ([]domain.WorkItem, error)

	// DeleteQueueItem removes a work item from the queue
	DeleteQueueItem(ctx context.Context, id string) error

	// ListUnresolvedEvents returns the raw events emitted by a contract before it was verified
	ListUnresolvedEvents(ctx context.Context, contractID string) ([]domain.RawEvmEvent, error)

	// GetVerifiedContract returns the verified contract or nil when it does not exist yet
	GetVerifiedContract(ctx context.Context, id string) (*domain.VerifiedContract, error)
}

// Sink persists the records produced by the pipeline. Writes must be idempotent upserts by id.
type Sink interface {
	SaveTransfers(ctx context.Context, transfers []domain.Transfer) error
	SaveTokenHolders(ctx context.Context, holders []domain.TokenHolder) error
	MarkEventsDecoded(ctx context.Context, events []domain.EvmEventDataParsed) error
}

// AddressResolver maps an EVM address to the native account bound to it
type AddressResolver interface {
	// NativeAddress returns the native address or an empty string when the address is unbound
	NativeAddress(ctx context.Context, evmAddress string) (string, error)
}

// BalanceReader reads current token balances on chain using the token's own ABI
type BalanceReader interface {
	// BalanceOf calls balanceOf(owner)
	BalanceOf(ctx context.Context, owner, token string, abi json.RawMessage) (string, error)

	// BalanceOfNft calls balanceOf(owner, id)
	BalanceOfNft(ctx context.Context, owner, token, nftID string, abi json.RawMessage) (string, error)
}

// Notifier is told when a contract's history has been fully backtracked
type Notifier interface {
	ContractBacktracked(ctx context.Context, contract string, stats Stats) error
}

// Stats summarizes the work done for one contract
type Stats struct {
	Events    int `json:"events"`
	Decoded   int `json:"decoded"`
	Transfers int `json:"transfers"`
	Holders   int `json:"holders"`
}
