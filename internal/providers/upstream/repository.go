package upstream

import (
	"context"
	"errors"
	"fmt"

	"github.com/reef-chain/explorer-backtracker/internal/domain"
)

// ErrMutationRejected is returned when a mutation resolves to false or null
var ErrMutationRejected = errors.New("upstream rejected mutation")

// Repository reads the backtracking queue and writes derived records through the upstream GraphQL service
type Repository struct {
	client Client
}

// NewRepository creates a repository over client
func NewRepository(client Client) *Repository {
	return &Repository{client: client}
}

// ListPendingContracts returns newly verified contracts waiting to be backtracked
func (r *Repository) ListPendingContracts(ctx context.Context, limit int) ([]domain.WorkItem, error) {
	document := fmt.Sprintf(`query {
  newlyVerifiedContractQueues(limit: %d) {
    id
  }
}`, limit)

	var items []domain.WorkItem
	if err := r.client.Query(ctx, "newlyVerifiedContractQueues", document, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteQueueItem removes a contract from the queue
func (r *Repository) DeleteQueueItem(ctx context.Context, id string) error {
	idLiteral, err := Literal(id)
	if err != nil {
		return err
	}

	document := fmt.Sprintf(`mutation {
  deleteNewlyVerifiedContractQueue(id: %s)
}`, idLiteral)

	return r.mutate(ctx, "deleteNewlyVerifiedContractQueue", document)
}

// ListUnresolvedEvents returns the raw events the contract emitted before it was verified.
// A null result is reported as an empty list.
func (r *Repository) ListUnresolvedEvents(ctx context.Context, contractID string) ([]domain.RawEvmEvent, error) {
	idLiteral, err := Literal(contractID)
	if err != nil {
		return nil, err
	}

	document := fmt.Sprintf(`query {
  findBacktrackingEvmEvents(id: %s) {
    id
    blockid
    blockheight
    blockhash
    extrinsicid
    extrinsichash
    extrinsicindex
    eventindex
    contractaddress
    rawdata
    signeddata
    finalized
    timestamp
  }
}`, idLiteral)

	var events []domain.RawEvmEvent
	if err := r.client.Query(ctx, "findBacktrackingEvmEvents", document, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// GetVerifiedContract returns the verified contract or nil when it is not verified yet
func (r *Repository) GetVerifiedContract(ctx context.Context, id string) (*domain.VerifiedContract, error) {
	idLiteral, err := Literal(id)
	if err != nil {
		return nil, err
	}

	document := fmt.Sprintf(`query {
  verifiedContractById(id: %s) {
    id
    contractData
    compiledData
    name
    type
  }
}`, idLiteral)

	var contract *domain.VerifiedContract
	if err := r.client.Query(ctx, "verifiedContractById", document, &contract); err != nil {
		return nil, err
	}
	return contract, nil
}

// SaveTransfers upserts one chunk of transfers
func (r *Repository) SaveTransfers(ctx context.Context, transfers []domain.Transfer) error {
	return r.save(ctx, "saveTransfers", "transfers", transfers)
}

// SaveTokenHolders upserts one chunk of token holders
func (r *Repository) SaveTokenHolders(ctx context.Context, holders []domain.TokenHolder) error {
	return r.save(ctx, "saveTokenHolders", "tokenHolders", holders)
}

// MarkEventsDecoded stores the decoded form of one chunk of raw events
func (r *Repository) MarkEventsDecoded(ctx context.Context, events []domain.EvmEventDataParsed) error {
	return r.save(ctx, "updateEvmEventsDataParsed", "evmEvents", events)
}

// ReportFinalizedBlock tells the upstream that a block is final
func (r *Repository) ReportFinalizedBlock(ctx context.Context, height uint64, hash string) error {
	hashLiteral, err := Literal(hash)
	if err != nil {
		return err
	}

	document := fmt.Sprintf(`mutation {
  newFinalizedBlock(height: %d, hash: %s)
}`, height, hashLiteral)

	return r.client.Mutate(ctx, "newFinalizedBlock", document, nil)
}

func (r *Repository) save(ctx context.Context, field, argument string, records interface{}) error {
	recordsLiteral, err := Literal(records)
	if err != nil {
		return err
	}

	document := fmt.Sprintf(`mutation {
  %s(%s: %s)
}`, field, argument, recordsLiteral)

	return r.mutate(ctx, field, document)
}

// mutate runs a mutation whose result is a boolean acknowledgement
func (r *Repository) mutate(ctx context.Context, field, document string) error {
	var ok *bool
	if err := r.client.Mutate(ctx, field, document, &ok); err != nil {
		return err
	}
	if ok == nil || !*ok {
		return fmt.Errorf("%w: %s", ErrMutationRejected, field)
	}
	return nil
}
