package backtracking

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"

	"github.com/reef-chain/explorer-backtracker/internal/domain"
	"github.com/reef-chain/explorer-backtracker/internal/types"
)

// EventKind is the transfer shape of a decoded log
type EventKind int

const (
	EventKindUnclassified EventKind = iota
	EventKindERC20Transfer
	EventKindERC721Transfer
	EventKindERC1155Single
	EventKindERC1155Batch
)

func (k EventKind) String() string {
	switch k {
	case EventKindERC20Transfer:
		return "erc20_transfer"
	case EventKindERC721Transfer:
		return "erc721_transfer"
	case EventKindERC1155Single:
		return "erc1155_transfer_single"
	case EventKindERC1155Batch:
		return "erc1155_transfer_batch"
	default:
		return "unclassified"
	}
}

// TokenType returns the token standard of the kind
func (k EventKind) TokenType() domain.TokenType {
	switch k {
	case EventKindERC20Transfer:
		return domain.TokenTypeERC20
	case EventKindERC721Transfer:
		return domain.TokenTypeERC721
	case EventKindERC1155Single, EventKindERC1155Batch:
		return domain.TokenTypeERC1155
	default:
		return ""
	}
}

// Classify tags a decoded log by its event name and the declared type of its contract
func Classify(log *domain.EvmLog) EventKind {
	switch {
	case log.DecodedEvent.Name == "Transfer" && log.Type == domain.ContractTypeERC20:
		return EventKindERC20Transfer
	case log.DecodedEvent.Name == "Transfer" && log.Type == domain.ContractTypeERC721:
		return EventKindERC721Transfer
	case log.DecodedEvent.Name == "TransferSingle" && log.Type == domain.ContractTypeERC1155:
		return EventKindERC1155Single
	case log.DecodedEvent.Name == "TransferBatch" && log.Type == domain.ContractTypeERC1155:
		return EventKindERC1155Batch
	default:
		return EventKindUnclassified
	}
}

// movement is one token unit moving between two addresses
type movement struct {
	From   string
	To     string
	NftID  *string
	Amount string
}

// movements extracts the token movements carried by a classified log.
// Batch events yield one movement per (id, amount) pair, in order.
func movements(kind EventKind, event domain.DecodedEvent) ([]movement, error) {
	args := event.Args

	switch kind {
	case EventKindERC20Transfer:
		if err := expectArgs(args, 3); err != nil {
			return nil, err
		}
		from, to, err := addressPair(args[0], args[1])
		if err != nil {
			return nil, err
		}
		amount, err := bigIntArg(args[2])
		if err != nil {
			return nil, err
		}
		return []movement{{From: from, To: to, Amount: amount.String()}}, nil

	case EventKindERC721Transfer:
		if err := expectArgs(args, 3); err != nil {
			return nil, err
		}
		from, to, err := addressPair(args[0], args[1])
		if err != nil {
			return nil, err
		}
		nftID, err := bigIntArg(args[2])
		if err != nil {
			return nil, err
		}
		return []movement{{From: from, To: to, NftID: types.StringPtr(nftID.String()), Amount: "0"}}, nil

	case EventKindERC1155Single:
		if err := expectArgs(args, 5); err != nil {
			return nil, err
		}
		from, to, err := addressPair(args[1], args[2])
		if err != nil {
			return nil, err
		}
		nftID, err := bigIntArg(args[3])
		if err != nil {
			return nil, err
		}
		amount, err := bigIntArg(args[4])
		if err != nil {
			return nil, err
		}
		return []movement{{From: from, To: to, NftID: types.StringPtr(nftID.String()), Amount: amount.String()}}, nil

	case EventKindERC1155Batch:
		if err := expectArgs(args, 5); err != nil {
			return nil, err
		}
		from, to, err := addressPair(args[1], args[2])
		if err != nil {
			return nil, err
		}
		ids, err := bigIntsArg(args[3])
		if err != nil {
			return nil, err
		}
		amounts, err := bigIntsArg(args[4])
		if err != nil {
			return nil, err
		}
		if len(ids) != len(amounts) {
			return nil, fmt.Errorf("%w: %d ids, %d amounts", domain.ErrBatchLengthMismatch, len(ids), len(amounts))
		}

		out := make([]movement, len(ids))
		for i := range ids {
			out[i] = movement{From: from, To: to, NftID: types.StringPtr(ids[i].String()), Amount: amounts[i].String()}
		}
		return out, nil
	}

	return nil, nil
}

func expectArgs(args []interface{}, n int) error {
	if len(args) != n {
		return fmt.Errorf("%w: expected %d arguments, got %d", domain.ErrUnexpectedArgs, n, len(args))
	}
	return nil
}

func addressPair(fromArg, toArg interface{}) (string, string, error) {
	from, ok := fromArg.(common.Address)
	if !ok {
		return "", "", fmt.Errorf("%w: from is %T", domain.ErrUnexpectedArgs, fromArg)
	}
	to, ok := toArg.(common.Address)
	if !ok {
		return "", "", fmt.Errorf("%w: to is %T", domain.ErrUnexpectedArgs, toArg)
	}
	return from.Hex(), to.Hex(), nil
}

func bigIntArg(arg interface{}) (*big.Int, error) {
	v, ok := arg.(*big.Int)
	if !ok || v == nil {
		return nil, fmt.Errorf("%w: expected uint256, got %T", domain.ErrUnexpectedArgs, arg)
	}
	return v, nil
}

func bigIntsArg(arg interface{}) ([]*big.Int, error) {
	v, ok := arg.([]*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: expected uint256[], got %T", domain.ErrUnexpectedArgs, arg)
	}
	for _, i := range v {
		if i == nil {
			return nil, fmt.Errorf("%w: nil array element", domain.ErrUnexpectedArgs)
		}
	}
	return v, nil
}
