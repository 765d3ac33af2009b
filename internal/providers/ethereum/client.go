package ethereum

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/reef-chain/explorer-backtracker/internal/adapter"
)

// ErrNoBalanceOf is returned when a token ABI does not expose balanceOf
var ErrNoBalanceOf = errors.New("abi has no balanceOf method")

// balanceOfMethod is the ERC20/721/1155 balance getter
const balanceOfMethod = "balanceOf"

//go:generate mockgen -source=client.go -destination=../../mocks/ethereum_client.go -package=mocks -mock_names=EthereumClient=MockEthereumClient
type EthereumClient interface {
	// BalanceOf calls balanceOf(owner) on token using the token's own ABI
	BalanceOf(ctx context.Context, owner, token string, abi json.RawMessage) (string, error)

	// BalanceOfNft calls balanceOf(owner, id) on token using the token's own ABI
	BalanceOfNft(ctx context.Context, owner, token, nftID string, abi json.RawMessage) (string, error)

	// FinalizedHeader returns the header of the latest finalized block
	FinalizedHeader(ctx context.Context) (*types.Header, error)

	// SubscribeNewHead subscribes to new chain heads
	SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error)

	// Close closes the connection
	Close()
}

type ethereumClient struct {
	client adapter.EthClient

	// parsed ABIs keyed by the hash of their JSON
	abis sync.Map
}

func NewClient(client adapter.EthClient) EthereumClient {
	return &ethereumClient{client: client}
}

// parseABI returns the parsed form of abiJSON, parsing each distinct document once
func (c *ethereumClient) parseABI(abiJSON json.RawMessage) (*abi.ABI, error) {
	key := crypto.Keccak256Hash(abiJSON)
	if cached, ok := c.abis.Load(key); ok {
		return cached.(*abi.ABI), nil
	}

	parsed, err := abi.JSON(bytes.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ABI: %w", err)
	}
	c.abis.Store(key, &parsed)
	return &parsed, nil
}

// BalanceOf fetches the balance of owner from an ERC20 or ERC721 contract
func (c *ethereumClient) BalanceOf(ctx context.Context, owner, token string, abiJSON json.RawMessage) (string, error) {
	return c.callBalanceOf(ctx, token, abiJSON, common.HexToAddress(owner))
}

// BalanceOfNft fetches the balance of a specific token ID for an owner from an ERC1155 contract
func (c *ethereumClient) BalanceOfNft(ctx context.Context, owner, token, nftID string, abiJSON json.RawMessage) (string, error) {
	id, ok := new(big.Int).SetString(nftID, 10)
	if !ok {
		return "", fmt.Errorf("invalid token number: %s", nftID)
	}
	return c.callBalanceOf(ctx, token, abiJSON, common.HexToAddress(owner), id)
}

func (c *ethereumClient) callBalanceOf(ctx context.Context, token string, abiJSON json.RawMessage, args ...interface{}) (string, error) {
	parsed, err := c.parseABI(abiJSON)
	if err != nil {
		return "", err
	}
	if _, ok := parsed.Methods[balanceOfMethod]; !ok {
		return "", ErrNoBalanceOf
	}

	data, err := parsed.Pack(balanceOfMethod, args...)
	if err != nil {
		return "", fmt.Errorf("failed to pack data: %w", err)
	}

	contractAddr := common.HexToAddress(token)
	result, err := c.client.CallContract(ctx, ethereum.CallMsg{
		To:   &contractAddr,
		Data: data,
	}, nil)
	if err != nil {
		return "", fmt.Errorf("failed to call contract: %w", err)
	}

	values, err := parsed.Unpack(balanceOfMethod, result)
	if err != nil {
		return "", fmt.Errorf("failed to unpack result: %w", err)
	}
	if len(values) == 0 {
		return "", fmt.Errorf("balanceOf of %s returned no value", token)
	}

	switch balance := values[0].(type) {
	case *big.Int:
		return balance.String(), nil
	default:
		return fmt.Sprint(balance), nil
	}
}

// FinalizedHeader returns the header tagged finalized by the node
func (c *ethereumClient) FinalizedHeader(ctx context.Context) (*types.Header, error) {
	header, err := c.client.HeaderByNumber(ctx, big.NewInt(int64(rpc.FinalizedBlockNumber)))
	if err != nil {
		return nil, fmt.Errorf("failed to get finalized header: %w", err)
	}
	return header, nil
}

// SubscribeNewHead subscribes to new chain heads
func (c *ethereumClient) SubscribeNewHead(ctx context.Context, ch chan<- *types.Header) (ethereum.Subscription, error) {
	return c.client.SubscribeNewHead(ctx, ch)
}

// Close closes the connection
func (c *ethereumClient) Close() {
	c.client.Close()
}
