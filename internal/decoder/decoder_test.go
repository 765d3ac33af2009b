package decoder

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reef-chain/explorer-backtracker/internal/domain"
)

const erc20ABI = `[
	{"anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":false,"name":"value","type":"uint256"}],"name":"Transfer","type":"event"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"owner","type":"address"},{"indexed":true,"name":"spender","type":"address"},{"indexed":false,"name":"value","type":"uint256"}],"name":"Approval","type":"event"}
]`

const erc1155ABI = `[
	{"anonymous":false,"inputs":[{"indexed":true,"name":"operator","type":"address"},{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":false,"name":"ids","type":"uint256[]"},{"indexed":false,"name":"values","type":"uint256[]"}],"name":"TransferBatch","type":"event"},
	{"anonymous":false,"inputs":[{"indexed":true,"internalType":"address","name":"","type":"address"},{"indexed":false,"name":"","type":"uint256"}],"name":"Unnamed","type":"event"}
]`

var (
	alice    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	bob      = common.HexToAddress("0x2222222222222222222222222222222222222222")
	operator = common.HexToAddress("0x3333333333333333333333333333333333333333")
)

func mustABI(t *testing.T, def string) abi.ABI {
	t.Helper()
	parsed, err := abi.JSON(strings.NewReader(def))
	require.NoError(t, err)
	return parsed
}

// buildLog packs an event the way a node would emit it
func buildLog(t *testing.T, def string, name string, indexed []common.Address, data ...interface{}) domain.RawLog {
	t.Helper()
	parsed := mustABI(t, def)
	event := parsed.Events[name]

	topics := []string{event.ID.Hex()}
	for _, addr := range indexed {
		topics = append(topics, common.BytesToHash(addr.Bytes()).Hex())
	}

	packed, err := event.Inputs.NonIndexed().Pack(data...)
	require.NoError(t, err)

	return domain.RawLog{
		Address: "0x0230135fDeD668a3F7894966b14F42E65Da322e4",
		Topics:  topics,
		Data:    hexutil.Encode(packed),
	}
}

func TestNew(t *testing.T) {
	_, err := New([]byte(erc20ABI))
	assert.NoError(t, err)

	_, err = New([]byte(`{not json`))
	assert.Error(t, err)
}

func TestDecoder_ParseLog(t *testing.T) {
	erc20, err := New([]byte(erc20ABI))
	require.NoError(t, err)
	erc1155, err := New([]byte(erc1155ABI))
	require.NoError(t, err)

	t.Run("erc20 transfer", func(t *testing.T) {
		log := buildLog(t, erc20ABI, "Transfer", []common.Address{alice, bob}, big.NewInt(1000))

		event, err := erc20.ParseLog(log)
		require.NoError(t, err)
		assert.Equal(t, "Transfer", event.Name)
		assert.Equal(t, "Transfer(address,address,uint256)", event.Signature)
		assert.Equal(t, "0xddf252ad1be2c89b69c2b068fc378daa952ba7f163c4a11628f55a4df523b3ef", event.Topic)
		require.Len(t, event.Args, 3)
		assert.Equal(t, alice, event.Args[0])
		assert.Equal(t, bob, event.Args[1])
		assert.Equal(t, 0, big.NewInt(1000).Cmp(event.Args[2].(*big.Int)))
	})

	t.Run("approval decodes too", func(t *testing.T) {
		log := buildLog(t, erc20ABI, "Approval", []common.Address{alice, bob}, big.NewInt(5))

		event, err := erc20.ParseLog(log)
		require.NoError(t, err)
		assert.Equal(t, "Approval", event.Name)
	})

	t.Run("erc1155 batch keeps argument order", func(t *testing.T) {
		ids := []*big.Int{big.NewInt(1), big.NewInt(2), big.NewInt(3)}
		values := []*big.Int{big.NewInt(10), big.NewInt(20), big.NewInt(30)}
		log := buildLog(t, erc1155ABI, "TransferBatch", []common.Address{operator, alice, bob}, ids, values)

		event, err := erc1155.ParseLog(log)
		require.NoError(t, err)
		require.Len(t, event.Args, 5)
		assert.Equal(t, operator, event.Args[0])
		assert.Equal(t, alice, event.Args[1])
		assert.Equal(t, bob, event.Args[2])
		assert.Len(t, event.Args[3].([]*big.Int), 3)
		assert.Equal(t, int64(30), event.Args[4].([]*big.Int)[2].Int64())
	})

	t.Run("unnamed arguments", func(t *testing.T) {
		log := buildLog(t, erc1155ABI, "Unnamed", []common.Address{alice}, big.NewInt(7))

		event, err := erc1155.ParseLog(log)
		require.NoError(t, err)
		require.Len(t, event.Args, 2)
		assert.Equal(t, alice, event.Args[0])
		assert.Equal(t, int64(7), event.Args[1].(*big.Int).Int64())
	})

	t.Run("event not in abi", func(t *testing.T) {
		log := buildLog(t, erc1155ABI, "TransferBatch", []common.Address{operator, alice, bob}, []*big.Int{}, []*big.Int{})

		_, err := erc20.ParseLog(log)
		assert.ErrorIs(t, err, ErrUnknownEvent)
	})

	t.Run("no topics", func(t *testing.T) {
		_, err := erc20.ParseLog(domain.RawLog{Data: "0x"})
		assert.ErrorIs(t, err, ErrNoTopics)
	})

	t.Run("indexed count mismatch", func(t *testing.T) {
		// ERC721 Transfer shares the ERC20 signature but indexes the token id
		log := buildLog(t, erc20ABI, "Transfer", []common.Address{alice, bob}, big.NewInt(1))
		log.Topics = append(log.Topics, common.BigToHash(big.NewInt(9)).Hex())
		log.Data = "0x"

		_, err := erc20.ParseLog(log)
		assert.Error(t, err)
	})

	t.Run("truncated data", func(t *testing.T) {
		log := buildLog(t, erc20ABI, "Transfer", []common.Address{alice, bob}, big.NewInt(1))
		log.Data = "0x01"

		_, err := erc20.ParseLog(log)
		assert.Error(t, err)
	})
}
