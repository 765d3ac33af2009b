package backtracking_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reef-chain/explorer-backtracker/internal/backtracking"
	"github.com/reef-chain/explorer-backtracker/internal/domain"
	"github.com/reef-chain/explorer-backtracker/internal/mocks"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name         string
		event        string
		contractType domain.ContractType
		expected     backtracking.EventKind
	}{
		{name: "erc20 transfer", event: "Transfer", contractType: domain.ContractTypeERC20, expected: backtracking.EventKindERC20Transfer},
		{name: "erc721 transfer", event: "Transfer", contractType: domain.ContractTypeERC721, expected: backtracking.EventKindERC721Transfer},
		{name: "erc1155 single", event: "TransferSingle", contractType: domain.ContractTypeERC1155, expected: backtracking.EventKindERC1155Single},
		{name: "erc1155 batch", event: "TransferBatch", contractType: domain.ContractTypeERC1155, expected: backtracking.EventKindERC1155Batch},
		{name: "transfer on other contract", event: "Transfer", contractType: domain.ContractTypeOther, expected: backtracking.EventKindUnclassified},
		{name: "transfer single on erc20", event: "TransferSingle", contractType: domain.ContractTypeERC20, expected: backtracking.EventKindUnclassified},
		{name: "transfer on erc1155", event: "Transfer", contractType: domain.ContractTypeERC1155, expected: backtracking.EventKindUnclassified},
		{name: "approval", event: "Approval", contractType: domain.ContractTypeERC20, expected: backtracking.EventKindUnclassified},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			log := evmLog("1", tt.contractType, tt.event)
			assert.Equal(t, tt.expected, backtracking.Classify(&log))
		})
	}
}

func TestEventKind_TokenType(t *testing.T) {
	assert.Equal(t, domain.TokenTypeERC20, backtracking.EventKindERC20Transfer.TokenType())
	assert.Equal(t, domain.TokenTypeERC721, backtracking.EventKindERC721Transfer.TokenType())
	assert.Equal(t, domain.TokenTypeERC1155, backtracking.EventKindERC1155Single.TokenType())
	assert.Equal(t, domain.TokenTypeERC1155, backtracking.EventKindERC1155Batch.TokenType())
	assert.Equal(t, domain.TokenType(""), backtracking.EventKindUnclassified.TokenType())
}

// resolverFrom maps evm addresses to native addresses; unknown addresses are unbound
func resolverFrom(ctrl *gomock.Controller, natives map[string]string) *mocks.MockAddressResolver {
	resolver := mocks.NewMockAddressResolver(ctrl)
	resolver.EXPECT().
		NativeAddress(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, evm string) (string, error) {
			return natives[evm], nil
		}).
		AnyTimes()
	return resolver
}

func TestTransferProjector_Project(t *testing.T) {
	natives := map[string]string{
		alice.Hex(): "5Alice",
		bob.Hex():   "5Bob",
	}

	t.Run("erc20 transfer", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		projector := backtracking.NewTransferProjector(resolverFrom(ctrl, natives), 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(1000)[0])}

		transfers, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, transfers, 1)
		tr := transfers[0]
		assert.Equal(t, "e1", tr.ID)
		assert.Equal(t, "5Alice", tr.FromID)
		assert.Equal(t, "5Bob", tr.ToID)
		assert.Equal(t, alice.Hex(), tr.FromEvmAddress)
		assert.Equal(t, bob.Hex(), tr.ToEvmAddress)
		assert.Equal(t, tokenAddress, tr.TokenID)
		assert.Equal(t, domain.TokenTypeERC20, tr.Type)
		assert.Equal(t, "1000", tr.Amount)
		require.NotNil(t, tr.Denom)
		assert.Equal(t, "TKN", *tr.Denom)
		assert.Nil(t, tr.NftID)
		assert.Equal(t, "1500", tr.FeeAmount)
		assert.True(t, tr.Success)
		assert.True(t, tr.Finalized)
		assert.Equal(t, blockTime.UnixMilli(), tr.Timestamp)
		assert.Equal(t, int64(100), tr.BlockHeight)
	})

	t.Run("unresolved addresses become 0x", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		projector := backtracking.NewTransferProjector(resolverFrom(ctrl, natives), 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC20, "Transfer", carol, zero, bigs(1)[0])}

		transfers, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, transfers, 1)
		assert.Equal(t, domain.UnresolvedNativeID, transfers[0].FromID)
		assert.Equal(t, domain.UnresolvedNativeID, transfers[0].ToID)
	})

	t.Run("erc721 transfer keeps zero amount", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		projector := backtracking.NewTransferProjector(resolverFrom(ctrl, natives), 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC721, "Transfer", alice, bob, bigs(42)[0])}

		transfers, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, transfers, 1)
		assert.Equal(t, domain.TokenTypeERC721, transfers[0].Type)
		assert.Equal(t, "0", transfers[0].Amount)
		assert.Equal(t, stringPtr("42"), transfers[0].NftID)
		assert.Nil(t, transfers[0].Denom)
	})

	t.Run("erc1155 single", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		projector := backtracking.NewTransferProjector(resolverFrom(ctrl, natives), 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC1155, "TransferSingle", operator, alice, bob, bigs(7)[0], bigs(3)[0])}

		transfers, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, transfers, 1)
		assert.Equal(t, domain.TokenTypeERC1155, transfers[0].Type)
		assert.Equal(t, "3", transfers[0].Amount)
		assert.Equal(t, stringPtr("7"), transfers[0].NftID)
		assert.Equal(t, "5Alice", transfers[0].FromID)
	})

	t.Run("erc1155 batch yields one transfer per pair", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// the counterparties are resolved once for the whole batch
		resolver := mocks.NewMockAddressResolver(ctrl)
		resolver.EXPECT().NativeAddress(gomock.Any(), alice.Hex()).Return("5Alice", nil).Times(1)
		resolver.EXPECT().NativeAddress(gomock.Any(), bob.Hex()).Return("", nil).Times(1)

		projector := backtracking.NewTransferProjector(resolver, 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC1155, "TransferBatch", operator, alice, bob, bigs(1, 2, 3), bigs(10, 20, 30))}

		transfers, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, transfers, 3)
		for i, tr := range transfers {
			assert.Equal(t, "e1", tr.ID)
			assert.Equal(t, int64(100), tr.BlockHeight)
			assert.Equal(t, "0xblock", tr.BlockHash)
			assert.Equal(t, "100-1", tr.ExtrinsicID)
			assert.Equal(t, "5Alice", tr.FromID)
			assert.Equal(t, domain.UnresolvedNativeID, tr.ToID)
			assert.Equal(t, stringPtr([]string{"1", "2", "3"}[i]), tr.NftID)
			assert.Equal(t, []string{"10", "20", "30"}[i], tr.Amount)
		}
	})

	t.Run("batch length mismatch drops only that log", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		projector := backtracking.NewTransferProjector(resolverFrom(ctrl, natives), 1024)
		logs := []domain.EvmLog{
			evmLog("bad", domain.ContractTypeERC1155, "TransferBatch", operator, alice, bob, bigs(1, 2), bigs(10)),
			evmLog("good", domain.ContractTypeERC1155, "TransferSingle", operator, alice, bob, bigs(1)[0], bigs(10)[0]),
		}

		transfers, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, transfers, 1)
		assert.Equal(t, "good", transfers[0].ID)
	})

	t.Run("unexpected argument types drop the log", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		projector := backtracking.NewTransferProjector(resolverFrom(ctrl, natives), 1024)
		logs := []domain.EvmLog{
			evmLog("short", domain.ContractTypeERC20, "Transfer", alice, bob),
			evmLog("wrong", domain.ContractTypeERC20, "Transfer", "alice", bob, bigs(1)[0]),
			evmLog("ok", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(1)[0]),
		}

		transfers, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, transfers, 1)
		assert.Equal(t, "ok", transfers[0].ID)
	})

	t.Run("unclassified logs are ignored", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		resolver := mocks.NewMockAddressResolver(ctrl)
		projector := backtracking.NewTransferProjector(resolver, 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC20, "Approval", alice, bob, bigs(1)[0])}

		transfers, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		assert.Empty(t, transfers)
	})

	t.Run("resolver error fails the projection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		outage := errors.New("rpc unavailable")
		resolver := mocks.NewMockAddressResolver(ctrl)
		resolver.EXPECT().NativeAddress(gomock.Any(), gomock.Any()).Return("", outage).AnyTimes()

		projector := backtracking.NewTransferProjector(resolver, 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(1)[0])}

		_, err := projector.Project(context.Background(), logs)
		assert.ErrorIs(t, err, outage)
	})

	t.Run("many logs across waves", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		projector := backtracking.NewTransferProjector(resolverFrom(ctrl, natives), 4)
		var logs []domain.EvmLog
		for i := 0; i < 10; i++ {
			logs = append(logs, evmLog("e", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(int64(i))[0]))
		}

		transfers, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		assert.Len(t, transfers, 10)
	})

	t.Run("resolution is bounded by chunk size and deduplicated", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		var inFlight, peak, calls int32
		resolver := mocks.NewMockAddressResolver(ctrl)
		resolver.EXPECT().
			NativeAddress(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, evm string) (string, error) {
				atomic.AddInt32(&calls, 1)
				n := atomic.AddInt32(&inFlight, 1)
				for {
					p := atomic.LoadInt32(&peak)
					if n <= p || atomic.CompareAndSwapInt32(&peak, p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				atomic.AddInt32(&inFlight, -1)
				return "native-" + evm, nil
			}).
			AnyTimes()

		projector := backtracking.NewTransferProjector(resolver, 2)
		var logs []domain.EvmLog
		for i := 0; i < 6; i++ {
			from := common.BytesToAddress([]byte{byte(i + 1)})
			logs = append(logs,
				evmLog("e", domain.ContractTypeERC20, "Transfer", from, alice, bigs(1)[0]),
				evmLog("e", domain.ContractTypeERC20, "Transfer", alice, from, bigs(1)[0]),
			)
		}

		transfers, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, transfers, 12)
		assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(2))
		// six senders plus alice
		assert.Equal(t, int32(7), atomic.LoadInt32(&calls))
		assert.Equal(t, "native-"+alice.Hex(), transfers[0].ToID)
		assert.Equal(t, "native-"+alice.Hex(), transfers[1].FromID)
	})
}

func TestHolderProjector_Heads(t *testing.T) {
	projector := backtracking.NewHolderProjector(nil, nil, 1024)

	t.Run("two heads per transfer, to first", func(t *testing.T) {
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(5)[0])}

		heads := projector.Heads(context.Background(), logs)

		require.Len(t, heads, 2)
		assert.Equal(t, bob.Hex(), heads[0].EvmAddress)
		assert.Equal(t, alice.Hex(), heads[1].EvmAddress)
		assert.Nil(t, heads[0].NftID)
		assert.Equal(t, domain.TokenTypeERC20, heads[0].Type)
		assert.Equal(t, tokenAddress, heads[0].TokenID)
		assert.Equal(t, blockTime.UnixMilli(), heads[0].Timestamp)
		assert.JSONEq(t, `[]`, string(heads[0].ABI))
	})

	t.Run("batch expands per nft id", func(t *testing.T) {
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC1155, "TransferBatch", operator, alice, bob, bigs(1, 2, 3), bigs(1, 1, 1))}

		heads := projector.Heads(context.Background(), logs)

		assert.Len(t, heads, 6)
	})

	t.Run("zero address is never a candidate", func(t *testing.T) {
		logs := []domain.EvmLog{
			evmLog("mint", domain.ContractTypeERC20, "Transfer", zero, alice, bigs(5)[0]),
			evmLog("burn", domain.ContractTypeERC721, "Transfer", bob, zero, bigs(9)[0]),
		}

		heads := projector.Heads(context.Background(), logs)

		require.Len(t, heads, 2)
		for _, h := range heads {
			assert.False(t, domain.IsZeroAddress(h.EvmAddress))
		}
	})

	t.Run("duplicate keys collapse to the last occurrence", func(t *testing.T) {
		logs := []domain.EvmLog{
			evmLog("e1", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(5)[0]),
			evmLog("e2", domain.ContractTypeERC20, "Transfer", bob, carol, bigs(5)[0]),
		}
		logs[1].Timestamp = logs[0].Timestamp + 1000

		heads := projector.Heads(context.Background(), logs)

		// bob(e1), alice(e1), carol(e2), bob(e2) -> alice, carol, bob
		require.Len(t, heads, 3)
		assert.Equal(t, alice.Hex(), heads[0].EvmAddress)
		assert.Equal(t, carol.Hex(), heads[1].EvmAddress)
		assert.Equal(t, bob.Hex(), heads[2].EvmAddress)
		assert.Equal(t, logs[1].Timestamp, heads[2].Timestamp)

		seen := map[string]bool{}
		for _, h := range heads {
			assert.False(t, seen[h.Key()])
			seen[h.Key()] = true
		}
	})

	t.Run("same owner with different nft ids are distinct", func(t *testing.T) {
		logs := []domain.EvmLog{
			evmLog("e1", domain.ContractTypeERC721, "Transfer", alice, bob, bigs(1)[0]),
			evmLog("e2", domain.ContractTypeERC721, "Transfer", alice, bob, bigs(2)[0]),
		}

		assert.Len(t, projector.Heads(context.Background(), logs), 4)
	})
}

func TestHolderProjector_Project(t *testing.T) {
	t.Run("account and contract holders", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		balances := mocks.NewMockBalanceReader(ctrl)
		balances.EXPECT().BalanceOf(gomock.Any(), bob.Hex(), tokenAddress, gomock.Any()).Return("500", nil)
		balances.EXPECT().BalanceOf(gomock.Any(), alice.Hex(), tokenAddress, gomock.Any()).Return("10", nil)

		projector := backtracking.NewHolderProjector(resolverFrom(ctrl, map[string]string{bob.Hex(): "5Bob"}), balances, 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(5)[0])}

		holders, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, holders, 2)
		assert.Equal(t, domain.TokenHolder{
			ID:        tokenAddress + "-5Bob",
			Balance:   "500",
			SignerID:  "5Bob",
			TokenID:   tokenAddress,
			Type:      domain.HolderTypeAccount,
			Timestamp: blockTime.UnixMilli(),
		}, holders[0])
		assert.Equal(t, domain.TokenHolder{
			ID:         tokenAddress + "-" + alice.Hex(),
			Balance:    "10",
			EvmAddress: alice.Hex(),
			TokenID:    tokenAddress,
			Type:       domain.HolderTypeContract,
			Timestamp:  blockTime.UnixMilli(),
		}, holders[1])
	})

	t.Run("erc1155 reads the balance of the nft id", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		balances := mocks.NewMockBalanceReader(ctrl)
		balances.EXPECT().BalanceOfNft(gomock.Any(), bob.Hex(), tokenAddress, "7", gomock.Any()).Return("3", nil)
		balances.EXPECT().BalanceOfNft(gomock.Any(), alice.Hex(), tokenAddress, "7", gomock.Any()).Return("0", nil)

		projector := backtracking.NewHolderProjector(resolverFrom(ctrl, nil), balances, 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC1155, "TransferSingle", operator, alice, bob, bigs(7)[0], bigs(3)[0])}

		holders, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, holders, 2)
		assert.Equal(t, tokenAddress+"-"+bob.Hex()+"-7", holders[0].ID)
		assert.Equal(t, stringPtr("7"), holders[0].NftID)
	})

	t.Run("erc721 uses the single argument balance", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		balances := mocks.NewMockBalanceReader(ctrl)
		balances.EXPECT().BalanceOf(gomock.Any(), gomock.Any(), tokenAddress, gomock.Any()).Return("1", nil).Times(2)

		projector := backtracking.NewHolderProjector(resolverFrom(ctrl, nil), balances, 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC721, "Transfer", alice, bob, bigs(9)[0])}

		holders, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		assert.Len(t, holders, 2)
	})

	t.Run("failed balance read drops the candidate", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		balances := mocks.NewMockBalanceReader(ctrl)
		balances.EXPECT().BalanceOf(gomock.Any(), bob.Hex(), tokenAddress, gomock.Any()).Return("", errors.New("execution reverted"))
		balances.EXPECT().BalanceOf(gomock.Any(), alice.Hex(), tokenAddress, gomock.Any()).Return("10", nil)

		projector := backtracking.NewHolderProjector(resolverFrom(ctrl, nil), balances, 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(5)[0])}

		holders, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, holders, 1)
		assert.Equal(t, alice.Hex(), holders[0].EvmAddress)
	})

	t.Run("balance is read once per candidate key", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		var mu sync.Mutex
		calls := map[string]int{}
		balances := mocks.NewMockBalanceReader(ctrl)
		balances.EXPECT().
			BalanceOf(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, owner, _ string, _ json.RawMessage) (string, error) {
				mu.Lock()
				defer mu.Unlock()
				calls[owner]++
				return "1", nil
			}).
			AnyTimes()

		projector := backtracking.NewHolderProjector(resolverFrom(ctrl, nil), balances, 2)
		logs := []domain.EvmLog{
			evmLog("e1", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(1)[0]),
			evmLog("e2", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(2)[0]),
			evmLog("e3", domain.ContractTypeERC20, "Transfer", bob, alice, bigs(3)[0]),
		}

		holders, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		assert.Len(t, holders, 2)
		assert.Equal(t, map[string]int{alice.Hex(): 1, bob.Hex(): 1}, calls)
	})

	t.Run("holders resolving to the same id keep the last", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		balances := mocks.NewMockBalanceReader(ctrl)
		balances.EXPECT().BalanceOf(gomock.Any(), bob.Hex(), gomock.Any(), gomock.Any()).Return("2", nil)
		balances.EXPECT().BalanceOf(gomock.Any(), alice.Hex(), gomock.Any(), gomock.Any()).Return("1", nil)

		// both evm addresses are bound to the same native account
		resolver := resolverFrom(ctrl, map[string]string{alice.Hex(): "5Same", bob.Hex(): "5Same"})
		projector := backtracking.NewHolderProjector(resolver, balances, 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(5)[0])}

		holders, err := projector.Project(context.Background(), logs)

		require.NoError(t, err)
		require.Len(t, holders, 1)
		// heads are [to=bob, from=alice]; alice comes last
		assert.Equal(t, "1", holders[0].Balance)
	})

	t.Run("resolver error fails the projection", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		outage := errors.New("rpc unavailable")
		balances := mocks.NewMockBalanceReader(ctrl)
		balances.EXPECT().BalanceOf(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return("1", nil).AnyTimes()
		resolver := mocks.NewMockAddressResolver(ctrl)
		resolver.EXPECT().NativeAddress(gomock.Any(), gomock.Any()).Return("", outage).AnyTimes()

		projector := backtracking.NewHolderProjector(resolver, balances, 1024)
		logs := []domain.EvmLog{evmLog("e1", domain.ContractTypeERC20, "Transfer", alice, bob, bigs(5)[0])}

		_, err := projector.Project(context.Background(), logs)
		assert.ErrorIs(t, err, outage)
	})
}
