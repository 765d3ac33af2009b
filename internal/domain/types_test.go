package domain

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	tokenAddress  = "0x0230135fDeD668a3F7894966b14F42E65Da322e4"
	holderAddress = "0x7Ca63C4C9B4D8a1Ec4e5f1d3c7aC0B1f0e8A9D22"
	nativeAddress = "5EnY9eFwEDcEJ62dJWrTXhTucJ4pzGym4WZ2xcDKiT3eJecP"
)

func stringPtr(s string) *string {
	return &s
}

func TestNewTokenHolder(t *testing.T) {
	tests := []struct {
		name     string
		head     TokenHolderHead
		native   string
		balance  string
		expected TokenHolder
	}{
		{
			name: "resolved native address is an account holder",
			head: TokenHolderHead{
				Type:       TokenTypeERC20,
				Timestamp:  1700000000000,
				EvmAddress: holderAddress,
				TokenID:    tokenAddress,
			},
			native:  nativeAddress,
			balance: "1000",
			expected: TokenHolder{
				ID:        tokenAddress + "-" + nativeAddress,
				Balance:   "1000",
				SignerID:  nativeAddress,
				TokenID:   tokenAddress,
				Type:      HolderTypeAccount,
				Timestamp: 1700000000000,
			},
		},
		{
			name: "unresolved address is a contract holder",
			head: TokenHolderHead{
				Type:       TokenTypeERC20,
				Timestamp:  1700000000000,
				EvmAddress: holderAddress,
				TokenID:    tokenAddress,
			},
			balance: "42",
			expected: TokenHolder{
				ID:         tokenAddress + "-" + holderAddress,
				Balance:    "42",
				EvmAddress: holderAddress,
				TokenID:    tokenAddress,
				Type:       HolderTypeContract,
				Timestamp:  1700000000000,
			},
		},
		{
			name: "nft id is appended to the id",
			head: TokenHolderHead{
				Type:       TokenTypeERC1155,
				NftID:      stringPtr("7"),
				Timestamp:  1,
				EvmAddress: holderAddress,
				TokenID:    tokenAddress,
			},
			native:  nativeAddress,
			balance: "3",
			expected: TokenHolder{
				ID:        tokenAddress + "-" + nativeAddress + "-7",
				Balance:   "3",
				SignerID:  nativeAddress,
				TokenID:   tokenAddress,
				NftID:     stringPtr("7"),
				Type:      HolderTypeAccount,
				Timestamp: 1,
			},
		},
		{
			name: "empty nft id is not appended",
			head: TokenHolderHead{
				Type:       TokenTypeERC721,
				NftID:      stringPtr(""),
				EvmAddress: holderAddress,
				TokenID:    tokenAddress,
			},
			balance: "1",
			expected: TokenHolder{
				ID:         tokenAddress + "-" + holderAddress,
				Balance:    "1",
				EvmAddress: holderAddress,
				TokenID:    tokenAddress,
				NftID:      stringPtr(""),
				Type:       HolderTypeContract,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			holder := NewTokenHolder(tt.head, tt.native, tt.balance)
			assert.Equal(t, tt.expected, holder)
		})
	}
}

func TestTokenHolderHead_Key(t *testing.T) {
	a := TokenHolderHead{EvmAddress: holderAddress, TokenID: tokenAddress}
	b := TokenHolderHead{EvmAddress: holderAddress, TokenID: tokenAddress, Timestamp: 99, Type: TokenTypeERC20}
	c := TokenHolderHead{EvmAddress: holderAddress, TokenID: tokenAddress, NftID: stringPtr("1")}
	d := TokenHolderHead{EvmAddress: holderAddress, TokenID: tokenAddress, NftID: stringPtr("2")}

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
	assert.NotEqual(t, c.Key(), d.Key())
}

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "string", input: `"1234567890123456789012"`, expected: "1234567890123456789012"},
		{name: "number", input: `42`, expected: "42"},
		{name: "large number", input: `1234567890123456789012`, expected: "1234567890123456789012"},
		{name: "null", input: `null`, expected: "0"},
		{name: "invalid", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var fee Fee
			err := json.Unmarshal([]byte(`{"partialFee":`+tt.input+`}`), &fee)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, fee.PartialFee.String())
		})
	}
}

func TestSignedData_FeeAmount(t *testing.T) {
	assert.Equal(t, "0", SignedData{}.FeeAmount())
	assert.Equal(t, "15", SignedData{Fee: &Fee{PartialFee: "15"}}.FeeAmount())
}

func TestRawEvmEvent_UnmarshalJSON(t *testing.T) {
	payload := `{
		"id": "100-1",
		"blockid": "0xblock",
		"blockheight": 100,
		"blockhash": "0xblock",
		"extrinsicid": "100-0",
		"extrinsichash": "0xext",
		"extrinsicindex": 0,
		"eventindex": 1,
		"contractaddress": "` + tokenAddress + `",
		"rawdata": {"address": "` + tokenAddress + `", "topics": ["0x01"], "data": "0x"},
		"signeddata": {"fee": {"partialFee": 1200}},
		"finalized": true,
		"timestamp": "2024-01-02T03:04:05.000Z"
	}`

	var event RawEvmEvent
	require.NoError(t, json.Unmarshal([]byte(payload), &event))
	assert.Equal(t, "100-1", event.ID)
	assert.Equal(t, int64(100), event.BlockHeight)
	assert.Equal(t, []string{"0x01"}, event.RawData.Topics)
	assert.Equal(t, "1200", event.SignedData.FeeAmount())
	assert.True(t, event.Finalized)
	assert.Equal(t, int64(1704164645000), event.Timestamp.UnixMilli())
}

func TestVerifiedContract_ABI(t *testing.T) {
	contract := &VerifiedContract{
		Name: "Token",
		CompiledData: map[string]json.RawMessage{
			"Token":   json.RawMessage(`[]`),
			"Ownable": json.RawMessage(`[{}]`),
		},
	}
	abi, ok := contract.ABI()
	assert.True(t, ok)
	assert.JSONEq(t, `[]`, string(abi))

	contract.Name = "Missing"
	_, ok = contract.ABI()
	assert.False(t, ok)

	_, ok = (&VerifiedContract{Name: "Token"}).ABI()
	assert.False(t, ok)
}

func TestDecodedEvent_MarshalJSON(t *testing.T) {
	event := DecodedEvent{
		Name:      "TransferBatch",
		Signature: "TransferBatch(address,address,address,uint256[],uint256[])",
		Topic:     "0x4a39dc06d4c0dbc64b70af90fd698a233a518aa5d07e595d983b8c0526c8f7fb",
		Args: []interface{}{
			common.HexToAddress(holderAddress),
			[]*big.Int{big.NewInt(1), big.NewInt(2)},
			[32]byte{0xab},
			uint8(18),
			true,
		},
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	assert.Equal(t, "TransferBatch", out["name"])
	args := out["args"].([]interface{})
	assert.Equal(t, common.HexToAddress(holderAddress).Hex(), args[0])
	assert.Equal(t, []interface{}{"1", "2"}, args[1])
	assert.Equal(t, "0xab00000000000000000000000000000000000000000000000000000000000000", args[2])
	assert.Equal(t, "18", args[3])
	assert.Equal(t, true, args[4])
}

func TestIsZeroAddress(t *testing.T) {
	assert.True(t, IsZeroAddress(ZeroAddress))
	assert.True(t, IsZeroAddress("0x0000000000000000000000000000000000000000"))
	assert.False(t, IsZeroAddress(holderAddress))
	assert.False(t, IsZeroAddress(""))
}
