package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Network represents the chain network the service is attached to
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkTestnet Network = "testnet"
)

// ContractType represents the declared type of a verified contract
type ContractType string

const (
	ContractTypeOther   ContractType = "other"
	ContractTypeERC20   ContractType = "ERC20"
	ContractTypeERC721  ContractType = "ERC721"
	ContractTypeERC1155 ContractType = "ERC1155"
)

// TokenType represents the token standard of a transfer or holder
type TokenType string

const (
	TokenTypeERC20   TokenType = "ERC20"
	TokenTypeERC721  TokenType = "ERC721"
	TokenTypeERC1155 TokenType = "ERC1155"
)

// HolderType represents whether a token holder is a native account or a contract
type HolderType string

const (
	HolderTypeAccount  HolderType = "Account"
	HolderTypeContract HolderType = "Contract"
)

// WorkItem is a verified contract waiting for its historical events to be reprocessed
type WorkItem struct {
	ID string `json:"id"`
}

// Amount is a decimal integer that the upstream may encode either as a JSON string or number
type Amount string

// UnmarshalJSON accepts "123", 123 and null
func (a *Amount) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("invalid amount %s: %w", string(data), err)
	}
	*a = Amount(n.String())
	return nil
}

// String returns the amount or "0" when empty
func (a Amount) String() string {
	if a == "" {
		return "0"
	}
	return string(a)
}

// RawLog is the undecoded EVM log payload
type RawLog struct {
	Address string   `json:"address"`
	Topics  []string `json:"topics"`
	Data    string   `json:"data"`
}

// Fee holds the fee paid by the signed extrinsic that emitted an event
type Fee struct {
	PartialFee Amount `json:"partialFee"`
}

// SignedData holds the signed extrinsic fee information attached to an event
type SignedData struct {
	Fee        *Fee            `json:"fee,omitempty"`
	FeeDetails json.RawMessage `json:"feeDetails,omitempty"`
}

// FeeAmount returns the partial fee paid or "0" when unknown
func (s SignedData) FeeAmount() string {
	if s.Fee == nil {
		return "0"
	}
	return s.Fee.PartialFee.String()
}

// RawEvmEvent is an on-chain log that was emitted before its contract was verified
type RawEvmEvent struct {
	ID              string     `json:"id"`
	BlockID         string     `json:"blockid"`
	BlockHeight     int64      `json:"blockheight"`
	BlockHash       string     `json:"blockhash"`
	ExtrinsicID     string     `json:"extrinsicid"`
	ExtrinsicHash   string     `json:"extrinsichash"`
	ExtrinsicIndex  int64      `json:"extrinsicindex"`
	EventIndex      int64      `json:"eventindex"`
	ContractAddress string     `json:"contractaddress"`
	RawData         RawLog     `json:"rawdata"`
	SignedData      SignedData `json:"signeddata"`
	Finalized       bool       `json:"finalized"`
	Timestamp       time.Time  `json:"timestamp"`
}

// ContractData holds token metadata stored with a verified contract
type ContractData struct {
	Name     string `json:"name,omitempty"`
	Symbol   string `json:"symbol,omitempty"`
	Decimals int    `json:"decimals,omitempty"`
}

// VerifiedContract is a contract whose source has been verified, together with its compiled ABIs
type VerifiedContract struct {
	ID           string                     `json:"id"`
	Name         string                     `json:"name"`
	Type         ContractType               `json:"type"`
	ContractData *ContractData              `json:"contractData"`
	CompiledData map[string]json.RawMessage `json:"compiledData"`
}

// ABI returns the ABI of the contract's main compilation unit
func (c *VerifiedContract) ABI() (json.RawMessage, bool) {
	if c.CompiledData == nil {
		return nil, false
	}
	abi, ok := c.CompiledData[c.Name]
	return abi, ok && len(abi) > 0
}

// DecodedEvent is a log parsed against a contract ABI
// Args are positional and hold the go-ethereum native values (common.Address, *big.Int, ...)
type DecodedEvent struct {
	Name      string
	Signature string
	Topic     string
	Args      []interface{}
}

// MarshalJSON serializes the decoded event with JSON-safe argument values
func (e DecodedEvent) MarshalJSON() ([]byte, error) {
	args := make([]interface{}, len(e.Args))
	for i, arg := range e.Args {
		args[i] = JSONValue(arg)
	}
	return json.Marshal(struct {
		Name      string        `json:"name"`
		Signature string        `json:"signature"`
		Topic     string        `json:"topic"`
		Args      []interface{} `json:"args"`
	}{
		Name:      e.Name,
		Signature: e.Signature,
		Topic:     e.Topic,
		Args:      args,
	})
}

// EvmLog is a decoded log enriched with the context of the contract that emitted it
type EvmLog struct {
	ID             string
	BlockID        string
	BlockHeight    int64
	BlockHash      string
	ExtrinsicID    string
	ExtrinsicHash  string
	ExtrinsicIndex int64
	// Address is the token contract address
	Address      string
	Name         string
	Type         ContractType
	ContractData *ContractData
	ABIs         map[string]json.RawMessage
	Data         string
	Topics       []string
	SignedData   SignedData
	Finalized    bool
	// Timestamp in unix milliseconds
	Timestamp    int64
	DecodedEvent DecodedEvent
}

// ABI returns the ABI of the emitting contract
func (l *EvmLog) ABI() json.RawMessage {
	return l.ABIs[l.Name]
}

// EvmEventDataParsed acknowledges a raw event as decoded
type EvmEventDataParsed struct {
	ID         string       `json:"id"`
	DataParsed DecodedEvent `json:"dataParsed"`
}

// Transfer is a normalized token transfer written upstream
type Transfer struct {
	ID             string    `json:"id"`
	BlockHeight    int64     `json:"blockHeight"`
	BlockHash      string    `json:"blockHash"`
	ExtrinsicID    string    `json:"extrinsicId"`
	ExtrinsicHash  string    `json:"extrinsicHash"`
	ExtrinsicIndex int64     `json:"extrinsicIndex"`
	ToID           string    `json:"toId"`
	FromID         string    `json:"fromId"`
	TokenID        string    `json:"tokenId"`
	ToEvmAddress   string    `json:"toEvmAddress"`
	FromEvmAddress string    `json:"fromEvmAddress"`
	Type           TokenType `json:"type"`
	Amount         string    `json:"amount"`
	Denom          *string   `json:"denom,omitempty"`
	NftID          *string   `json:"nftId,omitempty"`
	FeeAmount      string    `json:"feeAmount"`
	ErrorMessage   string    `json:"errorMessage"`
	Success        bool      `json:"success"`
	Timestamp      int64     `json:"timestamp"`
	Finalized      bool      `json:"finalized"`
}

// TokenHolderHead is a holder candidate before its balance is known
type TokenHolderHead struct {
	Type       TokenType
	NftID      *string
	Timestamp  int64
	EvmAddress string
	TokenID    string
	ABI        json.RawMessage
}

// Key returns the deduplication key of the candidate
func (h TokenHolderHead) Key() string {
	return fmt.Sprintf("%s|%s|%s", h.EvmAddress, h.TokenID, nftKey(h.NftID))
}

// TokenHolder is a balance snapshot of an address for a token (and NFT id) written upstream
type TokenHolder struct {
	ID         string     `json:"id"`
	Balance    string     `json:"balance"`
	SignerID   string     `json:"signerId"`
	EvmAddress string     `json:"evmAddress"`
	TokenID    string     `json:"tokenId"`
	NftID      *string    `json:"nftId"`
	Type       HolderType `json:"type"`
	Timestamp  int64      `json:"timestamp"`
}

// NewTokenHolder builds the holder record for a candidate.
// A resolved native address makes it an Account holder keyed by the native address,
// otherwise it is a Contract holder keyed by the EVM address.
func NewTokenHolder(head TokenHolderHead, nativeAddress, balance string) TokenHolder {
	holder := TokenHolder{
		Balance:   balance,
		TokenID:   head.TokenID,
		NftID:     head.NftID,
		Timestamp: head.Timestamp,
	}

	owner := head.EvmAddress
	if nativeAddress != "" {
		owner = nativeAddress
		holder.Type = HolderTypeAccount
		holder.SignerID = nativeAddress
	} else {
		holder.Type = HolderTypeContract
		holder.EvmAddress = head.EvmAddress
	}

	holder.ID = fmt.Sprintf("%s-%s", head.TokenID, owner)
	if head.NftID != nil && *head.NftID != "" {
		holder.ID = fmt.Sprintf("%s-%s", holder.ID, *head.NftID)
	}
	return holder
}

func nftKey(nftID *string) string {
	if nftID == nil {
		return "<nil>"
	}
	return *nftID
}

// IsZeroAddress reports whether address is the EVM zero address
func IsZeroAddress(address string) bool {
	return strings.EqualFold(address, ZeroAddress)
}
