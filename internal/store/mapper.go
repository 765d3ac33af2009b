package store

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/reef-chain/explorer-backtracker/internal/domain"
	"github.com/reef-chain/explorer-backtracker/internal/store/schema"
	"github.com/reef-chain/explorer-backtracker/internal/types"
)

func toRawEvmEvent(row schema.EvmEvent) (domain.RawEvmEvent, error) {
	event := domain.RawEvmEvent{
		ID:              row.ID,
		BlockID:         row.BlockID,
		BlockHeight:     row.BlockHeight,
		BlockHash:       row.BlockHash,
		ExtrinsicID:     row.ExtrinsicID,
		ExtrinsicHash:   row.ExtrinsicHash,
		ExtrinsicIndex:  row.ExtrinsicIndex,
		EventIndex:      row.EventIndex,
		ContractAddress: row.ContractAddress,
		Finalized:       row.Finalized,
		Timestamp:       row.Timestamp,
	}

	if err := json.Unmarshal(row.RawData, &event.RawData); err != nil {
		return domain.RawEvmEvent{}, fmt.Errorf("invalid raw data: %w", err)
	}
	if len(row.SignedData) > 0 {
		if err := json.Unmarshal(row.SignedData, &event.SignedData); err != nil {
			return domain.RawEvmEvent{}, fmt.Errorf("invalid signed data: %w", err)
		}
	}

	return event, nil
}

func toVerifiedContract(row schema.VerifiedContract) (domain.VerifiedContract, error) {
	contract := domain.VerifiedContract{
		ID:   row.ID,
		Name: row.Name,
		Type: domain.ContractType(row.Type),
	}

	if len(row.ContractData) > 0 {
		if err := json.Unmarshal(row.ContractData, &contract.ContractData); err != nil {
			return domain.VerifiedContract{}, fmt.Errorf("invalid contract data of %s: %w", row.ID, err)
		}
	}
	if err := json.Unmarshal(row.CompiledData, &contract.CompiledData); err != nil {
		return domain.VerifiedContract{}, fmt.Errorf("invalid compiled data of %s: %w", row.ID, err)
	}

	return contract, nil
}

func fromTransfer(transfer domain.Transfer) schema.Transfer {
	return schema.Transfer{
		ID:             transfer.ID,
		NftID:          types.SafeString(transfer.NftID),
		BlockHeight:    transfer.BlockHeight,
		BlockHash:      transfer.BlockHash,
		ExtrinsicID:    transfer.ExtrinsicID,
		ExtrinsicHash:  transfer.ExtrinsicHash,
		ExtrinsicIndex: transfer.ExtrinsicIndex,
		ToID:           transfer.ToID,
		FromID:         transfer.FromID,
		TokenID:        transfer.TokenID,
		ToEvmAddress:   transfer.ToEvmAddress,
		FromEvmAddress: transfer.FromEvmAddress,
		Type:           string(transfer.Type),
		Amount:         numeric(transfer.Amount),
		Denom:          transfer.Denom,
		FeeAmount:      numeric(transfer.FeeAmount),
		ErrorMessage:   transfer.ErrorMessage,
		Success:        transfer.Success,
		Finalized:      transfer.Finalized,
		Timestamp:      time.UnixMilli(transfer.Timestamp).UTC(),
	}
}

func fromTokenHolder(holder domain.TokenHolder) schema.TokenHolder {
	return schema.TokenHolder{
		ID:         holder.ID,
		Balance:    numeric(holder.Balance),
		SignerID:   nullable(holder.SignerID),
		EvmAddress: nullable(holder.EvmAddress),
		TokenID:    holder.TokenID,
		NftID:      holder.NftID,
		Type:       string(holder.Type),
		Timestamp:  time.UnixMilli(holder.Timestamp).UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
}

// numeric returns "0" for empty amounts
func numeric(s string) string {
	if s == "" {
		return "0"
	}
	return s
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
