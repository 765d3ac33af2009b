package decoder

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/reef-chain/explorer-backtracker/internal/domain"
)

var (
	// ErrNoTopics is returned when a log carries no topics, so no event signature
	ErrNoTopics = errors.New("log has no topics")

	// ErrUnknownEvent is returned when the log signature is not part of the ABI
	ErrUnknownEvent = errors.New("event not found in abi")
)

// Decoder parses raw EVM logs against a contract ABI
type Decoder struct {
	abi abi.ABI
}

// New builds a decoder from an ABI JSON document
func New(abiJSON []byte) (*Decoder, error) {
	parsed, err := abi.JSON(bytes.NewReader(abiJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to parse abi: %w", err)
	}
	return &Decoder{abi: parsed}, nil
}

// ParseLog decodes a raw log into its event description.
// Indexed arguments are read from the topics and non-indexed ones from the data;
// the result keeps the argument order declared by the event.
func (d *Decoder) ParseLog(log domain.RawLog) (domain.DecodedEvent, error) {
	if len(log.Topics) == 0 {
		return domain.DecodedEvent{}, ErrNoTopics
	}

	topics := make([]common.Hash, len(log.Topics))
	for i, t := range log.Topics {
		topics[i] = common.HexToHash(t)
	}

	event, err := d.abi.EventByID(topics[0])
	if err != nil {
		return domain.DecodedEvent{}, fmt.Errorf("%w: %s", ErrUnknownEvent, topics[0].Hex())
	}

	values := make(map[string]interface{}, len(event.Inputs))

	var indexed abi.Arguments
	for _, input := range event.Inputs {
		if input.Indexed {
			indexed = append(indexed, input)
		}
	}
	if err := abi.ParseTopicsIntoMap(values, indexed, topics[1:]); err != nil {
		return domain.DecodedEvent{}, fmt.Errorf("failed to parse %s topics: %w", event.Name, err)
	}

	if err := event.Inputs.UnpackIntoMap(values, common.FromHex(log.Data)); err != nil {
		return domain.DecodedEvent{}, fmt.Errorf("failed to unpack %s data: %w", event.Name, err)
	}

	args := make([]interface{}, len(event.Inputs))
	for i, input := range event.Inputs {
		args[i] = values[input.Name]
	}

	return domain.DecodedEvent{
		Name:      event.Name,
		Signature: event.Sig,
		Topic:     event.ID.Hex(),
		Args:      args,
	}, nil
}
