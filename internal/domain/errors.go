package domain

import "errors"

var (
	// ErrContractNotFound is returned when a queued contract has no verified contract record yet
	ErrContractNotFound = errors.New("verified contract not found")

	// ErrNoABI is returned when a verified contract carries no ABI for its main compilation unit
	ErrNoABI = errors.New("verified contract has no abi")

	// ErrBatchLengthMismatch is returned when a TransferBatch event has nft id and amount arrays of different length
	ErrBatchLengthMismatch = errors.New("transfer batch ids and amounts length mismatch")

	// ErrUnexpectedArgs is returned when decoded event arguments do not have the expected shape
	ErrUnexpectedArgs = errors.New("unexpected event arguments")
)
