package types

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
)

// Destination is where the bridge releases the funds.
type Destination struct {
	ChainId   *big.Int
	Recipient common.Address
}

// Transfer is either a TokenTransfer or a NativeTransfer. The kind is decided once from the
// config and never changes during a run.
type Transfer interface {
	GetAmount() *big.Int
	GetDestination() Destination
	String() string

	isTransfer()
}

// TokenTransfer moves an ERC20 token. The bridge must be approved to spend Amount first.
type TokenTransfer struct {
	Token       common.Address
	Amount      *big.Int
	Destination Destination
}

func (t *TokenTransfer) GetAmount() *big.Int {
	return t.Amount
}

func (t *TokenTransfer) GetDestination() Destination {
	return t.Destination
}

func (t *TokenTransfer) String() string {
	return fmt.Sprintf("token transfer of %s units of %s to %s on chain %s",
		t.Amount, t.Token.Hex(), t.Destination.Recipient.Hex(), t.Destination.ChainId)
}

func (t *TokenTransfer) isTransfer() {}

// NativeTransfer moves the chain's base currency. Amount is attached as the call value.
type NativeTransfer struct {
	Amount      *big.Int
	Destination Destination
}

func (t *NativeTransfer) GetAmount() *big.Int {
	return t.Amount
}

func (t *NativeTransfer) GetDestination() Destination {
	return t.Destination
}

func (t *NativeTransfer) String() string {
	return fmt.Sprintf("native transfer of %s wei to %s on chain %s",
		t.Amount, t.Destination.Recipient.Hex(), t.Destination.ChainId)
}

func (t *NativeTransfer) isTransfer() {}

// TransferResult holds the hashes of every transaction sent during a transfer.
type TransferResult struct {
	// Only set for token transfers.
	ApproveTxHash common.Hash

	DepositTxHash common.Hash
	Receipt       *etypes.Receipt
}
