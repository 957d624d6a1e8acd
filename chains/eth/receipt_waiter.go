package eth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/lib/log"
)

const (
	// Consecutive rpc failures tolerated while waiting. A missing receipt is not a failure.
	MaxReceiptRetry = 5
)

var (
	RpcTimeOut = time.Second * 10
)

type TxRevertedErr struct {
	TxHash      common.Hash
	BlockNumber uint64
}

func NewTxRevertedErr(txHash common.Hash, blockNumber uint64) error {
	return &TxRevertedErr{TxHash: txHash, BlockNumber: blockNumber}
}

func (e *TxRevertedErr) Error() string {
	return fmt.Sprintf("tx %s reverted in block %d", e.TxHash.Hex(), e.BlockNumber)
}

// ReceiptWaiter blocks until a sent transaction is mined. There is no overall timeout; a tx
// that never gets included keeps the caller waiting until ctx is done.
type ReceiptWaiter struct {
	client    EthClient
	retryTime time.Duration
}

func NewReceiptWaiter(client EthClient) *ReceiptWaiter {
	return &ReceiptWaiter{
		client:    client,
		retryTime: time.Second * 3,
	}
}

func (rw *ReceiptWaiter) WaitMined(ctx context.Context, tx *etypes.Transaction) (*etypes.Receipt, error) {
	retry := 0

	for {
		rpcCtx, cancel := context.WithTimeout(ctx, RpcTimeOut)
		receipt, err := rw.client.TransactionReceipt(rpcCtx, tx.Hash())
		cancel()

		switch {
		case err == nil && receipt != nil:
			if receipt.Status != etypes.ReceiptStatusSuccessful {
				blockNumber := uint64(0)
				if receipt.BlockNumber != nil {
					blockNumber = receipt.BlockNumber.Uint64()
				}

				return receipt, NewTxRevertedErr(tx.Hash(), blockNumber)
			}

			return receipt, nil

		case err == nil || errors.Is(err, ethereum.NotFound):
			retry = 0
			log.Verbose("Tx ", tx.Hash().Hex(), " is not mined yet")

		default:
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			if retry == MaxReceiptRetry {
				return nil, fmt.Errorf("cannot get receipt for tx %s: %w", tx.Hash().Hex(), err)
			}

			retry++
			log.Warnf("Failed to get receipt for tx %s, retry = %d, err = %v", tx.Hash().Hex(), retry, err)
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(rw.retryTime):
		}
	}
}
