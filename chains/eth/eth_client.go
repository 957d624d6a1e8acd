package eth

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/sisu-network/lib/log"
)

// EthClient A wrapper around eth.client so that we can mock it in tests.
type EthClient interface {
	bind.ContractBackend

	ChainID(ctx context.Context) (*big.Int, error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	Close()
}

type defaultEthClient struct {
	*ethclient.Client
	rpc string
}

// NewEthClient dials the source chain. The returned client is used for every call of the run.
func NewEthClient(ctx context.Context, rpc string) (EthClient, error) {
	client, err := ethclient.DialContext(ctx, rpc)
	if err != nil {
		return nil, err
	}

	log.Info("Connected to eth rpc: ", rpc)

	return &defaultEthClient{
		Client: client,
		rpc:    rpc,
	}, nil
}

func (c *defaultEthClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	balance, err := c.Client.BalanceAt(ctx, account, blockNumber)
	if err == nil && balance != nil && balance.Sign() == 0 {
		log.Verbosef("Balance of %s is 0 using URL %s", account.Hex(), c.rpc)
	}

	return balance, err
}
