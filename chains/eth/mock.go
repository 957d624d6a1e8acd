package eth

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
)

// MockEthClient defaults describe a healthy legacy-gas chain where every contract has code.
type MockEthClient struct {
	CodeAtFunc              func(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error)
	CallContractFunc        func(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	HeaderByNumberFunc      func(ctx context.Context, number *big.Int) (*ethtypes.Header, error)
	PendingCodeAtFunc       func(ctx context.Context, account common.Address) ([]byte, error)
	PendingNonceAtFunc      func(ctx context.Context, account common.Address) (uint64, error)
	SuggestGasPriceFunc     func(ctx context.Context) (*big.Int, error)
	SuggestGasTipCapFunc    func(ctx context.Context) (*big.Int, error)
	EstimateGasFunc         func(ctx context.Context, call ethereum.CallMsg) (uint64, error)
	SendTransactionFunc     func(ctx context.Context, tx *ethtypes.Transaction) error
	FilterLogsFunc          func(ctx context.Context, query ethereum.FilterQuery) ([]ethtypes.Log, error)
	SubscribeFilterLogsFunc func(ctx context.Context, query ethereum.FilterQuery, ch chan<- ethtypes.Log) (ethereum.Subscription, error)
	ChainIDFunc             func(ctx context.Context) (*big.Int, error)
	TransactionReceiptFunc  func(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error)
	BalanceAtFunc           func(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	CloseFunc               func()
}

func (c *MockEthClient) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	if c.CodeAtFunc != nil {
		return c.CodeAtFunc(ctx, contract, blockNumber)
	}

	return []byte{0x60}, nil
}

func (c *MockEthClient) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	if c.CallContractFunc != nil {
		return c.CallContractFunc(ctx, call, blockNumber)
	}

	return nil, nil
}

func (c *MockEthClient) HeaderByNumber(ctx context.Context, number *big.Int) (*ethtypes.Header, error) {
	if c.HeaderByNumberFunc != nil {
		return c.HeaderByNumberFunc(ctx, number)
	}

	return &ethtypes.Header{Number: big.NewInt(1)}, nil
}

func (c *MockEthClient) PendingCodeAt(ctx context.Context, account common.Address) ([]byte, error) {
	if c.PendingCodeAtFunc != nil {
		return c.PendingCodeAtFunc(ctx, account)
	}

	return []byte{0x60}, nil
}

func (c *MockEthClient) PendingNonceAt(ctx context.Context, account common.Address) (uint64, error) {
	if c.PendingNonceAtFunc != nil {
		return c.PendingNonceAtFunc(ctx, account)
	}

	return 0, nil
}

func (c *MockEthClient) SuggestGasPrice(ctx context.Context) (*big.Int, error) {
	if c.SuggestGasPriceFunc != nil {
		return c.SuggestGasPriceFunc(ctx)
	}

	return big.NewInt(1_000_000_000), nil
}

func (c *MockEthClient) SuggestGasTipCap(ctx context.Context) (*big.Int, error) {
	if c.SuggestGasTipCapFunc != nil {
		return c.SuggestGasTipCapFunc(ctx)
	}

	return big.NewInt(1_000_000_000), nil
}

func (c *MockEthClient) EstimateGas(ctx context.Context, call ethereum.CallMsg) (uint64, error) {
	if c.EstimateGasFunc != nil {
		return c.EstimateGasFunc(ctx, call)
	}

	return 100_000, nil
}

func (c *MockEthClient) SendTransaction(ctx context.Context, tx *ethtypes.Transaction) error {
	if c.SendTransactionFunc != nil {
		return c.SendTransactionFunc(ctx, tx)
	}

	return nil
}

func (c *MockEthClient) FilterLogs(ctx context.Context, query ethereum.FilterQuery) ([]ethtypes.Log, error) {
	if c.FilterLogsFunc != nil {
		return c.FilterLogsFunc(ctx, query)
	}

	return nil, nil
}

func (c *MockEthClient) SubscribeFilterLogs(ctx context.Context, query ethereum.FilterQuery, ch chan<- ethtypes.Log) (ethereum.Subscription, error) {
	if c.SubscribeFilterLogsFunc != nil {
		return c.SubscribeFilterLogsFunc(ctx, query, ch)
	}

	return event.NewSubscription(func(quit <-chan struct{}) error {
		<-quit
		return nil
	}), nil
}

func (c *MockEthClient) ChainID(ctx context.Context) (*big.Int, error) {
	if c.ChainIDFunc != nil {
		return c.ChainIDFunc(ctx)
	}

	return big.NewInt(1337), nil
}

func (c *MockEthClient) TransactionReceipt(ctx context.Context, txHash common.Hash) (*ethtypes.Receipt, error) {
	if c.TransactionReceiptFunc != nil {
		return c.TransactionReceiptFunc(ctx, txHash)
	}

	return nil, nil
}

func (c *MockEthClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	if c.BalanceAtFunc != nil {
		return c.BalanceAtFunc(ctx, account, blockNumber)
	}

	return big.NewInt(0), nil
}

func (c *MockEthClient) Close() {
	if c.CloseFunc != nil {
		c.CloseFunc()
	}
}
