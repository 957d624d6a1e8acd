package core

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
)

func placeholderTx(nonce uint64) *etypes.Transaction {
	return etypes.NewTransaction(nonce, common.Address{}, big.NewInt(0), 100_000, big.NewInt(1), nil)
}

type MockApprover struct {
	ApproveFunc func(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*etypes.Transaction, error)
}

func (m *MockApprover) Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*etypes.Transaction, error) {
	if m.ApproveFunc != nil {
		return m.ApproveFunc(opts, spender, amount)
	}

	return placeholderTx(0), nil
}

type MockDepositor struct {
	AddressFunc       func() common.Address
	DepositERC20Func  func(opts *bind.TransactOpts, token common.Address, amount *big.Int, toChainId *big.Int, to common.Address) (*etypes.Transaction, error)
	DepositNativeFunc func(opts *bind.TransactOpts, amount *big.Int, toChainId *big.Int, to common.Address) (*etypes.Transaction, error)
}

func (m *MockDepositor) Address() common.Address {
	if m.AddressFunc != nil {
		return m.AddressFunc()
	}

	return common.Address{}
}

func (m *MockDepositor) DepositERC20(opts *bind.TransactOpts, token common.Address, amount *big.Int,
	toChainId *big.Int, to common.Address) (*etypes.Transaction, error) {
	if m.DepositERC20Func != nil {
		return m.DepositERC20Func(opts, token, amount, toChainId, to)
	}

	return placeholderTx(1), nil
}

func (m *MockDepositor) DepositNative(opts *bind.TransactOpts, amount *big.Int, toChainId *big.Int,
	to common.Address) (*etypes.Transaction, error) {
	if m.DepositNativeFunc != nil {
		return m.DepositNativeFunc(opts, amount, toChainId, to)
	}

	placeholder := placeholderTx(1)
	if amount != nil {
		placeholder = etypes.NewTransaction(1, common.Address{}, amount, 100_000, big.NewInt(1), nil)
	}

	return placeholder, nil
}

type MockConfirmer struct {
	WaitMinedFunc func(ctx context.Context, tx *etypes.Transaction) (*etypes.Receipt, error)
}

func (m *MockConfirmer) WaitMined(ctx context.Context, tx *etypes.Transaction) (*etypes.Receipt, error) {
	if m.WaitMinedFunc != nil {
		return m.WaitMinedFunc(ctx, tx)
	}

	return &etypes.Receipt{TxHash: tx.Hash(), Status: etypes.ReceiptStatusSuccessful}, nil
}
