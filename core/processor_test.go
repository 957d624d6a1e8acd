package core

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/bridge-transfer/types"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
)

var (
	testBridge    = common.HexToAddress("0x1111111111111111111111111111111111111111")
	testToken     = common.HexToAddress("0x2222222222222222222222222222222222222222")
	testRecipient = common.HexToAddress("0x3333333333333333333333333333333333333333")
	testChainId   = big.NewInt(11155111)
)

func newTx(nonce uint64) *etypes.Transaction {
	return etypes.NewTransaction(nonce, common.Address{1}, big.NewInt(0), 100_000, big.NewInt(1), nil)
}

func mustBig(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 10)
	if !ok {
		panic(fmt.Sprintf("bad number %s", s))
	}
	return n
}

// recorder keeps the order in which the processor calls its dependencies.
type recorder struct {
	calls []string

	approver  *MockApprover
	depositor *MockDepositor
	confirmer *MockConfirmer

	approveTx *etypes.Transaction
	depositTx *etypes.Transaction
	tokens    []common.Address
}

func newRecorder() *recorder {
	r := &recorder{
		calls:     make([]string, 0),
		approveTx: newTx(0),
		depositTx: newTx(1),
	}

	r.approver = &MockApprover{
		ApproveFunc: func(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*etypes.Transaction, error) {
			r.calls = append(r.calls, fmt.Sprintf("approve(%s,%s)", spender.Hex(), amount))
			return r.approveTx, nil
		},
	}
	r.depositor = &MockDepositor{
		AddressFunc: func() common.Address {
			return testBridge
		},
		DepositERC20Func: func(opts *bind.TransactOpts, token common.Address, amount *big.Int, toChainId *big.Int, to common.Address) (*etypes.Transaction, error) {
			r.calls = append(r.calls, fmt.Sprintf("depositERC20(%s,%s,%s,%s)", token.Hex(), amount, toChainId, to.Hex()))
			return r.depositTx, nil
		},
		DepositNativeFunc: func(opts *bind.TransactOpts, amount *big.Int, toChainId *big.Int, to common.Address) (*etypes.Transaction, error) {
			r.calls = append(r.calls, fmt.Sprintf("depositNative(%s,%s){value:%s}", toChainId, to.Hex(), amount))
			return r.depositTx, nil
		},
	}
	r.confirmer = &MockConfirmer{
		WaitMinedFunc: func(ctx context.Context, tx *etypes.Transaction) (*etypes.Receipt, error) {
			r.calls = append(r.calls, fmt.Sprintf("wait(%d)", tx.Nonce()))
			return &etypes.Receipt{TxHash: tx.Hash(), Status: etypes.ReceiptStatusSuccessful}, nil
		},
	}

	return r
}

func (r *recorder) processor() *Processor {
	newToken := func(token common.Address) (Approver, error) {
		r.tokens = append(r.tokens, token)
		return r.approver, nil
	}

	return NewProcessor(&bind.TransactOpts{From: common.Address{9}}, r.depositor, newToken, r.confirmer)
}

func TestProcessor_TokenTransfer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := newRecorder()
		amount := mustBig("1000000000000000000")

		result, err := r.processor().Execute(context.Background(), &types.TokenTransfer{
			Token:  testToken,
			Amount: amount,
			Destination: types.Destination{
				ChainId:   testChainId,
				Recipient: testRecipient,
			},
		})
		require.Nil(t, err)

		require.Equal(t, []string{
			fmt.Sprintf("approve(%s,1000000000000000000)", testBridge.Hex()),
			"wait(0)",
			fmt.Sprintf("depositERC20(%s,1000000000000000000,11155111,%s)", testToken.Hex(), testRecipient.Hex()),
			"wait(1)",
		}, r.calls)
		require.Equal(t, []common.Address{testToken}, r.tokens)

		require.Equal(t, r.approveTx.Hash(), result.ApproveTxHash)
		require.Equal(t, r.depositTx.Hash(), result.DepositTxHash)
		require.Equal(t, r.depositTx.Hash(), result.Receipt.TxHash)
	})

	t.Run("approve_reverted", func(t *testing.T) {
		r := newRecorder()
		r.confirmer.WaitMinedFunc = func(ctx context.Context, tx *etypes.Transaction) (*etypes.Receipt, error) {
			r.calls = append(r.calls, fmt.Sprintf("wait(%d)", tx.Nonce()))
			return &etypes.Receipt{Status: etypes.ReceiptStatusFailed}, fmt.Errorf("reverted")
		}

		_, err := r.processor().Execute(context.Background(), &types.TokenTransfer{
			Token:       testToken,
			Amount:      big.NewInt(10),
			Destination: types.Destination{ChainId: testChainId, Recipient: testRecipient},
		})
		require.NotNil(t, err)

		var stepErr *types.StepError
		require.True(t, errors.As(err, &stepErr))
		require.Equal(t, types.StepApprove, stepErr.Step)

		require.Equal(t, 2, len(r.calls))
		require.Equal(t, "wait(0)", r.calls[1])
	})

	t.Run("approve_send_fails", func(t *testing.T) {
		r := newRecorder()
		r.approver.ApproveFunc = func(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*etypes.Transaction, error) {
			return nil, fmt.Errorf("insufficient funds for gas")
		}

		_, err := r.processor().Execute(context.Background(), &types.TokenTransfer{
			Token:       testToken,
			Amount:      big.NewInt(10),
			Destination: types.Destination{ChainId: testChainId, Recipient: testRecipient},
		})
		require.NotNil(t, err)
		require.Equal(t, 0, len(r.calls))
	})

	t.Run("deposit_fails_after_approve", func(t *testing.T) {
		r := newRecorder()
		r.depositor.DepositERC20Func = func(opts *bind.TransactOpts, token common.Address, amount *big.Int, toChainId *big.Int, to common.Address) (*etypes.Transaction, error) {
			return nil, fmt.Errorf("execution reverted")
		}

		result, err := r.processor().Execute(context.Background(), &types.TokenTransfer{
			Token:       testToken,
			Amount:      big.NewInt(10),
			Destination: types.Destination{ChainId: testChainId, Recipient: testRecipient},
		})

		var stepErr *types.StepError
		require.ErrorAs(t, err, &stepErr)
		require.Equal(t, types.StepDeposit, stepErr.Step)

		// The approval stays on chain.
		require.Equal(t, r.approveTx.Hash(), result.ApproveTxHash)
		require.Equal(t, common.Hash{}, result.DepositTxHash)
	})

	t.Run("token_binding_fails", func(t *testing.T) {
		r := newRecorder()
		p := NewProcessor(&bind.TransactOpts{}, r.depositor, func(token common.Address) (Approver, error) {
			return nil, fmt.Errorf("bad abi")
		}, r.confirmer)

		_, err := p.Execute(context.Background(), &types.TokenTransfer{
			Token:       testToken,
			Amount:      big.NewInt(10),
			Destination: types.Destination{ChainId: testChainId, Recipient: testRecipient},
		})
		require.NotNil(t, err)
		require.Equal(t, 0, len(r.calls))
	})
}

func TestProcessor_DepositWaitsForApproval(t *testing.T) {
	approveTx := newTx(0)
	release := make(chan struct{})
	approveWaiting := make(chan struct{})
	deposits := atomic.NewInt32(0)

	depositor := &MockDepositor{
		DepositERC20Func: func(opts *bind.TransactOpts, token common.Address, amount *big.Int, toChainId *big.Int, to common.Address) (*etypes.Transaction, error) {
			deposits.Inc()
			return newTx(1), nil
		},
	}
	approver := &MockApprover{
		ApproveFunc: func(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*etypes.Transaction, error) {
			return approveTx, nil
		},
	}
	confirmer := &MockConfirmer{
		WaitMinedFunc: func(ctx context.Context, tx *etypes.Transaction) (*etypes.Receipt, error) {
			if tx.Hash() == approveTx.Hash() {
				close(approveWaiting)
				<-release
			}
			return &etypes.Receipt{TxHash: tx.Hash(), Status: etypes.ReceiptStatusSuccessful}, nil
		},
	}

	p := NewProcessor(&bind.TransactOpts{}, depositor, func(token common.Address) (Approver, error) {
		return approver, nil
	}, confirmer)

	done := make(chan error)
	go func() {
		_, err := p.Execute(context.Background(), &types.TokenTransfer{
			Token:       testToken,
			Amount:      big.NewInt(10),
			Destination: types.Destination{ChainId: testChainId, Recipient: testRecipient},
		})
		done <- err
	}()

	<-approveWaiting
	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(0), deposits.Load())

	close(release)
	require.Nil(t, <-done)
	require.Equal(t, int32(1), deposits.Load())
}

func TestProcessor_NativeTransfer(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		r := newRecorder()

		result, err := r.processor().Execute(context.Background(), &types.NativeTransfer{
			Amount: mustBig("500000000000000000"),
			Destination: types.Destination{
				ChainId:   testChainId,
				Recipient: testRecipient,
			},
		})
		require.Nil(t, err)

		require.Equal(t, []string{
			fmt.Sprintf("depositNative(11155111,%s){value:500000000000000000}", testRecipient.Hex()),
			"wait(1)",
		}, r.calls)
		require.Equal(t, 0, len(r.tokens))
		require.Equal(t, common.Hash{}, result.ApproveTxHash)
		require.Equal(t, r.depositTx.Hash(), result.DepositTxHash)
	})

	t.Run("not_mined", func(t *testing.T) {
		r := newRecorder()
		r.confirmer.WaitMinedFunc = func(ctx context.Context, tx *etypes.Transaction) (*etypes.Receipt, error) {
			return nil, context.Canceled
		}

		_, err := r.processor().Execute(context.Background(), &types.NativeTransfer{
			Amount:      big.NewInt(1),
			Destination: types.Destination{ChainId: testChainId, Recipient: testRecipient},
		})
		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestProcessor_DefaultMocks(t *testing.T) {
	newToken := func(token common.Address) (Approver, error) {
		return &MockApprover{}, nil
	}
	p := NewProcessor(&bind.TransactOpts{}, &MockDepositor{}, newToken, &MockConfirmer{})

	t.Run("token", func(t *testing.T) {
		result, err := p.Execute(context.Background(), &types.TokenTransfer{
			Token:       testToken,
			Amount:      big.NewInt(10),
			Destination: types.Destination{ChainId: testChainId, Recipient: testRecipient},
		})
		require.Nil(t, err)
		require.NotEqual(t, common.Hash{}, result.ApproveTxHash)
		require.NotEqual(t, result.ApproveTxHash, result.DepositTxHash)
		require.Equal(t, result.DepositTxHash, result.Receipt.TxHash)
	})

	t.Run("native", func(t *testing.T) {
		result, err := p.Execute(context.Background(), &types.NativeTransfer{
			Amount:      big.NewInt(10),
			Destination: types.Destination{ChainId: testChainId, Recipient: testRecipient},
		})
		require.Nil(t, err)
		require.Equal(t, result.DepositTxHash, result.Receipt.TxHash)
	})
}

func TestProcessor_UsesCallerContext(t *testing.T) {
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "run")

	var seen context.Context
	depositor := &MockDepositor{
		DepositNativeFunc: func(opts *bind.TransactOpts, amount *big.Int, toChainId *big.Int, to common.Address) (*etypes.Transaction, error) {
			seen = opts.Context
			return newTx(0), nil
		},
	}

	base := &bind.TransactOpts{}
	p := NewProcessor(base, depositor, nil, &MockConfirmer{})
	_, err := p.Execute(ctx, &types.NativeTransfer{
		Amount:      big.NewInt(1),
		Destination: types.Destination{ChainId: testChainId, Recipient: testRecipient},
	})
	require.Nil(t, err)
	require.Equal(t, "run", seen.Value(ctxKey{}))
	require.Nil(t, base.Context)
}
