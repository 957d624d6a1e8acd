package core

import (
	"context"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	etypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/bridge-transfer/types"
	"github.com/sisu-network/bridge-transfer/utils"
	"github.com/sisu-network/lib/log"
)

// Approver grants ERC20 allowances. Implemented by eth.Token.
type Approver interface {
	Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*etypes.Transaction, error)
}

// Depositor is the bridge contract. Implemented by eth.Bridge.
type Depositor interface {
	Address() common.Address
	DepositERC20(opts *bind.TransactOpts, token common.Address, amount *big.Int, toChainId *big.Int,
		to common.Address) (*etypes.Transaction, error)
	DepositNative(opts *bind.TransactOpts, amount *big.Int, toChainId *big.Int,
		to common.Address) (*etypes.Transaction, error)
}

// Confirmer waits until a transaction is mined. Implemented by eth.ReceiptWaiter.
type Confirmer interface {
	WaitMined(ctx context.Context, tx *etypes.Transaction) (*etypes.Receipt, error)
}

// TokenFactory creates the token binding. It is only called for token transfers.
type TokenFactory func(token common.Address) (Approver, error)

// Processor runs a single transfer. Every step waits for the previous transaction to be
// mined; nothing is retried and nothing is rolled back.
type Processor struct {
	opts      *bind.TransactOpts
	bridge    Depositor
	newToken  TokenFactory
	confirmer Confirmer
}

func NewProcessor(opts *bind.TransactOpts, bridge Depositor, newToken TokenFactory, confirmer Confirmer) *Processor {
	return &Processor{
		opts:      opts,
		bridge:    bridge,
		newToken:  newToken,
		confirmer: confirmer,
	}
}

func (p *Processor) Execute(ctx context.Context, transfer types.Transfer) (*types.TransferResult, error) {
	log.Info("Starting ", transfer)

	switch t := transfer.(type) {
	case *types.TokenTransfer:
		return p.executeToken(ctx, t)
	case *types.NativeTransfer:
		return p.executeNative(ctx, t)
	default:
		return nil, fmt.Errorf("unknown transfer type %T", transfer)
	}
}

func (p *Processor) executeToken(ctx context.Context, t *types.TokenTransfer) (*types.TransferResult, error) {
	token, err := p.newToken(t.Token)
	if err != nil {
		return nil, types.NewStepError(types.StepApprove, err)
	}

	log.Info("Approving token to bridge...")
	approveTx, err := token.Approve(p.transactOpts(ctx), p.bridge.Address(), t.Amount)
	if err != nil {
		return nil, types.NewStepError(types.StepApprove, err)
	}
	log.Info("Approve tx hash: ", approveTx.Hash().Hex())

	// The bridge pulls the tokens during the deposit, so the allowance has to be final first.
	if _, err := p.confirmer.WaitMined(ctx, approveTx); err != nil {
		return nil, types.NewStepError(types.StepApprove, err)
	}
	log.Info("Approve mined.")

	result := &types.TransferResult{
		ApproveTxHash: approveTx.Hash(),
	}

	log.Infof("Calling bridge deposit for token %s...", t.Token.Hex())
	depositTx, err := p.bridge.DepositERC20(p.transactOpts(ctx), t.Token, t.Amount,
		t.Destination.ChainId, t.Destination.Recipient)
	if err != nil {
		return result, types.NewStepError(types.StepDeposit, err)
	}
	log.Info("Bridge tx hash: ", depositTx.Hash().Hex())
	result.DepositTxHash = depositTx.Hash()

	receipt, err := p.confirmer.WaitMined(ctx, depositTx)
	if err != nil {
		return result, types.NewStepError(types.StepDeposit, err)
	}
	log.Info("Receipt: ", receipt.TxHash.Hex())
	result.Receipt = receipt

	return result, nil
}

func (p *Processor) executeNative(ctx context.Context, t *types.NativeTransfer) (*types.TransferResult, error) {
	log.Infof("Bridging native value %s (%s ether)...", t.Amount, utils.WeiToEther(t.Amount))
	depositTx, err := p.bridge.DepositNative(p.transactOpts(ctx), t.Amount,
		t.Destination.ChainId, t.Destination.Recipient)
	if err != nil {
		return nil, types.NewStepError(types.StepDeposit, err)
	}
	log.Info("Bridge tx hash: ", depositTx.Hash().Hex())

	result := &types.TransferResult{
		DepositTxHash: depositTx.Hash(),
	}

	receipt, err := p.confirmer.WaitMined(ctx, depositTx)
	if err != nil {
		return result, types.NewStepError(types.StepDeposit, err)
	}
	log.Info("Done.")
	result.Receipt = receipt

	return result, nil
}

// transactOpts returns a copy of the signer options bound to ctx.
func (p *Processor) transactOpts(ctx context.Context) *bind.TransactOpts {
	opts := *p.opts
	opts.Context = ctx
	return &opts
}
