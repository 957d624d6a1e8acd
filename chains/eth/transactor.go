package eth

import (
	"context"
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/sisu-network/bridge-transfer/utils"
	"github.com/sisu-network/lib/log"
)

// NewTransactor binds key to the chain the client is connected to. Nonce, gas and fees are
// left empty so that they are filled from the node on every transaction.
func NewTransactor(ctx context.Context, client EthClient, key *ecdsa.PrivateKey) (*bind.TransactOpts, error) {
	chainId, err := client.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot get chain id: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainId)
	if err != nil {
		return nil, err
	}

	opts.Context = ctx
	log.Infof("Signing as %s on chain %s", opts.From.Hex(), chainId)

	// Only informative. Gas estimation rejects the tx if the funds are really short.
	balance, err := client.BalanceAt(ctx, opts.From, nil)
	if err != nil {
		log.Warnf("Cannot get balance of %s, err = %v", opts.From.Hex(), err)
	} else {
		log.Infof("Balance of %s is %s wei (%s ether)", opts.From.Hex(), balance, utils.WeiToEther(balance))
	}

	return opts, nil
}
