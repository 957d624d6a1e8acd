package config

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/common"
	"github.com/sisu-network/bridge-transfer/types"
	"github.com/sisu-network/bridge-transfer/utils"
)

// Params is the typed form of a validated Bridge config.
type Params struct {
	PrivateKey *ecdsa.PrivateKey
	Rpc        string
	Bridge     common.Address
	Transfer   types.Transfer
	Contract   Contract
}

// Parse converts the config strings into typed values. It must be called after Validate and
// does no network I/O.
func (b *Bridge) Parse() (*Params, error) {
	key, err := utils.HexToPrivateKey(b.PrivateKey)
	if err != nil {
		// Never echo the key back.
		return nil, NewInvalidConfigErr(EnvPrivateKey, "<redacted>", err)
	}

	bridge, err := utils.ParseAddress(b.BridgeAddress)
	if err != nil {
		return nil, NewInvalidConfigErr(EnvBridgeAddress, b.BridgeAddress, err)
	}

	recipient, err := utils.ParseAddress(b.ToRecipient)
	if err != nil {
		return nil, NewInvalidConfigErr(EnvToRecipient, b.ToRecipient, err)
	}

	chainId, err := utils.ParseChainId(b.ToChainId)
	if err != nil {
		return nil, NewInvalidConfigErr(EnvToChainId, b.ToChainId, err)
	}

	amount, err := utils.ParseAmount(b.Amount)
	if err != nil {
		return nil, NewInvalidConfigErr(EnvAmount, b.Amount, err)
	}

	dest := types.Destination{
		ChainId:   chainId,
		Recipient: recipient,
	}

	var transfer types.Transfer
	if utils.IsZeroAddress(b.TokenAddress) {
		transfer = &types.NativeTransfer{
			Amount:      amount,
			Destination: dest,
		}
	} else {
		token, err := utils.ParseAddress(b.TokenAddress)
		if err != nil {
			return nil, NewInvalidConfigErr(EnvTokenAddress, b.TokenAddress, err)
		}

		transfer = &types.TokenTransfer{
			Token:       token,
			Amount:      amount,
			Destination: dest,
		}
	}

	return &Params{
		PrivateKey: key,
		Rpc:        b.FromRpc,
		Bridge:     bridge,
		Transfer:   transfer,
		Contract:   b.Contract,
	}, nil
}
