package eth

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	ethtypes "github.com/ethereum/go-ethereum/core/types"
	"github.com/sisu-network/bridge-transfer/config"
)

const (
	DefaultTokenDepositMethod  = "depositERC20"
	DefaultNativeDepositMethod = "depositNative"
	DefaultApproveMethod       = "approve"

	// Generic bridge surface. Real bridges differ; override it with a contract config file.
	DefaultBridgeABI = `[
		{"inputs":[{"name":"token","type":"address"},{"name":"amount","type":"uint256"},{"name":"toChainId","type":"uint256"},{"name":"to","type":"address"}],"name":"depositERC20","outputs":[{"name":"","type":"bytes32"}],"stateMutability":"payable","type":"function"},
		{"inputs":[{"name":"toChainId","type":"uint256"},{"name":"to","type":"address"}],"name":"depositNative","outputs":[{"name":"","type":"bytes32"}],"stateMutability":"payable","type":"function"}
	]`

	ERC20ABI = `[
		{"constant":false,"inputs":[{"name":"spender","type":"address"},{"name":"amount","type":"uint256"}],"name":"approve","outputs":[{"name":"","type":"bool"}],"type":"function"}
	]`
)

type argKind int

const (
	argAddress argKind = iota
	argUint256
)

func (k argKind) String() string {
	if k == argAddress {
		return "address"
	}
	return "uint256"
}

func parseABI(raw string) (abi.ABI, error) {
	parsed, err := abi.JSON(strings.NewReader(raw))
	if err != nil {
		return abi.ABI{}, fmt.Errorf("cannot parse abi: %w", err)
	}

	return parsed, nil
}

// checkMethod makes sure that the abi has a method whose inputs match the arguments we pack.
func checkMethod(parsed abi.ABI, name string, payable bool, kinds ...argKind) error {
	method, ok := parsed.Methods[name]
	if !ok {
		return fmt.Errorf("method %s not found in abi", name)
	}

	if len(method.Inputs) != len(kinds) {
		return fmt.Errorf("method %s expects %d inputs, abi has %d", name, len(kinds), len(method.Inputs))
	}

	for i, kind := range kinds {
		t := method.Inputs[i].Type
		match := false
		switch kind {
		case argAddress:
			match = t.T == abi.AddressTy
		case argUint256:
			match = t.T == abi.UintTy && t.Size == 256
		}

		if !match {
			return fmt.Errorf("input %d of method %s is %s, expected %s", i, name, t.String(), kind)
		}
	}

	if payable && !method.IsPayable() {
		return fmt.Errorf("method %s is not payable", name)
	}

	return nil
}

func withDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Bridge is a binding to the bridge contract on the source chain.
type Bridge struct {
	address             common.Address
	abi                 abi.ABI
	contract            *bind.BoundContract
	tokenDepositMethod  string
	nativeDepositMethod string
}

func NewBridge(address common.Address, client EthClient, cfg config.Contract) (*Bridge, error) {
	parsed, err := parseABI(withDefault(cfg.Abi, DefaultBridgeABI))
	if err != nil {
		return nil, err
	}

	return &Bridge{
		address:             address,
		abi:                 parsed,
		contract:            bind.NewBoundContract(address, parsed, client, client, client),
		tokenDepositMethod:  withDefault(cfg.TokenDepositMethod, DefaultTokenDepositMethod),
		nativeDepositMethod: withDefault(cfg.NativeDepositMethod, DefaultNativeDepositMethod),
	}, nil
}

func (b *Bridge) Address() common.Address {
	return b.address
}

// DepositERC20 calls depositERC20(token, amount, toChainId, to). The bridge must already be
// allowed to spend amount of token.
func (b *Bridge) DepositERC20(opts *bind.TransactOpts, token common.Address, amount *big.Int,
	toChainId *big.Int, to common.Address) (*ethtypes.Transaction, error) {
	if err := checkMethod(b.abi, b.tokenDepositMethod, false, argAddress, argUint256, argUint256, argAddress); err != nil {
		return nil, err
	}

	return b.contract.Transact(opts, b.tokenDepositMethod, token, amount, toChainId, to)
}

// DepositNative calls depositNative(toChainId, to) with amount attached as the tx value.
func (b *Bridge) DepositNative(opts *bind.TransactOpts, amount *big.Int, toChainId *big.Int,
	to common.Address) (*ethtypes.Transaction, error) {
	if err := checkMethod(b.abi, b.nativeDepositMethod, true, argUint256, argAddress); err != nil {
		return nil, err
	}

	valueOpts := *opts
	valueOpts.Value = amount

	return b.contract.Transact(&valueOpts, b.nativeDepositMethod, toChainId, to)
}

// Token is a binding to an ERC20 contract.
type Token struct {
	contract      *bind.BoundContract
	approveMethod string
}

func NewToken(address common.Address, client EthClient) (*Token, error) {
	parsed, err := parseABI(ERC20ABI)
	if err != nil {
		return nil, err
	}

	return &Token{
		contract:      bind.NewBoundContract(address, parsed, client, client, client),
		approveMethod: DefaultApproveMethod,
	}, nil
}

// Approve allows spender to move up to amount of the token from opts.From.
func (t *Token) Approve(opts *bind.TransactOpts, spender common.Address, amount *big.Int) (*ethtypes.Transaction, error) {
	return t.contract.Transact(opts, t.approveMethod, spender, amount)
}
