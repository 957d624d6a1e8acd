package config

import (
	"fmt"
	"os"
	"strings"
)

const (
	EnvPrivateKey     = "PRIVATE_KEY"
	EnvFromRpc        = "FROM_RPC"
	EnvBridgeAddress  = "BRIDGE_ADDRESS"
	EnvTokenAddress   = "TOKEN_ADDRESS"
	EnvToChainId      = "TO_CHAIN_ID"
	EnvToRecipient    = "TO_RECIPIENT"
	EnvAmount         = "AMOUNT"
	EnvContractConfig = "BRIDGE_CONFIG"
)

type MissingConfigErr struct {
	Names []string
}

func NewMissingConfigErr(names []string) error {
	return &MissingConfigErr{Names: names}
}

func (e *MissingConfigErr) Error() string {
	return fmt.Sprintf("Missing env var: %s", strings.Join(e.Names, ", "))
}

type InvalidConfigErr struct {
	Name  string
	Value string
	Err   error
}

func NewInvalidConfigErr(name, value string, err error) error {
	return &InvalidConfigErr{Name: name, Value: value, Err: err}
}

func (e *InvalidConfigErr) Error() string {
	return fmt.Sprintf("Invalid value for %s (%q): %v", e.Name, e.Value, e.Err)
}

func (e *InvalidConfigErr) Unwrap() error {
	return e.Err
}

// Contract describes the bridge contract surface. Empty fields fall back to the generic
// depositERC20/depositNative ABI.
type Contract struct {
	Abi                 string `toml:"abi"`
	TokenDepositMethod  string `toml:"token_deposit_method"`
	NativeDepositMethod string `toml:"native_deposit_method"`
}

type Bridge struct {
	PrivateKey    string
	FromRpc       string
	BridgeAddress string
	TokenAddress  string
	ToChainId     string
	ToRecipient   string
	Amount        string

	ContractConfig string
	Contract       Contract
}

// LoadFromEnv reads the bridge config from the given lookup function. Pass nil to use the
// process environment.
func LoadFromEnv(getenv func(string) string) *Bridge {
	if getenv == nil {
		getenv = os.Getenv
	}

	get := func(name string) string {
		return strings.TrimSpace(getenv(name))
	}

	return &Bridge{
		PrivateKey:     get(EnvPrivateKey),
		FromRpc:        get(EnvFromRpc),
		BridgeAddress:  get(EnvBridgeAddress),
		TokenAddress:   get(EnvTokenAddress),
		ToChainId:      get(EnvToChainId),
		ToRecipient:    get(EnvToRecipient),
		Amount:         get(EnvAmount),
		ContractConfig: get(EnvContractConfig),
	}
}

// Validate checks that every required value is present. TOKEN_ADDRESS is optional.
func (b *Bridge) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{EnvPrivateKey, b.PrivateKey},
		{EnvFromRpc, b.FromRpc},
		{EnvBridgeAddress, b.BridgeAddress},
		{EnvToChainId, b.ToChainId},
		{EnvToRecipient, b.ToRecipient},
		{EnvAmount, b.Amount},
	}

	missing := make([]string, 0)
	for _, r := range required {
		if r.value == "" {
			missing = append(missing, r.name)
		}
	}

	if len(missing) > 0 {
		return NewMissingConfigErr(missing)
	}

	return nil
}
